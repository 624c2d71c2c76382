package relay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/liquidity-lending/config"
	"github.com/liquidity-lending/klend"
	"github.com/liquidity-lending/utils"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const (
	workspaceFlag string = "workspace"
)

// New returns the relayer root command with one subcommand per lending operation.
func New(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:           "relayer",
		Short:         "Relay deposit, borrow and repay instructions to Kamino Lending",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(workspaceFlag, ".", "workspace holding config/config.json and config/book.toml")

	root.AddCommand(
		newOperation(ctx, klend.OperationDeposit, "Deposit liquidity into a reserve", (*Relay).Deposit),
		newOperation(ctx, klend.OperationBorrow, "Borrow liquidity from a reserve", (*Relay).Borrow),
		newOperation(ctx, klend.OperationRepay, "Repay borrowed liquidity to a reserve", (*Relay).Repay),
		newRelayInstruction(ctx),
	)
	return root
}

func newOperation(ctx context.Context, op klend.Operation, short string, run func(*Relay, string, decimal.Decimal) error) *cobra.Command {
	return &cobra.Command{
		Use:   fmt.Sprintf("%s <reserve> <amount>", operationUse(op)),
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return errors.Wrapf(err, "invalid amount: %s", args[1])
			}
			relay, err := openRelay(ctx, cmd)
			if err != nil {
				return err
			}
			defer relay.Stop()
			return run(relay, args[0], amount)
		},
	}
}

func newRelayInstruction(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "relay-instruction <deposit|borrow|repay> <reserve> <amount>",
		Short: "Print the instruction calling the relay program",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := parseOperation(args[0])
			if err != nil {
				return err
			}
			amount, err := decimal.NewFromString(args[2])
			if err != nil {
				return errors.Wrapf(err, "invalid amount: %s", args[2])
			}
			relay, err := openRelay(ctx, cmd)
			if err != nil {
				return err
			}
			defer relay.Stop()
			ix, err := relay.RelayInstruction(op, args[1], amount)
			if err != nil {
				return err
			}
			data, err := ix.Data()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "program: %s\n", ix.ProgramID())
			for i, meta := range ix.Accounts() {
				fmt.Fprintf(out, "account %d: %s signer=%t writable=%t\n", i, meta.PublicKey, meta.IsSigner, meta.IsWritable)
			}
			fmt.Fprintf(out, "data: %s\n", base58.Encode(data))
			return nil
		},
	}
}

func operationUse(op klend.Operation) string {
	switch op {
	case klend.OperationDeposit:
		return "deposit"
	case klend.OperationBorrow:
		return "borrow"
	case klend.OperationRepay:
		return "repay"
	}
	return op.String()
}

func parseOperation(s string) (klend.Operation, error) {
	for _, op := range []klend.Operation{klend.OperationDeposit, klend.OperationBorrow, klend.OperationRepay} {
		if operationUse(op) == s {
			return op, nil
		}
	}
	return 0, errors.Errorf("unknown operation: %s", s)
}

func openRelay(ctx context.Context, cmd *cobra.Command) (*Relay, error) {
	workspace, err := cmd.Flags().GetString(workspaceFlag)
	if err != nil {
		return nil, err
	}
	if err := os.Chdir(workspace); err != nil {
		return nil, errors.Wrapf(err, "workspace: %s", workspace)
	}
	cfg, err := config.Load(utils.ConfigFile)
	if err != nil {
		return nil, err
	}
	cfg.WorkSpace = workspace
	wd, _ := os.Getwd()
	fmt.Fprintf(cmd.ErrOrStderr(), "work space: %s\n", wd)

	dir := fmt.Sprintf("./%s_log/", time.Now().Format("2006-01-02"))
	if err := os.MkdirAll(filepath.Clean(dir), os.ModePerm); err != nil {
		return nil, err
	}
	utils.LogPath = dir

	relay, err := NewRelay(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := relay.Start(); err != nil {
		relay.Stop()
		return nil, err
	}
	return relay, nil
}
