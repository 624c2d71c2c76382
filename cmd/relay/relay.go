package relay

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/backend"
	"github.com/liquidity-lending/config"
	"github.com/liquidity-lending/env"
	"github.com/liquidity-lending/klend"
	"github.com/liquidity-lending/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Relay struct {
	ctx     context.Context
	log     *zap.Logger
	config  *config.Config
	backend *backend.Backend
	env     *env.Env
	lending *klend.Program
}

func NewRelay(ctx context.Context, cfg *config.Config) (*Relay, error) {
	be := backend.NewBackend(ctx, cfg.Rpc, cfg.SendTx)
	if cfg.Key != "" {
		if err := be.ImportWallet(cfg.Key); err != nil {
			return nil, err
		}
	}
	if !cfg.Player.IsZero() {
		be.SetPlayer(cfg.Player)
	}
	relay := newRelay(ctx, cfg, be, env.NewEnv(ctx, utils.BookFile))
	relay.backend = be
	return relay, nil
}

func newRelay(ctx context.Context, cfg *config.Config, invoker klend.Invoker, e *env.Env) *Relay {
	return &Relay{
		ctx:     ctx,
		log:     zap.L(),
		config:  cfg,
		env:     e,
		lending: klend.NewProgram(cfg.Lending, ctx, invoker, cfg.Scheme, cfg.VerifyProgram),
	}
}

func (r *Relay) Start() error {
	r.log = utils.NewLog(utils.LogPath, utils.RelayLog)
	if r.backend != nil {
		r.backend.Start()
	}
	if err := r.lending.Start(); err != nil {
		return err
	}
	if err := r.env.Start(); err != nil {
		return err
	}
	r.log.Info("relay has started", zap.Stringer("lending", r.lending.Id()), zap.Stringer("scheme", r.lending.Scheme()))
	return nil
}

func (r *Relay) Stop() {
	if err := r.lending.Stop(); err != nil {
		r.log.Warn("stop lending program", zap.Error(err))
	}
	if r.backend != nil {
		r.backend.Stop()
	}
	r.env.Stop()
	r.log.Info("relay has stopped")
	_ = r.log.Sync()
}

func (r *Relay) units(name string, amount decimal.Decimal) (uint64, error) {
	reserve, err := r.env.Reserve(name)
	if err != nil {
		return 0, err
	}
	units, err := utils.ToBaseUnits(amount, reserve.Decimals)
	if err != nil {
		return 0, err
	}
	r.log.Info("amount",
		zap.String("reserve", name),
		zap.Stringer("amount", utils.FromBaseUnits(units, reserve.Decimals)),
		zap.Uint8("decimals", reserve.Decimals),
		zap.Uint64("units", units))
	return units, nil
}

func (r *Relay) Deposit(name string, amount decimal.Decimal) error {
	units, err := r.units(name, amount)
	if err != nil {
		return err
	}
	accounts, err := r.env.DepositAccounts(name, r.config.Lending)
	if err != nil {
		return err
	}
	return r.lending.DepositReserveLiquidity(units, accounts)
}

func (r *Relay) Borrow(name string, amount decimal.Decimal) error {
	units, err := r.units(name, amount)
	if err != nil {
		return err
	}
	accounts, err := r.env.BorrowAccounts(name, r.config.Lending)
	if err != nil {
		return err
	}
	return r.lending.BorrowObligationLiquidity(units, accounts)
}

func (r *Relay) Repay(name string, amount decimal.Decimal) error {
	units, err := r.units(name, amount)
	if err != nil {
		return err
	}
	accounts, err := r.env.RepayAccounts(name, r.config.Lending)
	if err != nil {
		return err
	}
	return r.lending.RepayObligationLiquidity(units, accounts)
}

// RelayInstruction builds the instruction a client sends to the on-chain relay
// program for op, instead of calling the lending program directly.
func (r *Relay) RelayInstruction(op klend.Operation, name string, amount decimal.Decimal) (solana.Instruction, error) {
	units, err := r.units(name, amount)
	if err != nil {
		return nil, err
	}
	var metas []*solana.AccountMeta
	switch op {
	case klend.OperationDeposit:
		accounts, err := r.env.DepositAccounts(name, r.config.Lending)
		if err != nil {
			return nil, err
		}
		metas, err = accounts.Metas()
		if err != nil {
			return nil, err
		}
	case klend.OperationBorrow:
		accounts, err := r.env.BorrowAccounts(name, r.config.Lending)
		if err != nil {
			return nil, err
		}
		metas, err = accounts.Metas()
		if err != nil {
			return nil, err
		}
	case klend.OperationRepay:
		accounts, err := r.env.RepayAccounts(name, r.config.Lending)
		if err != nil {
			return nil, err
		}
		metas, err = accounts.Metas()
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown operation: %s", op)
	}
	return klend.InstructionRelay(r.config.Relay, r.config.Lending, op, units, metas)
}
