package backend

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Invoke submits a single instruction and returns its outcome. Nothing is
// retried: a failure is handed straight back to the caller.
func (backend *Backend) Invoke(ctx context.Context, ix solana.Instruction) error {
	data, err := ix.Data()
	if err != nil {
		return errors.Wrap(err, "instruction data")
	}
	backend.logger.Info("invoke",
		zap.Stringer("program", ix.ProgramID()),
		zap.Int("accounts", len(ix.Accounts())),
		zap.String("data", base58.Encode(data)))
	if backend.sendTx == SendNone {
		return nil
	}
	trx, err := backend.build(ctx, ix)
	if err != nil {
		return err
	}
	switch backend.sendTx {
	case SendSimulate:
		return backend.executeSimulate(ctx, trx)
	case SendRpc:
		return backend.execute(ctx, trx)
	}
	return errors.Errorf("unknown send_tx: %d", backend.sendTx)
}

func (backend *Backend) build(ctx context.Context, ix solana.Instruction) (*solana.Transaction, error) {
	if backend.player.IsZero() {
		return nil, errors.New("no fee payer")
	}
	blockHash, err := backend.GetRecentBlockHash(ctx)
	if err != nil {
		return nil, err
	}
	trx, err := solana.NewTransaction([]solana.Instruction{ix}, blockHash, solana.TransactionPayer(backend.player))
	if err != nil {
		return nil, errors.Wrap(err, "build transaction")
	}
	_, err = trx.Sign(backend.getWallet)
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}
	return trx, nil
}

func (backend *Backend) execute(ctx context.Context, trx *solana.Transaction) error {
	signature, err := backend.rpcClient.SendTransactionWithOpts(ctx, trx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		backend.logger.Warn("SendTransactionWithOpts err", zap.Error(err))
		return errors.Wrap(err, "send transaction")
	}
	backend.logger.Info("transaction sent", zap.Stringer("signature", signature))
	return nil
}

func (backend *Backend) executeSimulate(ctx context.Context, trx *solana.Transaction) error {
	response, err := backend.rpcClient.SimulateTransactionWithOpts(ctx, trx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		Commitment:             rpc.CommitmentConfirmed,
		ReplaceRecentBlockhash: true,
	})
	if err != nil {
		backend.logger.Warn("SimulateTransactionWithOpts err", zap.Error(err))
		return errors.Wrap(err, "simulate transaction")
	}
	if response == nil || response.Value == nil {
		return errors.New("simulate transaction: empty result")
	}
	result := response.Value
	backend.logger.Info("simulated", zap.Strings("logs", result.Logs))
	if result.Err != nil {
		return errors.Errorf("simulate err: %v", fmt.Sprint(result.Err))
	}
	return nil
}
