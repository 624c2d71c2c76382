package backend

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (backend *Backend) GetRecentBlockHash(ctx context.Context) (solana.Hash, error) {
	result, err := backend.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return solana.Hash{}, errors.Wrap(err, "get latest blockhash")
	}
	if result == nil || result.Value == nil {
		return solana.Hash{}, errors.New("get latest blockhash: empty result")
	}
	backend.logger.Debug("receive block hash",
		zap.Stringer("blockhash", result.Value.Blockhash),
		zap.Uint64("last_valid_block_height", result.Value.LastValidBlockHeight))
	return result.Value.Blockhash, nil
}
