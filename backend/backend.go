package backend

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/liquidity-lending/utils"
	"go.uber.org/zap"
)

const (
	SendNone     = 0
	SendSimulate = 1
	SendRpc      = 2
)

// RpcClient is the part of the Solana JSON-RPC client the backend needs.
type RpcClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	SimulateTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error)
}

type Backend struct {
	ctx       context.Context
	logger    *zap.Logger
	rpcClient RpcClient
	sendTx    int
	player    solana.PublicKey
	wallets   []*Wallet
}

func NewBackend(ctx context.Context, rpcEndpoint string, sendTx int) *Backend {
	return NewBackendWithClient(ctx, rpc.New(rpcEndpoint), sendTx)
}

func NewBackendWithClient(ctx context.Context, client RpcClient, sendTx int) *Backend {
	backend := &Backend{
		ctx:       ctx,
		logger:    zap.L(),
		rpcClient: client,
		sendTx:    sendTx,
		wallets:   make([]*Wallet, 0),
	}
	return backend
}

func (backend *Backend) SetLogger(logger *zap.Logger) {
	backend.logger = logger
}

func (backend *Backend) Start() {
	backend.logger = utils.NewLog(utils.LogPath, utils.BackendLog)
	backend.logger.Info("start backend", zap.Int("send_tx", backend.sendTx), zap.Stringer("player", backend.player))
}

func (backend *Backend) Stop() {
	backend.logger.Info("stop backend")
	_ = backend.logger.Sync()
}

func (backend *Backend) SetPlayer(player solana.PublicKey) {
	backend.player = player
}
