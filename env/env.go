package env

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/utils"
	"go.uber.org/zap"
)

type Env struct {
	logger     *zap.Logger
	ctx        context.Context
	book       string
	owner      solana.PublicKey
	obligation solana.PublicKey
	referrer   solana.PublicKey
	tokensUser map[solana.PublicKey]solana.PublicKey
	reserves   map[string]*Reserve
}

func NewEnv(ctx context.Context, book string) *Env {
	env := &Env{
		ctx:        ctx,
		logger:     zap.L(),
		book:       book,
		tokensUser: make(map[solana.PublicKey]solana.PublicKey),
		reserves:   make(map[string]*Reserve),
	}
	return env
}

func (e *Env) Start() error {
	e.logger = utils.NewLog(utils.LogPath, utils.EnvLog)
	e.logger.Info("start env", zap.String("book", e.book))
	return e.loadBook()
}

func (e *Env) Stop() {
	e.logger.Info("stop env")
	_ = e.logger.Sync()
}

func (e *Env) Owner() solana.PublicKey {
	return e.owner
}

// TokenUser returns the user's token account for mint, zero when unknown.
func (e *Env) TokenUser(mint solana.PublicKey) solana.PublicKey {
	return e.tokensUser[mint]
}
