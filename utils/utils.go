package utils

import (
	"fmt"
	"math"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	LogPath    = "./logs/"
	BackendLog = "backend"
	RelayLog   = "relay"
	EnvLog     = "env"
	ConfigPath = "./config/"
	ConfigFile = ConfigPath + "config.json"
	BookFile   = ConfigPath + "book.toml"
)

func NewLog(dir, name string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{fmt.Sprintf("%s%s.log", dir, name)}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger.Named(name)
}

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// ToBaseUnits converts a token amount in display units into the integer
// amount the chain works with, e.g. 1.5 USDC with 6 decimals is 1500000.
func ToBaseUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, errors.Errorf("negative amount: %s", amount)
	}
	units := amount.Shift(int32(decimals))
	if !units.Equal(units.Truncate(0)) {
		return 0, errors.Errorf("amount %s has more than %d decimals", amount, decimals)
	}
	if units.GreaterThan(maxUint64) {
		return 0, errors.Errorf("amount %s overflows u64", amount)
	}
	return units.BigInt().Uint64(), nil
}

// FromBaseUnits is the inverse of ToBaseUnits.
func FromBaseUnits(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}
