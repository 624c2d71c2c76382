package config

import (
	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/backend"
	"github.com/liquidity-lending/klend"
	"github.com/liquidity-lending/program"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Rpc            string `mapstructure:"rpc"`
	SendTx         int    `mapstructure:"send_tx"`
	Key            string `mapstructure:"key"`
	User           string `mapstructure:"user"`
	LendingProgram string `mapstructure:"lending_program"`
	RelayProgram   string `mapstructure:"relay_program"`
	SelectorScheme string `mapstructure:"selector_scheme"`
	VerifyProgram  bool   `mapstructure:"verify_program"`
	WorkSpace      string `mapstructure:"workspace"`

	Player  solana.PublicKey `mapstructure:"-"`
	Lending solana.PublicKey `mapstructure:"-"`
	Relay   solana.PublicKey `mapstructure:"-"`
	Scheme  klend.Scheme     `mapstructure:"-"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetDefault("send_tx", backend.SendNone)
	v.SetDefault("lending_program", program.KaminoLending.String())
	v.SetDefault("relay_program", program.Relay.String())
	v.SetDefault("verify_program", true)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the raw values and resolves the typed ones.
func (cfg *Config) Validate() error {
	var err error
	if cfg.SendTx < backend.SendNone || cfg.SendTx > backend.SendRpc {
		return errors.Errorf("invalid send_tx: %d", cfg.SendTx)
	}
	if cfg.SendTx != backend.SendNone && cfg.Rpc == "" {
		return errors.New("rpc endpoint is required to simulate or send")
	}
	// the selector layout belongs to the deployed target, there is no default
	cfg.Scheme, err = klend.ParseScheme(cfg.SelectorScheme)
	if err != nil {
		return err
	}
	cfg.Lending, err = solana.PublicKeyFromBase58(cfg.LendingProgram)
	if err != nil {
		return errors.Wrap(err, "invalid lending_program")
	}
	cfg.Relay, err = solana.PublicKeyFromBase58(cfg.RelayProgram)
	if err != nil {
		return errors.Wrap(err, "invalid relay_program")
	}
	if cfg.User != "" {
		cfg.Player, err = solana.PublicKeyFromBase58(cfg.User)
		if err != nil {
			return errors.Wrap(err, "invalid user")
		}
	}
	if cfg.SendTx != backend.SendNone && cfg.Player.IsZero() && cfg.Key == "" {
		return errors.New("user or key is required to simulate or send")
	}
	return nil
}
