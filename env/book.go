package env

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/klend"
	"github.com/liquidity-lending/program"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type reserveEntry struct {
	Decimals               uint8  `toml:"decimals"`
	Reserve                string `toml:"reserve"`
	LendingMarket          string `toml:"lending_market"`
	LendingMarketAuthority string `toml:"lending_market_authority"`
	LiquidityMint          string `toml:"liquidity_mint"`
	LiquiditySupply        string `toml:"liquidity_supply"`
	LiquidityFeeReceiver   string `toml:"liquidity_fee_receiver"`
	CollateralMint         string `toml:"collateral_mint"`
	LiquidityTokenProgram  string `toml:"liquidity_token_program"`
	CollateralTokenProgram string `toml:"collateral_token_program"`
}

type bookFile struct {
	Owner              string                  `toml:"owner"`
	Obligation         string                  `toml:"obligation"`
	ReferrerTokenState string                  `toml:"referrer_token_state"`
	Tokens             map[string]string       `toml:"tokens"`
	Reserves           map[string]reserveEntry `toml:"reserves"`
}

// Reserve holds the lending program accounts of one reserve.
type Reserve struct {
	Name                   string
	Decimals               uint8
	Key                    solana.PublicKey
	LendingMarket          solana.PublicKey
	LendingMarketAuthority solana.PublicKey
	LiquidityMint          solana.PublicKey
	LiquiditySupply        solana.PublicKey
	LiquidityFeeReceiver   solana.PublicKey
	CollateralMint         solana.PublicKey
	LiquidityTokenProgram  solana.PublicKey
	CollateralTokenProgram solana.PublicKey
}

func (e *Env) loadBook() error {
	var book bookFile
	if _, err := toml.DecodeFile(e.book, &book); err != nil {
		return errors.Wrapf(err, "load book %s", e.book)
	}
	return e.buildBook(&book)
}

func (e *Env) buildBook(book *bookFile) error {
	var err error
	if e.owner, err = parseKey("owner", book.Owner, false); err != nil {
		return err
	}
	if e.obligation, err = parseKey("obligation", book.Obligation, true); err != nil {
		return err
	}
	if e.referrer, err = parseKey("referrer_token_state", book.ReferrerTokenState, true); err != nil {
		return err
	}
	for mint, account := range book.Tokens {
		mintKey, err := parseKey("tokens mint", mint, false)
		if err != nil {
			return err
		}
		accountKey, err := parseKey("tokens account", account, false)
		if err != nil {
			return err
		}
		e.tokensUser[mintKey] = accountKey
	}
	for name, entry := range book.Reserves {
		reserve, err := buildReserve(name, entry)
		if err != nil {
			return err
		}
		e.reserves[name] = reserve
	}
	e.logger.Info("book loaded",
		zap.Stringer("owner", e.owner),
		zap.Int("tokens", len(e.tokensUser)),
		zap.Strings("reserves", e.ReserveNames()))
	return nil
}

func buildReserve(name string, entry reserveEntry) (*Reserve, error) {
	reserve := &Reserve{
		Name:                   name,
		Decimals:               entry.Decimals,
		LiquidityTokenProgram:  program.Token,
		CollateralTokenProgram: program.Token,
	}
	fields := []struct {
		field    string
		value    string
		optional bool
		dst      *solana.PublicKey
	}{
		{"reserve", entry.Reserve, false, &reserve.Key},
		{"lending_market", entry.LendingMarket, false, &reserve.LendingMarket},
		{"lending_market_authority", entry.LendingMarketAuthority, false, &reserve.LendingMarketAuthority},
		{"liquidity_mint", entry.LiquidityMint, false, &reserve.LiquidityMint},
		{"liquidity_supply", entry.LiquiditySupply, false, &reserve.LiquiditySupply},
		{"liquidity_fee_receiver", entry.LiquidityFeeReceiver, true, &reserve.LiquidityFeeReceiver},
		{"collateral_mint", entry.CollateralMint, false, &reserve.CollateralMint},
		{"liquidity_token_program", entry.LiquidityTokenProgram, true, &reserve.LiquidityTokenProgram},
		{"collateral_token_program", entry.CollateralTokenProgram, true, &reserve.CollateralTokenProgram},
	}
	for _, f := range fields {
		key, err := parseKey(name+"."+f.field, f.value, f.optional)
		if err != nil {
			return nil, err
		}
		if !key.IsZero() {
			*f.dst = key
		}
	}
	return reserve, nil
}

func parseKey(field string, value string, optional bool) (solana.PublicKey, error) {
	if value == "" {
		if optional {
			return solana.PublicKey{}, nil
		}
		return solana.PublicKey{}, errors.Errorf("book: missing %s", field)
	}
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, errors.Wrapf(err, "book: invalid %s", field)
	}
	return key, nil
}

func (e *Env) ReserveNames() []string {
	names := make([]string, 0, len(e.reserves))
	for name := range e.reserves {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Env) Reserve(name string) (*Reserve, error) {
	reserve, ok := e.reserves[name]
	if !ok {
		return nil, errors.Errorf("no reserve named %q", name)
	}
	return reserve, nil
}

func (e *Env) tokenUser(mint solana.PublicKey) (solana.PublicKey, error) {
	account := e.TokenUser(mint)
	if account.IsZero() {
		return solana.PublicKey{}, errors.Errorf("no token user: %s", mint)
	}
	return account, nil
}

func (e *Env) DepositAccounts(name string, lending solana.PublicKey) (*klend.DepositAccounts, error) {
	reserve, err := e.Reserve(name)
	if err != nil {
		return nil, err
	}
	source, err := e.tokenUser(reserve.LiquidityMint)
	if err != nil {
		return nil, err
	}
	destination, err := e.tokenUser(reserve.CollateralMint)
	if err != nil {
		return nil, err
	}
	return &klend.DepositAccounts{
		Owner:                     e.owner,
		Reserve:                   reserve.Key,
		LendingMarket:             reserve.LendingMarket,
		LendingMarketAuthority:    reserve.LendingMarketAuthority,
		ReserveLiquidityMint:      reserve.LiquidityMint,
		ReserveLiquiditySupply:    reserve.LiquiditySupply,
		ReserveCollateralMint:     reserve.CollateralMint,
		UserSourceLiquidity:       source,
		UserDestinationCollateral: destination,
		CollateralTokenProgram:    reserve.CollateralTokenProgram,
		LiquidityTokenProgram:     reserve.LiquidityTokenProgram,
		InstructionSysvar:         program.SysInstructions,
		LendingProgram:            lending,
	}, nil
}

// BorrowAccounts falls back to the lending program in the referrer slot when
// the book names no referrer token state.
func (e *Env) BorrowAccounts(name string, lending solana.PublicKey) (*klend.BorrowAccounts, error) {
	reserve, err := e.Reserve(name)
	if err != nil {
		return nil, err
	}
	if e.obligation.IsZero() {
		return nil, errors.New("book: borrow needs an obligation")
	}
	if reserve.LiquidityFeeReceiver.IsZero() {
		return nil, errors.Errorf("book: %s has no liquidity_fee_receiver", name)
	}
	destination, err := e.tokenUser(reserve.LiquidityMint)
	if err != nil {
		return nil, err
	}
	referrer := klend.UseFallback(lending)
	if !e.referrer.IsZero() {
		referrer = klend.WithReferrer(e.referrer)
	}
	return &klend.BorrowAccounts{
		Owner:                             e.owner,
		Obligation:                        e.obligation,
		LendingMarket:                     reserve.LendingMarket,
		LendingMarketAuthority:            reserve.LendingMarketAuthority,
		BorrowReserve:                     reserve.Key,
		BorrowReserveLiquidityMint:        reserve.LiquidityMint,
		ReserveSourceLiquidity:            reserve.LiquiditySupply,
		BorrowReserveLiquidityFeeReceiver: reserve.LiquidityFeeReceiver,
		UserDestinationLiquidity:          destination,
		ReferrerTokenState:                referrer,
		TokenProgram:                      reserve.LiquidityTokenProgram,
		InstructionSysvar:                 program.SysInstructions,
		LendingProgram:                    lending,
	}, nil
}

func (e *Env) RepayAccounts(name string, lending solana.PublicKey) (*klend.RepayAccounts, error) {
	reserve, err := e.Reserve(name)
	if err != nil {
		return nil, err
	}
	if e.obligation.IsZero() {
		return nil, errors.New("book: repay needs an obligation")
	}
	source, err := e.tokenUser(reserve.LiquidityMint)
	if err != nil {
		return nil, err
	}
	return &klend.RepayAccounts{
		Owner:                       e.owner,
		Obligation:                  e.obligation,
		LendingMarket:               reserve.LendingMarket,
		RepayReserve:                reserve.Key,
		ReserveLiquidityMint:        reserve.LiquidityMint,
		ReserveDestinationLiquidity: reserve.LiquiditySupply,
		UserSourceLiquidity:         source,
		TokenProgram:                reserve.LiquidityTokenProgram,
		InstructionSysvar:           program.SysInstructions,
		LendingProgram:              lending,
	}, nil
}
