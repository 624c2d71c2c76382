package klend

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

type referrerKind uint8

const (
	referrerUnset referrerKind = iota
	referrerSome
	referrerFallback
)

// Referrer fills the referrer_token_state slot of a borrow. The lending program
// always expects an account in that slot, so an absent referrer is replaced by
// a fallback account rather than left out.
type Referrer struct {
	kind    referrerKind
	account solana.PublicKey
}

// WithReferrer passes a referrer token state, writable.
func WithReferrer(account solana.PublicKey) Referrer {
	return Referrer{kind: referrerSome, account: account}
}

// UseFallback puts a stand-in account into the referrer slot, readonly.
func UseFallback(account solana.PublicKey) Referrer {
	return Referrer{kind: referrerFallback, account: account}
}

func (r Referrer) IsFallback() bool {
	return r.kind == referrerFallback
}

func (r Referrer) Account() solana.PublicKey {
	return r.account
}

func (r Referrer) meta() (*solana.AccountMeta, error) {
	switch r.kind {
	case referrerSome:
		return &solana.AccountMeta{PublicKey: r.account, IsSigner: false, IsWritable: true}, nil
	case referrerFallback:
		return &solana.AccountMeta{PublicKey: r.account, IsSigner: false, IsWritable: false}, nil
	}
	return nil, errors.Wrap(ErrInvalidAccountState, "referrer token state slot is unset")
}

type DepositAccounts struct {
	Owner                     solana.PublicKey
	Reserve                   solana.PublicKey
	LendingMarket             solana.PublicKey
	LendingMarketAuthority    solana.PublicKey
	ReserveLiquidityMint      solana.PublicKey
	ReserveLiquiditySupply    solana.PublicKey
	ReserveCollateralMint     solana.PublicKey
	UserSourceLiquidity       solana.PublicKey
	UserDestinationCollateral solana.PublicKey
	CollateralTokenProgram    solana.PublicKey
	LiquidityTokenProgram     solana.PublicKey
	InstructionSysvar         solana.PublicKey
	// LendingProgram is the caller supplied target program, checked against
	// the configured one when verification is on.
	LendingProgram solana.PublicKey
}

func (a *DepositAccounts) Metas() ([]*solana.AccountMeta, error) {
	err := requireKeys([]namedKey{
		{"owner", a.Owner},
		{"reserve", a.Reserve},
		{"lending_market", a.LendingMarket},
		{"lending_market_authority", a.LendingMarketAuthority},
		{"reserve_liquidity_mint", a.ReserveLiquidityMint},
		{"reserve_liquidity_supply", a.ReserveLiquiditySupply},
		{"reserve_collateral_mint", a.ReserveCollateralMint},
		{"user_source_liquidity", a.UserSourceLiquidity},
		{"user_destination_collateral", a.UserDestinationCollateral},
		{"collateral_token_program", a.CollateralTokenProgram},
		{"liquidity_token_program", a.LiquidityTokenProgram},
		{"instruction_sysvar", a.InstructionSysvar},
	})
	if err != nil {
		return nil, err
	}
	return []*solana.AccountMeta{
		{PublicKey: a.Owner, IsSigner: true, IsWritable: false},
		{PublicKey: a.Reserve, IsSigner: false, IsWritable: true},
		{PublicKey: a.LendingMarket, IsSigner: false, IsWritable: false},
		{PublicKey: a.LendingMarketAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: a.ReserveLiquidityMint, IsSigner: false, IsWritable: false},
		{PublicKey: a.ReserveLiquiditySupply, IsSigner: false, IsWritable: true},
		{PublicKey: a.ReserveCollateralMint, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserSourceLiquidity, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserDestinationCollateral, IsSigner: false, IsWritable: true},
		{PublicKey: a.CollateralTokenProgram, IsSigner: false, IsWritable: false},
		{PublicKey: a.LiquidityTokenProgram, IsSigner: false, IsWritable: false},
		{PublicKey: a.InstructionSysvar, IsSigner: false, IsWritable: false},
	}, nil
}

type BorrowAccounts struct {
	Owner                             solana.PublicKey
	Obligation                        solana.PublicKey
	LendingMarket                     solana.PublicKey
	LendingMarketAuthority            solana.PublicKey
	BorrowReserve                     solana.PublicKey
	BorrowReserveLiquidityMint        solana.PublicKey
	ReserveSourceLiquidity            solana.PublicKey
	BorrowReserveLiquidityFeeReceiver solana.PublicKey
	UserDestinationLiquidity          solana.PublicKey
	ReferrerTokenState                Referrer
	TokenProgram                      solana.PublicKey
	InstructionSysvar                 solana.PublicKey
	LendingProgram                    solana.PublicKey
}

func (a *BorrowAccounts) Metas() ([]*solana.AccountMeta, error) {
	err := requireKeys([]namedKey{
		{"owner", a.Owner},
		{"obligation", a.Obligation},
		{"lending_market", a.LendingMarket},
		{"lending_market_authority", a.LendingMarketAuthority},
		{"borrow_reserve", a.BorrowReserve},
		{"borrow_reserve_liquidity_mint", a.BorrowReserveLiquidityMint},
		{"reserve_source_liquidity", a.ReserveSourceLiquidity},
		{"borrow_reserve_liquidity_fee_receiver", a.BorrowReserveLiquidityFeeReceiver},
		{"user_destination_liquidity", a.UserDestinationLiquidity},
		{"token_program", a.TokenProgram},
		{"instruction_sysvar", a.InstructionSysvar},
	})
	if err != nil {
		return nil, err
	}
	referrer, err := a.ReferrerTokenState.meta()
	if err != nil {
		return nil, err
	}
	if referrer.PublicKey.IsZero() {
		return nil, errors.Wrap(ErrInvalidAccountState, "missing referrer_token_state")
	}
	return []*solana.AccountMeta{
		{PublicKey: a.Owner, IsSigner: true, IsWritable: false},
		{PublicKey: a.Obligation, IsSigner: false, IsWritable: true},
		{PublicKey: a.LendingMarket, IsSigner: false, IsWritable: false},
		{PublicKey: a.LendingMarketAuthority, IsSigner: false, IsWritable: false},
		{PublicKey: a.BorrowReserve, IsSigner: false, IsWritable: true},
		{PublicKey: a.BorrowReserveLiquidityMint, IsSigner: false, IsWritable: false},
		{PublicKey: a.ReserveSourceLiquidity, IsSigner: false, IsWritable: true},
		{PublicKey: a.BorrowReserveLiquidityFeeReceiver, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserDestinationLiquidity, IsSigner: false, IsWritable: true},
		referrer,
		{PublicKey: a.TokenProgram, IsSigner: false, IsWritable: false},
		{PublicKey: a.InstructionSysvar, IsSigner: false, IsWritable: false},
	}, nil
}

type RepayAccounts struct {
	Owner                       solana.PublicKey
	Obligation                  solana.PublicKey
	LendingMarket               solana.PublicKey
	RepayReserve                solana.PublicKey
	ReserveLiquidityMint        solana.PublicKey
	ReserveDestinationLiquidity solana.PublicKey
	UserSourceLiquidity         solana.PublicKey
	TokenProgram                solana.PublicKey
	InstructionSysvar           solana.PublicKey
	LendingProgram              solana.PublicKey
}

func (a *RepayAccounts) Metas() ([]*solana.AccountMeta, error) {
	err := requireKeys([]namedKey{
		{"owner", a.Owner},
		{"obligation", a.Obligation},
		{"lending_market", a.LendingMarket},
		{"repay_reserve", a.RepayReserve},
		{"reserve_liquidity_mint", a.ReserveLiquidityMint},
		{"reserve_destination_liquidity", a.ReserveDestinationLiquidity},
		{"user_source_liquidity", a.UserSourceLiquidity},
		{"token_program", a.TokenProgram},
		{"instruction_sysvar", a.InstructionSysvar},
	})
	if err != nil {
		return nil, err
	}
	return []*solana.AccountMeta{
		{PublicKey: a.Owner, IsSigner: true, IsWritable: false},
		{PublicKey: a.Obligation, IsSigner: false, IsWritable: true},
		{PublicKey: a.LendingMarket, IsSigner: false, IsWritable: false},
		{PublicKey: a.RepayReserve, IsSigner: false, IsWritable: true},
		{PublicKey: a.ReserveLiquidityMint, IsSigner: false, IsWritable: false},
		{PublicKey: a.ReserveDestinationLiquidity, IsSigner: false, IsWritable: true},
		{PublicKey: a.UserSourceLiquidity, IsSigner: false, IsWritable: true},
		{PublicKey: a.TokenProgram, IsSigner: false, IsWritable: false},
		{PublicKey: a.InstructionSysvar, IsSigner: false, IsWritable: false},
	}, nil
}

type namedKey struct {
	name string
	key  solana.PublicKey
}

func requireKeys(keys []namedKey) error {
	for _, k := range keys {
		if k.key.IsZero() {
			return errors.Wrapf(ErrInvalidAccountState, "missing %s", k.name)
		}
	}
	return nil
}
