package env

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/program"
	"github.com/liquidity-lending/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testBook struct {
	owner, obligation, referrer                   solana.PublicKey
	reserve, market, authority                    solana.PublicKey
	liquidityMint, liquiditySupply, feeReceiver   solana.PublicKey
	collateralMint, liquidityUser, collateralUser solana.PublicKey
}

func newTestBook() *testBook {
	key := func() solana.PublicKey { return solana.NewWallet().PublicKey() }
	return &testBook{
		owner: key(), obligation: key(), referrer: key(),
		reserve: key(), market: key(), authority: key(),
		liquidityMint: key(), liquiditySupply: key(), feeReceiver: key(),
		collateralMint: key(), liquidityUser: key(), collateralUser: key(),
	}
}

func (b *testBook) write(t *testing.T, withReferrer bool) string {
	t.Helper()
	referrer := ""
	if withReferrer {
		referrer = fmt.Sprintf("referrer_token_state = %q\n", b.referrer)
	}
	body := fmt.Sprintf(`owner = %q
obligation = %q
%s
[tokens]
%q = %q
%q = %q

[reserves.USDC]
decimals = 6
reserve = %q
lending_market = %q
lending_market_authority = %q
liquidity_mint = %q
liquidity_supply = %q
liquidity_fee_receiver = %q
collateral_mint = %q
collateral_token_program = %q
`,
		b.owner, b.obligation, referrer,
		b.liquidityMint, b.liquidityUser,
		b.collateralMint, b.collateralUser,
		b.reserve, b.market, b.authority, b.liquidityMint, b.liquiditySupply, b.feeReceiver, b.collateralMint,
		program.Token2022)
	path := filepath.Join(t.TempDir(), "book.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func startEnv(t *testing.T, path string) *Env {
	t.Helper()
	e := NewEnv(context.Background(), path)
	require.NoError(t, e.Start())
	return e
}

func TestBookReserve(t *testing.T) {
	b := newTestBook()
	e := startEnv(t, b.write(t, true))

	assert.Equal(t, []string{"USDC"}, e.ReserveNames())
	reserve, err := e.Reserve("USDC")
	require.NoError(t, err)
	assert.EqualValues(t, 6, reserve.Decimals)
	assert.Equal(t, b.reserve, reserve.Key)
	assert.Equal(t, program.Token, reserve.LiquidityTokenProgram)
	assert.Equal(t, program.Token2022, reserve.CollateralTokenProgram)
	assert.Equal(t, b.owner, e.Owner())
	assert.Equal(t, b.liquidityUser, e.TokenUser(b.liquidityMint))

	_, err = e.Reserve("SOL")
	assert.Error(t, err)
}

func TestBookDepositAccounts(t *testing.T) {
	b := newTestBook()
	e := startEnv(t, b.write(t, false))

	accounts, err := e.DepositAccounts("USDC", program.KaminoLending)
	require.NoError(t, err)
	assert.Equal(t, b.owner, accounts.Owner)
	assert.Equal(t, b.reserve, accounts.Reserve)
	assert.Equal(t, b.liquidityUser, accounts.UserSourceLiquidity)
	assert.Equal(t, b.collateralUser, accounts.UserDestinationCollateral)
	assert.Equal(t, program.SysInstructions, accounts.InstructionSysvar)
	assert.Equal(t, program.KaminoLending, accounts.LendingProgram)

	metas, err := accounts.Metas()
	require.NoError(t, err)
	assert.Len(t, metas, 12)
}

func TestBookBorrowAccounts(t *testing.T) {
	b := newTestBook()

	e := startEnv(t, b.write(t, true))
	accounts, err := e.BorrowAccounts("USDC", program.KaminoLending)
	require.NoError(t, err)
	assert.False(t, accounts.ReferrerTokenState.IsFallback())
	assert.Equal(t, b.referrer, accounts.ReferrerTokenState.Account())
	assert.Equal(t, b.feeReceiver, accounts.BorrowReserveLiquidityFeeReceiver)
	assert.Equal(t, b.liquiditySupply, accounts.ReserveSourceLiquidity)

	e = startEnv(t, b.write(t, false))
	accounts, err = e.BorrowAccounts("USDC", program.KaminoLending)
	require.NoError(t, err)
	assert.True(t, accounts.ReferrerTokenState.IsFallback())
	assert.Equal(t, program.KaminoLending, accounts.ReferrerTokenState.Account())

	metas, err := accounts.Metas()
	require.NoError(t, err)
	assert.Len(t, metas, 12)
}

func TestBookRepayAccounts(t *testing.T) {
	b := newTestBook()
	e := startEnv(t, b.write(t, false))

	accounts, err := e.RepayAccounts("USDC", program.KaminoLending)
	require.NoError(t, err)
	assert.Equal(t, b.obligation, accounts.Obligation)
	assert.Equal(t, b.liquiditySupply, accounts.ReserveDestinationLiquidity)
	assert.Equal(t, b.liquidityUser, accounts.UserSourceLiquidity)

	metas, err := accounts.Metas()
	require.NoError(t, err)
	assert.Len(t, metas, 9)
}

func TestBookInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.toml")
	require.NoError(t, os.WriteFile(path, []byte(`owner = "not-a-key"`), 0644))
	e := NewEnv(context.Background(), path)
	assert.Error(t, e.Start())

	require.NoError(t, os.WriteFile(path, []byte(`obligation = ""`), 0644))
	e = NewEnv(context.Background(), path)
	assert.Error(t, e.Start())

	e = NewEnv(context.Background(), filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, e.Start())
}

func TestBookMissingTokenUser(t *testing.T) {
	b := newTestBook()
	path := b.write(t, false)
	e := startEnv(t, path)
	delete(e.tokensUser, b.collateralMint)

	_, err := e.DepositAccounts("USDC", program.KaminoLending)
	assert.Error(t, err)
}

func TestEnvLog(t *testing.T) {
	b := newTestBook()
	e := startEnv(t, b.write(t, true))
	e.Stop()

	data, err := os.ReadFile(utils.LogPath + utils.EnvLog + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "book loaded")
	assert.Contains(t, string(data), "stop env")
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "env-log")
	if err != nil {
		panic(err)
	}
	utils.LogPath = dir + "/"
	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}
