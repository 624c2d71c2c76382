package klend

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/program"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelaySelector(t *testing.T) {
	assert.Equal(t, []byte{78, 152, 126, 128, 133, 243, 108, 140}, RelaySelector(OperationDeposit))
	assert.Equal(t, []byte{157, 5, 198, 163, 133, 15, 0, 7}, RelaySelector(OperationBorrow))
	assert.Equal(t, []byte{32, 229, 6, 94, 210, 250, 29, 62}, RelaySelector(OperationRepay))
}

func TestInstructionRelay(t *testing.T) {
	accounts := newRepayAccounts()
	metas, err := accounts.Metas()
	require.NoError(t, err)

	ix, err := InstructionRelay(program.Relay, program.KaminoLending, OperationRepay, 1_000_000_000, metas)
	require.NoError(t, err)
	assert.Equal(t, program.Relay, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{32, 229, 6, 94, 210, 250, 29, 62, 0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0}, data)

	relayAccounts := ix.Accounts()
	require.Len(t, relayAccounts, len(metas)+1)
	assert.Equal(t, metas, relayAccounts[:len(metas)])
	last := relayAccounts[len(metas)]
	assert.Equal(t, program.KaminoLending, last.PublicKey)
	assert.False(t, last.IsSigner)
	assert.False(t, last.IsWritable)
}

func TestInstructionRelayBorrowFallbackReferrer(t *testing.T) {
	accounts := newBorrowAccounts(func(token solana.PublicKey) Referrer { return UseFallback(program.KaminoLending) })
	metas, err := accounts.Metas()
	require.NoError(t, err)
	require.Equal(t, program.KaminoLending, metas[9].PublicKey)

	ix, err := InstructionRelay(program.Relay, program.KaminoLending, OperationBorrow, 1, metas)
	require.NoError(t, err)

	relayAccounts := ix.Accounts()
	require.Len(t, relayAccounts, len(metas)+1)
	referrer := relayAccounts[9]
	assert.Equal(t, program.Relay, referrer.PublicKey)
	assert.False(t, referrer.IsWritable)
	assert.False(t, referrer.IsSigner)
	assert.Equal(t, metas[:9], relayAccounts[:9])
	assert.Equal(t, metas[10:], relayAccounts[10:len(metas)])
	assert.Equal(t, program.KaminoLending, relayAccounts[len(metas)].PublicKey)

	// the direct call accounts are left as they were
	assert.Equal(t, program.KaminoLending, metas[9].PublicKey)
}

func TestInstructionRelayBorrowWithReferrer(t *testing.T) {
	accounts := newBorrowAccounts(WithReferrer)
	metas, err := accounts.Metas()
	require.NoError(t, err)

	ix, err := InstructionRelay(program.Relay, program.KaminoLending, OperationBorrow, 1, metas)
	require.NoError(t, err)

	referrer := ix.Accounts()[9]
	assert.Equal(t, metas[9].PublicKey, referrer.PublicKey)
	assert.True(t, referrer.IsWritable)
}

func TestInstructionRelayInvalid(t *testing.T) {
	_, err := InstructionRelay(program.Relay, program.KaminoLending, OperationDeposit, 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	_, err = InstructionRelay(solana.PublicKey{}, program.KaminoLending, OperationDeposit, 1, nil)
	assert.True(t, errors.Is(err, ErrInvalidAccountState))

	_, err = InstructionRelay(program.Relay, program.KaminoLending, Operation(7), 1, nil)
	assert.Error(t, err)
}
