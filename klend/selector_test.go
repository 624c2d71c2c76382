package klend

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectors(t *testing.T) {
	tests := []struct {
		scheme   Scheme
		op       Operation
		expected []byte
	}{
		{SchemeIndex, OperationDeposit, []byte{13}},
		{SchemeIndex, OperationBorrow, []byte{23}},
		{SchemeIndex, OperationRepay, []byte{25}},
		{SchemeAnchor, OperationDeposit, []byte{169, 201, 30, 126, 6, 205, 102, 68}},
		{SchemeAnchor, OperationBorrow, []byte{121, 127, 18, 204, 73, 245, 225, 65}},
		{SchemeAnchor, OperationRepay, []byte{145, 178, 13, 225, 76, 240, 147, 72}},
	}
	for _, tc := range tests {
		t.Run(tc.scheme.String()+"/"+tc.op.String(), func(t *testing.T) {
			selector, err := tc.scheme.Selector(tc.op)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, selector)
			assert.Len(t, selector, tc.scheme.Width())
		})
	}
}

func TestSelectorUnknown(t *testing.T) {
	_, err := Scheme(0).Selector(OperationDeposit)
	assert.Error(t, err)

	_, err = SchemeIndex.Selector(Operation(9))
	assert.Error(t, err)

	_, err = SchemeAnchor.Selector(Operation(9))
	assert.Error(t, err)
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("index")
	require.NoError(t, err)
	assert.Equal(t, SchemeIndex, s)

	s, err = ParseScheme(" Anchor ")
	require.NoError(t, err)
	assert.Equal(t, SchemeAnchor, s)

	_, err = ParseScheme("")
	assert.Error(t, err)

	_, err = ParseScheme("borsh")
	assert.Error(t, err)
}

func TestEncodePayload(t *testing.T) {
	data, err := EncodePayload(SchemeIndex, OperationDeposit, 1_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, []byte{13, 0x00, 0xca, 0x9a, 0x3b, 0, 0, 0, 0}, data)

	data, err = EncodePayload(SchemeAnchor, OperationRepay, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{145, 178, 13, 225, 76, 240, 147, 72, 1, 0, 0, 0, 0, 0, 0, 0}, data)

	data, err = EncodePayload(SchemeIndex, OperationBorrow, math.MaxUint64)
	require.NoError(t, err)
	assert.Equal(t, []byte{23, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, data)
}

func TestPayloadRoundTrip(t *testing.T) {
	amounts := []uint64{0, 1, 255, 256, 500_000, 1_000_000_000, math.MaxUint32, math.MaxUint64 - 1, math.MaxUint64}
	for _, scheme := range []Scheme{SchemeIndex, SchemeAnchor} {
		for _, op := range []Operation{OperationDeposit, OperationBorrow, OperationRepay} {
			for _, amount := range amounts {
				data, err := EncodePayload(scheme, op, amount)
				require.NoError(t, err)
				require.Len(t, data, scheme.Width()+8)

				decodedOp, decodedAmount, err := DecodePayload(scheme, data)
				require.NoError(t, err)
				assert.Equal(t, op, decodedOp)
				assert.Equal(t, amount, decodedAmount)
			}
		}
	}
}

func TestDecodePayloadInvalid(t *testing.T) {
	_, _, err := DecodePayload(SchemeIndex, []byte{13, 1, 2})
	assert.True(t, errors.Is(err, ErrInvalidPayload))

	// an anchor payload does not decode under the index scheme
	data, err := EncodePayload(SchemeAnchor, OperationBorrow, 7)
	require.NoError(t, err)
	_, _, err = DecodePayload(SchemeIndex, data)
	assert.True(t, errors.Is(err, ErrInvalidPayload))

	_, _, err = DecodePayload(SchemeIndex, []byte{12, 0, 0, 0, 0, 0, 0, 0, 1})
	assert.True(t, errors.Is(err, ErrInvalidPayload))

	_, _, err = DecodePayload(Scheme(0), []byte{13})
	assert.Error(t, err)
}
