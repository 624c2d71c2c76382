package klend

import (
	"encoding/binary"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

type Operation uint8

const (
	OperationDeposit Operation = iota
	OperationBorrow
	OperationRepay
)

var operations = []Operation{OperationDeposit, OperationBorrow, OperationRepay}

func (op Operation) String() string {
	switch op {
	case OperationDeposit:
		return "deposit_reserve_liquidity"
	case OperationBorrow:
		return "borrow_obligation_liquidity"
	case OperationRepay:
		return "repay_obligation_liquidity"
	}
	return fmt.Sprintf("operation(%d)", uint8(op))
}

// Scheme is the discriminator layout the deployed lending program expects.
// It is a property of the deployment target and must be configured, not guessed.
type Scheme uint8

const (
	// SchemeIndex prefixes the payload with a one byte instruction index.
	SchemeIndex Scheme = iota + 1
	// SchemeAnchor prefixes the payload with sha256("global:<method>")[:8].
	SchemeAnchor
)

var indexSelectors = map[Operation]byte{
	OperationDeposit: 13,
	OperationBorrow:  23,
	OperationRepay:   25,
}

func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "index":
		return SchemeIndex, nil
	case "anchor":
		return SchemeAnchor, nil
	}
	return 0, errors.Errorf("unknown selector scheme: %q", s)
}

func (s Scheme) String() string {
	switch s {
	case SchemeIndex:
		return "index"
	case SchemeAnchor:
		return "anchor"
	}
	return fmt.Sprintf("scheme(%d)", uint8(s))
}

func (s Scheme) Width() int {
	switch s {
	case SchemeIndex:
		return 1
	case SchemeAnchor:
		return 8
	}
	return 0
}

func (s Scheme) Selector(op Operation) ([]byte, error) {
	switch s {
	case SchemeIndex:
		index, ok := indexSelectors[op]
		if !ok {
			return nil, errors.Errorf("no index selector for %s", op)
		}
		return []byte{index}, nil
	case SchemeAnchor:
		if op > OperationRepay {
			return nil, errors.Errorf("no anchor selector for %s", op)
		}
		return bin.Sighash(bin.SIGHASH_GLOBAL_NAMESPACE, op.String()), nil
	}
	return nil, errors.Errorf("unknown selector scheme: %d", s)
}

// EncodePayload lays out selector || amount (u64, little endian). Nothing else
// is written: no length prefix, no padding.
func EncodePayload(s Scheme, op Operation, amount uint64) ([]byte, error) {
	selector, err := s.Selector(op)
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(selector)+8)
	copy(data, selector)
	binary.LittleEndian.PutUint64(data[len(selector):], amount)
	return data, nil
}

// DecodePayload is the inverse of EncodePayload.
func DecodePayload(s Scheme, data []byte) (Operation, uint64, error) {
	width := s.Width()
	if width == 0 {
		return 0, 0, errors.Errorf("unknown selector scheme: %d", s)
	}
	if len(data) != width+8 {
		return 0, 0, errors.Wrapf(ErrInvalidPayload, "length %d, expected %d", len(data), width+8)
	}
	decoder := bin.NewBorshDecoder(data)
	selector, err := decoder.ReadNBytes(width)
	if err != nil {
		return 0, 0, errors.Wrap(ErrInvalidPayload, err.Error())
	}
	amount, err := decoder.ReadUint64(binary.LittleEndian)
	if err != nil {
		return 0, 0, errors.Wrap(ErrInvalidPayload, err.Error())
	}
	for _, op := range operations {
		expected, _ := s.Selector(op)
		if string(expected) == string(selector) {
			return op, amount, nil
		}
	}
	return 0, 0, errors.Wrapf(ErrInvalidPayload, "unknown selector %x", selector)
}
