package klend

import (
	"encoding/binary"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/program"
	"github.com/pkg/errors"
)

// RelaySelector is the anchor method tag of the relay program's own entry
// point for op, e.g. kamino_deposit_reserve_liquidity.
func RelaySelector(op Operation) []byte {
	return bin.Sighash(bin.SIGHASH_GLOBAL_NAMESPACE, "kamino_"+op.String())
}

// borrowReferrerSlot is the position of referrer_token_state in the borrow accounts.
const borrowReferrerSlot = 9

// InstructionRelay builds the instruction a client sends to the relay program.
// The relay's accounts are the lending accounts in the same order followed by
// the lending program itself, which the relay forwards the call to.
// An absent borrow referrer is passed to the relay as the relay's own id, the
// key its optional account reads as none.
func InstructionRelay(relay solana.PublicKey, lending solana.PublicKey, op Operation, amount uint64, metas []*solana.AccountMeta) (solana.Instruction, error) {
	if amount == 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s amount must be positive", op)
	}
	if relay.IsZero() || lending.IsZero() {
		return nil, errors.Wrap(ErrInvalidAccountState, "missing relay or lending program")
	}
	if op > OperationRepay {
		return nil, errors.Errorf("unknown operation: %s", op)
	}
	data := make([]byte, 16)
	copy(data, RelaySelector(op))
	binary.LittleEndian.PutUint64(data[8:], amount)
	accounts := make([]*solana.AccountMeta, 0, len(metas)+1)
	accounts = append(accounts, metas...)
	if op == OperationBorrow && len(accounts) > borrowReferrerSlot {
		referrer := accounts[borrowReferrerSlot]
		if referrer.PublicKey.Equals(lending) && !referrer.IsWritable {
			accounts[borrowReferrerSlot] = &solana.AccountMeta{PublicKey: relay, IsSigner: false, IsWritable: false}
		}
	}
	accounts = append(accounts, &solana.AccountMeta{PublicKey: lending, IsSigner: false, IsWritable: false})
	instruction := &program.Instruction{
		IsAccounts:  accounts,
		IsData:      data,
		IsProgramID: relay,
	}
	return instruction, nil
}
