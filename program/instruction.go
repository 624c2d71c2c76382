package program

import "github.com/gagliardetto/solana-go"

// Instruction is a fully assembled call into an on-chain program.
type Instruction struct {
	IsAccounts  []*solana.AccountMeta
	IsData      []byte
	IsProgramID solana.PublicKey
}

func (i *Instruction) Accounts() []*solana.AccountMeta {
	return i.IsAccounts
}

func (i *Instruction) ProgramID() solana.PublicKey {
	return i.IsProgramID
}

func (i *Instruction) Data() ([]byte, error) {
	return i.IsData, nil
}

// InvokeAccounts lists every account the call touches: the ordered instruction
// accounts followed by the target program, which routes the call but is not
// part of the instruction's own account list.
func (i *Instruction) InvokeAccounts() []solana.PublicKey {
	keys := make([]solana.PublicKey, 0, len(i.IsAccounts)+1)
	for _, meta := range i.IsAccounts {
		keys = append(keys, meta.PublicKey)
	}
	return append(keys, i.IsProgramID)
}
