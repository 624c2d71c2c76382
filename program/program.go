package program

import "github.com/gagliardetto/solana-go"

var (
	KaminoLending   = solana.MustPublicKeyFromBase58("KLend2g3cP87fffoy8q1mQqGKjrxjC8boSyAYavgmjD")
	Relay           = solana.MustPublicKeyFromBase58("56PWFoBr3NtHRAgaAvJaERidrh87e7W4SxjqLzg7ePxZ")
	Token           = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	SysInstructions = solana.MustPublicKeyFromBase58("Sysvar1nstructions1111111111111111111111111")
)
