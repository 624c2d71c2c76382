package klend

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/liquidity-lending/program"
	"github.com/liquidity-lending/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Invoker submits one instruction to the chain and reports its outcome.
type Invoker interface {
	Invoke(ctx context.Context, ix solana.Instruction) error
}

type Program struct {
	ctx     context.Context
	logger  *zap.Logger
	invoker Invoker
	id      solana.PublicKey
	scheme  Scheme
	verify  bool
}

func NewProgram(id solana.PublicKey, ctx context.Context, invoker Invoker, scheme Scheme, verify bool) *Program {
	p := &Program{
		ctx:     ctx,
		logger:  zap.L(),
		invoker: invoker,
		id:      id,
		scheme:  scheme,
		verify:  verify,
	}
	return p
}

func (p *Program) Name() string {
	return "kamino lending"
}

func (p *Program) Id() solana.PublicKey {
	return p.id
}

func (p *Program) Scheme() Scheme {
	return p.scheme
}

func (p *Program) Start() error {
	p.logger = utils.NewLog(utils.LogPath, "klend")
	p.logger.Info("start program",
		zap.String("name", p.Name()),
		zap.Stringer("program", p.id),
		zap.Stringer("scheme", p.scheme),
		zap.Bool("verify", p.verify))
	return nil
}

func (p *Program) Stop() error {
	p.logger.Info("stop program", zap.String("name", p.Name()), zap.Stringer("program", p.id))
	return p.logger.Sync()
}

func (p *Program) DepositReserveLiquidity(amount uint64, accounts *DepositAccounts) error {
	in, err := p.InstructionDepositReserveLiquidity(amount, accounts)
	if err != nil {
		return err
	}
	return p.invoke(OperationDeposit, amount, in)
}

func (p *Program) BorrowObligationLiquidity(amount uint64, accounts *BorrowAccounts) error {
	in, err := p.InstructionBorrowObligationLiquidity(amount, accounts)
	if err != nil {
		return err
	}
	return p.invoke(OperationBorrow, amount, in)
}

func (p *Program) RepayObligationLiquidity(amount uint64, accounts *RepayAccounts) error {
	in, err := p.InstructionRepayObligationLiquidity(amount, accounts)
	if err != nil {
		return err
	}
	return p.invoke(OperationRepay, amount, in)
}

// invoke hands the instruction over and returns whatever the invoker returns,
// untouched.
func (p *Program) invoke(op Operation, amount uint64, in solana.Instruction) error {
	fields := []zap.Field{
		zap.Stringer("operation", op),
		zap.Uint64("amount", amount),
		zap.Stringer("program", in.ProgramID()),
		zap.Int("accounts", len(in.Accounts())),
	}
	if ix, ok := in.(*program.Instruction); ok {
		keys := ix.InvokeAccounts()
		invoked := make([]string, 0, len(keys))
		for _, key := range keys {
			invoked = append(invoked, key.String())
		}
		fields = append(fields, zap.Strings("invoke_accounts", invoked))
	}
	p.logger.Info("relay instruction", fields...)
	err := p.invoker.Invoke(p.ctx, in)
	if err != nil {
		p.logger.Warn("relay instruction failed", zap.Stringer("operation", op), zap.Error(err))
	}
	return err
}

func (p *Program) InstructionDepositReserveLiquidity(amount uint64, accounts *DepositAccounts) (solana.Instruction, error) {
	if amount == 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s amount must be positive", OperationDeposit)
	}
	metas, err := accounts.Metas()
	if err != nil {
		return nil, err
	}
	return p.instruction(OperationDeposit, amount, metas, accounts.LendingProgram)
}

func (p *Program) InstructionBorrowObligationLiquidity(amount uint64, accounts *BorrowAccounts) (solana.Instruction, error) {
	if amount == 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s amount must be positive", OperationBorrow)
	}
	metas, err := accounts.Metas()
	if err != nil {
		return nil, err
	}
	return p.instruction(OperationBorrow, amount, metas, accounts.LendingProgram)
}

func (p *Program) InstructionRepayObligationLiquidity(amount uint64, accounts *RepayAccounts) (solana.Instruction, error) {
	if amount == 0 {
		return nil, errors.Wrapf(ErrInvalidAmount, "%s amount must be positive", OperationRepay)
	}
	metas, err := accounts.Metas()
	if err != nil {
		return nil, err
	}
	return p.instruction(OperationRepay, amount, metas, accounts.LendingProgram)
}

func (p *Program) instruction(op Operation, amount uint64, metas []*solana.AccountMeta, supplied solana.PublicKey) (solana.Instruction, error) {
	if err := p.verifyProgram(supplied); err != nil {
		return nil, err
	}
	data, err := EncodePayload(p.scheme, op, amount)
	if err != nil {
		return nil, err
	}
	instruction := &program.Instruction{
		IsAccounts:  metas,
		IsData:      data,
		IsProgramID: p.id,
	}
	return instruction, nil
}

func (p *Program) verifyProgram(supplied solana.PublicKey) error {
	if !p.verify {
		return nil
	}
	if supplied.IsZero() {
		return errors.Wrap(ErrInvalidAccountState, "missing lending program account")
	}
	if !supplied.Equals(p.id) {
		return errors.Wrapf(ErrInvalidProgramId, "expected: %s, actual: %s", p.id, supplied)
	}
	return nil
}
