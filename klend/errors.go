package klend

import "github.com/pkg/errors"

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidAccountState = errors.New("invalid account state")
	ErrInvalidProgramId    = errors.New("invalid program id")
	ErrInvalidPayload      = errors.New("invalid instruction payload")
)
