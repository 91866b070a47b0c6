package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the base for every validation error. The HTTP layer
	// maps anything wrapping it to a 400.
	ErrInvalidInput = errors.New("invalid input")

	ErrNotFound         = errors.New("not found")
	ErrProtectedAccount = errors.New("account is protected")
	ErrAccountInUse     = errors.New("account still has transactions")

	ErrInvalidAmount     = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrInvalidKind       = fmt.Errorf("%w: kind must be income or expense", ErrInvalidInput)
	ErrInvalidOrigin     = fmt.Errorf("%w: origin must reference an account or a credit card", ErrInvalidInput)
	ErrInvalidClosingDay = fmt.Errorf("%w: closing day must be between 1 and 31", ErrInvalidInput)
	ErrInvalidDate       = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrEmptyName         = fmt.Errorf("%w: empty name", ErrInvalidInput)
	ErrEmptyDescription  = fmt.Errorf("%w: empty description", ErrInvalidInput)
	ErrMissingPeriod     = fmt.Errorf("%w: month and year are required", ErrInvalidInput)
	ErrImmutableField    = fmt.Errorf("%w: amount, kind and origin cannot change after creation", ErrInvalidInput)
)
