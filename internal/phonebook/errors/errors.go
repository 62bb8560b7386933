package errors

import (
	"fmt"
)

var (
	ErrNotFound            = fmt.Errorf("not found")
	ErrDuplicateName       = fmt.Errorf("Company Name is already in use")
	ErrInvalidInput        = fmt.Errorf("invalid input")
	ErrIDMismatch          = fmt.Errorf("id mismatch")
	ErrConcurrencyConflict = fmt.Errorf("concurrency conflict")
)
