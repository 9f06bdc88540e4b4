package table

import (
	"errors"
	"fmt"
)

// Rejections: the operation did nothing and the table is unchanged.
var (
	ErrDuplicateKey = errors.New("duplicate primary key")
	ErrUnknownField = errors.New("record field is not a registered column")
)

// Contract violations: a caller (or the table itself) asked for something that
// cannot exist. They are always reported as *ContractError.
var (
	ErrUnknownColumn      = errors.New("unknown column")
	ErrPrimaryKeyColumn   = errors.New("operation not allowed on primary key column")
	ErrPositionOutOfRange = errors.New("position out of range")
)

type ContractError struct {
	Op     string
	Column string
	Err    error
}

func contractErrf(op, column string, err error) *ContractError {
	return &ContractError{Op: op, Column: column, Err: err}
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

func (e *ContractError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s '%s': %v", e.Op, e.Column, e.Err)
}

func IsContractViolation(err error) bool {
	var c *ContractError
	return errors.As(err, &c)
}
