package patch

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOperation = errors.New("invalid operation")
	ErrInvalidPointer   = errors.New("invalid pointer")
	ErrPathNotFound     = errors.New("path not found")
	ErrInvalidIndex     = errors.New("invalid array index")
	ErrMissingValue     = errors.New("missing value")
	ErrTestFailed       = errors.New("test failed")
	ErrInvalidMove      = errors.New("cannot move a value into one of its own children")
	ErrInvalidDocument  = errors.New("patched document does not match the resource shape")
)

// OperationError は Index 番目の操作が失敗したことを表します。以降の操作は適用されません。
type OperationError struct {
	Index int
	Op    string
	Path  string
	Err   error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("patch: operation %d (%s %q): %v", e.Index, e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
