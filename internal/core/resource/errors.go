package resource

import (
	"errors"
	"fmt"
)

// Kind はリソース操作の失敗種別です。
type Kind int

const (
	KindPersistence Kind = iota
	KindInvalidRequest
	KindNotFound
	KindConcurrencyConflict
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	default:
		return "persistence_error"
	}
}

// Error は種別付きのエラー値です。呼び出し側は Kind で分岐します。
type Error struct {
	Kind Kind
	// Op は失敗した操作名 (例: "employee.replace") です。
	Op string
	// Detail は呼び出し元へ公開してよい説明です。
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is は同じ種別のセンチネルと一致させます。
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Detail == "" && t.Err == nil && t.Kind == e.Kind
}

var (
	// ErrInvalidRequest は入力の検証に失敗した場合に返却されます。
	ErrInvalidRequest = &Error{Kind: KindInvalidRequest}
	// ErrNotFound は ID に対応するレコードが存在しない場合に返却されます。
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrConcurrencyConflict は書き込み時に前提とした状態が失われていた場合に返却されます。
	ErrConcurrencyConflict = &Error{Kind: KindConcurrencyConflict}
	// ErrPersistence はその他のストア障害を表します。
	ErrPersistence = &Error{Kind: KindPersistence}
)

// KindOf は err の種別を返します。種別を持たないエラーは永続化エラーとして扱います。
func KindOf(err error) Kind {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return KindPersistence
}

// DetailOf は呼び出し元へ公開してよい説明を返します。
func DetailOf(err error) string {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Detail
	}
	return ""
}

func invalid(op string, err error) error {
	return &Error{Kind: KindInvalidRequest, Op: op, Detail: err.Error(), Err: err}
}

func invalidf(op, format string, args ...any) error {
	return &Error{Kind: KindInvalidRequest, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func notFound(op string, id int64) error {
	return &Error{Kind: KindNotFound, Op: op, Detail: fmt.Sprintf("id %d does not exist", id)}
}

func persistence(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}
