package sqldb

import (
	"context"
	"errors"
	"fmt"
)

// Kind names the stage an error came from. It is serialized as the error "name"
type Kind string

const (
	KindConnect   Kind = "ConnectError"
	KindPrepare   Kind = "PrepareError"
	KindExecute   Kind = "ExecuteError"
	KindUnprepare Kind = "UnprepareError"
	KindQuery     Kind = "QueryError"
)

// Error codes
const (
	CodeRequest           = "EREQUEST" // rejected by the server
	CodeTimeout           = "ETIMEOUT"
	CodeCancel            = "ECANCEL"
	CodeConnClosed        = "ECONNCLOSED"
	CodeLogin             = "ELOGIN"
	CodeNotOpen           = "ENOTOPEN"
	CodeArgs              = "EARGS"  // argument/input mismatch
	CodeParam             = "EPARAM" // value violates the declared input
	CodeNotPrepared       = "ENOTPREPARED"
	CodeAlreadyPrepared   = "EALREADYPREPARED"
	CodeAlreadyUnprepared = "EALREADYUNPREPARED"
	CodeNoRows            = "ENOROWS"
	CodeUnknown           = "EUNKNOWN"
)

var ErrNoRows = errors.New("sqldb: no rows in result set")

// Error is the structured error every layer hands back.
// Backends fill Code/Number/State; the layer that observed the failure sets Kind
type Error struct {
	Kind    Kind   `json:"name"`
	Code    string `json:"code"`
	Number  int    `json:"number,omitempty"` // vendor error number
	State   string `json:"state,omitempty"`  // SQLSTATE when the vendor has one
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	var prefix string
	if e.Kind != "" {
		prefix = string(e.Kind) + ": "
	}
	if e.Number != 0 {
		return fmt.Sprintf("%s%s (%d) %s", prefix, e.Code, e.Number, e.Message)
	}
	return fmt.Sprintf("%s%s %s", prefix, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AsKind returns err as an *Error of kind k. Nil stays nil.
// A kind already set by a lower layer is kept, so the first stage to fail is reported
func AsKind(k Kind, err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		cp := *e
		if cp.Kind == "" {
			cp.Kind = k
		}
		return &cp
	}
	return &Error{Kind: k, Code: codeFor(err), Message: err.Error(), Err: err}
}

// FromDriver builds an unkinded *Error from a driver failure
func FromDriver(code string, number int, state string, err error) *Error {
	if code == "" {
		code = codeFor(err)
	}
	return &Error{Code: code, Number: number, State: state, Message: err.Error(), Err: err}
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, context.Canceled):
		return CodeCancel
	case errors.Is(err, ErrNoRows):
		return CodeNoRows
	default:
		return CodeUnknown
	}
}
