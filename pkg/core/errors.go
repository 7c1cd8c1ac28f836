package core

import "fmt"

// ErrorCode classifies a domain failure with a machine-readable tag. The HTTP
// layer maps codes to status codes; the services never recover from them
// silently.
type ErrorCode string

const (
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeDeleteFail             ErrorCode = "DELETE_FAIL"
	CodeMaxLimitExceeded       ErrorCode = "MAX_LIMIT_EXCEEDED"
	CodeConfirmedLimitExceeded ErrorCode = "CONFIRMED_LIMIT_EXCEEDED"
	CodeItemDuplicate          ErrorCode = "ITEM_DUPLICATE"
	CodeMembershipNotFound     ErrorCode = "MEMBERSHIP_NOT_FOUND"
	CodeColorExhausted         ErrorCode = "COLOR_EXHAUSTED"
	CodeValidation             ErrorCode = "VALIDATION"
	CodeUpstreamFailure        ErrorCode = "UPSTREAM_FAILURE"
)

// Error is a typed domain failure. Two Errors match under errors.Is when
// their codes are equal, so the catalog values below double as sentinels.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on the error code, ignoring message and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Error catalog. Use these directly or wrap a cause with WrapError.
var (
	ErrNotFound               = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrDeleteFail             = &Error{Code: CodeDeleteFail, Message: "confirmed markers cannot be deleted"}
	ErrMaxLimitExceeded       = &Error{Code: CodeMaxLimitExceeded, Message: "marker limit for this schedule exceeded"}
	ErrConfirmedLimitExceeded = &Error{Code: CodeConfirmedLimitExceeded, Message: "confirmed marker limit for this schedule exceeded"}
	ErrItemDuplicate          = &Error{Code: CodeItemDuplicate, Message: "a schedule item already exists for this marker"}
	ErrMembershipNotFound     = &Error{Code: CodeMembershipNotFound, Message: "member has no color assignment in this room"}
	ErrColorExhausted         = &Error{Code: CodeColorExhausted, Message: "no free member colors left in this room"}
)

// NewError builds an Error with a custom message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError builds an Error carrying an underlying cause.
func WrapError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
