package grouping

import (
	"errors"
	"fmt"
)

const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeMemberNotFound  = "MEMBER_NOT_FOUND"
	CodeSlotNotJoinable = "SLOT_NOT_JOINABLE"
	CodeInvalidConfig   = "INVALID_CONFIG"
)

// GroupingError is returned for malformed input or configuration.
// Constraint violations are not errors; they come back as rejection reasons.
type GroupingError struct {
	Code    string
	Message string
}

func (e *GroupingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newGroupingError(code, format string, args ...interface{}) error {
	return &GroupingError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsCode reports whether err is a GroupingError with the given code.
func IsCode(err error, code string) bool {
	var ge *GroupingError
	return errors.As(err, &ge) && ge.Code == code
}
