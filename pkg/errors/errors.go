// Package errors contains the error helpers used throughout foldersync.
// Errors are wrapped with a short description of what was being attempted,
// so that a failure deep in a sync pass reads like
// "copy file: open /replica/a.txt: permission denied".
package errors

import (
	"fmt"

	pkgErrors "github.com/pkg/errors"
)

// New returns an error with the given message. The arguments are handled in
// the manner of fmt.Sprintf.
func New(format string, args ...interface{}) error {
	return pkgErrors.Errorf(format, args...)
}

// WithContext annotates `err` with a description of the operation that
// failed. It returns nil if `err` is nil.
func WithContext(err error, context string) error {
	return pkgErrors.Wrap(err, context)
}

// RootCause returns the original error that was wrapped by WithContext.
func RootCause(err error) error {
	return pkgErrors.Cause(err)
}

// FriendlyError is an error whose message is written for the user, and
// should be printed as-is rather than with the context of where it
// originated.
type FriendlyError struct {
	msg string
}

// NewFriendlyError creates a FriendlyError. The arguments are handled in the
// manner of fmt.Sprintf.
func NewFriendlyError(format string, args ...interface{}) error {
	return FriendlyError{fmt.Sprintf(format, args...)}
}

func (err FriendlyError) Error() string {
	return err.msg
}

// GetPrintableMessage returns the message that should be shown to the user
// for `err`.
func GetPrintableMessage(err error) string {
	if friendlyErr, ok := RootCause(err).(FriendlyError); ok {
		return friendlyErr.Error()
	}
	return err.Error()
}
