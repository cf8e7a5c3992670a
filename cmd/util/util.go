package util

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"

	"github.com/sidkik/foldersync/pkg/errors"
)

// Mocked out for unit testing.
var exit = os.Exit

// HandleFatalError prints the error and exits. Friendly errors are printed
// without any decoration.
func HandleFatalError(err error) {
	if friendlyErr, ok := errors.RootCause(err).(errors.FriendlyError); ok {
		fmt.Fprintln(os.Stderr, friendlyErr.Error())
	} else {
		log.WithError(err).Error("Fatal error")
	}
	exit(1)
}

// HandlePanic logs any panic in the current goroutine, and exits. It must be
// deferred.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Errorf("Panic: %v", r)
		exit(1)
	}
}
