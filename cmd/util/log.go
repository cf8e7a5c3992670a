package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/foldersync/pkg/errors"
)

// TimestampFormat is the layout of the local timestamp at the start of each
// log line.
const TimestampFormat = "2006-01-02 15:04:05"

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// LineFormatter formats entries as "<local-timestamp>: <message>". Fields
// attached to the entry are appended as sorted key=value pairs.
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s: %s", entry.Time.Local().Format(TimestampFormat), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// OpenLogFile opens `path` for appending, creating it if necessary. The file
// is never truncated.
func OpenLogFile(path string) (afero.File, error) {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.WithContext(err, "open log file")
	}
	return f, nil
}

// NewLogger returns a logger that writes every entry to all of `outs`.
func NewLogger(level logrus.Level, outs ...io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(LineFormatter{})
	logger.SetOutput(io.MultiWriter(outs...))
	logger.SetLevel(level)
	return logger
}
