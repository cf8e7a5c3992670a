package config

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sidkik/foldersync/pkg/errors"
)

// Usage describes the command line arguments.
const Usage = "Usage: foldersync <source_folder> <replica_folder> " +
	"<sync_interval_in_seconds> <log_file>"

// Config contains the settings for a foldersync process.
type Config struct {
	// Source is the directory that's mirrored.
	Source string

	// Replica is the directory that's kept identical to Source. Anything in
	// it that isn't in Source is deleted.
	Replica string

	// Interval is the time to wait between the end of one sync pass and the
	// start of the next.
	Interval time.Duration

	// LogFile is the path that log messages are appended to, in addition to
	// being printed to stdout.
	LogFile string
}

// Parse parses the positional command line arguments. Arguments after the
// fourth are ignored. All returned errors are FriendlyErrors.
func Parse(args []string) (Config, error) {
	if len(args) < 4 {
		return Config{}, errors.NewFriendlyError(Usage)
	}

	interval, err := parseInterval(args[2])
	if err != nil {
		return Config{}, err
	}

	var paths [3]string
	for i, arg := range []string{args[0], args[1], args[3]} {
		path, err := homedirExpand(arg)
		if err != nil {
			return Config{}, errors.NewFriendlyError(
				"Failed to expand the home directory in %q: %s", arg, err)
		}
		paths[i] = filepath.Clean(path)
	}

	cfg := Config{
		Source:   paths[0],
		Replica:  paths[1],
		Interval: interval,
		LogFile:  paths[2],
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseInterval(arg string) (time.Duration, error) {
	seconds, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errors.NewFriendlyError("Invalid sync interval. It should be a number.")
	}

	if seconds < 0 {
		return 0, errors.NewFriendlyError("Invalid sync interval. It should not be negative.")
	}

	if int64(seconds) > math.MaxInt64/int64(time.Second) {
		return 0, errors.NewFriendlyError("Invalid sync interval. It is too large.")
	}
	return time.Duration(seconds) * time.Second, nil
}

// validate rejects configurations where a sync pass would damage the source
// or the log file.
func (cfg Config) validate() error {
	source, err := filepath.Abs(cfg.Source)
	if err != nil {
		return errors.NewFriendlyError("Failed to resolve the source folder %q: %s", cfg.Source, err)
	}

	replica, err := filepath.Abs(cfg.Replica)
	if err != nil {
		return errors.NewFriendlyError("Failed to resolve the replica folder %q: %s", cfg.Replica, err)
	}

	logFile, err := filepath.Abs(cfg.LogFile)
	if err != nil {
		return errors.NewFriendlyError("Failed to resolve the log file %q: %s", cfg.LogFile, err)
	}

	switch {
	case source == replica:
		return errors.NewFriendlyError("The source and replica folders must be different.")
	case isWithin(source, replica):
		return errors.NewFriendlyError("The replica folder must not be inside the source folder.")
	case isWithin(replica, source):
		return errors.NewFriendlyError("The source folder must not be inside the replica folder.")
	case logFile == replica || isWithin(replica, logFile):
		return errors.NewFriendlyError("The log file must not be inside the replica folder, " +
			"since it would be deleted by the sync.")
	}

	isDir, err := afero.IsDir(fs, logFile)
	if err == nil && isDir {
		return errors.NewFriendlyError("The log file %q is a directory.", cfg.LogFile)
	}
	return nil
}

// isWithin returns whether `path` is a strict child of `dir`. Both paths must
// be absolute and clean.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
