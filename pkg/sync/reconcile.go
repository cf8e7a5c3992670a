package sync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/sidkik/foldersync/pkg/errors"
)

// Stats counts the changes made to the replica during a pass.
type Stats struct {
	CreatedDirs  int
	CopiedFiles  int
	CopiedBytes  int64
	DeletedFiles int
	DeletedDirs  int
}

// Changed returns whether the pass modified the replica.
func (s Stats) Changed() bool {
	return s != Stats{}
}

// PassError is returned when a pass fails. It wraps whatever filesystem
// operation failed first, and the pass is abandoned at that point.
type PassError struct {
	Source  string
	Replica string
	Err     error
}

func (err *PassError) Error() string {
	return err.Err.Error()
}

// Unwrap returns the error that caused the pass to fail.
func (err *PassError) Unwrap() error {
	return err.Err
}

// Reconciler makes a replica directory match a source directory.
type Reconciler struct {
	fs  afero.Fs
	log logrus.FieldLogger
}

// NewReconciler returns a Reconciler that operates on `fs` and logs every
// change it makes to `log`.
func NewReconciler(fs afero.Fs, log logrus.FieldLogger) *Reconciler {
	return &Reconciler{fs: fs, log: log}
}

// Reconcile runs a single pass that makes `replica` an exact copy of
// `source`. Any error is returned as a *PassError.
func (r *Reconciler) Reconcile(source, replica string) (Stats, error) {
	var stats Stats
	if err := r.checkSource(source); err != nil {
		return stats, &PassError{Source: source, Replica: replica, Err: err}
	}

	if err := r.reconcileDir(source, replica, &stats); err != nil {
		return stats, &PassError{Source: source, Replica: replica, Err: err}
	}
	return stats, nil
}

func (r *Reconciler) checkSource(source string) error {
	fi, err := r.fs.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileNotFound{Path: source}
		}
		return errors.WithContext(err, "stat source")
	}

	if !fi.IsDir() {
		return errors.NotADirectory{Path: source}
	}
	return nil
}

// reconcileDir syncs the files directly within `source`, and then recurses
// into its subdirectories. All file operations for a directory finish before
// any of its subdirectories are visited.
func (r *Reconciler) reconcileDir(source, replica string, stats *Stats) error {
	if err := r.ensureDir(replica, stats); err != nil {
		return err
	}

	sourceContents, err := r.list(source)
	if err != nil {
		return err
	}

	for _, name := range sourceContents.names {
		fi := sourceContents.entries[name]
		if fi.IsDir() {
			continue
		}

		srcPath := filepath.Join(source, name)
		if !fi.Mode().IsRegular() {
			r.log.WithField("path", srcPath).Debug("Skipping irregular file")
			continue
		}

		if err := r.syncFile(srcPath, filepath.Join(replica, name), stats); err != nil {
			return err
		}
	}

	// List the replica after copying so that directories that were replaced
	// by files aren't considered for pruning.
	replicaContents, err := r.list(replica)
	if err != nil {
		return err
	}

	for _, name := range replicaContents.names {
		if replicaContents.hasDir(name) || sourceContents.hasFile(name) {
			continue
		}

		path := filepath.Join(replica, name)
		if err := r.fs.Remove(path); err != nil {
			return errors.WithContext(err, "delete file")
		}
		stats.DeletedFiles++
		r.log.Infof("Deleted file: %s", path)
	}

	for _, name := range sourceContents.names {
		if !sourceContents.hasDir(name) {
			continue
		}

		err := r.reconcileDir(filepath.Join(source, name), filepath.Join(replica, name), stats)
		if err != nil {
			return err
		}
	}

	for _, name := range replicaContents.names {
		if !replicaContents.hasDir(name) || sourceContents.hasDir(name) {
			continue
		}

		if err := r.removeDir(filepath.Join(replica, name), stats); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) ensureDir(dir string, stats *Stats) error {
	exists, err := afero.DirExists(r.fs, dir)
	if err != nil {
		return errors.WithContext(err, "check if directory exists")
	}

	if exists {
		return nil
	}

	if err := r.fs.MkdirAll(dir, 0755); err != nil {
		return errors.WithContext(err, "create directory")
	}
	stats.CreatedDirs++
	r.log.Infof("Created directory: %s", dir)
	return nil
}

// syncFile copies `src` to `dst` if `dst` is missing or has different
// contents. A directory at `dst` is removed before copying.
func (r *Reconciler) syncFile(src, dst string, stats *Stats) error {
	fi, err := r.fs.Stat(dst)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return errors.WithContext(err, "stat replica file")
	case fi.IsDir():
		if err := r.removeDir(dst, stats); err != nil {
			return err
		}
	default:
		equal, err := filesEqual(r.fs, src, dst)
		if err != nil {
			return errors.WithContext(err, "compare files")
		}

		if equal {
			return nil
		}
	}

	n, err := copyFile(r.fs, src, dst)
	if err != nil {
		return errors.WithContext(err, "copy file")
	}
	stats.CopiedFiles++
	stats.CopiedBytes += n
	r.log.Infof("Copied/Updated file: %s to %s", src, dst)
	return nil
}

func (r *Reconciler) removeDir(dir string, stats *Stats) error {
	if err := r.fs.RemoveAll(dir); err != nil {
		return errors.WithContext(err, "delete directory")
	}
	stats.DeletedDirs++
	r.log.Infof("Deleted directory: %s", dir)
	return nil
}

// dirContents is a directory listing sorted by name.
type dirContents struct {
	names   []string
	entries map[string]os.FileInfo
}

func (c dirContents) hasFile(name string) bool {
	fi, ok := c.entries[name]
	return ok && fi.Mode().IsRegular()
}

func (c dirContents) hasDir(name string) bool {
	fi, ok := c.entries[name]
	return ok && fi.IsDir()
}

func (r *Reconciler) list(dir string) (dirContents, error) {
	// afero.ReadDir sorts the entries by name.
	infos, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return dirContents{}, errors.WithContext(err, fmt.Sprintf("list %q", dir))
	}

	contents := dirContents{entries: map[string]os.FileInfo{}}
	for _, fi := range infos {
		contents.names = append(contents.names, fi.Name())
		contents.entries[fi.Name()] = fi
	}
	return contents, nil
}

// copyFile overwrites `dst` with the contents of `src`, and returns the
// number of bytes copied.
func copyFile(fs afero.Fs, src, dst string) (int64, error) {
	srcFile, err := fs.Open(src)
	if err != nil {
		return 0, errors.WithContext(err, "open source")
	}
	defer srcFile.Close()

	fileInfo, err := srcFile.Stat()
	if err != nil {
		return 0, errors.WithContext(err, "stat")
	}

	dstFile, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileInfo.Mode().Perm())
	if err != nil {
		return 0, errors.WithContext(err, "open destination")
	}

	n, err := io.Copy(dstFile, srcFile)
	if err != nil {
		dstFile.Close()
		return n, errors.WithContext(err, "write")
	}

	if err := dstFile.Close(); err != nil {
		return n, errors.WithContext(err, "close destination")
	}
	return n, nil
}
