package sync

import (
	"crypto/sha512"
	"encoding/base64"
	"io"

	"github.com/spf13/afero"

	"github.com/sidkik/foldersync/pkg/errors"
)

// HashFile returns the sha512 hash of the file at the given path.
func HashFile(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", errors.WithContext(err, "open")
	}
	defer f.Close()

	hasher := sha512.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", errors.WithContext(err, "read")
	}

	return base64.StdEncoding.EncodeToString(hasher.Sum(nil)), nil
}

// filesEqual returns whether the two files have the same contents.
func filesEqual(fs afero.Fs, a, b string) (bool, error) {
	aHash, err := HashFile(fs, a)
	if err != nil {
		return false, errors.WithContext(err, "hash source")
	}

	bHash, err := HashFile(fs, b)
	if err != nil {
		return false, errors.WithContext(err, "hash replica")
	}
	return aHash == bHash, nil
}
