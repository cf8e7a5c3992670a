package errors

import (
	goErrors "errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithContext(t *testing.T) {
	assert.NoError(t, WithContext(nil, "ignored"))

	err := WithContext(os.ErrPermission, "copy file")
	assert.EqualError(t, err, "copy file: permission denied")
	assert.Equal(t, os.ErrPermission, RootCause(err))
	assert.True(t, goErrors.Is(err, os.ErrPermission))

	nested := WithContext(WithContext(FileNotFound{Path: "/src"}, "stat"), "check source")
	assert.EqualError(t, nested, `check source: stat: "/src" does not exist`)

	var notFound FileNotFound
	assert.True(t, goErrors.As(nested, &notFound))
	assert.Equal(t, "/src", notFound.Path)
}

func TestGetPrintableMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		exp  string
	}{
		{
			name: "Friendly",
			err:  NewFriendlyError("Invalid sync interval. It should be a %s.", "number"),
			exp:  "Invalid sync interval. It should be a number.",
		},
		{
			name: "WrappedFriendly",
			err:  WithContext(NewFriendlyError("shown as-is"), "parse"),
			exp:  "shown as-is",
		},
		{
			name: "Unfriendly",
			err:  WithContext(New("boom %d", 1), "parse"),
			exp:  "parse: boom 1",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, GetPrintableMessage(test.err))
		})
	}
}

func TestNotADirectory(t *testing.T) {
	assert.EqualError(t, NotADirectory{Path: "/src/file"}, `"/src/file" is not a directory`)
}
