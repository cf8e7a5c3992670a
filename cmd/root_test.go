package cmd

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/foldersync/pkg/config"
)

func TestRootCommandConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		exp  string
	}{
		{
			name: "NoArgs",
			exp:  config.Usage + "\n",
		},
		{
			name: "HelpIsNotAFlag",
			args: []string{"--help"},
			exp:  config.Usage + "\n",
		},
		{
			name: "BadInterval",
			args: []string{"/src", "/replica", "soon", "/sync.log"},
			exp:  "Invalid sync interval. It should be a number.\n",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := New()
			cmd.SetOutput(&out)
			// A nil slice makes cobra fall back to os.Args.
			cmd.SetArgs(append([]string{}, test.args...))

			assert.NoError(t, cmd.Execute())
			assert.Equal(t, test.exp, out.String())
		})
	}
}

func TestRun(t *testing.T) {
	root, err := ioutil.TempDir("", "foldersync-cmd-test")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	src := filepath.Join(root, "src")
	replica := filepath.Join(root, "replica")
	logPath := filepath.Join(root, "sync.log")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "sub", "file"), []byte("contents"), 0644))

	// The driver always runs a pass before checking whether it should stop.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout bytes.Buffer
	cfg := config.Config{Source: src, Replica: replica, Interval: time.Hour, LogFile: logPath}
	require.NoError(t, run(ctx, cfg, &stdout))

	contents, err := ioutil.ReadFile(filepath.Join(replica, "sub", "file"))
	require.NoError(t, err)
	assert.Equal(t, "contents", string(contents))

	logContents, err := ioutil.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, stdout.String(), string(logContents))

	lines := strings.Split(strings.TrimSuffix(string(logContents), "\n"), "\n")
	expSuffixes := []string{
		": Created directory: " + replica,
		": Created directory: " + filepath.Join(replica, "sub"),
		": Copied/Updated file: " + filepath.Join(src, "sub", "file") + " to " + filepath.Join(replica, "sub", "file"),
	}
	require.Len(t, lines, len(expSuffixes))
	for i, suffix := range expSuffixes {
		assert.True(t, strings.HasSuffix(lines[i], suffix), lines[i])
	}

	// Running again appends to the log file, and logs the failure when the
	// source is gone.
	require.NoError(t, os.RemoveAll(src))
	stdout.Reset()
	require.NoError(t, run(ctx, cfg, &stdout))
	assert.True(t, strings.HasSuffix(stdout.String(),
		": Error during synchronization: \""+src+"\" does not exist\n"), stdout.String())

	logContents, err = ioutil.ReadFile(logPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSuffix(string(logContents), "\n"), "\n"), 4)
}

func TestRunLogFileError(t *testing.T) {
	root, err := ioutil.TempDir("", "foldersync-cmd-test")
	require.NoError(t, err)
	defer os.RemoveAll(root)

	cfg := config.Config{
		Source:  filepath.Join(root, "src"),
		Replica: filepath.Join(root, "replica"),
		LogFile: filepath.Join(root, "missing-dir", "sync.log"),
	}
	err = run(context.Background(), cfg, ioutil.Discard)
	assert.Error(t, err)
}
