package internal

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(os.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.False(t, cfg.Trace)
	assert.False(t, cfg.Quiet)
}

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "opslang")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "opslang.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("trace: true\nquiet: true\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Trace)
	assert.True(t, cfg.Quiet)
}

func TestLoadConfigMalformed(t *testing.T) {
	dir, err := ioutil.TempDir("", "opslang")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "opslang.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("trace: [not a bool"), 0644))

	_, err = LoadConfig(path)
	assert.Error(t, err)
}
