package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ",", c.Delimiter)
	assert.Equal(t, ".", c.DecimalSeparator)
	assert.Equal(t, 4, c.Precision)
	assert.Equal(t, 10.0, c.DefaultTolerancePercent)
	assert.Equal(t, 2.0, c.DefaultToleranceSigma)
	assert.Equal(t, 1024, c.ChartWidth)
	assert.Equal(t, 600, c.ChartHeight)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delimiter: \";\"\ndecimal_separator: \",\"\nprecision: 3\n"), 0o644))
	t.Setenv("GEOQAQC_PRECISION", "2")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ";", c.Delimiter)
	assert.Equal(t, ",", c.DecimalSeparator)
	assert.Equal(t, 2, c.Precision, "env should override file")

	opt, err := c.DatasetOptions()
	require.NoError(t, err)
	assert.Equal(t, ';', opt.Delimiter)
	assert.Equal(t, ',', opt.DecimalSeparator)
	assert.Equal(t, rune(0), opt.ThousandsSeparator)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precision: [oops\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSetValidates(t *testing.T) {
	c := Defaults()
	require.NoError(t, c.Set("precision", "6"))
	assert.Equal(t, 6, c.Precision)

	assert.Error(t, c.Set("precision", "-1"))
	assert.Equal(t, 6, c.Precision, "failed Set must not modify config")
	assert.Error(t, c.Set("thousands_separator", "."), "thousands separator equal to decimal separator")
	assert.Error(t, c.Set("delimiter", "|"))
	assert.Error(t, c.Set("nope", "1"))
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	c := Defaults()
	require.NoError(t, c.Set("log_level", "debug"))
	require.NoError(t, c.Set("thousands_separator", "space"))
	require.NoError(t, Save(c, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "space", got.ThousandsSeparator)
	assert.Len(t, got.Map(), len(Keys))
}
