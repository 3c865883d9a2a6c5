package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dendrascience/zipsort/archive"
	"github.com/dendrascience/zipsort/bucket"
)

// chdir into an empty directory so a developer's .env never leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, bucket.DefaultStripPrefix, cfg.StripPrefix)
	assert.Equal(t, archive.FormatZip, cfg.ArchiveFormat())
	assert.Equal(t, ":8080", cfg.Addr())
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "zipsort.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
format: tar.gz
port: "9000"
s3:
  endpoint: localhost:9000
  bucket: sorted
  use_ssl: false
`), 0644))

	t.Setenv("ZIPSORT_PORT", "9100")
	t.Setenv("ZIPSORT_S3_ACCESS_KEY", "minio")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, archive.FormatTarGz, cfg.ArchiveFormat())
	assert.Equal(t, ":9100", cfg.Addr(), "environment overrides the file")
	assert.Equal(t, "minio", cfg.S3.AccessKey)
	assert.True(t, cfg.S3.Enabled())
	assert.False(t, cfg.S3.UseSSL)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ZIPSORT_CACHE_SIZE=7\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("ZIPSORT_CACHE_SIZE") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.CacheSize)
}

func TestLoad_EmptyStripPrefixDisables(t *testing.T) {
	isolate(t)
	t.Setenv("ZIPSORT_STRIP_PREFIX", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Bucketer().StripPrefix)
}

func TestLoad_Invalid(t *testing.T) {
	dir := isolate(t)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("format: [zip"), 0644))
	_, err := Load(bad)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	t.Setenv("ZIPSORT_FORMAT", "rar")
	_, err = Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, archive.ErrUnsupportedFormat)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
