package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motherduck-destination/internal/errs"
)

func TestParseRequiresToken(t *testing.T) {
	_, err := Parse(map[string]string{"motherduck_database": "mydb"})
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
}

func TestParseRequiresDatabase(t *testing.T) {
	_, err := Parse(map[string]string{"motherduck_token": "tok"})
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
}

func TestParseAcceptsMinimalConfig(t *testing.T) {
	cfg, err := Parse(map[string]string{"motherduck_token": "tok", "motherduck_database": "mydb"})
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.Token)
	assert.Equal(t, "mydb", cfg.Database)
	assert.Equal(t, 0, cfg.MaxRecordSize)
}

func TestParseRejectsMaxRecordSizeOutOfRange(t *testing.T) {
	_, err := Parse(map[string]string{"motherduck_token": "tok", "motherduck_database": "mydb", "max_record_size": "23"})
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))

	_, err = Parse(map[string]string{"motherduck_token": "tok", "motherduck_database": "mydb", "max_record_size": "1025"})
	assert.Equal(t, errs.KindInvalidArgument, errs.KindOf(err))
}

func TestParseAcceptsMaxRecordSizeBoundaries(t *testing.T) {
	cfg, err := Parse(map[string]string{"motherduck_token": "tok", "motherduck_database": "mydb", "max_record_size": "24"})
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.MaxRecordSize)

	cfg, err = Parse(map[string]string{"motherduck_token": "tok", "motherduck_database": "mydb", "max_record_size": "1024"})
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.MaxRecordSize)
}

func TestLoadEnvironmentDefaults(t *testing.T) {
	os.Unsetenv("motherduck_host")
	os.Unsetenv("motherduck_disable_host_check")

	env := LoadEnvironment()
	assert.Equal(t, defaultMotherDuckHost, env.MotherDuckHost)
	assert.False(t, env.DisableHostCheck)
}

func TestLoadDefaultsFileMissingIsNotAnError(t *testing.T) {
	d, err := loadDefaultsFile("/nonexistent/destination.toml")
	require.NoError(t, err)
	assert.Equal(t, "", d.MotherDuckHost)
}

func TestLoadDefaultsFileParsesHost(t *testing.T) {
	path := t.TempDir() + "/destination.toml"
	require.NoError(t, os.WriteFile(path, []byte(`motherduck_host = "file.host"`+"\n"), 0o644))

	d, err := loadDefaultsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file.host", d.MotherDuckHost)
}

func TestLoadEnvironmentHonorsOverrides(t *testing.T) {
	os.Setenv("motherduck_host", "custom.host")
	os.Setenv("motherduck_disable_host_check", "true")
	defer os.Unsetenv("motherduck_host")
	defer os.Unsetenv("motherduck_disable_host_check")

	env := LoadEnvironment()
	assert.Equal(t, "custom.host", env.MotherDuckHost)
	assert.True(t, env.DisableHostCheck)
}
