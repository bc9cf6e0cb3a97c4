// Package config parses the request configuration map the RPC layer
// hands every method into a typed, validated Config, and reads the
// process environment defaults from spec.md §6.5.
package config

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"motherduck-destination/internal/errs"
)

const (
	defaultMotherDuckHost = "api.motherduck.com"

	minMaxRecordSize = 24
	maxMaxRecordSize = 1024
)

// Config is the validated form of the request's configuration map,
// built field-by-field the way the teacher's internal/parser/toml
// package walks a raw map into core types rather than via a single
// reflect-based decode.
type Config struct {
	Token                  string
	Database               string
	MaxRecordSize          int // 0 when unset
	MotherDuckCSVBlockSize int // 0 when unset
}

// Parse validates raw against spec.md §6.1: motherduck_token and
// motherduck_database are required; max_record_size and
// motherduck_csv_block_size are optional integers, the former
// constrained to [24, 1024].
func Parse(raw map[string]string) (Config, error) {
	var cfg Config

	token, ok := raw["motherduck_token"]
	if !ok || token == "" {
		return Config{}, errs.InvalidArgument("Missing property motherduck_token")
	}
	cfg.Token = token

	database, ok := raw["motherduck_database"]
	if !ok || database == "" {
		return Config{}, errs.InvalidArgument("Missing property motherduck_database")
	}
	cfg.Database = database

	if v, ok := raw["max_record_size"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errs.InvalidArgument("max_record_size must be an integer, got %q", v)
		}
		if n < minMaxRecordSize || n > maxMaxRecordSize {
			return Config{}, errs.InvalidArgument("max_record_size must be in range [%d, %d], got %d", minMaxRecordSize, maxMaxRecordSize, n)
		}
		cfg.MaxRecordSize = n
	}

	if v, ok := raw["motherduck_csv_block_size"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, errs.InvalidArgument("motherduck_csv_block_size must be an integer, got %q", v)
		}
		cfg.MotherDuckCSVBlockSize = n
	}

	return cfg, nil
}

// Environment carries the process-wide, non-request-scoped settings
// from spec.md §6.5.
type Environment struct {
	MotherDuckHost   string
	DisableHostCheck bool
}

// defaultsFile is the shape of the optional destination.toml defaults
// file a deployment can place in the process's working directory,
// overriding this package's compiled-in default host.
type defaultsFile struct {
	MotherDuckHost string `toml:"motherduck_host"`
}

// loadDefaultsFile reads path as a destination.toml defaults file. A
// missing file is not an error: it just means no override is present.
func loadDefaultsFile(path string) (defaultsFile, error) {
	var d defaultsFile
	if _, err := os.Stat(path); err != nil {
		return d, nil
	}
	if _, err := toml.DecodeFile(path, &d); err != nil {
		return d, errs.InvalidArgument("failed to parse %s: %v", path, err)
	}
	return d, nil
}

// LoadEnvironment reads motherduck_host/motherduck_disable_host_check
// from the process environment, falling back to destination.toml (if
// present in the working directory) and finally to the compiled-in
// default host. Host verification is enabled by default: only the
// literal env values "true" or "1" disable it.
func LoadEnvironment() Environment {
	host := os.Getenv("motherduck_host")
	if host == "" {
		if d, err := loadDefaultsFile("destination.toml"); err == nil && d.MotherDuckHost != "" {
			host = d.MotherDuckHost
		}
	}
	if host == "" {
		host = defaultMotherDuckHost
	}

	disable := os.Getenv("motherduck_disable_host_check")
	return Environment{
		MotherDuckHost:   host,
		DisableHostCheck: disable == "true" || disable == "1",
	}
}
