package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// ApplyEnv applies PINCH_* variables from the process environment.
func (c *Config) ApplyEnv() error {
	return c.applyLookup(os.LookupEnv)
}

// ApplyEnvFile applies PINCH_* entries from a dotenv file. A missing file is
// not an error. Variables already set in the process environment win, so call
// ApplyEnv afterwards.
func (c *Config) ApplyEnvFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read env file: %w", err)
	}

	return c.applyLookup(func(name string) (string, bool) {
		v, ok := values[name]
		return v, ok
	})
}

func (c *Config) applyLookup(lookup func(string) (string, bool)) error {
	for _, key := range Keys() {
		v, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		if err := c.Set(key, v); err != nil {
			return fmt.Errorf("%s: %w", EnvName(key), err)
		}
	}
	return nil
}
