package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills the `env`-tagged fields of target. Unset variables keep their
// envDefault, and a required variable that is missing or empty is an error.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	return nil
}

// Exitf reports a startup failure of a victory binary on stderr and exits 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
