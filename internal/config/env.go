// This file implements environment variable expansion in string settings.

package config

import (
	"os"
	"strings"
)

// ExpandEnv expands $VAR and ${VAR} references in s. ${VAR:-default}
// yields default when VAR is unset or empty. Unset variables without a
// default expand to the empty string.
func ExpandEnv(s string) string {
	return os.Expand(s, func(name string) string {
		if key, def, ok := strings.Cut(name, ":-"); ok {
			if val := os.Getenv(key); val != "" {
				return val
			}
			return def
		}
		return os.Getenv(name)
	})
}

// ExpandEnvConfig expands environment variables in the free-form string
// settings of cfg: the window title and the message text.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Window.Title = ExpandEnv(cfg.Window.Title)
	cfg.Message.Text = ExpandEnv(cfg.Message.Text)
}
