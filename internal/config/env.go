package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches environment variable references:
//   - ${VAR_NAME}
//   - ${VAR_NAME:-default}
//   - $VAR_NAME
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([a-zA-Z_][a-zA-Z0-9_]*)`)

// ExpandEnv expands environment variable references in s.
// ${VAR:-default} yields default when VAR is unset or empty. Unset
// variables without a default expand to the empty string.
func ExpandEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if strings.HasPrefix(match, "${") {
			inner := match[2 : len(match)-1]
			if name, def, ok := strings.Cut(inner, ":-"); ok {
				if val := os.Getenv(name); val != "" {
					return val
				}
				return def
			}
			return os.Getenv(inner)
		}
		return os.Getenv(match[1:])
	})
}

// ExpandEnvConfig expands environment variables in the string fields of
// cfg in place.
func ExpandEnvConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Title = ExpandEnv(cfg.Title)
}
