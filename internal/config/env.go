package config

import (
	"os"
	"regexp"
)

// Matches ${NAME} and ${NAME:-fallback}.
var envVarRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

func substituteEnvVars(content []byte) []byte {
	return envVarRegex.ReplaceAllFunc(content, func(match []byte) []byte {
		groups := envVarRegex.FindSubmatch(match)
		varName := string(groups[1])
		if value, exists := os.LookupEnv(varName); exists {
			return []byte(value)
		}
		// Unmatched optional groups are nil, an empty fallback is not.
		if groups[2] != nil {
			return groups[2]
		}
		return match
	})
}
