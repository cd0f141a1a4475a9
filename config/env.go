package config

import (
	"os"
	"strings"
)

// Environment is the deployment the process runs in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// ParseEnvironment maps an ENV value to an Environment. Unknown values are
// treated as development.
func ParseEnvironment(value string) Environment {
	switch env := Environment(strings.ToLower(strings.TrimSpace(value))); env {
	case Production, Test, CI:
		return env
	}
	return Development
}

// GetEnvironment reads ENV. A CI=true runner always reports CI.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

// StructuredLogs reports whether logs go to machine readers.
func (e Environment) StructuredLogs() bool {
	return e == Production || e == CI
}

func IsProduction() bool {
	return GetEnvironment() == Production
}
