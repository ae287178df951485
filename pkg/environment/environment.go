package environment

import "strings"

// Environment represents application environment.
type Environment string

const (
	// Development for a developer machine; the only environment served over plain HTTP.
	Development Environment = "development"
	// Staging for pre-production deployments.
	Staging Environment = "staging"
	// Production for production deployments.
	Production Environment = "production"
)

// Parse normalizes common spellings. Anything unrecognised is Production.
func Parse(value string) Environment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "development", "dev", "local":
		return Development
	case "staging", "stage":
		return Staging
	default:
		return Production
	}
}

// IsLocal reports whether e is local development.
func (e Environment) IsLocal() bool {
	return Parse(string(e)) == Development
}

func (e Environment) String() string {
	return string(Parse(string(e)))
}
