// Package config loads typed configuration from environment variables.
//
// Structs declare their variables with github.com/caarlos0/env tags. Load
// first reads a .env file through github.com/joho/godotenv (values already
// in the environment take precedence), parses the struct and, if it
// implements Validator, validates it.
//
//	cfg, err := config.Load[session.Config]()
//	if err != nil {
//	    return err
//	}
//
// Tests can bypass the process environment with WithEnvironment.
package config
