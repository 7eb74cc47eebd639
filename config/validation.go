package config

import "fmt"

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the settings required by the current
// environment are present. Production refuses to start without a JWT
// secret and database password; development falls back to insecure
// defaults.
func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return ValidationError{Field: "SERVER_PORT", Message: "must not be empty"}
	}
	if cfg.DBHost == "" || cfg.DBName == "" || cfg.DBUser == "" {
		return ValidationError{Field: "DB_HOST/DB_NAME/DB_USER", Message: "database settings must not be empty"}
	}

	if IsProduction() {
		if cfg.JWTSecret == "" {
			return ValidationError{Field: "JWT_SECRET", Message: "required in production"}
		}
		if cfg.DBPassword == "" {
			return ValidationError{Field: "DB_PASSWORD", Message: "required in production"}
		}
		return nil
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-insecure-secret"
	}
	return nil
}
