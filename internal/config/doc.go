// Package config loads the greeting service configuration from environment
// variables. An optional dotenv file (APP_ENV_FILE, default ".env") is read
// first; variables already present in the environment take precedence.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	srv := &http.Server{Addr: cfg.Addr()}
package config
