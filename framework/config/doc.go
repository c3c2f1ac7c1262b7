// Package config loads typed application settings from the environment.
//
// Values come from the process environment, optionally seeded from .env files
// via godotenv. Variables already set in the environment win over .env
// entries.
//
//	cfg := config.Load()              // reads ./.env if present
//	cfg := config.Load("test.env")    // explicit files
//
// Supported variables and defaults:
//
//	APP_NAME               go-registry
//	APP_ENV                local
//	APP_DEBUG              true
//	HTTP_PORT              8000
//	HTTP_SHUTDOWN_TIMEOUT  10s
//	LOG_LEVEL              info
//	LOG_FORMAT             text
package config
