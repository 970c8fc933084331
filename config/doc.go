// Package config provides configuration loading and validation for genweave.
//
// It uses Viper to load a YAML settings file, layers environment variables
// on top (GENWEAVE_ prefix, underscore-separated paths), and optionally
// loads a .env file first via godotenv.
//
//	settings, err := config.Load(config.WithConfigFile("genweave.yml"))
package config
