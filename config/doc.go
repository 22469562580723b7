// Package config loads service configuration with Viper.
//
// LoadConfig reads config.yml (searched in cmd/<service>, config/<service>,
// config and the working directory), loads a .env file with godotenv and
// lets environment variables override file values. Structs are decoded with
// mapstructure tags and validated with validator/v10.
//
//	cfg, err := config.Load[config.ServiceConfig]("orders")
//	users, _ := cfg.Client("users")
package config
