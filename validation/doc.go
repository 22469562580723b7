// Package validation checks configuration structs against their `validate`
// tags using go-playground/validator.
//
//	type ClientConfig struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// Errors carry the INVALID_CONFIG code and name fields by their
// mapstructure keys, e.g. "clients[users].base_url: must be a valid URL".
package validation
