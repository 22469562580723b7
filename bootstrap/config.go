package bootstrap

import "github.com/kbukum/typedhttp/config"

// Config is the constraint of application configuration types. Structs
// embedding config.ServiceConfig satisfy it through promoted methods.
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	}
//
//	app, err := bootstrap.NewApp[*MyConfig](&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
