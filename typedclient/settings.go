package typedclient

import (
	"github.com/kbukum/typedhttp/di"
	"github.com/kbukum/typedhttp/errors"
	"github.com/kbukum/typedhttp/httpclient"
)

// SettingsFactory yields the settings of a typed client. It runs once per
// handler construction with the container as resolution context. Returning
// nil, nil means defaults and no authentication.
type SettingsFactory func(services di.Container) (*httpclient.Settings, error)

// StaticSettings returns a factory that always yields s.
func StaticSettings(s *httpclient.Settings) SettingsFactory {
	return func(di.Container) (*httpclient.Settings, error) { return s, nil }
}

func noSettings(di.Container) (*httpclient.Settings, error) { return nil, nil }

// resolve runs factory and wraps its failure for the named client.
func (factory SettingsFactory) resolve(services di.Container, id Identity) (*httpclient.Settings, error) {
	s, err := factory(services)
	if err != nil {
		return nil, errors.SettingsResolution(id.Name, err)
	}
	return s, nil
}
