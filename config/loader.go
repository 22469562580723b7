package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/typedhttp/logger"
)

// FileSystem abstracts file lookups of the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem is the FileSystem of the running process.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Files are the config and env files used by a load.
type Files struct {
	ConfigFile string
	EnvFile    string
}

// Locate returns the first existing config.yml and .env file for service.
// Explicit paths in lc are used as is.
func Locate(service string, lc LoaderConfig) Files {
	files := Files{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	dirs := []string{
		filepath.Join("cmd", service),
		filepath.Join("config", service),
		"config",
		".",
	}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(lc.FileSystem, dirs, "config.yml", "config.yaml")
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(lc.FileSystem, dirs, ".env."+service, ".env")
	}
	return files
}

func firstExisting(fs FileSystem, dirs []string, names ...string) string {
	for _, name := range names {
		for _, dir := range dirs {
			path := filepath.Join(dir, name)
			if fs.Exists(path) {
				return path
			}
		}
	}
	return ""
}

// LoaderConfig holds the loader dependencies and file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets the file system used to locate files.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// Defaulter is implemented by configs with defaults.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by configs that check themselves.
type Validator interface {
	Validate() error
}

// Load loads the configuration of service into a new T, applies its
// defaults and validates it.
//
//	cfg, err := config.Load[MyConfig]("orders")
func Load[T any](service string, opts ...LoaderOption) (*T, error) {
	cfg := new(T)
	if err := LoadConfig(service, cfg, opts...); err != nil {
		return nil, err
	}
	if d, ok := any(cfg).(Defaulter); ok {
		d.ApplyDefaults()
	}
	if v, ok := any(cfg).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: %w", service, err)
		}
	}
	return cfg, nil
}

// LoadConfig reads the YAML file and environment of service into cfg.
// Environment variables override file values and fill keys of sections
// present in the file: CLIENTS_USERS_AUTH_TOKEN sets clients.users.auth.token
// when clients.users.auth exists. A missing or unreadable file is logged and
// skipped.
func LoadConfig(service string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}
	files := Locate(service, lc)
	log := logger.Get("config")

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("failed to read config file", logger.Fields("file", files.ConfigFile, logger.FieldError, err.Error()))
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("failed to load env file", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}
	bindEnv(v, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", service, err)
	}
	return nil
}

// bindEnv sets environment variables under the nested keys they may map to.
// A variant is used when it overrides an existing scalar or adds a scalar to
// a section that already holds scalars, so maps of sections never gain
// entries from stray variables.
func bindEnv(v *viper.Viper, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		for _, variant := range envKeyVariants(key) {
			if overridable(v, variant) {
				v.Set(variant, value)
			}
		}
	}
}

func overridable(v *viper.Viper, key string) bool {
	if v.IsSet(key) {
		_, section := v.Get(key).(map[string]any)
		return !section
	}
	i := strings.LastIndexByte(key, '.')
	if i < 0 {
		return true
	}
	parent, ok := v.Get(key[:i]).(map[string]any)
	if !ok {
		return false
	}
	for _, child := range parent {
		if _, section := child.(map[string]any); !section {
			return true
		}
	}
	return false
}

// envKeyVariants returns the config keys an environment variable may set.
// Each underscore may separate two levels or belong to a key name:
//
//	AUTH_JWT_SECRET -> auth_jwt_secret, auth.jwt.secret, auth.jwt_secret, auth_jwt.secret
//
// The number of variants grows as 2^(n-1), so keys with more than six parts
// are only bound flat, fully nested and with a snake_case leaf.
func envKeyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	if len(parts) == 1 {
		return parts
	}
	if len(parts) > 6 {
		return dedupe([]string{
			strings.Join(parts, "_"),
			strings.Join(parts, "."),
			strings.Join(parts[:len(parts)-2], ".") + "." + strings.Join(parts[len(parts)-2:], "_"),
		})
	}

	variants := []string{parts[0]}
	for _, part := range parts[1:] {
		next := make([]string, 0, len(variants)*2)
		for _, prefix := range variants {
			next = append(next, prefix+"_"+part, prefix+"."+part)
		}
		variants = next
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
