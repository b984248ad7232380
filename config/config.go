package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/xh3b4sd/tracer"
)

const (
	BackendEnsemble = "ensemble"
	BackendLoader   = "loader"
)

// Prefix is prepended to every environment variable, e.g. CIRRHOSIS_ADDRESS.
const Prefix = "CIRRHOSIS"

type Config struct {
	// Add is the listen address of the HTTP server.
	Add string `mapstructure:"address"`
	// Art is the directory holding the trained artifacts.
	Art string `mapstructure:"artifact_dir"`
	// Bac selects the inference backend, either loader or ensemble.
	Bac string   `mapstructure:"backend"`
	Cor []string `mapstructure:"cors_origins"`
	Dat string   `mapstructure:"dataset"`
	// Deb forwards stdout and stderr of Python child processes.
	Deb bool   `mapstructure:"debug"`
	Frm string `mapstructure:"log_format"`
	Lev string `mapstructure:"log_level"`
	// Por is the local port of the Python prediction server.
	Por int    `mapstructure:"sidecar_port"`
	Pyt string `mapstructure:"python"`
	// Res bounds the startup of the inference backend.
	Res time.Duration `mapstructure:"restore_timeout"`
	See int64         `mapstructure:"seed"`
	// Shu bounds the graceful shutdown of the HTTP server.
	Shu time.Duration `mapstructure:"shutdown_timeout"`
	Tes float64       `mapstructure:"test_size"`
}

func Default(v *viper.Viper) {
	v.SetDefault("address", ":8000")
	v.SetDefault("artifact_dir", ".")
	v.SetDefault("backend", BackendLoader)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("dataset", "liver_cirrhosis.csv")
	v.SetDefault("debug", false)
	v.SetDefault("log_format", "json")
	v.SetDefault("log_level", "info")
	v.SetDefault("python", "python3")
	v.SetDefault("restore_timeout", 60*time.Second)
	v.SetDefault("seed", 42)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("sidecar_port", 8765)
	v.SetDefault("test_size", 0.2)
}

// Load reads the configuration from, in order of precedence, flags bound to
// v, the environment, the optional .env file, the optional config file fil
// and the defaults.
func Load(v *viper.Viper, fil string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	{
		err := godotenv.Load()
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, tracer.Mask(err)
		}
	}

	{
		Default(v)
		v.SetEnvPrefix(Prefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		v.AutomaticEnv()
	}

	if fil != "" {
		v.SetConfigFile(fil)

		err := v.ReadInConfig()
		if err != nil {
			return Config{}, tracer.Mask(err)
		}
	}

	var cfg Config
	{
		err := v.Unmarshal(&cfg)
		if err != nil {
			return Config{}, tracer.Mask(err)
		}
	}

	{
		err := cfg.Verify()
		if err != nil {
			return Config{}, tracer.Mask(err)
		}
	}

	return cfg, nil
}

func (c Config) Verify() error {
	if c.Add == "" {
		return tracer.Maskf(invalidConfigError, "address must not be empty")
	}

	if c.Art == "" {
		return tracer.Maskf(invalidConfigError, "artifact_dir must not be empty")
	}

	if c.Bac != BackendLoader && c.Bac != BackendEnsemble {
		return tracer.Maskf(invalidConfigError, "backend must be %s or %s, got %q", BackendLoader, BackendEnsemble, c.Bac)
	}

	if c.Por <= 0 || c.Por > 65535 {
		return tracer.Maskf(invalidConfigError, "sidecar_port must be within 1 and 65535, got %d", c.Por)
	}

	if c.Pyt == "" {
		return tracer.Maskf(invalidConfigError, "python must not be empty")
	}

	if c.Res <= 0 {
		return tracer.Maskf(invalidConfigError, "restore_timeout must be positive")
	}

	if c.Shu <= 0 {
		return tracer.Maskf(invalidConfigError, "shutdown_timeout must be positive")
	}

	if c.Tes <= 0 || c.Tes >= 1 {
		return tracer.Maskf(invalidConfigError, "test_size must be within 0 and 1, got %v", c.Tes)
	}

	return nil
}
