package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultFile is read from the working directory when present
const DefaultFile = "roadmap.toml"

// EnvPrefix namespaces environment overrides, e.g. ROADMAP_PORT=9090
const EnvPrefix = "ROADMAP_"

// Config holds all configuration for the application
type Config struct {
	Host        string `koanf:"host"`
	Port        int    `koanf:"port"`
	OpenBrowser bool   `koanf:"open"`
	Seed        string `koanf:"seed"`  // optional TOML roadmap replacing the built-in one
	Print       bool   `koanf:"print"` // print the roadmap and exit instead of serving
	Verbosity   string `koanf:"verbosity"`
	VerboseCnt  int    `koanf:"verbose"`
	JSONLogs    bool   `koanf:"json-logs"`
}

// Addr is the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// URL is what a browser on this machine should open
func (c *Config) URL() string {
	host := c.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Port)
}

// RegisterFlags declares the command-line flags Load understands
func RegisterFlags(f *pflag.FlagSet) {
	f.String("host", "", "Interface to listen on (empty for all)")
	f.IntP("port", "p", 8080, "Port for the web server")
	f.Bool("open", true, "Open the roadmap in a browser on startup")
	f.String("seed", "", "TOML file with nodes and edges to use instead of the built-in roadmap")
	f.Bool("print", false, "Print the roadmap to the console and exit")
	f.String("verbosity", "", "Log level: trace, debug, info, warn, error")
	f.CountP("verbose", "v", "Increase log verbosity (-v debug, -vv trace)")
	f.Bool("json-logs", false, "Write logs as JSON")
	f.String("config", DefaultFile, "Path to the config file")
}

// Load loads configuration from defaults, config file, environment variables, and flags.
// Priority: Flags > Env > Config File > Defaults
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	defaults := map[string]interface{}{
		"host":      "",
		"port":      8080,
		"open":      true,
		"seed":      "",
		"print":     false,
		"verbosity": "",
		"verbose":   0,
		"json-logs": false,
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file. The default file is optional; an explicit one is not.
	path := DefaultFile
	explicit := false
	if f != nil {
		if fl := f.Lookup("config"); fl != nil {
			path = fl.Value.String()
			explicit = fl.Changed
		}
	}
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// 3. Environment variables: ROADMAP_JSON_LOGS -> json-logs
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", "-")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags (only those explicitly set override lower layers)
	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	return &cfg, nil
}

// mapProvider feeds a plain map into koanf
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("not implemented")
}
