// Package config resolves the server's runtime configuration from, in
// priority order, command-line flags, a TOML file, then hardcoded
// defaults matching the upstream resolution the original system shipped
// with.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Mode names the upstream resolution strategy, as written in the TOML
// file or passed via -mode.
type Mode string

const (
	ModeRecursive Mode = "recursive"
	ModeForward   Mode = "forwarder"
)

// Config is the full set of knobs the server needs to start.
type Config struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Mode       Mode   `toml:"mode"`
	RootServer string `toml:"root_server"`
	Forwarder  string `toml:"forwarder"`
	CachePath  string `toml:"cache_path"`
}

// Defaults returns the hardcoded configuration baseline.
func Defaults() Config {
	return Config{
		Host:       "127.0.0.1",
		Port:       53,
		Mode:       ModeRecursive,
		RootServer: "199.7.83.42",
		Forwarder:  "ns.hsdrn.ru",
		CachePath:  "recurdns.db",
	}
}

// FromFile reads a TOML configuration file and overlays it onto cfg.
// Fields absent from the file are left untouched.
func FromFile(cfg Config, path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ParseFlags overlays command-line flags onto cfg, the highest-priority
// layer. Load passes a fresh FlagSet; tests pass their own FlagSet to
// avoid colliding with `go test`'s own flags.
func ParseFlags(cfg Config, fs *flag.FlagSet, args []string) (Config, error) {
	configPath := fs.String("config", "", "path to a TOML configuration file")
	host := fs.String("host", cfg.Host, "address to bind the UDP listener on")
	port := fs.Int("port", cfg.Port, "port to bind the UDP listener on")
	mode := fs.String("mode", string(cfg.Mode), "resolution mode: recursive or forwarder")
	root := fs.String("root-server", cfg.RootServer, "fixed root server address, recursive mode")
	forwarder := fs.String("forwarder", cfg.Forwarder, "upstream resolver address, forwarder mode")
	cachePath := fs.String("cache", cfg.CachePath, "path to the cache snapshot database")

	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("config: parsing flags: %w", err)
	}

	if *configPath != "" {
		var err error
		cfg, err = FromFile(cfg, *configPath)
		if err != nil {
			return cfg, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "host":
			cfg.Host = *host
		case "port":
			cfg.Port = *port
		case "mode":
			cfg.Mode = Mode(*mode)
		case "root-server":
			cfg.RootServer = *root
		case "forwarder":
			cfg.Forwarder = *forwarder
		case "cache":
			cfg.CachePath = *cachePath
		}
	})

	return cfg, nil
}

// Load resolves the final configuration: defaults, then a TOML file if
// -config names one, then any flags explicitly passed on the command
// line, which always win.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("recurdns", flag.ContinueOnError)
	return ParseFlags(Defaults(), fs, args)
}
