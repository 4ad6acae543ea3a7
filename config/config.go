// Package config loads the verification core's runtime configuration from
// flags, environment variables, and defaults, following the
// pflag+viper layering used by the verifier's CLI.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultListenAddr   = "127.0.0.1:8745"
	defaultLogLevel     = "info"
	defaultLogOutput    = "stderr"
	defaultEpochLength  = 5 * time.Minute
	defaultAnonymitySet = 8
	defaultDatadir      = "./veilcore-data"
	envPrefix           = "VEILCORE"
)

// Config holds everything the verifier process needs at startup.
type Config struct {
	Listen  ListenConfig
	Log     LogConfig
	Ledger  LedgerConfig
	Datadir string `mapstructure:"datadir"`
	// ClockOverride pins the host clock reading instructions are evaluated
	// against instead of the system clock, for deterministic replay of a
	// captured instruction log across epoch boundaries. Zero means "use the
	// system clock".
	ClockOverride uint64 `mapstructure:"clockOverride"`
}

// ListenConfig holds the listen.addr setting. veilcore-verify reads one
// record from stdin or a file and opens no listener.
type ListenConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig mirrors corelog's level/output knobs.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// LedgerConfig holds the epoch length veilcore-verify applies to its fresh
// store and an anonymity-set size. AnonymitySetLen is only validated as a
// power of two; Transfer instructions are not checked against it.
type LedgerConfig struct {
	EpochLength     time.Duration `mapstructure:"epochLength"`
	AnonymitySetLen int           `mapstructure:"anonymitySetLen"`
}

// Load parses flag.CommandLine (flag.Parse must not have been called yet)
// and environment variables prefixed VEILCORE_, falling back to defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("listen.addr", defaultListenAddr)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("ledger.epochLength", defaultEpochLength)
	v.SetDefault("ledger.anonymitySetLen", defaultAnonymitySet)
	v.SetDefault("datadir", defaultDatadir)
	v.SetDefault("clockOverride", uint64(0))

	flag.String("listen.addr", defaultListenAddr, "listen address (loaded into the config; veilcore-verify opens no listener)")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.StringP("log.output", "o", defaultLogOutput, "log output (loaded into the config; veilcore-verify always logs to stderr)")
	flag.Duration("ledger.epochLength", defaultEpochLength, "wall-clock length of one ledger epoch")
	flag.Int("ledger.anonymitySetLen", defaultAnonymitySet, "anonymity-set size (validated as a power of two; not applied to Transfer instructions)")
	flag.StringP("datadir", "d", defaultDatadir, "data directory (loaded into the config; no state is written to it)")
	flag.Uint64("clockOverride", 0, "pin the host clock (unix seconds) instead of using the system clock, for deterministic replay")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "veilcore-verify\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables use the %s_ prefix, e.g. %s_LISTEN_ADDR.\n", envPrefix, envPrefix)
	}
	flag.CommandLine.SortFlags = false
	flag.Parse()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Ledger.AnonymitySetLen <= 0 || cfg.Ledger.AnonymitySetLen&(cfg.Ledger.AnonymitySetLen-1) != 0 {
		return fmt.Errorf("config: ledger.anonymitySetLen must be a positive power of two, got %d", cfg.Ledger.AnonymitySetLen)
	}
	if cfg.Ledger.EpochLength <= 0 {
		return fmt.Errorf("config: ledger.epochLength must be positive")
	}
	return nil
}
