package cmd

import (
	"github.com/BurntSushi/toml"
	"github.com/cottand/tcore/engine"
	"github.com/cottand/tcore/internal/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"log/slog"
	"strings"
)

// Config is the contents of a tcore.toml file. Flags given on the command
// line take precedence over it.
type Config struct {
	MaxDepth         int      `toml:"max_depth"`
	Strict           bool     `toml:"strict"`
	ValidateContexts bool     `toml:"validate_contexts"`
	LogLevel         string   `toml:"log_level"`
	Sections         []string `toml:"sections"`
}

type options struct {
	configPath string
	logLevel   string
	strict     bool
	maxDepth   int
}

func (o *options) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "path to a tcore.toml file")
	flags.StringVarP(&o.logLevel, "log-level", "l", "error", "log level (debug, info, warn, error)")
	flags.BoolVar(&o.strict, "strict", false, "fail on structurally equal but distinct types")
	flags.IntVar(&o.maxDepth, "max-depth", engine.DefaultMaxDepth, "recursion limit of every query")
}

// LoadConfig decodes the TOML file at path. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	var config Config
	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return config, errors.Wrapf(err, "could not decode config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return config, errors.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return config, nil
}

// newEngine builds the Engine for a command from the config file, if any, and
// the flags that were set explicitly
func (o *options) newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	config := Config{MaxDepth: engine.DefaultMaxDepth, LogLevel: "error"}
	if o.configPath != "" {
		var err error
		if config, err = LoadConfig(o.configPath); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") || config.LogLevel == "" {
		config.LogLevel = o.logLevel
	}
	if flags.Changed("strict") {
		config.Strict = o.strict
	}
	if flags.Changed("max-depth") || config.MaxDepth == 0 {
		config.MaxDepth = o.maxDepth
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(config.LogLevel)); err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	log.SetLevel(level)
	if len(config.Sections) != 0 {
		log.EnableSections(config.Sections...)
	}

	return engine.New(engine.Config{
		MaxDepth:         config.MaxDepth,
		Strict:           config.Strict,
		ValidateContexts: config.ValidateContexts,
		Logger:           log.NewLogger(cmd.ErrOrStderr()),
	}), nil
}
