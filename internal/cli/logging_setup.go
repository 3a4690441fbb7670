package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/flashgrid/internal/config"
	"github.com/rshade/flashgrid/internal/logging"
)

// session carries the state built by the root command's pre-run hook to the
// subcommands.
type session struct {
	lookupEnv func(string) (string, bool)

	cfg    *config.Config
	logger zerolog.Logger
	closer io.Closer
}

// setup loads the config file, applies environment and flag overrides, and
// installs the logger in the command context. Precedence is file, then
// environment, then flags.
func (s *session) setup(cmd *cobra.Command) error {
	cfg, err := s.loadConfig(cmd)
	if err != nil {
		return err
	}
	s.cfg = cfg

	s.logger, s.closer = logging.NewLogger(cfg.Logging.ToLoggingConfig())
	s.logger = logging.ComponentLogger(s.logger, "cli")

	cmd.SetContext(logging.WithContext(cmd.Context(), s.logger))
	s.logger.Debug().
		Str("command", cmd.Name()).
		Str("config_version", cfg.Version).
		Msg("command started")
	return nil
}

func (s *session) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if s.lookupEnv != nil {
		cfg.ApplyEnv(s.lookupEnv)
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// config returns the loaded configuration, or the defaults when setup has
// not run.
func (s *session) config() *config.Config {
	if s.cfg == nil {
		return config.Default()
	}
	return s.cfg
}

func (s *session) cleanup() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}
