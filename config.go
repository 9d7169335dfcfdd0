package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Carson-Bove/tictactyler/games/tictactoe"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind           string
	metrics        bool
	natsSubject    string
	natsURL        string
	port           int
	prefix         string
	profile        bool
	rejectFeedback bool
	resultPolicy   string
	sendBuffer     int
	sessionTimeout time.Duration
	tlsCert        string
	tlsKey         string
	verbose        bool
	version        bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	if c.sendBuffer < 1 {
		return fmt.Errorf("invalid send buffer (must be at least 1): %d", c.sendBuffer)
	}
	if _, err := c.policy(); err != nil {
		return err
	}
	if c.natsURL != "" && strings.TrimSpace(c.natsSubject) == "" {
		return errors.New("--nats-subject must not be empty when --nats-url is set")
	}
	return nil
}

func (c *Config) policy() (tictactoe.ResultPolicy, error) {
	switch strings.ToLower(c.resultPolicy) {
	case "trust":
		return tictactoe.TrustReports, nil
	case "verify":
		return tictactoe.VerifyReports, nil
	}
	return 0, fmt.Errorf("invalid result policy (must be trust or verify): %q", c.resultPolicy)
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TICTACTYLER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "tictactyler",
		Short:         "Matchmaking and session coordinator for two-player tic-tac-toe over WebSockets.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: TICTACTYLER_BIND)")
	fs.BoolVar(&cfg.metrics, "metrics", false, "expose prometheus metrics at /metrics (env: TICTACTYLER_METRICS)")
	fs.StringVar(&cfg.natsSubject, "nats-subject", "tictactyler.events", "subject prefix for session lifecycle events (env: TICTACTYLER_NATS_SUBJECT)")
	fs.StringVar(&cfg.natsURL, "nats-url", "", "publish session lifecycle events to this NATS server (env: TICTACTYLER_NATS_URL)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: TICTACTYLER_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TICTACTYLER_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: TICTACTYLER_PROFILE)")
	fs.BoolVar(&cfg.rejectFeedback, "reject-feedback", false, "tell clients why a request was rejected instead of ignoring it (env: TICTACTYLER_REJECT_FEEDBACK)")
	fs.StringVar(&cfg.resultPolicy, "result-policy", "trust", "how client game-over reports are handled: trust or verify (env: TICTACTYLER_RESULT_POLICY)")
	fs.IntVar(&cfg.sendBuffer, "send-buffer", 16, "outbound messages buffered per connection (env: TICTACTYLER_SEND_BUFFER)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 0, "time before idle game sessions are ended, 0 to never end them (env: TICTACTYLER_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: TICTACTYLER_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: TICTACTYLER_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: TICTACTYLER_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: TICTACTYLER_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("tictactyler v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
