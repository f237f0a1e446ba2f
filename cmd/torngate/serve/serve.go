package servecmder

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/torngate/gateway"
	"github.com/papercomputeco/torngate/pkg/logger"
)

const serveLongDesc string = `Run the Torn API gateway.

Configuration is read from, in increasing precedence: built-in defaults,
the TOML file given with --config, the dotenv file given with --env-file,
the environment (TORN_API_KEY, TORNGATE_MODE, TORNGATE_UPSTREAM,
TORNGATE_LISTEN) and finally command line flags.

Development mode exposes error details, logs at debug level and reloads
the --userscripts-dir catalog when its files change. Use production mode
for anything reachable by other people.

Examples:
  torngate serve
  torngate serve --mode production --listen :8080
  torngate serve --config /etc/torngate.toml --userscripts-dir ./userscripts`

const serveShortDesc string = "Run the gateway"

// shutdownTimeout bounds how long in-flight requests may take once the
// command is cancelled.
const shutdownTimeout = 10 * time.Second

type serveCommander struct {
	configPath     string
	envFile        string
	listen         string
	upstream       string
	mode           string
	logDir         string
	userscriptsDir string
	timeout        time.Duration
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	defaults := gateway.DefaultConfig()

	cmd.Flags().StringVarP(&cmder.configPath, "config", "c", "", "Path to a TOML config file")
	cmd.Flags().StringVar(&cmder.envFile, "env-file", ".env", "Path to a dotenv file (ignored if missing)")
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", defaults.ListenAddr, "Address to listen on")
	cmd.Flags().StringVar(&cmder.upstream, "upstream", defaults.UpstreamURL, "Torn API base URL")
	cmd.Flags().StringVar(&cmder.mode, "mode", defaults.Mode.String(), "Runtime mode: development or production")
	cmd.Flags().StringVar(&cmder.logDir, "log-dir", defaults.LogDir, "Directory for app.log (empty for console only)")
	cmd.Flags().StringVar(&cmder.userscriptsDir, "userscripts-dir", "", "Serve userscripts from this directory")
	cmd.Flags().DurationVar(&cmder.timeout, "timeout", defaults.Timeout, "Upstream request timeout")

	return cmd
}

func (c *serveCommander) run(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := c.config(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(logger.Options{
		Debug:   cfg.Mode.Development(),
		Dir:     cfg.LogDir,
		Secrets: []string{cfg.APIKey},
	})
	if err != nil {
		return fmt.Errorf("could not set up logging: %w", err)
	}
	defer closeLog()
	defer log.Sync() //nolint:errcheck

	if cfg.APIKey == "" {
		log.Warn("no default API key configured; requests must pass key", zap.String("env", gateway.EnvAPIKey))
	}

	gw, err := gateway.New(cfg, log)
	if err != nil {
		return fmt.Errorf("could not create gateway: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- gw.Run()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("gateway server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down gateway")
		if err := gw.ShutdownWithTimeout(shutdownTimeout); err != nil {
			return fmt.Errorf("could not shut down gateway: %w", err)
		}
		return nil
	}
}

// config loads the file and environment configuration, then applies any
// flags the user set explicitly.
func (c *serveCommander) config(cmd *cobra.Command) (gateway.Config, error) {
	cfg, err := gateway.LoadConfig(c.configPath, c.envFile)
	if err != nil {
		return gateway.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.ListenAddr = c.listen
	}
	if flags.Changed("upstream") {
		cfg.UpstreamURL = c.upstream
	}
	if flags.Changed("mode") {
		mode, err := gateway.ParseMode(c.mode)
		if err != nil {
			return gateway.Config{}, err
		}
		cfg.Mode = mode
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = c.logDir
	}
	if flags.Changed("userscripts-dir") {
		cfg.UserscriptsDir = c.userscriptsDir
	}
	if flags.Changed("timeout") {
		cfg.Timeout = c.timeout
	}

	if err := cfg.Validate(); err != nil {
		return gateway.Config{}, err
	}
	return cfg, nil
}
