// Package gateway provides an HTTP gateway that forwards browser requests to the
// Torn API with a server-held key and relays the JSON responses unchanged.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/papercomputeco/torngate/pkg/torn"
	"github.com/papercomputeco/torngate/pkg/userscript"
)

// Gateway is a stateless request forwarder. The only state it holds is the
// read-only configuration and the injected upstream and catalog.
type Gateway struct {
	config   Config
	upstream torn.Upstream
	catalog  userscript.Provider
	logger   *zap.Logger
	server   *fiber.App

	stopWatch context.CancelFunc
}

// Option customises a Gateway built by New.
type Option func(*Gateway)

// WithUpstream replaces the Torn API client.
func WithUpstream(upstream torn.Upstream) Option {
	return func(g *Gateway) {
		g.upstream = upstream
	}
}

// WithCatalog replaces the userscript catalog.
func WithCatalog(catalog userscript.Provider) Option {
	return func(g *Gateway) {
		g.catalog = catalog
	}
}

// New creates a new Gateway.
func New(config Config, logger *zap.Logger, opts ...Option) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	g := &Gateway{
		config:    config,
		logger:    logger,
		stopWatch: func() {},
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.upstream == nil {
		g.upstream = torn.NewClient(config.UpstreamURL, config.Timeout)
	}

	if g.catalog == nil {
		if err := g.setupCatalog(); err != nil {
			return nil, err
		}
	}

	app := fiber.New(fiber.Config{
		AppName: "torngate",
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ErrorHandler:          g.handleError,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: config.Mode.Development(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(g.logRequest)

	g.server = app
	g.registerRoutes(app)

	return g, nil
}

// setupCatalog picks the userscript catalog from the configuration and, in
// development mode, starts watching a directory-backed catalog for changes.
func (g *Gateway) setupCatalog() error {
	if g.config.UserscriptsDir == "" {
		g.catalog = userscript.NewStaticCatalog()
		g.logger.Info("using built-in userscript catalog")
		return nil
	}

	dirCatalog, err := userscript.NewDirCatalog(g.config.UserscriptsDir, g.logger)
	if err != nil {
		return fmt.Errorf("failed to load userscripts: %w", err)
	}
	g.catalog = dirCatalog
	g.logger.Info("using userscript directory", zap.String("dir", g.config.UserscriptsDir))

	if g.config.Mode.Development() {
		ctx, cancel := context.WithCancel(context.Background())
		g.stopWatch = cancel
		go func() {
			if err := dirCatalog.Watch(ctx); err != nil {
				g.logger.Warn("userscript hot reload disabled", zap.Error(err))
			}
		}()
	}

	return nil
}

func (g *Gateway) registerRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	t := api.Group("/torn")
	t.Get("/user", g.handleUser)
	t.Get("/faction", g.handleFaction)
	t.Post("/alerts", g.handleAlerts)
	t.Get("/userscripts", g.handleUserscripts)
}

// Run starts the gateway on the configured listening address.
func (g *Gateway) Run() error {
	g.logger.Info("starting gateway",
		zap.String("listen", g.config.ListenAddr),
		zap.String("upstream", g.config.UpstreamURL),
		zap.Stringer("mode", g.config.Mode),
	)

	return g.server.Listen(g.config.ListenAddr)
}

// RunWithListener serves on ln instead of the configured address.
func (g *Gateway) RunWithListener(ln net.Listener) error {
	g.logger.Info("starting gateway",
		zap.String("listen", ln.Addr().String()),
		zap.String("upstream", g.config.UpstreamURL),
		zap.Stringer("mode", g.config.Mode),
	)

	return g.server.Listener(ln)
}

// Handler returns the gateway as a net/http handler so it can be mounted in
// another server.
func (g *Gateway) Handler() http.Handler {
	return adaptor.FiberApp(g.server)
}

// Shutdown stops the server and any catalog watcher.
func (g *Gateway) Shutdown() error {
	return g.ShutdownWithTimeout(10 * time.Second)
}

// ShutdownWithTimeout stops the server, waiting at most timeout for active
// requests to finish.
func (g *Gateway) ShutdownWithTimeout(timeout time.Duration) error {
	g.stopWatch()
	return g.server.ShutdownWithTimeout(timeout)
}

// handleError renders every error that reaches fiber as a JSON envelope.
// Production mode hides the detail behind the status text.
func (g *Gateway) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		code = ferr.Code
	}

	msg := http.StatusText(code)
	if g.config.Mode.Development() {
		msg = err.Error()
	}

	if code >= fiber.StatusInternalServerError {
		g.logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(ErrorResponse{Error: msg})
}

// logRequest logs each request at debug level. Only the path is logged since
// the query string may carry an API key.
func (g *Gateway) logRequest(c *fiber.Ctx) error {
	start := time.Now()

	// Render errors here so the logged status is the one the client sees.
	if err := c.Next(); err != nil {
		if herr := g.handleError(c, err); herr != nil {
			return herr
		}
	}

	g.logger.Debug("handled request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}
