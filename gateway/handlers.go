package gateway

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/torngate/pkg/logger"
	"github.com/papercomputeco/torngate/pkg/torn"
)

// handleUser relays a user lookup to the Torn API.
func (g *Gateway) handleUser(c *fiber.Ctx) error {
	return g.forward(c, torn.EndpointUser)
}

// handleFaction relays a faction lookup to the Torn API.
func (g *Gateway) handleFaction(c *fiber.Ctx) error {
	return g.forward(c, torn.EndpointFaction)
}

// forward performs the upstream call for endpoint. The caller's key query
// parameter overrides the configured key; selections defaults to "basic".
// Upstream bodies are relayed byte for byte, including the error objects Torn
// embeds in successful responses.
func (g *Gateway) forward(c *fiber.Ctx, endpoint torn.Endpoint) error {
	key := c.Query("key", g.config.APIKey)
	selections := c.Query("selections", torn.DefaultSelections)

	g.logger.Debug("forwarding request to upstream",
		zap.Stringer("endpoint", endpoint),
		zap.String("selections", selections),
		zap.Bool("caller_key", c.Query("key") != ""),
	)

	body, err := g.upstream.Fetch(c.UserContext(), endpoint, selections, key)
	if err != nil {
		msg := redactKey(err.Error(), key, g.config.APIKey)
		g.logger.Error("error fetching "+string(endpoint)+" data",
			zap.String("error", msg),
			zap.Bool("timeout", isTimeout(err)),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msg})
	}

	if apiErr, ok := torn.EmbeddedError(body); ok {
		g.logger.Warn("upstream returned an embedded error",
			zap.Stringer("endpoint", endpoint),
			zap.Int("code", apiErr.Code),
			zap.String("error", redactKey(apiErr.Error, key, g.config.APIKey)),
		)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(body)
}

// handleAlerts accepts alert settings, logs them and acknowledges. Nothing is
// stored.
func (g *Gateway) handleAlerts(c *fiber.Ctx) error {
	body := c.Body()

	if json.Valid(body) {
		g.logger.Info("alert settings updated", zap.Any("alerts", json.RawMessage(body)))
	} else {
		g.logger.Info("alert settings updated", zap.ByteString("alerts", body))
	}

	return c.JSON(StatusResponse{Status: "success", Message: "Alerts updated"})
}

// handleUserscripts returns the userscript catalog.
func (g *Gateway) handleUserscripts(c *fiber.Ctx) error {
	scripts, err := g.catalog.List(c.UserContext())
	if err != nil {
		g.logger.Error("failed to list userscripts", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list userscripts"})
	}

	return c.JSON(scripts)
}

// redactKey removes every non-empty key from msg. An empty result falls back
// to a generic description so the envelope is never blank.
func redactKey(msg string, keys ...string) string {
	for _, k := range keys {
		if k != "" {
			msg = strings.ReplaceAll(msg, k, logger.Redacted)
		}
	}
	if strings.TrimSpace(msg) == "" {
		return "upstream unavailable"
	}
	return msg
}

func isTimeout(err error) bool {
	var uerr *torn.UpstreamError
	return errors.As(err, &uerr) && uerr.Timeout()
}
