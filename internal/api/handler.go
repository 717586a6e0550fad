// Package api exposes the alert parser over HTTP for clients that capture
// alerts themselves, such as a phone reading SMS or OCR'd screenshots.
package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Philanthropists/income-alerts/internal/alert"
	"github.com/Philanthropists/income-alerts/internal/alert/alerttypes"
	"github.com/Philanthropists/income-alerts/internal/logging"
)

const debitWarning = "this alert looks like money leaving the account; confirm before recording it as income"

type alertParser interface {
	Parse(ctx context.Context, text, knownUserName string) (*alerttypes.ParsedTransaction, error)
}

type ParseRequest struct {
	Text          string `json:"text"`
	BankAlertName string `json:"bankAlertName"`
}

// ParseResponse never commits anything. Accepted is false for debits, which
// the caller has to confirm.
type ParseResponse struct {
	Transaction *alerttypes.ParsedTransaction `json:"transaction"`
	Accepted    bool                          `json:"accepted"`
	Warning     string                        `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	Parser  alertParser
	Version string
	Logger  *logging.Logger
}

// NewApp returns a fiber app with every route registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "income-alerts",
		DisableStartupMessage: true,
	})

	app.Use(h.logRequests)
	h.RegisterRoutes(app)

	return app
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/parse", h.HandleParse)
}

func (h *Handler) logger() *logging.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logging.New()
}

func (h *Handler) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	log := h.logger().With(
		logging.String("method", c.Method()),
		logging.String("path", c.Path()),
	)
	c.SetUserContext(log.GetContext(c.UserContext()))

	err := c.Next()

	log.Info("request",
		logging.Int("status", c.Response().StatusCode()),
		logging.Duration("took", time.Since(start)),
	)

	return err
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	version := h.Version
	if version == "" {
		version = "dev"
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": version,
	})
}

func (h *Handler) HandleParse(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := logging.FromContext(ctx)

	var req ParseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "text is required"})
	}

	trx, err := h.Parser.Parse(ctx, req.Text, req.BankAlertName)
	if errors.Is(err, alert.ErrNoAmount) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: "could not parse"})
	}
	if err != nil {
		log.Error("could not parse alert", logging.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}

	resp := ParseResponse{
		Transaction: trx,
		Accepted:    trx.IsCredit(),
	}
	if !resp.Accepted {
		resp.Warning = debitWarning
	}

	return c.JSON(resp)
}
