// Package httpapi exposes the arena over a JSON HTTP API.
package httpapi

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"DiamondQuest/internal/arena"
	"DiamondQuest/internal/gate"
	"DiamondQuest/internal/notifier"
	"DiamondQuest/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// CallbackSecretHeader carries the shared secret on offer-network callbacks.
const CallbackSecretHeader = "X-Callback-Secret"

// Options configure the HTTP surface.
type Options struct {
	AllowOrigins string

	// CallbackSecret guards /callback routes. Empty disables them.
	CallbackSecret string
}

// Server routes HTTP requests to a single Arena.
type Server struct {
	app   *fiber.App
	arena *arena.Arena
	inbox *notifier.Inbox
	opts  Options
}

// New builds the fiber app. inbox may be nil, in which case the
// notifications route always returns an empty list.
func New(a *arena.Arena, inbox *notifier.Inbox, opts Options) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "DiamondQuest",
			BodyLimit:             32 * 1024 * 1024,
			DisableStartupMessage: true,
			Immutable:             true,
			ErrorHandler:          errorHandler,
		}),
		arena: a,
		inbox: inbox,
		opts:  opts,
	}
	allowOrigins := opts.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, User-Agent",
	}))
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	log.Infof("HTTP API listening on %s", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/state", s.getState)
	api.Get("/notifications", s.getNotifications)

	api.Post("/login", s.postLogin)
	api.Post("/login/select", s.postSelect)
	api.Post("/logout", s.postLogout)

	api.Post("/daily-chest", s.postDailyChest)

	api.Get("/lucky-spin", s.getSpin)
	api.Post("/lucky-spin", s.postSpin)
	api.Get("/diamond-rush", s.getRush)
	api.Post("/diamond-rush", s.postRush)
	api.Post("/diamond-rush/collect/:id", s.postCollect)

	api.Get("/share", s.getShares)
	api.Post("/share/:platform", s.postShare)
	api.Post("/share/:platform/proof", s.postProof)

	api.Get("/exchange", s.getExchange)
	api.Post("/exchange", s.postExchange)

	api.Get("/offers", s.getOffers)
	api.Post("/offers/:activity", s.postRequestOffer)
	api.Post("/offers/:activity/complete", s.postCompleteOffer)

	if s.opts.CallbackSecret == "" {
		log.Warn("offer callback secret not set, verification callbacks disabled")
		return
	}
	cb := s.app.Group("/callback", s.requireSecret)
	cb.Post("/offers/:activity/verify", s.postVerifyOffer)
}

// requireSecret admits only requests carrying the configured callback secret.
func (s *Server) requireSecret(c *fiber.Ctx) error {
	got := c.Get(CallbackSecretHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.CallbackSecret)) != 1 {
		return fiber.NewError(fiber.StatusForbidden, "invalid callback secret")
	}
	return c.Next()
}

// statusCode maps an arena outcome to its HTTP status.
func statusCode(st arena.Status) int {
	switch st {
	case arena.StatusOK, arena.StatusNoOffers, arena.StatusRejected:
		return fiber.StatusOK
	case arena.StatusNoSession:
		return fiber.StatusUnauthorized
	case arena.StatusInsufficientFunds:
		return fiber.StatusPaymentRequired
	case arena.StatusNotFound:
		return fiber.StatusNotFound
	case arena.StatusProofRequired:
		return fiber.StatusUnprocessableEntity
	case arena.StatusError:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusConflict
	}
}

// errorCode maps an arena error to its HTTP status.
func errorCode(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, arena.ErrUnknownPlatform),
		errors.Is(err, arena.ErrUnknownOption),
		errors.Is(err, gate.ErrUnknownActivity),
		errors.Is(err, session.ErrUnknownCandidate):
		return fiber.StatusNotFound
	case errors.Is(err, arena.ErrNoProofRequired),
		errors.Is(err, session.ErrEmptyIdentifier):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := errorCode(err)
	if code >= http.StatusInternalServerError {
		log.Errorf("http: %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
