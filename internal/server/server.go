package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/setanarut/skinbrief"
	"github.com/setanarut/skinbrief/internal/config"
	"github.com/setanarut/skinbrief/internal/logger"
	"golang.org/x/time/rate"
)

// entry is one browser session. Commands on it run one at a time; only the
// decode of an upload happens outside the lock.
type entry struct {
	mu      sync.Mutex
	id      string
	session *skinbrief.Session
	uploads *rate.Limiter
}

type Handler struct {
	Logger      *logger.ZapLogger
	Sessions    *cache.Cache
	Overlay     skinbrief.OverlaySource
	Options     skinbrief.CompositeOptions
	PaletteSize int
	UploadRate  rate.Limit
	UploadBurst int
}

// NewHandler wires a handler from cfg. Sessions expire after cfg.SessionTTL
// of inactivity.
func NewHandler(cfg *config.Config, lg *logger.ZapLogger, overlay skinbrief.OverlaySource) (*Handler, error) {
	filter, err := skinbrief.ParseFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = config.DefaultSessionTTL
	}
	return &Handler{
		Logger:      lg,
		Sessions:    cache.New(ttl, ttl/2),
		Overlay:     overlay,
		Options:     skinbrief.CompositeOptions{Filter: filter},
		PaletteSize: cfg.PaletteSize,
		UploadRate:  rate.Limit(cfg.UploadRate),
		UploadBurst: cfg.UploadBurst,
	}, nil
}

// App builds the fiber app with every route registered.
func (h *Handler) App(allowOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		ErrorHandler:          errorHandler,
	})

	// -- setup cors --
	if allowOrigins == "" {
		allowOrigins = config.DefaultAllowOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// -- register routes --
	app.Get("/healthz", h.GetHealth)
	app.Post("/sessions", h.CreateSession)
	app.Get("/sessions/:id", h.GetSession)
	app.Post("/sessions/:id/consent", h.PostConsent)
	app.Post("/sessions/:id/skin", h.PostSkin)
	app.Get("/sessions/:id/palette", h.GetPalette)
	app.Put("/sessions/:id/color", h.PutColor)
	app.Delete("/sessions/:id/color", h.DeleteColor)
	app.Get("/sessions/:id/preview", h.GetPreview)
	app.Get("/sessions/:id/export", h.GetExport)

	return app
}

func (h *Handler) newEntry() *entry {
	s := skinbrief.NewSession()
	if h.PaletteSize > 0 {
		s.PaletteSize = h.PaletteSize
	}
	s.Options = h.Options

	burst := h.UploadBurst
	if burst <= 0 {
		burst = config.DefaultUploadBurst
	}
	limit := h.UploadRate
	if limit <= 0 {
		limit = rate.Limit(config.DefaultUploadRate)
	}

	e := &entry{
		id:      uuid.NewString(),
		session: s,
		uploads: rate.NewLimiter(limit, burst),
	}
	h.Sessions.Set(e.id, e, cache.DefaultExpiration)
	return e
}

// lookup finds the session named by the :id param and refreshes its expiry.
func (h *Handler) lookup(c *fiber.Ctx) (*entry, error) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "bad session id: "+id)
	}
	item, ok := h.Sessions.Get(id)
	if !ok {
		return nil, fiber.NewError(fiber.StatusNotFound, "unknown session: "+id)
	}
	e := item.(*entry)
	h.Sessions.Set(id, e, cache.DefaultExpiration)
	return e, nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(errorResponse{Error: msg})
}
