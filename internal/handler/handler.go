package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mateuseller4-oss/celestial-register/internal/attendance"
	"github.com/mateuseller4-oss/celestial-register/internal/catalog"
	"github.com/mateuseller4-oss/celestial-register/internal/session"
	"github.com/mateuseller4-oss/celestial-register/internal/store"
)

// Handler wires the attendance pipeline to the HTTP surface.
type Handler struct {
	svc      *attendance.Service
	sessions *session.Manager
	redis    *store.Redis // nil when no redis backend is configured
	logger   *zap.Logger
}

// New creates a handler.
func New(svc *attendance.Service, sessions *session.Manager, redis *store.Redis, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, redis: redis, logger: logger.Named("http")}
}

// Healthz reports service and dependency health.
func (h *Handler) Healthz(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{"status": "ok"}
	if h.redis != nil {
		healthy := h.redis.Healthy(c.Request.Context())
		body["redis"] = healthy
		if !healthy {
			status = http.StatusServiceUnavailable
		}
	}
	c.JSON(status, body)
}

// CreateSession issues a fresh anonymous session for one form instance.
func (h *Handler) CreateSession(c *gin.Context) {
	s, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("session issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session issue failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session_id": s.ID,
		"token":      s.Token,
		"expires_at": s.ExpiresAt.Unix(),
	})
}

// Catalog returns the selectable class days and subjects.
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"days":     catalog.Days(),
		"subjects": catalog.Subjects(),
	})
}

// Submit runs one draft through the pipeline. Acceptance and delivery are
// reported separately: a failed dispatch still returns 201 with the record.
func (h *Handler) Submit(c *gin.Context) {
	var draft attendance.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
		return
	}

	sessionID := session.FromContext(c)
	rec, delivery, err := h.svc.Submit(c.Request.Context(), sessionID, draft)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"record":   rec,
		"delivery": delivery,
	})
}

// List returns the session's roster in insertion order.
func (h *Handler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context(), session.FromContext(c))
	if err != nil {
		h.logger.Error("roster list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "roster unavailable"})
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

// renderError maps pipeline errors to HTTP responses. Every branch returns
// the form to an editable state; diagnostics stay in the log.
func (h *Handler) renderError(c *gin.Context, err error) {
	var verr *attendance.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Dados incompletos",
			"fields": verr.Fields,
		})
	case errors.Is(err, attendance.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": attendance.ErrDuplicate.Error()})
	case errors.Is(err, attendance.ErrLocationUnavailable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": attendance.ErrLocationUnavailable.Error()})
	case errors.Is(err, attendance.ErrGeocodeUnresolved):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": attendance.ErrGeocodeUnresolved.Error()})
	case errors.Is(err, attendance.ErrLocationNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": attendance.ErrLocationNotAuthorized.Error()})
	default:
		h.logger.Error("submission failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
	}
}
