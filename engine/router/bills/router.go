// Package bills exposes the read surface over stored bills.
package bills

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avasalony-boop/policy-tracker/engine/bill"
	"github.com/avasalony-boop/policy-tracker/pkg/logger"
)

const defaultLimit = 100

// soonWindowDays bounds the "effective soon" annotation.
const soonWindowDays = 90

// BillResponse is a stored bill overview plus the derived effective_status.
type BillResponse struct {
	bill.Overview
	EffectiveStatus string `json:"effective_status"`
}

// Handler serves bill queries from a repository.
type Handler struct {
	repo bill.Repository
	now  func() time.Time
}

// NewHandler creates a bills handler backed by repo.
func NewHandler(repo bill.Repository) *Handler {
	return &Handler{repo: repo, now: time.Now}
}

// RegisterRoutes registers the bills routes under apiBase.
func RegisterRoutes(apiBase *gin.RouterGroup, repo bill.Repository) {
	handler := NewHandler(repo)
	apiBase.GET("/bills", handler.ListBills)
}

// ListBills handles GET /bills with optional topic, state, status and limit
// query parameters.
func (h *Handler) ListBills(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())
	filter := &bill.ListFilter{
		Topic:        c.Query("topic"),
		Jurisdiction: c.Query("state"),
		Status:       bill.Status(c.Query("status")),
		Limit:        defaultLimit,
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit", "details": raw})
			return
		}
		filter.Limit = limit
	}
	rows, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		log.Error("Failed to list bills", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bills"})
		return
	}
	out := make([]BillResponse, 0, len(rows))
	for i := range rows {
		out = append(out, BillResponse{
			Overview:        *rows[i],
			EffectiveStatus: effectiveStatus(rows[i].EffectiveDate, h.now()),
		})
	}
	c.JSON(http.StatusOK, out)
}

// effectiveStatus classifies an effective date relative to now. Unparseable
// or absent dates are "unknown".
func effectiveStatus(effectiveDate string, now time.Time) string {
	if effectiveDate == "" {
		return "unknown"
	}
	d, err := time.Parse("2006-01-02", effectiveDate)
	if err != nil {
		return "unknown"
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch {
	case !d.After(today):
		return "active"
	case d.Sub(today) <= soonWindowDays*24*time.Hour:
		return "effective soon"
	default:
		return "scheduled"
	}
}
