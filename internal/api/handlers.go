package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/seoaudit/internal/domain"
	"github.com/jonesrussell/seoaudit/internal/logger"
)

const (
	defaultLimit  = 50
	defaultOffset = 0
	maxLimit      = 500
)

// AuditReader is the read-only persistence surface the API exposes.
type AuditReader interface {
	ListRuns(ctx context.Context, limit, offset int) ([]*domain.AuditRun, error)
	GetRun(ctx context.Context, id string) (*domain.AuditRun, error)
	RunIssues(ctx context.Context, runID string) ([]domain.Issue, error)
	ListReports(ctx context.Context, limit, offset int) ([]*domain.AuditReport, error)
}

// Handler serves the audit API endpoints.
type Handler struct {
	store  AuditReader
	logger logger.Interface
}

// NewHandler creates the handler set.
func NewHandler(store AuditReader, log logger.Interface) *Handler {
	if log == nil {
		log = logger.NewNoOp()
	}
	return &Handler{store: store, logger: log}
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRuns handles GET /api/v1/runs.
func (h *Handler) ListRuns(c *gin.Context) {
	limit, offset := paging(c)

	runs, err := h.store.ListRuns(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list runs failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve runs",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"count": len(runs),
	})
}

// GetRun handles GET /api/v1/runs/:id.
func (h *Handler) GetRun(c *gin.Context) {
	id := c.Param("id")
	if id == "" || id == "undefined" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid run ID",
		})
		return
	}

	run, err := h.store.GetRun(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get run failed", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve run",
		})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Run not found",
		})
		return
	}

	c.JSON(http.StatusOK, run)
}

// ListRunIssues handles GET /api/v1/runs/:id/issues.
func (h *Handler) ListRunIssues(c *gin.Context) {
	id := c.Param("id")

	run, err := h.store.GetRun(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("get run failed", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve run",
		})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Run not found",
		})
		return
	}

	issues, err := h.store.RunIssues(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list issues failed", "run_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve issues",
		})
		return
	}

	// Optional severity filter: ?severity=high|medium|low
	if sev := c.Query("severity"); sev != "" {
		issues = filterBySeverity(issues, sev)
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id": id,
		"issues": issues,
		"count":  len(issues),
	})
}

// ListReports handles GET /api/v1/reports.
func (h *Handler) ListReports(c *gin.Context) {
	limit, offset := paging(c)

	reports, err := h.store.ListReports(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list reports failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve reports",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reports": reports,
		"count":   len(reports),
	})
}

func paging(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", strconv.Itoa(defaultOffset)))
	if err != nil || offset < 0 {
		offset = defaultOffset
	}
	return limit, offset
}

func filterBySeverity(issues []domain.Issue, name string) []domain.Issue {
	var want domain.Severity
	switch name {
	case "high":
		want = domain.SeverityHigh
	case "medium":
		want = domain.SeverityMedium
	case "low":
		want = domain.SeverityLow
	default:
		return issues
	}

	out := make([]domain.Issue, 0, len(issues))
	for _, issue := range issues {
		if issue.Severity == want {
			out = append(out, issue)
		}
	}
	return out
}
