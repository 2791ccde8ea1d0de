package handlers

import (
	"log"
	"net/http"
	"time"

	"clubops/internal/caching"
	"clubops/internal/common"
	"clubops/internal/jobs"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers serves the front-desk dashboard aggregates
type DashboardHandlers struct {
	cacheSvc caching.CacheService
	alertSvc *jobs.ExpiryAlertService
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(cacheSvc caching.CacheService, alertSvc *jobs.ExpiryAlertService) *DashboardHandlers {
	return &DashboardHandlers{
		cacheSvc: cacheSvc,
		alertSvc: alertSvc,
	}
}

// GetStatusCounts handles GET /dashboard/status-counts. Counts come
// from the cache refreshed by the background sweep; a cold cache falls
// back to sweeping inline.
func (h *DashboardHandlers) GetStatusCounts(c echo.Context) error {
	ctx := c.Request().Context()

	counts, err := h.cacheSvc.GetStatusCounts(ctx)
	if err == nil && counts != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status_counts": counts,
			"source":        "cache",
		})
	}

	counts, _, err = h.alertSvc.Sweep(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to compute status counts")
	}
	if cacheErr := h.cacheSvc.SetStatusCounts(ctx, counts, 24*time.Hour); cacheErr != nil {
		log.Printf("WARN: failed to cache status counts: %v", cacheErr)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status_counts": counts,
		"source":        "sweep",
	})
}
