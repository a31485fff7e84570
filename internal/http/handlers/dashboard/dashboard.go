// Package dashboard exposes the analytics snapshot over HTTP.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/mustafa-murtaza/studentms/internal/analytics"
	"github.com/mustafa-murtaza/studentms/internal/registry"
	"github.com/mustafa-murtaza/studentms/internal/utils/response"
)

// Analytics handles GET /api/analytics
// Computes the statistics snapshot fresh from the current roster —
// there is no cache to go stale. An empty roster yields an all-zero
// snapshot, not an error.
func Analytics(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("computing analytics snapshot")

		snap := analytics.Compute(reg.All())
		response.WriteJSON(w, http.StatusOK, snap)
	}
}
