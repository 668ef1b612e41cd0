package http

import (
	"net/http"
	"time"

	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/internal/shop/store"
	"github.com/vphone/simshop/pkg/httpx"
	"github.com/vphone/simshop/pkg/shopsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the database connection. Reports the number
//	@Description	of live wizard sessions alongside uptime and version.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	shopsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	shopsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	wizard *service.WizardService,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &shopsdk.HealthChecks{
			Database: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		// Check database connectivity
		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		response := shopsdk.HealthResponse{
			Status:   overallStatus,
			Uptime:   time.Since(startTime).String(),
			Version:  version,
			Sessions: wizard.SessionCount(),
			Checks:   checks,
		}
		httpx.WriteJSON(w, statusCode, response)
	}
}
