package http

import (
	"net/http"

	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/pkg/httpx"
	"github.com/vphone/simshop/pkg/shopsdk"
)

type PlansHandler struct {
	CatalogService *service.CatalogService
}

// ServeHTTP returns the SIM plan catalog.
//
//	@Summary		List SIM plans
//	@Description	Returns the available monthly SIM plans with pricing and allowances.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{object}	shopsdk.PlansResponse
//	@Router			/v1/plans [get].
func (h *PlansHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	plans := h.CatalogService.Plans()

	resp := shopsdk.PlansResponse{
		Plans: make([]shopsdk.PlanResponse, 0, len(plans)),
	}
	for _, p := range plans {
		resp.Plans = append(resp.Plans, toPlanResponse(p))
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}
