package http

import (
	"net/http"

	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/pkg/httpx"
	"github.com/vphone/simshop/pkg/slogx"
)

type OrdersHandler struct {
	OrderService *service.OrderService
}

// HandleGet returns one completed order.
//
//	@Summary		Get an order
//	@Description	Returns a completed purchase. Direct debit details are masked.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string	true	"Order id"
//	@Success		200	{object}	shopsdk.OrderResponse
//	@Failure		404	{object}	shopsdk.APIError
//	@Router			/v1/orders/{id} [get].
func (h *OrdersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	order, err := h.OrderService.Get(ctx, r.PathValue("id"))
	if err != nil {
		log.Warn("failed to load order", "order_id", r.PathValue("id"), "err", err)
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toOrderResponse(order))
}
