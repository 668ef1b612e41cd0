package http

import (
	"encoding/json"
	"net/http"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/pkg/httpx"
	"github.com/vphone/simshop/pkg/shopsdk"
	"github.com/vphone/simshop/pkg/slogx"
)

type WizardHandler struct {
	WizardService *service.WizardService
}

// HandleStart creates a new purchase wizard session.
//
//	@Summary		Start a purchase wizard
//	@Description	Creates a fresh wizard session at the plan selection step.
//	@Tags			Wizard
//	@Produce		json
//	@Success		201	{object}	shopsdk.WizardStateResponse
//	@Router			/v1/wizard [post].
func (h *WizardHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	state := h.WizardService.StartSession(r.Context())
	httpx.WriteJSON(w, http.StatusCreated, toWizardStateResponse(state))
}

// HandleGet returns a session's current state.
//
//	@Summary		Get wizard state
//	@Description	Returns the session's step, basket, and verification status. Clients
//	@Description	poll this endpoint while a verification is in flight.
//	@Tags			Wizard
//	@Produce		json
//	@Param			id	path		string	true	"Wizard session id"
//	@Success		200	{object}	shopsdk.WizardStateResponse
//	@Failure		404	{object}	shopsdk.APIError
//	@Router			/v1/wizard/{id} [get].
func (h *WizardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	state, err := h.WizardService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, toWizardStateResponse(state))
}

// HandleSelectPlan puts a plan in the basket.
//
//	@Summary		Select a plan
//	@Description	Moves the session to the basket with the chosen plan. Valid from the
//	@Description	plan selection step and from the basket itself.
//	@Tags			Wizard
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Wizard session id"
//	@Param			request	body		shopsdk.SelectPlanRequest	true	"Plan selection"
//	@Success		200		{object}	shopsdk.WizardStateResponse
//	@Failure		400		{object}	shopsdk.APIError
//	@Failure		404		{object}	shopsdk.APIError
//	@Failure		409		{object}	shopsdk.APIError
//	@Router			/v1/wizard/{id}/plan [post].
func (h *WizardHandler) HandleSelectPlan(w http.ResponseWriter, r *http.Request) {
	var req shopsdk.SelectPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlanID == "" {
		shopsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	state, err := h.WizardService.SelectPlan(r.Context(), r.PathValue("id"), req.PlanID)
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWizardStateResponse(state))
}

// HandleCheckout starts identity verification for the basket.
//
//	@Summary		Checkout
//	@Description	Creates a verification session with the identity provider and returns
//	@Description	the QR code for the shopper's wallet. On provider failure the session
//	@Description	stays on the basket so checkout can be retried.
//	@Tags			Wizard
//	@Produce		json
//	@Param			id	path		string	true	"Wizard session id"
//	@Success		200	{object}	shopsdk.WizardStateResponse
//	@Failure		404	{object}	shopsdk.APIError
//	@Failure		409	{object}	shopsdk.APIError
//	@Failure		502	{object}	shopsdk.APIError
//	@Failure		504	{object}	shopsdk.APIError
//	@Router			/v1/wizard/{id}/checkout [post].
func (h *WizardHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	state, err := h.WizardService.Checkout(ctx, r.PathValue("id"))
	if err != nil {
		apiErr := mapServiceError(err)
		if apiErr == shopsdk.ErrServerError {
			// Anything unexpected on the checkout path is a provider-side
			// problem from the shopper's point of view.
			apiErr = shopsdk.ErrProviderUnavailable
		}
		log.Warn("checkout failed", "wizard_id", r.PathValue("id"), "err", err)
		apiErr.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWizardStateResponse(state))
}

// HandleSubmitDetails accepts the manual bank credential form.
//
//	@Summary		Submit direct debit details
//	@Description	Completes the order with manually entered bank credentials. Only valid
//	@Description	at the credentials step, after an approved verification.
//	@Tags			Wizard
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Wizard session id"
//	@Param			request	body		shopsdk.SubmitDetailsRequest	true	"Bank details"
//	@Success		200		{object}	shopsdk.WizardStateResponse
//	@Failure		404		{object}	shopsdk.APIError
//	@Failure		409		{object}	shopsdk.APIError
//	@Failure		422		{object}	shopsdk.APIError
//	@Router			/v1/wizard/{id}/details [post].
func (h *WizardHandler) HandleSubmitDetails(w http.ResponseWriter, r *http.Request) {
	var req shopsdk.SubmitDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shopsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	state, err := h.WizardService.SubmitDetails(r.Context(), r.PathValue("id"),
		domain.UserDetails{Name: req.Name, Address: req.Address},
		domain.DirectDebitDetails{SortCode: req.SortCode, AccountNumber: req.AccountNumber},
	)
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWizardStateResponse(state))
}

// HandleBack steps the wizard one screen backwards.
//
//	@Summary		Go back one step
//	@Description	Steps backwards: basket to plans, credentials to basket, QR display to
//	@Description	basket (abandoning the running verification).
//	@Tags			Wizard
//	@Produce		json
//	@Param			id	path		string	true	"Wizard session id"
//	@Success		200	{object}	shopsdk.WizardStateResponse
//	@Failure		404	{object}	shopsdk.APIError
//	@Failure		409	{object}	shopsdk.APIError
//	@Router			/v1/wizard/{id}/back [post].
func (h *WizardHandler) HandleBack(w http.ResponseWriter, r *http.Request) {
	state, err := h.WizardService.Back(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWizardStateResponse(state))
}

// HandleReset returns the session to plan selection.
//
//	@Summary		Reset the wizard
//	@Description	Abandons the basket and any verification and starts over. The session
//	@Description	id stays valid.
//	@Tags			Wizard
//	@Produce		json
//	@Param			id	path		string	true	"Wizard session id"
//	@Success		200	{object}	shopsdk.WizardStateResponse
//	@Failure		404	{object}	shopsdk.APIError
//	@Router			/v1/wizard/{id}/reset [post].
func (h *WizardHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	state, err := h.WizardService.Reset(r.Context(), r.PathValue("id"))
	if err != nil {
		mapServiceError(err).WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toWizardStateResponse(state))
}
