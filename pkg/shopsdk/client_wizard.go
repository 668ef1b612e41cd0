package shopsdk

import (
	"context"
	"net/http"
)

// StartWizard begins a new purchase wizard session.
func (c *SDKClient) StartWizard(ctx context.Context) (*WizardStateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wizard", nil)
	if err != nil {
		return nil, err
	}

	var state WizardStateResponse
	if err := decodeJSON(resp, &state, http.StatusCreated); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetWizard fetches a session's current state. Clients poll this while the
// verification is in flight.
func (c *SDKClient) GetWizard(ctx context.Context, id string) (*WizardStateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/wizard/"+id, nil)
	if err != nil {
		return nil, err
	}

	var state WizardStateResponse
	if err := decodeJSON(resp, &state, http.StatusOK); err != nil {
		return nil, err
	}
	return &state, nil
}

// SelectPlan puts a plan in the session's basket.
func (c *SDKClient) SelectPlan(ctx context.Context, id, planID string) (*WizardStateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wizard/"+id+"/plan", SelectPlanRequest{PlanID: planID})
	if err != nil {
		return nil, err
	}

	var state WizardStateResponse
	if err := decodeJSON(resp, &state, http.StatusOK); err != nil {
		return nil, err
	}
	return &state, nil
}

// Checkout starts identity verification for the basket.
func (c *SDKClient) Checkout(ctx context.Context, id string) (*WizardStateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wizard/"+id+"/checkout", nil)
	if err != nil {
		return nil, err
	}

	var state WizardStateResponse
	if err := decodeJSON(resp, &state, http.StatusOK); err != nil {
		return nil, err
	}
	return &state, nil
}

// SubmitDetails sends the manual bank credential form.
func (c *SDKClient) SubmitDetails(ctx context.Context, id string, details SubmitDetailsRequest) (*WizardStateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wizard/"+id+"/details", details)
	if err != nil {
		return nil, err
	}

	var state WizardStateResponse
	if err := decodeJSON(resp, &state, http.StatusOK); err != nil {
		return nil, err
	}
	return &state, nil
}

// Back steps the wizard one screen backwards.
func (c *SDKClient) Back(ctx context.Context, id string) (*WizardStateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wizard/"+id+"/back", nil)
	if err != nil {
		return nil, err
	}

	var state WizardStateResponse
	if err := decodeJSON(resp, &state, http.StatusOK); err != nil {
		return nil, err
	}
	return &state, nil
}

// ResetWizard abandons everything and returns the session to plan selection.
func (c *SDKClient) ResetWizard(ctx context.Context, id string) (*WizardStateResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/wizard/"+id+"/reset", nil)
	if err != nil {
		return nil, err
	}

	var state WizardStateResponse
	if err := decodeJSON(resp, &state, http.StatusOK); err != nil {
		return nil, err
	}
	return &state, nil
}
