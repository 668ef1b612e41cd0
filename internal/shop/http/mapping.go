package http

import (
	"errors"
	"time"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/internal/shop/service"
	"github.com/vphone/simshop/internal/shop/store"
	"github.com/vphone/simshop/pkg/pingsdk"
	"github.com/vphone/simshop/pkg/shopsdk"
)

func toPlanResponse(p domain.Plan) shopsdk.PlanResponse {
	return shopsdk.PlanResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.String(),
		Data:     p.Data,
		Minutes:  p.Minutes,
		Texts:    p.Texts,
		Features: p.Features,
		Popular:  p.Popular,
	}
}

func toWizardStateResponse(state service.WizardState) shopsdk.WizardStateResponse {
	resp := shopsdk.WizardStateResponse{
		ID:                 state.ID,
		Step:               state.Step.String(),
		QRCodeURL:          state.QRCodeURL,
		VerificationStatus: state.VerificationStatus.String(),
		FailureReason:      state.FailureReason.String(),
		PollError:          state.PollError,
		OrderID:            state.OrderID,
		CreatedAt:          state.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          state.UpdatedAt.Format(time.RFC3339),
	}

	if state.Plan != nil {
		plan := toPlanResponse(*state.Plan)
		resp.Plan = &plan
	}
	if state.Summary != nil {
		resp.Summary = &shopsdk.OrderSummaryResponse{
			MonthlyPrice:  state.Summary.MonthlyPrice.String(),
			ActivationFee: state.Summary.ActivationFee.String(),
			FirstCredit:   state.Summary.FirstCredit.String(),
			Total:         state.Summary.Total.String(),
		}
	}
	if state.Identity != nil {
		resp.Identity = &shopsdk.IdentityResponse{
			Name:           state.Identity.Name(),
			Address:        state.Identity.Address,
			BirthDate:      state.Identity.BirthDate,
			Age:            state.Identity.Age,
			HasBankDetails: state.Identity.HasBankDetails(),
		}
	}

	return resp
}

func toOrderResponse(o domain.Order) shopsdk.OrderResponse {
	return shopsdk.OrderResponse{
		ID:            o.ID,
		PlanID:        o.PlanID,
		PlanName:      o.PlanName,
		MonthlyPrice:  o.MonthlyPrice.String(),
		ActivationFee: o.ActivationFee.String(),
		FirstCredit:   o.FirstCredit.String(),
		Total:         o.Total.String(),
		User: shopsdk.OrderUserResponse{
			Name:      o.User.Name,
			Address:   o.User.Address,
			BirthDate: o.User.BirthDate,
		},
		DirectDebit: shopsdk.DirectDebitResponse{
			SortCode:      o.DirectDebit.MaskedSortCode(),
			AccountNumber: o.DirectDebit.MaskedAccountNumber(),
		},
		Status:    string(o.Status),
		CreatedAt: o.CreatedAt.Format(time.RFC3339),
	}
}

// mapServiceError translates service-layer failures onto the API's error
// envelope. Unknown errors never leak details to the client.
func mapServiceError(err error) *shopsdk.APIError {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, store.ErrNotFound):
		return shopsdk.ErrNotFound
	case errors.Is(err, service.ErrInvalidTransition):
		return shopsdk.ErrInvalidStep
	case errors.Is(err, service.ErrNoPlanSelected):
		return shopsdk.ErrInvalidStep.WithMessage("no plan has been selected")
	case errors.Is(err, service.ErrCheckoutInFlight):
		return shopsdk.ErrInvalidStep.WithMessage("a checkout is already in progress for this session")
	case errors.Is(err, service.ErrUnknownPlan):
		return shopsdk.ErrUnknownPlan
	case errors.Is(err, domain.ErrInvalidSortCode),
		errors.Is(err, domain.ErrInvalidAccountNumber),
		errors.Is(err, domain.ErrMissingName):
		return shopsdk.ErrInvalidBankDetails.WithMessage(err.Error())
	case errors.Is(err, pingsdk.ErrTimeout):
		return shopsdk.ErrProviderTimeout
	case isProviderError(err):
		return shopsdk.ErrProviderUnavailable
	default:
		return shopsdk.ErrServerError
	}
}

func isProviderError(err error) bool {
	var provErr *pingsdk.ProviderError
	return errors.As(err, &provErr)
}
