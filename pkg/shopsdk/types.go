package shopsdk

// PlanResponse is one catalog entry.
type PlanResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"` // GBP per month, decimal string
	Data     string   `json:"data"`
	Minutes  string   `json:"minutes"`
	Texts    string   `json:"texts"`
	Features []string `json:"features"`
	Popular  bool     `json:"popular,omitempty"`
}

// PlansResponse is the catalog listing.
type PlansResponse struct {
	Plans []PlanResponse `json:"plans"`
}

// OrderSummaryResponse is the basket breakdown. All amounts are GBP decimal
// strings; floats never cross the wire.
type OrderSummaryResponse struct {
	MonthlyPrice  string `json:"monthly_price"`
	ActivationFee string `json:"activation_fee"`
	FirstCredit   string `json:"first_credit"`
	Total         string `json:"total"`
}

// IdentityResponse reports what the wallet released. Bank account fields are
// deliberately absent; the client only learns whether they were released.
type IdentityResponse struct {
	Name           string `json:"name"`
	Address        string `json:"address,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
	Age            int    `json:"age,omitempty"`
	HasBankDetails bool   `json:"has_bank_details"`
}

// WizardStateResponse is the full state of one purchase wizard session.
type WizardStateResponse struct {
	ID                 string                `json:"id"`
	Step               string                `json:"step"`
	Plan               *PlanResponse         `json:"plan,omitempty"`
	Summary            *OrderSummaryResponse `json:"summary,omitempty"`
	QRCodeURL          string                `json:"qr_code_url,omitempty"`
	VerificationStatus string                `json:"verification_status"`
	Identity           *IdentityResponse     `json:"identity,omitempty"`
	FailureReason      string                `json:"failure_reason,omitempty"`
	PollError          string                `json:"poll_error,omitempty"`
	OrderID            string                `json:"order_id,omitempty"`
	CreatedAt          string                `json:"created_at"`
	UpdatedAt          string                `json:"updated_at"`
}

// SelectPlanRequest puts a plan in the basket.
type SelectPlanRequest struct {
	PlanID string `json:"plan_id"`
}

// SubmitDetailsRequest carries the manual credential entry form.
type SubmitDetailsRequest struct {
	Name          string `json:"name,omitempty"`
	Address       string `json:"address,omitempty"`
	SortCode      string `json:"sort_code"`
	AccountNumber string `json:"account_number"`
}

// DirectDebitResponse exposes payment details in masked form only.
type DirectDebitResponse struct {
	SortCode      string `json:"sort_code"`      // masked, e.g. ****13
	AccountNumber string `json:"account_number"` // masked, e.g. ****6819
}

// OrderUserResponse is the purchaser on a completed order.
type OrderUserResponse struct {
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}

// OrderResponse is one completed purchase.
type OrderResponse struct {
	ID            string              `json:"id"`
	PlanID        string              `json:"plan_id"`
	PlanName      string              `json:"plan_name"`
	MonthlyPrice  string              `json:"monthly_price"`
	ActivationFee string              `json:"activation_fee"`
	FirstCredit   string              `json:"first_credit"`
	Total         string              `json:"total"`
	User          OrderUserResponse   `json:"user"`
	DirectDebit   DirectDebitResponse `json:"direct_debit"`
	Status        string              `json:"status"`
	CreatedAt     string              `json:"created_at"`
}

// OrdersResponse is the order listing.
type OrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
}

// HealthChecks reports per-dependency health on the readiness probe.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status   string        `json:"status"`
	Uptime   string        `json:"uptime"`
	Version  string        `json:"version"`
	Sessions int           `json:"sessions,omitempty"`
	Checks   *HealthChecks `json:"checks,omitempty"`
}
