package domain

// Step identifies the active screen of the purchase wizard. Exactly one step
// is active per session.
type Step string

const (
	StepPlans       Step = "plans"
	StepBasket      Step = "basket"
	StepCredentials Step = "credentials" // manual bank detail entry
	StepQRDisplay   Step = "qr_display"
	StepVerifying   Step = "verifying"
	StepCompleted   Step = "completed"
	StepFailed      Step = "failed"
)

func (s Step) String() string { return string(s) }
