package domain

import (
	"strings"
	"time"
)

// VerificationSession represents one identity-verification attempt against
// the wallet provider. A session is only pollable once all four required
// fields are present.
type VerificationSession struct {
	SessionID     string
	EnvironmentID string
	QRCodeURL     string
	ExpiresAt     time.Time
	AccessToken   string
}

// Complete reports whether the session carries everything the status
// endpoint needs: access token, environment id, session id and expiry.
func (s VerificationSession) Complete() bool {
	return s.AccessToken != "" &&
		s.EnvironmentID != "" &&
		s.SessionID != "" &&
		!s.ExpiresAt.IsZero()
}

// Expired reports whether the session is past its provider-assigned expiry.
func (s VerificationSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// VerificationRecord is the persisted audit trail of a verification
// attempt. It deliberately excludes the access token, which lives only in
// memory for the lifetime of the wizard session.
type VerificationRecord struct {
	ID            string
	WizardID      string
	SessionID     string
	EnvironmentID string
	QRCodeURL     string
	Status        Status
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ExtractedIdentity carries the fields released by the user's wallet on an
// approved verification. Fields the wallet did not release stay empty.
type ExtractedIdentity struct {
	FirstName     string
	LastName      string
	FullName      string
	Address       string
	BirthDate     string
	Age           int
	AccountNumber string
	SortCode      string
}

// Name returns the best available display name.
func (id ExtractedIdentity) Name() string {
	if id.FullName != "" {
		return id.FullName
	}
	return strings.TrimSpace(id.FirstName + " " + id.LastName)
}

// HasBankDetails reports whether the wallet released both direct debit
// fields, allowing the wizard to skip manual credential entry.
func (id ExtractedIdentity) HasBankDetails() bool {
	return id.AccountNumber != "" && id.SortCode != ""
}

// Empty reports whether nothing at all was extracted.
func (id ExtractedIdentity) Empty() bool {
	return id == ExtractedIdentity{}
}
