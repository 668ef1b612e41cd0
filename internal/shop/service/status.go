package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/pkg/pingsdk"
)

// normalizeStatus maps the provider's raw status vocabulary onto the wizard's
// closed status set. The raw set is open; anything unrecognized is treated as
// a failure rather than silently ignored. A 404-synthesized NOT_FOUND and an
// empty status both mean the session hasn't materialized yet, which is
// indistinguishable from pending.
func normalizeStatus(raw string) domain.Status {
	switch raw {
	case pingsdk.RawStatusInitial, pingsdk.RawStatusWaiting, pingsdk.RawStatusNotFound, "":
		return domain.StatusPending
	case pingsdk.RawStatusScanned, pingsdk.RawStatusInProgress:
		return domain.StatusScanned
	case pingsdk.RawStatusSuccessful:
		return domain.StatusApproved
	case pingsdk.RawStatusRejected, "DECLINED":
		return domain.StatusDeclined
	case pingsdk.RawStatusExpired, "EXPIRED":
		return domain.StatusExpired
	default:
		return domain.StatusFailed
	}
}

// extractIdentity pulls the released credential fields out of an approved
// status response. Returns nil when the response carries no credential data.
func extractIdentity(resp *pingsdk.StatusResponse) *domain.ExtractedIdentity {
	if resp == nil || resp.SessionData == nil {
		return nil
	}

	var id domain.ExtractedIdentity
	for _, cred := range resp.SessionData.CredentialsData {
		for _, field := range cred.Data {
			applyCredentialField(&id, field.Key, field.Value)
		}
	}

	if id.Empty() {
		return nil
	}
	return &id
}

func applyCredentialField(id *domain.ExtractedIdentity, key, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	switch key {
	case "firstName", "givenName":
		id.FirstName = value
	case "lastName", "familyName", "surname":
		id.LastName = value
	case "name", "fullName":
		id.FullName = value
	case "address", "formattedAddress":
		id.Address = value
	case "birthDate", "dateOfBirth", "dob":
		id.BirthDate = value
		if id.Age == 0 {
			id.Age = ageFromBirthDate(value, time.Now())
		}
	case "age":
		if n, err := strconv.Atoi(value); err == nil {
			id.Age = n
		}
	case "accountNumber":
		id.AccountNumber = value
	case "sortCode":
		id.SortCode = strings.ReplaceAll(value, "-", "")
	}
}

// ageFromBirthDate computes whole years from an ISO date. Returns 0 when the
// date doesn't parse; an absent age is never a verification failure here.
func ageFromBirthDate(birthDate string, now time.Time) int {
	born, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0
	}

	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
