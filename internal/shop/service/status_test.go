package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vphone/simshop/internal/shop/domain"
	"github.com/vphone/simshop/pkg/pingsdk"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Status
	}{
		{pingsdk.RawStatusInitial, domain.StatusPending},
		{pingsdk.RawStatusWaiting, domain.StatusPending},
		{pingsdk.RawStatusNotFound, domain.StatusPending},
		{"", domain.StatusPending},
		{pingsdk.RawStatusScanned, domain.StatusScanned},
		{pingsdk.RawStatusInProgress, domain.StatusScanned},
		{pingsdk.RawStatusSuccessful, domain.StatusApproved},
		{pingsdk.RawStatusRejected, domain.StatusDeclined},
		{"DECLINED", domain.StatusDeclined},
		{pingsdk.RawStatusExpired, domain.StatusExpired},
		{"EXPIRED", domain.StatusExpired},
		{pingsdk.RawStatusFailed, domain.StatusFailed},
		{"SOMETHING_NEW", domain.StatusFailed},
	}

	for _, tt := range tests {
		t.Run("raw "+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeStatus(tt.raw))
		})
	}
}

func TestExtractIdentity(t *testing.T) {
	resp := &pingsdk.StatusResponse{
		Status: pingsdk.RawStatusSuccessful,
		SessionData: &pingsdk.SessionData{
			CredentialsData: []pingsdk.CredentialData{{
				Type: "Your Digital ID",
				Data: []pingsdk.CredentialField{
					{Key: "firstName", Value: " Avery "},
					{Key: "lastName", Value: "Quinn"},
					{Key: "address", Value: "1 High Street, London"},
					{Key: "birthDate", Value: "1990-06-15"},
					{Key: "sortCode", Value: "60-16-13"},
					{Key: "accountNumber", Value: "31926819"},
				},
			}},
		},
	}

	id := extractIdentity(resp)
	require.NotNil(t, id)
	assert.Equal(t, "Avery", id.FirstName)
	assert.Equal(t, "Avery Quinn", id.Name())
	assert.Equal(t, "1 High Street, London", id.Address)
	assert.Equal(t, "601613", id.SortCode)
	assert.True(t, id.HasBankDetails())
	assert.GreaterOrEqual(t, id.Age, 35)
}

func TestExtractIdentityWithoutBankDetails(t *testing.T) {
	resp := &pingsdk.StatusResponse{
		SessionData: &pingsdk.SessionData{
			CredentialsData: []pingsdk.CredentialData{{
				Data: []pingsdk.CredentialField{
					{Key: "firstName", Value: "Avery"},
				},
			}},
		},
	}

	id := extractIdentity(resp)
	require.NotNil(t, id)
	assert.False(t, id.HasBankDetails())
}

func TestExtractIdentityEmpty(t *testing.T) {
	assert.Nil(t, extractIdentity(nil))
	assert.Nil(t, extractIdentity(&pingsdk.StatusResponse{}))
	assert.Nil(t, extractIdentity(&pingsdk.StatusResponse{SessionData: &pingsdk.SessionData{}}))
}

func TestAgeFromBirthDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 36, ageFromBirthDate("1990-06-15", now))
	assert.Equal(t, 35, ageFromBirthDate("1990-10-01", now)) // birthday not reached yet
	assert.Zero(t, ageFromBirthDate("not-a-date", now))
	assert.Zero(t, ageFromBirthDate("2030-01-01", now))
}
