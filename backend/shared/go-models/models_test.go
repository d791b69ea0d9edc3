package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplicationDisplayStatus(t *testing.T) {
	cases := []struct {
		status     ApprovalStatus
		conditions []string
		want       string
	}{
		{ApprovalPending, nil, DisplayPending},
		{"", nil, DisplayPending},
		{ApprovalRejected, nil, DisplayRejected},
		{ApprovalApproved, nil, DisplayApproved},
		{ApprovalApproved, []string{}, DisplayApproved},
		{ApprovalApproved, []string{"Deposit"}, DisplayApprovedConditionally},
	}
	for _, tc := range cases {
		a := &Application{ApprovalStatus: tc.status, Conditions: tc.conditions}
		assert.Equal(t, tc.want, a.DisplayStatus(), "status=%q conditions=%v", tc.status, tc.conditions)
	}
}

func TestPropertyLabels(t *testing.T) {
	p := &Property{Name: "Palm Court", PropertyType: "apartment", StreetAddress: "12 Palm Rd", City: "Accra"}
	assert.Equal(t, "Palm Court, Apartment", p.DisplayName())
	assert.Equal(t, "12 Palm Rd, Accra", p.Location())

	p = &Property{Name: "Lone House", City: "Tema"}
	assert.Equal(t, "Lone House", p.DisplayName())
	assert.Equal(t, "Tema", p.Location())

	p.City = ""
	p.StreetAddress = "1 Beach Rd"
	assert.Equal(t, "1 Beach Rd", p.Location())
}

func TestTenancyEnded(t *testing.T) {
	ten := &Tenancy{
		LeaseStartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		LeaseEndDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.False(t, ten.Ended(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)), "signed but not started")
	assert.False(t, ten.Ended(ten.LeaseStartDate))
	assert.False(t, ten.Ended(time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC)))
	assert.True(t, ten.Ended(ten.LeaseEndDate))
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, OccupancyMaintenance.Valid())
	assert.False(t, OccupancyStatus("vacant").Valid())
	assert.True(t, PaymentOverdue.Valid())
	assert.False(t, PaymentStatus("refunded").Valid())
	assert.True(t, MaintenanceInProgress.Valid())
	assert.False(t, MaintenanceStatus("closed").Valid())
	assert.False(t, ApprovalStatus("maybe").Valid())
}
