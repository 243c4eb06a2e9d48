package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadStatus_ProducesContact(t *testing.T) {
	// Los dos primeros escalones del pipeline no materializan contacto.
	assert.False(t, StatusNew.ProducesContact())
	assert.False(t, StatusAssigned.ProducesContact())

	producing := []LeadStatus{
		StatusContacted, StatusFollowed, StatusInterested,
		StatusReserved, StatusLiquidated, StatusEffectiveReservation,
	}
	for _, s := range producing {
		assert.True(t, s.ProducesContact(), "%s debería convertir", s)
	}
}

func TestLeadStatus_Valid(t *testing.T) {
	assert.True(t, StatusNew.Valid())
	assert.True(t, StatusEffectiveReservation.Valid())
	assert.False(t, LeadStatus("pending").Valid())
	assert.False(t, LeadStatus("").Valid())
}

func TestNewLead_Defaults(t *testing.T) {
	lead, err := NewLead("org-1", "br-1", "María Pérez", "3514445555", "Córdoba")
	require.NoError(t, err)

	assert.Equal(t, StatusNew, lead.Status)
	assert.Equal(t, "manual", lead.Source)
	assert.False(t, lead.Converted)
	assert.NotEmpty(t, lead.ID)
}

func TestNewLead_RequiresNameAndTenancy(t *testing.T) {
	_, err := NewLead("", "br-1", "Ana", "", "")
	assert.Error(t, err)

	_, err = NewLead("org-1", "", "Ana", "", "")
	assert.Error(t, err)

	_, err = NewLead("org-1", "br-1", "", "", "")
	assert.Error(t, err)
}

func TestNewContactFromLead_CopiesFieldsAndBackReference(t *testing.T) {
	lead, err := NewLead("org-1", "br-1", "María Pérez", "3514445555", "Córdoba")
	require.NoError(t, err)
	lead.Origin = "Bariloche"
	lead.PaxCount = 3
	lead.InquiryNumber = 42

	contact := NewContactFromLead(lead, StatusReserved)

	assert.Equal(t, lead.Name, contact.Name)
	assert.Equal(t, lead.Phone, contact.Phone)
	assert.Equal(t, lead.Province, contact.Province)
	assert.Equal(t, lead.Origin, contact.Origin)
	assert.Equal(t, lead.PaxCount, contact.PaxCount)
	assert.Equal(t, lead.OrganizationID, contact.OrganizationID)
	assert.Equal(t, lead.BranchID, contact.BranchID)

	require.NotNil(t, contact.OriginalLeadID)
	assert.Equal(t, lead.ID, *contact.OriginalLeadID)
	// El status registrado es el de aterrizaje, no el previo.
	assert.Equal(t, StatusReserved, contact.OriginalLeadStatus)
	assert.Equal(t, int64(42), contact.OriginalInquiry)
	assert.NotEqual(t, lead.ID, contact.ID)
}
