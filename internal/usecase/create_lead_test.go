package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

func TestCreateLead_StartsInNewWithHistory(t *testing.T) {
	leadRepo := new(MockLeadRepository)
	historyRepo := new(MockLeadHistoryRepository)
	uc := NewCreateLeadUseCase(leadRepo, historyRepo)

	leadRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Status == entity.StatusNew && !l.Converted
	})).Return(nil)
	historyRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	lead, err := uc.Execute(context.Background(), CreateLeadInput{
		OrganizationID: "org-1",
		BranchID:       "br-1",
		Name:           "Juan Gómez",
		Phone:          "3514445555",
		Province:       "Córdoba",
		Origin:         "Cataratas",
		PaxCount:       4,
		TravelDate:     "2026-10-15",
		Source:         "facebook",
		ActorID:        "system",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, "facebook", lead.Source)
	require.NotNil(t, lead.TravelDate)
	assert.Equal(t, "2026-10-15", lead.TravelDate.Format("2006-01-02"))
	leadRepo.AssertExpectations(t)
	historyRepo.AssertExpectations(t)
}

func TestCreateLead_RejectsBadInput(t *testing.T) {
	uc := NewCreateLeadUseCase(new(MockLeadRepository), new(MockLeadHistoryRepository))

	cases := []struct {
		name  string
		input CreateLeadInput
	}{
		{"sin nombre", CreateLeadInput{OrganizationID: "org-1", BranchID: "br-1", Phone: "3514445555"}},
		{"teléfono corto", CreateLeadInput{OrganizationID: "org-1", BranchID: "br-1", Name: "Ana", Phone: "123"}},
		{"pax negativo", CreateLeadInput{OrganizationID: "org-1", BranchID: "br-1", Name: "Ana", PaxCount: -1}},
		{"fecha inválida", CreateLeadInput{OrganizationID: "org-1", BranchID: "br-1", Name: "Ana", TravelDate: "15/10/2026"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), c.input)
			require.Error(t, err)
			var domainErr *DomainError
			assert.ErrorAs(t, err, &domainErr)
		})
	}
}
