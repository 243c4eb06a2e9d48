package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tucanviajes/crm-backend/internal/entity"
	"github.com/tucanviajes/crm-backend/internal/usecase"
)

type fakeLeadCreator struct {
	lastInput usecase.CreateLeadInput
	lead      *entity.Lead
	err       error
}

func (f *fakeLeadCreator) Execute(ctx context.Context, input usecase.CreateLeadInput) (*entity.Lead, error) {
	f.lastInput = input
	return f.lead, f.err
}

type fakeRawLeadRepo struct {
	processedRawID string
	processedLead  string
	err            error
}

func (f *fakeRawLeadRepo) Create(ctx context.Context, r *entity.RawLead) error { return nil }

func (f *fakeRawLeadRepo) MarkProcessed(ctx context.Context, id string, leadID string) error {
	f.processedRawID = id
	f.processedLead = leadID
	return f.err
}

func testPayload(fields string) RawLeadPayload {
	return RawLeadPayload{
		RawLeadID:      "raw-1",
		OrganizationID: "org-1",
		BranchID:       "br-1",
		Source:         "facebook",
		Fields:         json.RawMessage(fields),
	}
}

func TestProcessMessage_CreatesLeadAndMarksProcessed(t *testing.T) {
	creator := &fakeLeadCreator{lead: &entity.Lead{ID: "lead-1", InquiryNumber: 7}}
	repo := &fakeRawLeadRepo{}
	w := NewWorker(nil, creator, repo)

	err := w.processMessage(context.Background(), testPayload(
		`{"nombre": "María Pérez", "telefono": "3514445555", "destino": "Bariloche"}`,
	))

	require.NoError(t, err)
	assert.Equal(t, "María Pérez", creator.lastInput.Name)
	assert.Equal(t, "3514445555", creator.lastInput.Phone)
	assert.Equal(t, "Bariloche", creator.lastInput.Origin)
	assert.Equal(t, "facebook", creator.lastInput.Source)
	assert.Equal(t, "raw-1", repo.processedRawID)
	assert.Equal(t, "lead-1", repo.processedLead)
}

func TestProcessMessage_DropsUnparseableFields(t *testing.T) {
	creator := &fakeLeadCreator{lead: &entity.Lead{ID: "lead-1"}}
	w := NewWorker(nil, creator, &fakeRawLeadRepo{})

	err := w.processMessage(context.Background(), testPayload(
		`{"nombre": "Juan", "telefono": "12", "fecha_viaje": "el mes que viene"}`,
	))

	require.NoError(t, err)
	assert.Empty(t, creator.lastInput.Phone, "teléfono ilegible se descarta")
	assert.Empty(t, creator.lastInput.TravelDate, "fecha ilegible se descarta")
	assert.Equal(t, "Juan", creator.lastInput.Name)
}

func TestProcessMessage_CreateFailurePropagates(t *testing.T) {
	creator := &fakeLeadCreator{err: errors.New("db down")}
	repo := &fakeRawLeadRepo{}
	w := NewWorker(nil, creator, repo)

	err := w.processMessage(context.Background(), testPayload(`{"nombre": "Ana"}`))

	require.Error(t, err)
	assert.Empty(t, repo.processedRawID, "sin lead no hay marca de procesado")
}

func TestProcessMessage_MarkProcessedFailureIsTolerated(t *testing.T) {
	creator := &fakeLeadCreator{lead: &entity.Lead{ID: "lead-1"}}
	repo := &fakeRawLeadRepo{err: errors.New("timeout")}
	w := NewWorker(nil, creator, repo)

	err := w.processMessage(context.Background(), testPayload(`{"nombre": "Ana"}`))
	assert.NoError(t, err, "el lead ya existe, perder la marca no es fatal")
}
