package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tucanviajes/crm-backend/internal/entity"
)

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListActive(ctx context.Context, orgID, branchID string) ([]*entity.Lead, error) {
	args := m.Called(ctx, orgID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus, converted bool) error {
	args := m.Called(ctx, id, status, converted)
	return args.Error(0)
}

func (m *MockLeadRepository) UpdateAssignment(ctx context.Context, id string, assignedTo *string) error {
	args := m.Called(ctx, id, assignedTo)
	return args.Error(0)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, c *entity.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContactRepository) FindByID(ctx context.Context, id string) (*entity.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, orgID, branchID string) ([]*entity.Contact, error) {
	args := m.Called(ctx, orgID, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Contact), args.Error(1)
}

func (m *MockContactRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockLeadHistoryRepository struct {
	mock.Mock
}

func (m *MockLeadHistoryRepository) Append(ctx context.Context, h *entity.LeadHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockLeadHistoryRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadHistory, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.LeadHistory), args.Error(1)
}

type MockScheduledEmailRepository struct {
	mock.Mock
}

func (m *MockScheduledEmailRepository) Create(ctx context.Context, e *entity.ScheduledEmail) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockScheduledEmailRepository) FindDue(ctx context.Context, now time.Time) ([]*entity.ScheduledEmail, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.ScheduledEmail), args.Error(1)
}

func (m *MockScheduledEmailRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	args := m.Called(ctx, id, sentAt)
	return args.Error(0)
}

func (m *MockScheduledEmailRepository) MarkFailed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(to []string, subject, body string) (string, error) {
	args := m.Called(to, subject, body)
	return args.String(0), args.Error(1)
}
