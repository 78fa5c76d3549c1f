package budget

import (
	"context"
	"testing"

	"github.com/chantier/backend/internal/domain/budget"
	"github.com/chantier/backend/internal/domain/journal"
	"github.com/chantier/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBudgetRepository is a mock implementation of BudgetRepository
type MockBudgetRepository struct {
	mock.Mock
}

func (m *MockBudgetRepository) FindByID(ctx context.Context, id uuid.UUID) (*budget.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) FindByChantier(ctx context.Context, chantierID uuid.UUID) (*budget.Budget, error) {
	args := m.Called(ctx, chantierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) ExistsByChantier(ctx context.Context, chantierID uuid.UUID) (bool, error) {
	args := m.Called(ctx, chantierID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBudgetRepository) FindAll(ctx context.Context, offset, limit int) ([]budget.Budget, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]budget.Budget), args.Error(1)
}

func (m *MockBudgetRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBudgetRepository) Save(ctx context.Context, b *budget.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

// MockJournalRepository is a mock implementation of journal.EntryRepository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Append(ctx context.Context, entry *journal.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) FindByEntity(ctx context.Context, entityType journal.EntityType, entityID uuid.UUID, offset, limit int) ([]journal.Entry, error) {
	args := m.Called(ctx, entityType, entityID, offset, limit)
	return args.Get(0).([]journal.Entry), args.Error(1)
}

func (m *MockJournalRepository) CountByEntity(ctx context.Context, entityType journal.EntityType, entityID uuid.UUID) (int64, error) {
	args := m.Called(ctx, entityType, entityID)
	return args.Get(0).(int64), args.Error(1)
}

func buildTestBudget(t *testing.T) *budget.Budget {
	t.Helper()
	b, err := budget.NewBudget(uuid.New(), decimal.NewFromInt(100000), 5,
		decimal.NewFromInt(80), decimal.NewFromInt(5000))
	require.NoError(t, err)
	b.ClearDomainEvents()
	return b
}

func TestBudgetService_Create(t *testing.T) {
	t.Run("creates and journals", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		journalRepo := new(MockJournalRepository)
		service := NewBudgetService(budgetRepo, journalRepo)
		chantierID := uuid.New()
		author := uuid.New()

		budgetRepo.On("ExistsByChantier", mock.Anything, chantierID).Return(false, nil)
		budgetRepo.On("Save", mock.Anything, mock.AnythingOfType("*budget.Budget")).Return(nil)
		journalRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *journal.Entry) bool {
			return e.EntityType == journal.EntityBudget && e.Action == "creation"
		})).Return(nil)

		resp, err := service.Create(context.Background(), CreateBudgetRequest{
			ChantierID: chantierID,
			InitialHT:  decimal.NewFromInt(100000),
			AuthorID:   author,
		})
		require.NoError(t, err)

		assert.Equal(t, chantierID, resp.ChantierID)
		assert.Equal(t, 0, resp.RetentionPct)
		assert.True(t, DefaultAlertThresholdPct.Equal(resp.AlertThresholdPct))
		budgetRepo.AssertExpectations(t)
		journalRepo.AssertExpectations(t)
	})

	t.Run("one budget per chantier", func(t *testing.T) {
		budgetRepo := new(MockBudgetRepository)
		journalRepo := new(MockJournalRepository)
		service := NewBudgetService(budgetRepo, journalRepo)
		chantierID := uuid.New()

		budgetRepo.On("ExistsByChantier", mock.Anything, chantierID).Return(true, nil)

		_, err := service.Create(context.Background(), CreateBudgetRequest{
			ChantierID: chantierID,
			InitialHT:  decimal.NewFromInt(100000),
			AuthorID:   uuid.New(),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeAlreadyExists, domainErr.Code)
		budgetRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestBudgetService_Update_JournalsPerField(t *testing.T) {
	budgetRepo := new(MockBudgetRepository)
	journalRepo := new(MockJournalRepository)
	service := NewBudgetService(budgetRepo, journalRepo)
	b := buildTestBudget(t)

	budgetRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	budgetRepo.On("Save", mock.Anything, b).Return(nil)
	journalRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *journal.Entry) bool {
		return e.Action == "modification"
	})).Return(nil)

	newInitial := decimal.NewFromInt(120000)
	newRetention := 0
	resp, err := service.Update(context.Background(), b.ID, UpdateBudgetRequest{
		InitialHT:    &newInitial,
		RetentionPct: &newRetention,
		AuthorID:     uuid.New(),
	})
	require.NoError(t, err)

	assert.True(t, newInitial.Equal(resp.InitialHT))
	assert.Equal(t, 0, resp.RetentionPct)
	journalRepo.AssertNumberOfCalls(t, "Append", 2)
}

func TestBudgetService_Amendments(t *testing.T) {
	budgetRepo := new(MockBudgetRepository)
	journalRepo := new(MockJournalRepository)
	service := NewBudgetService(budgetRepo, journalRepo)
	b := buildTestBudget(t)
	author := uuid.New()

	budgetRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	budgetRepo.On("Save", mock.Anything, b).Return(nil)
	journalRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	created, err := service.CreateAmendment(context.Background(), b.ID, CreateAmendmentRequest{
		Number:   "AV-001",
		Motive:   "Fondations renforcées",
		AmountHT: decimal.NewFromInt(15000),
		AuthorID: author,
	})
	require.NoError(t, err)
	assert.Equal(t, string(budget.AmendmentDraft), created.Status)

	validated, err := service.ValidateAmendment(context.Background(), b.ID, created.ID, author)
	require.NoError(t, err)
	assert.Equal(t, string(budget.AmendmentValidated), validated.Status)
	assert.Equal(t, author, *validated.ValidatedBy)

	// current amount now reflects the validated amendment
	resp, err := service.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(115000).Equal(resp.CurrentHT))

	_, err = service.ValidateAmendment(context.Background(), b.ID, created.ID, author)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeAlreadyFinalized, domainErr.Code)
}

func TestBudgetService_Alerts(t *testing.T) {
	budgetRepo := new(MockBudgetRepository)
	journalRepo := new(MockJournalRepository)
	service := NewBudgetService(budgetRepo, journalRepo)
	b := buildTestBudget(t)
	author := uuid.New()

	budgetRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	budgetRepo.On("Save", mock.Anything, b).Return(nil)
	journalRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	raised, err := service.EvaluateThresholds(context.Background(), b.ID, EvaluateThresholdsRequest{
		EngagedHT:  decimal.NewFromInt(85000),
		RealizedHT: decimal.NewFromInt(10000),
		AuthorID:   author,
	})
	require.NoError(t, err)
	require.Len(t, raised, 1)
	assert.Equal(t, string(budget.AlertSeuilEngage), raised[0].Type)

	acked, err := service.AcknowledgeAlert(context.Background(), b.ID, raised[0].ID, author)
	require.NoError(t, err)
	assert.NotNil(t, acked.AcknowledgedAt)

	_, err = service.AcknowledgeAlert(context.Background(), b.ID, raised[0].ID, author)
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeAlreadyFinalized, domainErr.Code)
}

func TestBudgetService_Allocations(t *testing.T) {
	budgetRepo := new(MockBudgetRepository)
	journalRepo := new(MockJournalRepository)
	service := NewBudgetService(budgetRepo, journalRepo)
	b := buildTestBudget(t)

	budgetRepo.On("FindByID", mock.Anything, b.ID).Return(b, nil)
	budgetRepo.On("Save", mock.Anything, b).Return(nil)
	journalRepo.On("Append", mock.Anything, mock.Anything).Return(nil)

	resp, err := service.AddCostLine(context.Background(), b.ID, AddCostLineRequest{
		Label:    "Gros oeuvre",
		AuthorID: uuid.New(),
	})
	require.NoError(t, err)
	require.Len(t, resp.CostLines, 1)
	assert.Equal(t, string(budget.PhaseBudget), resp.CostLines[0].Phase)

	allocation, err := service.CreateAllocation(context.Background(), b.ID, CreateAllocationRequest{
		TaskID:     uuid.New(),
		CostLineID: resp.CostLines[0].ID,
		Percentage: decimal.NewFromInt(60),
		AuthorID:   uuid.New(),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(allocation.Percentage))

	_, err = service.CreateAllocation(context.Background(), b.ID, CreateAllocationRequest{
		TaskID:     uuid.New(),
		CostLineID: resp.CostLines[0].ID,
		Percentage: decimal.NewFromInt(101),
	})
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, shared.CodeInvalidValue, domainErr.Code)
}
