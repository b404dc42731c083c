package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

// MockProcessStepRepository
type MockProcessStepRepository struct {
	mock.Mock
}

func (m *MockProcessStepRepository) CreateProcessInTx(ctx context.Context, tx *gorm.DB, processType model.ProcessType) (*model.Process, error) {
	args := m.Called(ctx, tx, processType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Process), args.Error(1)
}

func (m *MockProcessStepRepository) CreateProcessStepsInTx(ctx context.Context, tx *gorm.DB, steps []model.ProcessStep) ([]model.ProcessStep, error) {
	args := m.Called(ctx, tx, steps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProcessStep), args.Error(1)
}

func (m *MockProcessStepRepository) UpdateProcessStepsInTx(ctx context.Context, tx *gorm.DB, steps []model.ProcessStep) error {
	args := m.Called(ctx, tx, steps)
	return args.Error(0)
}

func (m *MockProcessStepRepository) GetProcessWithStepsForSubscriptionInTx(ctx context.Context, tx *gorm.DB, subscriptionID uuid.UUID) (*model.Process, []model.ProcessStep, error) {
	args := m.Called(ctx, tx, subscriptionID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Process), args.Get(1).([]model.ProcessStep), args.Error(2)
}

func step(processID uuid.UUID, stepType model.ProcessStepType, status model.ProcessStepStatus) model.ProcessStep {
	return model.ProcessStep{
		BaseModel: model.BaseModel{ID: uuid.New()},
		ProcessID: processID,
		StepType:  stepType,
		Status:    status,
	}
}

func TestProcessEngine_StartProcess(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	process := &model.Process{BaseModel: model.BaseModel{ID: uuid.New()}, ProcessType: model.ProcessTypeOfferSubscription}
	repo.On("CreateProcessInTx", ctx, mock.Anything, model.ProcessTypeOfferSubscription).Return(process, nil)
	repo.On("CreateProcessStepsInTx", ctx, mock.Anything, mock.MatchedBy(func(steps []model.ProcessStep) bool {
		return len(steps) == 1 &&
			steps[0].ProcessID == process.ID &&
			steps[0].StepType == model.StepTriggerProvider &&
			steps[0].Status == model.StepStatusTodo
	})).Return([]model.ProcessStep{}, nil)

	created, err := engine.StartProcess(ctx, nil, model.ProcessTypeOfferSubscription, []model.ProcessStepType{model.StepTriggerProvider})
	assert.NoError(t, err)
	assert.Equal(t, process.ID, created.ID)
	repo.AssertExpectations(t)
}

func TestProcessEngine_StartProcess_CreateFails(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	repo.On("CreateProcessInTx", ctx, mock.Anything, model.ProcessTypeOfferSubscription).Return(nil, errors.New("db down"))

	_, err := engine.StartProcess(ctx, nil, model.ProcessTypeOfferSubscription, []model.ProcessStepType{model.StepTriggerProvider})
	assert.Error(t, err)
}

func TestProcessEngine_VerifyAndLockStep_NoSteps(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	subscriptionID := uuid.New()
	process := &model.Process{BaseModel: model.BaseModel{ID: uuid.New()}}
	repo.On("GetProcessWithStepsForSubscriptionInTx", ctx, mock.Anything, subscriptionID).
		Return(process, []model.ProcessStep{}, nil)

	_, err := engine.VerifyAndLockStep(ctx, nil, subscriptionID, model.StepRetriggerProvider, nil, true)
	assert.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestProcessEngine_VerifyAndLockStep_TerminalCurrentRejectedWhenPendingRequired(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	subscriptionID := uuid.New()
	process := &model.Process{BaseModel: model.BaseModel{ID: uuid.New()}}
	steps := []model.ProcessStep{
		step(process.ID, model.StepRetriggerProvider, model.StepStatusDone),
	}
	repo.On("GetProcessWithStepsForSubscriptionInTx", ctx, mock.Anything, subscriptionID).
		Return(process, steps, nil)

	_, err := engine.VerifyAndLockStep(ctx, nil, subscriptionID, model.StepRetriggerProvider, nil, true)
	assert.True(t, apperrors.IsConflict(err))
}

func TestProcessEngine_VerifyAndLockStep_TerminalCurrentAllowedWhenNotPendingRequired(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	subscriptionID := uuid.New()
	process := &model.Process{BaseModel: model.BaseModel{ID: uuid.New()}}
	expected := model.StepRetriggerProviderCallback
	steps := []model.ProcessStep{
		step(process.ID, model.StepRetriggerProviderCallback, model.StepStatusDone),
	}
	repo.On("GetProcessWithStepsForSubscriptionInTx", ctx, mock.Anything, subscriptionID).
		Return(process, steps, nil)

	stepCtx, err := engine.VerifyAndLockStep(ctx, nil, subscriptionID, model.StepRetriggerProviderCallback, &expected, false)
	assert.NoError(t, err)
	assert.Equal(t, process.ID, stepCtx.ProcessID)
	// DONE steps are never superseded
	assert.Empty(t, stepCtx.Steps)
}

func TestProcessEngine_VerifyAndLockStep_ExpectedTypeMismatch(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	subscriptionID := uuid.New()
	process := &model.Process{BaseModel: model.BaseModel{ID: uuid.New()}}
	expected := model.StepRetriggerCreateClient
	steps := []model.ProcessStep{
		step(process.ID, model.StepRetriggerProvider, model.StepStatusFailed),
	}
	repo.On("GetProcessWithStepsForSubscriptionInTx", ctx, mock.Anything, subscriptionID).
		Return(process, steps, nil)

	_, err := engine.VerifyAndLockStep(ctx, nil, subscriptionID, model.StepRetriggerCreateClient, &expected, true)
	assert.True(t, apperrors.IsConflict(err))
}

func TestProcessEngine_VerifyAndLockStep_CapturesNonTerminalSteps(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	subscriptionID := uuid.New()
	process := &model.Process{BaseModel: model.BaseModel{ID: uuid.New()}}
	expected := model.StepRetriggerProvider
	steps := []model.ProcessStep{
		step(process.ID, model.StepTriggerProvider, model.StepStatusDuplicate),
		step(process.ID, model.StepTriggerProvider, model.StepStatusFailed),
		step(process.ID, model.StepRetriggerProvider, model.StepStatusTodo),
	}
	repo.On("GetProcessWithStepsForSubscriptionInTx", ctx, mock.Anything, subscriptionID).
		Return(process, steps, nil)

	stepCtx, err := engine.VerifyAndLockStep(ctx, nil, subscriptionID, model.StepRetriggerProvider, &expected, true)
	assert.NoError(t, err)
	assert.Len(t, stepCtx.Steps, 2)
	assert.Equal(t, model.StepStatusFailed, stepCtx.Steps[0].Status)
	assert.Equal(t, model.StepStatusTodo, stepCtx.Steps[1].Status)
}

func TestProcessEngine_FinalizeSteps(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	processID := uuid.New()
	pending := step(processID, model.StepRetriggerProvider, model.StepStatusTodo)
	stepCtx := &StepContext{ProcessID: processID, Steps: []*model.ProcessStep{&pending}}

	repo.On("UpdateProcessStepsInTx", ctx, mock.Anything, mock.MatchedBy(func(steps []model.ProcessStep) bool {
		return len(steps) == 1 && steps[0].ID == pending.ID && steps[0].Status == model.StepStatusDuplicate
	})).Return(nil)
	repo.On("CreateProcessStepsInTx", ctx, mock.Anything, mock.MatchedBy(func(steps []model.ProcessStep) bool {
		return len(steps) == 1 &&
			steps[0].ProcessID == processID &&
			steps[0].StepType == model.StepTriggerProvider &&
			steps[0].Status == model.StepStatusTodo
	})).Return([]model.ProcessStep{}, nil)

	err := engine.FinalizeSteps(ctx, nil, stepCtx, []model.ProcessStepType{model.StepTriggerProvider})
	assert.NoError(t, err)
	assert.Equal(t, model.StepStatusDuplicate, pending.Status)
	repo.AssertExpectations(t)
}

func TestProcessEngine_FinalizeSteps_SecondCallSupersedesNothing(t *testing.T) {
	repo := new(MockProcessStepRepository)
	engine := NewProcessEngine(repo)
	ctx := context.Background()

	processID := uuid.New()
	pending := step(processID, model.StepRetriggerProvider, model.StepStatusFailed)
	stepCtx := &StepContext{ProcessID: processID, Steps: []*model.ProcessStep{&pending}}

	repo.On("UpdateProcessStepsInTx", ctx, mock.Anything, mock.Anything).Return(nil).Once()
	repo.On("CreateProcessStepsInTx", ctx, mock.Anything, mock.Anything).Return([]model.ProcessStep{}, nil)

	assert.NoError(t, engine.FinalizeSteps(ctx, nil, stepCtx, []model.ProcessStepType{model.StepTriggerProvider}))
	// The captured step is DUPLICATE now; a repeated call must not update it again.
	assert.NoError(t, engine.FinalizeSteps(ctx, nil, stepCtx, []model.ProcessStepType{model.StepTriggerProvider}))

	repo.AssertNumberOfCalls(t, "UpdateProcessStepsInTx", 1)
	repo.AssertNumberOfCalls(t, "CreateProcessStepsInTx", 2)
}

func TestProcessEngine_FinalizeSteps_NilContext(t *testing.T) {
	engine := NewProcessEngine(new(MockProcessStepRepository))
	err := engine.FinalizeSteps(context.Background(), nil, nil, nil)
	assert.Error(t, err)
}
