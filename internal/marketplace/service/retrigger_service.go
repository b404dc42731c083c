package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

// retriggerSuccessor maps each operator-facing retrigger marker to the step
// the process restarts from. Adding a workflow stage means one entry here
// plus the executor for the new step.
var retriggerSuccessor = map[model.ProcessStepType]model.ProcessStepType{
	model.StepRetriggerProvider:               model.StepTriggerProvider,
	model.StepRetriggerCreateClient:           model.StepCreateClient,
	model.StepRetriggerCreateTechnicalUser:    model.StepCreateTechnicalUser,
	model.StepRetriggerProviderCallback:       model.StepProviderCallback,
	model.StepRetriggerCreateDimTechnicalUser: model.StepCreateDimTechnicalUser,
}

// RetriggerService translates operator retry requests into a verify+finalize
// pair on the process engine, one transaction per request. It adds no error
// kinds of its own.
type RetriggerService struct {
	db     *gorm.DB
	engine *ProcessEngine
}

func NewRetriggerService(db *gorm.DB, engine *ProcessEngine) *RetriggerService {
	return &RetriggerService{db: db, engine: engine}
}

// RetriggerProvider restarts the initial provider trigger.
func (s *RetriggerService) RetriggerProvider(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.trigger(ctx, subscriptionID, model.StepRetriggerProvider, true)
}

// RetriggerCreateClient restarts identity client creation. The step mutates
// external identity state, so it must not be restarted while in flight.
func (s *RetriggerService) RetriggerCreateClient(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.trigger(ctx, subscriptionID, model.StepRetriggerCreateClient, true)
}

// RetriggerCreateTechnicalUser restarts technical user creation.
func (s *RetriggerService) RetriggerCreateTechnicalUser(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.trigger(ctx, subscriptionID, model.StepRetriggerCreateTechnicalUser, true)
}

// RetriggerProviderCallback re-issues the provider callback. The callback is
// idempotent on the receiving side, so it may be retried even while a prior
// attempt is still outstanding.
func (s *RetriggerService) RetriggerProviderCallback(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.trigger(ctx, subscriptionID, model.StepRetriggerProviderCallback, false)
}

// RetriggerCreateDimTechnicalUser restarts DIM technical user creation.
func (s *RetriggerService) RetriggerCreateDimTechnicalUser(ctx context.Context, subscriptionID uuid.UUID) error {
	return s.trigger(ctx, subscriptionID, model.StepRetriggerCreateDimTechnicalUser, true)
}

func (s *RetriggerService) trigger(ctx context.Context, subscriptionID uuid.UUID, stepToTrigger model.ProcessStepType, mustBePending bool) error {
	next, ok := retriggerSuccessor[stepToTrigger]
	if !ok {
		return fmt.Errorf("no successor step configured for %s", stepToTrigger)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stepCtx, err := s.engine.VerifyAndLockStep(ctx, tx, subscriptionID, stepToTrigger, &stepToTrigger, mustBePending)
		if err != nil {
			return err
		}
		return s.engine.FinalizeSteps(ctx, tx, stepCtx, []model.ProcessStepType{next})
	})
}
