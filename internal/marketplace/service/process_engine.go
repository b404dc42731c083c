package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

// ProcessStepRepository defines the data access the process engine requires.
type ProcessStepRepository interface {
	CreateProcessInTx(ctx context.Context, tx *gorm.DB, processType model.ProcessType) (*model.Process, error)
	CreateProcessStepsInTx(ctx context.Context, tx *gorm.DB, steps []model.ProcessStep) ([]model.ProcessStep, error)
	UpdateProcessStepsInTx(ctx context.Context, tx *gorm.DB, steps []model.ProcessStep) error
	GetProcessWithStepsForSubscriptionInTx(ctx context.Context, tx *gorm.DB, subscriptionID uuid.UUID) (*model.Process, []model.ProcessStep, error)
}

// StepContext captures the outcome of a successful verification: the owning
// process and the steps a finalize call will supersede. It holds no database
// state; the transaction it was built under must also carry the finalize.
type StepContext struct {
	ProcessID uuid.UUID
	Steps     []*model.ProcessStep
}

// ProcessEngine owns the process step state machine:
//
//	TODO -> DONE         successful execution (by a step executor)
//	TODO -> FAILED       execution error
//	TODO|FAILED -> DUPLICATE  superseded by a retrigger
//
// DONE and DUPLICATE are terminal. The engine never commits; every operation
// runs inside a transaction owned by the caller so the atomicity boundary
// stays visible at the call site.
type ProcessEngine struct {
	repo ProcessStepRepository
}

func NewProcessEngine(repo ProcessStepRepository) *ProcessEngine {
	return &ProcessEngine{repo: repo}
}

// StartProcess creates a new process of the given type together with its
// initial steps, all in status TODO, within the caller's transaction.
func (e *ProcessEngine) StartProcess(ctx context.Context, tx *gorm.DB, processType model.ProcessType, stepTypes []model.ProcessStepType) (*model.Process, error) {
	process, err := e.repo.CreateProcessInTx(ctx, tx, processType)
	if err != nil {
		return nil, err
	}

	steps := make([]model.ProcessStep, len(stepTypes))
	for i, stepType := range stepTypes {
		steps[i] = model.ProcessStep{
			ProcessID: process.ID,
			StepType:  stepType,
			Status:    model.StepStatusTodo,
		}
	}
	if _, err := e.repo.CreateProcessStepsInTx(ctx, tx, steps); err != nil {
		return nil, err
	}

	return process, nil
}

// VerifyAndLockStep checks that the subscription's process is in a state
// that allows stepType to be retriggered and returns the context a finalize
// call needs. It performs no mutation.
//
// The current step is the most recently created step of the process. With
// mustBePending the current step must be TODO or FAILED; a step already in a
// terminal state cannot be superseded. Callers retriggering naturally
// idempotent work (the provider callback) pass mustBePending=false and skip
// the check. When expected is non-nil the current step's type must match it,
// guarding against retriggering the wrong stage.
func (e *ProcessEngine) VerifyAndLockStep(ctx context.Context, tx *gorm.DB, subscriptionID uuid.UUID, stepType model.ProcessStepType, expected *model.ProcessStepType, mustBePending bool) (*StepContext, error) {
	process, steps, err := e.repo.GetProcessWithStepsForSubscriptionInTx(ctx, tx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, apperrors.NewConflict("subscription %s has no process step eligible for %s", subscriptionID, stepType)
	}

	current := steps[len(steps)-1]
	if mustBePending && current.Status.IsTerminal() {
		return nil, apperrors.NewConflict("step %s of subscription %s is not in a pending state", stepType, subscriptionID)
	}
	if expected != nil && current.StepType != *expected {
		return nil, apperrors.NewConflict("subscription %s has step %s, expected %s", subscriptionID, current.StepType, *expected)
	}

	stepCtx := &StepContext{ProcessID: process.ID}
	for i := range steps {
		if !steps[i].Status.IsTerminal() {
			stepCtx.Steps = append(stepCtx.Steps, &steps[i])
		}
	}
	return stepCtx, nil
}

// FinalizeSteps supersedes the steps captured in the context and appends one
// new TODO step per entry in nextTypes, in order, bound to the same process.
// Superseded steps become DUPLICATE instead of being deleted so the audit
// history of prior attempts survives. Steps already terminal are left
// untouched, which makes repeated finalize calls against the same context
// safe. The caller commits the surrounding transaction.
func (e *ProcessEngine) FinalizeSteps(ctx context.Context, tx *gorm.DB, stepCtx *StepContext, nextTypes []model.ProcessStepType) error {
	if stepCtx == nil {
		return fmt.Errorf("step context cannot be nil")
	}

	var superseded []model.ProcessStep
	for _, step := range stepCtx.Steps {
		if step.Status.IsTerminal() {
			continue
		}
		step.Status = model.StepStatusDuplicate
		superseded = append(superseded, *step)
	}
	if len(superseded) > 0 {
		if err := e.repo.UpdateProcessStepsInTx(ctx, tx, superseded); err != nil {
			return err
		}
	}

	next := make([]model.ProcessStep, len(nextTypes))
	for i, stepType := range nextTypes {
		next[i] = model.ProcessStep{
			ProcessID: stepCtx.ProcessID,
			StepType:  stepType,
			Status:    model.StepStatusTodo,
		}
	}
	if _, err := e.repo.CreateProcessStepsInTx(ctx, tx, next); err != nil {
		return err
	}

	return nil
}
