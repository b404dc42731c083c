package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

// ProcessStepService provides data access for processes and their steps.
type ProcessStepService struct {
	db *gorm.DB
}

func NewProcessStepService(db *gorm.DB) *ProcessStepService {
	return &ProcessStepService{db: db}
}

// CreateProcessInTx creates a new process within an existing transaction.
func (s *ProcessStepService) CreateProcessInTx(ctx context.Context, tx *gorm.DB, processType model.ProcessType) (*model.Process, error) {
	process := &model.Process{ProcessType: processType}
	if err := tx.WithContext(ctx).Create(process).Error; err != nil {
		return nil, fmt.Errorf("failed to create process: %w", err)
	}
	return process, nil
}

// CreateProcessStepsInTx creates process steps within an existing transaction.
func (s *ProcessStepService) CreateProcessStepsInTx(ctx context.Context, tx *gorm.DB, steps []model.ProcessStep) ([]model.ProcessStep, error) {
	if len(steps) == 0 {
		return []model.ProcessStep{}, nil
	}
	if err := tx.WithContext(ctx).Create(&steps).Error; err != nil {
		return nil, fmt.Errorf("failed to create process steps: %w", err)
	}
	return steps, nil
}

// UpdateProcessStepsInTx persists step status changes within an existing
// transaction.
func (s *ProcessStepService) UpdateProcessStepsInTx(ctx context.Context, tx *gorm.DB, steps []model.ProcessStep) error {
	for i := range steps {
		if err := tx.WithContext(ctx).Save(&steps[i]).Error; err != nil {
			return fmt.Errorf("failed to update process step %s: %w", steps[i].ID, err)
		}
	}
	return nil
}

// GetProcessWithStepsForSubscriptionInTx loads the process owning the given
// subscription together with its steps, oldest first. The process row is
// locked FOR UPDATE so concurrent retriggers of the same subscription
// serialize at the database.
func (s *ProcessStepService) GetProcessWithStepsForSubscriptionInTx(ctx context.Context, tx *gorm.DB, subscriptionID uuid.UUID) (*model.Process, []model.ProcessStep, error) {
	var subscription model.OfferSubscription
	if err := tx.WithContext(ctx).First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.NewNotFound("subscription %s does not exist", subscriptionID)
		}
		return nil, nil, fmt.Errorf("failed to load subscription %s: %w", subscriptionID, err)
	}

	var process model.Process
	if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&process, "id = ?", subscription.ProcessID).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load process %s: %w", subscription.ProcessID, err)
	}

	var steps []model.ProcessStep
	if err := tx.WithContext(ctx).
		Where("process_id = ?", process.ID).
		Order("created_at ASC").
		Find(&steps).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load process steps: %w", err)
	}

	return &process, steps, nil
}

// GetStepViewsForSubscription returns the read-only step projection for a
// subscription, oldest first.
func (s *ProcessStepService) GetStepViewsForSubscription(ctx context.Context, subscriptionID uuid.UUID) ([]model.ProcessStepView, error) {
	var subscription model.OfferSubscription
	if err := s.db.WithContext(ctx).First(&subscription, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("subscription %s does not exist", subscriptionID)
		}
		return nil, fmt.Errorf("failed to load subscription %s: %w", subscriptionID, err)
	}

	var steps []model.ProcessStep
	if err := s.db.WithContext(ctx).
		Where("process_id = ?", subscription.ProcessID).
		Order("created_at ASC").
		Find(&steps).Error; err != nil {
		return nil, fmt.Errorf("failed to load process steps: %w", err)
	}

	views := make([]model.ProcessStepView, len(steps))
	for i, step := range steps {
		views[i] = model.ProcessStepView{
			ID:        step.ID,
			StepType:  step.StepType,
			Status:    step.Status,
			CreatedAt: step.CreatedAt,
			UpdatedAt: step.UpdatedAt,
		}
	}
	return views, nil
}
