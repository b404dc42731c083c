package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

func TestProcessStepService_GetProcessWithStepsForSubscriptionInTx(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProcessStepService(db)
	ctx := context.Background()

	sqlMock.ExpectBegin()
	tx := db.Begin()

	subscriptionID := uuid.New()
	processID := uuid.New()

	sqlMock.ExpectQuery(`SELECT \* FROM "offer_subscriptions" WHERE id = \$1 ORDER BY "offer_subscriptions"."id" LIMIT \$2`).
		WithArgs(subscriptionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "process_id"}).
			AddRow(subscriptionID, processID))

	// The process row is locked so concurrent retriggers serialize
	sqlMock.ExpectQuery(`SELECT \* FROM "processes" WHERE id = \$1 ORDER BY "processes"."id" LIMIT \$2 FOR UPDATE`).
		WithArgs(processID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "process_type"}).
			AddRow(processID, "OFFER_SUBSCRIPTION"))

	sqlMock.ExpectQuery(`SELECT \* FROM "process_steps" WHERE process_id = \$1 ORDER BY created_at ASC`).
		WithArgs(processID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "process_id", "step_type", "status"}).
			AddRow(uuid.New(), processID, "TRIGGER_PROVIDER", "DUPLICATE").
			AddRow(uuid.New(), processID, "RETRIGGER_PROVIDER", "TODO"))

	process, steps, err := service.GetProcessWithStepsForSubscriptionInTx(ctx, tx, subscriptionID)
	assert.NoError(t, err)
	assert.Equal(t, processID, process.ID)
	assert.Len(t, steps, 2)
	assert.Equal(t, model.StepRetriggerProvider, steps[1].StepType)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestProcessStepService_GetProcessWithStepsForSubscriptionInTx_UnknownSubscription(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProcessStepService(db)
	ctx := context.Background()

	sqlMock.ExpectBegin()
	tx := db.Begin()

	subscriptionID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "offer_subscriptions"`).
		WithArgs(subscriptionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, _, err := service.GetProcessWithStepsForSubscriptionInTx(ctx, tx, subscriptionID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.EqualError(t, err, "subscription "+subscriptionID.String()+" does not exist")
}

func TestProcessStepService_CreateProcessStepsInTx_Empty(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProcessStepService(db)
	ctx := context.Background()

	sqlMock.ExpectBegin()
	tx := db.Begin()

	// No INSERT issued for an empty slice
	steps, err := service.CreateProcessStepsInTx(ctx, tx, nil)
	assert.NoError(t, err)
	assert.Empty(t, steps)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestProcessStepService_GetStepViewsForSubscription(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProcessStepService(db)
	ctx := context.Background()

	subscriptionID := uuid.New()
	processID := uuid.New()
	stepID := uuid.New()

	sqlMock.ExpectQuery(`SELECT \* FROM "offer_subscriptions"`).
		WithArgs(subscriptionID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "process_id"}).
			AddRow(subscriptionID, processID))

	sqlMock.ExpectQuery(`SELECT \* FROM "process_steps" WHERE process_id = \$1 ORDER BY created_at ASC`).
		WithArgs(processID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "process_id", "step_type", "status"}).
			AddRow(stepID, processID, "TRIGGER_PROVIDER", "DONE"))

	views, err := service.GetStepViewsForSubscription(ctx, subscriptionID)
	assert.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, stepID, views[0].ID)
	assert.Equal(t, model.StepStatusDone, views[0].Status)
}
