package service

import (
	"context"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/OpenDataspace/portal/internal/apperrors"
)

func TestProviderService_GetDetails_NotFound(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProviderService(db)
	ctx := context.Background()

	companyID := uuid.New()
	sqlMock.ExpectQuery(`SELECT \* FROM "provider_details"`).
		WithArgs(companyID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := service.GetDetails(ctx, companyID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestProviderService_SetDetails_Create(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProviderService(db)
	ctx := context.Background()

	companyID := uuid.New()
	autoSetupURL := "https://provider.example/setup"

	sqlMock.ExpectBegin()
	sqlMock.ExpectQuery(`SELECT \* FROM "provider_details"`).
		WithArgs(companyID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	sqlMock.ExpectExec(`INSERT INTO "provider_details"`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), companyID, autoSetupURL, nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	sqlMock.ExpectCommit()

	err := service.SetDetails(ctx, companyID, &autoSetupURL, nil)
	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestProviderService_SetDetails_Update(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProviderService(db)
	ctx := context.Background()

	companyID := uuid.New()
	detailsID := uuid.New()
	autoSetupURL := "https://provider.example/setup/v2"
	callbackURL := "https://provider.example/callback"

	sqlMock.ExpectBegin()
	sqlMock.ExpectQuery(`SELECT \* FROM "provider_details"`).
		WithArgs(companyID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "auto_setup_url"}).
			AddRow(detailsID, companyID, "https://provider.example/setup"))
	sqlMock.ExpectExec(`UPDATE "provider_details"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	err := service.SetDetails(ctx, companyID, &autoSetupURL, &callbackURL)
	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestProviderService_SetDetails_Remove(t *testing.T) {
	db, sqlMock := setupTestDB(t)
	service := NewProviderService(db)
	ctx := context.Background()

	companyID := uuid.New()
	detailsID := uuid.New()

	sqlMock.ExpectBegin()
	sqlMock.ExpectQuery(`SELECT \* FROM "provider_details"`).
		WithArgs(companyID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "auto_setup_url"}).
			AddRow(detailsID, companyID, "https://provider.example/setup"))
	sqlMock.ExpectExec(`DELETE FROM "provider_details"`).
		WithArgs(detailsID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	sqlMock.ExpectCommit()

	err := service.SetDetails(ctx, companyID, nil, nil)
	assert.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestProviderService_SetDetails_URLValidation(t *testing.T) {
	db, _ := setupTestDB(t)
	service := NewProviderService(db)
	ctx := context.Background()
	companyID := uuid.New()

	cases := []struct {
		name string
		url  string
	}{
		{"plain http", "http://provider.example/setup"},
		{"no scheme", "provider.example/setup"},
		{"too long", "https://provider.example/" + strings.Repeat("x", maxProviderURLLength)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.SetDetails(ctx, companyID, &tc.url, nil)
			assert.True(t, apperrors.IsInvalidArgument(err))
		})
	}
}
