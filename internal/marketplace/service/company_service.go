package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

// CompanyService provides read access to company master data.
type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

// GetCompanyInformation returns the projection needed to validate a
// subscription request.
func (s *CompanyService) GetCompanyInformation(ctx context.Context, companyID uuid.UUID) (*model.CompanyInformation, error) {
	var company model.Company
	if err := s.db.WithContext(ctx).First(&company, "id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("company %s does not exist", companyID)
		}
		return nil, fmt.Errorf("failed to load company %s: %w", companyID, err)
	}

	return &model.CompanyInformation{
		ID:                    company.ID,
		Name:                  company.Name,
		BusinessPartnerNumber: company.BusinessPartnerNumber,
	}, nil
}
