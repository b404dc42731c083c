package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

const maxProviderURLLength = 255

// ProviderService manages a provider company's auto-setup configuration.
type ProviderService struct {
	db *gorm.DB
}

func NewProviderService(db *gorm.DB) *ProviderService {
	return &ProviderService{db: db}
}

// GetDetails returns the provider configuration for a company.
func (s *ProviderService) GetDetails(ctx context.Context, companyID uuid.UUID) (*model.ProviderDetails, error) {
	var details model.ProviderDetails
	if err := s.db.WithContext(ctx).First(&details, "company_id = ?", companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("no provider details configured for company %s", companyID)
		}
		return nil, fmt.Errorf("failed to load provider details for company %s: %w", companyID, err)
	}
	return &details, nil
}

// SetDetails creates, updates, or removes the provider configuration for a
// company. A nil autoSetupURL removes the configuration.
func (s *ProviderService) SetDetails(ctx context.Context, companyID uuid.UUID, autoSetupURL, callbackURL *string) error {
	if autoSetupURL != nil {
		if err := validateProviderURL("autoSetupUrl", *autoSetupURL); err != nil {
			return err
		}
	}
	if callbackURL != nil {
		if err := validateProviderURL("autoSetupCallbackUrl", *callbackURL); err != nil {
			return err
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ProviderDetails
		err := tx.First(&existing, "company_id = ?", companyID).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load provider details for company %s: %w", companyID, err)
		}

		switch {
		case !found && autoSetupURL != nil:
			details := model.ProviderDetails{
				CompanyID:            companyID,
				AutoSetupURL:         *autoSetupURL,
				AutoSetupCallbackURL: callbackURL,
			}
			if err := tx.Create(&details).Error; err != nil {
				return fmt.Errorf("failed to create provider details: %w", err)
			}
		case found && autoSetupURL != nil:
			existing.AutoSetupURL = *autoSetupURL
			existing.AutoSetupCallbackURL = callbackURL
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update provider details: %w", err)
			}
		case found && autoSetupURL == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("failed to remove provider details: %w", err)
			}
		}
		return nil
	})
}

func validateProviderURL(field, raw string) error {
	if len(raw) > maxProviderURLLength {
		return apperrors.NewInvalidArgument("%s must not exceed %d characters", field, maxProviderURLLength)
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "https" || parsed.Host == "" {
		return apperrors.NewInvalidArgument("%s must be a valid https url", field)
	}
	return nil
}
