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

// OfferService provides read access to offers, their agreements, and the
// operator users entitled to subscription notifications.
type OfferService struct {
	db *gorm.DB
}

func NewOfferService(db *gorm.DB) *OfferService {
	return &OfferService{db: db}
}

// GetProviderDetails returns the provider projection for an offer of the
// given type.
func (s *OfferService) GetProviderDetails(ctx context.Context, offerID uuid.UUID, offerType model.OfferType) (*model.OfferProviderDetails, error) {
	var offer model.Offer
	if err := s.db.WithContext(ctx).First(&offer, "id = ? AND offer_type = ?", offerID, offerType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("offer %s does not exist", offerID)
		}
		return nil, fmt.Errorf("failed to load offer %s: %w", offerID, err)
	}

	return &model.OfferProviderDetails{
		OfferID:           offer.ID,
		OfferName:         offer.Name,
		Provider:          offer.Provider,
		ContactEmail:      offer.ContactEmail,
		SalesManagerID:    offer.SalesManagerID,
		ProviderCompanyID: offer.ProviderCompanyID,
	}, nil
}

// GetAgreementIDs returns the ids of the agreements an offer requires
// consent to.
func (s *OfferService) GetAgreementIDs(ctx context.Context, offerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).
		Model(&model.OfferAgreement{}).
		Where("offer_id = ?", offerID).
		Pluck("agreement_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load agreement ids for offer %s: %w", offerID, err)
	}
	return ids, nil
}

// GetOperatorRecipients resolves the user ids to notify about a new
// subscription: the provider company's sales and service managers plus the
// offer's explicitly assigned sales manager, deduplicated.
func (s *OfferService) GetOperatorRecipients(ctx context.Context, providerCompanyID uuid.UUID, salesManagerID *uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := s.db.WithContext(ctx).
		Model(&model.CompanyUser{}).
		Where("company_id = ? AND role IN ?", providerCompanyID,
			[]model.CompanyUserRole{model.CompanyUserRoleSalesManager, model.CompanyUserRoleServiceManager}).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve operator recipients: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids)+1)
	recipients := make([]uuid.UUID, 0, len(ids)+1)
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}
	if salesManagerID != nil {
		if _, ok := seen[*salesManagerID]; !ok {
			recipients = append(recipients, *salesManagerID)
		}
	}
	return recipients, nil
}
