package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/OpenDataspace/portal/internal/apperrors"
	"github.com/OpenDataspace/portal/internal/consent"
	"github.com/OpenDataspace/portal/internal/marketplace/model"
	"github.com/OpenDataspace/portal/utils"
)

// OfferReader is the offer data access the subscription service requires.
type OfferReader interface {
	GetProviderDetails(ctx context.Context, offerID uuid.UUID, offerType model.OfferType) (*model.OfferProviderDetails, error)
	GetAgreementIDs(ctx context.Context, offerID uuid.UUID) ([]uuid.UUID, error)
	GetOperatorRecipients(ctx context.Context, providerCompanyID uuid.UUID, salesManagerID *uuid.UUID) ([]uuid.UUID, error)
}

// CompanyReader is the company data access the subscription service requires.
type CompanyReader interface {
	GetCompanyInformation(ctx context.Context, companyID uuid.UUID) (*model.CompanyInformation, error)
}

// SubscriptionEvent carries everything the notification dispatcher needs to
// inform a provider's operators about a new subscription.
type SubscriptionEvent struct {
	SubscriptionID uuid.UUID
	OfferID        uuid.UUID
	OfferName      string
	CompanyName    string
	ContactEmail   *string
	RecipientIDs   []uuid.UUID
}

// SubscriptionNotifier dispatches subscription notifications. A failed
// dispatch must never fail the subscription; implementations absorb their
// own errors.
type SubscriptionNotifier interface {
	NotifySubscriptionCreated(ctx context.Context, event SubscriptionEvent)
}

// Identity names the user and company a request acts on behalf of.
type Identity struct {
	UserID    uuid.UUID
	CompanyID uuid.UUID
}

// SubscriptionService creates offer subscriptions and exposes their
// provisioning state.
type SubscriptionService struct {
	db        *gorm.DB
	offers    OfferReader
	companies CompanyReader
	engine    *ProcessEngine
	steps     *ProcessStepService
	notifier  SubscriptionNotifier
}

func NewSubscriptionService(db *gorm.DB, offers OfferReader, companies CompanyReader, engine *ProcessEngine, steps *ProcessStepService, notifier SubscriptionNotifier) *SubscriptionService {
	return &SubscriptionService{
		db:        db,
		offers:    offers,
		companies: companies,
		engine:    engine,
		steps:     steps,
		notifier:  notifier,
	}
}

// Subscribe validates the request and atomically creates the subscription,
// its process, and the initial TRIGGER_PROVIDER step. Every validation runs
// before anything is staged, so a failed call leaves no records behind.
// Returns the new subscription id.
func (s *SubscriptionService) Subscribe(ctx context.Context, offerID uuid.UUID, consents []consent.Record, identity Identity, offerType model.OfferType) (uuid.UUID, error) {
	company, err := s.companies.GetCompanyInformation(ctx, identity.CompanyID)
	if err != nil {
		return uuid.Nil, err
	}
	if company.BusinessPartnerNumber == nil || *company.BusinessPartnerNumber == "" {
		return uuid.Nil, apperrors.NewConflict("company %s has no business partner number assigned", company.ID)
	}

	details, err := s.offers.GetProviderDetails(ctx, offerID, offerType)
	if err != nil {
		return uuid.Nil, err
	}
	if details.Provider == nil || *details.Provider == "" {
		return uuid.Nil, apperrors.NewConflict("the offer name has not been configured properly")
	}

	// Companies may hold multiple independent service subscriptions; only
	// apps are limited to one pending-or-active subscription per company.
	if offerType == model.OfferTypeApp {
		exists, err := s.pendingOrActiveSubscriptionExists(ctx, offerID, identity.CompanyID)
		if err != nil {
			return uuid.Nil, err
		}
		if exists {
			return uuid.Nil, apperrors.NewConflict("company %s is already subscribed to %s", identity.CompanyID, offerID)
		}
	}

	required, err := s.offers.GetAgreementIDs(ctx, offerID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := consent.Validate(offerID, required, consents); err != nil {
		return uuid.Nil, err
	}

	var subscriptionID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		process, err := s.engine.StartProcess(ctx, tx, model.ProcessTypeOfferSubscription, []model.ProcessStepType{model.StepTriggerProvider})
		if err != nil {
			return err
		}

		subscription := model.OfferSubscription{
			OfferID:     offerID,
			CompanyID:   identity.CompanyID,
			Status:      model.SubscriptionStatusPending,
			RequesterID: identity.UserID,
			CreatorID:   identity.UserID,
			ProcessID:   process.ID,
		}
		if err := tx.Create(&subscription).Error; err != nil {
			return fmt.Errorf("failed to create offer subscription: %w", err)
		}
		subscriptionID = subscription.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.notify(ctx, subscriptionID, details, company)

	return subscriptionID, nil
}

// ProcessStepsForSubscription returns the step projection for status
// reporting.
func (s *SubscriptionService) ProcessStepsForSubscription(ctx context.Context, subscriptionID uuid.UUID) ([]model.ProcessStepView, error) {
	return s.steps.GetStepViewsForSubscription(ctx, subscriptionID)
}

// ListCompanySubscriptions returns a page of the company's subscriptions in
// the given statuses, newest first.
func (s *SubscriptionService) ListCompanySubscriptions(ctx context.Context, companyID uuid.UUID, statuses []model.SubscriptionStatus, offset, limit *int) ([]model.OfferSubscription, error) {
	finalOffset, finalLimit := utils.GetPaginationParams(offset, limit)

	var subscriptions []model.OfferSubscription
	if err := s.db.WithContext(ctx).
		Where("company_id = ? AND status IN ?", companyID, statuses).
		Order("created_at DESC").
		Offset(finalOffset).
		Limit(finalLimit).
		Find(&subscriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions for company %s: %w", companyID, err)
	}
	return subscriptions, nil
}

func (s *SubscriptionService) pendingOrActiveSubscriptionExists(ctx context.Context, offerID, companyID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.OfferSubscription{}).
		Where("offer_id = ? AND company_id = ? AND status IN ?", offerID, companyID,
			[]model.SubscriptionStatus{model.SubscriptionStatusPending, model.SubscriptionStatusActive}).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check existing subscriptions: %w", err)
	}
	return count > 0, nil
}

// notify resolves the operator recipients and hands the event to the
// dispatcher. Notification failure never affects the created subscription.
func (s *SubscriptionService) notify(ctx context.Context, subscriptionID uuid.UUID, details *model.OfferProviderDetails, company *model.CompanyInformation) {
	if s.notifier == nil {
		return
	}

	recipients, err := s.offers.GetOperatorRecipients(ctx, details.ProviderCompanyID, details.SalesManagerID)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve notification recipients",
			"subscriptionID", subscriptionID,
			"offerID", details.OfferID,
			"error", err)
		recipients = nil
	}
	if len(recipients) == 0 && details.ContactEmail == nil {
		return
	}

	offerName := ""
	if details.OfferName != nil {
		offerName = *details.OfferName
	}
	s.notifier.NotifySubscriptionCreated(ctx, SubscriptionEvent{
		SubscriptionID: subscriptionID,
		OfferID:        details.OfferID,
		OfferName:      offerName,
		CompanyName:    company.Name,
		ContactEmail:   details.ContactEmail,
		RecipientIDs:   recipients,
	})
}
