package model

import "github.com/google/uuid"

// OfferType distinguishes marketplace apps from standalone services.
type OfferType string

const (
	OfferTypeApp     OfferType = "APP"
	OfferTypeService OfferType = "SERVICE"
)

// Offer represents a provider-published app or service that companies can
// subscribe to. Descriptive fields stay mutable; everything referenced by a
// subscription is treated as immutable.
type Offer struct {
	BaseModel
	Name              *string    `gorm:"type:varchar(255);column:name" json:"name,omitempty"`
	Provider          *string    `gorm:"type:varchar(255);column:provider" json:"provider,omitempty"` // Provider display name; unset means the offer is not provisionable
	OfferType         OfferType  `gorm:"type:varchar(20);column:offer_type;not null" json:"offerType"`
	ContactEmail      *string    `gorm:"type:varchar(255);column:contact_email" json:"contactEmail,omitempty"`
	SalesManagerID    *uuid.UUID `gorm:"type:uuid;column:sales_manager_id" json:"salesManagerId,omitempty"`
	ProviderCompanyID uuid.UUID  `gorm:"type:uuid;column:provider_company_id;not null;index" json:"providerCompanyId"`
}

func (o *Offer) TableName() string {
	return "offers"
}

// Agreement is a legal document a subscribing company must consent to.
type Agreement struct {
	BaseModel
	Name string `gorm:"type:varchar(255);column:name;not null" json:"name"`
}

func (a *Agreement) TableName() string {
	return "agreements"
}

// OfferAgreement binds an agreement to the offers that require it.
type OfferAgreement struct {
	OfferID     uuid.UUID `gorm:"type:uuid;column:offer_id;not null;primaryKey" json:"offerId"`
	AgreementID uuid.UUID `gorm:"type:uuid;column:agreement_id;not null;primaryKey" json:"agreementId"`
}

func (oa *OfferAgreement) TableName() string {
	return "offer_agreements"
}

// OfferProviderDetails is the read projection required to validate and
// provision a subscription for an offer.
type OfferProviderDetails struct {
	OfferID           uuid.UUID
	OfferName         *string
	Provider          *string
	ContactEmail      *string
	SalesManagerID    *uuid.UUID
	ProviderCompanyID uuid.UUID
}
