package model

import "github.com/google/uuid"

// ProviderDetails stores a provider company's auto-setup endpoints. The
// auto-setup URL receives provisioning callbacks for subscriptions to the
// company's offers.
type ProviderDetails struct {
	BaseModel
	CompanyID            uuid.UUID `gorm:"type:uuid;column:company_id;not null;uniqueIndex" json:"companyId"`
	AutoSetupURL         string    `gorm:"type:varchar(255);column:auto_setup_url;not null" json:"autoSetupUrl"`
	AutoSetupCallbackURL *string   `gorm:"type:varchar(255);column:auto_setup_callback_url" json:"autoSetupCallbackUrl,omitempty"`
}

func (d *ProviderDetails) TableName() string {
	return "provider_details"
}
