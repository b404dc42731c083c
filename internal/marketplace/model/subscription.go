package model

import "github.com/google/uuid"

// SubscriptionStatus represents the lifecycle state of an offer subscription.
type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "PENDING"
	SubscriptionStatusActive   SubscriptionStatus = "ACTIVE"
	SubscriptionStatusInactive SubscriptionStatus = "INACTIVE" // Soft-close; subscriptions are never deleted
)

// OfferSubscription represents one company's subscription to one offer.
// The row is created once by the subscription service; its status is advanced
// by the step executors.
type OfferSubscription struct {
	BaseModel
	OfferID     uuid.UUID          `gorm:"type:uuid;column:offer_id;not null;index" json:"offerId"`
	CompanyID   uuid.UUID          `gorm:"type:uuid;column:company_id;not null;index" json:"companyId"`
	Status      SubscriptionStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
	RequesterID uuid.UUID          `gorm:"type:uuid;column:requester_id;not null" json:"requesterId"`
	CreatorID   uuid.UUID          `gorm:"type:uuid;column:creator_id;not null" json:"creatorId"`
	ProcessID   uuid.UUID          `gorm:"type:uuid;column:process_id;not null;index" json:"processId"`
}

func (s *OfferSubscription) TableName() string {
	return "offer_subscriptions"
}

// SubscriptionStatusFilter expands an optional status filter to the statuses
// a listing should include. Without an explicit filter only subscriptions
// that are still relevant (pending or active) are shown.
func SubscriptionStatusFilter(status *SubscriptionStatus) []SubscriptionStatus {
	if status != nil {
		return []SubscriptionStatus{*status}
	}
	return []SubscriptionStatus{SubscriptionStatusPending, SubscriptionStatusActive}
}
