package document

import (
	"github.com/OpenDataspace/portal/internal/marketplace/model"
)

// Status is the lifecycle status of a stored document.
type Status string

const (
	// StatusLocked marks a document as immutable. Self-description documents
	// are locked on registration and never change afterwards.
	StatusLocked Status = "LOCKED"
)

// Type classifies a stored document.
type Type string

const (
	TypeSelfDescription Type = "SELF_DESCRIPTION"
)

// SelfDescriptionDocument records a registered self-description together
// with the SHA-512 digest of its content. The raw content lives in binary
// storage under StorageKey.
type SelfDescriptionDocument struct {
	model.BaseModel
	Name       string `gorm:"type:varchar(255);column:name;not null" json:"name"`
	Hash       []byte `gorm:"type:bytea;column:hash;not null" json:"-"`
	MediaType  string `gorm:"type:varchar(100);column:media_type;not null" json:"mediaType"`
	Type       Type   `gorm:"type:varchar(50);column:type;not null" json:"type"`
	Status     Status `gorm:"type:varchar(20);column:status;not null" json:"status"`
	StorageKey string `gorm:"type:varchar(255);column:storage_key;not null" json:"-"`
}

// TableName specifies the database table name for SelfDescriptionDocument
func (d *SelfDescriptionDocument) TableName() string {
	return "self_description_documents"
}
