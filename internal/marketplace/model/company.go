package model

import "github.com/google/uuid"

// CompanyUserRole identifies the operator role a company user holds.
type CompanyUserRole string

const (
	CompanyUserRoleSalesManager   CompanyUserRole = "SALES_MANAGER"
	CompanyUserRoleServiceManager CompanyUserRole = "SERVICE_MANAGER"
	CompanyUserRoleStandard       CompanyUserRole = "STANDARD"
)

// Company represents a registered company.
type Company struct {
	BaseModel
	Name                  string  `gorm:"type:varchar(255);column:name;not null" json:"name"`
	BusinessPartnerNumber *string `gorm:"type:varchar(20);column:business_partner_number" json:"businessPartnerNumber,omitempty"` // Assigned by the external identity network; required before provisioning
}

func (c *Company) TableName() string {
	return "companies"
}

// CompanyUser represents a user belonging to a company.
type CompanyUser struct {
	BaseModel
	CompanyID uuid.UUID       `gorm:"type:uuid;column:company_id;not null;index" json:"companyId"`
	Email     string          `gorm:"type:varchar(255);column:email;not null" json:"email"`
	Role      CompanyUserRole `gorm:"type:varchar(30);column:role;not null" json:"role"`
}

func (u *CompanyUser) TableName() string {
	return "company_users"
}

// CompanyInformation is the read projection used during subscription creation.
type CompanyInformation struct {
	ID                    uuid.UUID
	Name                  string
	BusinessPartnerNumber *string
}
