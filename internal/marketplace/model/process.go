package model

import (
	"time"

	"github.com/google/uuid"
)

// ProcessType identifies the workflow a process executes.
type ProcessType string

const (
	ProcessTypeOfferSubscription ProcessType = "OFFER_SUBSCRIPTION"
)

// ProcessStepType enumerates the units of provisioning work. The RETRIGGER_*
// values are operator-facing markers: when an executor gives up on a step it
// parks the process on the matching marker, and a manual retrigger converts
// the marker back into the executable step.
type ProcessStepType string

const (
	StepTriggerProvider        ProcessStepType = "TRIGGER_PROVIDER"
	StepCreateClient           ProcessStepType = "CREATE_CLIENT"
	StepCreateTechnicalUser    ProcessStepType = "CREATE_TECHNICAL_USER"
	StepProviderCallback       ProcessStepType = "PROVIDER_CALLBACK"
	StepCreateDimTechnicalUser ProcessStepType = "CREATE_DIM_TECHNICAL_USER"

	StepRetriggerProvider               ProcessStepType = "RETRIGGER_PROVIDER"
	StepRetriggerCreateClient           ProcessStepType = "RETRIGGER_CREATE_CLIENT"
	StepRetriggerCreateTechnicalUser    ProcessStepType = "RETRIGGER_CREATE_TECHNICAL_USER"
	StepRetriggerProviderCallback       ProcessStepType = "RETRIGGER_PROVIDER_CALLBACK"
	StepRetriggerCreateDimTechnicalUser ProcessStepType = "RETRIGGER_CREATE_DIM_TECHNICAL_USER"
)

// ProcessStepStatus represents the state of a single process step.
type ProcessStepStatus string

const (
	StepStatusTodo      ProcessStepStatus = "TODO"
	StepStatusDone      ProcessStepStatus = "DONE"
	StepStatusFailed    ProcessStepStatus = "FAILED"
	StepStatusDuplicate ProcessStepStatus = "DUPLICATE" // Superseded by a retrigger; kept for audit history
)

// IsTerminal reports whether no transition may leave the status.
func (s ProcessStepStatus) IsTerminal() bool {
	return s == StepStatusDone || s == StepStatusDuplicate
}

// Process is the workflow instance orchestrating the provisioning of one
// subscription. Steps belong to their process and cannot outlive it.
type Process struct {
	BaseModel
	ProcessType ProcessType `gorm:"type:varchar(40);column:process_type;not null" json:"processType"`
}

func (p *Process) TableName() string {
	return "processes"
}

// ProcessStep is one unit of orchestration work within a process.
type ProcessStep struct {
	BaseModel
	ProcessID uuid.UUID         `gorm:"type:uuid;column:process_id;not null;index" json:"processId"`
	StepType  ProcessStepType   `gorm:"type:varchar(50);column:step_type;not null" json:"stepType"`
	Status    ProcessStepStatus `gorm:"type:varchar(20);column:status;not null" json:"status"`
}

func (s *ProcessStep) TableName() string {
	return "process_steps"
}

// ProcessStepView is the read-only projection exposed for status reporting.
type ProcessStepView struct {
	ID        uuid.UUID         `json:"id"`
	StepType  ProcessStepType   `json:"stepType"`
	Status    ProcessStepStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}
