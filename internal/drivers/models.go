package drivers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status is the closed driver lifecycle enumeration. Transitions between
// statuses happen only through the transition table in transitions.go.
type Status string

const (
	StatusSubmitted      Status = "submitted"
	StatusOnReview       Status = "on-review"
	StatusPending        Status = "pending"
	StatusApproved       Status = "approved"
	StatusRejected       Status = "rejected"
	StatusPendingPayment Status = "pending-payment"
	StatusDeleted        Status = "deleted"
	StatusSuspended      Status = "suspended"
)

// AllStatuses lists every lifecycle status, in lifecycle order.
var AllStatuses = []Status{
	StatusSubmitted,
	StatusOnReview,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusPendingPayment,
	StatusDeleted,
	StatusSuspended,
}

// Valid reports whether s is a known lifecycle status.
func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Category identifies which registration step catalog applies to a driver.
type Category string

const (
	CategoryCab     Category = "cab"
	CategoryParcel  Category = "parcel"
	CategoryGeneric Category = "generic"
)

// Section names one independently clearable part of the registration profile.
// Values match the drivers table column names.
type Section string

const (
	SectionPersonalInformation Section = "personal_information"
	SectionVehicleDetails      Section = "vehicle_details"
	SectionDrivingDetails      Section = "driving_details"
	SectionPaymentDetails      Section = "payment_details"
	SectionLanguageReferences  Section = "language_references"
	SectionDeclaration         Section = "declaration"
)

// Driver is the central entity of the lifecycle workflow. Profile sections
// are stored as raw JSON documents; a nil section means the applicant has not
// submitted it (or it was cleared by a rejection).
type Driver struct {
	ID               uuid.UUID `json:"id"`
	Status           Status    `json:"status"`
	SelectedCategory Category  `json:"selected_category"`

	PersonalInformation json.RawMessage `json:"personal_information,omitempty"`
	VehicleDetails      json.RawMessage `json:"vehicle_details,omitempty"`
	DrivingDetails      json.RawMessage `json:"driving_details,omitempty"`
	PaymentDetails      json.RawMessage `json:"payment_details,omitempty"`
	LanguageReferences  json.RawMessage `json:"language_references,omitempty"`
	Declaration         json.RawMessage `json:"declaration,omitempty"`

	SuspendFrom *time.Time `json:"suspend_from,omitempty"`
	SuspendTo   *time.Time `json:"suspend_to,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ApprovedDate *time.Time `json:"approved_date,omitempty"`
	RejectedDate *time.Time `json:"rejected_date,omitempty"`
}

// RejectDriverRequest carries the step numbers an operator flagged in the
// reject dialog. Range checks against the driver's category happen in the
// service; the tag only enforces a non-empty set.
type RejectDriverRequest struct {
	Steps []int `json:"steps" validate:"required,min=1"`
}

// SuspendDriversRequest is the batch suspension input.
type SuspendDriversRequest struct {
	DriverIDs   []uuid.UUID `json:"driver_ids" validate:"required,min=1"`
	SuspendFrom time.Time   `json:"suspend_from" validate:"required"`
	SuspendTo   time.Time   `json:"suspend_to" validate:"required"`
	Description string      `json:"description" validate:"required"`
}

// GrantIncentivesRequest is the batch incentive grant input.
type GrantIncentivesRequest struct {
	DriverIDs   []uuid.UUID `json:"driver_ids" validate:"required,min=1"`
	Amount      float64     `json:"amount" validate:"required,gt=0"`
	Description string      `json:"description" validate:"required"`
}

// BatchActionResult is the itemized outcome for one driver of a batch
// operation. Batch endpoints always return one entry per requested id, in
// request order; they never collapse to a single pass/fail.
type BatchActionResult struct {
	DriverID uuid.UUID `json:"driver_id"`
	Success  bool      `json:"success"`
	Error    string    `json:"error,omitempty"`
}

// SuspensionRecord documents one batch suspension action. One record covers
// the whole batch; it is immutable after creation.
type SuspensionRecord struct {
	ID          uuid.UUID   `json:"id"`
	DriverIDs   []uuid.UUID `json:"driver_ids"`
	SuspendFrom time.Time   `json:"suspend_from"`
	SuspendTo   time.Time   `json:"suspend_to"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

// IncentiveGrant documents one batch incentive action.
type IncentiveGrant struct {
	ID          uuid.UUID   `json:"id"`
	DriverIDs   []uuid.UUID `json:"driver_ids"`
	Amount      float64     `json:"amount"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AuditLog records a state-changing admin action. Inserts are best-effort;
// a failed audit write never fails the action itself.
type AuditLog struct {
	ID         uuid.UUID       `json:"id"`
	AdminID    uuid.UUID       `json:"admin_id"`
	Action     string          `json:"action"`
	TargetType string          `json:"target_type"`
	TargetID   uuid.UUID       `json:"target_id"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
