package drivers

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RepositoryInterface defines the contract for driver lifecycle storage.
// Every state-changing method performs a guarded conditional update: the
// current status must match the transition table's precondition at write
// time, otherwise ErrStatusConflict (or ErrDriverNotFound) comes back and
// nothing is mutated.
type RepositoryInterface interface {
	// Reads
	GetDriverByID(ctx context.Context, id uuid.UUID) (*Driver, error)
	ListDriversByStatus(ctx context.Context, status Status, limit, offset int) ([]*Driver, int64, error)
	CountDriversByStatus(ctx context.Context) (map[Status]int64, error)

	// Lifecycle transitions
	ApproveDriver(ctx context.Context, id uuid.UUID) error
	RejectDriver(ctx context.Context, id uuid.UUID, sections []Section) error
	SuspendDriver(ctx context.Context, id uuid.UUID, from, to time.Time) error
	ReactivateDriver(ctx context.Context, id uuid.UUID) error
	SoftDeleteDriver(ctx context.Context, id uuid.UUID) error

	// Suspension history
	InsertSuspensionRecord(ctx context.Context, record *SuspensionRecord) error
	ListSuspensionRecords(ctx context.Context, limit, offset int) ([]*SuspensionRecord, int64, error)
	ExpireSuspensions(ctx context.Context, now time.Time) (int64, error)

	// Incentives
	InsertIncentiveGrant(ctx context.Context, grant *IncentiveGrant) error
	CreditIncentive(ctx context.Context, grantID, driverID uuid.UUID, amount float64) error

	// Audit logging
	InsertAuditLog(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, metadata map[string]interface{})
	ListAuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, int64, error)
}

// ServiceInterface defines the contract the HTTP handler depends on.
type ServiceInterface interface {
	Steps(category string) []Step
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Driver, int64, error)
	GetDriver(ctx context.Context, id uuid.UUID) (*Driver, error)
	StatusCounts(ctx context.Context) (map[Status]int64, error)

	Approve(ctx context.Context, adminID, driverID uuid.UUID) error
	Reject(ctx context.Context, adminID, driverID uuid.UUID, steps []int) error
	Reactivate(ctx context.Context, adminID, driverID uuid.UUID) error
	Delete(ctx context.Context, adminID, driverID uuid.UUID) error

	SuspendBatch(ctx context.Context, adminID uuid.UUID, req *SuspendDriversRequest) ([]BatchActionResult, error)
	GrantIncentives(ctx context.Context, adminID uuid.UUID, req *GrantIncentivesRequest) ([]BatchActionResult, error)
	SuspendHistory(ctx context.Context, limit, offset int) ([]*SuspensionRecord, int64, error)
	AuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, int64, error)
}
