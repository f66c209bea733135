package drivers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/richxcame/driver-console/pkg/common"
	"github.com/richxcame/driver-console/pkg/logger"
	"github.com/richxcame/driver-console/pkg/validation"
	"go.uber.org/zap"
)

// Service handles business logic for the driver lifecycle workflow
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new driver lifecycle service
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

var _ ServiceInterface = (*Service)(nil)

// Steps returns the registration step catalog for a category. Unknown
// categories get the generic five-step form.
func (s *Service) Steps(category string) []Step {
	return StepsFor(Category(strings.ToLower(strings.TrimSpace(category))))
}

// statusFilter is the validated projection filter for lifecycle queries.
type statusFilter struct {
	Status string `validate:"required,driver_status"`
}

// ListByStatus retrieves one page of drivers in the given lifecycle status.
func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Driver, int64, error) {
	if err := validation.ValidateStruct(&statusFilter{Status: status}); err != nil {
		return nil, 0, err
	}

	drivers, total, err := s.repo.ListDriversByStatus(ctx, Status(status), limit, offset)
	if err != nil {
		return nil, 0, err
	}

	return drivers, total, nil
}

// GetDriver retrieves a single driver by id.
func (s *Service) GetDriver(ctx context.Context, id uuid.UUID) (*Driver, error) {
	driver, err := s.repo.GetDriverByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, "driver")
	}
	return driver, nil
}

// StatusCounts returns per-status driver totals.
func (s *Service) StatusCounts(ctx context.Context) (map[Status]int64, error) {
	return s.repo.CountDriversByStatus(ctx)
}

// Approve transitions an on-review driver to approved. Irreversible: there
// is no undo, an approved driver can only be suspended or deleted later.
// Approving a driver in any other status is a state conflict, including a
// repeat approval.
func (s *Service) Approve(ctx context.Context, adminID, driverID uuid.UUID) error {
	if err := s.repo.ApproveDriver(ctx, driverID); err != nil {
		return s.mapRepoError(err, "driver")
	}

	s.repo.InsertAuditLog(ctx, adminID, "approve_driver", "driver", driverID, nil)

	logger.InfoContext(ctx, "driver approved",
		zap.String("driver_id", driverID.String()),
	)
	return nil
}

// Reject clears exactly the profile sections mapped to the selected step
// numbers and moves the driver to rejected. The applicant resubmits only the
// flagged sections, not the whole application.
func (s *Service) Reject(ctx context.Context, adminID, driverID uuid.UUID, steps []int) error {
	// The UI can't submit the dialog without a tick, but the engine still
	// refuses an empty set on its own.
	if len(steps) == 0 {
		return common.NewValidationError("at least one step must be selected")
	}

	driver, err := s.repo.GetDriverByID(ctx, driverID)
	if err != nil {
		return s.mapRepoError(err, "driver")
	}

	if _, ok := NextStatus(driver.Status, ActionReject); !ok {
		return common.NewStateConflictError(fmt.Sprintf("driver in status %s cannot be rejected", driver.Status))
	}

	sections, err := SectionsForSteps(driver.SelectedCategory, steps)
	if err != nil {
		return common.NewValidationError(err.Error())
	}

	// One guarded statement: either the full selected set is cleared and the
	// status flips, or nothing changes.
	if err := s.repo.RejectDriver(ctx, driverID, sections); err != nil {
		return s.mapRepoError(err, "driver")
	}

	s.repo.InsertAuditLog(ctx, adminID, "reject_driver", "driver", driverID, map[string]interface{}{
		"steps": steps,
	})

	logger.InfoContext(ctx, "driver rejected",
		zap.String("driver_id", driverID.String()),
		zap.Ints("steps", steps),
	)
	return nil
}

// Reactivate returns a suspended driver to approved and clears the window.
func (s *Service) Reactivate(ctx context.Context, adminID, driverID uuid.UUID) error {
	if err := s.repo.ReactivateDriver(ctx, driverID); err != nil {
		return s.mapRepoError(err, "driver")
	}

	s.repo.InsertAuditLog(ctx, adminID, "reactivate_driver", "driver", driverID, nil)
	return nil
}

// Delete marks a driver deleted. Soft only: the record stays in the store
// and appears in the deleted projection.
func (s *Service) Delete(ctx context.Context, adminID, driverID uuid.UUID) error {
	if err := s.repo.SoftDeleteDriver(ctx, driverID); err != nil {
		return s.mapRepoError(err, "driver")
	}

	s.repo.InsertAuditLog(ctx, adminID, "delete_driver", "driver", driverID, nil)
	return nil
}

// SuspendBatch applies a time-windowed suspension to a batch of drivers.
// All validation happens before any mutation; each driver is then attempted
// independently, so one stale row never blocks the rest of the batch. One
// shared SuspensionRecord covers the whole batch.
func (s *Service) SuspendBatch(ctx context.Context, adminID uuid.UUID, req *SuspendDriversRequest) ([]BatchActionResult, error) {
	if req == nil {
		return nil, common.NewValidationError("request body is required")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, common.NewValidationError("description must not be blank")
	}
	if !req.SuspendTo.After(req.SuspendFrom) {
		return nil, common.NewValidationError("suspend_to must be strictly after suspend_from")
	}

	record := &SuspensionRecord{
		ID:          uuid.New(),
		DriverIDs:   req.DriverIDs,
		SuspendFrom: req.SuspendFrom,
		SuspendTo:   req.SuspendTo,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	}

	// The record documents the action; write it before touching any driver
	// so history never misses a batch that partially ran.
	if err := s.repo.InsertSuspensionRecord(ctx, record); err != nil {
		return nil, err
	}

	results := make([]BatchActionResult, 0, len(req.DriverIDs))
	for _, driverID := range req.DriverIDs {
		result := BatchActionResult{DriverID: driverID, Success: true}

		if err := s.repo.SuspendDriver(ctx, driverID, req.SuspendFrom, req.SuspendTo); err != nil {
			result.Success = false
			result.Error = batchErrorMessage(s.mapRepoError(err, "driver"))
		}

		results = append(results, result)
	}

	s.repo.InsertAuditLog(ctx, adminID, "suspend_drivers", "suspension_record", record.ID, map[string]interface{}{
		"driver_count": len(req.DriverIDs),
		"suspend_from": req.SuspendFrom,
		"suspend_to":   req.SuspendTo,
	})

	logger.InfoContext(ctx, "batch suspension processed",
		zap.String("record_id", record.ID.String()),
		zap.Int("requested", len(req.DriverIDs)),
		zap.Int("failed", countFailures(results)),
	)

	return results, nil
}

// GrantIncentives credits a batch of approved drivers. Same batch-partial
// semantics as suspension: itemized results, one shared grant record.
func (s *Service) GrantIncentives(ctx context.Context, adminID uuid.UUID, req *GrantIncentivesRequest) ([]BatchActionResult, error) {
	if req == nil {
		return nil, common.NewValidationError("request body is required")
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, common.NewValidationError("description must not be blank")
	}

	grant := &IncentiveGrant{
		ID:          uuid.New(),
		DriverIDs:   req.DriverIDs,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.InsertIncentiveGrant(ctx, grant); err != nil {
		return nil, err
	}

	results := make([]BatchActionResult, 0, len(req.DriverIDs))
	for _, driverID := range req.DriverIDs {
		result := BatchActionResult{DriverID: driverID, Success: true}

		if err := s.repo.CreditIncentive(ctx, grant.ID, driverID, req.Amount); err != nil {
			result.Success = false
			result.Error = batchErrorMessage(s.mapRepoError(err, "driver"))
		}

		results = append(results, result)
	}

	s.repo.InsertAuditLog(ctx, adminID, "grant_incentives", "incentive_grant", grant.ID, map[string]interface{}{
		"driver_count": len(req.DriverIDs),
		"amount":       req.Amount,
	})

	return results, nil
}

// SuspendHistory retrieves suspension records, newest first.
func (s *Service) SuspendHistory(ctx context.Context, limit, offset int) ([]*SuspensionRecord, int64, error) {
	return s.repo.ListSuspensionRecords(ctx, limit, offset)
}

// AuditLogs retrieves audit log entries, newest first.
func (s *Service) AuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, int64, error) {
	return s.repo.ListAuditLogs(ctx, limit, offset)
}

// mapRepoError converts repository sentinels into typed API errors so the
// handler can answer 404 vs 409 vs 500 without knowing storage details.
func (s *Service) mapRepoError(err error, resource string) error {
	switch {
	case errors.Is(err, ErrDriverNotFound):
		return common.NewNotFoundError(resource+" not found", err)
	case errors.Is(err, ErrStatusConflict):
		return common.NewStateConflictError(err.Error())
	default:
		return err
	}
}

// batchErrorMessage picks the operator-facing message for an itemized result.
func batchErrorMessage(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

func countFailures(results []BatchActionResult) int {
	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	return failed
}
