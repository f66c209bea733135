package drivers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/driver-console/pkg/logger"
	"go.uber.org/zap"
)

// Sentinel errors the service maps onto typed API errors.
var (
	// ErrDriverNotFound means no row exists for the id.
	ErrDriverNotFound = errors.New("driver not found")
	// ErrStatusConflict means the row exists but its current status failed
	// the guarded update's precondition (a concurrent transition won).
	ErrStatusConflict = errors.New("driver status conflict")
)

const driverColumns = `id, status, selected_category,
	personal_information, vehicle_details, driving_details,
	payment_details, language_references, declaration,
	suspend_from, suspend_to,
	created_at, updated_at, approved_date, rejected_date`

// Repository handles database operations for the driver lifecycle
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new driver repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

var _ RepositoryInterface = (*Repository)(nil)

// GetDriverByID retrieves a driver by ID
func (r *Repository) GetDriverByID(ctx context.Context, id uuid.UUID) (*Driver, error) {
	query := fmt.Sprintf(`SELECT %s FROM drivers WHERE id = $1`, driverColumns)

	driver, err := scanDriver(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return driver, nil
}

// ListDriversByStatus retrieves one page of drivers in the given status.
// Ordering is fixed (created_at DESC, id DESC) so pages of one query are
// stable; concurrent writes may still shift page boundaries between requests.
func (r *Repository) ListDriversByStatus(ctx context.Context, status Status, limit, offset int) ([]*Driver, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM drivers WHERE status = $1`, status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count drivers: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM drivers
		WHERE status = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, driverColumns)

	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drivers: %w", err)
	}
	defer rows.Close()

	var result []*Driver
	for rows.Next() {
		driver, err := scanDriver(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan driver: %w", err)
		}
		result = append(result, driver)
	}

	return result, total, rows.Err()
}

// CountDriversByStatus returns per-status totals for the console stat cards.
func (r *Repository) CountDriversByStatus(ctx context.Context) (map[Status]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM drivers GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count drivers by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int64, len(AllStatuses))
	for _, status := range AllStatuses {
		counts[status] = 0
	}
	for rows.Next() {
		var status Status
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// ApproveDriver moves an on-review driver to approved and stamps the
// approval date. The status predicate in the WHERE clause is the guard: a
// concurrent transition makes this a no-op reported as a conflict.
func (r *Repository) ApproveDriver(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE drivers
		SET status = $1, approved_date = NOW(), updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.db.Exec(ctx, query, StatusApproved, id, StatusOnReview)
	if err != nil {
		return fmt.Errorf("failed to approve driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, id)
	}

	return nil
}

// RejectDriver clears exactly the given profile sections and moves the
// driver to rejected, in one statement so the clearing is all-or-nothing.
func (r *Repository) RejectDriver(ctx context.Context, id uuid.UUID, sections []Section) error {
	if len(sections) == 0 {
		return fmt.Errorf("no sections to clear")
	}

	setClauses := make([]string, 0, len(sections)+3)
	for _, section := range sections {
		// Section values are the fixed column names from the closed enum,
		// never caller input.
		setClauses = append(setClauses, fmt.Sprintf("%s = NULL", section))
	}
	setClauses = append(setClauses,
		"status = $1",
		"rejected_date = NOW()",
		"updated_at = NOW()",
	)

	query := fmt.Sprintf(`
		UPDATE drivers
		SET %s
		WHERE id = $2 AND status = ANY($3)
	`, strings.Join(setClauses, ", "))

	from := statusStrings(SourceStatuses(ActionReject))
	tag, err := r.db.Exec(ctx, query, StatusRejected, id, from)
	if err != nil {
		return fmt.Errorf("failed to reject driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, id)
	}

	return nil
}

// SuspendDriver moves an approved driver to suspended and attaches the window.
func (r *Repository) SuspendDriver(ctx context.Context, id uuid.UUID, from, to time.Time) error {
	query := `
		UPDATE drivers
		SET status = $1, suspend_from = $2, suspend_to = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
	`

	tag, err := r.db.Exec(ctx, query, StatusSuspended, from, to, id, StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to suspend driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, id)
	}

	return nil
}

// ReactivateDriver moves a suspended driver back to approved and clears the window.
func (r *Repository) ReactivateDriver(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE drivers
		SET status = $1, suspend_from = NULL, suspend_to = NULL, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	tag, err := r.db.Exec(ctx, query, StatusApproved, id, StatusSuspended)
	if err != nil {
		return fmt.Errorf("failed to reactivate driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, id)
	}

	return nil
}

// SoftDeleteDriver marks a driver deleted. The row is never removed; deleted
// drivers stay listable through the deleted projection.
func (r *Repository) SoftDeleteDriver(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE drivers
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status <> $1
	`

	tag, err := r.db.Exec(ctx, query, StatusDeleted, id)
	if err != nil {
		return fmt.Errorf("failed to delete driver: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, id)
	}

	return nil
}

// guardFailure disambiguates a zero-row guarded update: missing row vs a
// status that no longer satisfies the precondition.
func (r *Repository) guardFailure(ctx context.Context, id uuid.UUID) error {
	var current Status
	err := r.db.QueryRow(ctx, `SELECT status FROM drivers WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDriverNotFound
		}
		return fmt.Errorf("failed to read driver status: %w", err)
	}
	return fmt.Errorf("%w: current status is %s", ErrStatusConflict, current)
}

// InsertSuspensionRecord stores the shared record for one batch suspension.
func (r *Repository) InsertSuspensionRecord(ctx context.Context, record *SuspensionRecord) error {
	query := `
		INSERT INTO suspension_records (id, driver_ids, suspend_from, suspend_to, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID, record.DriverIDs, record.SuspendFrom, record.SuspendTo,
		record.Description, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert suspension record: %w", err)
	}

	return nil
}

// ListSuspensionRecords retrieves suspension history, newest first.
func (r *Repository) ListSuspensionRecords(ctx context.Context, limit, offset int) ([]*SuspensionRecord, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM suspension_records`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count suspension records: %w", err)
	}

	query := `
		SELECT id, driver_ids, suspend_from, suspend_to, description, created_at
		FROM suspension_records
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suspension records: %w", err)
	}
	defer rows.Close()

	var records []*SuspensionRecord
	for rows.Next() {
		record := &SuspensionRecord{}
		err := rows.Scan(
			&record.ID,
			&record.DriverIDs,
			&record.SuspendFrom,
			&record.SuspendTo,
			&record.Description,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan suspension record: %w", err)
		}
		records = append(records, record)
	}

	return records, total, rows.Err()
}

// ExpireSuspensions reactivates every suspended driver whose window has
// passed. Used only by the flag-gated expiry worker.
func (r *Repository) ExpireSuspensions(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE drivers
		SET status = $1, suspend_from = NULL, suspend_to = NULL, updated_at = NOW()
		WHERE status = $2 AND suspend_to <= $3
	`

	tag, err := r.db.Exec(ctx, query, StatusApproved, StatusSuspended, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire suspensions: %w", err)
	}

	return tag.RowsAffected(), nil
}

// InsertIncentiveGrant stores the shared record for one batch incentive action.
func (r *Repository) InsertIncentiveGrant(ctx context.Context, grant *IncentiveGrant) error {
	query := `
		INSERT INTO incentive_grants (id, driver_ids, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		grant.ID, grant.DriverIDs, grant.Amount, grant.Description, grant.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert incentive grant: %w", err)
	}

	return nil
}

// CreditIncentive credits one driver under a grant. The INSERT ... SELECT
// guard only matches approved drivers, so stale batch rows fail item-wise.
func (r *Repository) CreditIncentive(ctx context.Context, grantID, driverID uuid.UUID, amount float64) error {
	query := `
		INSERT INTO driver_incentives (id, grant_id, driver_id, amount, created_at)
		SELECT $1, $2, d.id, $3, NOW()
		FROM drivers d
		WHERE d.id = $4 AND d.status = $5
	`

	tag, err := r.db.Exec(ctx, query, uuid.New(), grantID, amount, driverID, StatusApproved)
	if err != nil {
		return fmt.Errorf("failed to credit incentive: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return r.guardFailure(ctx, driverID)
	}

	return nil
}

// InsertAuditLog records an admin action. Best-effort: failures are logged
// and swallowed so audit problems never fail the action itself.
func (r *Repository) InsertAuditLog(ctx context.Context, adminID uuid.UUID, action, targetType string, targetID uuid.UUID, metadata map[string]interface{}) {
	var metadataJSON []byte
	if metadata != nil {
		metadataJSON, _ = json.Marshal(metadata)
	}

	query := `
		INSERT INTO audit_logs (id, admin_id, action, target_type, target_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`

	if _, err := r.db.Exec(ctx, query, uuid.New(), adminID, action, targetType, targetID, metadataJSON); err != nil {
		logger.WarnContext(ctx, "failed to insert audit log",
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

// ListAuditLogs retrieves audit logs, newest first.
func (r *Repository) ListAuditLogs(ctx context.Context, limit, offset int) ([]*AuditLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	query := `
		SELECT id, admin_id, action, target_type, target_id, metadata, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []*AuditLog
	for rows.Next() {
		entry := &AuditLog{}
		err := rows.Scan(
			&entry.ID,
			&entry.AdminID,
			&entry.Action,
			&entry.TargetType,
			&entry.TargetID,
			&entry.Metadata,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log: %w", err)
		}
		logs = append(logs, entry)
	}

	return logs, total, rows.Err()
}

// scanDriver reads one driver row in driverColumns order.
func scanDriver(row pgx.Row) (*Driver, error) {
	driver := &Driver{}
	err := row.Scan(
		&driver.ID,
		&driver.Status,
		&driver.SelectedCategory,
		&driver.PersonalInformation,
		&driver.VehicleDetails,
		&driver.DrivingDetails,
		&driver.PaymentDetails,
		&driver.LanguageReferences,
		&driver.Declaration,
		&driver.SuspendFrom,
		&driver.SuspendTo,
		&driver.CreatedAt,
		&driver.UpdatedAt,
		&driver.ApprovedDate,
		&driver.RejectedDate,
	)
	if err != nil {
		return nil, err
	}
	return driver, nil
}

func statusStrings(statuses []Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
