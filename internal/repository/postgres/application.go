package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `id, property_id, tenant_id, monthly_income, current_situation, birth_date, age,
	has_guarantor, message, status, created_on, updated_on`

func scanApplication(row rowScanner) (*domain.Application, error) {
	a := &domain.Application{}
	var birthDate sql.NullTime
	err := row.Scan(&a.ID, &a.PropertyID, &a.TenantID, &a.Applicant.MonthlyIncome, &a.Applicant.CurrentSituation,
		&birthDate, &a.Applicant.Age, &a.Applicant.HasGuarantor, &a.Message, &a.Status, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if birthDate.Valid {
		t := birthDate.Time
		a.Applicant.BirthDate = &t
	}
	return a, nil
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.Application) error {
	query := `INSERT INTO applications (property_id, tenant_id, monthly_income, current_situation, birth_date, age,
	          has_guarantor, message, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now().UTC()
	a.CreatedOn = now
	a.UpdatedOn = now

	var birthDate sql.NullTime
	if a.Applicant.BirthDate != nil {
		birthDate = sql.NullTime{Time: *a.Applicant.BirthDate, Valid: true}
	}

	logger.DatabaseCall("INSERT", "applications", "propertyID", a.PropertyID, "tenantID", a.TenantID)
	err := r.db.QueryRowContext(ctx, query, a.PropertyID, a.TenantID, a.Applicant.MonthlyIncome, a.Applicant.CurrentSituation,
		birthDate, a.Applicant.Age, a.Applicant.HasGuarantor, a.Message, a.Status, a.CreatedOn, a.UpdatedOn).Scan(&a.ID)
	logger.DatabaseResult("INSERT", 1, err, "applicationID", a.ID)
	return mapError(err)
}

func (r *applicationRepository) GetByID(ctx context.Context, id int32) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	a, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.ApplicationStatus) error {
	query := `UPDATE applications SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", "applications", "applicationID", id, "from", from, "to", to)
	result, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "applicationID", id)
		return mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "applicationID", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}

// Accept runs the acceptance of app as a single transaction: the application
// leaves pending, the property gets its tenant and the competing pending
// applications are rejected.
func (r *applicationRepository) Accept(ctx context.Context, app *domain.Application, decidedAt time.Time) ([]domain.Application, error) {
	logger.EnterMethod("applicationRepository.Accept", "applicationID", app.ID, "propertyID", app.PropertyID)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.Accept", err)
		return nil, mapError(err)
	}
	defer tx.Rollback()

	logger.DatabaseCall("UPDATE", "applications", "applicationID", app.ID, "to", domain.ApplicationStatusAccepted)
	result, err := tx.ExecContext(ctx, `UPDATE applications SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`,
		domain.ApplicationStatusAccepted, decidedAt, app.ID, domain.ApplicationStatusPending)
	if err := requireDecision(result, err, fmt.Sprintf("application %d is no longer pending", app.ID)); err != nil {
		logger.ExitMethodWithError("applicationRepository.Accept", err)
		return nil, err
	}

	logger.DatabaseCall("UPDATE", "properties", "propertyID", app.PropertyID, "tenantID", app.TenantID)
	result, err = tx.ExecContext(ctx, `UPDATE properties SET tenant_id = $1, available = FALSE, updated_on = $2
	          WHERE id = $3 AND tenant_id IS NULL`,
		app.TenantID, decidedAt, app.PropertyID)
	if err := requireDecision(result, err, fmt.Sprintf("property %d already has a tenant", app.PropertyID)); err != nil {
		logger.ExitMethodWithError("applicationRepository.Accept", err)
		return nil, err
	}

	logger.DatabaseCall("UPDATE", "applications", "propertyID", app.PropertyID, "to", domain.ApplicationStatusRejected)
	rows, err := tx.QueryContext(ctx, `UPDATE applications SET status = $1, updated_on = $2
	          WHERE property_id = $3 AND status = $4 RETURNING `+applicationColumns,
		domain.ApplicationStatusRejected, decidedAt, app.PropertyID, domain.ApplicationStatusPending)
	if err != nil {
		logger.ExitMethodWithError("applicationRepository.Accept", err)
		return nil, mapError(err)
	}
	var rejected []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		rejected = append(rejected, *a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	logger.DatabaseResult("UPDATE", int64(len(rejected)), nil, "propertyID", app.PropertyID)

	if err := tx.Commit(); err != nil {
		logger.ExitMethodWithError("applicationRepository.Accept", err)
		return nil, mapError(err)
	}

	app.Status = domain.ApplicationStatusAccepted
	app.UpdatedOn = decidedAt
	logger.ExitMethod("applicationRepository.Accept", "applicationID", app.ID, "rejected", len(rejected))
	return rejected, nil
}

// requireDecision turns a guarded write that matched no row into
// domain.ErrConflict.
func requireDecision(result sql.Result, err error, reason string) error {
	if err != nil {
		return mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrConflict, reason)
	}
	return nil
}

func (r *applicationRepository) ListByProperty(ctx context.Context, propertyID int32) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE property_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, propertyID)
}

func (r *applicationRepository) ListByTenant(ctx context.Context, tenantID int32) ([]domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE tenant_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, tenantID)
}

func (r *applicationRepository) list(ctx context.Context, query string, args ...any) ([]domain.Application, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var apps []domain.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}
