package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

const propertyColumns = `id, owner_id, tenant_id, title, description, address, city, postal_code, type,
	surface_m2, rooms, rent_cents, charges_cents, deposit_cents, furnished, available, tenant_criteria,
	created_on, updated_on`

type rowScanner interface {
	Scan(dest ...any) error
}

// marshalCriteria returns an untyped nil for absent criteria so the column
// is written as SQL NULL.
func marshalCriteria(c *domain.TenantCriteria) (any, error) {
	if c == nil {
		return nil, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	p := &domain.Property{}
	var tenantID sql.NullInt32
	var criteria []byte
	err := row.Scan(&p.ID, &p.OwnerID, &tenantID, &p.Title, &p.Description, &p.Address, &p.City, &p.PostalCode, &p.Type,
		&p.SurfaceM2, &p.Rooms, &p.RentCents, &p.ChargesCents, &p.DepositCents, &p.Furnished, &p.Available, &criteria,
		&p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, err
	}
	p.TenantID = int32Ptr(tenantID)
	if len(criteria) > 0 && string(criteria) != "null" {
		p.TenantCriteria = &domain.TenantCriteria{}
		if err := json.Unmarshal(criteria, p.TenantCriteria); err != nil {
			return nil, fmt.Errorf("failed to decode tenant criteria for property %d: %w", p.ID, err)
		}
	}
	return p, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	criteria, err := marshalCriteria(p.TenantCriteria)
	if err != nil {
		return err
	}
	query := `INSERT INTO properties (owner_id, tenant_id, title, description, address, city, postal_code, type,
	          surface_m2, rooms, rent_cents, charges_cents, deposit_cents, furnished, available, tenant_criteria, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18) RETURNING id`
	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now

	logger.DatabaseCall("INSERT", "properties", "ownerID", p.OwnerID)
	err = r.db.QueryRowContext(ctx, query, p.OwnerID, nullInt32(p.TenantID), p.Title, p.Description, p.Address, p.City, p.PostalCode, p.Type,
		p.SurfaceM2, p.Rooms, p.RentCents, p.ChargesCents, p.DepositCents, p.Furnished, p.Available, criteria, p.CreatedOn, p.UpdatedOn).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "propertyID", p.ID)
	return mapError(err)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property, expectedUpdatedOn time.Time) error {
	criteria, err := marshalCriteria(p.TenantCriteria)
	if err != nil {
		return err
	}
	query := `UPDATE properties SET tenant_id=$1, title=$2, description=$3, address=$4, city=$5, postal_code=$6, type=$7,
	          surface_m2=$8, rooms=$9, rent_cents=$10, charges_cents=$11, deposit_cents=$12, furnished=$13, available=$14,
	          tenant_criteria=$15, updated_on=$16 WHERE id=$17 AND updated_on=$18`
	// postgres keeps microseconds
	p.UpdatedOn = time.Now().UTC().Truncate(time.Microsecond)

	logger.DatabaseCall("UPDATE", "properties", "propertyID", p.ID)
	result, err := r.db.ExecContext(ctx, query, nullInt32(p.TenantID), p.Title, p.Description, p.Address, p.City, p.PostalCode, p.Type,
		p.SurfaceM2, p.Rooms, p.RentCents, p.ChargesCents, p.DepositCents, p.Furnished, p.Available, criteria, p.UpdatedOn,
		p.ID, expectedUpdatedOn)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "propertyID", p.ID)
		return mapError(err)
	}

	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "propertyID", p.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: property %d was modified concurrently", domain.ErrConflict, p.ID)
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result, "DELETE", id)
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, ownerID)
}

func (r *propertyRepository) GetByTenant(ctx context.Context, tenantID int32) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE tenant_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, tenantID)
}

func (r *propertyRepository) ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error) {
	offset := (page - 1) * pageSize
	where := ` FROM properties WHERE available = TRUE`
	args := []any{}
	if city != "" {
		where += ` AND LOWER(city) = LOWER($1)`
		args = append(args, city)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, mapError(err)
	}

	query := `SELECT ` + propertyColumns + where +
		fmt.Sprintf(` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, offset)

	props, err := r.list(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return props, count, nil
}

func (r *propertyRepository) list(ctx context.Context, query string, args ...any) ([]domain.Property, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var props []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}

// requireRow turns a zero-row write into domain.ErrNotFound.
func requireRow(result sql.Result, operation string, id int32) error {
	n, err := result.RowsAffected()
	logger.DatabaseResult(operation, n, err, "id", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
