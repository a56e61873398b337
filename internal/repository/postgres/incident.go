package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rentdesk-backend/internal/domain"
	"rentdesk-backend/internal/logger"
	"rentdesk-backend/internal/repository"
)

type incidentRepository struct {
	db *sql.DB
}

func NewIncidentRepository(db *sql.DB) repository.IncidentRepository {
	return &incidentRepository{db: db}
}

const incidentColumns = `id, property_id, tenant_id, type, room, status, title, description, photos, comments,
	scheduled_date, estimated_cost_cents, resolution, created_at, updated_at`

func scanIncident(row rowScanner) (*domain.Incident, error) {
	i := &domain.Incident{}
	var photos, comments []byte
	var scheduled sql.NullTime
	var cost sql.NullInt32
	var resolution sql.NullString
	err := row.Scan(&i.ID, &i.PropertyID, &i.TenantID, &i.Type, &i.Room, &i.Status, &i.Title, &i.Description,
		&photos, &comments, &scheduled, &cost, &resolution, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(photos) > 0 {
		if err := json.Unmarshal(photos, &i.Photos); err != nil {
			return nil, fmt.Errorf("failed to decode photos for incident %d: %w", i.ID, err)
		}
	}
	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &i.Comments); err != nil {
			return nil, fmt.Errorf("failed to decode comments for incident %d: %w", i.ID, err)
		}
	}
	if scheduled.Valid {
		t := scheduled.Time
		i.ScheduledDate = &t
	}
	i.EstimatedCostCents = int32Ptr(cost)
	if resolution.Valid {
		s := resolution.String
		i.Resolution = &s
	}
	return i, nil
}

func encodeIncidentLists(i *domain.Incident) ([]byte, []byte, error) {
	photos := i.Photos
	if photos == nil {
		photos = []domain.IncidentPhoto{}
	}
	comments := i.Comments
	if comments == nil {
		comments = []domain.IncidentComment{}
	}
	p, err := json.Marshal(photos)
	if err != nil {
		return nil, nil, err
	}
	c, err := json.Marshal(comments)
	if err != nil {
		return nil, nil, err
	}
	return p, c, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *incidentRepository) Create(ctx context.Context, i *domain.Incident) error {
	logger.EnterMethod("incidentRepository.Create", "propertyID", i.PropertyID, "tenantID", i.TenantID, "status", i.Status)

	photos, comments, err := encodeIncidentLists(i)
	if err != nil {
		logger.ExitMethodWithError("incidentRepository.Create", err, "reason", "failed to marshal lists")
		return err
	}

	query := `INSERT INTO incidents (property_id, tenant_id, type, room, status, title, description, photos, comments,
	          scheduled_date, estimated_cost_cents, resolution, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = i.CreatedAt
	}

	logger.DatabaseCall("INSERT", "incidents", "propertyID", i.PropertyID)
	err = r.db.QueryRowContext(ctx, query, i.PropertyID, i.TenantID, i.Type, i.Room, i.Status, i.Title, i.Description,
		photos, comments, nullTime(i.ScheduledDate), nullInt32(i.EstimatedCostCents), nullString(i.Resolution),
		i.CreatedAt, i.UpdatedAt).Scan(&i.ID)
	logger.DatabaseResult("INSERT", 1, err, "incidentID", i.ID)

	if err != nil {
		logger.ExitMethodWithError("incidentRepository.Create", err)
		return mapError(err)
	}
	logger.ExitMethod("incidentRepository.Create", "incidentID", i.ID)
	return nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id int32) (*domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1`
	i, err := scanIncident(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return i, nil
}

func (r *incidentRepository) Update(ctx context.Context, i *domain.Incident, expectedUpdatedAt time.Time) error {
	logger.EnterMethod("incidentRepository.Update", "incidentID", i.ID, "status", i.Status)

	photos, comments, err := encodeIncidentLists(i)
	if err != nil {
		logger.ExitMethodWithError("incidentRepository.Update", err, "reason", "failed to marshal lists")
		return err
	}

	query := `UPDATE incidents SET type=$1, room=$2, status=$3, title=$4, description=$5, photos=$6, comments=$7,
	          scheduled_date=$8, estimated_cost_cents=$9, resolution=$10, updated_at=$11
	          WHERE id=$12 AND updated_at=$13`
	logger.DatabaseCall("UPDATE", "incidents", "incidentID", i.ID)
	result, err := r.db.ExecContext(ctx, query, i.Type, i.Room, i.Status, i.Title, i.Description, photos, comments,
		nullTime(i.ScheduledDate), nullInt32(i.EstimatedCostCents), nullString(i.Resolution), i.UpdatedAt,
		i.ID, expectedUpdatedAt)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "incidentID", i.ID)
		logger.ExitMethodWithError("incidentRepository.Update", err)
		return mapError(err)
	}

	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "incidentID", i.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		err = fmt.Errorf("%w: incident %d was modified concurrently", domain.ErrConflict, i.ID)
		logger.ExitMethodWithError("incidentRepository.Update", err)
		return err
	}
	logger.ExitMethod("incidentRepository.Update", "incidentID", i.ID)
	return nil
}

func (r *incidentRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM incidents WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result, "DELETE", id)
}

func statusStrings(statuses []domain.IncidentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func (r *incidentRepository) ListByProperty(ctx context.Context, propertyID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	return r.listBy(ctx, "property_id", propertyID, statuses)
}

func (r *incidentRepository) ListByTenant(ctx context.Context, tenantID int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	return r.listBy(ctx, "tenant_id", tenantID, statuses)
}

func (r *incidentRepository) listBy(ctx context.Context, column string, id int32, statuses []domain.IncidentStatus) ([]domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE ` + column + ` = $1`
	args := []any{id}
	if len(statuses) > 0 {
		query += ` AND status = ANY($2)`
		args = append(args, pq.Array(statusStrings(statuses)))
	}
	query += ` ORDER BY created_at DESC`
	return r.list(ctx, query, args...)
}

func (r *incidentRepository) ListByStatusBefore(ctx context.Context, status domain.IncidentStatus, before time.Time) ([]domain.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE status = $1 AND updated_at < $2 ORDER BY updated_at`
	return r.list(ctx, query, status, before)
}

func (r *incidentRepository) list(ctx context.Context, query string, args ...any) ([]domain.Incident, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var incidents []domain.Incident
	for rows.Next() {
		i, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		incidents = append(incidents, *i)
	}
	return incidents, rows.Err()
}
