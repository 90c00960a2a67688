package contacts

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

// Repository handles contact submission persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a contacts repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const submissionColumns = `id, first_name, last_name, email,
	COALESCE(company,''), COALESCE(industry,''), COALESCE(phone,''), message,
	priority, preferred_contact_method, COALESCE(budget_range,''), COALESCE(timeline,''),
	source, status, created_at, updated_at`

func scanSubmission(row interface{ Scan(...any) error }) (*models.ContactSubmission, error) {
	var s models.ContactSubmission
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email,
		&s.Company, &s.Industry, &s.Phone, &s.Message,
		&s.Priority, &s.PreferredContactMethod, &s.BudgetRange, &s.Timeline,
		&s.Source, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a submission and returns it with generated fields.
func (r *Repository) Create(ctx context.Context, s *models.ContactSubmission) (*models.ContactSubmission, error) {
	const q = `INSERT INTO contact_submissions
		(first_name, last_name, email, company, industry, phone, message,
		 priority, preferred_contact_method, budget_range, timeline, source, status)
		VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''), $7,
		 $8, $9, NULLIF($10,''), NULLIF($11,''), $12, $13)
		RETURNING ` + submissionColumns
	return scanSubmission(r.pool.QueryRow(ctx, q,
		s.FirstName, s.LastName, s.Email, s.Company, s.Industry, s.Phone, s.Message,
		s.Priority, s.PreferredContactMethod, s.BudgetRange, s.Timeline, s.Source, string(s.Status)))
}

// GetByID returns one submission.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.ContactSubmission, error) {
	const q = `SELECT ` + submissionColumns + ` FROM contact_submissions WHERE id = $1`
	return scanSubmission(r.pool.QueryRow(ctx, q, id))
}

// List returns submissions, newest first, optionally filtered by status.
func (r *Repository) List(ctx context.Context, status models.SubmissionStatus) ([]*models.ContactSubmission, error) {
	q := `SELECT ` + submissionColumns + ` FROM contact_submissions`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.ContactSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// UpdateStatus moves a submission through the dashboard workflow.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SubmissionStatus) (*models.ContactSubmission, error) {
	const q = `UPDATE contact_submissions SET status = $2, updated_at = now()
		WHERE id = $1 RETURNING ` + submissionColumns
	return scanSubmission(r.pool.QueryRow(ctx, q, id, string(status)))
}

// Delete removes a submission.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM contact_submissions WHERE id = $1`, id)
	return err
}
