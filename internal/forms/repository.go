package forms

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

// Repository handles saved-form persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a forms repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert saves a document; the id is stable across saves and a re-save
// overwrites the stored row.
func (r *Repository) Upsert(ctx context.Context, doc *models.FormDocument) error {
	fields, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("marshal fields: %w", err)
	}
	const q = `INSERT INTO forms (id, owner_id, name, description, fields, is_public, share_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			fields = EXCLUDED.fields,
			is_public = EXCLUDED.is_public,
			share_url = EXCLUDED.share_url,
			updated_at = EXCLUDED.updated_at`
	_, err = r.pool.Exec(ctx, q, doc.ID, doc.OwnerID, doc.Name, doc.Description, fields, doc.IsPublic, doc.ShareURL, doc.CreatedAt, doc.UpdatedAt)
	return err
}

// GetByID returns a saved form by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.FormDocument, error) {
	const q = `SELECT id, owner_id, name, description, fields, is_public, COALESCE(share_url,''), created_at, updated_at
		FROM forms WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, q, id))
}

// ListByOwner returns all forms owned by a user, most recently updated first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FormDocument, error) {
	const q = `SELECT id, owner_id, name, description, fields, is_public, COALESCE(share_url,''), created_at, updated_at
		FROM forms WHERE owner_id = $1 ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.FormDocument
	for rows.Next() {
		var d models.FormDocument
		var raw []byte
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Description, &raw, &d.IsPublic, &d.ShareURL, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &d.Fields); err != nil {
			return nil, fmt.Errorf("unmarshal fields: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Delete removes a saved form.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM forms WHERE id = $1`, id)
	return err
}

type row interface {
	Scan(dest ...any) error
}

func (r *Repository) scanOne(rw row) (*models.FormDocument, error) {
	var d models.FormDocument
	var raw []byte
	if err := rw.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Description, &raw, &d.IsPublic, &d.ShareURL, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &d.Fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return &d, nil
}
