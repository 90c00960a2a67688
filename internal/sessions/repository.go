// Package sessions exposes the voice-session HTTP surface: start, complete
// (audio upload), cancel, session history, and the builder event socket.
package sessions

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Akshayn8055/VoxForms/internal/models"
)

// Repository persists voice session records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a voice session repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a finished session record.
func (r *Repository) Create(ctx context.Context, s *models.VoiceSession) error {
	const q = `INSERT INTO voice_sessions (id, form_id, user_id, transcript, fields_added, status, error, audio_s3_key)
		VALUES ($1, $2, $3, NULLIF($4,''), $5, $6, NULLIF($7,''), NULLIF($8,''))
		RETURNING created_at`
	return r.pool.QueryRow(ctx, q, s.ID, s.FormID, s.UserID, s.Transcript, s.FieldsAdded, string(s.Status), s.Error, s.AudioS3Key).
		Scan(&s.CreatedAt)
}

// GetByID returns one session.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.VoiceSession, error) {
	const q = `SELECT id, form_id, user_id, COALESCE(transcript,''), fields_added, status, COALESCE(error,''), COALESCE(audio_s3_key,''), created_at
		FROM voice_sessions WHERE id = $1`
	var s models.VoiceSession
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.FormID, &s.UserID, &s.Transcript, &s.FieldsAdded, &s.Status, &s.Error, &s.AudioS3Key, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByForm returns the session history for a form, newest first.
func (r *Repository) ListByForm(ctx context.Context, formID uuid.UUID) ([]models.VoiceSession, error) {
	const q = `SELECT id, form_id, user_id, COALESCE(transcript,''), fields_added, status, COALESCE(error,''), COALESCE(audio_s3_key,''), created_at
		FROM voice_sessions WHERE form_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, formID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.VoiceSession
	for rows.Next() {
		var s models.VoiceSession
		if err := rows.Scan(&s.ID, &s.FormID, &s.UserID, &s.Transcript, &s.FieldsAdded, &s.Status, &s.Error, &s.AudioS3Key, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SetAudioKey records the archived audio object key for a session.
func (r *Repository) SetAudioKey(ctx context.Context, id uuid.UUID, key string) error {
	_, err := r.pool.Exec(ctx, `UPDATE voice_sessions SET audio_s3_key = $1 WHERE id = $2`, key, id)
	return err
}
