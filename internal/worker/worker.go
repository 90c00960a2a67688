package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Akshayn8055/VoxForms/internal/sessions"
	"github.com/Akshayn8055/VoxForms/pkg/queue"
	"github.com/Akshayn8055/VoxForms/pkg/storage"
)

// AudioArchiver processes voice audio archival jobs: read the spooled
// capture from disk, upload to S3, record the key, remove the spool file.
type AudioArchiver struct {
	sessRepo *sessions.Repository
	s3       *storage.S3
	queue    *queue.Queue
	logger   *zap.Logger
}

// NewAudioArchiver creates an audio archival processor.
func NewAudioArchiver(sessRepo *sessions.Repository, s3 *storage.S3, q *queue.Queue, logger *zap.Logger) *AudioArchiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioArchiver{sessRepo: sessRepo, s3: s3, queue: q, logger: logger}
}

// Process executes one audio archival job.
func (p *AudioArchiver) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeAudioArchive {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.AudioArchivePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	sess, err := p.sessRepo.GetByID(ctx, payload.SessionID)
	if err != nil || sess == nil {
		return fmt.Errorf("voice session not found: %s", payload.SessionID)
	}
	if sess.AudioS3Key != "" {
		p.logger.Info("session audio already archived", zap.String("session_id", sess.ID.String()))
		return nil
	}

	f, err := os.Open(payload.Path)
	if err != nil {
		return fmt.Errorf("open spool file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat spool file: %w", err)
	}

	key := storage.AudioKey(payload.FormID.String(), payload.SessionID.String(), payload.ContentType)
	if _, err := p.s3.Upload(ctx, p.s3.AudioBucket(), key, payload.ContentType, f, info.Size()); err != nil {
		return fmt.Errorf("s3 upload: %w", err)
	}

	if err := p.sessRepo.SetAudioKey(ctx, payload.SessionID, key); err != nil {
		p.logger.Error("update session audio key failed", zap.Error(err), zap.String("session_id", payload.SessionID.String()))
		return fmt.Errorf("update db: %w", err)
	}

	if err := os.Remove(payload.Path); err != nil {
		p.logger.Warn("remove spool file failed", zap.Error(err), zap.String("path", payload.Path))
	}

	p.logger.Info("session audio archived", zap.String("session_id", payload.SessionID.String()), zap.String("s3_key", key))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *AudioArchiver) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("audio worker stopping")
			return
		default:
		}

		job, _, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
