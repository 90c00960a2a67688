package models

import (
	"time"

	"github.com/google/uuid"
)

// VoiceSessionStatus is the terminal status of a recorded voice session.
type VoiceSessionStatus string

const (
	VoiceSessionCompleted VoiceSessionStatus = "completed"
	VoiceSessionNoSpeech  VoiceSessionStatus = "no_speech"
	VoiceSessionFailed    VoiceSessionStatus = "failed"
	VoiceSessionCancelled VoiceSessionStatus = "cancelled"
)

// VoiceSession is one capture -> transcription -> interpretation cycle,
// persisted for the builder's session history.
type VoiceSession struct {
	ID          uuid.UUID          `json:"id"`
	FormID      uuid.UUID          `json:"form_id"`
	UserID      uuid.UUID          `json:"user_id"`
	Transcript  string             `json:"transcript,omitempty"`
	FieldsAdded int                `json:"fields_added"`
	Status      VoiceSessionStatus `json:"status"`
	Error       string             `json:"error,omitempty"`
	AudioS3Key  string             `json:"audio_s3_key,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}
