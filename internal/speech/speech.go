// Package speech defines the contracts for the external speech services:
// speech-to-text (Transcriber) and text-to-speech (Synthesizer), plus the
// error taxonomy shared by their implementations.
package speech

import (
	"context"
	"errors"
)

var (
	// ErrInvalidAudio means the capture was empty or the service rejected
	// the audio payload as malformed.
	ErrInvalidAudio = errors.New("invalid or empty audio")
	// ErrAuth means the external service credentials are missing or invalid.
	ErrAuth = errors.New("speech service authentication failed")
	// ErrRateLimited means the external service throttled the request.
	ErrRateLimited = errors.New("speech service rate limit exceeded")
	// ErrService is a generic upstream failure.
	ErrService = errors.New("speech service error")
	// ErrNotConfigured means the backend has no usable credentials/endpoint.
	ErrNotConfigured = errors.New("speech backend not configured")
)

// Transcriber converts captured audio bytes into a transcript string.
type Transcriber interface {
	// Transcribe returns the recognized text. It fails with a taxonomy
	// error on empty or malformed input; an empty transcript with a nil
	// error is a valid "no speech" result.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
	// Available reports whether the backend is configured and usable.
	Available() bool
	// Name identifies the backend for logging.
	Name() string
}

// Synthesizer converts text into playable audio bytes. Used only for
// confirmation playback; a synthesis failure never blocks document mutation.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// UserMessage maps a taxonomy error to the message surfaced to the user.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidAudio):
		return "Invalid audio format. Please try recording again."
	case errors.Is(err, ErrAuth):
		return "Speech service API key is invalid or missing. Please check your configuration."
	case errors.Is(err, ErrRateLimited):
		return "API rate limit exceeded. Please wait a moment and try again."
	case errors.Is(err, ErrNotConfigured):
		return "No speech recognition backend is configured."
	default:
		return "Failed to process voice command. Please try again."
	}
}
