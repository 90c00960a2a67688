package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultElevenLabsBaseURL = "https://api.elevenlabs.io"
	defaultVoiceID           = "pNInz6obpgDQGcFmaJgB" // Adam
	sttModelID               = "whisper-1"
	ttsModelID               = "eleven_monolingual_v1"
)

// ElevenLabsConfig holds ElevenLabs API settings.
type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	BaseURL string // override for tests; default production endpoint
}

// ElevenLabs is the primary speech backend: remote speech-to-text and
// text-to-speech over the ElevenLabs HTTP API.
type ElevenLabs struct {
	cfg    ElevenLabsConfig
	http   *http.Client
	logger *zap.Logger
}

// NewElevenLabs creates the ElevenLabs client.
func NewElevenLabs(cfg ElevenLabsConfig, logger *zap.Logger) *ElevenLabs {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultElevenLabsBaseURL
	}
	if cfg.VoiceID == "" {
		cfg.VoiceID = defaultVoiceID
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ElevenLabs{
		cfg:    cfg,
		http:   &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

// Name identifies the backend for logging.
func (e *ElevenLabs) Name() string { return "elevenlabs" }

// Available reports whether the API key looks usable. Keys are issued with
// an sk_ prefix; placeholder values from sample .env files are rejected.
func (e *ElevenLabs) Available() bool {
	return strings.HasPrefix(e.cfg.APIKey, "sk_") && len(e.cfg.APIKey) > 20
}

// Transcribe sends the audio to the speech-to-text endpoint and returns the
// recognized text.
func (e *ElevenLabs) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !e.Available() {
		return "", ErrNotConfigured
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: no audio data", ErrInvalidAudio)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "audio.webm")
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrService, err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrService, err)
	}
	if err := mw.WriteField("model_id", sttModelID); err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrService, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL+"/v1/speech-to-text", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", e.statusError(resp)
	}

	var result struct {
		Text *string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrService, err)
	}
	if result.Text == nil {
		return "", fmt.Errorf("%w: no transcription returned", ErrService)
	}
	return *result.Text, nil
}

// Synthesize converts text to speech, returning MP3 audio bytes.
func (e *ElevenLabs) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !e.Available() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]any{
		"text":     text,
		"model_id": ttsModelID,
		"voice_settings": map[string]float64{
			"stability":        0.5,
			"similarity_boost": 0.5,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal payload: %v", ErrService, err)
	}

	url := e.cfg.BaseURL + "/v1/text-to-speech/" + e.cfg.VoiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.cfg.APIKey)

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.statusError(resp)
	}
	return io.ReadAll(resp.Body)
}

// statusError maps an API error response to the taxonomy, keeping the
// upstream detail for logging.
func (e *ElevenLabs) statusError(resp *http.Response) error {
	detail := readErrorDetail(resp.Body)
	e.logger.Warn("elevenlabs api error",
		zap.Int("status", resp.StatusCode),
		zap.String("detail", detail),
	)
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	case http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: status %d: %s", ErrInvalidAudio, resp.StatusCode, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	default:
		return fmt.Errorf("%w: status %d: %s", ErrService, resp.StatusCode, detail)
	}
}

// readErrorDetail extracts a human-readable message from an error body,
// which may be {"detail": "..."}, {"detail": [{"msg": ...}]}, or plain text.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return strings.TrimSpace(string(raw))
	}
	if len(envelope.Detail) > 0 {
		var s string
		if json.Unmarshal(envelope.Detail, &s) == nil {
			return s
		}
		var items []struct {
			Msg     string `json:"msg"`
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Detail, &items) == nil {
			var msgs []string
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				} else if it.Message != "" {
					msgs = append(msgs, it.Message)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, ", ")
			}
		}
		return strings.TrimSpace(string(envelope.Detail))
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}
