package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// WhisperServer is the fallback recognizer: a self-hosted whisper.cpp
// server speaking its /inference multipart API. Selected when the primary
// remote backend is unavailable or misconfigured.
type WhisperServer struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewWhisperServer creates a whisper-server client. An empty baseURL leaves
// the backend unavailable.
func NewWhisperServer(baseURL string, logger *zap.Logger) *WhisperServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WhisperServer{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
		logger:  logger,
	}
}

func (w *WhisperServer) Name() string { return "whisper-server" }

// Available reports whether a server endpoint is configured.
func (w *WhisperServer) Available() bool { return w.baseURL != "" }

// Transcribe posts the audio to the whisper server and returns its text.
func (w *WhisperServer) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !w.Available() {
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
	if err := mw.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrService, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrService, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/inference", &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := w.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "", fmt.Errorf("%w: status %d", ErrInvalidAudio, resp.StatusCode)
	default:
		return "", fmt.Errorf("%w: status %d", ErrService, resp.StatusCode)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrService, err)
	}
	return strings.TrimSpace(result.Text), nil
}
