package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidAudioType(t *testing.T) {
	t.Run("by content type", func(t *testing.T) {
		assert.True(t, ValidAudioType("audio/webm", ""))
		assert.True(t, ValidAudioType("audio/mpeg", ""))
	})

	t.Run("codec parameters stripped", func(t *testing.T) {
		assert.True(t, ValidAudioType("audio/webm;codecs=opus", ""))
	})

	t.Run("by extension fallback", func(t *testing.T) {
		assert.True(t, ValidAudioType("application/octet-stream", "capture.wav"))
		assert.True(t, ValidAudioType("", "capture.webm"))
	})

	t.Run("rejects non-audio", func(t *testing.T) {
		assert.False(t, ValidAudioType("video/mp4", "capture.mp4"))
		assert.False(t, ValidAudioType("text/plain", "notes.txt"))
		assert.False(t, ValidAudioType("", ""))
	})
}

func TestAudioKey(t *testing.T) {
	t.Run("extension from content type", func(t *testing.T) {
		key := AudioKey("form-1", "sess-1", "audio/mpeg")
		assert.Equal(t, "voice-audio/form-1/sess-1.mp3", key)
	})

	t.Run("codec parameters ignored", func(t *testing.T) {
		key := AudioKey("form-1", "sess-1", "audio/ogg;codecs=opus")
		assert.Equal(t, "voice-audio/form-1/sess-1.ogg", key)
	})

	t.Run("unknown type defaults to webm", func(t *testing.T) {
		key := AudioKey("form-1", "sess-1", "application/octet-stream")
		assert.Equal(t, "voice-audio/form-1/sess-1.webm", key)
	})
}

func TestContentTypeForFilename(t *testing.T) {
	assert.Equal(t, "audio/webm", ContentTypeForFilename("a.webm"))
	assert.Equal(t, "audio/mpeg", ContentTypeForFilename("A.MP3"))
	assert.Equal(t, "application/octet-stream", ContentTypeForFilename("a.bin"))
}
