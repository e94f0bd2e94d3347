package virtualmic

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectMIMEMp3ID3(t *testing.T) {
	mime := DetectMIME([]byte("ID3\x04\x00rest"))
	require.Equal(t, "audio/mpeg", mime)
}

func TestDetectMIMEMp3FrameSync(t *testing.T) {
	mime := DetectMIME([]byte{0xFF, 0xFB, 0x90, 0x00})
	require.Equal(t, "audio/mpeg", mime)
}

func TestDetectMIMEOgg(t *testing.T) {
	mime := DetectMIME([]byte("OggS\x00rest"))
	require.Equal(t, "audio/ogg", mime)
}

func TestDetectMIMEFlac(t *testing.T) {
	mime := DetectMIME([]byte("fLaC\x00\x00\x00"))
	require.Equal(t, "audio/flac", mime)
}

func TestDetectMIMEWav(t *testing.T) {
	mime := DetectMIME([]byte("RIFF\x24\x00\x00\x00WAVEfmt "))
	require.Equal(t, "audio/wav", mime)
}

func TestDetectMIMEUnknownDefaultsToMpeg(t *testing.T) {
	mime := DetectMIME([]byte("garbage"))
	require.Equal(t, "audio/mpeg", mime)
}

func TestNewClipRejectsEmpty(t *testing.T) {
	_, err := NewClip(nil, "")
	require.ErrorIs(t, err, ErrEmptyClip)
}

func TestNewClipKeepsExplicitMIME(t *testing.T) {
	clip, err := NewClip([]byte("OggS"), "audio/webm")
	require.NoError(t, err)
	require.Equal(t, "audio/webm", clip.MIME())
}

func TestClipDataURL(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	clip, err := NewClip(payload, "audio/mpeg")
	require.NoError(t, err)

	url := clip.DataURL()
	require.True(t, strings.HasPrefix(url, "data:audio/mpeg;base64,"))

	b64 := strings.TrimPrefix(url, "data:audio/mpeg;base64,")
	decoded, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	require.Equal(t, payload, decoded)
}

func TestClipDataURLEncodedOnce(t *testing.T) {
	clip, err := NewClip([]byte("ID3abc"), "")
	require.NoError(t, err)
	first := clip.DataURL()
	second := clip.DataURL()
	require.Equal(t, first, second)
}
