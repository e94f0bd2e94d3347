package virtualmic

import (
	"bytes"
	"encoding/base64"
	"errors"
	"sync"
)

var ErrEmptyClip = errors.New("empty clip")

// Clip is the audio payload injected through the virtual microphone.
// The page cannot fetch arbitrary HTTP URLs once the conference's
// service worker is active, so the bytes travel as a data URL instead,
// encoded once and reused.
type Clip struct {
	data []byte
	mime string

	once    sync.Once
	dataURL string
}

func NewClip(data []byte, mime string) (*Clip, error) {
	if len(data) == 0 {
		return nil, ErrEmptyClip
	}
	if mime == "" {
		mime = DetectMIME(data)
	}
	return &Clip{data: data, mime: mime}, nil
}

func (c *Clip) MIME() string {
	return c.mime
}

func (c *Clip) Size() int {
	return len(c.data)
}

// DataURL returns the base64 data URL form of the clip, encoded on
// first use.
func (c *Clip) DataURL() string {
	c.once.Do(func() {
		c.dataURL = "data:" + c.mime + ";base64," + base64.StdEncoding.EncodeToString(c.data)
	})
	return c.dataURL
}

// DetectMIME guesses the container from magic bytes. The page decodes
// the clip itself, so this only needs to be good enough for the data
// URL header; unknown payloads are labelled mpeg, the common case.
func DetectMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("ID3")):
		return "audio/mpeg"
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "audio/mpeg"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "audio/ogg"
	case bytes.HasPrefix(data, []byte("fLaC")):
		return "audio/flac"
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return "audio/wav"
	default:
		return "audio/mpeg"
	}
}
