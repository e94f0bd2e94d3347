package capture

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakePage struct {
	results map[string]interface{}
	err     error
	calls   int
}

func (f *fakePage) Evaluate(script string, args ...interface{}) (interface{}, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for key, res := range f.results {
		if strings.Contains(script, key) {
			return res, nil
		}
	}
	return nil, nil
}

func TestStartReturnsTrue(t *testing.T) {
	page := &fakePage{results: map[string]interface{}{"startRecording": true}}
	rec := NewRecorder(page)

	ok, err := rec.Start()
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, rec.Recording())
}

func TestStartReturnsFalseWhenStreamHasNoTracks(t *testing.T) {
	page := &fakePage{results: map[string]interface{}{"startRecording": false}}
	rec := NewRecorder(page)

	ok, err := rec.Start()
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, rec.Recording())
}

func TestStopWithoutStartReturnsNil(t *testing.T) {
	page := &fakePage{results: map[string]interface{}{"stopRecording": nil}}
	rec := NewRecorder(page)

	data, err := rec.Stop()
	require.NoError(t, err)
	require.Nil(t, data)
}

func TestStopReturnsDecodedArtifact(t *testing.T) {
	payload := []byte{0x1a, 0x45, 0xdf, 0xa3} // webm magic
	dataURL := "data:audio/webm;base64," + base64.StdEncoding.EncodeToString(payload)
	page := &fakePage{results: map[string]interface{}{
		"startRecording": true,
		"stopRecording":  dataURL,
	}}
	rec := NewRecorder(page)

	ok, err := rec.Start()
	require.NoError(t, err)
	require.True(t, ok)

	data, err := rec.Stop()
	require.NoError(t, err)
	require.Equal(t, payload, data)
	require.False(t, rec.Recording())
}

func TestStopPropagatesPageError(t *testing.T) {
	page := &fakePage{err: errors.New("context destroyed")}
	rec := NewRecorder(page)

	_, err := rec.Stop()
	require.Error(t, err)
	require.False(t, rec.Recording())
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	_, err := decodeDataURL("not a data url")
	require.ErrorIs(t, err, ErrBadDataURL)
}

func TestDecodeDataURLEmptyPayload(t *testing.T) {
	data, err := decodeDataURL("data:audio/webm;base64,")
	require.NoError(t, err)
	require.Empty(t, data)
}

func TestStatusParsing(t *testing.T) {
	page := &fakePage{results: map[string]interface{}{
		"status": map[string]interface{}{
			"isRecording":     true,
			"chunks":          float64(4),
			"totalBytes":      float64(12288),
			"connectedTracks": float64(2),
		},
	}}
	rec := NewRecorder(page)

	st, err := rec.Status()
	require.NoError(t, err)
	require.True(t, st.Recording)
	require.Equal(t, 4, st.Chunks)
	require.Equal(t, 12288, st.TotalBytes)
	require.Equal(t, 2, st.ConnectedTracks)
}

func TestStatusUnexpectedShape(t *testing.T) {
	page := &fakePage{results: map[string]interface{}{"status": "nope"}}
	rec := NewRecorder(page)

	st, err := rec.Status()
	require.NoError(t, err)
	require.Equal(t, Status{}, st)
}
