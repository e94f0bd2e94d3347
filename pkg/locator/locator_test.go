package locator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeEvaluator serves canned results per script, simulating fixture
// snapshots of the foreign UI.
type fakeEvaluator struct {
	candidates interface{}
	join       interface{}
	prejoin    interface{}
	over       interface{}
	dismissed  interface{}
	err        error
}

func (f *fakeEvaluator) Evaluate(script string, args ...interface{}) (interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	switch {
	case strings.Contains(script, "getBoundingClientRect") && strings.Contains(script, "data-is-muted"):
		return f.candidates, nil
	case strings.Contains(script, "closest('button')"):
		return f.join, nil
	case strings.Contains(script, "What's your name"):
		return f.prejoin, nil
	case strings.Contains(script, "phrases.some"):
		return f.over, nil
	case strings.Contains(script, "tables.dismiss"):
		return f.dismissed, nil
	}
	return nil, nil
}

func element(label string, x, y float64) map[string]interface{} {
	return map[string]interface{}{"label": label, "x": x, "y": y}
}

func TestLocateMicrophoneOn(t *testing.T) {
	page := &fakeEvaluator{candidates: []interface{}{
		element("more options", 10, 10),
		element("turn off microphone (ctrl + d)", 120, 640),
		element("turn off camera (ctrl + e)", 180, 640),
	}}
	loc := New(page)

	cs, err := loc.Locate(Microphone)
	require.NoError(t, err)
	require.Equal(t, StateOn, cs.State)
	require.Equal(t, 120.0, cs.Pos.X)
	require.Equal(t, 640.0, cs.Pos.Y)
}

func TestLocateSkipsExcludedControls(t *testing.T) {
	page := &fakeEvaluator{candidates: []interface{}{
		element("microphone settings", 30, 30),
		element("turn on microphone (ctrl + d)", 120, 640),
	}}
	loc := New(page)

	cs, err := loc.Locate(Microphone)
	require.NoError(t, err)
	require.Equal(t, StateOff, cs.State)
	require.Equal(t, 120.0, cs.Pos.X)
}

func TestLocateNotFound(t *testing.T) {
	page := &fakeEvaluator{candidates: []interface{}{
		element("leave call", 300, 640),
	}}
	loc := New(page)

	_, err := loc.Locate(Microphone)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLocateAmbiguousState(t *testing.T) {
	page := &fakeEvaluator{candidates: []interface{}{
		element("microphone", 120, 640),
	}}
	loc := New(page)

	cs, err := loc.Locate(Microphone)
	require.NoError(t, err)
	require.Equal(t, StateUnknown, cs.State)
}

func TestLocatePropagatesPageError(t *testing.T) {
	page := &fakeEvaluator{err: errors.New("context destroyed")}
	loc := New(page)

	_, err := loc.Locate(Camera)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestFindJoinButton(t *testing.T) {
	page := &fakeEvaluator{join: map[string]interface{}{
		"text": "Join now", "x": 450.0, "y": 520.0,
	}}
	loc := New(page)

	btn, err := loc.FindJoinButton()
	require.NoError(t, err)
	require.Equal(t, "Join now", btn.Text)
	require.Equal(t, 450.0, btn.Pos.X)
}

func TestFindJoinButtonAbsent(t *testing.T) {
	page := &fakeEvaluator{join: nil}
	loc := New(page)

	_, err := loc.FindJoinButton()
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPrejoinVisible(t *testing.T) {
	page := &fakeEvaluator{prejoin: true}
	loc := New(page)

	visible, err := loc.PrejoinVisible()
	require.NoError(t, err)
	require.True(t, visible)
}

func TestMeetingOver(t *testing.T) {
	page := &fakeEvaluator{over: true}
	loc := New(page)

	over, err := loc.MeetingOver()
	require.NoError(t, err)
	require.True(t, over)
}

func TestDismissPopupsCount(t *testing.T) {
	page := &fakeEvaluator{dismissed: float64(2)}
	loc := New(page)

	n, err := loc.DismissPopups()
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestDecodeCandidatesIgnoresMalformedEntries(t *testing.T) {
	out := decodeCandidates([]interface{}{
		"garbage",
		map[string]interface{}{"x": 1.0},
		element("turn off camera", 5, 6),
	})
	require.Len(t, out, 1)
	require.Equal(t, "turn off camera", out[0].label)
}
