package virtualmic

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakePage scripts Evaluate responses and records calls.
type fakePage struct {
	mu      sync.Mutex
	calls   []string
	result  interface{}
	err     error
	playing chan struct{} // when set, playClip blocks until closed
}

func (f *fakePage) Evaluate(script string, args ...interface{}) (interface{}, error) {
	f.mu.Lock()
	f.calls = append(f.calls, script)
	f.mu.Unlock()
	if f.playing != nil && len(args) == 0 {
		<-f.playing
	}
	return f.result, f.err
}

func (f *fakePage) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func mustClip(t *testing.T) *Clip {
	t.Helper()
	clip, err := NewClip([]byte("ID3test"), "")
	require.NoError(t, err)
	return clip
}

func TestSpeakWithoutClip(t *testing.T) {
	page := &fakePage{result: true}
	dev := NewDevice(page, nil)

	require.False(t, dev.HasClip())
	ok, err := dev.Speak()
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 0, page.callCount())
}

func TestSpeakResolvesTrueOnCompletion(t *testing.T) {
	page := &fakePage{result: true}
	dev := NewDevice(page, mustClip(t))

	ok, err := dev.Speak()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestSpeakPropagatesEvaluateError(t *testing.T) {
	page := &fakePage{err: errors.New("page gone")}
	dev := NewDevice(page, mustClip(t))

	ok, err := dev.Speak()
	require.Error(t, err)
	require.False(t, ok)
}

func TestSpeakRejectsConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	page := &fakePage{result: true, playing: release}
	dev := NewDevice(page, mustClip(t))

	done := make(chan bool, 1)
	go func() {
		ok, _ := dev.Speak()
		done <- ok
	}()

	// Wait for the first call to be in flight
	require.Eventually(t, func() bool {
		return page.callCount() >= 1
	}, time.Second, 5*time.Millisecond)

	ok, err := dev.Speak()
	require.NoError(t, err)
	require.False(t, ok, "second call while speaking must be rejected")

	close(release)
	require.True(t, <-done)
}

func TestSpeakFalseOnPlaybackFailure(t *testing.T) {
	page := &fakePage{result: false}
	dev := NewDevice(page, mustClip(t))

	ok, err := dev.Speak()
	require.NoError(t, err)
	require.False(t, ok)
}
