package toggle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/personameet/recorder/pkg/locator"
)

// scriptedLocator replays a fixed sequence of Locate results.
type scriptedLocator struct {
	sequence []locateResult
	calls    int
}

type locateResult struct {
	state locator.State
	pos   locator.Point
	err   error
}

func notFound() locateResult {
	return locateResult{err: locator.ErrNotFound}
}

func found(state locator.State, x, y float64) locateResult {
	return locateResult{state: state, pos: locator.Point{X: x, Y: y}}
}

func (s *scriptedLocator) Locate(control locator.Control) (locator.ControlState, error) {
	s.calls++
	if s.calls > len(s.sequence) {
		return locator.ControlState{}, locator.ErrNotFound
	}
	res := s.sequence[s.calls-1]
	if res.err != nil {
		return locator.ControlState{}, res.err
	}
	return locator.ControlState{State: res.state, Pos: res.pos}, nil
}

func (s *scriptedLocator) FindJoinButton() (locator.JoinButton, error) {
	return locator.JoinButton{}, locator.ErrNotFound
}
func (s *scriptedLocator) DismissPopups() (int, error)   { return 0, nil }
func (s *scriptedLocator) PrejoinVisible() (bool, error) { return false, nil }
func (s *scriptedLocator) MeetingOver() (bool, error)    { return false, nil }

type countingClicker struct {
	clicks []locator.Point
}

func (c *countingClicker) ClickAt(x, y float64) error {
	c.clicks = append(c.clicks, locator.Point{X: x, Y: y})
	return nil
}

func fastController(loc locator.Locator, clicker Clicker) *Controller {
	c := NewController(loc, clicker)
	c.Backoff = 10 * time.Millisecond
	c.ClickSettle = time.Millisecond
	c.VerifySettle = time.Millisecond
	return c
}

func TestDisableAlreadyOff(t *testing.T) {
	loc := &scriptedLocator{sequence: []locateResult{found(locator.StateOff, 1, 2)}}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	err := c.Disable(locator.Microphone, 8)
	require.NoError(t, err)
	require.Empty(t, clicker.clicks, "already-off control must not be clicked")
	require.Equal(t, 1, loc.calls)
}

func TestDisableAfterNotFoundRetries(t *testing.T) {
	// [NotFound, NotFound, ON] => one click, success, two backoffs
	loc := &scriptedLocator{sequence: []locateResult{
		notFound(),
		notFound(),
		found(locator.StateOn, 120, 640),
	}}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	start := time.Now()
	err := c.Disable(locator.Microphone, 8)
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, clicker.clicks, 1)
	require.Equal(t, locator.Point{X: 120, Y: 640}, clicker.clicks[0])
	require.Equal(t, 3, loc.calls)
	require.GreaterOrEqual(t, elapsed, 2*c.Backoff)
}

func TestDisableDoesNotVerifyClick(t *testing.T) {
	// The single ON result is followed by nothing; an implementation
	// that re-queried after the click would exhaust the sequence.
	loc := &scriptedLocator{sequence: []locateResult{found(locator.StateOn, 5, 5)}}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	err := c.Disable(locator.Camera, 8)
	require.NoError(t, err)
	require.Equal(t, 1, loc.calls)
}

func TestDisableExhaustsAttempts(t *testing.T) {
	loc := &scriptedLocator{}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	err := c.Disable(locator.Microphone, 3)
	require.ErrorIs(t, err, ErrAttemptsExhausted)
	require.Equal(t, 3, loc.calls)
	require.Empty(t, clicker.clicks)
}

func TestEnableVerifiesNewState(t *testing.T) {
	loc := &scriptedLocator{sequence: []locateResult{
		found(locator.StateOff, 7, 8), // click
		found(locator.StateOn, 7, 8),  // verification query
	}}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	err := c.Enable(locator.Microphone, 5)
	require.NoError(t, err)
	require.Len(t, clicker.clicks, 1)
	require.Equal(t, 2, loc.calls)
}

func TestEnableRetriesUnconfirmedClick(t *testing.T) {
	loc := &scriptedLocator{sequence: []locateResult{
		found(locator.StateOff, 7, 8), // click 1
		found(locator.StateOff, 7, 8), // verify: still off
		found(locator.StateOff, 7, 8), // click 2
		found(locator.StateOn, 7, 8),  // verify: on
	}}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	err := c.Enable(locator.Microphone, 5)
	require.NoError(t, err)
	require.Len(t, clicker.clicks, 2)
}

func TestEnableAlreadyOn(t *testing.T) {
	loc := &scriptedLocator{sequence: []locateResult{found(locator.StateOn, 0, 0)}}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	err := c.Enable(locator.Microphone, 5)
	require.NoError(t, err)
	require.Empty(t, clicker.clicks)
}

func TestUnknownStateRetriesUntilReadable(t *testing.T) {
	loc := &scriptedLocator{sequence: []locateResult{
		found(locator.StateUnknown, 0, 0),
		found(locator.StateOff, 1, 1),
	}}
	clicker := &countingClicker{}
	c := fastController(loc, clicker)

	err := c.Disable(locator.Microphone, 8)
	require.NoError(t, err)
	require.Empty(t, clicker.clicks)
	require.Equal(t, 2, loc.calls)
}
