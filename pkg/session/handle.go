package session

import (
	"github.com/lithammer/shortuuid/v4"
	"go.uber.org/atomic"
)

// Handle is the shared state of one automation run. It is created by
// the service and owned by the bot for the whole session.
//
// Writer discipline: `active` is set true by the orchestrator when the
// in-meeting phase begins and set false by exactly one of the monitor
// (end-of-session detected) or a stop request; `recording` is written
// only by the orchestrator around recorder start/stop. Everyone else
// just reads.
type Handle struct {
	ID         string
	MeetingURL string
	BotName    string

	active    *atomic.Bool
	recording *atomic.Bool
	stopReq   *atomic.Bool
}

func newHandle(meetingURL, botName string) *Handle {
	return &Handle{
		ID:         shortuuid.New(),
		MeetingURL: meetingURL,
		BotName:    botName,
		active:     atomic.NewBool(false),
		recording:  atomic.NewBool(false),
		stopReq:    atomic.NewBool(false),
	}
}

func (h *Handle) Active() bool {
	return h.active.Load()
}

func (h *Handle) Recording() bool {
	return h.recording.Load()
}

// StopRequested reports a cooperative cancellation ask from outside;
// polling loops check it between attempts.
func (h *Handle) StopRequested() bool {
	return h.stopReq.Load()
}

func (h *Handle) requestStop() {
	h.stopReq.Store(true)
	h.active.Store(false)
}

// activate marks the in-meeting phase. A stop that already arrived
// wins: the session stays inactive and the caller proceeds straight to
// finalize.
func (h *Handle) activate() bool {
	if h.stopReq.Load() {
		return false
	}
	h.active.Store(true)
	return true
}

func (h *Handle) setActive(v bool)    { h.active.Store(v) }
func (h *Handle) setRecording(v bool) { h.recording.Store(v) }
