package session

import (
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/personameet/recorder/pkg/capture"
)

const meetingURLPrefix = "https://meet.google.com/"

type endDetector interface {
	MeetingOver() (bool, error)
}

type statusReader interface {
	Status() (capture.Status, error)
}

// monitor watches a live meeting for its end. It is the only goroutine
// besides a stop request that flips the handle inactive.
type monitor struct {
	handle     *Handle
	detector   endDetector
	status     statusReader
	currentURL func() string
	interval   time.Duration
}

// run polls until the meeting ends or a stop is requested. A page
// evaluation error counts as an end signal: once the meeting page is
// torn down the execution context is destroyed and every script call
// fails from then on.
func (m *monitor) run() {
	ticks := 0
	for m.handle.Active() {
		time.Sleep(m.interval)
		// A stop can race the transition into the meeting phase and
		// leave the handle active; the flag itself is authoritative.
		if m.handle.StopRequested() {
			m.handle.setActive(false)
			return
		}
		if !m.handle.Active() {
			return
		}

		if reason, ended := m.ended(); ended {
			log.Infof("meeting ended | session: %s, reason: %s", m.handle.ID, reason)
			m.handle.setActive(false)
			return
		}

		ticks++
		if ticks%10 == 0 {
			m.logStatus()
		}
	}
}

func (m *monitor) ended() (string, bool) {
	over, err := m.detector.MeetingOver()
	if err != nil {
		return "page unreachable", true
	}
	if over {
		return "end-of-meeting text", true
	}

	current := m.currentURL()
	if !strings.HasPrefix(current, meetingURLPrefix) || strings.Contains(current, "/landing") {
		return "navigated away", true
	}

	return "", false
}

func (m *monitor) logStatus() {
	if m.status == nil {
		return
	}
	s, err := m.status.Status()
	if err != nil {
		log.Debugf("capture status unavailable | session: %s, error: %v", m.handle.ID, err)
		return
	}
	log.Infof("capture status | session: %s, recording: %t, tracks: %d, chunks: %d, bytes: %d",
		m.handle.ID, s.Recording, s.ConnectedTracks, s.Chunks, s.TotalBytes)
}
