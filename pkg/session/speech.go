package session

import (
	"time"

	"github.com/labstack/gommon/log"

	"github.com/personameet/recorder/pkg/locator"
)

type speaker interface {
	HasClip() bool
	Resume() error
	Speak() (bool, error)
}

type toggler interface {
	Enable(control locator.Control, maxAttempts int) error
	Disable(control locator.Control, maxAttempts int) error
}

// speechScheduler plays the configured clip once, a fixed delay after
// the bot lands in the meeting. Playback is best effort: every failure
// is logged and swallowed so the recording session keeps going.
type speechScheduler struct {
	handle  *Handle
	mic     speaker
	toggles toggler
	timings Timings
}

func (s *speechScheduler) run() {
	time.Sleep(s.timings.SpeechDelay)

	if !s.handle.Active() {
		log.Infof("skipping announcement, session no longer active | session: %s", s.handle.ID)
		return
	}
	if !s.mic.HasClip() {
		log.Infof("skipping announcement, no clip configured | session: %s", s.handle.ID)
		return
	}

	if err := s.mic.Resume(); err != nil {
		log.Warnf("audio graph resume failed | session: %s, error: %v", s.handle.ID, err)
	}

	if err := s.toggles.Enable(locator.Microphone, s.timings.SpeechMicOn); err != nil {
		log.Warnf("could not unmute for announcement | session: %s, error: %v", s.handle.ID, err)
		return
	}
	time.Sleep(s.timings.SpeechSettle)

	played, err := s.mic.Speak()
	if err != nil {
		log.Warnf("announcement playback failed | session: %s, error: %v", s.handle.ID, err)
	} else if !played {
		log.Warnf("announcement did not play | session: %s", s.handle.ID)
	} else {
		log.Infof("announcement played | session: %s", s.handle.ID)
	}
	time.Sleep(s.timings.SpeechTail)

	if err := s.toggles.Disable(locator.Microphone, s.timings.SpeechMicOff); err != nil {
		log.Warnf("could not re-mute after announcement | session: %s, error: %v", s.handle.ID, err)
	}
}
