package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	"go.uber.org/atomic"

	"github.com/personameet/recorder/pkg/browser"
	"github.com/personameet/recorder/pkg/capture"
	"github.com/personameet/recorder/pkg/locator"
	"github.com/personameet/recorder/pkg/toggle"
	"github.com/personameet/recorder/pkg/virtualmic"
)

var (
	ErrPrejoinTimeout = errors.New("pre-join screen never appeared")
	ErrJoinTimeout    = errors.New("could not enter the meeting")
	ErrStopRequested  = errors.New("stop requested")
)

// Config carries everything a bot needs besides the meeting itself.
type Config struct {
	BotName       string
	Clip          *virtualmic.Clip
	Browser       browser.LaunchConfig
	RecordingsDir string
	Timings       Timings
}

// Bot runs one meeting session end to end: launch, join, record,
// announce, watch for the end, persist the artifact, tear down.
type Bot interface {
	// Run blocks for the whole session lifecycle.
	Run()

	// Stop asks the session to wind down at the next safe point.
	Stop()

	Handle() *Handle
	Phase() Phase
}

type bot struct {
	handle  *Handle
	cfg     Config
	timings Timings
	sink    *artifactSink
	phase   *atomic.String

	// launch is swappable so the lifecycle can be driven without a
	// real browser.
	launch func(browser.LaunchConfig) (browser.Session, error)
}

func NewBot(meetingURL string, cfg Config, sink *artifactSink) Bot {
	return &bot{
		handle:  newHandle(meetingURL, cfg.BotName),
		cfg:     cfg,
		timings: cfg.Timings,
		sink:    sink,
		phase:   atomic.NewString(string(PhaseStarting)),
		launch:  browser.Launch,
	}
}

func (b *bot) Handle() *Handle { return b.handle }

func (b *bot) Phase() Phase { return Phase(b.phase.Load()) }

func (b *bot) Stop() {
	log.Infof("stop requested | session: %s", b.handle.ID)
	b.handle.requestStop()
}

func (b *bot) setPhase(p Phase) {
	b.phase.Store(string(p))
	log.Infof("session phase | session: %s, phase: %s", b.handle.ID, p)
}

func (b *bot) Run() {
	page, err := b.launch(b.cfg.Browser)
	if err != nil {
		log.Errorf("browser launch failed | session: %s, error: %v", b.handle.ID, err)
		b.setPhase(PhaseFailed)
		return
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warnf("browser close failed | session: %s, error: %v", b.handle.ID, err)
		}
	}()

	mic := virtualmic.NewDevice(page, b.cfg.Clip)
	rec := capture.NewRecorder(page)
	loc := locator.New(page)
	toggles := toggle.NewController(loc, page)

	page.OnConsoleMessage(func(kind, text string) {
		if strings.HasPrefix(text, "[vmic]") || strings.HasPrefix(text, "[capture]") {
			log.Debugf("page console | session: %s, kind: %s, text: %s", b.handle.ID, kind, text)
		}
	})

	if err = page.AddInitScript(mic.InitScript()); err != nil {
		log.Errorf("cannot install microphone script | session: %s, error: %v", b.handle.ID, err)
		b.setPhase(PhaseFailed)
		return
	}
	if err = page.AddInitScript(rec.InitScript()); err != nil {
		log.Errorf("cannot install capture script | session: %s, error: %v", b.handle.ID, err)
		b.setPhase(PhaseFailed)
		return
	}
	if err = page.ClearCookies(); err != nil {
		log.Warnf("cookie reset failed | session: %s, error: %v", b.handle.ID, err)
	}

	b.setPhase(PhaseJoining)
	if err = b.join(page, loc, toggles); err != nil {
		log.Errorf("could not join meeting | session: %s, url: %s, error: %v",
			b.handle.ID, b.handle.MeetingURL, err)
		// Finalize anyway; whatever was captured before the failure
		// must not be lost.
		b.finalize(rec)
		b.setPhase(PhaseFailed)
		return
	}

	b.startCapture(rec)

	if !b.handle.activate() {
		b.setPhase(PhaseFinishing)
		b.finalize(rec)
		b.setPhase(PhaseDone)
		return
	}
	b.setPhase(PhaseInMeeting)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sched := &speechScheduler{handle: b.handle, mic: mic, toggles: toggles, timings: b.timings}
		sched.run()
	}()
	go func() {
		defer wg.Done()
		mon := &monitor{
			handle:     b.handle,
			detector:   loc,
			status:     rec,
			currentURL: page.CurrentURL,
			interval:   b.timings.MonitorInterval,
		}
		mon.run()
	}()
	wg.Wait()

	b.setPhase(PhaseFinishing)
	b.finalize(rec)
	b.setPhase(PhaseDone)
}

// join walks the pre-join flow: navigate, wait for the pre-join
// screen, set the display name, mute mic and camera, click join, then
// mute both again once inside because the meeting UI occasionally
// resets toggle state on entry.
func (b *bot) join(page browser.Session, loc locator.Locator, toggles *toggle.Controller) error {
	t := b.timings

	if err := page.Navigate(b.handle.MeetingURL, t.NavigateTimeout); err != nil {
		return err
	}
	// Storage can only be wiped from inside the origin, hence after
	// navigation; cookies were cleared before it.
	if _, err := page.Evaluate(`() => { try { localStorage.clear(); sessionStorage.clear(); } catch (e) {} }`); err != nil {
		log.Debugf("storage reset failed | session: %s, error: %v", b.handle.ID, err)
	}
	time.Sleep(t.PostNavigate)

	if err := b.awaitPrejoin(loc); err != nil {
		return err
	}
	time.Sleep(t.PostPrejoin)

	b.fillName(page)

	if err := toggles.Disable(locator.Microphone, t.MicDisableAttempts); err != nil {
		log.Warnf("pre-join mic mute uncertain | session: %s, error: %v", b.handle.ID, err)
	}
	time.Sleep(t.AfterMicDisable)
	if err := toggles.Disable(locator.Camera, t.CameraDisableAttempts); err != nil {
		log.Warnf("pre-join camera off uncertain | session: %s, error: %v", b.handle.ID, err)
	}
	time.Sleep(t.AfterCameraDisable)

	if err := b.enterMeeting(page, loc); err != nil {
		return err
	}
	time.Sleep(t.PostJoin)

	if err := toggles.Disable(locator.Microphone, t.RetoggleAttempts); err != nil {
		log.Warnf("in-meeting mic mute uncertain | session: %s, error: %v", b.handle.ID, err)
	}
	time.Sleep(t.RetoggleGap)
	if err := toggles.Disable(locator.Camera, t.RetoggleAttempts); err != nil {
		log.Warnf("in-meeting camera off uncertain | session: %s, error: %v", b.handle.ID, err)
	}

	return nil
}

func (b *bot) awaitPrejoin(loc locator.Locator) error {
	t := b.timings
	for attempt := 1; attempt <= t.PrejoinAttempts; attempt++ {
		if b.handle.StopRequested() {
			return ErrStopRequested
		}
		visible, err := loc.PrejoinVisible()
		if err != nil {
			log.Debugf("pre-join probe failed | session: %s, error: %v", b.handle.ID, err)
		} else if visible {
			log.Infof("pre-join screen ready | session: %s, attempt: %d", b.handle.ID, attempt)
			return nil
		}
		time.Sleep(t.PrejoinInterval)
	}
	return ErrPrejoinTimeout
}

// fillName is best effort; an anonymous bot still joins fine.
func (b *bot) fillName(page browser.Session) {
	if b.handle.BotName == "" {
		return
	}
	for _, hint := range locator.NameInputHints() {
		if err := page.TypeText(hint, b.handle.BotName); err == nil {
			log.Infof("display name set | session: %s, name: %s", b.handle.ID, b.handle.BotName)
			return
		}
	}
	log.Warnf("no name input found | session: %s", b.handle.ID)
}

func (b *bot) enterMeeting(page browser.Session, loc locator.Locator) error {
	t := b.timings
	clicked := false
	for attempt := 1; attempt <= t.JoinAttempts; attempt++ {
		if b.handle.StopRequested() {
			return ErrStopRequested
		}

		if n, err := loc.DismissPopups(); err == nil && n > 0 {
			log.Debugf("dismissed popups | session: %s, count: %d", b.handle.ID, n)
		}

		if clicked {
			visible, err := loc.PrejoinVisible()
			if err == nil && !visible {
				log.Infof("joined meeting | session: %s, attempt: %d", b.handle.ID, attempt)
				return nil
			}
		}

		if jb, err := loc.FindJoinButton(); err == nil {
			if err = page.ClickAt(jb.Pos.X, jb.Pos.Y); err == nil {
				clicked = true
				log.Infof("join button clicked | session: %s, label: %s", b.handle.ID, jb.Text)
			}
		}

		time.Sleep(t.JoinInterval)
	}

	// A clicked join that never confirms usually means an "Ask to
	// join" meeting where the host has not admitted the bot yet. The
	// click stands; admission is awaited in the meeting itself.
	if clicked {
		log.Infof("join clicked, admission pending | session: %s", b.handle.ID)
		return nil
	}
	return ErrJoinTimeout
}

// startCapture waits for at least one remote audio track before
// starting the recorder, then starts it regardless once the wait
// budget is spent. Late joiners still get mixed in after the fact.
func (b *bot) startCapture(rec *capture.Recorder) {
	t := b.timings
	for attempt := 1; attempt <= t.RecordStartAttempts; attempt++ {
		s, err := rec.Status()
		if err == nil && s.ConnectedTracks > 0 {
			log.Infof("remote audio present | session: %s, tracks: %d", b.handle.ID, s.ConnectedTracks)
			break
		}
		if b.handle.StopRequested() {
			break
		}
		time.Sleep(t.RecordStartInterval)
	}

	ok, err := rec.Start()
	if err != nil {
		log.Errorf("recording start failed | session: %s, error: %v", b.handle.ID, err)
		return
	}
	if !ok {
		log.Warnf("recording not started, no audio stream | session: %s", b.handle.ID)
		return
	}
	b.handle.setRecording(true)
	log.Infof("recording started | session: %s", b.handle.ID)
}

// finalize always runs, whether the meeting ended on its own or a
// stop was requested. Stop without an active recording resolves to
// nil bytes, so there is no state to check first.
func (b *bot) finalize(rec *capture.Recorder) {
	data, err := rec.Stop()
	b.handle.setRecording(false)
	if err != nil {
		log.Errorf("recording finalize failed | session: %s, error: %v", b.handle.ID, err)
		return
	}
	if len(data) == 0 {
		log.Warnf("nothing captured | session: %s", b.handle.ID)
		return
	}
	if _, err = b.sink.save(b.handle.ID, data); err != nil {
		log.Errorf("recording persist failed | session: %s, error: %v", b.handle.ID, err)
	}
}
