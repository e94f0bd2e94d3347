package virtualmic

import (
	"github.com/labstack/gommon/log"
	"go.uber.org/atomic"
)

// Evaluator runs scripts in page context. Satisfied by browser.Session.
type Evaluator interface {
	Evaluate(script string, args ...interface{}) (interface{}, error)
}

// Device drives the in-page virtual microphone. The page-side graph is
// installed via InitScript before navigation; everything after that is
// evaluate calls against window.__vmic.
type Device struct {
	page     Evaluator
	clip     *Clip
	speaking *atomic.Bool
}

// NewDevice wires a device to a page. A nil clip is allowed: the
// device still fabricates the microphone, it just has nothing to say.
func NewDevice(page Evaluator, clip *Clip) *Device {
	return &Device{page: page, clip: clip, speaking: atomic.NewBool(false)}
}

// InitScript returns the page script that fabricates the device. It
// must be installed before the first navigation.
func (d *Device) InitScript() string {
	return initScript
}

func (d *Device) HasClip() bool {
	return d.clip != nil
}

// Resume builds the audio graph if needed and resumes the context.
// Safe to call repeatedly; the graph is created at most once in-page.
func (d *Device) Resume() error {
	tracks, err := d.page.Evaluate(`async () => window.__vmic ? await window.__vmic.ensureStream() : 0`)
	if err != nil {
		return err
	}
	log.Debugf("virtual mic resumed | tracks: %v", tracks)
	return nil
}

// Speak plays the clip through the virtual microphone and blocks until
// playback completes in-page. Returns false when there is no clip,
// when playback fails to start, or when a previous Speak is still in
// flight; concurrent calls never overlap playback.
func (d *Device) Speak() (bool, error) {
	if d.clip == nil {
		return false, nil
	}
	if !d.speaking.CompareAndSwap(false, true) {
		log.Warnf("speak rejected | reason: already speaking")
		return false, nil
	}
	defer d.speaking.Store(false)

	// The data URL is handed over first so the play call itself stays
	// small enough to log.
	if _, err := d.page.Evaluate(`(url) => { window.__vmicClipURL = url; }`, d.clip.DataURL()); err != nil {
		return false, err
	}
	res, err := d.page.Evaluate(`async () => {
		try {
			const url = window.__vmicClipURL;
			if (!url) throw new Error('clip URL not injected');
			return await window.__vmic.playClip(url);
		} catch (err) {
			console.error('[vmic] play failed:', err);
			return false;
		}
	}`)
	if err != nil {
		return false, err
	}
	ok, _ := res.(bool)
	return ok, nil
}
