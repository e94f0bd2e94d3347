package capture

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/labstack/gommon/log"
	"go.uber.org/atomic"
)

// Evaluator runs scripts in page context. Satisfied by browser.Session.
type Evaluator interface {
	Evaluate(script string, args ...interface{}) (interface{}, error)
}

var ErrBadDataURL = errors.New("malformed data URL")

// Recorder controls the in-page mixer and MediaRecorder. One recorder
// per session; Start after Start is a no-op and Stop without Start
// resolves to nil bytes, so callers can finalize unconditionally.
type Recorder struct {
	page      Evaluator
	recording *atomic.Bool
}

func NewRecorder(page Evaluator) *Recorder {
	return &Recorder{page: page, recording: atomic.NewBool(false)}
}

// InitScript returns the page script that installs the mixer and
// recorder. It must be installed before the first navigation.
func (r *Recorder) InitScript() string {
	return initScript
}

func (r *Recorder) Recording() bool {
	return r.recording.Load()
}

// Start begins chunked capture of the mixed stream. Returns false only
// when the capture stream has no audio tracks at all; already
// recording returns true.
func (r *Recorder) Start() (bool, error) {
	res, err := r.page.Evaluate(`() => window.__capture ? window.__capture.startRecording() : false`)
	if err != nil {
		return false, err
	}
	ok, _ := res.(bool)
	if ok {
		r.recording.Store(true)
	}
	return ok, nil
}

// Stop finalizes the recording and returns the encoded artifact. Nil
// bytes mean nothing was captured: zero chunks, zero total bytes, or
// no recording in progress. That is a valid outcome, not an error.
func (r *Recorder) Stop() ([]byte, error) {
	res, err := r.page.Evaluate(`async () => await window.__capture.stopRecording()`)
	r.recording.Store(false)
	if err != nil {
		return nil, err
	}
	dataURL, ok := res.(string)
	if !ok || dataURL == "" {
		return nil, nil
	}
	data, err := decodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	log.Debugf("recording finalized | bytes: %d", len(data))
	return data, nil
}

// Status reports in-page recorder state, used for periodic monitoring.
func (r *Recorder) Status() (Status, error) {
	res, err := r.page.Evaluate(`() => window.__capture.status()`)
	if err != nil {
		return Status{}, err
	}
	return parseStatus(res), nil
}

func decodeDataURL(s string) ([]byte, error) {
	idx := strings.IndexByte(s, ',')
	if !strings.HasPrefix(s, "data:") || idx < 0 {
		return nil, ErrBadDataURL
	}
	return base64.StdEncoding.DecodeString(s[idx+1:])
}
