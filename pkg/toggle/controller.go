package toggle

import (
	"errors"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/personameet/recorder/pkg/locator"
)

// Clicker issues trusted pointer clicks. Satisfied by browser.Session.
type Clicker interface {
	ClickAt(x, y float64) error
}

var ErrAttemptsExhausted = errors.New("toggle attempts exhausted")

// Controller drives a toggle control toward a target state with
// bounded fixed-delay retries. Exhaustion is reported, never fatal:
// the caller decides whether a possibly-wrong toggle aborts anything.
type Controller struct {
	loc     locator.Locator
	clicker Clicker

	// Backoff between attempts; fixed, not exponential.
	Backoff time.Duration

	// ClickSettle is the pause after an unverified click.
	ClickSettle time.Duration

	// VerifySettle is the pause before re-querying a verified click.
	VerifySettle time.Duration
}

func NewController(loc locator.Locator, clicker Clicker) *Controller {
	return &Controller{
		loc:          loc,
		clicker:      clicker,
		Backoff:      1500 * time.Millisecond,
		ClickSettle:  400 * time.Millisecond,
		VerifySettle: 1500 * time.Millisecond,
	}
}

// Disable turns the control off. The click is trusted without
// re-querying; see reach.
func (c *Controller) Disable(control locator.Control, maxAttempts int) error {
	return c.reach(control, locator.StateOff, maxAttempts, false)
}

// Enable turns the control on and re-queries until the new state is
// confirmed.
func (c *Controller) Enable(control locator.Control, maxAttempts int) error {
	return c.reach(control, locator.StateOn, maxAttempts, true)
}

// reach is the single toggle routine; enable and disable differ only
// in the verify flag. Disable trusts the click on purpose: a mic stuck
// ON is the costly failure mode, so only the enable path pays for
// confirmation. Keep the asymmetry here, in one place.
func (c *Controller) reach(control locator.Control, target locator.State, maxAttempts int, verify bool) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cs, err := c.loc.Locate(control)
		if err != nil {
			log.Debugf("control not found | control: %s, attempt: %d/%d", control, attempt, maxAttempts)
			c.wait(attempt, maxAttempts)
			continue
		}

		if cs.State == target {
			log.Debugf("control already %s | control: %s", target, control)
			return nil
		}

		if cs.State == locator.StateUnknown {
			log.Debugf("control state unclear | control: %s, attempt: %d/%d", control, attempt, maxAttempts)
			c.wait(attempt, maxAttempts)
			continue
		}

		// Opposite state: click it
		if err = c.clicker.ClickAt(cs.Pos.X, cs.Pos.Y); err != nil {
			log.Warnf("toggle click failed | control: %s, error: %v", control, err)
			c.wait(attempt, maxAttempts)
			continue
		}

		if !verify {
			time.Sleep(c.ClickSettle)
			log.Infof("control toggled %s | control: %s", target, control)
			return nil
		}

		time.Sleep(c.VerifySettle)
		again, err := c.loc.Locate(control)
		if err == nil && again.State == target {
			log.Infof("control toggled %s (verified) | control: %s", target, control)
			return nil
		}
		log.Debugf("toggle not confirmed, retrying | control: %s, attempt: %d/%d", control, attempt, maxAttempts)
	}

	log.Warnf("could not reach target state | control: %s, target: %s, attempts: %d", control, target, maxAttempts)
	return ErrAttemptsExhausted
}

func (c *Controller) wait(attempt, maxAttempts int) {
	if attempt < maxAttempts {
		time.Sleep(c.Backoff)
	}
}
