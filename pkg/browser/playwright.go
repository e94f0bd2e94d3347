package browser

import (
	"errors"
	"os"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/playwright-community/playwright-go"
)

type LaunchConfig struct {
	// ProfileDir is the persistent user data directory. A fresh,
	// never-before-seen browser on every run trips bot detection, so
	// the profile is reused across runs.
	ProfileDir string

	// Channel selects a real browser install (e.g. "chrome"). When the
	// channel is unavailable the bundled Chromium is used instead.
	Channel string

	Headless bool
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/132.0.0.0 Safari/537.36"

func launchArgs() []string {
	return []string{
		// Auto-grant mic/camera permission dialogs
		"--use-fake-ui-for-media-stream",
		// Provide fake devices so a camera feed exists
		"--use-fake-device-for-media-stream",
		"--disable-features=WebRtcHideLocalIpsWithMdns",
		"--no-sandbox",
		"--disable-setuid-sandbox",
		"--disable-blink-features=AutomationControlled",
		"--disable-infobars",
		"--start-maximized",
	}
}

type playwrightSession struct {
	pw      *playwright.Playwright
	context playwright.BrowserContext
	page    playwright.Page
}

var ErrNoPage = errors.New("browser context has no page")

// Launch starts a persistent browser context and returns it behind the
// Session interface. The stealth patches are installed before anything
// else so every page load carries them.
func Launch(cfg LaunchConfig) (Session, error) {
	if cfg.ProfileDir != "" {
		if err := os.MkdirAll(cfg.ProfileDir, 0755); err != nil {
			return nil, err
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, err
	}

	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless:          playwright.Bool(cfg.Headless),
		Args:              launchArgs(),
		Permissions:       []string{"microphone", "camera", "notifications"},
		IgnoreHttpsErrors: playwright.Bool(true),
		UserAgent:         playwright.String(userAgent),
		NoViewport:        playwright.Bool(true),
	}
	if cfg.Channel != "" {
		opts.Channel = playwright.String(cfg.Channel)
	}

	context, err := pw.Chromium.LaunchPersistentContext(cfg.ProfileDir, opts)
	if err != nil && cfg.Channel != "" {
		log.Warnf("browser channel unavailable, falling back to bundled chromium | channel: %s, error: %v", cfg.Channel, err)
		opts.Channel = nil
		context, err = pw.Chromium.LaunchPersistentContext(cfg.ProfileDir, opts)
	}
	if err != nil {
		pw.Stop()
		return nil, err
	}

	var page playwright.Page
	if pages := context.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		page, err = context.NewPage()
		if err != nil {
			context.Close()
			pw.Stop()
			return nil, err
		}
	}
	if page == nil {
		context.Close()
		pw.Stop()
		return nil, ErrNoPage
	}

	s := &playwrightSession{pw: pw, context: context, page: page}
	if err = s.AddInitScript(stealthScript); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *playwrightSession) Navigate(url string, timeout time.Duration) error {
	_, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (s *playwrightSession) Evaluate(script string, args ...interface{}) (interface{}, error) {
	if len(args) > 0 {
		return s.page.Evaluate(script, args[0])
	}
	return s.page.Evaluate(script)
}

func (s *playwrightSession) AddInitScript(script string) error {
	return s.page.AddInitScript(playwright.Script{Content: playwright.String(script)})
}

func (s *playwrightSession) ClickAt(x, y float64) error {
	return s.page.Mouse().Click(x, y)
}

func (s *playwrightSession) TypeText(locatorHint string, text string) error {
	loc := s.page.Locator(locatorHint).First()
	count, err := loc.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoSuchElement
	}
	if err = loc.Click(); err != nil {
		return err
	}
	return loc.Fill(text)
}

var ErrNoSuchElement = errors.New("no element matches locator hint")

func (s *playwrightSession) CurrentURL() string {
	return s.page.URL()
}

func (s *playwrightSession) OnConsoleMessage(handler func(kind string, text string)) {
	s.page.OnConsole(func(msg playwright.ConsoleMessage) {
		handler(msg.Type(), msg.Text())
	})
}

func (s *playwrightSession) ClearCookies() error {
	return s.context.ClearCookies()
}

func (s *playwrightSession) Close() error {
	err := s.context.Close()
	if stopErr := s.pw.Stop(); err == nil {
		err = stopErr
	}
	return err
}
