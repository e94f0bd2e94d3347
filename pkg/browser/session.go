package browser

import "time"

// Session is the capability surface the bot needs from a controlled
// browser. The underlying process is owned by the implementation;
// callers never touch it directly.
type Session interface {
	// Navigate loads the given URL and waits for the DOM to be ready.
	Navigate(url string, timeout time.Duration) error

	// Evaluate runs a script in page context and returns the decoded
	// result. At most one argument is forwarded to the script.
	Evaluate(script string, args ...interface{}) (interface{}, error)

	// AddInitScript installs a script that runs in every page before
	// any of the page's own scripts. Must be called before Navigate.
	AddInitScript(script string) error

	// ClickAt issues a trusted pointer click at viewport coordinates.
	ClickAt(x, y float64) error

	// TypeText fills the first element matching the locator hint.
	TypeText(locatorHint string, text string) error

	CurrentURL() string

	// OnConsoleMessage forwards page console output to the handler.
	OnConsoleMessage(handler func(kind string, text string))

	// ClearCookies wipes cookies from the browsing context.
	ClearCookies() error

	Close() error
}
