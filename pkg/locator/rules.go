package locator

import (
	"regexp"
	"strings"
)

// All label heuristics live in this file so they can be tested against
// snapshots of the foreign UI and changed in one place when it shifts.

// Labels that belong to unrelated controls whose text also mentions
// mic/camera (e.g. "microphone settings"). Matching those clicks the
// wrong thing, so they are excluded before control matching.
var excludedLabels = []string{
	"settings",
	"option",
	"effect",
	"layout",
	"tile",
}

func isExcludedLabel(label string) bool {
	for _, word := range excludedLabels {
		if strings.Contains(label, word) {
			return true
		}
	}
	return false
}

var micWord = regexp.MustCompile(`\bmic\b`)

// controlMatchers maps each control to its label predicate. Labels are
// lowercased before matching.
var controlMatchers = map[Control]func(label string) bool{
	Microphone: func(label string) bool {
		return strings.Contains(label, "microphone") ||
			strings.Contains(label, " mic ") ||
			micWord.MatchString(label)
	},
	Camera: func(label string) bool {
		if strings.Contains(label, "camera") {
			return true
		}
		// "Turn off video" style labels; bare "video" alone matches
		// layout controls too
		return strings.Contains(label, "video") &&
			(strings.Contains(label, "turn off") || strings.Contains(label, "turn on"))
	},
}

// inferState reads the toggle position out of the label. "Turn off X"
// means X is currently on and vice versa; anything else is ambiguous.
func inferState(label string) State {
	switch {
	case strings.Contains(label, "turn off"):
		return StateOn
	case strings.Contains(label, "turn on"), strings.Contains(label, "is off"):
		return StateOff
	default:
		return StateUnknown
	}
}

// joinLabels are the texts of the control that enters the meeting.
var joinLabels = []string{
	"join now",
	"ask to join",
}

// dismissLabels close transient popups that cover the join button.
var dismissLabels = []string{
	"got it",
	"dismiss",
	"close",
	"ok",
	"no thanks",
	"continue without microphone",
	"continue without mic",
}

// dialogConfirmLabels are accepted inside [role=dialog] containers.
var dialogConfirmLabels = []string{
	"continue",
	"got it",
	"use without",
	"ok",
}

// endOfMeetingPhrases in the page body signal the session terminated.
var endOfMeetingPhrases = []string{
	"You left the meeting",
	"The meeting has ended",
	"You've been removed from the meeting",
	"You were removed from this meeting",
	"Return to home screen",
}

// nameInputHints locate the display-name field on the pre-join screen,
// tried in order; later entries are fallbacks for re-rendered layouts.
var nameInputHints = []string{
	`input[placeholder="Your name"]`,
	`input[type="text"]`,
	`input:visible`,
}

// NameInputHints returns locator hints for the pre-join name field.
func NameInputHints() []string {
	out := make([]string, len(nameInputHints))
	copy(out, nameInputHints)
	return out
}
