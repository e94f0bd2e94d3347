package locator

import "errors"

// Evaluator runs scripts in page context. Satisfied by browser.Session.
type Evaluator interface {
	Evaluate(script string, args ...interface{}) (interface{}, error)
}

var ErrNotFound = errors.New("control not found")

// Locator finds interactive controls inside a foreign, frequently
// re-rendering DOM. Results are positions plus inferred state, never
// element handles; the DOM may have re-rendered by the next query.
type Locator interface {
	// Locate returns the current state and position of a toggle
	// control, or ErrNotFound when nothing matches this poll.
	Locate(control Control) (ControlState, error)

	// FindJoinButton returns the control that enters the meeting, or
	// ErrNotFound.
	FindJoinButton() (JoinButton, error)

	// DismissPopups clicks away known dismissible dialogs. Best
	// effort; returns how many were clicked.
	DismissPopups() (int, error)

	// PrejoinVisible reports whether the pre-join screen is showing.
	PrejoinVisible() (bool, error)

	// MeetingOver reports whether the page shows end-of-session text.
	MeetingOver() (bool, error)
}

type pageLocator struct {
	page Evaluator
}

func New(page Evaluator) Locator {
	return &pageLocator{page: page}
}

func (l *pageLocator) Locate(control Control) (ControlState, error) {
	match, ok := controlMatchers[control]
	if !ok {
		return ControlState{}, ErrNotFound
	}

	res, err := l.page.Evaluate(candidatesScript)
	if err != nil {
		return ControlState{}, err
	}

	for _, c := range decodeCandidates(res) {
		if isExcludedLabel(c.label) {
			continue
		}
		if !match(c.label) {
			continue
		}
		return ControlState{
			State: inferState(c.label),
			Pos:   Point{X: c.x, Y: c.y},
		}, nil
	}
	return ControlState{}, ErrNotFound
}

func (l *pageLocator) FindJoinButton() (JoinButton, error) {
	res, err := l.page.Evaluate(findJoinScript, joinLabels)
	if err != nil {
		return JoinButton{}, err
	}
	m, ok := res.(map[string]interface{})
	if !ok {
		return JoinButton{}, ErrNotFound
	}
	text, _ := m["text"].(string)
	return JoinButton{
		Text: text,
		Pos:  Point{X: asFloat(m["x"]), Y: asFloat(m["y"])},
	}, nil
}

func (l *pageLocator) DismissPopups() (int, error) {
	res, err := l.page.Evaluate(dismissPopupsScript, map[string]interface{}{
		"dismiss": dismissLabels,
		"confirm": dialogConfirmLabels,
	})
	if err != nil {
		return 0, err
	}
	return int(asFloat(res)), nil
}

func (l *pageLocator) PrejoinVisible() (bool, error) {
	res, err := l.page.Evaluate(prejoinScript, joinLabels)
	if err != nil {
		return false, err
	}
	visible, _ := res.(bool)
	return visible, nil
}

func (l *pageLocator) MeetingOver() (bool, error) {
	res, err := l.page.Evaluate(meetingOverScript, endOfMeetingPhrases)
	if err != nil {
		return false, err
	}
	over, _ := res.(bool)
	return over, nil
}

type candidate struct {
	label string
	x, y  float64
}

func decodeCandidates(v interface{}) []candidate {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]candidate, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		label, _ := m["label"].(string)
		if label == "" {
			continue
		}
		out = append(out, candidate{
			label: label,
			x:     asFloat(m["x"]),
			y:     asFloat(m["y"]),
		})
	}
	return out
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
