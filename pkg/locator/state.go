package locator

// Control names a toggleable capability on the conference UI.
type Control string

const (
	Microphone Control = "microphone"
	Camera     Control = "camera"
)

// State is the inferred position of a toggle control. The foreign UI
// only exposes it through label text, so UNKNOWN is a normal answer
// and callers must retry rather than assume.
type State string

const (
	StateOn      State = "on"
	StateOff     State = "off"
	StateUnknown State = "unknown"
)

type Point struct {
	X float64
	Y float64
}

// ControlState is produced fresh on every query and never cached: the
// foreign DOM re-renders at will and stale coordinates click nothing.
type ControlState struct {
	State State
	Pos   Point
}

// JoinButton is the located join control with its visible text.
type JoinButton struct {
	Text string
	Pos  Point
}
