package session

// Phase tracks how far through the meeting lifecycle a bot has moved.
// Reported on the status endpoint, otherwise purely informational.
type Phase string

const (
	PhaseStarting  Phase = "starting"
	PhaseJoining   Phase = "joining"
	PhaseInMeeting Phase = "in_meeting"
	PhaseFinishing Phase = "finishing"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)
