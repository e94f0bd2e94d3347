package session

import "time"

// Timings collects every delay and attempt budget of the join and
// in-meeting flow. The defaults are tuned against Google Meet's page
// behavior; tests shrink them to milliseconds.
type Timings struct {
	NavigateTimeout time.Duration
	PostNavigate    time.Duration

	PrejoinAttempts int
	PrejoinInterval time.Duration
	PostPrejoin     time.Duration

	MicDisableAttempts    int
	CameraDisableAttempts int
	AfterMicDisable       time.Duration
	AfterCameraDisable    time.Duration

	JoinAttempts int
	JoinInterval time.Duration
	PostJoin     time.Duration

	RetoggleAttempts int
	RetoggleGap      time.Duration

	RecordStartAttempts int
	RecordStartInterval time.Duration

	SpeechDelay  time.Duration
	SpeechSettle time.Duration
	SpeechTail   time.Duration
	SpeechMicOn  int
	SpeechMicOff int

	MonitorInterval time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		NavigateTimeout: 60 * time.Second,
		PostNavigate:    4 * time.Second,

		PrejoinAttempts: 80,
		PrejoinInterval: 500 * time.Millisecond,
		PostPrejoin:     5 * time.Second,

		MicDisableAttempts:    8,
		CameraDisableAttempts: 8,
		AfterMicDisable:       time.Second,
		AfterCameraDisable:    2 * time.Second,

		JoinAttempts: 40,
		JoinInterval: time.Second,
		PostJoin:     10 * time.Second,

		RetoggleAttempts: 5,
		RetoggleGap:      500 * time.Millisecond,

		RecordStartAttempts: 30,
		RecordStartInterval: time.Second,

		SpeechDelay:  10 * time.Second,
		SpeechSettle: 2 * time.Second,
		SpeechTail:   time.Second,
		SpeechMicOn:  5,
		SpeechMicOff: 5,

		MonitorInterval: 3 * time.Second,
	}
}
