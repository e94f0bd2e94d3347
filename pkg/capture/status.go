package capture

type Status struct {
	Recording       bool
	Chunks          int
	TotalBytes      int
	ConnectedTracks int
}

// parseStatus coerces the decoded evaluate result. Numbers come back
// as float64 or int depending on the driver; missing keys zero out.
func parseStatus(v interface{}) Status {
	m, ok := v.(map[string]interface{})
	if !ok {
		return Status{}
	}
	s := Status{}
	s.Recording, _ = m["isRecording"].(bool)
	s.Chunks = asInt(m["chunks"])
	s.TotalBytes = asInt(m["totalBytes"])
	s.ConnectedTracks = asInt(m["connectedTracks"])
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}
