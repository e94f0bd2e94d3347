package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/personameet/recorder/pkg/upload"
)

// RecordingsDir is where artifacts land before any upload.
const RecordingsDir = "recordings"

// artifactSink writes finished recordings to disk and, when an
// uploader is configured, ships them to remote storage afterwards.
type artifactSink struct {
	dir      string
	uploader upload.Uploader
}

// The session ID keeps names unique when two sessions finalize within
// the same second.
func artifactFilename(sessionID string, t time.Time) string {
	return fmt.Sprintf("meeting-recording-%s-%s.webm", t.Format("2006-01-02T15-04-05"), sessionID)
}

// save persists the artifact locally and returns its path. The remote
// upload runs in the background; a local copy always lands first so a
// flaky network can never lose the recording.
func (s *artifactSink) save(sessionID string, data []byte) (string, error) {
	name := artifactFilename(sessionID, time.Now())
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing recording: %w", err)
	}
	log.Infof("recording saved | session: %s, path: %s, bytes: %d", sessionID, path, len(data))

	if s.uploader != nil {
		go s.upload(sessionID, path, name)
	}
	return path, nil
}

func (s *artifactSink) upload(sessionID, path, key string) {
	file, err := os.Open(path)
	if err != nil {
		log.Errorf("cannot open recording for upload | session: %s, error: %v", sessionID, err)
		return
	}
	defer file.Close()

	if err = s.uploader.Upload(context.Background(), key, file); err != nil {
		log.Errorf("recording upload failed | session: %s, error: %v", sessionID, err)
		return
	}
	log.Infof("recording uploaded | session: %s, key: %s/%s", sessionID, s.uploader.GetDirectory(), key)

	if err = os.Remove(path); err != nil {
		log.Warnf("cannot remove local recording | session: %s, error: %v", sessionID, err)
	}
}
