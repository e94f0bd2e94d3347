package session

import (
	"errors"
	"sync"

	"github.com/labstack/gommon/log"

	"github.com/personameet/recorder/pkg/upload"
)

var (
	ErrSessionExists   = errors.New("a session for this meeting is already running")
	ErrSessionNotFound = errors.New("no session for this meeting")
)

// Status is the externally visible snapshot of one session.
type Status struct {
	ID         string `json:"id"`
	MeetingURL string `json:"meetingUrl"`
	Phase      Phase  `json:"phase"`
	Active     bool   `json:"active"`
	Recording  bool   `json:"recording"`
}

// Service manages at most one bot per meeting URL.
type Service interface {
	// StartSession launches a bot for the meeting. The URL may be a
	// full link or a bare meeting code. At most one session per
	// meeting; a second start returns ErrSessionExists.
	StartSession(meetingURL string, botName string) (Status, error)

	// StopSession asks the meeting's bot to wind down. The bot still
	// finalizes and persists whatever it captured.
	StopSession(meetingURL string) error

	SessionStatus(meetingURL string) (Status, error)
}

type service struct {
	mutex sync.Mutex
	cfg   Config
	sink  *artifactSink
	bots  map[string]Bot

	// newBot is swappable for tests
	newBot func(meetingURL string, cfg Config, sink *artifactSink) Bot
}

func NewService(cfg Config, uploader upload.Uploader) Service {
	if cfg.Timings.MonitorInterval == 0 {
		cfg.Timings = DefaultTimings()
	}
	return &service{
		cfg:    cfg,
		sink:   &artifactSink{dir: cfg.RecordingsDir, uploader: uploader},
		bots:   make(map[string]Bot),
		newBot: NewBot,
	}
}

func (s *service) StartSession(meetingURL string, botName string) (Status, error) {
	normalized, err := NormalizeMeetingURL(meetingURL)
	if err != nil {
		return Status{}, err
	}

	cfg := s.cfg
	if botName != "" {
		cfg.BotName = botName
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.bots[normalized]; exists {
		return Status{}, ErrSessionExists
	}

	bot := s.newBot(normalized, cfg, s.sink)
	s.bots[normalized] = bot

	go func() {
		bot.Run()
		s.mutex.Lock()
		delete(s.bots, normalized)
		s.mutex.Unlock()
		log.Infof("session finished | session: %s, url: %s", bot.Handle().ID, normalized)
	}()

	log.Infof("session started | session: %s, url: %s, name: %s", bot.Handle().ID, normalized, cfg.BotName)
	return statusOf(bot), nil
}

func (s *service) StopSession(meetingURL string) error {
	normalized, err := NormalizeMeetingURL(meetingURL)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	bot, exists := s.bots[normalized]
	s.mutex.Unlock()

	if !exists {
		return ErrSessionNotFound
	}
	bot.Stop()
	return nil
}

func (s *service) SessionStatus(meetingURL string) (Status, error) {
	normalized, err := NormalizeMeetingURL(meetingURL)
	if err != nil {
		return Status{}, err
	}

	s.mutex.Lock()
	bot, exists := s.bots[normalized]
	s.mutex.Unlock()

	if !exists {
		return Status{}, ErrSessionNotFound
	}
	return statusOf(bot), nil
}

func statusOf(bot Bot) Status {
	h := bot.Handle()
	return Status{
		ID:         h.ID,
		MeetingURL: h.MeetingURL,
		Phase:      bot.Phase(),
		Active:     h.Active(),
		Recording:  h.Recording(),
	}
}
