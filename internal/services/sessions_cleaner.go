package services

import (
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"time"
)

type IdleSessionsRepository interface {
	RemoveIdle(idleSince time.Time) int
}

type SessionsCleaner struct {
	sessions    IdleSessionsRepository
	cron        *cron.Cron
	idleTimeout time.Duration
}

func NewSessionsCleaner(sessions IdleSessionsRepository, idleTimeout time.Duration) (*SessionsCleaner, error) {

	if idleTimeout <= 0 {
		return nil, errors.New("session idle timeout must be greater than zero")
	}

	sc := &SessionsCleaner{
		sessions:    sessions,
		cron:        cron.New(),
		idleTimeout: idleTimeout,
	}

	_, err := sc.cron.AddFunc("@every 10m", sc.cleanIdleSessions)
	if err != nil {
		return nil, err
	}

	sc.cron.Start()
	log.Infof("sessions cleaner started, idle timeout: %v", sc.idleTimeout)
	return sc, nil
}

func (sc *SessionsCleaner) Stop() {
	sc.cron.Stop()
}

func (sc *SessionsCleaner) cleanIdleSessions() {
	removed := sc.sessions.RemoveIdle(time.Now().Add(-sc.idleTimeout))
	log.Infof("idle sessions were cleaned at %v, removed: %d", time.Now(), removed)
}
