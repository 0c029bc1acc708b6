package services

import (
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"time"
)

// ConfirmationToken identifies a pending unsave that waits for the user's answer.
type ConfirmationToken string

// pendingRemovals keeps job ids waiting for confirmation. Entries expire on
// their own so an unanswered prompt never removes anything.
type pendingRemovals struct {
	cache *gocache.Cache
}

func newPendingRemovals(ttl time.Duration) *pendingRemovals {
	return &pendingRemovals{
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (p *pendingRemovals) add(jobID string) ConfirmationToken {
	token := ConfirmationToken(uuid.NewString())
	if err := p.cache.Add(string(token), jobID, gocache.DefaultExpiration); err != nil {
		log.Errorf("failed to add pending removal to cache: %v", err)
	}
	return token
}

// take returns the job id and forgets the token, so each token is usable once.
func (p *pendingRemovals) take(token ConfirmationToken) (string, bool) {
	cached, found := p.cache.Get(string(token))
	if !found {
		return "", false
	}
	p.cache.Delete(string(token))
	return cached.(string), true
}

func (p *pendingRemovals) drop(token ConfirmationToken) {
	p.cache.Delete(string(token))
}
