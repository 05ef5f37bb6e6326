package whatsapp

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	seenTTL     = 24 * time.Hour
	seenCleanup = time.Hour
)

// recentMessages remembers inbound message ids for a day.
type recentMessages struct {
	ids *cache.Cache
}

func newRecentMessages() *recentMessages {
	return &recentMessages{ids: cache.New(seenTTL, seenCleanup)}
}

// markNew records id and reports whether it was not seen before. Messages
// without an id are always treated as new.
func (r *recentMessages) markNew(id string) bool {
	if id == "" {
		return true
	}
	// Add fails when the key is already present and unexpired.
	return r.ids.Add(id, struct{}{}, cache.DefaultExpiration) == nil
}
