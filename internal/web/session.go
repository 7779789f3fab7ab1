package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tomlord1122/task-tracker/internal/store"
)

const (
	sessionCookieName = "task_session"
	sessionTTL        = 24 * time.Hour
)

type session struct {
	store    *store.Store
	lastSeen time.Time
}

// sessions gives every browser its own store. All stores share one API client.
type sessions struct {
	api store.API
	now func() time.Time

	mu   sync.Mutex
	byID map[string]*session
}

func newSessions(api store.API) *sessions {
	return &sessions{
		api:  api,
		now:  time.Now,
		byID: make(map[string]*session),
	}
}

// storeFor returns the store of the request's session, starting a new session
// and setting its cookie when the request carries none or an expired one.
func (ss *sessions) storeFor(w http.ResponseWriter, r *http.Request) *store.Store {
	now := ss.now()

	ss.mu.Lock()
	defer ss.mu.Unlock()

	if c, err := r.Cookie(sessionCookieName); err == nil {
		if sess, ok := ss.byID[c.Value]; ok && now.Sub(sess.lastSeen) < sessionTTL {
			sess.lastSeen = now
			return sess.store
		}
	}

	ss.pruneLocked(now)

	id := uuid.NewString()
	sess := &session{store: store.New(ss.api), lastSeen: now}
	ss.byID[id] = sess

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess.store
}

func (ss *sessions) pruneLocked(now time.Time) {
	for id, sess := range ss.byID {
		if now.Sub(sess.lastSeen) >= sessionTTL {
			delete(ss.byID, id)
		}
	}
}

func (ss *sessions) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.byID)
}
