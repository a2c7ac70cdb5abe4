package main

import (
	"fmt"
	"sync"
	"time"

	"torus-survival/internal/logger"
)

const maxSessions = 100

// SessionIdleTimeout is how long an empty session lives before cleanup
var SessionIdleTimeout = 30 * time.Second

// Session represents a game session that players can join
type Session struct {
	ID         string
	Name       string
	Game       *Game
	lastActive time.Time
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	db        *DB
	analytics *Analytics
	regions   func(name string) (*Region, error)
}

// NewSessionManager creates a new SessionManager. db and analytics may be
// nil; regions then come from GenerateRegion.
func NewSessionManager(db *DB, analytics *Analytics, cfg Config) *SessionManager {
	sm := &SessionManager{
		sessions:  make(map[string]*Session),
		db:        db,
		analytics: analytics,
	}
	var cacheMu sync.Mutex
	cache := make(map[string]*Region)
	sm.regions = func(name string) (*Region, error) {
		if name == "" {
			name = cfg.Region
		}
		cacheMu.Lock()
		defer cacheMu.Unlock()
		if r, ok := cache[name]; ok {
			return r, nil
		}
		r, err := LoadOrCreateRegion(db, name, cfg.Seed, cfg.WorldSize)
		if err != nil {
			return nil, err
		}
		cache[name] = r
		return r, nil
	}
	return sm
}

// CreateSession creates a new game session on the named region (empty for
// the configured default). Returns nil if the limit is reached or the
// region cannot be loaded.
func (sm *SessionManager) CreateSession(name, region string) *Session {
	r, err := sm.regions(region)
	if err != nil {
		logger.Log.WithError(err).WithField("region", region).Error("region unavailable")
		return nil
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil
	}

	id := GenerateUUID()
	game := NewGame(id, r, sm.analytics)
	sess := &Session{
		ID:         id,
		Name:       name,
		Game:       game,
		lastActive: time.Now(),
	}
	sm.sessions[id] = sess
	go game.Run()
	sm.analytics.Track(EvtSessionStart, 0, id, "")
	logger.Session(id).WithField("region", r.Name).Info("session created")

	// A session nobody joins is cleaned up like an abandoned one
	time.AfterFunc(SessionIdleTimeout, func() { sm.reapIfIdle(id) })
	return sess
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive records activity on a session, postponing idle cleanup
func (sm *SessionManager) MarkActive(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sess, ok := sm.sessions[id]; ok {
		sess.lastActive = time.Now()
	}
}

// RemovePlayer removes a player from a session, stores the run for signed
// in players, and schedules cleanup when the session empties
func (sm *SessionManager) RemovePlayer(sessionID, playerID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	run := sess.Game.RemovePlayer(playerID)
	if run != nil {
		sm.storeRun(run)
	}

	if sess.Game.PlayerCount() == 0 {
		sm.MarkActive(sessionID)
		time.AfterFunc(SessionIdleTimeout, func() { sm.reapIfIdle(sessionID) })
	}
}

func (sm *SessionManager) storeRun(run *RunRow) {
	data := fmt.Sprintf(`{"wave":%d,"kills":%d}`, run.WaveReached, run.Kills)
	sm.analytics.Track(EvtRunEnd, run.PlayerID, run.SessionID, data)
	if sm.db == nil || run.PlayerID == 0 {
		return
	}
	if _, err := sm.db.RecordRun(*run); err != nil {
		logger.Session(run.SessionID).WithError(err).Error("record run")
	}
}

// reapIfIdle stops and removes a session that is empty and has been idle
// for the full timeout
func (sm *SessionManager) reapIfIdle(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	if !ok || sess.Game.PlayerCount() > 0 || time.Since(sess.lastActive) < SessionIdleTimeout {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, id)
	sm.mu.Unlock()

	sess.Game.Stop()
	sm.analytics.Track(EvtSessionEnd, 0, id, "")
	logger.Session(id).Info("session closed")
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:      sess.ID,
			Name:    sess.Name,
			Region:  sess.Game.Region().Name,
			Players: sess.Game.PlayerCount(),
			Wave:    sess.Game.Wave(),
		})
	}
	return list
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}
