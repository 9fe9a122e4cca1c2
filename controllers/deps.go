package controllers

import (
	"sync"

	"backend/services"
)

// Handler dependencies, wired once at startup.
type Deps struct {
	Extractor services.Extractor
	Grading   *services.GradingService
	Insights  services.InsightProvider
	Hub       *services.RealtimeHub
}

var deps Deps

// Live comparison sessions. One logical owner per session; the registry just
// hands sessions back to their callers.
var (
	sessionsMu sync.RWMutex
	sessions   = map[string]*services.ComparisonSession{}
)

func Init(d Deps) { deps = d }

func putSession(s *services.ComparisonSession) {
	sessionsMu.Lock()
	sessions[s.ID()] = s
	sessionsMu.Unlock()
}

func getSession(id string) (*services.ComparisonSession, bool) {
	sessionsMu.RLock()
	s, ok := sessions[id]
	sessionsMu.RUnlock()
	return s, ok
}

func dropSession(id string) {
	sessionsMu.Lock()
	delete(sessions, id)
	sessionsMu.Unlock()
}
