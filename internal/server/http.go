package server

import (
	"encoding/json"
	"net/http"
)

// Health is the /healthz payload.
type Health struct {
	Status         string `json:"status"`
	Frame          uint64 `json:"frame"`
	Scene          string `json:"scene"`
	Depth          int    `json:"depth"`
	WorldPaused    bool   `json:"world_paused"`
	EntitiesPaused bool   `json:"entities_paused"`
	Entities       int    `json:"entities"`
	Clients        int    `json:"clients"`
}

// Health returns the state recorded from the last completed frame.
func (s *Inspector) Health() Health {
	s.latestMu.RLock()
	h := s.status
	s.latestMu.RUnlock()
	h.Clients = s.ClientCount()
	return h
}

func (s *Inspector) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.Health())
}

func (s *Inspector) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.latestMu.RLock()
	data := s.latest
	s.latestMu.RUnlock()
	if data == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}
