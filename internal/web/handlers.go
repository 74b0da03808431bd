package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"CryptoDashboard/internal/dashboard"
	"CryptoDashboard/internal/model"
)

type tokensResponse struct {
	Tokens []dashboard.TokenOption `json:"tokens"`
	Fiats  []string                `json:"fiats"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[ERROR] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrInvalidSelection):
		status = http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNoListings):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	tokens := s.service.Tokens()
	if tokens == nil {
		writeError(w, dashboard.ErrNoListings)
		return
	}
	writeJSON(w, http.StatusOK, tokensResponse{Tokens: tokens, Fiats: s.service.Fiats()})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	q := r.URL.Query()
	sel := model.Selection{
		Token: strings.ToUpper(strings.TrimSpace(q.Get("token"))),
		Fiat:  strings.ToUpper(strings.TrimSpace(q.Get("fiat"))),
	}
	view, err := s.service.View(r.Context(), sel)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	table, err := s.service.Table()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"tokens":     len(s.service.Tokens()),
		"ws_clients": s.hub.Clients(),
	})
}

func (s *Server) handleTableFeed(w http.ResponseWriter, r *http.Request) {
	var initial interface{}
	if table, err := s.service.Table(); err == nil {
		initial = table
	}
	s.hub.ServeWS(w, r, "table", initial)
}
