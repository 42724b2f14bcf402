// ABOUTME: JSON dashboard server over the pipeline store
// ABOUTME: Serves metrics, deals, and mutation endpoints at localhost
package web

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/leduardoseverino/performancy/models"
	"github.com/leduardoseverino/performancy/store"
)

type Server struct {
	store *store.Store
	mux   *http.ServeMux
}

func NewServer(st *store.Store) *Server {
	s := &Server{store: st, mux: http.NewServeMux()}

	s.mux.HandleFunc("/api/metrics", s.handleMetrics)
	s.mux.HandleFunc("/api/deals", s.handleDeals)
	s.mux.HandleFunc("/api/deals/move", s.handleMoveDeal)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)

	return s
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Printf("Starting dashboard server at http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Metrics())
}

func (s *Server) handleDeals(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		stage := r.URL.Query().Get("stage")
		if stage != "" && !models.ValidStage(models.DealStage(stage)) {
			http.Error(w, fmt.Sprintf("invalid stage: %s", stage), http.StatusBadRequest)
			return
		}

		deals := s.store.Deals()
		if stage != "" {
			filtered := deals[:0]
			for _, d := range deals {
				if d.Stage == models.DealStage(stage) {
					filtered = append(filtered, d)
				}
			}
			deals = filtered
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"deals":   deals,
			"count":   len(deals),
			"loading": s.store.IsLoading(),
		})

	case http.MethodPost:
		var patch models.DealPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
			return
		}
		if patch.Name == nil || *patch.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if patch.Value != nil && *patch.Value < 0 {
			http.Error(w, "value must be non-negative", http.StatusBadRequest)
			return
		}
		if patch.Stage != nil && !models.ValidStage(*patch.Stage) {
			http.Error(w, fmt.Sprintf("invalid stage: %s", *patch.Stage), http.StatusBadRequest)
			return
		}

		deal := s.store.CreateDeal(patch)
		writeJSON(w, http.StatusCreated, deal)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleMoveDeal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		DealID string           `json:"deal_id"`
		Stage  models.DealStage `json:"stage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid body: %v", err), http.StatusBadRequest)
		return
	}
	if !models.ValidStage(req.Stage) {
		http.Error(w, fmt.Sprintf("invalid stage: %s", req.Stage), http.StatusBadRequest)
		return
	}
	if _, ok := s.store.Deal(req.DealID); !ok {
		http.Error(w, fmt.Sprintf("deal not found: %s", req.DealID), http.StatusNotFound)
		return
	}

	// Optimistic: the local move is visible immediately; the remote sync, if
	// connected, runs in the background.
	s.store.MoveDealToStage(req.DealID, req.Stage)

	deal, _ := s.store.Deal(req.DealID)
	writeJSON(w, http.StatusOK, deal)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.store.FetchDeals(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"connected": s.store.Connected(),
		"count":     len(s.store.Deals()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
