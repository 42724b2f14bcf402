// ABOUTME: Pipeline store holding the deal collection and derived metrics
// ABOUTME: Coordinates optimistic local mutation with best-effort remote sync
package store

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leduardoseverino/performancy/metrics"
	"github.com/leduardoseverino/performancy/models"
	"github.com/leduardoseverino/performancy/zoho"
)

// RemoteCRM is the adapter surface the store depends on. *zoho.Client
// satisfies it; tests inject fakes.
type RemoteCRM interface {
	Initialize(cfg models.ZohoConfig)
	IsInitialized() bool
	GetDeals(ctx context.Context) ([]models.Deal, bool, error)
	CreateDeal(ctx context.Context, patch models.DealPatch) (*models.Deal, error)
	UpdateDeal(ctx context.Context, dealID string, patch models.DealPatch) (*models.Deal, error)
	UpdateDealStage(ctx context.Context, dealID string, stage models.DealStage) (*models.Deal, error)
}

// Sync outcomes recorded in the journal.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// SyncRecord describes one remote sync attempt and its outcome.
type SyncRecord struct {
	DealID    string
	Operation string
	Stage     string
	Outcome   string
	Detail    string
}

// SyncRecorder receives a record after every remote sync attempt. Purely
// observational: nothing reads records back into the collection.
type SyncRecorder interface {
	RecordSync(SyncRecord)
}

// Store is the single source of truth for the deal collection and its
// metrics snapshot. Construct one per process with New; there is no hidden
// singleton. The mutex guards local state only and is never held across a
// network call, so a stale fetch completing late can still overwrite newer
// local edits (last-write-wins at collection granularity).
type Store struct {
	mu      sync.Mutex
	crm     RemoteCRM
	journal SyncRecorder

	deals     []models.Deal
	snapshot  models.PipelineMetrics
	cfg       *models.ZohoConfig
	connected bool
	loading   bool

	remote sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithJournal attaches a sync recorder.
func WithJournal(j SyncRecorder) Option {
	return func(s *Store) { s.journal = j }
}

// New creates a store around the given adapter.
func New(crm RemoteCRM, opts ...Option) *Store {
	s := &Store{crm: crm}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot = metrics.Calculate(nil)
	return s
}

// Connect stores the CRM config, initializes the adapter, and marks the
// store connected. Safe to call again with new credentials.
func (s *Store) Connect(cfg models.ZohoConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfgCopy := cfg
	s.cfg = &cfgCopy
	s.crm.Initialize(cfg)
	s.connected = true
}

// Disconnect drops the CRM connection. Local data stays.
func (s *Store) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = nil
	s.connected = false
}

// Connected reports whether a CRM connection is configured.
func (s *Store) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// ZohoConfig returns the stored CRM config, if any.
func (s *Store) ZohoConfig() (models.ZohoConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg == nil {
		return models.ZohoConfig{}, false
	}
	return *s.cfg, true
}

// IsLoading reports whether a remote fetch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetDeals replaces the whole collection and recomputes metrics before
// returning.
func (s *Store) SetDeals(deals []models.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = make([]models.Deal, len(deals))
	copy(s.deals, deals)
	s.updateMetricsLocked()
}

// AddDeal appends a deal and recomputes metrics.
func (s *Store) AddDeal(deal models.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = append(s.deals, deal)
	s.updateMetricsLocked()
}

// UpdateDeal merges the patch into the matching deal and recomputes metrics.
// A missing id is a silent no-op, not an error.
func (s *Store) UpdateDeal(dealID string, patch models.DealPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID == dealID {
			patch.Apply(&s.deals[i])
			s.updateMetricsLocked()
			return
		}
	}
}

// MoveDealToStage moves a deal to a new stage. The local phase is
// synchronous: stage and UpdatedAt change and metrics refresh before this
// returns. When connected, a best-effort remote update follows
// asynchronously; its failure is logged and journaled but never rolled back,
// so the optimistic local state stays authoritative until a future fetch.
func (s *Store) MoveDealToStage(dealID string, stage models.DealStage) {
	if !models.ValidStage(stage) {
		log.Printf("ignoring move of %s to unknown stage %q", dealID, stage)
		return
	}

	s.mu.Lock()
	found := false
	for i := range s.deals {
		if s.deals[i].ID == dealID {
			s.deals[i].Stage = stage
			s.deals[i].UpdatedAt = time.Now()
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return
	}
	s.updateMetricsLocked()
	connected := s.connected
	s.mu.Unlock()

	if !connected {
		return
	}

	s.remote.Add(1)
	go func() {
		defer s.remote.Done()
		if _, err := s.crm.UpdateDealStage(context.Background(), dealID, stage); err != nil {
			log.Printf("failed to sync stage move to zoho: %v", err)
			s.record(SyncRecord{DealID: dealID, Operation: "move", Stage: string(stage), Outcome: OutcomeError, Detail: err.Error()})
			return
		}
		s.record(SyncRecord{DealID: dealID, Operation: "move", Stage: string(stage), Outcome: OutcomeOK})
	}()
}

// CreateDeal builds a deal from the patch, adds it locally, and recomputes
// metrics. When connected, the deal is also created remotely in the
// background; on success the local record is replaced with the mapped-back
// remote one (which carries the CRM's id).
func (s *Store) CreateDeal(patch models.DealPatch) models.Deal {
	now := time.Now()
	deal := models.Deal{
		ID:        uuid.NewString(),
		Stage:     models.StageLead,
		Owner:     "Unassigned",
		CreatedAt: now,
		UpdatedAt: now,
	}
	patch.Apply(&deal)
	if deal.Probability == 0 {
		deal.Probability = zoho.StageProbabilities[deal.Stage]
	}

	s.AddDeal(deal)

	s.mu.Lock()
	connected := s.connected
	s.mu.Unlock()
	if !connected {
		return deal
	}

	localID := deal.ID
	s.remote.Add(1)
	go func() {
		defer s.remote.Done()
		created, err := s.crm.CreateDeal(context.Background(), patch)
		if err != nil {
			log.Printf("failed to create deal in zoho: %v", err)
			s.record(SyncRecord{DealID: localID, Operation: "create", Stage: string(deal.Stage), Outcome: OutcomeError, Detail: err.Error()})
			return
		}
		s.adoptRemote(localID, *created)
		s.record(SyncRecord{DealID: created.ID, Operation: "create", Stage: string(created.Stage), Outcome: OutcomeOK})
	}()

	return deal
}

// adoptRemote swaps a locally created deal for its remote counterpart.
func (s *Store) adoptRemote(localID string, remote models.Deal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.deals {
		if s.deals[i].ID == localID {
			s.deals[i] = remote
			s.updateMetricsLocked()
			return
		}
	}
}

// FetchDeals replaces the collection with the remote one. A no-op when no
// CRM connection is configured: local or demo data remains the source of
// truth. Failures are logged and swallowed so the caller is never blocked;
// the loading flag always clears.
func (s *Store) FetchDeals(ctx context.Context) {
	s.mu.Lock()
	if !s.connected {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	deals, more, err := s.crm.GetDeals(ctx)
	if err != nil {
		log.Printf("failed to fetch deals from zoho: %v", err)
		s.record(SyncRecord{Operation: "fetch", Outcome: OutcomeError, Detail: err.Error()})
		return
	}

	s.mu.Lock()
	s.deals = deals
	s.updateMetricsLocked()
	s.mu.Unlock()

	detail := ""
	if more {
		// First page only; flag the gap rather than hide it.
		detail = "more records remain beyond the first page"
	}
	s.record(SyncRecord{Operation: "fetch", Outcome: OutcomeOK, Detail: detail})
}

// UpdateMetrics recomputes the snapshot from the current collection. Every
// mutation already calls it; calling it again without an intervening
// mutation is a harmless no-op producing identical output.
func (s *Store) UpdateMetrics() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateMetricsLocked()
}

func (s *Store) updateMetricsLocked() {
	s.snapshot = metrics.Calculate(s.deals)
}

// Metrics returns the current snapshot.
func (s *Store) Metrics() models.PipelineMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.snapshot
	snapshot.StageDistribution = make([]models.StageMetrics, len(s.snapshot.StageDistribution))
	copy(snapshot.StageDistribution, s.snapshot.StageDistribution)
	return snapshot
}

// Deals returns a copy of the collection.
func (s *Store) Deals() []models.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Deal, len(s.deals))
	copy(out, s.deals)
	return out
}

// Deal returns the deal with the given id.
func (s *Store) Deal(dealID string) (models.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.deals {
		if d.ID == dealID {
			return d, true
		}
	}
	return models.Deal{}, false
}

// Wait blocks until outstanding background remote syncs finish. Short-lived
// commands call it before exiting so fire-and-forget updates aren't cut off.
func (s *Store) Wait() {
	s.remote.Wait()
}

func (s *Store) record(r SyncRecord) {
	if s.journal != nil {
		s.journal.RecordSync(r)
	}
}
