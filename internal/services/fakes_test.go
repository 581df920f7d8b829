package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"fintrack/internal/core"
)

var errNotFound = errors.New("not found")

// memoryStore is an in-memory stand-in for the SQLite repository.
type memoryStore struct {
	mu            sync.Mutex
	defs          map[string]core.RecurringDefinition
	txs           []core.Transaction
	booked        map[string]bool
	notifications []core.Notification
	reminded      map[string]bool
	settings      core.Settings
	listErr       error
}

func newMemoryStore(defs ...core.RecurringDefinition) *memoryStore {
	s := &memoryStore{
		defs:     map[string]core.RecurringDefinition{},
		booked:   map[string]bool{},
		reminded: map[string]bool{},
		settings: core.DefaultSettings(),
	}
	for _, d := range defs {
		s.defs[d.ID] = d
	}
	return s
}

func (s *memoryStore) ListRecurring(ctx context.Context) ([]core.RecurringDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]core.RecurringDefinition, 0, len(s.defs))
	for _, d := range s.defs {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) GetRecurring(ctx context.Context, id string) (core.RecurringDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.defs[id]
	if !ok {
		return d, fmt.Errorf("recurring definition %s: %w", id, errNotFound)
	}
	return d, nil
}

func (s *memoryStore) CreateRecurring(ctx context.Context, def core.RecurringDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs[def.ID] = def
	return nil
}

func (s *memoryStore) UpdateRecurring(ctx context.Context, def core.RecurringDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.defs[def.ID]
	if !ok {
		return errNotFound
	}
	def.LastProcessed = existing.LastProcessed
	s.defs[def.ID] = def
	return nil
}

func (s *memoryStore) SetRecurringActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.defs[id]
	if !ok {
		return errNotFound
	}
	d.SetActive(active)
	s.defs[id] = d
	return nil
}

func (s *memoryStore) DeleteRecurring(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.defs[id]; !ok {
		return errNotFound
	}
	delete(s.defs, id)
	return nil
}

func (s *memoryStore) RecordOccurrences(ctx context.Context, recurringID string, txs []core.Transaction, through core.Date) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.defs[recurringID]
	if !ok {
		return 0, errNotFound
	}
	created := 0
	for _, tx := range txs {
		key := tx.RecurringID + "|" + tx.Date.String()
		if s.booked[key] {
			continue
		}
		s.booked[key] = true
		s.txs = append(s.txs, tx)
		created++
	}
	d.LastProcessed = &through
	s.defs[recurringID] = d
	return created, nil
}

func (s *memoryStore) InsertTransaction(ctx context.Context, tx core.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.RecurringID != "" {
		key := tx.RecurringID + "|" + tx.Date.String()
		if s.booked[key] {
			return false, nil
		}
		s.booked[key] = true
	}
	s.txs = append(s.txs, tx)
	return true, nil
}

func (s *memoryStore) ListTransactions(ctx context.Context, recurringID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := []core.Transaction{}
	for _, tx := range s.txs {
		if recurringID == "" || tx.RecurringID == recurringID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out, nil
}

func (s *memoryStore) CreateNotification(ctx context.Context, n core.Notification) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := n.RecurringID + "|" + n.NotificationDate.String()
	if s.reminded[key] {
		return false, nil
	}
	s.reminded[key] = true
	s.notifications = append(s.notifications, n)
	return true, nil
}

func (s *memoryStore) GetSettings(ctx context.Context) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

type recordingPublisher struct {
	published []core.Notification
	err       error
}

func (p *recordingPublisher) PublishReminder(ctx context.Context, n core.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
