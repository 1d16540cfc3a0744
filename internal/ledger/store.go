// Package ledger owns the transaction list: it loads it from a KV store,
// applies add, replace and clear, and mirrors every change back.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"
)

// DefaultKey is the storage key holding the serialized transaction list.
const DefaultKey = "transactions"

// Op names a store mutation.
type Op string

const (
	OpAdd     Op = "add"
	OpReplace Op = "replace"
	OpClear   Op = "clear"
)

// ChangeEvent describes a committed mutation. Count is the store size after it.
type ChangeEvent struct {
	Op    Op
	Count int
}

// Notifier is told about every committed mutation.
type Notifier interface {
	LedgerChanged(ctx context.Context, ev ChangeEvent) error
}

// Store is the in-memory transaction list, newest first, mirrored to a KV.
type Store struct {
	mu       sync.RWMutex
	kv       storage.KV
	key      string
	txs      []core.Transaction
	lastID   int64
	notifier Notifier
	logger   *log.Logger
	// fresh is true while nothing has ever been stored under key.
	fresh bool
	now   func() time.Time
}

type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentLedger)
		}
	}
}

// WithClock replaces time.Now for ID assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the list stored under the store key. A missing key, a read
// failure or an undecodable value all yield an empty store; failures are
// logged, never returned.
func Open(ctx context.Context, kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		logger: log.New(log.DefaultConfig()).WithComponent(log.ComponentLedger),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := kv.Get(ctx, s.key)
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "Failed to read stored transactions, starting empty",
			log.FieldOperation, log.OpLoad, log.FieldError, err)
	case !ok:
		s.fresh = true
		s.logger.DebugContext(ctx, "No stored transactions", "key", s.key)
	default:
		var txs []core.Transaction
		if err := json.Unmarshal(raw, &txs); err != nil {
			s.logger.WarnContext(ctx, "Stored transactions are not decodable, starting empty",
				log.FieldOperation, log.OpLoad, log.FieldError, err)
			break
		}
		s.txs = txs
		for _, tx := range txs {
			s.lastID = max(s.lastID, tx.ID)
		}
		s.logger.InfoContext(ctx, "Transactions loaded", log.FieldCount, len(txs))
	}

	return s
}

// Add validates tx, assigns it a fresh ID and prepends it.
func (s *Store) Add(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	tx.ID = s.nextID()
	next := make([]core.Transaction, 0, len(s.txs)+1)
	next = append(next, tx)
	next = append(next, s.txs...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}
	count := len(s.txs)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transaction added",
		log.NewFields().
			WithOperation(log.OpAdd).
			WithTransaction(tx.ID, tx.Type.String(), tx.Amount.Cents, tx.Category).
			ToSlice()...)
	s.notify(ctx, ChangeEvent{Op: OpAdd, Count: count})
	return tx, nil
}

// Replace overwrites the whole list; order is kept as given. Records without
// an ID, or repeating an ID already used earlier in txs, get a fresh one.
func (s *Store) Replace(ctx context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	next := make([]core.Transaction, len(txs))
	copy(next, txs)
	for _, tx := range next {
		s.lastID = max(s.lastID, tx.ID)
	}
	seen := make(map[int64]struct{}, len(next))
	for i := range next {
		if _, dup := seen[next[i].ID]; dup || next[i].ID == 0 {
			next[i].ID = s.nextID()
		}
		seen[next[i].ID] = struct{}{}
	}
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transactions replaced", log.FieldOperation, log.OpReplace, log.FieldCount, len(next))
	s.notify(ctx, ChangeEvent{Op: OpReplace, Count: len(next)})
	return nil
}

// Clear empties the store.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.commit(ctx, []core.Transaction{}); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transactions cleared", log.FieldOperation, log.OpClear)
	s.notify(ctx, ChangeEvent{Op: OpClear, Count: 0})
	return nil
}

// Snapshot returns a copy of the list, newest first.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Fresh reports whether nothing has ever been stored under the store key.
// A cleared store is not fresh.
func (s *Store) Fresh() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fresh
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

// Categories returns the distinct non-empty categories in first-seen order.
func (s *Store) Categories() []string {
	return s.distinct(func(tx core.Transaction) string { return tx.Category })
}

// Cards returns the distinct non-empty cards in first-seen order.
func (s *Store) Cards() []string {
	return s.distinct(func(tx core.Transaction) string { return tx.Card })
}

func (s *Store) distinct(field func(core.Transaction) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Distinct(s.txs, field)
}

// Distinct returns the distinct non-empty values of field in first-seen order.
func Distinct(txs []core.Transaction, field func(core.Transaction) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range txs {
		v := field(tx)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// nextID is time-derived but strictly increasing. Callers hold mu.
func (s *Store) nextID() int64 {
	id := max(s.now().UnixMilli(), s.lastID+1)
	s.lastID = id
	return id
}

// commit persists next and swaps it in. Callers hold mu.
func (s *Store) commit(ctx context.Context, next []core.Transaction) error {
	raw, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	s.txs = next
	s.fresh = false
	return nil
}

func (s *Store) notify(ctx context.Context, ev ChangeEvent) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.LedgerChanged(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Change notification failed",
			log.FieldOperation, string(ev.Op), log.FieldError, err)
	}
}
