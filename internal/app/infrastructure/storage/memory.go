package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/maypok86/otter/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"os"
	"selfchat/internal/app/domain/message"
	"selfchat/internal/app/ports"
	"selfchat/pkg/logger"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// SweepInterval bounds how long an expired record stays in memory after its deadline.
// Reads filter on the deadline themselves, so visibility ends exactly at createdAt+TTL.
const SweepInterval = time.Second

var (
	_ ports.MessageStorePort = (*MemoryStore)(nil)
	_ ports.MessageStorePort = (*MongoStore)(nil)
)

// MemoryStore is the in-process driver. Entries expire through otter's per-entry
// expiry and a periodic sweep; the snapshot file, when configured, is rewritten on every change.
type MemoryStore struct {
	log   logger.Logger
	cache *otter.Cache[string, message.Message]

	ttl atomic.Int64
	now func() time.Time

	snapshotPath string
	flushMu      sync.Mutex

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewMemoryStore(log logger.Logger, snapshotPath string) (*MemoryStore, error) {
	return newMemoryStore(log, snapshotPath, time.Now, SweepInterval)
}

func newMemoryStore(log logger.Logger, snapshotPath string, now func() time.Time, sweepEvery time.Duration) (*MemoryStore, error) {
	s := &MemoryStore{
		log:          log,
		now:          now,
		snapshotPath: snapshotPath,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}

	cache, err := otter.New(&otter.Options[string, message.Message]{
		ExpiryCalculator: expiryByCreation{store: s},
		OnDeletion: func(e otter.DeletionEvent[string, message.Message]) {
			if e.WasEvicted() {
				s.log.Trace("Message expired", "id", e.Key)
			}
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", message.ErrStoreUnavailable, err)
	}
	s.cache = cache

	if sweepEvery > 0 {
		go s.sweep(sweepEvery)
	} else {
		close(s.done)
	}
	return s, nil
}

// Initialize sets the TTL and loads the snapshot on first use. Existing entries get their
// deadline recomputed, so a changed TTL applies to them too.
func (s *MemoryStore) Initialize(_ context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("%w: non-positive ttl %s", message.ErrStoreUnavailable, ttl)
	}

	prev := time.Duration(s.ttl.Swap(int64(ttl)))
	if prev == ttl {
		return nil
	}

	if prev == 0 {
		if err := s.loadFromDisk(); err != nil {
			return fmt.Errorf("%w: load snapshot: %w", message.ErrStoreUnavailable, err)
		}
	}

	for id, msg := range s.cache.All() {
		s.cache.Set(id, msg)
	}

	s.log.Info("Memory store expiry configured", "ttl", ttl.String(), "previous", prev.String())
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]message.Message, error) {
	now := s.now()
	ttl := s.TTL()

	out := make([]message.Message, 0, s.cache.EstimatedSize())
	for _, msg := range s.cache.All() {
		if message.Expired(msg.CreatedAt, ttl, now) {
			continue
		}
		out = append(out, msg)
	}

	slices.SortFunc(out, func(a, b message.Message) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *MemoryStore) Create(_ context.Context, sender message.Sender, textPrimary, textSecondary string) (*message.Message, error) {
	if err := message.ValidateNew(sender, textPrimary, textSecondary); err != nil {
		return nil, err
	}

	msg := message.Message{
		ID:            primitive.NewObjectID().Hex(),
		Sender:        sender,
		TextPrimary:   textPrimary,
		TextSecondary: textSecondary,
		CreatedAt:     message.Timestamp(s.now()),
	}
	s.cache.Set(msg.ID, msg)
	s.flush()

	return &msg, nil
}

func (s *MemoryStore) Update(_ context.Context, id, textPrimary, textSecondary string) (*message.Message, error) {
	if err := message.ValidateTexts(textPrimary, textSecondary); err != nil {
		return nil, err
	}

	now := s.now()
	ttl := s.TTL()
	updated, ok := s.cache.ComputeIfPresent(id, func(old message.Message) (message.Message, otter.ComputeOp) {
		if message.Expired(old.CreatedAt, ttl, now) {
			return old, otter.InvalidateOp
		}
		old.TextPrimary = textPrimary
		old.TextSecondary = textSecondary
		return old, otter.WriteOp
	})
	if !ok {
		return nil, message.ErrNotFound
	}

	s.flush()
	return &updated, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	old, ok := s.cache.Invalidate(id)
	if !ok || message.Expired(old.CreatedAt, s.TTL(), s.now()) {
		return message.ErrNotFound
	}

	s.flush()
	return nil
}

// Close stops the sweeper and writes a final snapshot.
func (s *MemoryStore) Close(_ context.Context) error {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
		s.flush()
	})
	return nil
}

func (s *MemoryStore) TTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

// Sweep drops every entry past its deadline and reports how many were removed.
func (s *MemoryStore) Sweep() int {
	ttl := s.TTL()
	if ttl <= 0 {
		return 0
	}

	now := s.now()
	removed := 0
	for id, msg := range s.cache.All() {
		if message.Expired(msg.CreatedAt, ttl, now) {
			s.cache.Invalidate(id)
			removed++
		}
	}
	s.cache.CleanUp()

	if removed > 0 {
		s.flush()
	}
	return removed
}

func (s *MemoryStore) sweep(every time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// remaining is how long msg has left; otter schedules the entry's removal with it.
func (s *MemoryStore) remaining(msg message.Message) time.Duration {
	ttl := s.TTL()
	if ttl <= 0 {
		return time.Duration(1<<63 - 1)
	}
	left := ttl - s.now().Sub(msg.CreatedAt)
	if left <= 0 {
		return time.Nanosecond
	}
	return left
}

func (s *MemoryStore) flush() {
	if s.snapshotPath == "" {
		return
	}

	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	snapshot := make(map[string]message.Message)
	for k, v := range s.cache.All() {
		snapshot[k] = v
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		s.log.Error("Failed to marshal snapshot", err)
		return
	}

	if err := os.WriteFile(s.snapshotPath, data, 0600); err != nil {
		s.log.Error("Failed to write snapshot", err, "path", s.snapshotPath)
	}
}

func (s *MemoryStore) loadFromDisk() error {
	if s.snapshotPath == "" {
		return nil
	}

	data, err := os.ReadFile(s.snapshotPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	var items map[string]message.Message
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	now := s.now()
	ttl := s.TTL()
	loaded := 0
	for k, v := range items {
		if message.Expired(v.CreatedAt, ttl, now) {
			continue
		}
		s.cache.Set(k, v)
		loaded++
	}

	s.log.Info("Snapshot loaded", "path", s.snapshotPath, "messages", loaded)
	return nil
}

type expiryByCreation struct {
	store *MemoryStore
}

func (e expiryByCreation) ExpireAfterCreate(entry otter.Entry[string, message.Message]) time.Duration {
	return e.store.remaining(entry.Value)
}

func (e expiryByCreation) ExpireAfterUpdate(entry otter.Entry[string, message.Message], _ message.Message) time.Duration {
	return e.store.remaining(entry.Value)
}

func (e expiryByCreation) ExpireAfterRead(entry otter.Entry[string, message.Message]) time.Duration {
	return e.store.remaining(entry.Value)
}
