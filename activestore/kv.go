package activestore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/zeebo/xxh3"

	"github.com/skywave/onebusaway-siri/internal/kvutil"
	"github.com/skywave/onebusaway-siri/internal/logging"
	"github.com/skywave/onebusaway-siri/internal/natsutil"
	"github.com/skywave/onebusaway-siri/types"
	"github.com/skywave/onebusaway-siri/wire"
)

// KVConfig configures the JetStream-backed store.
type KVConfig struct {
	// Bucket is the KV bucket name.
	Bucket string `yaml:"bucket"`

	// OperationTimeout bounds each KV write issued from Promote.
	OperationTimeout time.Duration `yaml:"operationTimeout"`

	// MaxRetries bounds bucket creation attempts (kvutil.DefaultMaxRetries if <= 0).
	MaxRetries int `yaml:"maxRetries"`
}

const defaultOperationTimeout = 5 * time.Second

// ErrKeyCollision is returned when the bucket key of an id already holds the
// record of a different id.
var ErrKeyCollision = errors.New("active subscription key holds a different subscription")

// KV is an ActiveStore that writes through to a JetStream KV bucket.
//
// All reads are served from an in-memory cache, so ModuleTypeOf never performs
// I/O. Writes update the cache first; a failed KV write is logged and the
// cache stays authoritative until the next successful write or Load.
type KV struct {
	kv      jetstream.KeyValue
	cache   *Memory
	timeout time.Duration
	logger  types.Logger
	key     func(types.SubscriptionID) string
}

// Compile-time assertion that KV implements ActiveStore.
var _ types.ActiveStore = (*KV)(nil)

// NewKV opens (or creates) the bucket named in cfg and loads its contents.
//
// Parameters:
//   - ctx: Bounds bucket creation and the initial Load
//   - conn: NATS connection with JetStream enabled
//   - cfg: Bucket configuration
//   - logger: Logger for write failures (nil for none)
//
// Returns:
//   - *KV: Store warmed with the bucket contents
//   - error: types.ErrNATSConnectionRequired, bucket or load errors
func NewKV(ctx context.Context, conn *nats.Conn, cfg KVConfig, logger types.Logger) (*KV, error) {
	if conn == nil {
		return nil, types.ErrNATSConnectionRequired
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: KV bucket name is required", types.ErrInvalidConfig)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	bucket, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket:      cfg.Bucket,
		Description: "SIRI active subscriptions",
		History:     1,
	}, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}

	s := NewKVFromBucket(bucket, cfg, logger)
	if _, err := s.Load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// NewKVFromBucket wraps an already opened bucket. The cache starts empty; call Load to warm it.
func NewKVFromBucket(bucket jetstream.KeyValue, cfg KVConfig, logger types.Logger) *KV {
	if logger == nil {
		logger = logging.NewNop()
	}

	timeout := cfg.OperationTimeout
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}

	return &KV{
		kv:      bucket,
		cache:   NewMemory(),
		timeout: timeout,
		logger:  logger,
		key:     kvKey,
	}
}

// ModuleTypeOf implements types.ActiveStore. It reads only the cache.
func (s *KV) ModuleTypeOf(id types.SubscriptionID) (types.ModuleType, bool) {
	return s.cache.ModuleTypeOf(id)
}

// Promote implements types.ActiveStore.
func (s *KV) Promote(resp *types.SubscriptionResponse, status types.StatusEntry, id types.SubscriptionID,
	pending types.PendingSubscription,
) {
	a := newActive(resp, status, id, pending, s.cache.now())
	s.cache.Put(a)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.persist(ctx, a); err != nil {
		if natsutil.IsConnectivityError(err) {
			s.logger.Warn("active subscription kept in memory only, KV unreachable",
				"id", id.String(),
				"error", err,
			)

			return
		}
		s.logger.Error("failed to persist active subscription",
			"id", id.String(),
			"error", err,
		)
	}
}

// Get returns the active subscription for id from the cache.
func (s *KV) Get(id types.SubscriptionID) (Active, bool) {
	return s.cache.Get(id)
}

// Len returns the number of cached active subscriptions.
func (s *KV) Len() int {
	return s.cache.Len()
}

// All returns a snapshot of the cached active subscriptions.
func (s *KV) All() []Active {
	return s.cache.All()
}

// Remove deletes id from the cache and the bucket.
//
// Returns:
//   - bool: Whether id was cached
//   - error: KV delete error (the cache entry is removed regardless)
func (s *KV) Remove(ctx context.Context, id types.SubscriptionID) (bool, error) {
	removed := s.cache.Remove(id)

	if err := s.deleteOwned(ctx, id); err != nil {
		return removed, fmt.Errorf("delete active subscription %s: %w", id, err)
	}

	return removed, nil
}

// Load replaces the cache contents with the bucket contents.
//
// Records that fail to decode are logged and skipped.
//
// Returns:
//   - int: Number of subscriptions loaded
//   - error: Listing or read error
func (s *KV) Load(ctx context.Context) (int, error) {
	entries, err := kvutil.Entries(ctx, s.kv)
	if err != nil {
		return 0, fmt.Errorf("load active subscriptions from %s: %w", s.kv.Bucket(), err)
	}

	fresh := NewMemory()
	fresh.now = s.cache.now
	for _, entry := range entries {
		var a Active
		if err := wire.Unmarshal(entry.Value(), &a); err != nil {
			s.logger.Warn("skipping undecodable active subscription record",
				"key", entry.Key(),
				"error", err,
			)

			continue
		}
		fresh.Put(a)
	}

	for _, a := range fresh.All() {
		s.cache.Put(a)
	}
	s.cache.entries.Range(func(id types.SubscriptionID, _ Active) bool {
		if _, ok := fresh.Get(id); !ok {
			s.cache.Remove(id)
		}

		return true
	})

	s.logger.Info("loaded active subscriptions", "bucket", s.kv.Bucket(), "count", fresh.Len())

	return fresh.Len(), nil
}

// Prune removes subscriptions whose validity ended at or before now.
//
// Returns:
//   - []types.SubscriptionID: Ids removed from the cache
//   - error: First KV delete error, if any
func (s *KV) Prune(ctx context.Context, now time.Time) ([]types.SubscriptionID, error) {
	removed := s.cache.Prune(now)

	var firstErr error
	for _, id := range removed {
		if err := s.deleteOwned(ctx, id); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("delete expired subscription %s: %w", id, err)
		}
	}

	return removed, firstErr
}

func (s *KV) persist(ctx context.Context, a Active) error {
	data, err := wire.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode active subscription %s: %w", a.ID, err)
	}

	key := s.key(a.ID)
	owned, err := s.owns(ctx, key, a.ID)
	if err != nil {
		return err
	}
	if !owned {
		return fmt.Errorf("%w: %s (key %s)", ErrKeyCollision, a.ID, key)
	}

	if _, err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("put active subscription %s: %w", a.ID, err)
	}

	return nil
}

// owns reports whether key is free or already holds the record of id.
// Undecodable records are treated as free so they can be overwritten.
func (s *KV) owns(ctx context.Context, key string, id types.SubscriptionID) (bool, error) {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if natsutil.IsKeyNotFound(err) {
			return true, nil
		}

		return false, fmt.Errorf("get %s: %w", key, err)
	}

	var existing Active
	if err := wire.Unmarshal(entry.Value(), &existing); err != nil {
		return true, nil
	}

	return existing.ID == id, nil
}

// deleteOwned deletes the record of id, leaving a colliding id's record alone.
func (s *KV) deleteOwned(ctx context.Context, id types.SubscriptionID) error {
	key := s.key(id)
	owned, err := s.owns(ctx, key, id)
	if err != nil || !owned {
		return err
	}

	if err := s.kv.Delete(ctx, key); err != nil && !natsutil.IsKeyNotFound(err) {
		return err
	}

	return nil
}

// kvKey maps an id onto the restricted KV key alphabet.
//
// The full id is stored in the record; writes and deletes compare it so a
// hash collision is reported instead of clobbering another subscription.
func kvKey(id types.SubscriptionID) string {
	h := xxh3.New()
	_, _ = h.WriteString(id.Server)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(id.Subscriber)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(id.Subscription)

	return "sub." + strconv.FormatUint(h.Sum64(), 16)
}
