package repository

import (
	"bytes"
	"context"
	"time"

	"cyclehub-backend/internal/metrics"
	"cyclehub-backend/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// Cache is the byte store behind CachedCycleRepo.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetIfAbsent stores value only when key does not exist and reports
	// whether it did.
	SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
}

// A write to a cycle replaces its entry with a tombstone instead of deleting
// it. Reads that started before the write then fail their SetIfAbsent and
// cannot put the old document back. The tombstone outlives any request.
var tombstone = []byte("cyclehub:tombstone")

const (
	tombstoneTTL      = 30 * time.Second
	invalidateTimeout = 2 * time.Second
)

type cycleSource interface {
	FindAll(ctx context.Context) ([]models.Document, error)
	FindByID(ctx context.Context, id bson.ObjectID) (models.Document, error)
	Create(ctx context.Context, cycle models.Document) (*models.InsertResult, error)
	Upsert(ctx context.Context, id bson.ObjectID, update models.CycleUpdate) (*models.UpdateResult, error)
	Delete(ctx context.Context, id bson.ObjectID) (*models.DeleteResult, error)
}

// CachedCycleRepo reads single cycles through a cache and invalidates the
// entry after every write to that id, whether or not the write succeeded.
// Cache failures are logged and never fail the request.
type CachedCycleRepo struct {
	cycleSource
	cache   Cache
	ttl     time.Duration
	log     *zap.Logger
	observe func(result string)
}

func NewCachedCycleRepo(source cycleSource, cache Cache, ttl time.Duration, log *zap.Logger, observe func(result string)) *CachedCycleRepo {
	if observe == nil {
		observe = func(string) {}
	}
	return &CachedCycleRepo{
		cycleSource: source,
		cache:       cache,
		ttl:         ttl,
		log:         log,
		observe:     observe,
	}
}

func cycleKey(id bson.ObjectID) string {
	return "cycle:" + id.Hex()
}

func (r *CachedCycleRepo) FindByID(ctx context.Context, id bson.ObjectID) (models.Document, error) {
	key := cycleKey(id)

	data, ok, err := r.cache.Get(ctx, key)
	switch {
	case err != nil:
		r.observe(metrics.CacheError)
		r.log.Warn("cycle cache read failed", zap.String("key", key), zap.Error(err))
	case ok && bytes.Equal(data, tombstone):
		r.observe(metrics.CacheMiss)
	case ok:
		doc, err := decodeDocument(data)
		if err == nil {
			r.observe(metrics.CacheHit)
			return doc, nil
		}
		r.observe(metrics.CacheError)
		r.log.Warn("cycle cache entry unreadable", zap.String("key", key), zap.Error(err))
	default:
		r.observe(metrics.CacheMiss)
	}

	doc, err := r.cycleSource.FindByID(ctx, id)
	if err != nil || doc == nil {
		return doc, err
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		r.log.Warn("failed to encode cycle for cache", zap.String("key", key), zap.Error(err))
		return doc, nil
	}
	if _, err := r.cache.SetIfAbsent(ctx, key, raw, r.ttl); err != nil {
		r.log.Warn("failed to cache cycle", zap.String("key", key), zap.Error(err))
	}
	return doc, nil
}

func (r *CachedCycleRepo) Upsert(ctx context.Context, id bson.ObjectID, update models.CycleUpdate) (*models.UpdateResult, error) {
	result, err := r.cycleSource.Upsert(ctx, id, update)
	r.invalidate(ctx, id)
	return result, err
}

func (r *CachedCycleRepo) Delete(ctx context.Context, id bson.ObjectID) (*models.DeleteResult, error) {
	result, err := r.cycleSource.Delete(ctx, id)
	r.invalidate(ctx, id)
	return result, err
}

// invalidate ignores cancellation of the request context.
func (r *CachedCycleRepo) invalidate(ctx context.Context, id bson.ObjectID) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), invalidateTimeout)
	defer cancel()

	key := cycleKey(id)
	if err := r.cache.Set(ctx, key, tombstone, tombstoneTTL); err != nil {
		r.log.Warn("failed to invalidate cycle cache", zap.String("key", key), zap.Error(err))
	}
}

// decodeDocument unmarshals cached BSON with nested documents as maps, the
// same way the driver is configured to decode them.
func decodeDocument(raw []byte) (models.Document, error) {
	dec := bson.NewDecoder(bson.NewDocumentReader(bytes.NewReader(raw)))
	dec.DefaultDocumentM()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}
