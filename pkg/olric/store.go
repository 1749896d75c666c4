// Package olric backs the page cache with an Olric DMap so several client
// processes can share cached pages.
package olric

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	olriclib "github.com/olric-data/olric"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/cache"
	"github.com/DeBrosOfficial/contacts/pkg/contact"
	cerrors "github.com/DeBrosOfficial/contacts/pkg/errors"
)

// keyPrefix namespaces page keys inside a shared DMap.
const keyPrefix = contact.Resource + ":"

type kv interface {
	put(ctx context.Context, key string, value []byte) error
	get(ctx context.Context, key string) ([]byte, bool, error)
	del(ctx context.Context, keys ...string) error
	keys(ctx context.Context, match string) ([]string, error)
}

// PageStore is a cache.Store holding JSON-encoded pages in a DMap.
type PageStore struct {
	kv      kv
	timeout time.Duration
	logger  *zap.Logger
}

var _ cache.Store = (*PageStore)(nil)

func newPageStore(kv kv, timeout time.Duration, logger *zap.Logger) *PageStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageStore{kv: kv, timeout: timeout, logger: logger}
}

func (s *PageStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Load returns the page stored under key.
func (s *PageStore) Load(ctx context.Context, key string) (*contact.Page, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	raw, ok, err := s.kv.get(ctx, keyPrefix+key)
	if err != nil {
		return nil, false, cacheError("load", key, err)
	}
	if !ok {
		return nil, false, nil
	}

	var page contact.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		// A value we cannot read is treated as a miss so the page gets refetched.
		s.logger.Warn("dropping undecodable page", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}
	return &page, true, nil
}

// Save stores page under key.
func (s *PageStore) Save(ctx context.Context, key string, page *contact.Page) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return cerrors.NewSerializationError("failed to encode page", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.kv.put(ctx, keyPrefix+key, raw); err != nil {
		return cacheError("save", key, err)
	}
	return nil
}

// Remove deletes the page stored under key. Missing keys are not an error.
func (s *PageStore) Remove(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.kv.del(ctx, keyPrefix+key); err != nil {
		return cacheError("remove", key, err)
	}
	return nil
}

// Clear removes every page this store owns and returns how many were removed.
func (s *PageStore) Clear(ctx context.Context) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	keys, err := s.kv.keys(ctx, "^"+regexp.QuoteMeta(keyPrefix))
	if err != nil {
		return 0, cacheError("clear", "*", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.kv.del(ctx, keys...); err != nil {
		return 0, cacheError("clear", "*", err)
	}
	s.logger.Info("cleared cached pages", zap.Int("count", len(keys)))
	return len(keys), nil
}

func cacheError(op, key string, err error) error {
	return cerrors.NewCacheError(fmt.Sprintf("olric %s %s", op, key), err)
}

func isKeyNotFound(err error) bool {
	return errors.Is(err, olriclib.ErrKeyNotFound) || strings.Contains(err.Error(), "key not found")
}
