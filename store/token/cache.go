package token

import (
	"context"
	"fmt"
	"time"

	"maplemetrics/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wrap a token store with a read-through cache. Token metadata is read
// on every tick, so lookups dominate writes by a wide margin.
func Cache(store core.ITokenStore, exp time.Duration) core.ITokenStore {
	return &cacheTokenStore{
		ITokenStore: store,
		cache:       gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheTokenStore struct {
	core.ITokenStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheTokenStore) Save(ctx context.Context, token *core.Token) error {
	if err := s.ITokenStore.Save(ctx, token); err != nil {
		return err
	}
	s.cacheToken(token)
	return nil
}

func (s *cacheTokenStore) Find(ctx context.Context, id string) (*core.Token, error) {
	if v, err := s.cache.Get(s.tokenKey(id)); err == nil {
		if token, ok := v.(*core.Token); ok {
			return token, nil
		}
	}

	v, err, _ := s.sf.Do(s.tokenKey(id), func() (interface{}, error) {
		token, err := s.ITokenStore.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if token != nil {
			s.cacheToken(token)
		}
		return token, nil
	})
	if err != nil {
		return nil, err
	}

	token, _ := v.(*core.Token)
	return token, nil
}

func (s *cacheTokenStore) cacheToken(token *core.Token) {
	s.cache.Set(s.tokenKey(token.ID), token)
}

func (s *cacheTokenStore) tokenKey(id string) string {
	return fmt.Sprintf("token:id:%s", id)
}
