package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("redis down")
}

func (failingCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return errors.New("redis down")
}

func (failingCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return errors.New("redis down")
}

func TestCacheServiceDisabled(t *testing.T) {
	svc := NewCacheService(newMemoryCacheRepo(), nil, 0, nil, false)
	assert.False(t, svc.Enabled())

	var nilSvc *CacheService
	assert.False(t, nilSvc.Enabled())
	var dest []string
	assert.False(t, nilSvc.Get(context.Background(), "k", &dest))
	nilSvc.Set(context.Background(), "k", dest, 0)
	require.NoError(t, nilSvc.Invalidate(context.Background(), "k*"))
}

func TestCacheServiceFailuresDegradeToMiss(t *testing.T) {
	svc := NewCacheService(failingCacheRepo{}, NewMetricsService(), time.Minute, nil, true)

	var dest []string
	assert.False(t, svc.Get(context.Background(), "edplan:catalog:all", &dest))
	svc.Set(context.Background(), "edplan:catalog:all", []string{"x"}, 0)
	assert.Error(t, svc.Invalidate(context.Background(), "edplan:catalog:*"))
}
