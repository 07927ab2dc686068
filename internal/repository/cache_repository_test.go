package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/Dipanshu-5/EdPlan/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "edplan:catalog", &dest), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Set(ctx, "edplan:catalog", []string{"x"}, time.Minute))
	require.NoError(t, repo.DeleteByPattern(ctx, "edplan:*"))
	require.NoError(t, repo.Close())
}
