package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/bruintracks/bruintracks-go/pkg/errors"
)

func TestCacheDisabledClientMisses(t *testing.T) {
	cache := NewCacheRepository(nil, time.Minute)

	var dest []string
	err := cache.Get(context.Background(), "catalog:subjects", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	assert.NoError(t, cache.Set(context.Background(), "catalog:subjects", []string{"COM SCI"}))
}

func TestCacheNilReceiverMisses(t *testing.T) {
	var cache *CacheRepository

	var dest []string
	err := cache.Get(context.Background(), "catalog:terms", &dest)
	assert.ErrorIs(t, err, appErrors.ErrCacheMiss)

	assert.NoError(t, cache.Set(context.Background(), "catalog:terms", nil))
}
