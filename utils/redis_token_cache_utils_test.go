package utils

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenCacheContains(t *testing.T) {
	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("requires a redis instance, set REDIS_HOST/REDIS_PORT to run")
	}

	cache, err := GetRedisTokenCache()
	require.NoError(t, err)
	defer cache.Close()

	ctx := context.Background()
	token := "testonly_" + RandomAlphabetString(12)
	require.NoError(t, cache.Add(ctx, token))

	present, err := cache.Contains(ctx, token)
	require.NoError(t, err)
	assert.True(t, present)

	present, err = cache.Contains(ctx, "testonly_absent_"+RandomAlphabetString(12))
	require.NoError(t, err)
	assert.False(t, present)
}
