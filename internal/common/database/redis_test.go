package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nagarik-sewa/internal/common/config"
)

func TestRedis_PingAndClose(t *testing.T) {
	mr := miniredis.RunT(t)

	c := NewRedis(config.RedisConfig{Address: mr.Addr(), PoolSize: 2, MinIdleConns: 1})
	require.NoError(t, c.Ping(context.Background()))
	assert.Equal(t, 2, c.Client.Options().PoolSize)
	require.NoError(t, c.Close())
}

func TestRedis_PingUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := NewRedis(config.RedisConfig{Address: addr})
	defer c.Close()
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), addr)
}
