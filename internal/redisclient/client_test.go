package redisclient

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	c, err := NewClient(addr, os.Getenv("TEST_REDIS_PASSWORD"), 0, "pos-test:"+t.Name()+":")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = c.ApplyEntries(context.Background(), nil, []string{"cartItems_A", "orders_A"})
		_ = c.Close()
	})
	return c
}

func TestKeyPrefix(t *testing.T) {
	c := &Client{prefix: "pos:"}
	assert.Equal(t, "pos:cartItems_City Pharma", c.key("cartItems_City Pharma"))
}

func TestEntries(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, ok, err := c.GetEntry(ctx, "cartItems_A")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.ApplyEntries(ctx, map[string][]byte{"cartItems_A": []byte(`[{"name":"x"}]`)}, nil))

	payload, ok, err := c.GetEntry(ctx, "cartItems_A")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[{"name":"x"}]`, string(payload))

	require.NoError(t, c.ApplyEntries(ctx,
		map[string][]byte{"orders_A": []byte(`[]`)},
		[]string{"cartItems_A"}))

	_, ok, err = c.GetEntry(ctx, "cartItems_A")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.GetEntry(ctx, "orders_A")
	require.NoError(t, err)
	assert.True(t, ok)
}
