package kvstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("键不存在返回ErrKeyNotFound", func(t *testing.T) {
		_, err := store.Get(ctx, CartKey(1))
		assert.True(t, errors.Is(err, ErrKeyNotFound), "期望ErrKeyNotFound，实际%v", err)
	})

	t.Run("写入后可读回", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, CartKey(1), []byte(`[{"book_id":"b1"}]`)))

		val, err := store.Get(ctx, CartKey(1))
		require.NoError(t, err)
		assert.Equal(t, `[{"book_id":"b1"}]`, string(val))
	})

	t.Run("返回值是副本", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, SortPrefKey(1), []byte("newest")))

		val, err := store.Get(ctx, SortPrefKey(1))
		require.NoError(t, err)
		val[0] = 'X' // 修改副本不应影响存储

		again, err := store.Get(ctx, SortPrefKey(1))
		require.NoError(t, err)
		assert.Equal(t, "newest", string(again))
	})

	t.Run("删除后键不存在", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, CheckoutKey(2), []byte(`{"step":3}`)))
		require.NoError(t, store.Delete(ctx, CheckoutKey(2)))

		_, err := store.Get(ctx, CheckoutKey(2))
		assert.True(t, errors.Is(err, ErrKeyNotFound))

		// 删除不存在的键是no-op
		assert.NoError(t, store.Delete(ctx, CheckoutKey(2)))
	})
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "libratech:cart:42", CartKey(42))
	assert.Equal(t, "libratech:checkout:42", CheckoutKey(42))
	assert.Equal(t, "libratech:pref:sort:42", SortPrefKey(42))
}
