package prefs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/libratech/internal/infrastructure/kvstore"
)

func TestSortPreference(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	svc := NewService(store)

	t.Run("键不存在返回默认排序", func(t *testing.T) {
		order, err := svc.GetSort(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, SortNewest, order)
	})

	t.Run("保存后重读", func(t *testing.T) {
		require.NoError(t, svc.SetSort(ctx, 1, SortPriceDesc))

		order, err := svc.GetSort(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, SortPriceDesc, order)
	})

	t.Run("非法排序方式被拒绝", func(t *testing.T) {
		err := svc.SetSort(ctx, 1, SortOrder("random"))
		assert.ErrorIs(t, err, ErrInvalidSort)
	})

	t.Run("存储内容损坏时回退默认", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, kvstore.SortPrefKey(2), []byte("bogus")))

		order, err := svc.GetSort(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, DefaultSort, order)
	})
}
