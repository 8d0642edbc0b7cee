package titlecache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tiksanauto/cartitle/internal/config"
	mock_titlecache "github.com/tiksanauto/cartitle/internal/mocks/titlecache"
	"github.com/tiksanauto/cartitle/internal/titlecache"
)

func TestStoreCache_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(m *mock_titlecache.MockRepository)
		want      string
		wantOK    bool
	}{
		{
			name: "hit",
			setupMock: func(m *mock_titlecache.MockRepository) {
				m.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
				m.EXPECT().FindBySource(gomock.Any(), "宝马 3系").
					Return(&titlecache.Entry{SourceTitle: "宝马 3系", TranslatedTitle: "BMW 3Series"}, nil)
			},
			want:   "BMW 3Series",
			wantOK: true,
		},
		{
			name: "miss",
			setupMock: func(m *mock_titlecache.MockRepository) {
				m.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
				m.EXPECT().FindBySource(gomock.Any(), "宝马 3系").Return(nil, nil)
			},
		},
		{
			name: "empty stored translation is a miss",
			setupMock: func(m *mock_titlecache.MockRepository) {
				m.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
				m.EXPECT().FindBySource(gomock.Any(), "宝马 3系").
					Return(&titlecache.Entry{SourceTitle: "宝马 3系"}, nil)
			},
		},
		{
			name: "lookup error is a miss",
			setupMock: func(m *mock_titlecache.MockRepository) {
				m.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
				m.EXPECT().FindBySource(gomock.Any(), "宝马 3系").Return(nil, errors.New("connection reset"))
			},
		},
		{
			name: "schema failure is a miss without a lookup",
			setupMock: func(m *mock_titlecache.MockRepository) {
				m.EXPECT().EnsureSchema(gomock.Any()).Return(errors.New("connection refused"))
				m.EXPECT().FindBySource(gomock.Any(), gomock.Any()).Times(0)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_titlecache.NewMockRepository(ctrl)
			tt.setupMock(repo)

			cache := titlecache.NewStoreCache(repo, time.Second, nil)
			got, ok := cache.Get(context.Background(), "宝马 3系")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestStoreCache_EnsuresSchemaUntilSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_titlecache.NewMockRepository(ctrl)
	gomock.InOrder(
		repo.EXPECT().EnsureSchema(gomock.Any()).Return(errors.New("connection refused")),
		repo.EXPECT().EnsureSchema(gomock.Any()).Return(nil),
	)
	repo.EXPECT().Upsert(gomock.Any(), &titlecache.Entry{SourceTitle: "宝马 3系", TranslatedTitle: "BMW 3Series"}).
		Return(nil).Times(2)

	cache := titlecache.NewStoreCache(repo, time.Second, nil)
	ctx := context.Background()
	cache.Set(ctx, "宝马 3系", "BMW 3Series")
	cache.Set(ctx, "宝马 3系", "BMW 3Series")
	cache.Set(ctx, "宝马 3系", "BMW 3Series")
}

func TestStoreCache_SetSwallowsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_titlecache.NewMockRepository(ctrl)
	repo.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
	repo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(errors.New("read-only transaction"))

	cache := titlecache.NewStoreCache(repo, time.Second, nil)
	assert.NotPanics(t, func() {
		cache.Set(context.Background(), "宝马 3系", "BMW 3Series")
	})
}

func TestStoreCache_QueryTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_titlecache.NewMockRepository(ctrl)
	repo.EXPECT().EnsureSchema(gomock.Any()).Return(nil)
	repo.EXPECT().FindBySource(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, source string) (*titlecache.Entry, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
			<-ctx.Done()
			return nil, ctx.Err()
		})

	cache := titlecache.NewStoreCache(repo, 50*time.Millisecond, nil)
	_, ok := cache.Get(context.Background(), "宝马 3系")
	assert.False(t, ok)
}

func TestOpen(t *testing.T) {
	t.Run("empty url disables the cache", func(t *testing.T) {
		cache, err := titlecache.Open(context.Background(), config.CacheConfig{}, nil)
		require.NoError(t, err)
		assert.Equal(t, titlecache.NopCache{}, cache)

		cache.Set(context.Background(), "宝马", "BMW")
		_, ok := cache.Get(context.Background(), "宝马")
		assert.False(t, ok)
	})

	t.Run("redis url", func(t *testing.T) {
		server := miniredis.RunT(t)
		cache, err := titlecache.Open(context.Background(), config.CacheConfig{
			URL:          "redis://" + server.Addr() + "/0",
			QueryTimeout: time.Second,
			KeyPrefix:    "translation_cache:",
		}, nil)
		require.NoError(t, err)
		defer func() {
			_ = cache.Close()
		}()

		ctx := context.Background()
		cache.Set(ctx, "宝马 3系", "BMW 3Series")
		got, ok := cache.Get(ctx, "宝马 3系")
		assert.True(t, ok)
		assert.Equal(t, "BMW 3Series", got)
		assert.Equal(t, "BMW 3Series", server.HGet("translation_cache:宝马 3系", "english_text"))
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := titlecache.Open(context.Background(), config.CacheConfig{URL: "mongodb://localhost/cars"}, nil)
		assert.ErrorContains(t, err, "unsupported cache url scheme")
	})
}
