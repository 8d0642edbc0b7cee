package translator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_translator "github.com/tiksanauto/cartitle/internal/mocks/translator"
	"github.com/tiksanauto/cartitle/internal/translator"
)

func TestBreaker_OpensAfterFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_translator.NewMockProvider(ctrl)
	provider.EXPECT().Translate(gomock.Any(), gomock.Any()).Return("", translator.ErrTransient).Times(2)

	breaker := translator.NewBreaker(provider, translator.BreakerSettings{
		Name:         "test",
		MaxRequests:  1,
		Timeout:      time.Hour,
		MinRequests:  2,
		FailureRatio: 0.5,
	})

	for range 2 {
		_, err := breaker.Translate(context.Background(), "运动套装")
		assert.ErrorIs(t, err, translator.ErrTransient)
	}
	assert.Equal(t, "open", breaker.State())

	_, err := breaker.Translate(context.Background(), "运动套装")
	require.Error(t, err)
	assert.ErrorIs(t, err, translator.ErrCircuitOpen)
	assert.Equal(t, translator.ReasonUnexpected, translator.ReasonOf(err))
}

func TestBreaker_CancellationDoesNotTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_translator.NewMockProvider(ctrl)
	provider.EXPECT().Translate(gomock.Any(), gomock.Any()).Return("", context.Canceled).Times(3)

	breaker := translator.NewBreaker(provider, translator.BreakerSettings{
		Name:         "test",
		Timeout:      time.Hour,
		MinRequests:  1,
		FailureRatio: 0.1,
	})

	for range 3 {
		_, err := breaker.Translate(context.Background(), "运动套装")
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", breaker.State())
}

func TestBreaker_PassesThroughSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mock_translator.NewMockProvider(ctrl)
	provider.EXPECT().Translate(gomock.Any(), "运动套装").Return("sport package", nil)

	breaker := translator.NewBreaker(provider, translator.BreakerSettings{Name: "test"})
	got, err := breaker.Translate(context.Background(), "运动套装")
	require.NoError(t, err)
	assert.Equal(t, "sport package", got)
}
