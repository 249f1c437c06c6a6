// services/anomaly_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropVolumeValidatesKeepRatio(t *testing.T) {
	store := &fakeAnomalyStore{}
	svc := &AnomalyService{Store: store}

	for _, bad := range []float64{0, -0.5, 1.01} {
		_, err := svc.DropVolume("2025-09", bad)
		assert.Error(t, err, "keep_ratio=%g", bad)
	}
	// Rejected before any storage mutation.
	assert.Zero(t, store.thinCalls)

	store.affected = 42
	changed, err := svc.DropVolume("2025-09", 0.7)
	require.NoError(t, err)
	assert.Equal(t, int64(42), changed)
	assert.Equal(t, 1, store.thinCalls)
}

func TestInjectNullLikeValidatesInput(t *testing.T) {
	store := &fakeAnomalyStore{}
	svc := &AnomalyService{Store: store}

	_, err := svc.InjectNullLike("2025-09", 0.5, "n")
	assert.Error(t, err)
	_, err = svc.InjectNullLike("2025-09", 0, "prev")
	assert.Error(t, err)
	_, err = svc.InjectNullLike("2025-09", 1.2, "prev")
	assert.Error(t, err)
	assert.Zero(t, store.blankCalls)

	_, err = svc.InjectNullLike("2025-09", 0.003, "curr")
	require.NoError(t, err)
	assert.Equal(t, 1, store.blankCalls)
}

func TestPerThousandClamps(t *testing.T) {
	assert.Equal(t, 0, perThousand(0))
	assert.Equal(t, 3, perThousand(0.003))
	assert.Equal(t, 300, perThousand(0.3))
	assert.Equal(t, 1000, perThousand(1))
	assert.Equal(t, 1000, perThousand(2))
}
