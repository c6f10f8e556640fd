package static_test

import (
	"context"
	"testing"

	"github.com/aretw0/tourguide/pkg/adapters/static"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTarget_MeasureAndMove(t *testing.T) {
	ctx := context.Background()
	target := static.NewTarget(domain.Rect{X: 1, Y: 2, Width: 3, Height: 4})

	r, err := target.Measure(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Rect{X: 1, Y: 2, Width: 3, Height: 4}, r)

	target.Move(domain.Rect{X: 10, Y: 20, Width: 30, Height: 40})
	r, err = target.Measure(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, r.X)
}

func TestTarget_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := static.NewTarget(domain.Rect{}).Measure(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnmounted(t *testing.T) {
	_, err := static.Unmounted{}.Measure(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidMeasurement)
}

func TestWrapper_MeasureLayout(t *testing.T) {
	w := static.Wrapper{Layout: domain.Rect{X: 0, Y: 600, Width: 300, Height: 50}}
	var gotY, gotH float64
	err := w.MeasureLayout(context.Background(), "scroll", func(x, y, width, height float64) {
		gotY, gotH = y, height
	})
	require.NoError(t, err)
	assert.Equal(t, 600.0, gotY)
	assert.Equal(t, 50.0, gotH)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err = w.MeasureLayout(ctx, nil, func(float64, float64, float64, float64) { called = true })
	assert.Error(t, err)
	assert.False(t, called)
}
