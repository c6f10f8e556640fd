package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/tourguide/internal/runtime"
	"github.com/aretw0/tourguide/internal/testutils"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrollOffset(t *testing.T) {
	tests := []struct {
		name           string
		y, h, reserved float64
		want           float64
	}{
		{"top of content", 0, 40, 0, 0},
		{"below fold", 500, 50, 0, 450},
		{"reserved header", 500, 50, 100, 350},
		{"reserved larger than offset", 120, 50, 100, 0},
		{"taller than offset", 20, 50, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runtime.ScrollOffset(tt.y, tt.h, tt.reserved))
		})
	}
}

func TestScrollTo_Variants(t *testing.T) {
	ctx := context.Background()

	scroller := &testutils.Scroller{}
	require.NoError(t, runtime.ScrollTo(ctx, scroller, 42))
	require.Len(t, scroller.Calls, 1)
	assert.Equal(t, 42.0, scroller.Calls[0].Offset)
	assert.True(t, scroller.Calls[0].Animated)

	list := &testutils.OffsetScroller{}
	require.NoError(t, runtime.ScrollTo(ctx, list, 7))
	require.Len(t, list.Calls, 1)
	assert.Equal(t, 7.0, list.Calls[0].Offset)

	err := runtime.ScrollTo(ctx, struct{}{}, 1)
	assert.ErrorIs(t, err, domain.ErrUnsupportedScroller)
}
