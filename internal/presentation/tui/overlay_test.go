package tui_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aretw0/tourguide/internal/presentation/tui"
	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/mask"
	"github.com/aretw0/tourguide/pkg/ports"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(first, last bool) ports.Frame {
	return ports.Frame{
		TourKey: "_default",
		Step:    &domain.Step{Name: "1", Hints: domain.Hints{Text: "Hello"}},
		Box:     domain.Rect{X: 10, Y: 20, Width: 30, Height: 40},
		IsFirst: first,
		IsLast:  last,
		Labels:  domain.DefaultLabels(),
	}
}

func TestOverlay_AnimateMove(t *testing.T) {
	tests := []struct {
		name  string
		frame ports.Frame
		want  string
	}{
		{
			name:  "first",
			frame: frame(true, false),
			want:  "▶ [_default] 1 {10,20 30x40}\n  Hello\n  (Skip) [Next]\n",
		},
		{
			name:  "middle",
			frame: frame(false, false),
			want:  "▶ [_default] 1 {10,20 30x40}\n  Hello\n  (Skip) [Previous] [Next]\n",
		},
		{
			name:  "last",
			frame: frame(false, true),
			want:  "▶ [_default] 1 {10,20 30x40}\n  Hello\n  [Previous] [Finish]\n",
		},
		{
			name: "without buttons",
			frame: func() ports.Frame {
				f := frame(true, true)
				f.Step.Hints.WithoutButtons = true
				return f
			}(),
			want: "▶ [_default] 1 {10,20 30x40}\n  Hello\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			o := tui.NewOverlay(&buf, tui.WithProfile(termenv.Ascii))
			require.NoError(t, o.AnimateMove(context.Background(), tt.frame))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestOverlay_Markdown(t *testing.T) {
	var buf bytes.Buffer
	o := tui.NewOverlay(&buf, tui.WithMarkdown(func(s string) (string, error) {
		return "<" + s + ">\nmore", nil
	}))
	require.NoError(t, o.AnimateMove(context.Background(), frame(true, true)))
	assert.Contains(t, buf.String(), "  <Hello>\n  more\n")

	failing := tui.NewOverlay(&buf, tui.WithMarkdown(func(string) (string, error) {
		return "", errors.New("boom")
	}))
	assert.Error(t, failing.AnimateMove(context.Background(), frame(true, true)))
}

func TestOverlay_RenderMask(t *testing.T) {
	var buf bytes.Buffer
	o := tui.NewOverlay(&buf)
	canvas := domain.Rect{Width: 100, Height: 100}
	m := mask.Derive(domain.Rect{X: 10, Y: 10, Width: 10, Height: 10}, canvas, true, mask.Options{DismissOnPress: true})
	require.NoError(t, o.RenderMask(context.Background(), m))

	out := buf.String()
	assert.Contains(t, out, "mask dismiss pressable=true")
	assert.Contains(t, out, "top    {0,0 100x10}")
	assert.Contains(t, out, "bottom {0,20 100x80}")
}

func TestOverlay_HideAndScroll(t *testing.T) {
	var buf bytes.Buffer
	o := tui.NewOverlay(&buf)
	ctx := context.Background()
	require.NoError(t, o.ScrollTo(ctx, ports.ScrollOptions{Offset: 120, Animated: true}))
	require.NoError(t, o.Hide(ctx))
	assert.Equal(t, "  scroll to 120 animated=true\n■ overlay hidden\n", buf.String())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, o.Hide(canceled), context.Canceled)
}

func TestNewMarkdown(t *testing.T) {
	render, err := tui.NewMarkdown("notty", 40)
	require.NoError(t, err)
	out, err := render("**Search** here")
	require.NoError(t, err)
	assert.Contains(t, out, "Search")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, termenv.Ascii)
	assert.Contains(t, buf.String(), "|___/")
}
