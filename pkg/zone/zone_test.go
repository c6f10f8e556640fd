package zone_test

import (
	"context"
	"testing"

	"github.com/aretw0/tourguide/pkg/domain"
	"github.com/aretw0/tourguide/pkg/zone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	s := zone.New(3)
	assert.Equal(t, "3", s.Name)
	assert.Equal(t, 3.0, s.Order)
	assert.Equal(t, "Zone 3", s.Hints.Text)

	s = zone.New(2, zone.WithText("Search here"), zone.Pressable(), zone.WithShape(domain.ShapeCircle))
	assert.Equal(t, "Search here", s.Hints.Text)
	assert.True(t, s.Hints.Pressable)
	assert.Equal(t, domain.ShapeCircle, s.Hints.Shape)

	s = zone.New(1, zone.WithHints(domain.Hints{WithoutButtons: true}))
	assert.Equal(t, "Zone 1", s.Hints.Text, "empty hint text keeps the default")
	assert.True(t, s.Hints.WithoutButtons)
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    zone.Length
		wantErr bool
	}{
		{"", zone.Length{}, false},
		{"12", zone.Points(12), false},
		{" 12.5 ", zone.Points(12.5), false},
		{"50%", zone.Percent(50), false},
		{"abc", zone.Length{}, true},
		{"%", zone.Length{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := zone.ParseLength(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPosition_Resolve(t *testing.T) {
	canvas := domain.Rect{X: 0, Y: 0, Width: 400, Height: 800}
	tests := []struct {
		name string
		pos  zone.Position
		want domain.Rect
	}{
		{
			name: "top left with size",
			pos:  zone.Position{Top: zone.Points(10), Left: zone.Points(20), Width: zone.Points(100), Height: zone.Points(50)},
			want: domain.Rect{X: 20, Y: 10, Width: 100, Height: 50},
		},
		{
			name: "percentages",
			pos:  zone.Position{Top: zone.Percent(50), Left: zone.Percent(25), Width: zone.Percent(50), Height: zone.Percent(10)},
			want: domain.Rect{X: 100, Y: 400, Width: 200, Height: 80},
		},
		{
			name: "stretch between edges",
			pos:  zone.Position{Top: zone.Points(0), Bottom: zone.Points(700), Left: zone.Points(10), Right: zone.Points(10)},
			want: domain.Rect{X: 10, Y: 0, Width: 380, Height: 100},
		},
		{
			name: "anchored bottom right",
			pos:  zone.Position{Bottom: zone.Points(20), Right: zone.Points(20), Width: zone.Points(60), Height: zone.Points(60)},
			want: domain.Rect{X: 320, Y: 720, Width: 60, Height: 60},
		},
		{
			name: "overlapping edges collapse",
			pos:  zone.Position{Left: zone.Points(300), Right: zone.Points(300), Height: zone.Points(1)},
			want: domain.Rect{X: 300, Y: 0, Width: 0, Height: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pos.Resolve(canvas))
		})
	}
}

func TestPosition_YAML(t *testing.T) {
	var pos zone.Position
	err := yaml.Unmarshal([]byte("top: 10\nleft: 25%\nwidth: 50%\nheight: 40\n"), &pos)
	require.NoError(t, err)
	assert.Equal(t, zone.Points(10), pos.Top)
	assert.Equal(t, zone.Percent(25), pos.Left)
	assert.False(t, pos.Right.Set)
	assert.Equal(t, "50%", pos.Width.String())

	err = yaml.Unmarshal([]byte("top: ten\n"), &pos)
	assert.Error(t, err)
}

func TestByPosition(t *testing.T) {
	ctx := context.Background()
	canvas := domain.Rect{}
	s := zone.ByPosition(4, zone.Position{
		Top: zone.Percent(10), Left: zone.Points(0), Width: zone.Percent(100), Height: zone.Points(20),
	}, func() domain.Rect { return canvas })

	assert.Equal(t, "4", s.Name)
	require.NotNil(t, s.Target)

	_, err := s.Target.Measure(ctx)
	assert.ErrorIs(t, err, domain.ErrInvalidMeasurement, "no canvas yet")

	canvas = domain.Rect{Width: 300, Height: 500}
	r, err := s.Target.Measure(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Rect{X: 0, Y: 50, Width: 300, Height: 20}, r)
}
