package optim

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/spherebounce/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quiet(g *GridSearch) *GridSearch {
	g.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	return g
}

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{0, 0.5, 1}, Linspace(0, 1, 3))
	assert.Equal(t, []float64{2}, Linspace(2, 5, 1))
}

func TestNewGridSearchRejectsBadRanges(t *testing.T) {
	_, err := NewGridSearch([]string{"drag"}, nil)
	assert.Error(t, err)

	_, err = NewGridSearch([]string{"drag"}, [][]float64{{}})
	assert.Error(t, err)
}

func TestGridSearchPeriod(t *testing.T) {
	base := config.GetPreset("staircase")
	base.Duration = 1

	g, err := NewGridSearch([]string{"period"}, [][]float64{{0.05, 0.5}})
	require.NoError(t, err)
	quiet(g)

	params, fewest, err := g.Search(context.Background(), base, "population")
	require.NoError(t, err)
	assert.Equal(t, 0.5, params["period"])

	g.Maximize = true
	params, most, err := g.Search(context.Background(), base, "population")
	require.NoError(t, err)
	assert.Equal(t, 0.05, params["period"])
	assert.Greater(t, most, fewest)

	assert.Equal(t, 0.5, base.Emitter.Period, "base config must not change")
}

func TestGridSearchErrors(t *testing.T) {
	base := config.GetPreset("staircase")
	base.Duration = 0.1

	g, err := NewGridSearch([]string{"colour"}, [][]float64{{1}})
	require.NoError(t, err)
	_, _, err = quiet(g).Search(context.Background(), base, "population")
	assert.Error(t, err)

	g, err = NewGridSearch([]string{"drag"}, [][]float64{{0}})
	require.NoError(t, err)
	_, _, err = quiet(g).Search(context.Background(), base, "nope")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = quiet(g).Search(ctx, base, "population")
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
