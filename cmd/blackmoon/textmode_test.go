package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/engine"
	"github.com/jwebster45206/black-moon/pkg/scenario"
	"github.com/jwebster45206/black-moon/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textSession(t *testing.T) *engine.Session {
	t.Helper()
	scen, err := scenario.Default()
	require.NoError(t, err)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(scen, nil, log, engine.WithSpawner(arcade.FixedSpawner{}))
	return engine.NewSession(eng, storage.NewMockStorage(), "default", "en")
}

func TestPlayText(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantScene string
		wantOut   []string
	}{
		{
			name:      "choose and quit",
			input:     "1\nq\n",
			wantScene: "S2",
			wantOut:   []string{"== The Mission ==", "== Desert Gas Station ==", "HEALTH: 3"},
		},
		{
			name:      "not a number shows help",
			input:     "go north\nq\n",
			wantScene: "S1",
			wantOut:   []string{"1-9 choose"},
		},
		{
			name:      "ending restarts on any line",
			input:     "2\n\n",
			wantScene: "S1",
			wantOut:   []string{"== Game Over ==", "Press any key to restart"},
		},
		{
			name:      "save then load",
			input:     "1\ns\n1\nl\n",
			wantScene: "S2",
			wantOut:   []string{"Game saved.", "Game loaded."},
		},
		{
			name:      "load without save",
			input:     "l\n",
			wantScene: "S1",
			wantOut:   []string{"Could not load a saved game."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := textSession(t)
			var out bytes.Buffer

			err := playText(context.Background(), s, strings.NewReader(tt.input), &out)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScene, s.State().Scene)
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}
