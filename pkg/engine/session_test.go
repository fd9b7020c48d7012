package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/jwebster45206/black-moon/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T, store storage.Storage, locale string) *Session {
	t.Helper()
	eng := testEngine(t, nil, arcade.FixedSpawner{ObstacleLane: 0, PickupLane: 1})
	return NewSession(eng, store, "default", locale)
}

func TestSession_ChooseIsOneBased(t *testing.T) {
	s := testSession(t, storage.NewMockStorage(), "en")
	ctx := context.Background()

	require.NoError(t, s.Choose(ctx, 1))
	assert.Equal(t, "S2", s.State().Scene)

	// 0 and 10 are outside 1..9 and change nothing.
	require.NoError(t, s.Choose(ctx, 0))
	require.NoError(t, s.Choose(ctx, 10))
	assert.Equal(t, "S2", s.State().Scene)
}

func TestSession_SaveAndLoad(t *testing.T) {
	store := storage.NewMockStorage()
	s := testSession(t, store, "en")
	ctx := context.Background()

	require.NoError(t, s.Choose(ctx, 1))
	require.NoError(t, s.Choose(ctx, 1))
	require.NoError(t, s.Save(ctx))
	saved := s.State().Clone()

	require.NoError(t, s.Choose(ctx, 2))
	assert.Equal(t, "S4", s.State().Scene)

	require.NoError(t, s.Load(ctx))
	assert.Equal(t, saved, s.State())
	assert.True(t, s.State().DiskHidden)
}

func TestSession_LoadFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		setup func(store *storage.MockStorage)
	}{
		{
			name:  "no save",
			setup: func(*storage.MockStorage) {},
		},
		{
			name: "backend error",
			setup: func(store *storage.MockStorage) {
				store.SetLoadError(errors.New("connection refused"))
			},
		},
		{
			name: "unknown saved scene",
			setup: func(store *storage.MockStorage) {
				gs := state.NewGameState("S42")
				require.NoError(t, store.SaveGameState(ctx, "default", gs))
			},
		},
		{
			name: "encounter sentinel saved as scene",
			setup: func(store *storage.MockStorage) {
				gs := state.NewGameState(state.EncounterPursuit)
				require.NoError(t, store.SaveGameState(ctx, "default", gs))
			},
		},
		{
			name: "unknown return scene",
			setup: func(store *storage.MockStorage) {
				gs := state.NewGameState("S4")
				gs.ReturnScene = "S5Z"
				require.NoError(t, store.SaveGameState(ctx, "default", gs))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storage.NewMockStorage()
			s := testSession(t, store, "en")
			require.NoError(t, s.Choose(ctx, 1))
			before := s.State().Clone()

			tt.setup(store)
			err := s.Load(ctx)
			if !errors.Is(err, ErrPersistence) {
				t.Fatalf("Expected ErrPersistence, got %v", err)
			}
			assert.Equal(t, before, s.State(), "state is kept when loading fails")
		})
	}
}

func TestSession_SaveFailure(t *testing.T) {
	store := storage.NewMockStorage()
	store.SetSaveError(errors.New("disk full"))
	s := testSession(t, store, "en")

	err := s.Save(context.Background())
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSession_LoadEnforcesLimits(t *testing.T) {
	store := storage.NewMockStorage()
	ctx := context.Background()
	gs := state.NewGameState("S6")
	gs.DaysLeft = 0
	require.NoError(t, store.SaveGameState(ctx, "default", gs))

	s := testSession(t, store, "en")
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, state.EndingTime, s.State().Scene)
	assert.True(t, s.Ended())
}

func TestSession_AcknowledgeEnding(t *testing.T) {
	s := testSession(t, storage.NewMockStorage(), "en")
	ctx := context.Background()
	first := s.State().RunID

	// Acknowledge mid-story does nothing.
	s.Acknowledge()
	assert.Equal(t, first, s.State().RunID)

	require.NoError(t, s.Choose(ctx, 2))
	require.True(t, s.Ended())
	v, err := s.View()
	require.NoError(t, err)
	assert.True(t, v.IsEnding)

	s.Acknowledge()
	assert.False(t, s.Ended())
	assert.Equal(t, "S1", s.State().Scene)
	assert.NotEqual(t, first, s.State().RunID)
	assert.Equal(t, "en", s.Locale(), "locale survives a restart")
}

func TestSession_Locale(t *testing.T) {
	s := testSession(t, storage.NewMockStorage(), "sv_SE.UTF-8")
	assert.Equal(t, "sv", s.Locale())
	assert.Equal(t, "HÄLSA: 3   DYGN KVAR: 3   MISSTANKE: 0   ALLIERADE: Nej", s.StatusLine())

	v, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, "Uppdraget", v.Title)

	s.SetLocale("en-US")
	assert.Equal(t, "en", s.Locale())
	assert.Equal(t, "Game saved.", s.Text("saved"))
}

// TestSession_Playthrough walks the story from the first scene to the
// virtuous ending, encounters included.
func TestSession_Playthrough(t *testing.T) {
	s := testSession(t, storage.NewMockStorage(), "en")
	ctx := context.Background()

	path := []struct {
		choice int
		scene  string
	}{
		{1, "S2"},
		{1, "S3"},
		{1, "S4"},
		{1, "S5A"}, // pursuit
		{1, "S6"},
		{1, "S7"},
		{1, "S8"},
		{1, "S9"},
		{2, "S10"}, // collection
		{1, "S11"},
		{1, "S12"},
		{1, "S13"},
		{1, state.EndingVirtuous},
	}
	for i, step := range path {
		require.NoError(t, s.Choose(ctx, step.choice))
		if s.State().Scene != step.scene {
			t.Fatalf("step %d: expected scene %s, got %s", i+1, step.scene, s.State().Scene)
		}
	}
	assert.Equal(t, 2, s.State().Health)
	assert.Equal(t, 2, s.State().DaysLeft)
	assert.True(t, s.State().WindomAllies)
}
