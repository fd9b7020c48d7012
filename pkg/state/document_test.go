package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameState_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		setup func(gs *GameState)
	}{
		{
			name:  "fresh game",
			setup: func(gs *GameState) {},
		},
		{
			name: "decided flags and pending return",
			setup: func(gs *GameState) {
				gs.Scene = EncounterPursuit
				gs.Health = 2
				gs.DaysLeft = 1
				gs.Suspicion = 4
				gs.TrustNina = TriFalse
				gs.WindomAllies = true
				gs.DiskHidden = true
				gs.HasDisk = false
				gs.Solo = true
				gs.KilledHenchmen = 2
				gs.ReturnScene = "S5A"
			},
		},
		{
			name: "trusted nina",
			setup: func(gs *GameState) {
				gs.TrustNina = TriTrue
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs := NewGameState("S1")
			tt.setup(gs)

			data, err := json.Marshal(gs)
			require.NoError(t, err)

			var loaded GameState
			require.NoError(t, json.Unmarshal(data, &loaded))
			assert.Equal(t, *gs, loaded)
		})
	}
}

func TestGameState_DocumentNulls(t *testing.T) {
	gs := NewGameState("S1")
	doc := gs.Document()

	v, ok := doc["trust_nina"]
	assert.True(t, ok, "trust_nina key should be present")
	assert.Nil(t, v)

	v, ok = doc["return_scene"]
	assert.True(t, ok, "return_scene key should be present")
	assert.Nil(t, v)

	assert.Equal(t, 3, doc["health"])
	assert.Equal(t, true, doc["has_disk"])
	assert.Equal(t, "S1", doc["scene"])
}

func TestFromDocument_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
	}{
		{name: "nil document", doc: nil},
		{name: "missing scene", doc: Document{"health": 3}},
		{name: "scene wrong type", doc: Document{"scene": 4}},
		{name: "unknown field", doc: Document{"scene": "S1", "mana": 3}},
		{name: "negative health", doc: Document{"scene": "S1", "health": -1}},
		{name: "fractional days", doc: Document{"scene": "S1", "days_left": 1.5}},
		{name: "bool as string", doc: Document{"scene": "S1", "solo": "yes"}},
		{name: "tri-state as number", doc: Document{"scene": "S1", "trust_nina": 1}},
		{name: "bad run id", doc: Document{"scene": "S1", "run_id": "not-a-uuid"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gs, err := FromDocument(tt.doc)
			assert.Error(t, err)
			assert.Nil(t, gs)
		})
	}
}

func TestFromDocument_Defaults(t *testing.T) {
	gs, err := FromDocument(Document{"scene": "S4", "health": float64(2)})
	require.NoError(t, err)
	assert.Equal(t, "S4", gs.Scene)
	assert.Equal(t, 2, gs.Health)
	assert.Equal(t, StartingDays, gs.DaysLeft)
	assert.True(t, gs.HasDisk)
	assert.Equal(t, TriUnknown, gs.TrustNina)
}

func TestGameState_UnmarshalMalformed(t *testing.T) {
	var gs GameState
	assert.Error(t, json.Unmarshal([]byte(`{"scene": "S1", "health": "three"}`), &gs))
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &gs))
}
