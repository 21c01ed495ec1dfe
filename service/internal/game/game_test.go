// internal/game/game_test.go
package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	engine "github.com/jason-s-yu/donut/engine"
	"github.com/jason-s-yu/donut/service/internal/equilibrium"
)

// mockBroadcaster captures game events for testing assertions.
type mockBroadcaster struct {
	mu        sync.Mutex
	allEvents []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) types() []GameEventType {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	out := make([]GameEventType, len(mb.allEvents))
	for i, ev := range mb.allEvents {
		out[i] = ev.Type
	}
	return out
}

func (mb *mockBroadcaster) findEventByType(eventType GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == eventType {
			return &mb.allEvents[i]
		}
	}
	return nil
}

// countingProvider records how often it was asked for a strategy.
type countingProvider struct {
	next  equilibrium.Provider
	calls int
}

func (p *countingProvider) Strategy(ctx context.Context, n int) ([]float64, error) {
	p.calls++
	return p.next.Strategy(ctx, n)
}

// setupTestGame creates a game wired to a mock broadcaster.
func setupTestGame(t *testing.T, settings Settings, provider equilibrium.Provider) (*DonutGame, *mockBroadcaster) {
	t.Helper()
	mb := &mockBroadcaster{}
	g := NewDonutGame(settings, provider)
	g.BroadcastFn = mb.broadcastFn
	return g, mb
}

func seedPtr(s uint64) *uint64 { return &s }

// findSeed returns a seed whose first draws send a lone Random opponent at a
// two-seat table to the given choices.
func findSeed(t *testing.T, want ...int) uint64 {
	t.Helper()
	for seed := uint64(0); seed < 10000; seed++ {
		rng := NewRand(seed)
		ok := true
		for _, c := range want {
			got := 0
			if rng.Float64() >= 0.5 {
				got = 1
			}
			if got != c {
				ok = false
				break
			}
		}
		if ok {
			return seed
		}
	}
	t.Fatalf("no seed yields %v", want)
	return 0
}

func TestStartBroadcastsInitialState(t *testing.T) {
	g, mb := setupTestGame(t, Settings{Roster: []string{"Randy", "Dory"}, ScoreLimit: 3}, nil)
	require.NoError(t, g.Start(context.Background()))

	ev := mb.findEventByType(EventGameStart)
	require.NotNil(t, ev)
	require.NotNil(t, ev.State)

	st := g.State()
	assert.True(t, st.Started)
	assert.Equal(t, 3, st.NumChoices)
	assert.Equal(t, 3, st.ScoreLimit)
	assert.Zero(t, st.Round)
	assert.Nil(t, st.LastOutcome)
	require.Len(t, st.Players, 3)
	assert.Equal(t, engine.HumanID, st.Players[0].ID)
	assert.Equal(t, "human", st.Players[0].Role)
	assert.Equal(t, "random", st.Players[1].Archetype)
	assert.Equal(t, "reactive", st.Players[2].Archetype)
	for _, p := range st.Players {
		assert.Nil(t, p.LastMove)
		assert.Zero(t, p.Score)
	}
}

func TestStartRejectsBadSettings(t *testing.T) {
	cases := []struct {
		name     string
		settings Settings
	}{
		{"no AI", Settings{ScoreLimit: 3}},
		{"reserved id", Settings{Roster: []string{"You"}, ScoreLimit: 3}},
		{"duplicate id", Settings{Roster: []string{"Dory", "Dory"}, ScoreLimit: 3}},
		{"unknown archetype", Settings{Roster: []string{"Bob"}, ScoreLimit: 3}},
		{"zero score limit", Settings{Roster: []string{"Dory"}, ScoreLimit: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, mb := setupTestGame(t, tc.settings, nil)
			err := g.Start(context.Background())
			assert.ErrorIs(t, err, engine.ErrConfiguration)
			assert.False(t, g.State().Started)
			assert.Empty(t, mb.types())
		})
	}
}

func TestStartRejectsEquilibriumAboveSeven(t *testing.T) {
	roster := []string{"Nash", "Dory1", "Dory2", "Dory3", "Dory4", "Dory5", "Dory6"}
	p := &countingProvider{next: equilibrium.StaticProvider{}}
	g, _ := setupTestGame(t, Settings{Roster: roster, ScoreLimit: 3}, p)

	err := g.Start(context.Background())
	assert.ErrorIs(t, err, engine.ErrConfiguration)
	assert.Zero(t, p.calls)
}

func TestStartLoadsEquilibriumOnlyWhenNeeded(t *testing.T) {
	p := &countingProvider{next: equilibrium.StaticProvider{3: {0.5, 0.3, 0.2}}}

	g, _ := setupTestGame(t, Settings{Roster: []string{"Dory", "Sage"}, ScoreLimit: 3}, p)
	require.NoError(t, g.Start(context.Background()))
	assert.Zero(t, p.calls, "no Equilibrium player seated")

	g, _ = setupTestGame(t, Settings{Roster: []string{"Nash", "Sage"}, ScoreLimit: 3}, p)
	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, []float64{0.5, 0.3, 0.2}, g.Engine.Equilibrium)
}

func TestStartEquilibriumErrors(t *testing.T) {
	t.Run("no provider", func(t *testing.T) {
		g, _ := setupTestGame(t, Settings{Roster: []string{"Nash"}, ScoreLimit: 3}, nil)
		assert.ErrorIs(t, g.Start(context.Background()), engine.ErrConfiguration)
	})
	t.Run("missing table", func(t *testing.T) {
		g, _ := setupTestGame(t, Settings{Roster: []string{"Nash"}, ScoreLimit: 3}, equilibrium.StaticProvider{})
		assert.ErrorIs(t, g.Start(context.Background()), equilibrium.ErrNotFound)
	})
	t.Run("wrong length", func(t *testing.T) {
		p := equilibrium.StaticProvider{2: {1}}
		g, _ := setupTestGame(t, Settings{Roster: []string{"Nash"}, ScoreLimit: 3}, p)
		assert.ErrorIs(t, g.Start(context.Background()), engine.ErrInvalidDistribution)
	})
	t.Run("bad sum", func(t *testing.T) {
		p := equilibrium.StaticProvider{2: {0.4, 0.4}}
		g, _ := setupTestGame(t, Settings{Roster: []string{"Nash"}, ScoreLimit: 3}, p)
		assert.ErrorIs(t, g.Start(context.Background()), engine.ErrInvalidDistribution)
	})
}

func TestSubmitMoveBeforeStart(t *testing.T) {
	g, _ := setupTestGame(t, Settings{Roster: []string{"Dory"}, ScoreLimit: 3}, nil)
	_, err := g.SubmitMove(0)
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSubmitMoveRejectsOutOfRangeChoice(t *testing.T) {
	g, mb := setupTestGame(t, Settings{Roster: []string{"Randy"}, ScoreLimit: 3, Seed: seedPtr(7)}, nil)
	require.NoError(t, g.Start(context.Background()))
	before := g.State()

	for _, c := range []int{-1, 2} {
		_, err := g.SubmitMove(c)
		assert.ErrorIs(t, err, engine.ErrInvalidMove)
	}
	assert.Equal(t, before, g.State())
	assert.Nil(t, mb.findEventByType(EventRoundResult))
}

// TestTwoPlayerSessionToScoreLimit drives a full session against a seeded
// Random opponent that plays 1, 1, 0, 1 while the human always plays 0.
func TestTwoPlayerSessionToScoreLimit(t *testing.T) {
	seed := findSeed(t, 1, 1, 0, 1)
	g, mb := setupTestGame(t, Settings{Roster: []string{"Randy"}, ScoreLimit: 3, Seed: &seed}, nil)

	var ended []string
	g.OnGameEnd = func(id uuid.UUID, winner string, scores map[string]int) {
		assert.Equal(t, g.ID, id)
		assert.Equal(t, map[string]int{"You": 3, "Randy": 0}, scores)
		ended = append(ended, winner)
	}
	require.NoError(t, g.Start(context.Background()))
	assert.Equal(t, seed, g.Seed())

	want := []struct {
		randy  int
		winner string
		draw   bool
		human  int
	}{
		{1, "You", false, 1},
		{1, "You", false, 2},
		{0, "", true, 2},
		{1, "You", false, 3},
	}
	for i, w := range want {
		res, err := g.SubmitMove(0)
		require.NoError(t, err, "round %d", i+1)
		assert.Equal(t, i+1, res.Round)
		assert.Equal(t, map[string]int{"You": 0, "Randy": w.randy}, res.Moves)
		assert.Equal(t, w.winner, res.Winner)
		assert.Equal(t, w.draw, res.Draw)
		assert.Equal(t, w.human, res.Scores["You"])
		assert.Zero(t, res.Scores["Randy"])
		if w.draw {
			assert.Equal(t, map[string]int{"You": 0, "Randy": 0}, res.Points)
		} else {
			assert.Equal(t, map[string]int{"You": 1, "Randy": 0}, res.Points)
		}
	}

	assert.True(t, g.IsGameOver())
	assert.Equal(t, []string{"You"}, ended)

	st := g.State()
	assert.True(t, st.GameOver)
	assert.Equal(t, "You", st.OverallWinner)
	assert.Equal(t, 3, st.Score("You"))
	assert.Equal(t, 0, st.Score("Randy"))

	_, err := g.SubmitMove(0)
	assert.ErrorIs(t, err, engine.ErrGameOver)
	assert.Equal(t, st, g.State(), "state must not change after the game ends")
	assert.Len(t, ended, 1)

	end := mb.findEventByType(EventGameEnd)
	require.NotNil(t, end)
	assert.Equal(t, "You", end.Winner)
	assert.Equal(t, []GameEventType{
		EventGameStart,
		EventRoundResult, EventRoundResult, EventRoundResult, EventRoundResult,
		EventGameEnd,
	}, mb.types())
}

func TestSeededSessionsReplay(t *testing.T) {
	settings := Settings{Roster: []string{"Randy", "Dory", "Sage", "Karl"}, ScoreLimit: 50, Seed: seedPtr(42)}
	a, _ := setupTestGame(t, settings, nil)
	b, _ := setupTestGame(t, settings, nil)
	require.NoError(t, a.Start(context.Background()))
	require.NoError(t, b.Start(context.Background()))

	for i := 0; i < 20; i++ {
		ra, err := a.SubmitMove(i % 5)
		require.NoError(t, err)
		rb, err := b.SubmitMove(i % 5)
		require.NoError(t, err)
		assert.Equal(t, ra, rb, "round %d", i+1)
	}
}

func TestResetChangesTableSize(t *testing.T) {
	g, mb := setupTestGame(t, Settings{Roster: []string{"Randy"}, ScoreLimit: 3, Seed: seedPtr(1)}, nil)
	require.NoError(t, g.Start(context.Background()))
	_, err := g.SubmitMove(0)
	require.NoError(t, err)

	require.NoError(t, g.Reset(context.Background(), Settings{Roster: []string{"Dory", "Sage", "Karl"}, ScoreLimit: 2}))
	st := g.State()
	assert.Equal(t, 4, st.NumChoices)
	assert.Equal(t, 2, st.ScoreLimit)
	assert.Zero(t, st.Round)
	assert.Len(t, g.Engine.Global, 4)
	assert.Len(t, g.Engine.PerPlayer, 4)
	for _, row := range g.Engine.PerPlayer {
		assert.Len(t, row, 4)
	}
	assert.Equal(t, []GameEventType{EventGameStart, EventRoundResult, EventGameStart}, mb.types())
}

func TestResetFailureKeepsSession(t *testing.T) {
	g, _ := setupTestGame(t, Settings{Roster: []string{"Randy"}, ScoreLimit: 3, Seed: seedPtr(1)}, nil)
	require.NoError(t, g.Start(context.Background()))
	_, err := g.SubmitMove(0)
	require.NoError(t, err)
	before := g.State()

	err = g.Reset(context.Background(), Settings{Roster: []string{"Nobody"}, ScoreLimit: 3})
	assert.ErrorIs(t, err, engine.ErrConfiguration)
	assert.Equal(t, before, g.State())
	assert.Equal(t, []string{"Randy"}, g.Settings.Roster)
}

func TestStartHonoursContext(t *testing.T) {
	dir := t.TempDir()
	g, _ := setupTestGame(t, Settings{Roster: []string{"Nash"}, ScoreLimit: 3}, equilibrium.NewFileProvider(dir))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := g.Start(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, equilibrium.ErrNotFound))
}

func TestSyncStateBroadcastsSnapshot(t *testing.T) {
	g, mb := setupTestGame(t, Settings{Roster: []string{"Dory"}, ScoreLimit: 3}, nil)
	require.NoError(t, g.Start(context.Background()))
	g.SyncState()

	ev := mb.findEventByType(EventSyncState)
	require.NotNil(t, ev)
	require.NotNil(t, ev.State)
	assert.Equal(t, g.ID, ev.State.GameID)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	g := NewDonutGame(Settings{Roster: []string{"Dory"}, ScoreLimit: 3}, nil)
	r.Add(g)

	got, err := r.Get(g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, r.Len())

	_, err = r.Get(uuid.New())
	assert.ErrorIs(t, err, ErrGameNotFound)

	r.Remove(g.ID)
	assert.Zero(t, r.Len())
	r.Remove(g.ID)
}

func TestRegistryPruneIdle(t *testing.T) {
	r := NewRegistry()
	stale := NewDonutGame(Settings{}, nil)
	stale.LastActivity = time.Now().Add(-2 * time.Hour)
	fresh := NewDonutGame(Settings{}, nil)
	r.Add(stale)
	r.Add(fresh)

	assert.Equal(t, 1, r.PruneIdle(time.Now().Add(-time.Hour)))
	_, err := r.Get(stale.ID)
	assert.ErrorIs(t, err, ErrGameNotFound)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestAttachDetach(t *testing.T) {
	g := NewDonutGame(Settings{Roster: []string{"Dory"}, ScoreLimit: 3}, nil)
	first, second := &mockBroadcaster{}, &mockBroadcaster{}

	detachFirst := g.Attach(first.broadcastFn)
	detachSecond := g.Attach(second.broadcastFn)
	detachFirst() // replaced already; must not remove the second broadcaster

	require.NoError(t, g.Start(context.Background()))
	assert.Empty(t, first.types())
	assert.Equal(t, []GameEventType{EventGameStart}, second.types())

	detachSecond()
	g.SyncState()
	assert.Len(t, second.types(), 1)
}
