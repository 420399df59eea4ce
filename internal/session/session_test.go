package session //nolint:testpackage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lk16/reversi/internal/models"
	"github.com/lk16/reversi/internal/othello"
	"github.com/lk16/reversi/internal/search"
	"github.com/stretchr/testify/require"
)

func newTestStore() *Store {
	return NewStore(search.NewEngine(search.AlphaBeta))
}

func TestParseHumans(t *testing.T) {
	tests := []struct {
		input string
		want  Humans
	}{
		{"", Humans{Black: true}},
		{"black", Humans{Black: true}},
		{"white", Humans{White: true}},
		{"both", Humans{Black: true, White: true}},
		{"none", Humans{}},
	}

	for _, test := range tests {
		humans, err := ParseHumans(test.input)
		require.NoError(t, err)
		require.Equal(t, test.want, humans)
	}

	_, err := ParseHumans("green")
	require.Error(t, err)

	require.Equal(t, "both", Humans{Black: true, White: true}.String())
	require.True(t, Humans{White: true}.Plays(othello.WHITE))
	require.False(t, Humans{White: true}.Plays(othello.BLACK))
}

func TestSession_State(t *testing.T) {
	session, err := newTestStore().Create(Humans{Black: true}, 2)
	require.NoError(t, err)

	state := session.State()
	require.Equal(t, session.ID().String(), state.ID)
	require.Equal(t, "black", state.Turn)
	require.Equal(t, "black", state.Human)
	require.Equal(t, 2, state.Depth)
	require.Equal(t, 2, state.BlackDiscs)
	require.Equal(t, 2, state.WhiteDiscs)
	require.Equal(t, []string{"c4", "e6", "f5", "d3"}, state.LegalMoves)
	require.Equal(t, "0000102004080000", state.LegalMask)
	require.Equal(t, othello.NewBoard().String(), state.BoardString)
	require.False(t, state.AITurn)
	require.False(t, state.GameOver)
	require.Empty(t, state.Winner)
	require.Empty(t, state.Transcript)
}

func TestSession_PlayAgainstComputer(t *testing.T) {
	session, err := newTestStore().Create(Humans{Black: true}, 1)
	require.NoError(t, err)

	_, err = session.ComputeAIMove(context.Background())
	require.ErrorIs(t, err, ErrNotAITurn)

	_, err = session.PlayMove(othello.Move{Row: 0, Col: 0})
	require.ErrorIs(t, err, othello.ErrIllegalMove)

	state, err := session.PlayMove(othello.Move{Row: 2, Col: 3})
	require.NoError(t, err)
	require.Equal(t, "white", state.Turn)
	require.Equal(t, "d3", state.Transcript)
	require.True(t, state.AITurn)

	_, err = session.PlayMove(othello.Move{Row: 2, Col: 2})
	require.ErrorIs(t, err, ErrNotYourTurn)

	state, err = session.ComputeAIMove(context.Background())
	require.NoError(t, err)
	require.Equal(t, "black", state.Turn)
	require.Len(t, state.Board, othello.Size)
	require.Equal(t, 6, state.BlackDiscs+state.WhiteDiscs)
	require.False(t, state.AITurn)

	state, err = session.Undo()
	require.NoError(t, err)
	require.Equal(t, "black", state.Turn)
	require.Empty(t, state.Transcript)
	require.Equal(t, othello.NewBoard().String(), state.BoardString)

	state, err = session.Undo()
	require.NoError(t, err)
	require.Empty(t, state.Transcript)
}

func TestSession_ComputerPlaysBothSides(t *testing.T) {
	session, err := newTestStore().Create(Humans{}, 0)
	require.NoError(t, err)

	_, ok := session.FinishedResult()
	require.False(t, ok)

	_, err = session.PlayMove(othello.Move{Row: 2, Col: 3})
	require.ErrorIs(t, err, ErrNotYourTurn)

	var finished bool
	for range 100 {
		state, err := session.ComputeAIMove(context.Background())
		require.NoError(t, err)
		if state.GameOver {
			finished = true
			require.Empty(t, state.LegalMoves)
			require.NotEmpty(t, state.Winner)
			require.LessOrEqual(t, state.BlackDiscs+state.WhiteDiscs, 64)
			break
		}
	}
	require.True(t, finished)

	_, err = session.ComputeAIMove(context.Background())
	require.ErrorIs(t, err, ErrGameOver)

	_, err = session.PlayMove(othello.PassMove)
	require.ErrorIs(t, err, ErrGameOver)

	result, ok := session.FinishedResult()
	require.True(t, ok)
	require.Equal(t, session.ID(), result.ID)
	require.Equal(t, 0, result.Depth)
	require.Equal(t, session.State().BlackDiscs, result.BlackDiscs)
	require.Equal(t, session.State().WhiteDiscs, result.WhiteDiscs)
	require.Equal(t, len(session.game.Moves()), result.MoveCount)

	_, ok = session.FinishedResult()
	require.False(t, ok)
}

func TestSession_ComputeAIMoveCanceled(t *testing.T) {
	release := make(chan struct{})
	blocking := func(board othello.Board, player int) int {
		<-release
		return search.Evaluate(board, player)
	}

	store := NewStore(search.NewEngine(search.AlphaBeta, search.WithEvaluator(blocking)))
	session, err := store.Create(Humans{White: true}, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = session.ComputeAIMove(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = session.ComputeAIMove(context.Background())
	require.ErrorIs(t, err, ErrThinking)

	_, err = session.Undo()
	require.ErrorIs(t, err, ErrThinking)

	close(release)

	require.Eventually(t, func() bool {
		session.mutex.Lock()
		defer session.mutex.Unlock()
		return !session.thinking
	}, time.Second, time.Millisecond)

	// The late result is dropped.
	require.Empty(t, session.State().Transcript)

	state, err := session.ComputeAIMove(context.Background())
	require.NoError(t, err)
	require.Equal(t, "white", state.Turn)
}

func TestStore(t *testing.T) {
	store := newTestStore()

	_, err := store.Create(Humans{Black: true}, search.MaxDepth+1)
	require.Error(t, err)

	session, err := store.Create(Humans{Black: true}, 2)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	found, err := store.Get(session.ID().String())
	require.NoError(t, err)
	require.Same(t, session, found)

	_, err = store.Get("not-a-uuid")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = store.Get("2b0c8a0e-8c4b-4d8a-9b8e-1d0f2f6b8a11")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Delete(session.ID().String()))
	require.Equal(t, 0, store.Len())
	require.ErrorIs(t, store.Delete(session.ID().String()), ErrNotFound)
}

func TestStore_Prune(t *testing.T) {
	store := newTestStore()

	idle, err := store.Create(Humans{Black: true}, 1)
	require.NoError(t, err)
	active, err := store.Create(Humans{Black: true}, 1)
	require.NoError(t, err)

	idle.mutex.Lock()
	idle.lastActive = time.Now().Add(-2 * time.Hour)
	idle.mutex.Unlock()

	require.Equal(t, 1, store.Prune(time.Hour))
	require.Equal(t, 1, store.Len())

	_, err = store.Get(active.ID().String())
	require.NoError(t, err)
	_, err = store.Get(idle.ID().String())
	require.ErrorIs(t, err, ErrNotFound)
}

type fakeRecorder struct {
	enabled bool
	err     error
	results []models.GameResult
}

func (r *fakeRecorder) Enabled() bool {
	return r.enabled
}

func (r *fakeRecorder) RecordResult(_ context.Context, result models.GameResult) error {
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, result)
	return nil
}

func finishedSession(t *testing.T) *Session {
	session, err := newTestStore().Create(Humans{}, 0)
	require.NoError(t, err)

	for !session.State().GameOver {
		_, err = session.ComputeAIMove(context.Background())
		require.NoError(t, err)
	}

	return session
}

func TestSession_RecordResult(t *testing.T) {
	running, err := newTestStore().Create(Humans{}, 0)
	require.NoError(t, err)

	recorder := &fakeRecorder{enabled: true}
	require.NoError(t, running.RecordResult(context.Background(), recorder))
	require.Empty(t, recorder.results)

	session := finishedSession(t)

	require.NoError(t, session.RecordResult(context.Background(), &fakeRecorder{}))

	failing := &fakeRecorder{enabled: true, err: errors.New("connection refused")}
	require.Error(t, session.RecordResult(context.Background(), failing))

	require.NoError(t, session.RecordResult(context.Background(), recorder))
	require.NoError(t, session.RecordResult(context.Background(), recorder))
	require.Len(t, recorder.results, 1)
	require.Equal(t, session.ID(), recorder.results[0].ID)
}

func TestSession_UndoRefused(t *testing.T) {
	running, err := newTestStore().Create(Humans{}, 0)
	require.NoError(t, err)

	_, err = running.ComputeAIMove(context.Background())
	require.NoError(t, err)

	_, err = running.Undo()
	require.ErrorIs(t, err, ErrNoHumans)
	require.Len(t, running.game.Moves(), 1)

	session := finishedSession(t)
	session.humans = Humans{Black: true}
	transcript := session.State().Transcript

	recorder := &fakeRecorder{enabled: true}
	require.NoError(t, session.RecordResult(context.Background(), recorder))

	_, err = session.Undo()
	require.ErrorIs(t, err, ErrGameOver)
	require.Equal(t, transcript, session.State().Transcript)

	require.NoError(t, session.RecordResult(context.Background(), recorder))
	require.Len(t, recorder.results, 1)
}
