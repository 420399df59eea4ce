package session

import (
	"context"
	"log/slog"

	"github.com/lk16/reversi/internal/models"
)

// ResultRecorder stores finished games.
type ResultRecorder interface {
	Enabled() bool
	RecordResult(ctx context.Context, result models.GameResult) error
}

// RecordResult stores the result of a finished game with recorder. It does nothing when
// the game is still running, was recorded before or recorder is disabled.
func (s *Session) RecordResult(ctx context.Context, recorder ResultRecorder) error {
	if !recorder.Enabled() {
		return nil
	}

	result, ok := s.FinishedResult()
	if !ok {
		return nil
	}

	if err := recorder.RecordResult(ctx, result); err != nil {
		s.mutex.Lock()
		s.recorded = false
		s.mutex.Unlock()
		return err
	}

	slog.Info("Recorded game result", "id", result.ID, "winner", result.Winner,
		"black", result.BlackDiscs, "white", result.WhiteDiscs, "depth", result.Depth)
	return nil
}
