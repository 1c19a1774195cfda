// internal/httpserver/routes_daily.go
//
// Daily puzzle route.
//   - GET /daily → today's date key and puzzle (same for every caller all day)
//
// The pick is deterministic: a keyed hash of the UTC date selects an index
// into the catalogue. Start a session for it with POST /sessions {"daily":true}.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/daily"
	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// mountDaily registers the /daily route.
func (s *Server) mountDaily(r chi.Router) {
	r.Get("/daily", s.handleDaily)
}

// dailyPuzzle returns today's date key and puzzle.
func (s *Server) dailyPuzzle(ctx context.Context) (string, puzzle.Puzzle, error) {
	now := s.now()
	date := daily.DateKey(now)
	n, err := s.puzzles.Count(ctx)
	if err != nil {
		return date, puzzle.Puzzle{}, err
	}
	if n == 0 {
		return date, puzzle.Puzzle{}, puzzle.ErrNotFound
	}
	p, err := s.puzzles.At(ctx, daily.PuzzleIndex(now, s.cfg.DailySalt, n))
	return date, p, err
}

// dailyRes is returned by /daily.
type dailyRes struct {
	Date   string     `json:"date"`
	Puzzle puzzleView `json:"puzzle"`
}

// handleDaily returns today's puzzle.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date, p, err := s.dailyPuzzle(r.Context())
	if err != nil {
		if isNotFound(err) {
			http.Error(w, `{"error":"no_puzzles"}`, http.StatusNotFound)
			return
		}
		log.Error().Err(err).Msg("daily puzzle")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(dailyRes{Date: date, Puzzle: viewOf(p, true)})
}
