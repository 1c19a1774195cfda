package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/puzzle"
)

// ErrNotFound is returned when a puzzle ID or index does not exist.
var ErrNotFound = puzzle.ErrNotFound

// Store reads and writes puzzles in the puzzles table.
// Boards and word lists are stored as JSON text.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Put inserts or replaces a puzzle after validating it.
func (s *Store) Put(ctx context.Context, p puzzle.Puzzle) error {
	if err := p.Validate(); err != nil {
		return err
	}
	board, err := json.Marshal(p.Board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	words, err := json.Marshal(p.Words)
	if err != nil {
		return fmt.Errorf("encode words: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO puzzles(id, theme, board, words) VALUES(?,?,?,?)
		ON CONFLICT(id) DO UPDATE SET theme=excluded.theme, board=excluded.board, words=excluded.words`,
		p.ID, p.Theme, string(board), string(words),
	)
	return err
}

// Get loads one puzzle by ID.
func (s *Store) Get(ctx context.Context, id string) (puzzle.Puzzle, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, theme, board, words FROM puzzles WHERE id=?`, id)
	return scanPuzzle(row)
}

// At loads the puzzle at position i in ID order.
func (s *Store) At(ctx context.Context, i int) (puzzle.Puzzle, error) {
	if i < 0 {
		return puzzle.Puzzle{}, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id, theme, board, words FROM puzzles ORDER BY id LIMIT 1 OFFSET ?`, i)
	return scanPuzzle(row)
}

// List returns every puzzle ordered by ID.
func (s *Store) List(ctx context.Context) ([]puzzle.Puzzle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, theme, board, words FROM puzzles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []puzzle.Puzzle{}
	for rows.Next() {
		p, err := scanPuzzle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of stored puzzles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM puzzles`).Scan(&n)
	return n, err
}

// Seed stores puzzles that are not in the catalogue yet and returns how many
// were added. Words that cannot be found on their board are logged.
func Seed(ctx context.Context, s *Store, list []puzzle.Puzzle) (int, error) {
	added := 0
	for _, p := range list {
		if _, err := s.Get(ctx, p.ID); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return added, err
		}
		if missing := p.Unfindable(); len(missing) > 0 {
			log.Warn().Str("puzzle", p.ID).Strs("words", missing).Msg("words not on board")
		}
		if err := s.Put(ctx, p); err != nil {
			return added, fmt.Errorf("seed %s: %w", p.ID, err)
		}
		added++
	}
	return added, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPuzzle(sc scanner) (puzzle.Puzzle, error) {
	var p puzzle.Puzzle
	var board, words string
	if err := sc.Scan(&p.ID, &p.Theme, &board, &words); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, ErrNotFound
		}
		return p, err
	}
	if err := json.Unmarshal([]byte(board), &p.Board); err != nil {
		return p, fmt.Errorf("decode board %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(words), &p.Words); err != nil {
		return p, fmt.Errorf("decode words %s: %w", p.ID, err)
	}
	return p, nil
}
