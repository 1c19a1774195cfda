// internal/httpserver/server.go
//
// HTTP adapter around the selection engine.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/", "/health", "/puzzles", "/daily".
//   - Session endpoints: create a session for a puzzle, feed it pointer events,
//     read its render state, discard it.
//   - Signed session tokens: only the client that created a session may drive it.
//
// Notes:
//   - Every session gets a fresh engine; nothing is shared between puzzles.
//   - Engine calls go through store.Session.Do, so concurrent requests for one
//     session are applied one at a time.
//   - Cells outside the grid are rejected here; the engine assumes valid cells.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordsearch/internal/game"
	"github.com/robalobadob/wordsearch/internal/puzzle"
	"github.com/robalobadob/wordsearch/internal/store"
	"github.com/robalobadob/wordsearch/internal/words"
)

// Catalog is the read side of the puzzle catalogue.
type Catalog interface {
	Get(ctx context.Context, id string) (puzzle.Puzzle, error)
	At(ctx context.Context, i int) (puzzle.Puzzle, error)
	List(ctx context.Context) ([]puzzle.Puzzle, error)
	Count(ctx context.Context) (int, error)
}

// Config holds the server settings read from the environment.
type Config struct {
	Secret       string        // HS256 key for session tokens
	TokenTTL     time.Duration // session token lifetime
	DailySalt    string        // key for the daily puzzle pick
	ClientOrigin string        // allowed CORS origin
}

// ConfigFromEnv reads SESSION_SECRET, SESSION_TTL_HOURS, DAILY_SALT and CLIENT_ORIGIN.
func ConfigFromEnv() Config {
	hours := 24
	if v := os.Getenv("SESSION_TTL_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			hours = n
		}
	}
	return Config{
		Secret:       getEnv("SESSION_SECRET", "dev_secret_change_me"),
		TokenTTL:     time.Duration(hours) * time.Hour,
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}
}

// Server bundles router, session store and puzzle catalogue.
type Server struct {
	r        *chi.Mux
	sessions store.Store
	puzzles  Catalog
	cfg      Config
	now      func() time.Time
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, cat Catalog, cfg Config) *Server {
	s := &Server{r: chi.NewRouter(), sessions: st, puzzles: cat, cfg: cfg, now: time.Now}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one log line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))          // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"wordsearch-go","endpoints":["/health","/puzzles","/daily","POST /sessions","POST /sessions/{id}/events"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/puzzles", s.handleListPuzzles)
	s.mountDaily(s.r)

	s.r.Post("/sessions", s.handleNewSession)
	s.r.Route("/sessions/{id}", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleGetSession)
		r.Post("/events", s.handleEvent)
		r.Delete("/", s.handleDeleteSession)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger writes one zerolog line per request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("reqId", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// ------------------------------ PUZZLES ------------------------------------

// puzzleView is the public shape of a puzzle. Words are shown uppercase.
type puzzleView struct {
	ID         string            `json:"id"`
	Theme      string            `json:"theme,omitempty"`
	Board      [][]string        `json:"board,omitempty"`
	Words      []string          `json:"words"`
	Dimensions puzzle.Dimensions `json:"dimensions"`
}

func viewOf(p puzzle.Puzzle, withBoard bool) puzzleView {
	v := puzzleView{ID: p.ID, Theme: p.Theme, Dimensions: p.Dimensions(), Words: []string{}}
	for _, w := range words.Normalize(p.Words) {
		v.Words = append(v.Words, words.Key(w))
	}
	if withBoard {
		v.Board = p.Board
	}
	return v
}

// handleListPuzzles lists the catalogue without boards.
func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	list, err := s.puzzles.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list puzzles")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	out := make([]puzzleView, 0, len(list))
	for _, p := range list {
		out = append(out, viewOf(p, false))
	}
	_ = json.NewEncoder(w).Encode(out)
}

// ------------------------------ SESSIONS -----------------------------------

// newSessionReq/Res payloads for POST /sessions.
type newSessionReq struct {
	PuzzleID string `json:"puzzleId"`
	Daily    bool   `json:"daily"` // ignore PuzzleID and play today's puzzle
}
type newSessionRes struct {
	SessionID string        `json:"sessionId"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expiresAt"`
	Puzzle    puzzleView    `json:"puzzle"`
	State     game.Snapshot `json:"state"`
}

// handleNewSession creates a session with a fresh engine for the requested puzzle.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	var (
		p   puzzle.Puzzle
		err error
	)
	if req.Daily {
		_, p, err = s.dailyPuzzle(r.Context())
	} else {
		p, err = s.puzzles.Get(r.Context(), req.PuzzleID)
	}
	if err != nil {
		if isNotFound(err) {
			http.Error(w, `{"error":"puzzle_not_found"}`, http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("puzzle", req.PuzzleID).Msg("load puzzle")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}

	sess := store.NewSession(p.ID, game.New(p.Grid(), p.Words))
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	log.Info().Str("session", sess.ID).Str("puzzle", p.ID).Msg("session created")

	res := newSessionRes{SessionID: sess.ID, Token: tok, ExpiresAt: exp, Puzzle: viewOf(p, true)}
	sess.Do(func(e *game.Engine) { res.State = e.Snapshot() })
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(res)
}

// stateRes is the render state of one session.
type stateRes struct {
	SessionID string `json:"sessionId"`
	PuzzleID  string `json:"puzzleId"`
	game.Snapshot
}

// handleGetSession returns the engine snapshot.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	res := stateRes{SessionID: sess.ID, PuzzleID: sess.PuzzleID}
	sess.Do(func(e *game.Engine) { res.Snapshot = e.Snapshot() })
	_ = json.NewEncoder(w).Encode(res)
}

// Pointer event types accepted by POST /sessions/{id}/events.
const (
	eventDown  = "down"
	eventEnter = "enter"
	eventUp    = "up"
)

// eventReq/Res payloads for POST /sessions/{id}/events.
type eventReq struct {
	Type string `json:"type"`
	Row  int    `json:"row"` // ignored for "up"
	Col  int    `json:"col"`
}
type eventRes struct {
	stateRes
	NewlySolved string `json:"newlySolved,omitempty"`
}

// handleEvent applies one pointer event to the session's engine.
func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	var req eventReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	switch req.Type {
	case eventDown, eventEnter, eventUp:
	default:
		http.Error(w, `{"error":"bad_event"}`, http.StatusBadRequest)
		return
	}

	cell := game.Cell{Row: req.Row, Col: req.Col}
	res := eventRes{stateRes: stateRes{SessionID: sess.ID, PuzzleID: sess.PuzzleID}}
	outOfGrid := false

	sess.Do(func(e *game.Engine) {
		if req.Type != eventUp {
			if _, ok := e.Letter(cell); !ok {
				outOfGrid = true
				return
			}
		}
		switch req.Type {
		case eventDown:
			e.Begin(cell)
		case eventEnter:
			e.Extend(cell)
		case eventUp:
			before := len(e.SolvedWords())
			e.End()
			if solved := e.SolvedWords(); len(solved) > before {
				res.NewlySolved = solved[len(solved)-1]
			}
		}
		res.Snapshot = e.Snapshot()
	})

	if outOfGrid {
		http.Error(w, `{"error":"out_of_grid"}`, http.StatusBadRequest)
		return
	}
	if res.NewlySolved != "" {
		log.Info().Str("session", sess.ID).Str("word", res.NewlySolved).Bool("complete", res.Complete).Msg("word solved")
	}
	_ = json.NewEncoder(w).Encode(res)
}

// handleDeleteSession discards the session and its engine.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("delete session")
		http.Error(w, `{"error":"delete_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// --------------------------- session tokens --------------------------------

// signToken creates an HS256 JWT carrying the session ID in the "sid" claim.
func (s *Server) signToken(sid string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.Secret))
	return ss, exp, err
}

// ctxSessionKey is the context key type for storing the resolved session.
type ctxSessionKey struct{}

// requireSession enforces a valid token for the {id} in the path and injects
// the session into the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		tokenStr := bearer(r)
		if tokenStr == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(s.cfg.Secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
		if err != nil || !token.Valid {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		if sid, _ := claims["sid"].(string); sid == "" || sid != id {
			http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
			return
		}
		sess, err := s.sessions.Get(r.Context(), id)
		if err != nil {
			http.Error(w, `{"error":"session_not_found"}`, http.StatusNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(ctx context.Context) *store.Session {
	sess, _ := ctx.Value(ctxSessionKey{}).(*store.Session)
	return sess
}

// bearer extracts a bearer token from the Authorization header.
func bearer(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// ------------------------------- small util --------------------------------

// isNotFound reports whether err means the puzzle does not exist.
func isNotFound(err error) bool { return errors.Is(err, puzzle.ErrNotFound) }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
