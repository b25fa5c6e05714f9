// internal/enginetest/server.go
//
// HTTP engine double for the Mastermind /api protocol.
// Responsibilities:
//   - Router + middleware (JSON, request IDs, panic recovery).
//   - Public endpoints: "/", "/health".
//   - Game endpoints under /api: initialize, set-secret, guess, end-round,
//     new-round (POST) and state (GET).
//   - Session cookie so each client drives its own game.
//   - Optional JWT bearer auth on /api.
//   - Test hooks: call log, forced failures, request holds.
//
// Notes:
//   - Every failure is {"success":false,"error":"..."} with a 4xx/5xx status.
//   - Game mutations are serialized by a single mutex; the double is not
//     meant to be fast.

package enginetest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
)

// Options tunes the double.
type Options struct {
	JWTSecret string     // when set, /api requires a valid bearer token
	Secret    SecretFunc // classic-mode secret chooser; default FirstColors
}

// Server bundles router, game store and test hooks.
type Server struct {
	r     *chi.Mux
	store Store
	opts  Options

	gameMu sync.Mutex // serializes game mutations

	mu       sync.Mutex // guards the hooks below
	calls    []string
	failures map[string]failure
	holds    map[string]*hold
}

type failure struct {
	status  int
	message string
}

type hold struct {
	arrived chan struct{}
	release chan struct{}
}

// New constructs a Server, installs middleware, and registers routes.
func New(opts Options) *Server {
	if opts.Secret == nil {
		opts.Secret = FirstColors
	}
	s := &Server{
		r:        chi.NewRouter(),
		store:    NewMemoryStore(),
		opts:     opts,
		failures: make(map[string]failure),
		holds:    make(map[string]*hold),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // honour X-Request-Id from the client
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(jsonContentType) // default JSON responses

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"mastermind-engine-double","endpoints":["/health","/api/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		if opts.JWTSecret != "" {
			r.Use(requireAuth(opts.JWTSecret))
		}
		r.Post("/initialize", s.op("initialize", s.handleInitialize))
		r.Post("/set-secret", s.op("set-secret", s.handleSetSecret))
		r.Post("/guess", s.op("guess", s.handleGuess))
		r.Post("/end-round", s.op("end-round", s.handleEndRound))
		r.Post("/new-round", s.op("new-round", s.handleNewRound))
		r.Get("/state", s.op("state", s.handleState))
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "not_found")
	})

	return s
}

// Router exposes the internal router.
func (s *Server) Router() chi.Router { return s.r }

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.r.ServeHTTP(w, r) }

// Start serves the double on a loopback listener. Callers close it.
// The engine base URL is URL + "/api".
func (s *Server) Start() *httptest.Server { return httptest.NewServer(s) }

// Calls returns the operations received so far, in order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CountCalls returns how many times op was received.
func (s *Server) CountCalls(op string) int {
	n := 0
	for _, c := range s.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

// FailNext makes the next call to op fail with status and message without
// touching game state. An empty message exercises the client's fallback.
func (s *Server) FailNext(op string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = failure{status: status, message: message}
}

// Hold blocks the next call to op until release is called. arrived closes
// once the request reaches the handler.
func (s *Server) Hold(op string) (arrived <-chan struct{}, release func()) {
	h := &hold{arrived: make(chan struct{}), release: make(chan struct{})}
	s.mu.Lock()
	s.holds[op] = h
	s.mu.Unlock()
	var once sync.Once
	return h.arrived, func() { once.Do(func() { close(h.release) }) }
}

// op wraps a handler with the call log, holds and forced failures.
func (s *Server) op(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, name)
		f, failing := s.failures[name]
		delete(s.failures, name)
		hd := s.holds[name]
		delete(s.holds, name)
		s.mu.Unlock()

		if hd != nil {
			close(hd.arrived)
			<-hd.release
		}
		if failing {
			log.Debug().Str("op", name).Int("status", f.status).Msg("forced failure")
			writeErr(w, f.status, f.message)
			return
		}
		h(w, r)
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ GAME ---------------------------------------

type initReq struct {
	Mode        game.Mode         `json:"mode"`
	Difficulty  game.Difficulty   `json:"difficulty"`
	PegCount    *int              `json:"peg_count"`
	PlayerNames *game.PlayerNames `json:"player_names"`
}

type codeReq struct {
	Secret []game.Color `json:"secret"`
	Guess  []game.Color `json:"guess"`
}

// handleInitialize replaces the session's game with a fresh one.
func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	pegs := 4
	if req.PegCount != nil {
		pegs = *req.PegCount
	}

	sess := ensureSession(w, r)
	g, err := NewGame(sess, req.Mode, req.Difficulty, pegs, req.PlayerNames, s.opts.Secret)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.Save(r.Context(), sess, g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeErr(w, http.StatusInternalServerError, "save_failed")
		return
	}
	ev := log.Debug().Str("session", sess).Str("mode", string(g.Mode)).Int("pegs", g.PegCount)
	if u, err := currentUser(r); err == nil {
		ev = ev.Str("user", u.Username)
	}
	ev.Msg("game initialized")
	writeJSON(w, map[string]any{"success": true, "state": g.Snapshot()})
}

// handleSetSecret stores the two-player secret.
func (s *Server) handleSetSecret(w http.ResponseWriter, r *http.Request) {
	var req codeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withGame(w, r, func(g *Game) {
		if err := g.SetSecret(req.Secret); err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, map[string]any{"success": true, "state": g.Snapshot()})
	})
}

// handleGuess scores one guess.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req codeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.withGame(w, r, func(g *Game) {
		score, over, err := g.ApplyGuess(req.Guess)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, map[string]any{
			"success":       true,
			"score":         score,
			"round_over":    over,
			"solved":        over && g.Solved(),
			"attempts_used": len(g.History),
			"state":         g.Snapshot(),
		})
	})
}

// handleEndRound resolves the finished round.
func (s *Server) handleEndRound(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *Game) {
		res, err := g.EndRound()
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, map[string]any{"success": true, "result": res})
	})
}

// handleNewRound opens the next round.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *Game) {
		g.StartNewRound()
		writeJSON(w, map[string]any{"success": true, "state": g.Snapshot()})
	})
}

// handleState returns the bare snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.withGame(w, r, func(g *Game) {
		writeJSON(w, g.Snapshot())
	})
}

// withGame loads the session's game and runs fn under the game mutex.
func (s *Server) withGame(w http.ResponseWriter, r *http.Request, fn func(g *Game)) {
	s.gameMu.Lock()
	defer s.gameMu.Unlock()
	g, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNoGame) {
			status = http.StatusConflict
		}
		writeErr(w, status, err.Error())
		return
	}
	fn(g)
}

// ------------------------------ session ------------------------------------

const sessionCookieName = "mm_session"

// sessionID returns the session cookie value or "".
func sessionID(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// ensureSession returns an existing session cookie or sets a new one.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := sessionID(r); id != "" {
		return id
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ------------------------------- writers -----------------------------------

func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	body := map[string]any{"success": false}
	if msg != "" {
		body["error"] = msg
	}
	_ = json.NewEncoder(w).Encode(body)
}
