// internal/session/controller.go
//
// Session state machine for the Mastermind client.
// Responsibilities:
//   - Own the single authoritative State snapshot and the current Phase.
//   - Validate input locally before any engine call.
//   - Call the engine, swap in the returned snapshot, move the phase, and
//     drive the screen router and score display.
//   - Resolve a round (end-round) immediately after a guess that ends it.
//
// Rules:
//   - State is replaced wholesale, never patched; readers hold immutable
//     snapshots.
//   - One operation at a time: a second call while one is outstanding
//     returns ErrBusy.
//   - Failed engine calls leave state and phase exactly as they were.

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/engine"
	"github.com/robalobadob/mastermind/internal/game"
)

// AllowDuplicateGuesses is product policy: guesses, like secrets, must use
// distinct colors.
const AllowDuplicateGuesses = false

// Engine is the remote scoring engine as seen by the controller.
type Engine interface {
	Initialize(ctx context.Context, req engine.InitRequest) (*game.State, error)
	SetSecret(ctx context.Context, secret []game.Color) (*game.State, error)
	Guess(ctx context.Context, guess []game.Color) (*engine.GuessResult, error)
	EndRound(ctx context.Context) (*game.RoundResult, error)
	NewRound(ctx context.Context) (*game.State, error)
	State(ctx context.Context) (*game.State, error)
}

// Navigator shows the screen bound to a phase.
type Navigator interface {
	Navigate(p Phase) error
}

// ScoreDisplay shows cumulative scores; nil state hides the display.
type ScoreDisplay interface {
	ShowScores(st *game.State)
}

// Options wires optional collaborators.
type Options struct {
	Navigator Navigator
	Scores    ScoreDisplay
	Logger    *zerolog.Logger
}

// Config is the Setup screen's output.
type Config struct {
	Mode        game.Mode
	Difficulty  game.Difficulty
	PegCount    int
	PlayerNames *game.PlayerNames // two-player only
}

// GuessOutcome reports what a submitted guess did.
type GuessOutcome struct {
	Score     game.Feedback
	Solved    bool
	RoundOver bool
	Result    *game.RoundResult // set once the round has been resolved
}

// Controller is the session state machine.
type Controller struct {
	eng    Engine
	nav    Navigator
	scores ScoreDisplay
	log    zerolog.Logger

	op sync.Mutex // held for the whole of each operation

	mu      sync.RWMutex // guards the fields below
	phase   Phase
	state   *game.State
	result  *game.RoundResult
	pending bool // round over on the engine, end-round not yet applied
}

// New returns a controller in SETUP with no session.
func New(eng Engine, opts Options) *Controller {
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	return &Controller{
		eng:    eng,
		nav:    opts.Navigator,
		scores: opts.Scores,
		log:    lg.With().Str("component", "session").Logger(),
		phase:  PhaseSetup,
	}
}

// SetNavigator attaches the screen router after construction.
func (c *Controller) SetNavigator(n Navigator) { c.nav = n }

// SetScoreDisplay attaches the score display after construction.
func (c *Controller) SetScoreDisplay(d ScoreDisplay) { c.scores = d }

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// State returns the current snapshot, or nil outside a session.
// The snapshot must not be modified.
func (c *Controller) State() *game.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Result returns the last round result while in ROUND_OVER.
func (c *Controller) Result() *game.RoundResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// PendingResolution reports that the engine ended the round but end-round
// failed; ResolveRound retries it.
func (c *Controller) PendingResolution() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pending
}

// StartSession validates cfg locally, initializes the engine game and
// enters SECRET_ENTRY (two-player) or GUESSING (solo).
func (c *Controller) StartSession(ctx context.Context, cfg Config) error {
	if err := c.begin(PhaseSetup); err != nil {
		return err
	}
	defer c.op.Unlock()

	req, err := buildInitRequest(cfg)
	if err != nil {
		return err
	}
	st, err := c.eng.Initialize(ctx, req)
	if err != nil {
		c.log.Warn().Err(err).Msg("initialize failed")
		return err
	}
	if st.Mode != req.Mode {
		return inconsistent("initialize", fmt.Errorf("asked for mode %s, got %s", req.Mode, st.Mode))
	}
	c.log.Info().
		Str("mode", string(st.Mode)).
		Str("difficulty", string(st.Difficulty)).
		Int("pegs", st.PegCount).
		Msg("session started")
	c.commit(st, nil, false, entryPhase(st.Mode))
	return nil
}

func buildInitRequest(cfg Config) (engine.InitRequest, error) {
	if !cfg.Mode.Valid() {
		return engine.InitRequest{}, game.Invalidf("Unknown mode %q", cfg.Mode)
	}
	d := cfg.Difficulty
	if d == "" {
		d = game.DifficultyNormal
	}
	if !d.Valid() {
		return engine.InitRequest{}, game.Invalidf("Unknown difficulty %q", d)
	}
	if err := game.ValidatePegCount(cfg.PegCount); err != nil {
		return engine.InitRequest{}, err
	}
	req := engine.InitRequest{Mode: cfg.Mode, Difficulty: d, PegCount: cfg.PegCount}
	if cfg.Mode == game.ModeTwoPlayer {
		names, err := game.ValidatePlayerNames(cfg.PlayerNames)
		if err != nil {
			return engine.InitRequest{}, err
		}
		req.PlayerNames = &names
	}
	return req, nil
}

// CommitSecret sends the mastermind's code and moves to HANDOVER.
func (c *Controller) CommitSecret(ctx context.Context, secret []game.Color) error {
	if err := c.begin(PhaseSecretEntry); err != nil {
		return err
	}
	defer c.op.Unlock()

	if err := game.ValidateCode(c.State(), secret, false); err != nil {
		return err
	}
	st, err := c.eng.SetSecret(ctx, secret)
	if err != nil {
		c.log.Warn().Err(err).Msg("set-secret failed")
		return err
	}
	c.log.Info().Int("round", st.RoundNumber).Msg("secret committed")
	c.commit(st, nil, false, PhaseHandover)
	return nil
}

// AdvanceToGuessing is the local HANDOVER -> GUESSING step.
func (c *Controller) AdvanceToGuessing() error {
	if err := c.begin(PhaseHandover); err != nil {
		return err
	}
	defer c.op.Unlock()

	c.commit(c.State(), nil, false, PhaseGuessing)
	return nil
}

// SubmitGuess sends one guess. When the engine reports the round over, the
// round is resolved before returning; both calls form one operation.
func (c *Controller) SubmitGuess(ctx context.Context, guess []game.Color) (*GuessOutcome, error) {
	if err := c.begin(PhaseGuessing); err != nil {
		return nil, err
	}
	defer c.op.Unlock()

	if c.PendingResolution() {
		return nil, fmt.Errorf("%w: round is over, resolve it first", ErrInvalidPhase)
	}
	prev := c.State()
	if err := game.ValidateCode(prev, guess, AllowDuplicateGuesses); err != nil {
		return nil, err
	}

	res, err := c.eng.Guess(ctx, guess)
	if err != nil {
		c.log.Warn().Err(err).Msg("guess failed")
		return nil, err
	}
	if err := checkGuessResult(prev, res); err != nil {
		c.log.Warn().Err(err).Msg("guess response rejected")
		return nil, err
	}
	out := &GuessOutcome{Score: res.Score, Solved: res.Solved, RoundOver: res.RoundOver}
	c.log.Debug().
		Int("attempt", res.State.AttemptsUsed).
		Int("black", res.Score.Black).
		Int("white", res.Score.White).
		Bool("roundOver", res.RoundOver).
		Msg("guess scored")

	if !res.RoundOver {
		c.commit(res.State, nil, false, PhaseGuessing)
		return out, nil
	}

	// The guess is recorded either way; resolution follows immediately.
	c.commit(res.State, nil, true, PhaseGuessing)
	result, err := c.resolveRound(ctx)
	if err != nil {
		c.navigate(PhaseGuessing)
		return out, err
	}
	out.Result = result
	return out, nil
}

// checkGuessResult enforces history/attempt agreement and the round-over
// ordering rule on a guess response.
func checkGuessResult(prev *game.State, res *engine.GuessResult) error {
	st := res.State
	if st.AttemptsUsed != prev.AttemptsUsed+1 || res.AttemptsUsed != st.AttemptsUsed {
		return inconsistent("guess", fmt.Errorf("attempts went from %d to %d (reported %d)",
			prev.AttemptsUsed, st.AttemptsUsed, res.AttemptsUsed))
	}
	if res.RoundOver && !res.Solved && st.AttemptsUsed < st.MaxAttempts {
		return inconsistent("guess", fmt.Errorf("round over unsolved after %d/%d attempts",
			st.AttemptsUsed, st.MaxAttempts))
	}
	return nil
}

// ResolveRound retries end-round after a failed automatic resolution.
func (c *Controller) ResolveRound(ctx context.Context) (*game.RoundResult, error) {
	if err := c.begin(PhaseGuessing); err != nil {
		return nil, err
	}
	defer c.op.Unlock()

	if !c.PendingResolution() {
		return nil, fmt.Errorf("%w: round is still in progress", ErrInvalidPhase)
	}
	return c.resolveRound(ctx)
}

// resolveRound runs end-round and enters ROUND_OVER. Callers hold c.op.
func (c *Controller) resolveRound(ctx context.Context) (*game.RoundResult, error) {
	prev := c.State()
	result, err := c.eng.EndRound(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("end-round failed")
		return nil, err
	}
	if err := checkScores(prev.Scores, result.TotalScores); err != nil {
		c.log.Warn().Err(err).Msg("end-round response rejected")
		return nil, err
	}
	c.log.Info().
		Bool("solved", result.Solved).
		Str("winner", result.Winner).
		Int("points", result.PointsAwarded).
		Msg("round resolved")
	c.commit(prev.WithRoundResult(result), result, false, PhaseRoundOver)
	return result, nil
}

// sameSession rejects a snapshot that belongs to a differently configured
// session than prev.
func sameSession(op string, prev, st *game.State) error {
	switch {
	case st.Mode != prev.Mode:
		return inconsistent(op, fmt.Errorf("mode changed from %s to %s", prev.Mode, st.Mode))
	case st.PegCount != prev.PegCount:
		return inconsistent(op, fmt.Errorf("peg count changed from %d to %d", prev.PegCount, st.PegCount))
	case st.PlayerNames != prev.PlayerNames:
		return inconsistent(op, fmt.Errorf("player names changed from %+v to %+v", prev.PlayerNames, st.PlayerNames))
	}
	return nil
}

// checkRefresh accepts only the same round at the same or a later attempt.
// A refreshed snapshot never changes the phase, so it cannot open a new round.
func checkRefresh(prev, st *game.State) error {
	if err := sameSession("state", prev, st); err != nil {
		return err
	}
	if st.RoundNumber != prev.RoundNumber {
		return inconsistent("state", fmt.Errorf("round number went from %d to %d", prev.RoundNumber, st.RoundNumber))
	}
	if st.AttemptsUsed < prev.AttemptsUsed {
		return inconsistent("state", fmt.Errorf("attempts went from %d to %d", prev.AttemptsUsed, st.AttemptsUsed))
	}
	if err := checkScores(prev.Scores, st.Scores); err != nil {
		return err
	}
	return nil
}

// checkScores rejects totals that go backwards.
func checkScores(before, after game.Scores) error {
	if after.ClassicPlayer < before.ClassicPlayer ||
		after.Mastermind < before.Mastermind ||
		after.Guesser < before.Guesser {
		return inconsistent("end-round", fmt.Errorf("scores decreased from %+v to %+v", before, after))
	}
	return nil
}

// StartNewRound requests the next round and enters SECRET_ENTRY or GUESSING.
func (c *Controller) StartNewRound(ctx context.Context) error {
	if err := c.begin(PhaseRoundOver); err != nil {
		return err
	}
	defer c.op.Unlock()

	prev := c.State()
	st, err := c.eng.NewRound(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("new-round failed")
		return err
	}
	if err := sameSession("new-round", prev, st); err != nil {
		c.log.Warn().Err(err).Msg("new-round response rejected")
		return err
	}
	if st.RoundNumber <= prev.RoundNumber {
		return inconsistent("new-round", fmt.Errorf("round number went from %d to %d", prev.RoundNumber, st.RoundNumber))
	}
	c.log.Info().Int("round", st.RoundNumber).Str("mastermind", string(st.CurrentMastermind)).Msg("new round")
	c.commit(st, nil, false, entryPhase(st.Mode))
	return nil
}

// Refresh re-reads the engine state without changing phase.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.op.TryLock() {
		return ErrBusy
	}
	defer c.op.Unlock()

	prev := c.State()
	if prev == nil {
		return ErrNoSession
	}
	st, err := c.eng.State(ctx)
	if err != nil {
		return err
	}
	if err := checkRefresh(prev, st); err != nil {
		c.log.Warn().Err(err).Msg("state response rejected")
		return err
	}
	c.commit(st, c.Result(), c.PendingResolution(), c.Phase())
	return nil
}

// EndSession discards the session and returns to SETUP. No engine call.
func (c *Controller) EndSession() error {
	if !c.op.TryLock() {
		return ErrBusy
	}
	defer c.op.Unlock()

	c.log.Info().Msg("session ended")
	c.commit(nil, nil, false, PhaseSetup)
	return nil
}

// begin takes the operation lock and checks the phase. On success the
// caller owns c.op and must unlock it.
func (c *Controller) begin(allowed Phase) error {
	if !c.op.TryLock() {
		return ErrBusy
	}
	if p := c.Phase(); p != allowed {
		c.op.Unlock()
		return fmt.Errorf("%w: %s", ErrInvalidPhase, p)
	}
	return nil
}

// commit swaps in a new snapshot and phase, then updates the display.
func (c *Controller) commit(st *game.State, result *game.RoundResult, pending bool, to Phase) {
	c.mu.Lock()
	from := c.phase
	if from != to && !from.CanTransitionTo(to) {
		c.mu.Unlock()
		// Operations only ever request legal edges.
		panic(fmt.Sprintf("session: illegal transition %s -> %s", from, to))
	}
	c.state, c.result, c.pending, c.phase = st, result, pending, to
	c.mu.Unlock()

	if from != to {
		c.log.Debug().Str("from", string(from)).Str("to", string(to)).Msg("phase")
	}
	if c.scores != nil {
		c.scores.ShowScores(st)
	}
	if !pending {
		c.navigate(to)
	}
}

func (c *Controller) navigate(p Phase) {
	if c.nav == nil {
		return
	}
	if err := c.nav.Navigate(p); err != nil {
		c.log.Error().Err(err).Str("phase", string(p)).Msg("navigate")
	}
}

// inconsistent wraps an invariant violation in an engine error so it is
// handled like any other failed call.
func inconsistent(op string, err error) error {
	return &engine.RequestError{Op: op, Status: http.StatusOK, Err: errors.Join(errors.New("inconsistent engine response"), err)}
}
