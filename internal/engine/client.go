// internal/engine/client.go
//
// JSON-over-HTTP client for the remote Mastermind engine.
// Responsibilities:
//   - One method per /api operation (initialize, set-secret, guess,
//     end-round, new-round, state).
//   - Session cookie persistence through a cookie jar, so consecutive calls
//     hit the same engine-side game.
//   - Request correlation ids (X-Request-Id) and optional bearer tokens.
//   - Turning every failure into a *RequestError and rejecting snapshots
//     that break the state invariants.
//
// Notes:
//   - No retries and no client timeout: a call either completes or fails.
//     Cancellation is whatever the caller's context carries.

package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"

	"github.com/robalobadob/mastermind/internal/game"
)

// maxBody bounds how much of a response is read.
const maxBody = 1 << 20

// Options configures a Client. Zero values pick sensible defaults.
type Options struct {
	HTTPClient *http.Client    // default: fresh client with a cookie jar
	Logger     *zerolog.Logger // default: global zerolog logger
	Signer     *Signer         // optional bearer token source
}

// Client talks to one engine base URL (e.g. http://localhost:1000/api).
type Client struct {
	base   string
	http   *http.Client
	log    zerolog.Logger
	signer *Signer
}

// New constructs a Client for baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("engine base url is empty")
	}
	hc := opts.HTTPClient
	if hc == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		hc = &http.Client{Jar: jar}
	}
	lg := log.Logger
	if opts.Logger != nil {
		lg = *opts.Logger
	}
	return &Client{
		base:   baseURL,
		http:   hc,
		log:    lg.With().Str("component", "engine").Logger(),
		signer: opts.Signer,
	}, nil
}

// Initialize starts a fresh game on the engine.
func (c *Client) Initialize(ctx context.Context, req InitRequest) (*game.State, error) {
	var res stateRes
	if err := c.do(ctx, "initialize", http.MethodPost, "/initialize", req, &res); err != nil {
		return nil, err
	}
	return c.checkState("initialize", res.State)
}

// SetSecret commits the mastermind's code.
func (c *Client) SetSecret(ctx context.Context, secret []game.Color) (*game.State, error) {
	var res stateRes
	if err := c.do(ctx, "set-secret", http.MethodPost, "/set-secret", secretReq{Secret: secret}, &res); err != nil {
		return nil, err
	}
	return c.checkState("set-secret", res.State)
}

// Guess submits one guess and returns the scored outcome.
func (c *Client) Guess(ctx context.Context, guess []game.Color) (*GuessResult, error) {
	var res GuessResult
	if err := c.do(ctx, "guess", http.MethodPost, "/guess", guessReq{Guess: guess}, &res); err != nil {
		return nil, err
	}
	st, err := c.checkState("guess", res.State)
	if err != nil {
		return nil, err
	}
	res.State = st
	return &res, nil
}

// EndRound asks the engine to resolve the finished round.
func (c *Client) EndRound(ctx context.Context) (*game.RoundResult, error) {
	var res endRoundRes
	if err := c.do(ctx, "end-round", http.MethodPost, "/end-round", nil, &res); err != nil {
		return nil, err
	}
	if res.Result == nil {
		return nil, &RequestError{Op: "end-round", Status: http.StatusOK, Err: errors.New("response missing result")}
	}
	return res.Result, nil
}

// NewRound starts the next round (new palette, roles swapped in two-player).
func (c *Client) NewRound(ctx context.Context) (*game.State, error) {
	var res stateRes
	if err := c.do(ctx, "new-round", http.MethodPost, "/new-round", nil, &res); err != nil {
		return nil, err
	}
	return c.checkState("new-round", res.State)
}

// State fetches the engine's current snapshot. The endpoint returns the
// bare state object rather than an envelope.
func (c *Client) State(ctx context.Context) (*game.State, error) {
	var st game.State
	if err := c.do(ctx, "state", http.MethodGet, "/state", nil, &st); err != nil {
		return nil, err
	}
	return c.checkState("state", &st)
}

func (c *Client) checkState(op string, st *game.State) (*game.State, error) {
	if st == nil {
		return nil, &RequestError{Op: op, Status: http.StatusOK, Err: errors.New("response missing state")}
	}
	if err := st.Check(); err != nil {
		c.log.Warn().Str("op", op).Err(err).Msg("engine returned inconsistent state")
		return nil, &RequestError{Op: op, Status: http.StatusOK, Err: fmt.Errorf("inconsistent state: %w", err)}
	}
	return st, nil
}

// do performs one request and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.signer != nil {
		tok, err := c.signer.Token()
		if err != nil {
			return &RequestError{Op: op, Err: fmt.Errorf("sign token: %w", err)}
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Str("op", op).Str("requestId", reqID).Err(err).Msg("engine unreachable")
		return &RequestError{Op: op, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return &RequestError{Op: op, Status: res.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	ev := c.log.Debug()
	if res.StatusCode >= 300 {
		ev = c.log.Warn()
	}
	ev.Str("op", op).
		Str("requestId", reqID).
		Int("status", res.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("engine call")

	var env envelope
	envErr := json.Unmarshal(raw, &env)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &RequestError{Op: op, Status: res.StatusCode, Message: env.Error}
	}
	if envErr == nil && env.Success != nil && !*env.Success {
		return &RequestError{Op: op, Status: res.StatusCode, Message: env.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestError{Op: op, Status: res.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
