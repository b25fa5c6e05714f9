// cmd/mastermind/main.go
//
// Terminal client for a remote Mastermind engine.
// Responsibilities:
//   - Load configuration (.env, environment, then flags).
//   - Configure zerolog on stderr so logs never mix with the game screen.
//   - Build the engine client, session controller and line-command UI.
//   - Read commands from stdin until quit, EOF or Ctrl-C.

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/engine"
	"github.com/robalobadob/mastermind/internal/session"
	"github.com/robalobadob/mastermind/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "mastermind:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("mastermind", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.EngineURL, "engine", cfg.EngineURL, "engine base url (ends in /api)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "trace|debug|info|warn|error")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "console|json")
	fs.StringVar(&cfg.Player, "player", cfg.Player, "name sent in the bearer token")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colors")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	setupLogging(cfg, stderr)

	var signer *engine.Signer
	if cfg.JWTSecret != "" {
		if signer, err = engine.NewSigner(cfg.JWTSecret, cfg.Player, cfg.JWTTTL); err != nil {
			return err
		}
	}
	client, err := engine.New(cfg.EngineURL, engine.Options{Signer: signer})
	if err != nil {
		return err
	}
	log.Info().Str("engine", cfg.EngineURL).Bool("auth", signer != nil).Msg("starting mastermind client")

	ctrl := session.New(client, session.Options{})
	app := ui.New(ctrl, stdout, ui.NewTheme(stdout, cfg.NoColor || !isTerminal(stdout)))
	if err := app.Start(); err != nil {
		return err
	}
	return loop(ctx, app, stdin, stdout)
}

// setupLogging points the global logger at stderr.
func setupLogging(cfg config.Config, stderr io.Writer) {
	zerolog.SetGlobalLevel(cfg.Level())
	if cfg.LogFormat == "json" {
		log.Logger = zerolog.New(stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, NoColor: cfg.NoColor || !isTerminal(stderr)})
}

// loop feeds stdin lines to the app. The reader runs on its own goroutine so
// Ctrl-C is noticed while waiting for input.
func loop(ctx context.Context, app *ui.App, stdin io.Reader, stdout io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel() // releases the reader once the loop returns
	prompt := isTerminal(stdin)
	lines, readErr := readLines(ctx, stdin)

	for {
		if prompt {
			fmt.Fprint(stdout, "> ")
		}
		select {
		case <-ctx.Done():
			fmt.Fprintln(stdout)
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-readErr; err != nil && ctx.Err() == nil {
					return err
				}
				return nil
			}
			if app.Dispatch(ctx, line) {
				return nil
			}
		}
	}
}

// readLines scans r on a goroutine. The goroutine stops at EOF, on a read
// error, or when ctx is done while it waits to hand over a line; it then
// sends its exit reason (nil at EOF) on the error channel and closes lines.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
