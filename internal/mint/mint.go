package mint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dmitrymomot/websession/internal/app"
	"github.com/dmitrymomot/websession/internal/config"
	pkgconfig "github.com/dmitrymomot/websession/pkg/config"
	"github.com/dmitrymomot/websession/pkg/logger"
	"github.com/dmitrymomot/websession/pkg/session"
	"github.com/dmitrymomot/websession/pkg/session/sessiontest"
)

var (
	// ErrProcessLocalStore is returned when SESSION_STORE=memory.
	ErrProcessLocalStore = errors.New("mint.process_local_store")
	ErrUsage             = errors.New("mint.usage")
)

// Option configures App.
type Option func(*options)

type options struct {
	out     io.Writer
	errOut  io.Writer
	environ map[string]string
}

// WithOutput sets where command results and diagnostics are written.
func WithOutput(out, errOut io.Writer) Option {
	return func(o *options) {
		if out != nil {
			o.out = out
		}
		if errOut != nil {
			o.errOut = errOut
		}
	}
}

// WithEnvironment reads configuration from vars instead of the process
// environment and .env files.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.environ = vars }
}

// App returns the sessionmint application.
func App(opts ...Option) *cli.App {
	o := &options{out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	return &cli.App{
		Name:      "sessionmint",
		Usage:     "Issue and inspect websession cookies",
		Writer:    o.out,
		ErrWriter: o.errOut,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Usage:   "Load variables from these files instead of ./.env",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log session events to stderr",
			},
		},
		Commands: []*cli.Command{
			issueCommand(o),
			inspectCommand(o),
			revokeCommand(o),
		},
	}
}

func (o *options) loadConfig(c *cli.Context) (config.Config, error) {
	var lopts []pkgconfig.Option
	switch {
	case o.environ != nil:
		lopts = append(lopts, pkgconfig.WithEnvironment(o.environ))
	case len(c.StringSlice("env-file")) > 0:
		lopts = append(lopts, pkgconfig.WithEnvFiles(c.StringSlice("env-file")...))
	}

	cfg, err := config.Load(lopts...)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (o *options) logger(c *cli.Context) *slog.Logger {
	if !c.Bool("verbose") {
		return logger.Discard()
	}
	return logger.New(
		logger.WithOutput(o.errOut),
		logger.WithFormat(logger.FormatText),
		logger.WithLevelName("debug"),
	)
}

// openManager builds a manager backed by the configured store. The caller
// must call the returned close function.
func (o *options) openManager(c *cli.Context, cfg config.Config) (*session.Manager, func(), error) {
	if cfg.Store == config.StoreMemory {
		return nil, nil, fmt.Errorf("%w: set SESSION_STORE to cookie, redis or postgres", ErrProcessLocalStore)
	}

	log := o.logger(c)
	stores, err := app.OpenStore(c.Context, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	m, err := session.New(cfg.Session, session.WithLogger(log), session.WithStore(stores.Store))
	if err != nil {
		stores.Close()
		return nil, nil, err
	}
	return m, stores.Close, nil
}

func issueCommand(o *options) *cli.Command {
	return &cli.Command{
		Name:  "issue",
		Usage: "Issue a session cookie",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "user-id",
				Aliases: []string{"u"},
				Usage:   "User ID (a synthetic test user when empty)",
			},
			&cli.BoolFlag{
				Name:    "remember",
				Aliases: []string{"r"},
				Usage:   "Issue a remember-me session",
			},
			&cli.StringFlag{
				Name:    "domain",
				Aliases: []string{"d"},
				Value:   sessiontest.DefaultDomain,
				Usage:   "Cookie domain reported to the browser driver",
			},
			outputFlag(),
		},
		Action: func(c *cli.Context) error {
			format, err := ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			cfg, err := o.loadConfig(c)
			if err != nil {
				return err
			}
			m, closeStore, err := o.openManager(c, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			issueOpts := []sessiontest.Option{sessiontest.WithDomain(c.String("domain"))}
			if c.Bool("remember") {
				issueOpts = append(issueOpts, sessiontest.WithRemember())
			}

			ck, err := sessiontest.Issue(c.Context, m, c.String("user-id"), issueOpts...)
			if err != nil {
				return fmt.Errorf("issue session: %w", err)
			}
			return WriteCookie(c.App.Writer, format, ck)
		},
	}
}

func inspectCommand(o *options) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Verify a token and print its session record",
		ArgsUsage: "TOKEN",
		Flags:     []cli.Flag{outputFlag()},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("%w: inspect expects exactly one TOKEN argument", ErrUsage)
			}
			format, err := ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			cfg, err := o.loadConfig(c)
			if err != nil {
				return err
			}

			// signature and expiry only; revocation needs the store
			m, err := session.New(cfg.Session, session.WithLogger(o.logger(c)))
			if err != nil {
				return err
			}
			rec, err := m.Codec().Decode(c.Args().First())
			if err != nil {
				return fmt.Errorf("inspect token: %w", err)
			}
			return WriteRecord(c.App.Writer, format, rec)
		},
	}
}

func revokeCommand(o *options) *cli.Command {
	return &cli.Command{
		Name:  "revoke",
		Usage: "Revoke every session of a user",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "user-id",
				Aliases:  []string{"u"},
				Usage:    "User ID",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := o.loadConfig(c)
			if err != nil {
				return err
			}
			m, closeStore, err := o.openManager(c, cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := m.RevokeUser(c.Context, c.String("user-id")); err != nil {
				return fmt.Errorf("revoke sessions: %w", err)
			}
			_, err = fmt.Fprintf(c.App.Writer, "revoked all sessions of %s\n", c.String("user-id"))
			return err
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   string(FormatJSON),
		Usage:   "Output format: json, yaml, header or value",
	}
}

// Run executes the app with args, using ctx for store connections.
func Run(ctx context.Context, args []string, opts ...Option) error {
	return App(opts...).RunContext(ctx, args)
}
