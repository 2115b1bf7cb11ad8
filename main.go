// Package main is the entry point for the waypoints pricing page.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/billie-coop/waypoints/internal/config"
	"github.com/billie-coop/waypoints/internal/estimate"
	"github.com/billie-coop/waypoints/internal/logging"
	"github.com/billie-coop/waypoints/internal/tui"
	"github.com/billie-coop/waypoints/internal/watcher"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "dir, d",
		Usage: "project directory holding .waypoints/",
		Value: ".",
	},
	cli.StringFlag{
		Name:   "catalog, c",
		Usage:  "catalog file, overrides catalog_path",
		EnvVar: "WAYPOINTS_CATALOG",
	},
	cli.StringFlag{
		Name:  "theme",
		Usage: "color theme, overrides theme",
	},
	cli.BoolFlag{
		Name:  "debug",
		Usage: "log at debug level",
	},
	cli.BoolFlag{
		Name:  "touch",
		Usage: "disable scroll throttling",
	},
}

func main() {
	app := cli.App{
		Name:      "waypoints",
		HelpName:  "waypoints",
		Usage:     "browse the backyard catalog and build an estimate",
		UsageText: "waypoints [options] [command]",
		Flags:     globalFlags,
		Action:    browse,
		Commands: []cli.Command{
			{
				Name:      "config",
				Usage:     "show or change project settings",
				ArgsUsage: "[KEY VALUE]",
				Flags:     globalFlags,
				Action:    configure,
			},
			{
				Name:      "contact",
				Usage:     "show or set the contact details printed on the quote",
				ArgsUsage: "[FIELD VALUE...]",
				Description: "Fields: name, email, phone, address, message. " +
					"Words after FIELD are joined with spaces; an empty value clears the field.",
				Flags:  globalFlags,
				Action: contact,
			},
			{
				Name:   "quote",
				Usage:  "print the saved estimate as a quote",
				Flags:  globalFlags,
				Action: printQuote,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "waypoints: %s\n", err)
		os.Exit(1)
	}
}

// session is everything a command needs once config is loaded.
type session struct {
	cfg         *config.Config
	catalogPath string
	log         *zap.Logger
	store       estimate.Store
	state       *estimate.State
	estimate    *estimate.Estimate
}

func (s *session) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	_ = s.log.Sync()
}

func loadConfig(ctx *cli.Context) (*config.Manager, error) {
	dir, err := filepath.Abs(ctx.String("dir"))
	if err != nil {
		return nil, err
	}
	m := config.NewManager(dir)
	if err := m.Load(); err != nil {
		return nil, err
	}
	return m, nil
}

func open(ctx context.Context, c *cli.Context) (*session, error) {
	m, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	cfg := m.Get()
	if v := c.String("theme"); v != "" {
		cfg.Theme = v
	}
	if c.Bool("debug") {
		cfg.Debug = true
	}
	if c.Bool("touch") {
		cfg.Touch = true
	}

	log, err := logging.New(m.Path(cfg.LogPath), cfg.Debug)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: log}

	s.catalogPath = m.Path(cfg.CatalogPath)
	if v := c.String("catalog"); v != "" {
		s.catalogPath = v
	}
	catalog, err := estimate.LoadCatalog(s.catalogPath)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.store = openStore(m.Path(cfg.StorePath), log)
	s.state = estimate.NewState(s.store)
	s.estimate = estimate.New(catalog)
	if err := s.state.LoadSelections(ctx, s.estimate); err != nil {
		log.Warn("saved estimate not restored", zap.Error(err))
	}
	return s, nil
}

// openStore falls back to memory when the database cannot be opened, so
// the page still works read-only from a locked or missing directory.
func openStore(path string, log *zap.Logger) estimate.Store {
	if path == "" {
		return estimate.NewMemoryStore()
	}
	store, err := estimate.NewSQLiteStore(path)
	if err != nil {
		log.Warn("quote storage unavailable, keeping the estimate in memory",
			zap.String("path", path), zap.Error(err))
		return estimate.NewMemoryStore()
	}
	return store
}

func browse(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	s, err := open(ctx, c)
	if err != nil {
		return err
	}
	defer s.Close()

	model, err := tui.New(ctx, tui.Options{
		Estimate:      s.estimate,
		State:         s.state,
		Logger:        s.log,
		FrameInterval: s.cfg.FrameInterval(),
		Touch:         s.cfg.Touch,
		Theme:         s.cfg.Theme,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	watchCtx, stopWatching := context.WithCancel(gctx)
	g.Go(func() error {
		defer stopWatching()
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	if s.cfg.WatchCatalog {
		w := watcher.NewWatcher(watcher.DefaultDebounce, func([]string) {
			catalog, err := estimate.LoadCatalog(s.catalogPath)
			program.Send(tui.CatalogReloadedMsg{Catalog: catalog, Err: err})
		}, watcher.WithLogger(s.log))
		g.Go(func() error {
			return w.Watch(watchCtx, s.catalogPath)
		})
	}
	return g.Wait()
}

func configure(c *cli.Context) error {
	m, err := loadConfig(c)
	if err != nil {
		return err
	}
	switch c.NArg() {
	case 0:
		cfg := m.Get()
		for _, kv := range []struct {
			key   string
			value any
		}{
			{"catalog_path", cfg.CatalogPath},
			{"watch_catalog", cfg.WatchCatalog},
			{"store_path", cfg.StorePath},
			{"log_path", cfg.LogPath},
			{"debug", cfg.Debug},
			{"theme", cfg.Theme},
			{"touch", cfg.Touch},
			{"frame_interval_ms", cfg.FrameIntervalMS},
		} {
			fmt.Printf("%s = %v\n", kv.key, kv.value)
		}
		return nil
	case 2:
		return m.Set(c.Args().Get(0), c.Args().Get(1))
	default:
		return cli.NewExitError("usage: waypoints config [KEY VALUE]", 2)
	}
}

func contact(c *cli.Context) error {
	ctx := context.Background()
	s, err := open(ctx, c)
	if err != nil {
		return err
	}
	defer s.Close()
	return editContact(ctx, s.state, c.Args(), os.Stdout)
}

// editContact prints every contact field when args is empty, otherwise
// saves args[0] with the remaining words as its value.
func editContact(ctx context.Context, state *estimate.State, args []string, out io.Writer) error {
	if len(args) == 0 {
		for _, key := range estimate.ContactFields {
			v, _, err := state.Store().Get(ctx, key)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s = %s\n", key, v)
		}
		return nil
	}
	return state.SetContactField(ctx, args[0], strings.Join(args[1:], " "))
}

func printQuote(c *cli.Context) error {
	ctx := context.Background()
	s, err := open(ctx, c)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.estimate.Empty() {
		return cli.NewExitError("no pieces in the saved estimate", 1)
	}
	id, err := s.state.QuoteID(ctx)
	if err != nil {
		return err
	}
	contact, err := s.state.Contact(ctx)
	if err != nil {
		return err
	}
	fmt.Print(estimate.Printable(id, contact, s.estimate))
	return nil
}
