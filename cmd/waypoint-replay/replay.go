package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/billie-coop/waypoints/internal/estimate"
	"github.com/billie-coop/waypoints/internal/frame"
	"github.com/billie-coop/waypoints/internal/page"
	"github.com/billie-coop/waypoints/internal/waypoint"
	"go.uber.org/zap"
)

var ErrBadStep = errors.New("bad script step")

type stepKind int

const (
	stepTo stepKind = iota
	stepBy
	stepTop
	stepBottom
	stepResize
)

// step is one scripted action: "12" scrolls to line 12, "+3"/"-3" scroll
// relative, "top"/"bottom" jump, "100x30" resizes the viewport.
type step struct {
	raw    string
	kind   stepKind
	value  int
	width  int
	height int
}

func parseScript(args []string) ([]step, error) {
	var steps []step
	for _, arg := range args {
		for _, field := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			s, err := parseStep(field)
			if err != nil {
				return nil, err
			}
			steps = append(steps, s)
		}
	}
	return steps, nil
}

func parseStep(raw string) (step, error) {
	s := step{raw: raw}
	switch {
	case raw == "top":
		s.kind = stepTop
		return s, nil
	case raw == "bottom":
		s.kind = stepBottom
		return s, nil
	case strings.Contains(raw, "x"):
		w, h, _ := strings.Cut(raw, "x")
		width, err1 := strconv.Atoi(w)
		height, err2 := strconv.Atoi(h)
		if err1 != nil || err2 != nil || width <= 0 || height <= 0 {
			return s, fmt.Errorf("%w: %q", ErrBadStep, raw)
		}
		s.kind, s.width, s.height = stepResize, width, height
		return s, nil
	case strings.HasPrefix(raw, "+") || strings.HasPrefix(raw, "-"):
		s.kind = stepBy
	default:
		s.kind = stepTo
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return s, fmt.Errorf("%w: %q", ErrBadStep, raw)
	}
	s.value = v
	return s, nil
}

type crossing struct {
	element waypoint.ElementID
	stage   string
	dir     waypoint.Direction
}

type replayOptions struct {
	width    int
	height   int
	touch    bool
	interval int // milliseconds
	log      *zap.Logger
}

// replayer lays a catalog out as a plain-text page and records what the
// inview watchers report while a script scrolls it.
type replayer struct {
	doc     *page.Document
	loop    *frame.Loop
	tracker *waypoint.Tracker
	sticky  *waypoint.Sticky
	seen    []crossing
}

func newReplayer(c *estimate.Catalog, opts replayOptions) (*replayer, error) {
	if opts.log == nil {
		opts.log = zap.NewNop()
	}
	r := &replayer{
		doc:  page.New(opts.width, opts.height, page.WithTouch(opts.touch)),
		loop: frame.NewLoop(msDuration(opts.interval)),
	}
	if err := r.build(c); err != nil {
		r.loop.Close()
		return nil, err
	}

	r.tracker = waypoint.New(r.doc, r.loop, waypoint.WithLogger(opts.log))
	if err := r.watchAll(c); err != nil {
		r.close()
		return nil, err
	}
	return r, nil
}

func (r *replayer) watchAll(c *estimate.Catalog) error {
	sticky, err := r.tracker.NewSticky(waypoint.StickyOptions{
		Options: waypoint.Options{Element: "pricing", Group: "sticky"},
	})
	if err != nil {
		return err
	}
	r.sticky = sticky
	for _, p := range c.Products {
		if err := r.watch(waypoint.ElementID("product-" + p.ID)); err != nil {
			return err
		}
	}
	return nil
}

// close removes every watcher, and with them the document listeners,
// before stopping the frame loop.
func (r *replayer) close() {
	if r.tracker != nil {
		r.tracker.DestroyAll()
	}
	r.loop.Close()
}

func (r *replayer) build(c *estimate.Catalog) error {
	blocks := []page.Block{
		{ID: "title", Text: c.Title},
		{ID: "pricing", Text: "Pricing"},
	}
	for _, p := range c.Products {
		lines := []string{p.Name}
		for _, v := range p.Variants {
			lines = append(lines, "  "+v.Label)
		}
		blocks = append(blocks, page.Block{
			ID:   waypoint.ElementID("product-" + p.ID),
			Text: strings.Join(lines, "\n"),
		})
	}
	for _, b := range blocks {
		if err := r.doc.Append(b); err != nil {
			return err
		}
	}
	return nil
}

func (r *replayer) watch(element waypoint.ElementID) error {
	record := func(stage string) func(waypoint.Direction) {
		return func(dir waypoint.Direction) {
			r.seen = append(r.seen, crossing{element: element, stage: stage, dir: dir})
		}
	}
	_, err := r.tracker.NewInview(waypoint.InviewOptions{
		Element: element,
		Enter:   record("enter"),
		Entered: record("entered"),
		Exit:    record("exit"),
		Exited:  record("exited"),
	})
	return err
}

func (r *replayer) apply(s step) error {
	scroll, err := r.doc.Scroll(waypoint.Viewport)
	if err != nil {
		return err
	}
	switch s.kind {
	case stepTo:
		return r.doc.ScrollTo(waypoint.Viewport, waypoint.Point{Y: float64(s.value)})
	case stepBy:
		return r.doc.ScrollTo(waypoint.Viewport, waypoint.Point{Y: scroll.Y + float64(s.value)})
	case stepTop:
		return r.doc.ScrollTo(waypoint.Viewport, waypoint.Point{})
	case stepBottom:
		return r.doc.ScrollTo(waypoint.Viewport, waypoint.Point{Y: float64(r.doc.ContentHeight())})
	case stepResize:
		r.doc.Resize(s.width, s.height)
	}
	return nil
}

// run settles the page, then applies every step and prints the crossings
// each one caused.
func (r *replayer) run(ctx context.Context, steps []step, out io.Writer) error {
	defer r.close()

	if err := r.settle(ctx, "start", out); err != nil {
		return err
	}
	for _, s := range steps {
		if err := r.apply(s); err != nil {
			return fmt.Errorf("step %s: %w", s.raw, err)
		}
		if err := r.settle(ctx, s.raw, out); err != nil {
			return err
		}
	}
	return nil
}

func (r *replayer) settle(ctx context.Context, label string, out io.Writer) error {
	if _, err := r.loop.RunUntilIdle(ctx); err != nil {
		return err
	}
	scroll, err := r.doc.Scroll(waypoint.Viewport)
	if err != nil {
		return err
	}
	pinned := ""
	if r.sticky.Stuck() {
		pinned = " pinned"
	}
	fmt.Fprintf(out, "%s: scroll %g%s\n", label, scroll.Y, pinned)
	for _, c := range r.seen {
		fmt.Fprintf(out, "  %s %s %s\n", c.element, c.stage, c.dir)
	}
	r.seen = r.seen[:0]
	return nil
}
