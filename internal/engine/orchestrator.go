// Package engine applies a theme across every registered application:
// stage each adapter's artifact, push it live, set the wallpaper, then
// commit the current-theme pointer and state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/hash"
	"github.com/asteroid-belt/swatch/internal/models"
	"github.com/asteroid-belt/swatch/internal/state"
	"github.com/asteroid-belt/swatch/internal/system"
	"github.com/asteroid-belt/swatch/internal/telemetry"
	"github.com/asteroid-belt/swatch/internal/theme"
	"github.com/asteroid-belt/swatch/internal/wallpaper"
)

// Data-root entries owned by the orchestrator.
const (
	StagingDirName       = "staging"
	CurrentLinkName      = "current"
	CurrentWallpaperName = "current-wallpaper"
)

// ThemeFinder resolves a theme by name.
type ThemeFinder interface {
	Find(name string) (*models.Theme, error)
}

// Linker repoints a symlink atomically. It takes no context: once started a
// swap runs to completion.
type Linker interface {
	Swap(target, link string) error
}

// WallpaperApplier sets the desktop picture.
type WallpaperApplier interface {
	Apply(ctx context.Context, path string, display int) (*wallpaper.Result, error)
}

// HistoryRecorder stores committed applies.
type HistoryRecorder interface {
	RecordApply(rec *models.ApplyRecord) error
}

// Config wires an Orchestrator. Themes, Registry, Linker, State and DataDir
// are required.
type Config struct {
	Themes    ThemeFinder
	Registry  *adapter.Registry
	Wallpaper WallpaperApplier
	Linker    Linker
	State     state.Store
	History   HistoryRecorder
	Telemetry telemetry.Client
	Runner    system.Runner
	Logger    *log.Logger

	DataDir string
	Workers int
	// AutoWallpaper applies a theme's first wallpaper when none is requested.
	AutoWallpaper bool
}

// ApplyOptions tune a single apply.
type ApplyOptions struct {
	// Wallpaper selects from the theme's set: 1-based index, file name or
	// absolute image path. Empty defers to Config.AutoWallpaper.
	Wallpaper string
	// NoWallpaper leaves the desktop picture alone.
	NoWallpaper bool
	// Display is the 1-based display; 0 targets every display.
	Display int
	// Adapters restricts the apply to these adapter names.
	Adapters []string
	// DryRun stages artifacts only: no notify, wallpaper or commit.
	DryRun bool
}

// Orchestrator runs theme applies. Applies are serialized.
type Orchestrator struct {
	mu sync.Mutex

	themes    ThemeFinder
	registry  *adapter.Registry
	wallpaper WallpaperApplier
	linker    Linker
	state     state.Store
	history   HistoryRecorder
	telemetry telemetry.Client
	runner    system.Runner
	logger    *log.Logger

	dataDir       string
	workers       int
	autoWallpaper bool

	now func() time.Time
}

// New validates cfg and fills defaults for optional collaborators.
func New(cfg Config) (*Orchestrator, error) {
	switch {
	case cfg.Themes == nil:
		return nil, errors.New("engine: theme finder is required")
	case cfg.Registry == nil:
		return nil, errors.New("engine: adapter registry is required")
	case cfg.Linker == nil:
		return nil, errors.New("engine: linker is required")
	case cfg.State == nil:
		return nil, errors.New("engine: state store is required")
	case cfg.DataDir == "":
		return nil, errors.New("engine: data dir is required")
	}

	o := &Orchestrator{
		themes:        cfg.Themes,
		registry:      cfg.Registry,
		wallpaper:     cfg.Wallpaper,
		linker:        cfg.Linker,
		state:         cfg.State,
		history:       cfg.History,
		telemetry:     cfg.Telemetry,
		runner:        cfg.Runner,
		logger:        cfg.Logger,
		dataDir:       cfg.DataDir,
		workers:       cfg.Workers,
		autoWallpaper: cfg.AutoWallpaper,
		now:           time.Now,
	}
	if o.runner == nil {
		o.runner = system.ExecRunner{}
	}
	if o.wallpaper == nil {
		o.wallpaper = wallpaper.New(o.runner, wallpaper.Options{})
	}
	if o.telemetry == nil {
		o.telemetry = telemetry.Noop()
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o, nil
}

// StagingDir returns where a theme's artifacts are generated.
func (o *Orchestrator) StagingDir(themeName string) string {
	return filepath.Join(o.dataDir, StagingDirName, themeName)
}

// CurrentLink returns the path of the current-theme symlink.
func (o *Orchestrator) CurrentLink() string {
	return filepath.Join(o.dataDir, CurrentLinkName)
}

// CurrentWallpaperLink returns the path of the current-wallpaper symlink.
func (o *Orchestrator) CurrentWallpaperLink() string {
	return filepath.Join(o.dataDir, CurrentWallpaperName)
}

// Apply switches to the named theme. It blocks while another apply runs.
//
// The returned result is always non-nil. The error is a *ResolutionError
// when nothing was touched, a *CommitError when the pointer or state could
// not be committed, or the context's error when canceled before the commit.
// Adapter and wallpaper failures are collected in the result only.
func (o *Orchestrator) Apply(ctx context.Context, name string, opts ApplyOptions) (*ApplyResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.apply(ctx, name, opts)
}

// TryApply is Apply but fails fast with ErrApplyInProgress instead of
// waiting for a running apply.
func (o *Orchestrator) TryApply(ctx context.Context, name string, opts ApplyOptions) (*ApplyResult, error) {
	if !o.mu.TryLock() {
		return nil, ErrApplyInProgress
	}
	defer o.mu.Unlock()
	return o.apply(ctx, name, opts)
}

func (o *Orchestrator) apply(ctx context.Context, name string, opts ApplyOptions) (*ApplyResult, error) {
	res := &ApplyResult{
		ID:        uuid.NewString(),
		DryRun:    opts.DryRun,
		StartedAt: o.now(),
		Wallpaper: WallpaperOutcome{Status: WallpaperSkipped},
	}
	defer func() { res.Duration = o.now().Sub(res.StartedAt) }()

	prev := o.loadState()
	res.PreviousTheme = prev.CurrentTheme

	if err := ctx.Err(); err != nil {
		return res, err
	}

	// Resolving
	t, err := o.themes.Find(name)
	if err != nil {
		return res, &ResolutionError{Theme: name, Err: err}
	}
	wallpaperPath, err := o.selectWallpaper(t, opts)
	if err != nil {
		return res, &ResolutionError{Theme: t.Name, Err: err}
	}
	plans, err := o.planAdapters(opts.Adapters)
	if err != nil {
		return res, &ResolutionError{Theme: t.Name, Err: err}
	}
	res.CurrentTheme = t.Name
	res.ThemeDir = t.Dir
	res.StagingDir = o.StagingDir(t.Name)

	logger := o.logger.With("apply", res.ID[:8], "theme", t.Name)
	logger.Info("applying theme", "adapters", len(plans), "dry_run", opts.DryRun)

	// A staging dir that cannot be created surfaces as generate failures.
	if err := os.MkdirAll(res.StagingDir, 0755); err != nil {
		logger.Warn("could not create staging dir", "err", err)
	}

	// Generating and notifying
	o.runAdapters(ctx, logger, t, plans, res)

	if opts.DryRun {
		o.track(t, res)
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("apply canceled before wallpaper", "err", err)
		return res, err
	}

	// Wallpaper
	if wallpaperPath != "" {
		o.applyWallpaper(ctx, logger, wallpaperPath, opts.Display, res)
	}
	if err := ctx.Err(); err != nil {
		logger.Warn("apply canceled before commit", "err", err)
		return res, err
	}

	// Committing
	if err := o.linker.Swap(t.Dir, o.CurrentLink()); err != nil {
		logger.Error("commit failed, previous theme stays current", "err", err)
		return res, &CommitError{Stage: StageSymlink, Err: err}
	}
	res.Committed = true

	next := &models.ApplicationState{
		ID:               prev.ID,
		CurrentTheme:     t.Name,
		CurrentWallpaper: prev.CurrentWallpaper,
		LastSwitched:     o.now(),
		TrackingID:       prev.TrackingID,
	}
	if res.Wallpaper.Status == WallpaperApplied {
		next.CurrentWallpaper = res.Wallpaper.Path
		if err := o.linker.Swap(res.Wallpaper.Path, o.CurrentWallpaperLink()); err != nil {
			logger.Warn("could not update wallpaper link", "err", err)
		}
	}

	var commitErr error
	if err := o.state.Save(next); err != nil {
		logger.Error("theme is live but state was not saved", "err", err)
		commitErr = &CommitError{Stage: StageState, Err: err}
	}

	o.record(logger, res)
	o.track(t, res)
	logger.Info("theme applied",
		"notified", len(res.Notified),
		"failed", len(res.Failures),
		"wallpaper", res.Wallpaper.Status)
	return res, commitErr
}

func (o *Orchestrator) loadState() *models.ApplicationState {
	st, err := o.state.Load()
	if err != nil {
		o.logger.Warn("could not load state, using defaults", "err", err)
	}
	if st == nil {
		st = models.DefaultApplicationState()
	}
	return st
}

func (o *Orchestrator) selectWallpaper(t *models.Theme, opts ApplyOptions) (string, error) {
	if opts.NoWallpaper {
		return "", nil
	}
	if opts.Display < 0 {
		return "", wallpaper.ErrInvalidDisplay
	}
	selector := opts.Wallpaper
	if selector == "" && o.autoWallpaper && t.HasWallpapers() {
		selector = "1"
	}
	return theme.ResolveWallpaper(t, selector)
}

// adapterPlan is one adapter's share of an apply.
type adapterPlan struct {
	adapter  *adapter.Adapter
	generate bool
	notify   bool
}

// planAdapters intersects the registry's generate and notify views with the
// optional name filter. Adapters with neither capability are left out.
func (o *Orchestrator) planAdapters(only []string) ([]adapterPlan, error) {
	var filter map[string]bool
	if len(only) > 0 {
		filter = make(map[string]bool, len(only))
		for _, n := range only {
			a, ok := o.registry.Get(n)
			if !ok {
				return nil, fmt.Errorf("unknown adapter %q (known: %s)", n, strings.Join(o.registry.Names(), ", "))
			}
			filter[a.Name] = true
		}
	}

	var plans []adapterPlan
	index := map[string]int{}
	include := func(a *adapter.Adapter) (int, bool) {
		if filter != nil && !filter[a.Name] {
			return 0, false
		}
		i, ok := index[a.Name]
		if !ok {
			i = len(plans)
			index[a.Name] = i
			plans = append(plans, adapterPlan{adapter: a})
		}
		return i, true
	}
	for _, a := range o.registry.AllWithCapability(adapter.CapGenerate) {
		if i, ok := include(a); ok {
			plans[i].generate = true
		}
	}
	for _, a := range o.registry.AllWithCapability(adapter.CapNotify) {
		if i, ok := include(a); ok {
			plans[i].notify = true
		}
	}
	return plans, nil
}

type adapterOutcome struct {
	generated bool
	unchanged bool
	notified  bool
	skipped   bool
	failure   *AdapterError
}

// runAdapters runs each adapter's generate-then-notify task on a bounded
// pool. A failing or panicking adapter never stops the others.
func (o *Orchestrator) runAdapters(ctx context.Context, logger *log.Logger, t *models.Theme, plans []adapterPlan, res *ApplyResult) {
	outcomes := make([]adapterOutcome, len(plans))

	var g errgroup.Group
	g.SetLimit(o.workers)
	for i, p := range plans {
		g.Go(func() error {
			outcomes[i] = o.runAdapter(ctx, logger.With("adapter", p.adapter.Name), t, p, res.StagingDir, res.DryRun)
			return nil
		})
	}
	_ = g.Wait()

	for i, out := range outcomes {
		name := plans[i].adapter.Name
		switch {
		case out.skipped:
			res.Skipped = append(res.Skipped, name)
			continue
		case out.unchanged:
			res.Unchanged = append(res.Unchanged, name)
		case out.generated:
			res.Generated = append(res.Generated, name)
		}
		if out.notified {
			res.Notified = append(res.Notified, name)
		}
		if out.failure != nil {
			res.Failures = append(res.Failures, out.failure)
		}
	}
	sort.Strings(res.Generated)
	sort.Strings(res.Unchanged)
	sort.Strings(res.Notified)
	sort.Strings(res.Skipped)
	sort.Slice(res.Failures, func(i, j int) bool {
		if res.Failures[i].Adapter != res.Failures[j].Adapter {
			return res.Failures[i].Adapter < res.Failures[j].Adapter
		}
		return res.Failures[i].Stage < res.Failures[j].Stage
	})
}

func (o *Orchestrator) runAdapter(ctx context.Context, logger *log.Logger, t *models.Theme, p adapterPlan, stagingDir string, dryRun bool) adapterOutcome {
	var out adapterOutcome
	if ctx.Err() != nil {
		out.skipped = true
		return out
	}

	a := p.adapter
	if p.generate {
		artifact, err := safeGenerate(a.Generate, t.Colors)
		if err == nil {
			out.unchanged, err = stage(stagingDir, artifact)
		}
		if err != nil {
			logger.Warn("generate failed", "err", err)
			out.failure = &AdapterError{Adapter: a.Name, Stage: StageGenerate, Err: err}
			return out
		}
		out.generated = true
		logger.Debug("staged artifact",
			"file", artifact.FileName,
			"digest", hash.TruncatedSHA256Bytes(artifact.Content),
			"unchanged", out.unchanged)
	}

	if dryRun || !p.notify {
		return out
	}
	req := adapter.NotifyRequest{
		ThemeDir: stagingDir,
		Runner:   o.runner,
		Logf:     logger.Debugf,
	}
	if err := safeNotify(ctx, a.Notify, req); err != nil {
		logger.Warn("notify failed", "err", err)
		out.failure = &AdapterError{Adapter: a.Name, Stage: StageNotify, Err: err}
		return out
	}
	out.notified = true
	return out
}

// stage writes an artifact into the staging dir unless an identical copy is
// already there.
func stage(dir string, artifact adapter.Artifact) (unchanged bool, err error) {
	if artifact.FileName == "" || filepath.Base(artifact.FileName) != artifact.FileName {
		return false, fmt.Errorf("invalid artifact name %q", artifact.FileName)
	}
	path := filepath.Join(dir, artifact.FileName)
	if hash.SameContent(path, artifact.Content) {
		return true, nil
	}
	return false, adapter.WriteFileAtomic(path, artifact.Content, 0644)
}

func safeGenerate(fn adapter.GenerateFunc, colors models.ThemeColors) (artifact adapter.Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(colors)
}

func safeNotify(ctx context.Context, fn adapter.NotifyFunc, req adapter.NotifyRequest) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, req)
}

func (o *Orchestrator) applyWallpaper(ctx context.Context, logger *log.Logger, path string, display int, res *ApplyResult) {
	res.Wallpaper.Path = path
	result, err := o.wallpaper.Apply(ctx, path, display)
	res.Wallpaper.Strategies = result
	if err != nil {
		res.Wallpaper.Status = WallpaperFailed
		res.Wallpaper.Err = &WallpaperError{Path: path, Err: err}
		logger.Warn("wallpaper failed", "path", path, "err", err)
	} else {
		res.Wallpaper.Status = WallpaperApplied
		logger.Debug("wallpaper applied", "path", path)
	}
	o.telemetry.TrackWallpaperApplied(err == nil, attempted(result))
}

func attempted(r *wallpaper.Result) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, s := range []wallpaper.StrategyResult{r.Binary, r.Script} {
		if s.Status != wallpaper.StatusNotAttempted {
			n++
		}
	}
	return n
}

func (o *Orchestrator) record(logger *log.Logger, res *ApplyResult) {
	if o.history == nil {
		return
	}
	failed := make([]string, 0, len(res.Failures))
	for _, f := range res.Failures {
		failed = append(failed, f.Adapter)
	}
	rec := &models.ApplyRecord{
		ID:            res.ID,
		Theme:         res.CurrentTheme,
		PreviousTheme: res.PreviousTheme,
		Notified:      len(res.Notified),
		Failed:        len(res.Failures),
		FailedNames:   strings.Join(failed, ","),
		DurationMs:    o.now().Sub(res.StartedAt).Milliseconds(),
		AppliedAt:     res.StartedAt,
	}
	if res.Wallpaper.Status == WallpaperApplied {
		rec.Wallpaper = res.Wallpaper.Path
	}
	if err := o.history.RecordApply(rec); err != nil {
		logger.Warn("could not record apply history", "err", err)
	}
}

func (o *Orchestrator) track(t *models.Theme, res *ApplyResult) {
	o.telemetry.TrackThemeApplied(telemetry.ThemeApplied{
		Theme:      t.Name,
		IsCustom:   t.IsCustom,
		IsLight:    t.IsLight,
		Notified:   len(res.Notified),
		Failed:     len(res.Failures),
		Committed:  res.Committed,
		DryRun:     res.DryRun,
		DurationMs: o.now().Sub(res.StartedAt).Milliseconds(),
	})
}
