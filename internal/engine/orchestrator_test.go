package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/swatch/internal/adapter"
	"github.com/asteroid-belt/swatch/internal/adapter/apps"
	"github.com/asteroid-belt/swatch/internal/link"
	"github.com/asteroid-belt/swatch/internal/models"
	"github.com/asteroid-belt/swatch/internal/state"
	"github.com/asteroid-belt/swatch/internal/system"
	"github.com/asteroid-belt/swatch/internal/testutil"
	"github.com/asteroid-belt/swatch/internal/theme"
	"github.com/asteroid-belt/swatch/internal/wallpaper"
)

type fakeWallpaper struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (f *fakeWallpaper) Apply(_ context.Context, path string, display int) (*wallpaper.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, path)
	res := &wallpaper.Result{
		Path:    path,
		Display: display,
		Binary:  wallpaper.StrategyResult{Name: wallpaper.BinaryName, Status: wallpaper.StatusNotAttempted},
		Script:  wallpaper.StrategyResult{Name: "osascript", Status: wallpaper.StatusSucceeded},
		Applied: f.err == nil,
	}
	if f.err != nil {
		res.Script.Status = wallpaper.StatusFailed
		res.Script.Err = f.err
	}
	return res, f.err
}

type failingLinker struct{ err error }

func (f failingLinker) Swap(string, string) error { return f.err }

type fakeHistory struct {
	records []*models.ApplyRecord
	err     error
}

func (f *fakeHistory) RecordApply(rec *models.ApplyRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

type fixture struct {
	t         *testing.T
	dataDir   string
	bundled   string
	custom    string
	liveDir   string
	runner    *system.FakeRunner
	state     *state.Memory
	wallpaper *fakeWallpaper
	history   *fakeHistory
	logs      *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		t:         t,
		dataDir:   filepath.Join(root, "data"),
		bundled:   filepath.Join(root, "themes"),
		custom:    filepath.Join(root, "custom"),
		liveDir:   filepath.Join(root, "live"),
		runner:    system.NewFakeRunner(),
		state:     &state.Memory{},
		wallpaper: &fakeWallpaper{},
		history:   &fakeHistory{},
		logs:      &bytes.Buffer{},
	}
	testutil.WriteTheme(t, f.bundled, testutil.ThemeSpec{
		Name:       "tokyo-night",
		Appearance: "dark",
		Colors:     testutil.TokyoNightColors(),
		Wallpapers: []string{"city.png", "rain.jpg"},
	})
	testutil.WriteTheme(t, f.bundled, testutil.ThemeSpec{
		Name:       "gruvbox-light",
		Appearance: "light",
		Colors:     testutil.GruvboxLightColors(),
	})
	return f
}

// fake builds an adapter that stages <name>.conf and copies it under liveDir.
func (f *fixture) fake(name string) *adapter.Adapter {
	fileName := name + ".conf"
	return &adapter.Adapter{
		Name:     name,
		Category: adapter.CategoryTerminal,
		Generate: func(c models.ThemeColors) (adapter.Artifact, error) {
			return adapter.Artifact{FileName: fileName, Content: []byte("bg=" + c.Background + "\n")}, nil
		},
		Notify: func(ctx context.Context, req adapter.NotifyRequest) error {
			return adapter.CopyArtifact(req, fileName, filepath.Join(f.liveDir, fileName))
		},
	}
}

func (f *fixture) registry(adapters ...*adapter.Adapter) *adapter.Registry {
	reg := adapter.NewRegistry()
	reg.MustRegister(adapters...)
	reg.Freeze()
	return reg
}

func (f *fixture) orchestrator(reg *adapter.Registry, mutate ...func(*Config)) *Orchestrator {
	f.t.Helper()
	cfg := Config{
		Themes:    theme.NewStore(f.bundled, f.custom),
		Registry:  reg,
		Wallpaper: f.wallpaper,
		Linker:    link.NewManager(),
		State:     f.state,
		History:   f.history,
		Runner:    f.runner,
		Logger:    log.New(f.logs),
		DataDir:   f.dataDir,
		Workers:   4,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	o, err := New(cfg)
	require.NoError(f.t, err)
	return o
}

func (f *fixture) currentTarget() string {
	f.t.Helper()
	target, err := os.Readlink(filepath.Join(f.dataDir, CurrentLinkName))
	require.NoError(f.t, err)
	return target
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	f := newFixture(t)
	o := f.orchestrator(f.registry(), func(c *Config) {
		c.Workers = 0
		c.Logger = nil
		c.Telemetry = nil
	})
	assert.Equal(t, 1, o.workers)
}

func TestApply_EndToEnd_TokyoNightNoWallpaper(t *testing.T) {
	f := newFixture(t)
	home := t.TempDir()
	dirs := apps.Dirs{
		Home:         home,
		ConfigHome:   filepath.Join(home, ".config"),
		Applications: filepath.Join(home, "Applications"),
	}
	jsonState := state.NewJSONStore(filepath.Join(f.dataDir, state.FileName))
	o := f.orchestrator(apps.DefaultRegistry(dirs), func(c *Config) { c.State = jsonState })

	res, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)

	assert.True(t, res.Succeeded())
	assert.True(t, res.Clean())
	assert.Equal(t, "tokyo-night", res.CurrentTheme)
	assert.Empty(t, res.PreviousTheme)
	assert.Empty(t, res.Failures)
	assert.Equal(t, WallpaperSkipped, res.Wallpaper.Status)
	assert.Empty(t, f.wallpaper.calls)

	assert.Len(t, res.Generated, len(apps.All(dirs)))
	assert.Equal(t, []string{
		"alacritty", "borders", "btop", "ghostty", "kitty",
		"neovim", "sketchybar", "wezterm",
	}, res.Notified, "vscode has no notifier")

	assert.Equal(t, filepath.Join(f.bundled, "tokyo-night"), f.currentTarget())
	assert.Equal(t, filepath.Join(f.bundled, "tokyo-night"), res.ThemeDir)
	assert.FileExists(t, filepath.Join(f.dataDir, StagingDirName, "tokyo-night", "kitty.conf"))
	assert.FileExists(t, filepath.Join(dirs.ConfigHome, "kitty", "swatch-theme.conf"))
	assert.FileExists(t, filepath.Join(dirs.ConfigHome, "btop", "themes", "swatch.theme"))

	st, err := jsonState.Load()
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", st.CurrentTheme)
	assert.Empty(t, st.CurrentWallpaper)
	assert.False(t, st.LastSwitched.IsZero())
}

func TestApply_ContinuesPastFailingAdapters(t *testing.T) {
	f := newFixture(t)

	panicky := f.fake("bravo")
	panicky.Notify = func(context.Context, adapter.NotifyRequest) error { panic("boom") }

	erroring := f.fake("charlie")
	erroring.Notify = func(context.Context, adapter.NotifyRequest) error { return errors.New("app not reachable") }

	broken := f.fake("delta")
	broken.Generate = func(models.ThemeColors) (adapter.Artifact, error) {
		return adapter.Artifact{}, errors.New("bad palette")
	}

	generateOnly := f.fake("echo")
	generateOnly.Notify = nil

	reg := f.registry(erroring, f.fake("alpha"), broken, panicky, generateOnly)
	res, err := f.orchestrator(reg).Apply(context.Background(), "tokyo-night", ApplyOptions{NoWallpaper: true})
	require.NoError(t, err)

	assert.True(t, res.Committed)
	assert.False(t, res.Clean())
	assert.Equal(t, []string{"alpha", "bravo", "charlie", "echo"}, res.Generated)
	assert.Equal(t, []string{"alpha"}, res.Notified)

	require.Len(t, res.Failures, 3)
	assert.Equal(t, "bravo", res.Failures[0].Adapter)
	assert.Equal(t, StageNotify, res.Failures[0].Stage)
	assert.ErrorContains(t, res.Failures[0], "panic: boom")
	assert.Equal(t, "charlie", res.Failures[1].Adapter)
	assert.Equal(t, StageNotify, res.Failures[1].Stage)
	assert.Equal(t, "delta", res.Failures[2].Adapter)
	assert.Equal(t, StageGenerate, res.Failures[2].Stage)

	assert.NotNil(t, res.FailureFor("delta"))
	assert.Nil(t, res.FailureFor("alpha"))
	assert.FileExists(t, filepath.Join(f.liveDir, "alpha.conf"))
	assert.NoFileExists(t, filepath.Join(f.liveDir, "delta.conf"))

	require.Len(t, f.history.records, 1)
	assert.Equal(t, 3, f.history.records[0].Failed)
	assert.Equal(t, "bravo,charlie,delta", f.history.records[0].FailedNames)
}

func TestApply_PanickingGenerateIsCollected(t *testing.T) {
	f := newFixture(t)
	a := f.fake("alpha")
	a.Generate = func(models.ThemeColors) (adapter.Artifact, error) { panic("nil map") }

	res, err := f.orchestrator(f.registry(a, f.fake("bravo"))).Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, StageGenerate, res.Failures[0].Stage)
	assert.Equal(t, []string{"bravo"}, res.Notified)
}

func TestApply_RejectsUnsafeArtifactName(t *testing.T) {
	f := newFixture(t)
	a := f.fake("alpha")
	a.Generate = func(models.ThemeColors) (adapter.Artifact, error) {
		return adapter.Artifact{FileName: "../escape.conf", Content: []byte("x")}, nil
	}

	res, err := f.orchestrator(f.registry(a)).Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.NoFileExists(t, filepath.Join(f.dataDir, StagingDirName, "escape.conf"))
}

func TestApply_ResultsSortedRegardlessOfRegistryOrder(t *testing.T) {
	f := newFixture(t)
	reg := f.registry(f.fake("zulu"), f.fake("mike"), f.fake("alpha"), f.fake("kilo"))

	for range 3 {
		res, err := f.orchestrator(reg).Apply(context.Background(), "gruvbox-light", ApplyOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "kilo", "mike", "zulu"}, res.Notified)
	}
}

func TestApply_UnknownThemeHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))

	res, err := o.Apply(context.Background(), "solarized", ApplyOptions{})
	require.Error(t, err)

	var rerr *ResolutionError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "solarized", rerr.Theme)
	assert.ErrorIs(t, err, theme.ErrThemeNotFound)

	assert.NotNil(t, res)
	assert.False(t, res.Committed)
	assert.NoDirExists(t, filepath.Join(f.dataDir, StagingDirName))
	assert.NoDirExists(t, f.liveDir)
	assert.Empty(t, f.history.records)
	st, _ := f.state.Load()
	assert.False(t, st.HasTheme())
}

func TestApply_CaseInsensitiveThemeName(t *testing.T) {
	f := newFixture(t)
	res, err := f.orchestrator(f.registry(f.fake("alpha"))).Apply(context.Background(), "Tokyo-Night", ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", res.CurrentTheme)
}

func TestApply_BadSelectionsAreResolutionErrors(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))
	ctx := context.Background()

	_, err := o.Apply(ctx, "tokyo-night", ApplyOptions{Wallpaper: "9"})
	assert.ErrorIs(t, err, theme.ErrWallpaperNotFound)

	_, err = o.Apply(ctx, "tokyo-night", ApplyOptions{Wallpaper: "1", Display: -1})
	assert.ErrorIs(t, err, wallpaper.ErrInvalidDisplay)

	_, err = o.Apply(ctx, "tokyo-night", ApplyOptions{Adapters: []string{"emacs"}})
	var rerr *ResolutionError
	assert.ErrorAs(t, err, &rerr)

	assert.NoDirExists(t, f.liveDir)
	assert.Empty(t, f.wallpaper.calls)
}

func TestApply_AdapterFilter(t *testing.T) {
	f := newFixture(t)
	reg := f.registry(f.fake("alpha"), f.fake("bravo"))

	res, err := f.orchestrator(reg).Apply(context.Background(), "tokyo-night", ApplyOptions{Adapters: []string{"BRAVO", "bravo"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"bravo"}, res.Notified)
	assert.NoFileExists(t, filepath.Join(f.liveDir, "alpha.conf"))
}

func TestApply_FailingLinkerKeepsPreviousTheme(t *testing.T) {
	f := newFixture(t)
	reg := f.registry(f.fake("alpha"))

	_, err := f.orchestrator(reg).Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	previous := f.currentTarget()

	o := f.orchestrator(reg, func(c *Config) { c.Linker = failingLinker{err: errors.New("rename: device busy")} })
	res, err := o.Apply(context.Background(), "gruvbox-light", ApplyOptions{})
	require.Error(t, err)

	var cerr *CommitError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, StageSymlink, cerr.Stage)
	assert.False(t, res.Committed)
	assert.False(t, res.Succeeded())
	assert.Equal(t, []string{"alpha"}, res.Notified, "notifications are not reverted")

	assert.Equal(t, previous, f.currentTarget())
	st, _ := f.state.Load()
	assert.Equal(t, "tokyo-night", st.CurrentTheme)
	assert.Len(t, f.history.records, 1)
}

func TestApply_StateFailureKeepsSymlink(t *testing.T) {
	f := newFixture(t)
	f.state.SaveErr = errors.New("disk full")

	res, err := f.orchestrator(f.registry(f.fake("alpha"))).Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.Error(t, err)

	var cerr *CommitError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, StageState, cerr.Stage)
	assert.True(t, res.Committed)
	assert.Equal(t, filepath.Join(f.bundled, "tokyo-night"), f.currentTarget())
}

func TestApply_CurrentResolvesThemeData(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))

	_, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)

	th, err := theme.NewStore(f.bundled, f.custom).Find("tokyo-night")
	require.NoError(t, err)
	assert.Equal(t, th.Dir, f.currentTarget())

	current := o.CurrentLink()
	assert.FileExists(t, filepath.Join(current, "theme.yaml"))
	assert.FileExists(t, filepath.Join(current, "wallpapers", "city.png"))
	assert.NoFileExists(t, filepath.Join(current, "alpha.conf"), "artifacts stay in staging")

	_, err = o.Apply(context.Background(), "gruvbox-light", ApplyOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(current, "theme.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "gruvbox-light")
}

func TestApply_UnwritableStagingReportsGenerateFailures(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.dataDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, StagingDirName), []byte("not a dir"), 0644))

	var notified bool
	bell := &adapter.Adapter{
		Name:     "bell",
		Category: adapter.CategorySystem,
		Notify: func(context.Context, adapter.NotifyRequest) error {
			notified = true
			return nil
		},
	}

	res, err := f.orchestrator(f.registry(f.fake("alpha"), bell)).Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	assert.True(t, res.Committed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "alpha", res.Failures[0].Adapter)
	assert.Equal(t, StageGenerate, res.Failures[0].Stage)
	assert.True(t, notified)
	assert.Equal(t, []string{"bell"}, res.Notified)
	assert.Equal(t, filepath.Join(f.bundled, "tokyo-night"), f.currentTarget())
}

func TestApply_AdaptersSelectedByCapability(t *testing.T) {
	f := newFixture(t)

	generateOnly := f.fake("charlie")
	generateOnly.Notify = nil
	notifyOnly := &adapter.Adapter{
		Name:     "bell",
		Category: adapter.CategorySystem,
		Notify:   func(context.Context, adapter.NotifyRequest) error { return nil },
	}
	inert := &adapter.Adapter{Name: "inert", Category: adapter.CategorySystem}
	reg := f.registry(f.fake("alpha"), notifyOnly, generateOnly, inert)

	res, err := f.orchestrator(reg).Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "charlie"}, res.Generated)
	assert.Equal(t, []string{"alpha", "bell"}, res.Notified)
	assert.Empty(t, res.Failures)
	assert.NotContains(t, adapterNamesOf(res), "inert")

	res, err = f.orchestrator(reg).Apply(context.Background(), "tokyo-night", ApplyOptions{Adapters: []string{"bell", "inert"}})
	require.NoError(t, err)
	assert.Empty(t, res.Generated)
	assert.Equal(t, []string{"bell"}, res.Notified)
	assert.NotContains(t, adapterNamesOf(res), "inert")
}

func adapterNamesOf(res *ApplyResult) []string {
	names := append([]string{}, res.Generated...)
	names = append(names, res.Notified...)
	names = append(names, res.Unchanged...)
	names = append(names, res.Skipped...)
	for _, fe := range res.Failures {
		names = append(names, fe.Adapter)
	}
	return names
}

func TestApply_Wallpaper(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))

	res, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{Wallpaper: "rain.jpg", Display: 2})
	require.NoError(t, err)

	want := filepath.Join(f.bundled, "tokyo-night", "wallpapers", "rain.jpg")
	assert.Equal(t, WallpaperApplied, res.Wallpaper.Status)
	assert.Equal(t, want, res.Wallpaper.Path)
	assert.Equal(t, []string{want}, f.wallpaper.calls)

	st, _ := f.state.Load()
	assert.Equal(t, want, st.CurrentWallpaper)
	target, err := os.Readlink(filepath.Join(f.dataDir, CurrentWallpaperName))
	require.NoError(t, err)
	assert.Equal(t, want, target)
}

func TestApply_WallpaperFailureDoesNotBlockCommit(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.state.Save(&models.ApplicationState{CurrentTheme: "old", CurrentWallpaper: "/old.png"}))
	f.wallpaper.err = &wallpaper.Error{Path: "/x.png", Reasons: []string{"osascript: denied"}}

	res, err := f.orchestrator(f.registry(f.fake("alpha"))).Apply(context.Background(), "tokyo-night", ApplyOptions{Wallpaper: "1"})
	require.NoError(t, err)

	assert.True(t, res.Committed)
	assert.False(t, res.Clean())
	assert.Equal(t, "old", res.PreviousTheme)
	assert.Equal(t, WallpaperFailed, res.Wallpaper.Status)
	require.NotNil(t, res.Wallpaper.Err)
	var werr *wallpaper.Error
	assert.ErrorAs(t, res.Wallpaper.Err, &werr)

	st, _ := f.state.Load()
	assert.Equal(t, "tokyo-night", st.CurrentTheme)
	assert.Equal(t, "/old.png", st.CurrentWallpaper, "failed wallpaper keeps the previous one")
	assert.NoFileExists(t, filepath.Join(f.dataDir, CurrentWallpaperName))
}

func TestApply_AutoWallpaper(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")), func(c *Config) { c.AutoWallpaper = true })

	res, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.bundled, "tokyo-night", "wallpapers", "city.png"), res.Wallpaper.Path)

	res, err = o.Apply(context.Background(), "tokyo-night", ApplyOptions{NoWallpaper: true})
	require.NoError(t, err)
	assert.Equal(t, WallpaperSkipped, res.Wallpaper.Status)

	res, err = o.Apply(context.Background(), "gruvbox-light", ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, WallpaperSkipped, res.Wallpaper.Status, "theme without wallpapers")
	assert.Len(t, f.wallpaper.calls, 1)
}

func TestApply_DryRun(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")), func(c *Config) { c.AutoWallpaper = true })

	res, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{DryRun: true})
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.False(t, res.Committed)
	assert.Equal(t, []string{"alpha"}, res.Generated)
	assert.Empty(t, res.Notified)
	assert.FileExists(t, filepath.Join(f.dataDir, StagingDirName, "tokyo-night", "alpha.conf"))
	assert.NoDirExists(t, f.liveDir)
	assert.NoFileExists(t, filepath.Join(f.dataDir, CurrentLinkName))
	assert.Empty(t, f.wallpaper.calls)
	assert.Empty(t, f.history.records)
}

func TestApply_StagingDedupe(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha"), f.fake("bravo")))
	ctx := context.Background()

	res, err := o.Apply(ctx, "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "bravo"}, res.Generated)

	staged := filepath.Join(f.dataDir, StagingDirName, "tokyo-night", "alpha.conf")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(staged, old, old))

	res, err = o.Apply(ctx, "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Generated)
	assert.Equal(t, []string{"alpha", "bravo"}, res.Unchanged)
	assert.Equal(t, []string{"alpha", "bravo"}, res.Notified, "unchanged artifacts are still pushed live")

	info, err := os.Stat(staged)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "identical artifact not rewritten")
}

func TestApply_CanceledBeforeCommit(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	canceler := f.fake("alpha")
	canceler.Notify = func(context.Context, adapter.NotifyRequest) error {
		cancel()
		return nil
	}

	o := f.orchestrator(f.registry(canceler, f.fake("bravo"), f.fake("charlie")), func(c *Config) { c.Workers = 1 })
	res, err := o.Apply(ctx, "tokyo-night", ApplyOptions{Wallpaper: "1"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, res.Committed)
	assert.Equal(t, []string{"alpha"}, res.Notified)
	assert.Equal(t, []string{"bravo", "charlie"}, res.Skipped)
	assert.Empty(t, f.wallpaper.calls)
	assert.NoFileExists(t, filepath.Join(f.dataDir, CurrentLinkName))
	st, _ := f.state.Load()
	assert.False(t, st.HasTheme())
}

func TestApply_AlreadyCanceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := f.orchestrator(f.registry(f.fake("alpha"))).Apply(ctx, "tokyo-night", ApplyOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, res.CurrentTheme)
	assert.NoDirExists(t, filepath.Join(f.dataDir, StagingDirName))
}

func TestApply_Serialized(t *testing.T) {
	f := newFixture(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	blocker := f.fake("alpha")
	blocker.Notify = func(context.Context, adapter.NotifyRequest) error {
		once.Do(func() { close(entered) })
		<-release
		return nil
	}
	o := f.orchestrator(f.registry(blocker))

	done := make(chan error, 1)
	go func() {
		_, err := o.Apply(context.Background(), "tokyo-night", ApplyOptions{})
		done <- err
	}()

	<-entered
	res, err := o.TryApply(context.Background(), "gruvbox-light", ApplyOptions{})
	assert.ErrorIs(t, err, ErrApplyInProgress)
	assert.Nil(t, res)

	close(release)
	require.NoError(t, <-done)

	res, err = o.TryApply(context.Background(), "gruvbox-light", ApplyOptions{})
	require.NoError(t, err)
	assert.Equal(t, "tokyo-night", res.PreviousTheme)
}

func TestApply_PreviousThemeAndHistory(t *testing.T) {
	f := newFixture(t)
	o := f.orchestrator(f.registry(f.fake("alpha")))
	ctx := context.Background()

	_, err := o.Apply(ctx, "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	res, err := o.Apply(ctx, "gruvbox-light", ApplyOptions{})
	require.NoError(t, err)

	assert.Equal(t, "tokyo-night", res.PreviousTheme)
	require.Len(t, f.history.records, 2)
	assert.Equal(t, "gruvbox-light", f.history.records[1].Theme)
	assert.Equal(t, "tokyo-night", f.history.records[1].PreviousTheme)
	assert.Equal(t, res.ID, f.history.records[1].ID)
}

func TestApply_HistoryFailureIsLoggedOnly(t *testing.T) {
	f := newFixture(t)
	f.history.err = errors.New("database is locked")

	res, err := f.orchestrator(f.registry(f.fake("alpha"))).Apply(context.Background(), "tokyo-night", ApplyOptions{})
	require.NoError(t, err)
	assert.True(t, res.Committed)
	assert.Contains(t, f.logs.String(), "database is locked")
}
