// Command ls-celestial is a terminal viewer for the Moon, Earth, Mars and
// the Sun.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-celestial/internal/app"
	"github.com/litescript/ls-celestial/internal/body"
	"github.com/litescript/ls-celestial/internal/locale"
	"github.com/litescript/ls-celestial/internal/logging"
	"github.com/litescript/ls-celestial/internal/state"
	"github.com/litescript/ls-celestial/internal/ui"
	"github.com/litescript/ls-celestial/internal/version"
)

// CLI flags
var (
	configPath  string
	logLevel    string
	logFile     string
	localeName  string
	assetsDir   string
	bodyName    string
	perspective string
	fps         int
	segments    int
	summaryMode bool
	frameCount  int
	showVersion bool
)

const (
	minFPS = 1
	maxFPS = 120
)

func main() {
	flag.StringVar(&configPath, "config", "", "YAML file overriding the default view state")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Write logs to this file (TUI logs are discarded otherwise)")
	flag.StringVar(&localeName, "locale", defaultLocale(), "Display language (zh-CN, en-US)")
	flag.StringVar(&assetsDir, "assets", "assets", "Directory holding <body>_surface.jpg textures")
	flag.StringVar(&bodyName, "body", "", "Initially selected body (moon, earth, mars, sun)")
	flag.StringVar(&perspective, "perspective", "", "Initial view (north-pole, south-pole, equator)")
	flag.IntVar(&fps, "fps", ui.DefaultFPS, "Frames per second")
	flag.IntVar(&segments, "segments", 0, "Sphere tessellation (default 64)")
	flag.BoolVar(&summaryMode, "summary", false, "Print the info panel once instead of starting the TUI")
	flag.IntVar(&frameCount, "frames", 0, "Run N frames headless and print each body's rotation")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("ls-celestial %s\n", version.Version)
		return
	}

	os.Exit(run())
}

// run starts the viewer and returns the process exit code. Deferred
// teardown runs before main exits.
func run() int {
	if fps < minFPS {
		fps = minFPS
	} else if fps > maxFPS {
		fps = maxFPS
	}

	headless := summaryMode || frameCount > 0

	logger, closeLog, err := setupLogging(headless)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	// Create context cancelled on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := setupStore(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	f := locale.New(localeName)
	logger.Debug("locale %q matched %v", localeName, f.Tag())

	if summaryMode && frameCount == 0 {
		app.WriteSummary(os.Stdout, store.State(), f, time.Now())
		return 0
	}

	a, err := app.New(ctx, store, app.Config{
		AssetsDir: assetsDir,
		Segments:  segments,
		Logger:    logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer a.Close()

	if headless {
		if err := runHeadless(ctx, a, f); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	a.Mount()
	model := ui.New(a, f, ui.WithFPS(fps), ui.WithLogger(logger.Named("ui")))
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

// setupLogging routes logs to -log-file, to stderr for headless runs, or
// nowhere while the TUI owns the terminal.
func setupLogging(headless bool) (*logging.Logger, func(), error) {
	level := logging.ParseLevel(logLevel)
	switch {
	case logFile != "":
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return logging.NewWithOutput(level, file), func() { file.Close() }, nil
	case headless:
		return logging.New(level), func() {}, nil
	default:
		return logging.Discard(), func() {}, nil
	}
}

// setupStore applies defaults, then the config file, then CLI flags.
func setupStore(logger *logging.Logger) (*state.Store, error) {
	store := state.NewStore(state.WithLogger(logger.Named("state")))

	if configPath != "" {
		if err := store.LoadFile(configPath); err != nil {
			return nil, err
		}
	}

	if bodyName != "" {
		b, err := body.ParseBody(bodyName)
		if err != nil {
			return nil, fmt.Errorf("-body: %w", err)
		}
		store.SetSelectedBody(b)
	}
	if perspective != "" {
		p, err := body.ParsePerspective(perspective)
		if err != nil {
			return nil, fmt.Errorf("-perspective: %w", err)
		}
		store.SetViewPerspective(p)
	}
	return store, nil
}

// runHeadless mounts and drives -frames frames from a ticker, then prints
// the summary and per-body rotation.
func runHeadless(ctx context.Context, a *app.App, f *locale.Formatter) error {
	a.Mount()

	if err := a.RunFrames(ctx, frameCount, time.Second/time.Duration(fps)); err != nil {
		return fmt.Errorf("run frames: %w", err)
	}

	if summaryMode {
		app.WriteSummary(os.Stdout, a.Store.State(), f, time.Now())
		fmt.Println()
	}
	a.WriteRotations(os.Stdout, f)

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println()
		st := a.Store.State()
		fmt.Printf("%s · %s\n", f.Body(st.Selected), f.Perspective(st.ViewPerspective))
	}
	return nil
}

// defaultLocale derives the display language from the environment.
func defaultLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" && v != "C" && v != "POSIX" {
			return v
		}
	}
	return "zh-CN"
}
