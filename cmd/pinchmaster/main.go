package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ayusman/pinchmaster/internal/app"
	"github.com/ayusman/pinchmaster/internal/config"
	"github.com/ayusman/pinchmaster/internal/plugin"
	"github.com/ayusman/pinchmaster/internal/server"
	"github.com/ayusman/pinchmaster/internal/sound"
	"github.com/ayusman/pinchmaster/internal/store"
	"github.com/ayusman/pinchmaster/internal/tray"
)

// multiFlag collects a repeatable string flag.
type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file")
		dbPath     = flag.String("db", "", "settings database (default ~/.pinchmaster/pinchmaster.db)")
		envFile    = flag.String("env", ".env", "dotenv file with PINCH_* overrides")
		showConfig = flag.Bool("show-config", false, "print the effective configuration and exit")
		sets       multiFlag
		unsets     multiFlag
	)
	flag.Var(&sets, "set", "persist a setting as key=value and exit (repeatable)")
	flag.Var(&unsets, "unset", "remove a persisted setting and exit (repeatable)")
	flag.Parse()

	fmt.Println("Pinch Master - pinch the moving target")

	if *dbPath == "" {
		path, err := defaultDBPath()
		if err != nil {
			log.Fatalf("Failed to prepare data directory: %v", err)
		}
		*dbPath = path
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if len(sets) > 0 || len(unsets) > 0 {
		if err := persistSettings(st, sets, unsets); err != nil {
			log.Fatalf("Failed to update settings: %v", err)
		}
		return
	}

	cfg, err := loadConfig(*configPath, *envFile, st)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *showConfig {
		out, err := cfg.YAML()
		if err != nil {
			log.Fatalf("Failed to render config: %v", err)
		}
		fmt.Print(string(out))
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, stop, cfg, st); err != nil {
		log.Fatalf("Game failed: %v", err)
	}
}

func dataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".pinchmaster")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func defaultDBPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pinchmaster.db"), nil
}

// startPlugins discovers event hooks and delivers events to them until ctx is done.
func startPlugins(ctx context.Context, dir string) (*plugin.Dispatcher, error) {
	if dir == "" {
		base, err := dataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "plugins")
	}

	manager := plugin.NewManager(dir)
	if err := manager.Discover(); err != nil {
		return nil, err
	}
	plugins := manager.List()
	if len(plugins) == 0 {
		return nil, nil
	}
	for _, p := range plugins {
		log.Printf("Loaded plugin %s %s", p.Manifest.Name, p.Manifest.Version)
	}

	dispatcher := plugin.NewDispatcher(manager, plugin.NewExecutor(0), 0)
	go dispatcher.Run(ctx)
	return dispatcher, nil
}

// loadConfig layers defaults, the YAML file, stored settings, the env file and
// the process environment, in that order.
func loadConfig(path, envFile string, st *store.Store) (*config.Config, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	stored, err := st.Settings().All()
	if err != nil {
		return nil, fmt.Errorf("failed to read stored settings: %w", err)
	}
	if err := cfg.Apply(stored); err != nil {
		return nil, fmt.Errorf("stored setting: %w", err)
	}

	if envFile != "" {
		if err := cfg.ApplyEnvFile(envFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// persistSettings checks each value against the config schema before storing it.
func persistSettings(st *store.Store, sets, unsets []string) error {
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("-set %q: want key=value", kv)
		}
		key = strings.TrimSpace(key)

		check := config.Default()
		if err := check.Set(key, value); err != nil {
			return err
		}
		if err := check.Validate(); err != nil {
			return err
		}

		if err := st.Settings().Set(key, value); err != nil {
			return err
		}
		log.Printf("Stored %s=%s", key, value)
	}

	for _, key := range unsets {
		if err := st.Settings().Delete(key); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				log.Printf("No stored setting %s", key)
				continue
			}
			return err
		}
		log.Printf("Removed %s", key)
	}
	return nil
}

func run(ctx context.Context, stop context.CancelFunc, cfg *config.Config, st *store.Store) error {
	var player sound.Player = sound.Noop{}
	if cfg.Sound {
		if sp, err := sound.NewSpeaker(); err == nil {
			player = sp
		} else {
			log.Printf("Sound not available (%v), playing silently", err)
		}
	}

	appCfg := app.Config{
		Settings: cfg,
		Sound:    player,
	}

	dispatcher, err := startPlugins(ctx, cfg.PluginDir)
	if err != nil {
		log.Printf("Plugins disabled: %v", err)
	} else if dispatcher != nil {
		appCfg.Listeners = append(appCfg.Listeners, dispatcher.Handle)
	}

	var tr *tray.Tray
	if cfg.Tray {
		tr = tray.New()
		tr.OnQuit(stop)
		appCfg.Listeners = append(appCfg.Listeners, tr.HandleEvent)
	}

	var hub *server.Hub
	var frames *server.FrameBuffer
	if cfg.HTTPAddr != "" {
		hub = server.NewHub()
		frames = server.NewFrameBuffer()
		appCfg.Events = hub
		appCfg.Frames = frames
	}

	a := app.New(appCfg)

	if cfg.HTTPAddr != "" {
		srv := &http.Server{
			Addr: cfg.HTTPAddr,
			Handler: server.New(server.Config{
				Store:  st,
				State:  a,
				Frames: frames,
				Events: hub,
			}),
		}
		go func() {
			log.Printf("Observer listening on %s", cfg.HTTPAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Server failed: %v", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	if tr == nil {
		return a.Run(ctx)
	}

	// The tray needs the main thread; the game loop locks its own.
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tr.Quit()
	}()
	tr.Run()
	stop()
	return <-errCh
}
