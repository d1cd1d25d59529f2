package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/banshee-data/inky2048/internal/config"
	"github.com/banshee-data/inky2048/internal/db"
	"github.com/banshee-data/inky2048/internal/game"
	"github.com/banshee-data/inky2048/internal/gesture"
	"github.com/banshee-data/inky2048/internal/monitoring"
	"github.com/banshee-data/inky2048/internal/render"
	"github.com/banshee-data/inky2048/internal/serialmux"
	"github.com/banshee-data/inky2048/internal/touch"
	"github.com/banshee-data/inky2048/internal/version"
)

var (
	configPath  = flag.String("config", config.DefaultConfigPath, "Tuning config JSON file")
	device      = flag.String("device", "/dev/input/event2", "Touch input device")
	serialPort  = flag.String("serial", "", "Serial touch bridge; overrides -device when set")
	devMode     = flag.Bool("dev", false, "Replay -fixtures instead of reading hardware")
	fixtures    = flag.String("fixtures", "config/fixtures/swipes.txt", "Touch fixture file used in dev mode")
	dbPath      = flag.String("db", "inky.db", "SQLite database path")
	listen      = flag.String("listen", "", "Debug HTTP listen address; empty disables the server")
	framePath   = flag.String("frame", "", "Write each frame to this .png, .bmp or .tiff file")
	grab        = flag.Bool("grab", true, "Grab the touch device exclusively")
	verbose     = flag.Bool("v", false, "Verbose gesture logging")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// applyEnv fills every flag not given on the command line from the
// environment.
func applyEnv(fs *flag.FlagSet, env config.RuntimeEnv) {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	from := map[string]string{
		"config": env.ConfigPath,
		"device": env.TouchDevice,
		"serial": env.SerialPort,
		"db":     env.DBPath,
		"listen": env.Listen,
	}
	for name, v := range from {
		if set[name] || v == "" {
			continue
		}
		if err := fs.Set(name, v); err != nil {
			log.Printf("ignoring environment value for -%s: %v", name, err)
		}
	}
}

// inputs selects where touch samples come from.
type inputs struct {
	dev        bool
	fixtures   string
	serialPort string
	device     string
	grab       bool
}

// newSource returns the touch source for in. The returned mux is the
// serial bridge when one is used and a DisabledSerialMux otherwise.
func newSource(in inputs, tuning *config.TuningConfig, open serialmux.SerialPortOpener) (touch.Source, serialmux.SerialMuxInterface, error) {
	switch {
	case in.dev:
		return &touch.ReplaySource{Path: in.fixtures, Pace: true}, serialmux.NewDisabledSerialMux(), nil
	case in.serialPort != "":
		mux, err := serialmux.Open(open, in.serialPort, serialmux.PortOptions{},
			serialmux.WithBuffer(tuning.GetSubscriberBuffer()))
		if err != nil {
			return nil, nil, err
		}
		return &touch.SerialSource{Mux: mux}, mux, nil
	default:
		return &touch.EvdevSource{
			Path:    in.device,
			Options: touch.OptionsFromTuning(tuning),
			Grab:    in.grab,
		}, serialmux.NewDisabledSerialMux(), nil
	}
}

func newScreen(frame string) (*render.Screen, error) {
	tiles, err := render.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	title, err := render.NewFace(render.TitleSize)
	if err != nil {
		return nil, err
	}
	var display render.Display = render.DiscardDisplay{}
	if frame != "" {
		fd, err := render.NewFileDisplay(frame)
		if err != nil {
			return nil, err
		}
		display = fd
	}
	return render.NewScreen(render.NewCanvas(tiles, title), display), nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	env, err := config.LoadRuntimeEnv()
	if err != nil {
		log.Fatalf("failed to load environment: %v", err)
	}
	applyEnv(flag.CommandLine, env)
	if *verbose {
		monitoring.SetDebugLogger(log.Printf)
	}
	log.Printf("starting %s", version.String())

	tuning, err := config.LoadTuningConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load tuning config: %v", err)
	}

	source, touchSerial, err := newSource(inputs{
		dev:        *devMode,
		fixtures:   *fixtures,
		serialPort: *serialPort,
		device:     *device,
		grab:       *grab,
	}, tuning, serialmux.OpenPort)
	if err != nil {
		log.Fatalf("failed to open touch input: %v", err)
	}
	defer touchSerial.Close()

	store, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	screen, err := newScreen(*framePath)
	if err != nil {
		log.Fatalf("failed to set up display: %v", err)
	}

	g, err := game.New(game.ConfigFromTuning(tuning), game.WithRecorder(store), game.WithView(screen))
	if err != nil {
		log.Fatalf("failed to create game: %v", err)
	}
	if err := g.Start(); err != nil {
		log.Fatalf("failed to draw board: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	samples := make(chan gesture.Sample, tuning.GetSubscriberBuffer())

	// serial IO, a no-op unless a bridge is configured
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := touchSerial.Monitor(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("failed to monitor serial port: %v", err)
		}
		log.Print("monitor routine terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := source.Run(ctx, samples); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("touch source stopped: %v", err)
			stop()
			return
		}
		log.Print("touch routine terminated")
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := g.Run(ctx, samples); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("game stopped: %v", err)
			stop()
		}
		st := g.Tracker().Stats()
		log.Printf("game routine terminated: %d samples, %d swipes, %d dropped, %d evicted",
			st.Samples, st.Emitted, st.Dropped, st.Evicted)
	}()

	if *listen != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()

			mux := http.NewServeMux()
			touchSerial.AttachAdminRoutes(mux)
			if err := store.AttachAdminRoutes(mux); err != nil {
				log.Printf("failed to attach db admin routes: %v", err)
			}

			server := &http.Server{Addr: *listen, Handler: mux}
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("failed to start server: %v", err)
					stop()
				}
			}()

			<-ctx.Done()
			log.Println("shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("HTTP server shutdown error: %v", err)
				if err := server.Close(); err != nil {
					log.Printf("HTTP server force close error: %v", err)
				}
			}
			log.Printf("HTTP server routine stopped")
		}()
	}

	wg.Wait()
	log.Printf("graceful shutdown complete")
}
