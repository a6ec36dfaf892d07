package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ocean/internal/camera"
	"ocean/internal/config"
	"ocean/internal/core"
	"ocean/internal/gpu"
	"ocean/internal/ocean"
	"ocean/internal/stream"
)

func main() {
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	if level, err := zerolog.ParseLevel(*logLevelFlag); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		log.Warn().Str("level", *logLevelFlag).Msg("unknown log level; using info")
	}

	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("ocean stopped")
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPathFlag != "" {
		c, err := config.Load(*configPathFlag)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if *deviceFlag != "" {
		cfg.Device = *deviceFlag
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	if *streamAddrFlag != "" {
		cfg.Stream.Addr = *streamAddrFlag
	}
	return cfg, cfg.Validate()
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dev, err := openDevice(cfg.Device, cfg.Workers)
	if err != nil {
		return err
	}
	defer dev.Close()

	cam := camera.New(cfg.Camera.Near, cfg.Camera.Far, cfg.Camera.Fov, 1)
	o, err := ocean.New(dev, ocean.SettingsFrom(cfg), cam, core.NewRNG(cfg.Seed))
	if err != nil {
		return err
	}

	var hub *stream.Hub
	if cfg.Stream.Addr != "" {
		hub = stream.NewHub(dev.Name())
		srv := serveStream(cfg.Stream.Addr, hub)
		defer func() {
			hub.Close()
			_ = srv.Close()
		}()
	}
	runner := newFrameRunner(o, hub)

	if *headlessFlag {
		return runHeadless(ctx, runner, *framesFlag)
	}
	return runWindow(ctx, o, cam, runner, dev)
}

func serveStream(addr string, hub *stream.Hub) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleFramesWS)
	mux.HandleFunc("/health", hub.HandleHealth)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("stream server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("stream server stopped")
		}
	}()
	return srv
}

func runWindow(ctx context.Context, o *ocean.Ocean, cam *camera.State, runner *frameRunner, dev gpu.Device) error {
	g := newGame(ctx, o, cam, runner)
	if *recordDefaultPGO {
		stopPGO, err := startDefaultPGORecording(defaultPGOPath)
		if err != nil {
			log.Warn().Err(err).Msg("PGO recording unavailable")
		} else {
			defer stopPGO()
			g.enableAutoOrbit(pgoRecordDuration, stopPGO)
		}
	}

	ebiten.SetWindowSize(viewSize*windowScale, viewSize*windowScale)
	ebiten.SetWindowTitle("Ocean FFT (" + dev.Name() + ")")
	ebiten.SetTPS(int(defaultTPS))
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
