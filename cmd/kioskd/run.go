package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/mashaer-transit/kiosk/internal/config"
	"github.com/mashaer-transit/kiosk/internal/db"
	"github.com/mashaer-transit/kiosk/internal/httpapi"
	"github.com/mashaer-transit/kiosk/internal/kiosk/codec"
	"github.com/mashaer-transit/kiosk/internal/kiosk/engine"
	"github.com/mashaer-transit/kiosk/internal/kiosk/feedback"
	"github.com/mashaer-transit/kiosk/internal/kiosk/metrics"
	"github.com/mashaer-transit/kiosk/internal/kiosk/recorder"
	"github.com/mashaer-transit/kiosk/internal/kiosk/registry"
	"github.com/mashaer-transit/kiosk/internal/kiosk/sensors/sim"
	sqlitestore "github.com/mashaer-transit/kiosk/internal/kiosk/store/sqlite"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the kiosk workflow engine and operator API",
	RunE:  runKiosk,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runKiosk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	logger := log.New(os.Stdout, "kioskd ", log.LstdFlags|log.LUTC)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	conn, err := db.Open(ctx, db.Config{Path: cfg.DBPath, Env: cfg.Env})
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()

	writer := db.NewWorker(conn)
	defer writer.Close()

	passengerStore := sqlitestore.NewPassengerStore(conn, writer)
	tripStore := sqlitestore.NewTripStore(conn, writer)
	eventStore := sqlitestore.NewBoardingEventStore(conn, writer)

	// Credential codec
	cardCodec, err := codec.New([]byte(cfg.CardKey))
	if err != nil {
		return fmt.Errorf("card codec: %w", err)
	}

	// Sensor adapters. Production rigs swap in their driver implementations
	// here; the simulators keep headless/dev runs working end to end.
	reader := sim.NewCardReader()
	finger := sim.NewFingerprintSensor()
	counter := sim.NewHeadCounter()

	lastSeq, err := tripStore.LastSequence(ctx)
	if err != nil {
		return fmt.Errorf("read last trip sequence: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	eng := engine.New(engine.Dependencies{
		Logger:   logger,
		Codec:    cardCodec,
		Registry: registry.New(passengerStore),
		Reader:   reader,
		Finger:   finger,
		Counter:  counter,
		Feedback: feedback.NewLogSink(logger),
		Trips:    recorder.New(tripStore, logger, cfg.TripLogPath),
		Events:   eventStore,
		Metrics:  m,
	}, engine.Options{
		TickPeriod:      cfg.TickPeriod,
		CardReadTimeout: cfg.CardReadTimeout,

		FingerPromptDelay: cfg.FingerPromptDelay,
		FingerTimeout:     cfg.FingerTimeout,

		AdmitDisplay:        cfg.AdmitDisplay,
		CardRejectDisplay:   cfg.CardRejectDisplay,
		FingerRejectDisplay: cfg.FingerRejectDisplay,

		HeadcountWarmup:        cfg.HeadcountWarmup,
		HeadcountSamples:       cfg.HeadcountSamples,
		HeadcountSampleDelay:   cfg.HeadcountSampleDelay,
		HeadcountResultDisplay: cfg.HeadcountResultDisplay,

		SupervisorPIN:     cfg.SupervisorPIN,
		SupervisorPINHash: cfg.SupervisorPINHash,

		StartSequence: lastSeq + 1,
	})

	eng.Start(ctx)
	defer eng.Stop()

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:  logger,
		Addr:    cfg.HTTPAddr,
		Engine:  eng,
		Metrics: prometheus.DefaultGatherer,
	})

	go func() {
		logger.Printf("listening on %s", cfg.HTTPAddr)
		if err := srv.Start(); err != nil {
			logger.Printf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	return nil
}
