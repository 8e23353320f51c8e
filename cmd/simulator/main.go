package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/fso-simulator/core"
	"github.com/signalsfoundry/fso-simulator/internal/logging"
	"github.com/signalsfoundry/fso-simulator/internal/observability"
	"github.com/signalsfoundry/fso-simulator/timectrl"
)

// Sends packets from a satellite to an optical ground station over a
// free-space optical downlink. A high elevation angle is assumed, which
// corresponds to weak atmospheric turbulence.
//
// The channel chains three loss models: free-space path loss, the
// scintillation index of the turbulence, and the mean irradiance after beam
// spreading. The error model on the ground station samples the received
// irradiance from those statistics to decide whether each packet survives.
func main() {
	scenarioPath := flag.String("scenario", "configs/fso_scenario.json", "path to the link scenario JSON")
	sends := flag.Int("sends", 1, "number of packets to transmit")
	verbose := flag.Bool("verbose", false, "log loss-model and error-model internals")
	metricsAddr := flag.String("metrics-addr", "", "serve Prometheus metrics on this address (empty = disabled)")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logging.New(logging.Config{Level: level, Format: os.Getenv("LOG_FORMAT")})
	ctx := context.Background()

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "tracing init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdown, log)

	collector, err := observability.NewLinkCollector(nil)
	if err != nil {
		log.Error(ctx, "metrics init failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error(ctx, "metrics server failed", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	f, err := os.Open(*scenarioPath)
	if err != nil {
		log.Error(ctx, "failed to open scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	sched := timectrl.NewScheduler(time.Now().UTC())
	scenario, err := core.LoadScenario(f, sched, log)
	if err != nil {
		log.Error(ctx, "failed to load scenario", logging.String("error", err.Error()))
		os.Exit(1)
	}
	scenario.Channel.SetMetricsRecorder(collector)

	delivered := 0
	corrupted := 0
	scenario.RxPhy.SetReceiveOkCallback(func(pkt *core.Packet, params core.SignalParameters) {
		delivered++
		collector.ObserveIrradiance(params.MeanIrradiance())
	})
	scenario.RxPhy.SetReceiveErrorCallback(func(pkt *core.Packet, params core.SignalParameters) {
		corrupted++
		collector.ObserveIrradiance(params.MeanIrradiance())
	})

	tracer := otel.Tracer("fso-simulator")
	_, span := tracer.Start(ctx, "simulation-run")
	span.SetAttributes(
		attribute.Int("sends", *sends),
		attribute.Int("packet_size_bytes", scenario.PacketSizeBytes),
		attribute.Float64("wavelength_m", scenario.Params.WavelengthM),
	)

	for i := 0; i < *sends; i++ {
		pkt := core.NewPacket(scenario.PacketSizeBytes)
		if err := scenario.TxPhy.SendPacket(pkt, scenario.Params); err != nil {
			log.Error(ctx, "send failed", logging.String("error", err.Error()))
			os.Exit(1)
		}
		collector.SetPendingEvents(sched.Len())
	}

	events := sched.Run()
	collector.SetPendingEvents(sched.Len())
	span.SetAttributes(
		attribute.Int("events_executed", events),
		attribute.Int("delivered", delivered),
		attribute.Int("corrupted", corrupted),
	)
	span.End()

	fmt.Printf("Simulation complete: %d events, %d/%d packets delivered intact, %d corrupted\n",
		events, delivered, *sends, corrupted)
}
