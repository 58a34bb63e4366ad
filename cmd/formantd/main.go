// Formantd is a rule-based text-to-speech daemon. It turns English text into
// speech with a formant synthesizer and serves it over HTTP, gRPC, MQTT and
// the Wyoming protocol.
//
// Usage:
//
//	formantd [flags]
//	formantd --config /path/to/formantd.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nadzzz/formantd/internal/config"
	"github.com/nadzzz/formantd/internal/dispatch"
	"github.com/nadzzz/formantd/internal/health"
	"github.com/nadzzz/formantd/internal/message"
	"github.com/nadzzz/formantd/internal/transport"
	grpctransport "github.com/nadzzz/formantd/internal/transport/grpc"
	httptransport "github.com/nadzzz/formantd/internal/transport/http"
	mqtttransport "github.com/nadzzz/formantd/internal/transport/mqtt"
	wyomingtransport "github.com/nadzzz/formantd/internal/transport/wyoming"
	"github.com/nadzzz/formantd/internal/tts"
	"github.com/nadzzz/formantd/internal/tts/formant"
)

// version is set at build time via ldflags.
var version = "dev"

// selfTestText is synthesized by the readiness check.
const selfTestText = "ok"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/formantd.yaml)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("formantd %s\n", version)
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging.
	config.SetupLogging(cfg.Logging)
	slog.Info("formantd starting", "version", version)

	// Create root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize the synthesizer.
	synth, err := formant.New(formant.Options{
		Voices:    cfg.Synth.VoiceSessionConfigs(),
		CacheSize: cfg.Cache.Size,
	})
	if err != nil {
		slog.Error("failed to create synthesizer", "error", err)
		os.Exit(1)
	}
	defer synth.Close()
	slog.Info("synthesizer ready",
		"voices", synth.Voices(),
		"sample_rate", cfg.Synth.SampleRate,
		"cache_size", cfg.Cache.Size)

	// Initialize enabled transports.
	var transports []transport.Transport

	if cfg.Transports.GRPC.Enabled {
		transports = append(transports, grpctransport.New(cfg.Transports.GRPC.Port))
	}
	if cfg.Transports.HTTP.Enabled {
		h := cfg.Transports.HTTP
		transports = append(transports, httptransport.New(httptransport.Options{
			Port:         h.Port,
			RateLimitRPM: h.RateLimitRPM,
			RateBurst:    h.RateBurst,
			MaxBodyBytes: h.MaxBodyBytes,
		}))
	}
	if cfg.Transports.MQTT.Enabled {
		m := cfg.Transports.MQTT
		transports = append(transports, mqtttransport.New(mqtttransport.Options{
			Broker:   m.Broker,
			Topic:    m.Topic,
			ClientID: m.ClientID,
			Username: m.Username,
			Password: m.Password,
			QoS:      m.QoS,
		}))
	}
	if cfg.Transports.Wyoming.Enabled {
		transports = append(transports, wyomingtransport.New(wyomingtransport.Options{
			Port:   cfg.Transports.Wyoming.Port,
			Voices: synth.Voices(),
		}))
	}

	if len(transports) == 0 {
		slog.Error("no transports enabled, enable at least one in config")
		os.Exit(1)
	}

	// Create the dispatcher.
	dispatcher := dispatch.New(synth, transports, namedTargets(cfg.Targets))

	// Start health check server.
	healthServer := health.New(cfg.Server.HealthPort)
	healthServer.SetCheck(func(ctx context.Context) error {
		_, err := synth.Synthesize(ctx, selfTestText, tts.SynthesizeOpts{})
		return err
	})
	go func() {
		if err := healthServer.ListenAndServe(ctx); err != nil {
			slog.Error("health server failed", "error", err)
		}
	}()

	// Start all transports.
	var wg sync.WaitGroup
	for _, t := range transports {
		wg.Add(1)
		go func(t transport.Transport) {
			defer wg.Done()
			slog.Info("starting transport", "name", t.Name())
			if err := t.Listen(ctx, dispatcher.Handle); err != nil {
				slog.Error("transport failed", "name", t.Name(), "error", err)
			}
		}(t)
	}

	// Mark as ready once all transports are started.
	healthServer.SetReady(true)
	slog.Info("formantd ready",
		"transports", len(transports),
		"health_port", cfg.Server.HealthPort)

	// Block until shutdown signal.
	<-ctx.Done()
	slog.Info("shutdown signal received, draining...")
	healthServer.SetReady(false)

	// Close all transports gracefully.
	for _, t := range transports {
		if err := t.Close(); err != nil {
			slog.Error("transport close error", "name", t.Name(), "error", err)
		}
	}

	wg.Wait()
	stats := synth.Stats()
	slog.Info("formantd stopped",
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses,
		"renders", stats.Renders)
}

// namedTargets converts configured targets to message targets keyed by
// service name.
func namedTargets(targets map[string]config.Target) map[string]message.Target {
	out := make(map[string]message.Target, len(targets))
	for name, t := range targets {
		out[name] = message.Target{
			ServiceName: name,
			Endpoint:    t.Endpoint,
			Protocol:    t.Protocol,
			Token:       t.Token,
		}
	}
	return out
}
