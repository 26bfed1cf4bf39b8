package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vorwerkhome/internal/bridge"
	"vorwerkhome/internal/clock"
	"vorwerkhome/internal/config"
	"vorwerkhome/internal/metrics"
	"vorwerkhome/internal/vorwerk"
	"vorwerkhome/pkg/robot"

	// Registers the simulated robot driver.
	_ "vorwerkhome/internal/simulator"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath, logger)
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if url := os.Getenv("MQTT_URL"); url != "" {
		cfg.MQTT.URL = url
	}
	if listen := os.Getenv("METRICS_LISTEN"); listen != "" {
		cfg.MetricsListen = listen
	}

	logger.Info("Starting Vorwerk bridge",
		zap.String("mqtt_url", cfg.MQTT.URL),
		zap.Strings("drivers", robot.Drivers()))

	// Construct a robot per configured entry through the driver registry.
	robots := make([]robot.Robot, 0, len(cfg.Robots))
	for _, rc := range cfg.Robots {
		r, err := robot.Open(rc.Driver, robot.Config{
			Name:     rc.Name,
			Serial:   rc.Serial,
			Secret:   rc.Secret,
			Endpoint: rc.Endpoint,
			Settings: rc.Settings,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to open robot",
				zap.String("serial", rc.Serial),
				zap.String("driver", rc.Driver),
				zap.Error(err))
		}
		robots = append(robots, r)
	}

	integration := vorwerk.Setup(robots, cfg.PollInterval.Std(), clock.NewRealClock(), logger)

	var m *metrics.Metrics
	if cfg.MetricsListen != "" {
		reg := prometheus.NewRegistry()
		m = metrics.New(reg, integration)
		go serveMetrics(cfg.MetricsListen, reg, logger)
	}

	b := bridge.New(cfg.MQTT.Prefix, integration, m, logger)
	b.Start()

	if err := integration.Start(); err != nil {
		logger.Fatal("Failed to start integration", zap.Error(err))
	}

	client := connectMQTT(&cfg.MQTT, b, logger)

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Bridge running", zap.Int("robots", len(robots)))
	<-sigChan

	logger.Info("Shutting down gracefully...")
	b.Stop()
	client.Publish(cfg.MQTT.Prefix+"/bridge/availability", 0, true, "offline").Wait()
	client.Disconnect(250)
	integration.Stop()
}

func connectMQTT(cfg *config.MQTTConfig, b *bridge.Bridge, logger *zap.Logger) mqtt.Client {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID("vorwerkhome-" + cfg.Prefix).
		SetKeepAlive(30 * time.Second).
		SetAutoReconnect(true).
		SetOrderMatters(false).
		SetWill(cfg.Prefix+"/bridge/availability", "offline", 0, true)

	opts.OnConnect = func(client mqtt.Client) {
		logger.Info("MQTT connected")
		client.Publish(cfg.Prefix+"/bridge/availability", 0, true, "online").Wait()
		b.HandleConnect(client)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		logger.Warn("MQTT connection lost", zap.Error(err))
	}

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Fatal("Failed to connect to MQTT broker", zap.Error(token.Error()))
	}

	return client
}

func serveMetrics(listen string, reg *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	logger.Info("Serving metrics", zap.String("listen", listen))
	if err := http.ListenAndServe(listen, mux); err != nil {
		logger.Error("Metrics server stopped", zap.Error(err))
	}
}
