// Package bridge surfaces the integration's entities to Home Assistant over
// MQTT discovery and routes command topics back into the vacuum entities.
package bridge

import (
	"encoding/json"
	"fmt"
	"sync"

	"vorwerkhome/internal/coordinator"
	"vorwerkhome/internal/metrics"
	"vorwerkhome/internal/vorwerk"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Availability payloads, matching the discovery schema defaults.
const (
	payloadOnline  = "online"
	payloadOffline = "offline"
)

// Bridge publishes entity state for every robot and subscribes to the
// per-robot command topics. Commands arrive on paho handler goroutines, so
// blocking robot calls never stall the coordinator loop.
type Bridge struct {
	prefix      string
	integration *vorwerk.Integration
	metrics     *metrics.Metrics
	logger      *zap.Logger

	mu     sync.RWMutex
	client mqtt.Client

	coordSubs []coordinator.Subscription
}

// New creates a bridge for the integration. metrics may be nil.
func New(prefix string, integration *vorwerk.Integration, m *metrics.Metrics, logger *zap.Logger) *Bridge {
	return &Bridge{
		prefix:      prefix,
		integration: integration,
		metrics:     m,
		logger:      logger.Named("bridge"),
	}
}

// Start subscribes the bridge to every robot's coordinator so state changes
// publish as soon as a broker connection exists. Call once before connecting.
func (b *Bridge) Start() {
	for _, entry := range b.integration.Robots() {
		entry := entry
		sub := entry.Coordinator.Subscribe(func() {
			b.publishRobot(entry)
		})
		b.coordSubs = append(b.coordSubs, sub)
	}
}

// Stop detaches the bridge from the coordinators and marks every robot
// offline on the broker.
func (b *Bridge) Stop() {
	for _, sub := range b.coordSubs {
		sub.Unsubscribe()
	}
	b.coordSubs = nil

	for _, entry := range b.integration.Robots() {
		b.publish(b.availabilityTopic(entry.Vacuum.UniqueID()), true, []byte(payloadOffline))
	}
}

// HandleConnect wires the bridge to a connected client. It is safe to call
// on every (re)connect: discovery is retained and subscriptions are
// re-established.
func (b *Bridge) HandleConnect(client mqtt.Client) {
	b.mu.Lock()
	b.client = client
	b.mu.Unlock()

	for _, entry := range b.integration.Robots() {
		b.publishDiscovery(entry)
		b.subscribeCommands(client, entry)
		b.publishRobot(entry)
	}

	b.logger.Info("Bridge connected",
		zap.Int("robots", len(b.integration.Robots())))
}

func (b *Bridge) publishDiscovery(entry *vorwerk.RobotEntry) {
	serial := entry.Vacuum.UniqueID()
	device := deviceBlock(entry.Vacuum.DeviceInfo())

	vacuum := vacuumDiscovery{
		Name:                entry.Vacuum.Name(),
		UniqueID:            entry.Vacuum.UniqueID(),
		Schema:              "state",
		SupportedFeatures:   supportedFeatures,
		StateTopic:          b.stateTopic(serial),
		CommandTopic:        b.commandTopic(serial),
		AvailabilityTopic:   b.availabilityTopic(serial),
		JSONAttributesTopic: b.attributesTopic(serial),
		Icon:                entry.Vacuum.Icon(),
		Device:              device,
	}
	b.publishJSON(b.vacuumConfigTopic(serial), true, vacuum)

	sensor := sensorDiscovery{
		Name:              entry.Sensor.Name(),
		UniqueID:          entry.Sensor.UniqueID(),
		StateTopic:        b.stateTopic(serial),
		ValueTemplate:     "{{ value_json.battery_level }}",
		AvailabilityTopic: b.availabilityTopic(serial),
		DeviceClass:       entry.Sensor.DeviceClass(),
		UnitOfMeasurement: entry.Sensor.Unit(),
		StateClass:        "measurement",
		Device:            device,
	}
	b.publishJSON(b.sensorConfigTopic(serial), true, sensor)
}

func (b *Bridge) subscribeCommands(client mqtt.Client, entry *vorwerk.RobotEntry) {
	serial := entry.Vacuum.UniqueID()

	b.subscribe(client, b.commandTopic(serial), b.commandHandler(entry))
	b.subscribe(client, b.customCleaningTopic(serial), b.customCleaningHandler(entry))
}

func (b *Bridge) commandHandler(entry *vorwerk.RobotEntry) mqtt.MessageHandler {
	serial := entry.Vacuum.UniqueID()
	return func(_ mqtt.Client, msg mqtt.Message) {
		command := string(msg.Payload())
		switch command {
		case "start":
			entry.Vacuum.Start()
		case "pause":
			entry.Vacuum.Pause()
		case "stop":
			entry.Vacuum.Stop()
		case "return_home", "return_to_base":
			entry.Vacuum.ReturnToBase()
		case "locate":
			entry.Vacuum.Locate()
		case "clean_spot":
			entry.Vacuum.CleanSpot()
		default:
			b.logger.Warn("Unknown vacuum command",
				zap.String("serial", serial),
				zap.String("command", command))
			return
		}
		b.metrics.CommandDispatched(serial, command)
	}
}

// customCleaningRequest is the custom cleaning service payload. Omitted
// parameters take the documented defaults; supplied ones must be positive.
type customCleaningRequest struct {
	Mode       *int   `json:"mode"`
	Navigation *int   `json:"navigation"`
	Category   *int   `json:"category"`
	Zone       string `json:"zone"`
}

func (b *Bridge) customCleaningHandler(entry *vorwerk.RobotEntry) mqtt.MessageHandler {
	serial := entry.Vacuum.UniqueID()
	return func(_ mqtt.Client, msg mqtt.Message) {
		var req customCleaningRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			b.logger.Error("Invalid custom cleaning payload",
				zap.String("serial", serial),
				zap.Error(err))
			return
		}

		mode, err := positiveOrDefault("mode", req.Mode, vorwerk.DefaultCustomMode)
		if err != nil {
			b.logger.Error("Invalid custom cleaning payload",
				zap.String("serial", serial), zap.Error(err))
			return
		}
		navigation, err := positiveOrDefault("navigation", req.Navigation, vorwerk.DefaultCustomNavigation)
		if err != nil {
			b.logger.Error("Invalid custom cleaning payload",
				zap.String("serial", serial), zap.Error(err))
			return
		}
		category, err := positiveOrDefault("category", req.Category, vorwerk.DefaultCustomCategory)
		if err != nil {
			b.logger.Error("Invalid custom cleaning payload",
				zap.String("serial", serial), zap.Error(err))
			return
		}

		entry.Vacuum.CustomCleaning(mode, navigation, category, req.Zone)
		b.metrics.CommandDispatched(serial, "custom_cleaning")
	}
}

func positiveOrDefault(name string, value *int, fallback int) (int, error) {
	if value == nil {
		return fallback, nil
	}
	if *value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %d", name, *value)
	}
	return *value, nil
}

// statePayload is the JSON published on the state topic. The battery sensor
// reads battery_level off the same payload via its value template.
type statePayload struct {
	State        string `json:"state"`
	BatteryLevel *int   `json:"battery_level,omitempty"`
}

func (b *Bridge) publishRobot(entry *vorwerk.RobotEntry) {
	serial := entry.Vacuum.UniqueID()

	availability := payloadOffline
	if entry.Vacuum.Available() {
		availability = payloadOnline
	}
	b.publish(b.availabilityTopic(serial), true, []byte(availability))

	if state := entry.Vacuum.State(); state != "" {
		b.publishJSON(b.stateTopic(serial), true, statePayload{
			State:        state,
			BatteryLevel: entry.Vacuum.BatteryLevel(),
		})
		b.publishJSON(b.attributesTopic(serial), true, entry.Vacuum.Attributes())
	}
}

func (b *Bridge) subscribe(client mqtt.Client, topic string, handler mqtt.MessageHandler) {
	token := client.Subscribe(topic, 0, handler)
	token.Wait()
	if err := token.Error(); err != nil {
		b.logger.Error("Failed to subscribe",
			zap.String("topic", topic),
			zap.Error(err))
	}
}

func (b *Bridge) publishJSON(topic string, retained bool, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("Failed to marshal payload",
			zap.String("topic", topic),
			zap.Error(err))
		return
	}
	b.publish(topic, retained, data)
}

func (b *Bridge) publish(topic string, retained bool, payload []byte) {
	b.mu.RLock()
	client := b.client
	b.mu.RUnlock()

	if client == nil || !client.IsConnected() {
		return
	}

	token := client.Publish(topic, 0, retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		b.logger.Warn("Failed to publish",
			zap.String("topic", topic),
			zap.Error(err))
	}
}

func (b *Bridge) stateTopic(serial string) string {
	return b.prefix + "/" + serial + "/state"
}

func (b *Bridge) availabilityTopic(serial string) string {
	return b.prefix + "/" + serial + "/availability"
}

func (b *Bridge) attributesTopic(serial string) string {
	return b.prefix + "/" + serial + "/attributes"
}

func (b *Bridge) commandTopic(serial string) string {
	return b.prefix + "/" + serial + "/command"
}

func (b *Bridge) customCleaningTopic(serial string) string {
	return b.prefix + "/" + serial + "/custom_cleaning"
}

func (b *Bridge) vacuumConfigTopic(serial string) string {
	return "homeassistant/vacuum/" + b.prefix + "_" + serial + "/config"
}

func (b *Bridge) sensorConfigTopic(serial string) string {
	return "homeassistant/sensor/" + b.prefix + "_" + serial + "/battery/config"
}
