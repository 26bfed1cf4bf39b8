package bridge

import "vorwerkhome/internal/vorwerk"

// Home Assistant MQTT discovery payloads. Field names follow the discovery
// schema; both entities share one device block so they group under a single
// device.

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Manufacturer string   `json:"manufacturer"`
	Model        string   `json:"model,omitempty"`
	SwVersion    string   `json:"sw_version,omitempty"`
}

type vacuumDiscovery struct {
	Name                string          `json:"name"`
	UniqueID            string          `json:"unique_id"`
	Schema              string          `json:"schema"`
	SupportedFeatures   []string        `json:"supported_features"`
	StateTopic          string          `json:"state_topic"`
	CommandTopic        string          `json:"command_topic"`
	AvailabilityTopic   string          `json:"availability_topic"`
	JSONAttributesTopic string          `json:"json_attributes_topic"`
	Icon                string          `json:"icon"`
	Device              discoveryDevice `json:"device"`
}

type sensorDiscovery struct {
	Name              string          `json:"name"`
	UniqueID          string          `json:"unique_id"`
	StateTopic        string          `json:"state_topic"`
	ValueTemplate     string          `json:"value_template"`
	AvailabilityTopic string          `json:"availability_topic"`
	DeviceClass       string          `json:"device_class"`
	UnitOfMeasurement string          `json:"unit_of_measurement"`
	StateClass        string          `json:"state_class"`
	Device            discoveryDevice `json:"device"`
}

// The six commands accepted on the command topic, using Home Assistant's
// vacuum payload names.
var supportedFeatures = []string{
	"start",
	"pause",
	"stop",
	"return_home",
	"battery",
	"status",
	"locate",
	"clean_spot",
}

func deviceBlock(info vorwerk.DeviceInfo) discoveryDevice {
	return discoveryDevice{
		Identifiers:  []string{info.Identifier},
		Name:         info.Name,
		Manufacturer: info.Manufacturer,
		Model:        info.Model,
		SwVersion:    info.SwVersion,
	}
}
