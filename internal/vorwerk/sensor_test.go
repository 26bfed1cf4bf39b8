package vorwerk

import (
	"testing"

	"vorwerkhome/pkg/robot"

	"github.com/stretchr/testify/assert"
)

func TestBatterySensor_Identity(t *testing.T) {
	state := NewState(testInfo, &fakeSource{})
	sensor := NewBatterySensor(state)

	assert.Equal(t, "Robbie Battery", sensor.Name())
	assert.Equal(t, "VR300-1234", sensor.UniqueID())
	assert.Equal(t, BatteryDeviceClass, sensor.DeviceClass())
	assert.Equal(t, PercentUnit, sensor.Unit())
}

func TestBatterySensor_ReportsRawValue(t *testing.T) {
	source := &fakeSource{
		status:    robot.Status{State: robot.StateIdle, Charge: 73},
		hasData:   true,
		available: true,
	}
	sensor := NewBatterySensor(NewState(testInfo, source))

	value, ok := sensor.Value()
	assert.True(t, ok)
	assert.Equal(t, 73, value)
}

func TestBatterySensor_ReportsZero(t *testing.T) {
	// Unlike the vacuum entity, the sensor reports a cached zero as zero.
	source := &fakeSource{
		status:    robot.Status{State: robot.StateIdle, Charge: 0},
		hasData:   true,
		available: true,
	}
	sensor := NewBatterySensor(NewState(testInfo, source))

	value, ok := sensor.Value()
	assert.True(t, ok)
	assert.Equal(t, 0, value)
}

func TestBatterySensor_AvailabilityPassthrough(t *testing.T) {
	source := &fakeSource{
		status:    robot.Status{Charge: 50},
		hasData:   true,
		available: false,
	}
	sensor := NewBatterySensor(NewState(testInfo, source))

	assert.False(t, sensor.Available())

	source.available = true
	assert.True(t, sensor.Available())
}
