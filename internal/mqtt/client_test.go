package mqtt

import (
	"testing"

	"github.com/berfenger/solax2mqtt/internal/config"
	"github.com/berfenger/solax2mqtt/internal/core/domain"
	"github.com/berfenger/solax2mqtt/pkg/solax"

	"github.com/stretchr/testify/assert"
)

func testClient() *MQTTClient {
	cfg := &config.Config{
		MQTT: config.MQTTConfig{
			Host:             "localhost",
			Port:             1883,
			BaseTopic:        "loremtopic",
			HADiscoveryTopic: "homeassistant",
		},
	}
	return CreateMQTTClient(cfg, OptsFromConfig(cfg), nil, nil)
}

func TestStateTopics(t *testing.T) {

	assert := assert.New(t)

	c := testClient()

	assert.Equal("loremtopic/sensor/pv1_power/state", c.SensorStateTopic("pv1_power"))
	assert.Equal("loremtopic/binary_sensor/inverter_reachable/state", c.BinarySensorStateTopic("inverter_reachable"))
	assert.Equal("loremtopic/bridge/state", c.BridgeStateTopic())
}

func TestHADiscoverySensorTopic(t *testing.T) {

	assert := assert.New(t)

	sensor := domain.GenericSensor{
		Device:     domain.Device{Id: "slx_inverter_abcd1234"},
		Id:         "pv1_power",
		SensorType: domain.SENSOR_TYPE_SENSOR,
	}

	assert.Equal("homeassistant/sensor/slx_inverter_abcd1234/pv1_power/config",
		HADiscoverySensorTopic("homeassistant", sensor))
}

func TestSensorDiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	c := testClient()

	sensor := domain.GenericSensor{
		Device:            domain.Device{Id: "slx_inverter_abcd1234", Manufacturer: "SolaX Power"},
		Id:                "pv1_power",
		SensorType:        domain.SENSOR_TYPE_SENSOR,
		Name:              "Pv1 power",
		StateClass:        domain.STATE_CLASS_MEASUREMENT,
		DeviceClass:       domain.DEVICE_CLASS_POWER,
		UnitOfMeasurement: string(solax.UnitWatt),
		UniqueId:          "uid_slx_inverter_abcd1234_pv1_power",
	}

	msg := GenericSensorToHADiscoveryMessage(c, sensor)

	assert.Equal("loremtopic/sensor/pv1_power/state", msg.StateTopic)
	assert.Equal("loremtopic/bridge/state", msg.AvTopic)
	assert.Equal("power", msg.DeviceClass)
	assert.Equal("measurement", msg.StateClass)
	assert.Equal("W", msg.UnitOfMeasurement)
	assert.Equal("mqtt", msg.Platform)
	assert.Empty(msg.PayloadOn)
}

func TestBinarySensorDiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	c := testClient()

	msg := GenericSensorToHADiscoveryMessage(c, domain.GenericSensor{
		Device:      domain.Device{Id: "slx_inverter_abcd1234"},
		Id:          domain.SENSOR_ID_INVERTER_REACHABLE,
		SensorType:  domain.SENSOR_TYPE_BINARY,
		DeviceClass: domain.DEVICE_CLASS_CONNECTIVITY,
	})

	assert.Equal("loremtopic/binary_sensor/inverter_reachable/state", msg.StateTopic)
	assert.Equal(MQTT_PAYLOAD_ON, msg.PayloadOn)
	assert.Equal(MQTT_PAYLOAD_OFF, msg.PayloadOff)
}

func TestBridgeDiscoveryMessage(t *testing.T) {

	assert := assert.New(t)

	c := testClient()

	msg := GenericSensorToHADiscoveryMessage(c, domain.GenericSensor{
		Device:     domain.Device{Id: "solax2mqtt_bridge_abcd1234"},
		Id:         domain.SENSOR_ID_BRIDGE_STATE,
		SensorType: domain.SENSOR_TYPE_BINARY,
	})

	assert.Equal("loremtopic/bridge/state", msg.StateTopic)
	assert.Equal(MQTT_PAYLOAD_ONLINE, msg.PayloadOn)
	assert.Equal(MQTT_PAYLOAD_OFFLINE, msg.PayloadOff)
}
