package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/berfenger/solax2mqtt/pkg/solax"

	"github.com/carlmjohnson/versioninfo"
)

const (
	SENSOR_ID_BRIDGE_STATE       = "bridge"
	SENSOR_ID_INVERTER_REACHABLE = "inverter_reachable"

	STATE_CLASS_MEASUREMENT      = "measurement"
	STATE_CLASS_TOTAL_INCREASING = "total_increasing"

	DEVICE_CLASS_BATTERY      = "battery"
	DEVICE_CLASS_CURRENT      = "current"
	DEVICE_CLASS_ENERGY       = "energy"
	DEVICE_CLASS_FREQUENCY    = "frequency"
	DEVICE_CLASS_POWER        = "power"
	DEVICE_CLASS_TEMPERATURE  = "temperature"
	DEVICE_CLASS_VOLTAGE      = "voltage"
	DEVICE_CLASS_CONNECTIVITY = "connectivity"

	ENTITY_CLASS_DIAGNOSTIC = "diagnostic"

	SENSOR_TYPE_SENSOR = "sensor"
	SENSOR_TYPE_BINARY = "binary_sensor"
)

func BridgeDevice(baseTopic string) Device {
	return Device{
		Id:           fmt.Sprintf("solax2mqtt_bridge_%s", md5HashShort(baseTopic)),
		Manufacturer: "ACasal",
		Model:        "Solax2mqtt",
		Version:      versioninfo.Short(),
		Name:         fmt.Sprintf("Solax2mqtt %s", md5HashShort(baseTopic)),
	}
}

func InverterDevice(info *solax.DeviceInfo) Device {
	return Device{
		Id:           fmt.Sprintf("slx_inverter_%s", md5HashShort(info.Serial)),
		Version:      info.Version,
		Manufacturer: info.Manufacturer,
		Model:        info.Type,
		Name:         fmt.Sprintf("%s %s %s", info.Manufacturer, info.Type, md5HashShort(info.Serial)),
	}
}

func IdDevice(device Device) Device {
	return Device{
		Id:   device.Id,
		Name: device.Name,
	}
}

// InverterFieldSensors builds one sensor per field catalog entry. Device and
// state classes derive from the field's measurement: the comparison axis is
// the unit value for every case.
func InverterFieldSensors(inverterDevice Device, catalog []solax.SensorDef) []GenericSensor {

	var sensors []GenericSensor

	for _, def := range catalog {
		sensors = append(sensors, GenericSensor{
			Device:            inverterDevice,
			Id:                def.Key,
			SensorType:        SENSOR_TYPE_SENSOR,
			Name:              sensorName(def.Key),
			StateClass:        StateClassForMeasure(def.Measure),
			DeviceClass:       DeviceClassForUnit(def.Measure.Unit),
			UnitOfMeasurement: string(def.Measure.Unit),
			UniqueId:          uniqueId(inverterDevice.Id, def.Key),
		})
	}

	return sensors
}

// InverterReachableSensor exposes the poller readiness flag as a diagnostic
// connectivity sensor on the inverter device.
func InverterReachableSensor(inverterDevice Device) GenericSensor {
	return GenericSensor{
		Device:         inverterDevice,
		Id:             SENSOR_ID_INVERTER_REACHABLE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Inverter reachable",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(inverterDevice.Id, SENSOR_ID_INVERTER_REACHABLE),
	}
}

func BridgeSensors(bridgeDevice Device) []GenericSensor {

	var sensors []GenericSensor

	// Bridge connection state
	sensors = append(sensors, GenericSensor{
		Device:         bridgeDevice,
		Id:             SENSOR_ID_BRIDGE_STATE,
		SensorType:     SENSOR_TYPE_BINARY,
		Name:           "Connection state",
		DeviceClass:    DEVICE_CLASS_CONNECTIVITY,
		EntityCategory: ENTITY_CLASS_DIAGNOSTIC,
		UniqueId:       uniqueId(bridgeDevice.Id, SENSOR_ID_BRIDGE_STATE),
	})

	return sensors
}

func StateClassForMeasure(measure solax.Measurement) string {
	if measure.Monotonic {
		return STATE_CLASS_TOTAL_INCREASING
	}
	return STATE_CLASS_MEASUREMENT
}

func DeviceClassForUnit(unit solax.Unit) string {
	switch unit {
	case solax.UnitCelsius:
		return DEVICE_CLASS_TEMPERATURE
	case solax.UnitKWh:
		return DEVICE_CLASS_ENERGY
	case solax.UnitVolt:
		return DEVICE_CLASS_VOLTAGE
	case solax.UnitAmpere:
		return DEVICE_CLASS_CURRENT
	case solax.UnitWatt:
		return DEVICE_CLASS_POWER
	case solax.UnitPercent:
		return DEVICE_CLASS_BATTERY
	case solax.UnitHertz:
		return DEVICE_CLASS_FREQUENCY
	default:
		return ""
	}
}

func DecimalsForUnit(unit solax.Unit) uint {
	switch unit {
	case solax.UnitKWh:
		return 3
	case solax.UnitCelsius, solax.UnitPercent, solax.UnitVolt, solax.UnitAmpere:
		return 1
	default:
		return 2
	}
}

func sensorName(key string) string {
	name := strings.ReplaceAll(key, "_", " ")
	if len(name) > 0 {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return name
}

func uniqueId(baseId, id string) string {
	return fmt.Sprintf("uid_%s_%s", baseId, id)
}

func md5Hash(text string) string {
	hash := md5.Sum([]byte(text))
	return hex.EncodeToString(hash[:])
}

func md5HashShort(text string) string {
	hash := md5Hash(text)
	return hash[0:8]
}
