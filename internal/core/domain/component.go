package domain

import "github.com/berfenger/solax2mqtt/pkg/solax"

type Device struct {
	Id           string
	Name         string
	Version      string
	Model        string
	Manufacturer string
	ViaDevice    string
}

type GenericSensor struct {
	Device            Device
	Id                string
	SensorType        string
	Name              string
	UniqueId          string
	UnitOfMeasurement string
	StateClass        string // measurement, total_increasing (for acc energy)
	DeviceClass       string // voltage, current, power, energy
	EntityCategory    string // diagnostic, config, nil
	EnabledByDefault  *bool
	Icon              string
}

// ObservedField is one continuously updated inverter reading. Fields are
// created once from the device's field catalog and mutated in place on every
// successful poll; a field keeps its last value across failed polls.
type ObservedField struct {
	Key     string
	Measure solax.Measurement

	value *float64
}

func NewObservedField(key string, measure solax.Measurement) *ObservedField {
	return &ObservedField{
		Key:     key,
		Measure: measure,
	}
}

// Value returns the latest observed value, nil before the first snapshot
// containing this key.
func (f *ObservedField) Value() *float64 {
	return f.value
}

func (f *ObservedField) HasValue() bool {
	return f.value != nil
}

func (f *ObservedField) SetValue(value float64) {
	f.value = &value
}
