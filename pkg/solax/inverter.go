package solax

// SensorDef is one entry of an inverter's field catalog: a stable key, the
// position of its value inside the realtime Data array and its measurement.
type SensorDef struct {
	Key     string
	Index   int
	Measure Measurement
}

// Inverter describes one Solax inverter variant. Variants share the realtime
// endpoint but differ in the length and layout of the Data array.
type Inverter struct {
	Type         string
	Manufacturer string
	DataLength   int

	sensorMap []SensorDef
}

// SensorMap returns the ordered field catalog of this variant.
func (inv *Inverter) SensorMap() []SensorDef {
	return inv.sensorMap
}

// matches reports whether a realtime response looks like this variant.
// The type string is checked first, the Data array length breaks ties for
// firmwares that report an empty type.
func (inv *Inverter) matches(resp *rawResponse) bool {
	if resp.Type != "" {
		return resp.Type == inv.Type
	}
	return len(resp.Data) == inv.DataLength
}

// decode maps the positional Data array to keyed values. Positions beyond the
// end of a short response are simply not present in the result.
func (inv *Inverter) decode(raw []float64) map[string]float64 {
	values := make(map[string]float64, len(inv.sensorMap))
	for _, def := range inv.sensorMap {
		if def.Index >= 0 && def.Index < len(raw) {
			values[def.Key] = raw[def.Index]
		}
	}
	return values
}

func x1MiniInverter() *Inverter {
	return &Inverter{
		Type:         "X1-Boost-Air-Mini",
		Manufacturer: "SolaX Power",
		DataLength:   69,
		sensorMap: []SensorDef{
			{Key: "pv1_current", Index: 0, Measure: Measure(UnitAmpere)},
			{Key: "pv2_current", Index: 1, Measure: Measure(UnitAmpere)},
			{Key: "pv1_voltage", Index: 2, Measure: Measure(UnitVolt)},
			{Key: "pv2_voltage", Index: 3, Measure: Measure(UnitVolt)},
			{Key: "output_current", Index: 4, Measure: Measure(UnitAmpere)},
			{Key: "network_voltage", Index: 5, Measure: Measure(UnitVolt)},
			{Key: "ac_power", Index: 6, Measure: Measure(UnitWatt)},
			{Key: "inverter_temperature", Index: 7, Measure: Measure(UnitCelsius)},
			{Key: "todays_energy", Index: 8, Measure: Measure(UnitKWh)},
			{Key: "total_energy", Index: 9, Measure: MonotonicMeasure(UnitKWh)},
			{Key: "exported_power", Index: 10, Measure: Measure(UnitWatt)},
			{Key: "pv1_power", Index: 11, Measure: Measure(UnitWatt)},
			{Key: "pv2_power", Index: 12, Measure: Measure(UnitWatt)},
			{Key: "total_feed_in_energy", Index: 41, Measure: MonotonicMeasure(UnitKWh)},
			{Key: "total_consumption", Index: 42, Measure: MonotonicMeasure(UnitKWh)},
			{Key: "power_now", Index: 43, Measure: Measure(UnitWatt)},
			{Key: "grid_frequency", Index: 50, Measure: Measure(UnitHertz)},
		},
	}
}

func x3HybridInverter() *Inverter {
	return &Inverter{
		Type:         "X3-Hybiyd-G3",
		Manufacturer: "SolaX Power",
		DataLength:   103,
		sensorMap: []SensorDef{
			{Key: "pv1_current", Index: 0, Measure: Measure(UnitAmpere)},
			{Key: "pv2_current", Index: 1, Measure: Measure(UnitAmpere)},
			{Key: "pv1_voltage", Index: 2, Measure: Measure(UnitVolt)},
			{Key: "pv2_voltage", Index: 3, Measure: Measure(UnitVolt)},
			{Key: "output_current", Index: 4, Measure: Measure(UnitAmpere)},
			{Key: "network_voltage", Index: 5, Measure: Measure(UnitVolt)},
			{Key: "ac_power", Index: 6, Measure: Measure(UnitWatt)},
			{Key: "inverter_temperature", Index: 7, Measure: Measure(UnitCelsius)},
			{Key: "todays_energy", Index: 8, Measure: Measure(UnitKWh)},
			{Key: "total_energy", Index: 9, Measure: MonotonicMeasure(UnitKWh)},
			{Key: "exported_power", Index: 10, Measure: Measure(UnitWatt)},
			{Key: "pv1_power", Index: 11, Measure: Measure(UnitWatt)},
			{Key: "pv2_power", Index: 12, Measure: Measure(UnitWatt)},
			{Key: "battery_voltage", Index: 13, Measure: Measure(UnitVolt)},
			{Key: "battery_current", Index: 14, Measure: Measure(UnitAmpere)},
			{Key: "battery_power", Index: 15, Measure: Measure(UnitWatt)},
			{Key: "battery_temperature", Index: 16, Measure: Measure(UnitCelsius)},
			{Key: "battery_soc", Index: 21, Measure: Measure(UnitPercent)},
			{Key: "total_feed_in_energy", Index: 41, Measure: MonotonicMeasure(UnitKWh)},
			{Key: "total_consumption", Index: 42, Measure: MonotonicMeasure(UnitKWh)},
			{Key: "power_now", Index: 43, Measure: Measure(UnitWatt)},
			{Key: "grid_frequency", Index: 50, Measure: Measure(UnitHertz)},
		},
	}
}

// knownInverters lists the supported variants in probe order.
func knownInverters() []*Inverter {
	return []*Inverter{
		x1MiniInverter(),
		x3HybridInverter(),
	}
}
