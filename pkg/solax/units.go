package solax

// Unit of measurement reported by the inverter field catalog.
type Unit string

const (
	UnitNone    Unit = ""
	UnitVolt    Unit = "V"
	UnitAmpere  Unit = "A"
	UnitWatt    Unit = "W"
	UnitKWh     Unit = "kWh"
	UnitCelsius Unit = "°C"
	UnitPercent Unit = "%"
	UnitHertz   Unit = "Hz"
)

// Measurement couples a unit with its accumulation semantics. Monotonic
// measurements are lifetime counters that never decrease (total energy).
type Measurement struct {
	Unit      Unit
	Monotonic bool
}

func Measure(unit Unit) Measurement {
	return Measurement{Unit: unit}
}

func MonotonicMeasure(unit Unit) Measurement {
	return Measurement{Unit: unit, Monotonic: true}
}
