package solax

func CreateTestInverterAPIClient() (InverterAPIClient, error) {
	return &TestInverterAPIClient{}, nil
}

// TestInverterAPIClient serves canned X1 Mini data without touching the
// network.
type TestInverterAPIClient struct {
}

func (api *TestInverterAPIClient) Open() error {
	return nil
}

func (api *TestInverterAPIClient) Close() error {
	return nil
}

func (api *TestInverterAPIClient) GetInfo() (*DeviceInfo, error) {
	return &DeviceInfo{
		Manufacturer: "SolaX Power",
		Type:         "X1-Boost-Air-Mini",
		Serial:       "XM3A04024",
		Version:      "2.033.20",
	}, nil
}

func (api *TestInverterAPIClient) SensorMap() []SensorDef {
	return x1MiniInverter().SensorMap()
}

func (api *TestInverterAPIClient) GetRealTimeData() (*RealTimeData, error) {
	return &RealTimeData{
		Type:    "X1-Boost-Air-Mini",
		Serial:  "XM3A04024",
		Version: "2.033.20",
		Values: map[string]float64{
			"pv1_current":          3.2,
			"pv2_current":          3.1,
			"pv1_voltage":          237.4,
			"pv2_voltage":          235.1,
			"output_current":       5.3,
			"network_voltage":      233.8,
			"ac_power":             1243.0,
			"inverter_temperature": 41.5,
			"todays_energy":        5.2,
			"total_energy":         2770.3,
			"exported_power":       820.0,
			"pv1_power":            760.0,
			"pv2_power":            731.0,
			"total_feed_in_energy": 1550.2,
			"total_consumption":    980.7,
			"power_now":            423.0,
			"grid_frequency":       50.02,
		},
	}, nil
}

// ensure interface compliance
var _ InverterAPIClient = (*TestInverterAPIClient)(nil)
