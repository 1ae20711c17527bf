package util

import (
	"github.com/berfenger/solax2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Inverter: config.InverterAPIConfig{
			Host:                "-.-.-.-",
			Port:                80,
			PollIntervalSeconds: 30,
			TimeoutMillis:       1000,
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "solax2mqtt",
		},
		Port: 8080,
	}
}
