package port

import (
	"github.com/berfenger/solax2mqtt/internal/core/domain"
	"github.com/berfenger/solax2mqtt/pkg/solax"
)

// InverterAPI is the data-fetching surface the poller depends on. The realtime
// client in pkg/solax satisfies it directly.
type InverterAPI interface {
	GetInfo() (*solax.DeviceInfo, error)
	SensorMap() []solax.SensorDef
	GetRealTimeData() (*solax.RealTimeData, error)
}

// UpdateSink receives per-field change notifications and readiness
// transitions from the poller.
type UpdateSink interface {
	FieldUpdated(field *domain.ObservedField)
	ReadinessChanged(ready bool)
}
