package service

import (
	"errors"
	"fmt"

	"github.com/berfenger/solax2mqtt/internal/core/domain"
	"github.com/berfenger/solax2mqtt/internal/core/port"
	"github.com/berfenger/solax2mqtt/pkg/solax"

	"go.uber.org/zap"
)

// ErrNotReady is returned when the startup refresh cannot reach the inverter.
// The caller owns the setup-retry cadence.
var ErrNotReady = errors.New("inverter not ready")

// RealTimePoller owns the observed field set and the readiness flag. Fields
// are built once from the field catalog and mutated in place; a refresh cycle
// never touches fields whose key is absent from the snapshot. The poller does
// no internal retries and keeps no history.
//
// Apply must not be called concurrently with itself.
type RealTimePoller struct {
	fields []*domain.ObservedField
	index  map[string]*domain.ObservedField

	ready      bool
	readyKnown bool

	sink   port.UpdateSink
	logger *zap.Logger
}

func NewRealTimePoller(catalog []solax.SensorDef, sink port.UpdateSink, logger *zap.Logger) *RealTimePoller {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &RealTimePoller{
		index:  make(map[string]*domain.ObservedField, len(catalog)),
		sink:   sink,
		logger: logger,
	}
	for _, def := range catalog {
		field := domain.NewObservedField(def.Key, def.Measure)
		p.fields = append(p.fields, field)
		p.index[def.Key] = field
	}
	return p
}

// Fields returns the observed fields in catalog order.
func (p *RealTimePoller) Fields() []*domain.ObservedField {
	return p.fields
}

func (p *RealTimePoller) Field(key string) *domain.ObservedField {
	return p.index[key]
}

// Ready reports whether the most recent fetch succeeded.
func (p *RealTimePoller) Ready() bool {
	return p.ready
}

// Apply folds one fetch outcome into the observed state.
//
// On success every field present in the snapshot is overwritten and the sink
// notified. On failure the readiness flag is cleared and no field changes:
// a scheduled failure is swallowed (stale values stay exposed), a startup
// failure is surfaced as ErrNotReady so the caller can defer setup.
func (p *RealTimePoller) Apply(data *solax.RealTimeData, fetchErr error, scheduled bool) error {
	if fetchErr == nil && data == nil {
		fetchErr = errors.New("empty realtime response")
	}
	if fetchErr != nil {
		p.setReady(false)
		if scheduled {
			p.logger.Debug("scheduled refresh failed, keeping last values", zap.Error(fetchErr))
			return nil
		}
		return fmt.Errorf("%w: %v", ErrNotReady, fetchErr)
	}
	p.setReady(true)
	for _, field := range p.fields {
		if value, ok := data.Values[field.Key]; ok {
			field.SetValue(value)
			if p.sink != nil {
				p.sink.FieldUpdated(field)
			}
		}
	}
	return nil
}

func (p *RealTimePoller) setReady(ready bool) {
	changed := !p.readyKnown || p.ready != ready
	p.ready = ready
	p.readyKnown = true
	if changed && p.sink != nil {
		p.sink.ReadinessChanged(ready)
	}
}

// RealTimeEndpoint couples a poller with the client it polls. Refresh is the
// single entry point that fetches new data.
type RealTimeEndpoint struct {
	api    port.InverterAPI
	poller *RealTimePoller
}

func NewRealTimeEndpoint(api port.InverterAPI, sink port.UpdateSink, logger *zap.Logger) *RealTimeEndpoint {
	return &RealTimeEndpoint{
		api:    api,
		poller: NewRealTimePoller(api.SensorMap(), sink, logger),
	}
}

// Refresh fetches a snapshot and applies it. scheduled distinguishes the
// timer-triggered calls from the startup call.
func (e *RealTimeEndpoint) Refresh(scheduled bool) error {
	data, err := e.api.GetRealTimeData()
	return e.poller.Apply(data, err, scheduled)
}

func (e *RealTimeEndpoint) Poller() *RealTimePoller {
	return e.poller
}
