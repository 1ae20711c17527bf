package service

import (
	"errors"
	"testing"

	"github.com/berfenger/solax2mqtt/internal/core/domain"
	"github.com/berfenger/solax2mqtt/pkg/solax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	updates   []string
	readiness []bool
}

func (s *recordingSink) FieldUpdated(field *domain.ObservedField) {
	s.updates = append(s.updates, field.Key)
}

func (s *recordingSink) ReadinessChanged(ready bool) {
	s.readiness = append(s.readiness, ready)
}

type fakeAPI struct {
	catalog []solax.SensorDef
	data    *solax.RealTimeData
	err     error
}

func (a *fakeAPI) GetInfo() (*solax.DeviceInfo, error) {
	return &solax.DeviceInfo{Manufacturer: "SolaX Power", Serial: "TEST1234"}, nil
}

func (a *fakeAPI) SensorMap() []solax.SensorDef {
	return a.catalog
}

func (a *fakeAPI) GetRealTimeData() (*solax.RealTimeData, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.data, nil
}

func testCatalog() []solax.SensorDef {
	return []solax.SensorDef{
		{Key: "soc", Index: 0, Measure: solax.Measure(solax.UnitPercent)},
		{Key: "pv1_power", Index: 1, Measure: solax.Measure(solax.UnitWatt)},
	}
}

func snapshot(values map[string]float64) *solax.RealTimeData {
	return &solax.RealTimeData{Serial: "TEST1234", Values: values}
}

func TestApplyUpdatesPresentFieldsOnly(t *testing.T) {

	sink := &recordingSink{}
	poller := NewRealTimePoller(testCatalog(), sink, nil)

	err := poller.Apply(snapshot(map[string]float64{"soc": 42}), nil, false)
	require.NoError(t, err)

	require.True(t, poller.Field("soc").HasValue())
	assert.InDelta(t, 42.0, *poller.Field("soc").Value(), 0.001)
	assert.Nil(t, poller.Field("pv1_power").Value(), "absent key must stay unset")
	assert.Equal(t, []string{"soc"}, sink.updates)

	err = poller.Apply(snapshot(map[string]float64{"soc": 50, "pv1_power": 1200}), nil, true)
	require.NoError(t, err)

	assert.InDelta(t, 50.0, *poller.Field("soc").Value(), 0.001)
	assert.InDelta(t, 1200.0, *poller.Field("pv1_power").Value(), 0.001)
	assert.Equal(t, []string{"soc", "soc", "pv1_power"}, sink.updates)
}

func TestScheduledFailureIsSwallowed(t *testing.T) {

	sink := &recordingSink{}
	poller := NewRealTimePoller(testCatalog(), sink, nil)

	require.NoError(t, poller.Apply(snapshot(map[string]float64{"soc": 42}), nil, false))
	require.True(t, poller.Ready())

	err := poller.Apply(nil, errors.New("device busy"), true)

	assert.NoError(t, err, "scheduled failure must not propagate")
	assert.False(t, poller.Ready())
	// stale value stays visible
	assert.InDelta(t, 42.0, *poller.Field("soc").Value(), 0.001)
}

func TestStartupFailurePropagatesNotReady(t *testing.T) {

	sink := &recordingSink{}
	poller := NewRealTimePoller(testCatalog(), sink, nil)

	err := poller.Apply(nil, errors.New("connection refused"), false)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.False(t, poller.Ready())
	assert.Empty(t, sink.updates, "no field may be mutated on startup failure")
	assert.False(t, poller.Field("soc").HasValue())
}

func TestReadinessTransitions(t *testing.T) {

	sink := &recordingSink{}
	poller := NewRealTimePoller(testCatalog(), sink, nil)

	ok := snapshot(map[string]float64{"soc": 1})
	fail := errors.New("timeout")

	require.NoError(t, poller.Apply(ok, nil, false))
	require.NoError(t, poller.Apply(ok, nil, true))
	require.NoError(t, poller.Apply(nil, fail, true))
	require.NoError(t, poller.Apply(nil, fail, true))
	require.NoError(t, poller.Apply(ok, nil, true))

	// only the edges are notified
	assert.Equal(t, []bool{true, false, true}, sink.readiness)
	assert.True(t, poller.Ready())
}

func TestReadinessClearedRegardlessOfCallOrigin(t *testing.T) {

	poller := NewRealTimePoller(testCatalog(), nil, nil)

	require.NoError(t, poller.Apply(snapshot(map[string]float64{"soc": 1}), nil, true))
	assert.True(t, poller.Ready())

	err := poller.Apply(nil, errors.New("unreachable"), false)
	assert.Error(t, err)
	assert.False(t, poller.Ready())
}

func TestNilDataWithoutErrorIsAFailure(t *testing.T) {

	poller := NewRealTimePoller(testCatalog(), nil, nil)

	err := poller.Apply(nil, nil, false)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.False(t, poller.Ready())
}

func TestEndpointRefresh(t *testing.T) {

	api := &fakeAPI{
		catalog: testCatalog(),
		data:    snapshot(map[string]float64{"soc": 42}),
	}
	sink := &recordingSink{}
	endpoint := NewRealTimeEndpoint(api, sink, nil)

	require.NoError(t, endpoint.Refresh(false))
	assert.True(t, endpoint.Poller().Ready())
	assert.InDelta(t, 42.0, *endpoint.Poller().Field("soc").Value(), 0.001)

	api.err = errors.New("device busy")
	require.NoError(t, endpoint.Refresh(true), "scheduled refresh failure is local")
	assert.False(t, endpoint.Poller().Ready())

	api.err = errors.New("device busy")
	assert.ErrorIs(t, endpoint.Refresh(false), ErrNotReady)
}

func TestEndpointCatalogMatchesClient(t *testing.T) {

	client, err := solax.CreateTestInverterAPIClient()
	require.NoError(t, err)
	require.NoError(t, client.Open())

	endpoint := NewRealTimeEndpoint(client, nil, nil)

	fields := endpoint.Poller().Fields()
	require.Len(t, fields, len(client.SensorMap()))
	for i, def := range client.SensorMap() {
		assert.Equal(t, def.Key, fields[i].Key)
		assert.Equal(t, def.Measure, fields[i].Measure)
	}

	require.NoError(t, endpoint.Refresh(false))
	for _, field := range fields {
		assert.True(t, field.HasValue(), "test client reports every field: %s", field.Key)
	}
}
