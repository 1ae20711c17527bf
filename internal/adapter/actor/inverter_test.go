package actor

import (
	"testing"
	"time"

	"github.com/berfenger/solax2mqtt/internal/core/domain"
	"github.com/berfenger/solax2mqtt/internal/util/actorutil"
	"github.com/berfenger/solax2mqtt/pkg/solax"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetDeviceInfoInverterActor(t *testing.T) {

	assert := assert.New(t)

	api, err := solax.CreateTestInverterAPIClient()
	if err != nil {
		t.Error(err)
		return
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewInverterActor(api, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetDeviceInfoRequest{}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetDeviceInfoResponse)

	assert.Equal(resp.Info.Manufacturer, "SolaX Power", "Inverter manufacturer")
	assert.Equal(resp.Info.Type, "X1-Boost-Air-Mini", "Inverter type")
	assert.Equal(resp.Info.Serial, "XM3A04024", "Inverter serial")
	assert.Equal(resp.Info.Version, "2.033.20", "Inverter version")
	assert.True(len(resp.Catalog) > 0, "Catalog size")

	context.Stop(pid)

	as.Shutdown()
}

func TestGetRealTimeDataInverterActor(t *testing.T) {

	assert := assert.New(t)

	api, err := solax.CreateTestInverterAPIClient()
	if err != nil {
		t.Error(err)
		return
	}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewInverterActor(api, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetRealTimeDataRequest{}

	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetRealTimeDataResponse)

	assert.False(resp.HasResponseError(), "response error")
	assert.True(resp.Data.Values["ac_power"] > 0, "ac_power bounds")
	assert.True(resp.Data.Values["grid_frequency"] > 49, "grid_frequency bounds")
	assert.Equal(resp.Data.Serial, "XM3A04024", "serial")

	context.Stop(pid)

	as.Shutdown()
}
