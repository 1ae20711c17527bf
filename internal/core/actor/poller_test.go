package actor

import (
	"sync"
	"testing"
	"time"

	adactor "github.com/berfenger/solax2mqtt/internal/adapter/actor"
	"github.com/berfenger/solax2mqtt/internal/core/domain"
	"github.com/berfenger/solax2mqtt/internal/util"
	"github.com/berfenger/solax2mqtt/internal/util/actorutil"
	"github.com/berfenger/solax2mqtt/pkg/solax"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPollerActorPublishesSnapshot(t *testing.T) {

	assert := assert.New(t)

	cfg := util.LoadTestConfig()
	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	invProps := actor.PropsFromProducer(func() actor.Actor {
		return adactor.NewInverterActor(&solax.TestInverterAPIClient{}, logger)
	})
	invPID := context.Spawn(invProps)

	es := eventstream.EventStream{}

	var mu sync.Mutex
	floatValues := map[string]float64{}
	var reachable []bool
	sub := es.Subscribe(func(value any) {
		mu.Lock()
		defer mu.Unlock()
		switch ev := value.(type) {
		case domain.FloatSensorUpdateEvent:
			floatValues[ev.Id] = ev.Value
		case domain.BinarySensorUpdateEvent:
			if ev.Id == domain.SENSOR_ID_INVERTER_REACHABLE {
				reachable = append(reachable, ev.Value)
			}
		}
	})
	defer es.Unsubscribe(sub)

	pollerProps := actor.PropsFromProducer(func() actor.Actor {
		return NewPollerActor(&cfg, invPID, &es, logger)
	})
	pollerPID := context.Spawn(pollerProps)

	time.Sleep(2 * time.Second)

	// the startup fetch publishes the whole snapshot and sets the flag
	mu.Lock()
	assert.Equal(1243.0, floatValues["ac_power"], "ac_power value")
	assert.Equal(50.02, floatValues["grid_frequency"], "grid_frequency value")
	assert.Equal([]bool{true}, reachable, "reachable transitions")
	mu.Unlock()

	res, err := context.RequestFuture(pollerPID, domain.ActorHealthRequest{}, 5*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	healthResp, ok := res.(domain.ActorHealthResponse)
	assert.True(ok)
	assert.True(healthResp.Healthy, "healthy is true")
	assert.Equal("ready", healthResp.State, "poller state")

	// a manual tick behaves like a scheduled refresh
	context.Send(pollerPID, pollTick{})

	time.Sleep(1 * time.Second)

	mu.Lock()
	assert.Equal(1243.0, floatValues["ac_power"], "ac_power value after tick")
	// flag stays set so no extra transition is published
	assert.Equal([]bool{true}, reachable, "reachable transitions after tick")
	mu.Unlock()

	context.Stop(pollerPID)
	context.Stop(invPID)

	as.Shutdown()
}
