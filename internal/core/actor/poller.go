package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/solax2mqtt/internal/config"
	"github.com/berfenger/solax2mqtt/internal/core/domain"
	"github.com/berfenger/solax2mqtt/internal/core/service"
	. "github.com/berfenger/solax2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/reugn/go-quartz/job"
	"github.com/reugn/go-quartz/quartz"
	"go.uber.org/zap"
)

// PollerActor drives the realtime poll loop. The first snapshot is fetched
// during boot and a failure there aborts the start, so the supervisor retries
// with backoff. Once running, failed polls only flip the reachable flag and
// the last published values stay as they were.
type PollerActor struct {
	behavior  actor.Behavior
	stash     *Stash
	scheduler quartz.Scheduler

	inverterActor *actor.PID
	config        *config.Config
	eventStream   *eventstream.EventStream
	poller        *service.RealTimePoller

	logger *zap.Logger
}

type pollTick struct {
}

func NewPollerActor(config *config.Config, inverterActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *PollerActor {
	act := &PollerActor{
		config:        config,
		inverterActor: inverterActor,
		behavior:      actor.NewBehavior(),
		stash:         &Stash{},
		logger:        ActorLogger(domain.ACTOR_ID_POLLER, logger),
		eventStream:   eventStream,
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *PollerActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *PollerActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("poller@starting started")

		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.inverterActor, domain.GetDeviceInfoRequest{}, 10*time.Second), func(err error) any {
			return domain.GetDeviceInfoResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingInfoReceive)
	case *actor.Restarting:
		state.stopScheduler()
	default:
		state.logger.Debug("poller@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingInfoReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetDeviceInfoResponse:
		if msg.HasResponseError() {
			state.logger.Error("poller@waitingInfo GetDeviceInfoResponse", zap.Error(msg.GetResponseError()))
			panic(msg.GetResponseError())
		}
		state.logger.Debug("poller@waitingInfo GetDeviceInfoResponse")
		state.poller = service.NewRealTimePoller(msg.Catalog, eventStreamSink{eventStream: state.eventStream}, state.logger)

		// startup fetch, must succeed before the poll loop starts
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.inverterActor, domain.GetRealTimeDataRequest{}, 10*time.Second), func(err error) any {
			return domain.GetRealTimeDataResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.Become(state.WaitingStartupDataReceive)
	default:
		state.logger.Debug("poller@waitingInfo: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingStartupDataReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetRealTimeDataResponse:
		if err := state.poller.Apply(msg.Data, msg.GetResponseError(), false); err != nil {
			state.logger.Error("poller@waitingStartup startup fetch failed", zap.Error(err))
			panic(err)
		}
		state.logger.Debug("poller@waitingStartup startup fetch ok")
		state.startScheduler(ctx)
		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("poller@waitingStartup: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("poller@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_POLLER,
			Healthy: true,
			State:   state.pollerState(),
		})
	case pollTick:
		state.logger.Debug("poller@default tick")
		PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.inverterActor, domain.GetRealTimeDataRequest{}, 10*time.Second), func(err error) any {
			return domain.GetRealTimeDataResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
		state.behavior.BecomeStacked(state.WaitingDataReceive)
	case *actor.Stopping:
		state.stopScheduler()
	case *actor.Restarting:
		state.stopScheduler()
	default:
		state.logger.Debug("poller@default: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) WaitingDataReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetRealTimeDataResponse:
		state.logger.Debug("poller@waiting GetRealTimeDataResponse")
		// scheduled refresh, a failure keeps the last values and only
		// clears the reachable flag
		_ = state.poller.Apply(msg.Data, msg.GetResponseError(), true)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	case *actor.Stopping:
		state.stopScheduler()
	case *actor.Restarting:
		state.stopScheduler()
	default:
		state.logger.Debug("poller@waiting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *PollerActor) startScheduler(ctx actor.Context) {
	interval := time.Duration(state.config.Inverter.PollIntervalSeconds) * time.Second
	if interval <= 0 {
		return
	}

	system := ctx.ActorSystem()
	self := ctx.Self()

	state.scheduler = quartz.NewStdScheduler()
	state.scheduler.Start(context.Background())

	// actor.Context is not safe outside the mailbox, so the job only posts
	// a tick message
	tickJob := job.NewFunctionJob(func(_ context.Context) (bool, error) {
		system.Root.Send(self, pollTick{})
		return true, nil
	})
	err := state.scheduler.ScheduleJob(quartz.NewJobDetail(tickJob, quartz.NewJobKey("realtime_poll")),
		quartz.NewSimpleTrigger(interval))
	if err != nil {
		state.logger.Error("poller could not schedule poll job", zap.Error(err))
		panic(err)
	}
}

func (state *PollerActor) stopScheduler() {
	if state.scheduler != nil {
		state.scheduler.Stop()
		state.scheduler = nil
	}
}

func (state *PollerActor) pollerState() string {
	if state.poller != nil && state.poller.Ready() {
		return "ready"
	}
	return "not_ready"
}

// eventStreamSink turns poller callbacks into sensor update events.
type eventStreamSink struct {
	eventStream *eventstream.EventStream
}

func (s eventStreamSink) FieldUpdated(field *domain.ObservedField) {
	value := field.Value()
	if value == nil {
		return
	}
	s.eventStream.Publish(domain.FloatSensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: field.Key,
		},
		Value:    *value,
		Decimals: domain.DecimalsForUnit(field.Measure.Unit),
	})
}

func (s eventStreamSink) ReadinessChanged(ready bool) {
	s.eventStream.Publish(domain.BinarySensorUpdateEvent{
		SensorUpdateEventMixIn: domain.SensorUpdateEventMixIn{
			Id: domain.SENSOR_ID_INVERTER_REACHABLE,
		},
		Value: ready,
	})
}
