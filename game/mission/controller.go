package mission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/t1000mission/game/engine"
)

var ErrControllerClosed = errors.New("mission controller closed")

// Controller is the single owner of one engine. Every engine call and every
// scheduled task runs on the controller loop goroutine, one at a time.
type Controller struct {
	sessionID  string
	engine     *engine.Engine
	timings    engine.Timings
	publisher  Publisher
	onResolved func(engine.MissionRecord)

	tasks  chan func()
	done   chan struct{}
	exited chan struct{}
	once   sync.Once

	// Owned by the loop goroutine
	epoch       uint64
	timers      []*time.Timer
	stopPreview chan struct{}
	waiters     []chan engine.MissionRecord
}

// Option customizes a Controller
type Option func(*Controller)

// WithPublisher sets where render events go
func WithPublisher(p Publisher) Option {
	return func(c *Controller) {
		c.publisher = p
	}
}

// WithResolvedHook registers a callback run on the loop after each mission resolves
func WithResolvedHook(fn func(engine.MissionRecord)) Option {
	return func(c *Controller) {
		c.onResolved = fn
	}
}

// NewController takes ownership of e and starts the loop goroutine.
// The engine must not be used directly afterwards.
func NewController(sessionID string, e *engine.Engine, opts ...Option) *Controller {
	c := &Controller{
		sessionID: sessionID,
		engine:    e,
		timings:   e.GetConfig().Timings,
		tasks:     make(chan func()),
		done:      make(chan struct{}),
		exited:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.publisher == nil {
		c.publisher = Publishers{}
	}

	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.exited)
	for {
		select {
		case fn := <-c.tasks:
			fn()
		case <-c.done:
			c.cancelScheduled()
			return
		}
	}
}

// do runs fn on the loop and waits for its result
func (c *Controller) do(ctx context.Context, fn func() error) error {
	errc := make(chan error, 1)
	task := func() { errc <- fn() }

	select {
	case c.tasks <- task:
	case <-c.done:
		return ErrControllerClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-errc:
		return err
	case <-c.done:
		return ErrControllerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post queues fn on the loop from any goroutine without waiting
func (c *Controller) post(fn func()) {
	select {
	case c.tasks <- fn:
	case <-c.done:
	}
}

// after schedules fn on the loop. It is dropped if a newer mission started meanwhile.
func (c *Controller) after(d time.Duration, fn func()) {
	epoch := c.epoch
	t := time.AfterFunc(d, func() {
		c.post(func() {
			if c.epoch != epoch {
				return
			}
			fn()
		})
	})
	c.timers = append(c.timers, t)
}

// nextEpoch invalidates every task scheduled for the previous mission
func (c *Controller) nextEpoch() {
	c.cancelScheduled()
	c.epoch++
}

func (c *Controller) cancelScheduled() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
	c.cancelPreview()
}

func (c *Controller) cancelPreview() {
	if c.stopPreview != nil {
		close(c.stopPreview)
		c.stopPreview = nil
	}
}

func (c *Controller) publish(typ EventType, mutate func(*Event)) {
	state := c.engine.Snapshot()
	ev := Event{
		Type:      typ,
		SessionID: c.sessionID,
		MissionID: state.MissionID,
		State:     state,
		Timestamp: time.Now(),
	}
	if mutate != nil {
		mutate(&ev)
	}
	c.publisher.Publish(ev)
}

// StartMission places a random layout and starts the preview
func (c *Controller) StartMission(ctx context.Context) (*engine.MissionState, error) {
	return c.start(ctx, func() (*engine.MissionState, error) {
		return c.engine.StartMission()
	})
}

// LoadMission starts the preview on a fixed layout
func (c *Controller) LoadMission(ctx context.Context, items []engine.Item) (*engine.MissionState, error) {
	return c.start(ctx, func() (*engine.MissionState, error) {
		return c.engine.LoadMission(items)
	})
}

func (c *Controller) start(ctx context.Context, begin func() (*engine.MissionState, error)) (*engine.MissionState, error) {
	var snapshot *engine.MissionState
	err := c.do(ctx, func() error {
		if _, err := begin(); err != nil {
			return err
		}
		c.nextEpoch()
		c.publish(EventMissionStarted, nil)
		c.startPreview()
		c.after(c.timings.PreviewDuration(), c.endPreview)
		snapshot = c.engine.Snapshot()
		return nil
	})
	return snapshot, err
}

// startPreview runs the dog ticker until the preview ends or the mission is replaced
func (c *Controller) startPreview() {
	stop := make(chan struct{})
	c.stopPreview = stop
	epoch := c.epoch
	interval := c.timings.TickInterval()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.post(func() {
					if c.epoch == epoch {
						c.previewTick()
					}
				})
			case <-stop:
				return
			case <-c.done:
				return
			}
		}
	}()
}

func (c *Controller) previewTick() {
	moves, err := c.engine.PreviewDogs()
	if err != nil {
		return
	}
	for _, move := range moves {
		c.publish(EventDogMoved, func(ev *Event) { ev.DogMove = &move })
		c.after(c.timings.DogVisible(), func() {
			if c.engine.RevertDogMove(move) {
				c.publish(EventDogReturned, func(ev *Event) { ev.DogMove = &move })
			}
		})
	}
}

func (c *Controller) endPreview() {
	c.cancelPreview()
	if err := c.engine.EndPreview(); err != nil {
		log.Printf("[MISSION] session=%s end preview: %v", c.sessionID, err)
		return
	}
	c.publish(EventPreviewEnded, nil)
}

// SubmitInstructions commits the instructions and starts paced execution
func (c *Controller) SubmitInstructions(ctx context.Context, instructions []engine.Instruction) (*engine.MissionState, error) {
	var snapshot *engine.MissionState
	err := c.do(ctx, func() error {
		if err := c.submit(instructions); err != nil {
			return err
		}
		snapshot = c.engine.Snapshot()
		return nil
	})
	return snapshot, err
}

// RunInstructions submits the instructions and waits until the mission resolves
func (c *Controller) RunInstructions(ctx context.Context, instructions []engine.Instruction) (*engine.MissionRecord, error) {
	wait := make(chan engine.MissionRecord, 1)
	err := c.do(ctx, func() error {
		if err := c.submit(instructions); err != nil {
			return err
		}
		c.waiters = append(c.waiters, wait)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.await(ctx, wait)
}

// AwaitResolution waits for the executing mission to resolve. A mission that
// already resolved returns its record immediately.
func (c *Controller) AwaitResolution(ctx context.Context) (*engine.MissionRecord, error) {
	wait := make(chan engine.MissionRecord, 1)
	err := c.do(ctx, func() error {
		switch c.engine.Phase() {
		case engine.PhaseExecuting:
			c.waiters = append(c.waiters, wait)
		case engine.PhaseResolved:
			history := c.engine.GetHistory()
			wait <- history[len(history)-1]
		default:
			return fmt.Errorf("await resolution while %s: %w", c.engine.Phase(), engine.ErrInvalidPhase)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.await(ctx, wait)
}

func (c *Controller) await(ctx context.Context, wait chan engine.MissionRecord) (*engine.MissionRecord, error) {
	select {
	case rec := <-wait:
		return &rec, nil
	case <-c.done:
		return nil, ErrControllerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Controller) submit(instructions []engine.Instruction) error {
	if err := c.engine.SubmitInstructions(instructions); err != nil {
		return err
	}
	c.publish(EventInstructionsAccepted, nil)
	c.after(0, c.step)
	return nil
}

func (c *Controller) step() {
	res, err := c.engine.Step()
	if err != nil {
		log.Printf("[MISSION] session=%s step: %v", c.sessionID, err)
		return
	}
	c.publish(EventRobotStepped, func(ev *Event) { ev.Step = res })

	if !res.Done {
		c.after(c.timings.StepDelay(), c.step)
		return
	}
	c.resolve(res.Outcome)
}

func (c *Controller) resolve(outcome *engine.Outcome) {
	history := c.engine.GetHistory()
	record := history[len(history)-1]

	c.publish(EventMissionResolved, func(ev *Event) { ev.Outcome = outcome })
	for _, w := range c.waiters {
		w <- record
	}
	c.waiters = nil
	if c.onResolved != nil {
		c.onResolved(record)
	}

	c.after(c.timings.MessageDuration(), func() {
		if err := c.engine.Dismiss(); err != nil {
			return
		}
		c.publish(EventMessageDismissed, nil)
	})
}

// State returns a deep copy of the current mission state
func (c *Controller) State(ctx context.Context) (*engine.MissionState, error) {
	var snapshot *engine.MissionState
	err := c.do(ctx, func() error {
		snapshot = c.engine.Snapshot()
		return nil
	})
	return snapshot, err
}

// History returns a copy of every resolved mission, oldest first
func (c *Controller) History(ctx context.Context) ([]engine.MissionRecord, error) {
	var history []engine.MissionRecord
	err := c.do(ctx, func() error {
		history = c.engine.Snapshot().History
		return nil
	})
	return history, err
}

// PlanRoute suggests instructions that reach the target. Only available at the instruction prompt.
func (c *Controller) PlanRoute(ctx context.Context) ([]engine.Instruction, error) {
	var route []engine.Instruction
	err := c.do(ctx, func() error {
		if phase := c.engine.Phase(); phase != engine.PhaseAwaitingInput {
			return fmt.Errorf("plan route while %s: %w", phase, engine.ErrInvalidPhase)
		}
		var err error
		route, err = engine.PlanRoute(c.engine.GetState(), c.engine.GetConfig().InstructionSlots)
		return err
	})
	return route, err
}

// Config returns the mission configuration, which never changes after creation
func (c *Controller) Config() *engine.MissionConfig {
	return c.engine.GetConfig()
}

// Close stops the loop and every pending task. It is safe to call more than once.
func (c *Controller) Close() {
	c.once.Do(func() {
		close(c.done)
	})
	<-c.exited
}
