// Package dashboard owns the state of one dashboard view and funnels every
// mutation through named operations.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"coffeeintel/catalog"
	"coffeeintel/mockdata"
	"coffeeintel/models"
	"coffeeintel/prompt"
	"coffeeintel/realtime"
	"coffeeintel/scenario"
)

var (
	ErrClosed          = errors.New("dashboard closed")
	ErrUnknownAction   = errors.New("unknown action")
	ErrUnknownSection  = errors.New("unknown section")
	ErrSessionNotFound = errors.New("session not found")
)

// Button actions.
const (
	ActionSync      = "sync"
	ActionRetrain   = "retrain"
	ActionPairDrone = "pair-drone"
	ActionNext      = "next"
	ActionBack      = "back"
)

// Onboarding step bounds.
const (
	FirstStep = 1
	LastStep  = 4
)

// Observer receives counters for metrics. All methods must be cheap.
type Observer interface {
	Recomputed()
	Ticked()
	Answered(rule string)
}

type nopObserver struct{}

func (nopObserver) Recomputed()     {}
func (nopObserver) Ticked()         {}
func (nopObserver) Answered(string) {}

// Deps are shared by every dashboard a Manager creates.
type Deps struct {
	Fixtures     *catalog.Fixtures
	Catalog      catalog.Source
	Generator    *mockdata.Generator
	TickInterval time.Duration
	Now          func() time.Time
	Logger       *zap.Logger
	Observer     Observer
}

func (d Deps) withDefaults() Deps {
	if d.Fixtures == nil {
		d.Fixtures = catalog.MustFixtures()
	}
	if d.Catalog == nil {
		d.Catalog = catalog.NewMemory(d.Fixtures)
	}
	if d.Generator == nil {
		d.Generator = mockdata.New(0)
	}
	if d.TickInterval <= 0 {
		d.TickInterval = realtime.DefaultInterval
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Observer == nil {
		d.Observer = nopObserver{}
	}
	return d
}

// Answer is the outcome of Ask.
type Answer struct {
	Text   string `json:"text"`
	Rule   string `json:"rule"`
	Answer string `json:"answer"`
}

// ActionResult reports what a button press changed.
type ActionResult struct {
	Action string `json:"action"`
	Step   int    `json:"step,omitempty"`
	JobID  string `json:"jobId,omitempty"`
	Entry  string `json:"entry,omitempty"`
}

// Dashboard is the state of one view.
type Dashboard struct {
	id       string
	deps     Deps
	scenario *scenario.Store
	ticker   *realtime.Ticker
	handle   *realtime.Handle
	training *catalog.TrainingLog

	mu          sync.RWMutex
	estate      string
	answer      *Answer
	step        int
	dronePaired bool
	lastSync    time.Time
	lastSeen    time.Time
	closed      bool
}

// New builds a dashboard and starts its ticker. The ticker runs until Close
// or until ctx ends.
func New(ctx context.Context, id string, deps Deps) *Dashboard {
	deps = deps.withDefaults()
	d := &Dashboard{
		id:       id,
		deps:     deps,
		training: catalog.NewTrainingLog(deps.Fixtures.TrainingLog),
		estate:   deps.Fixtures.Estates[0],
		step:     FirstStep,
		lastSeen: deps.Now(),
	}
	d.scenario = scenario.NewStore(deps.Generator, scenario.WithObserver(func(scenario.Snapshot) {
		deps.Observer.Recomputed()
	}))
	d.ticker = realtime.New(deps.Generator,
		realtime.WithClock(deps.Now),
		realtime.WithLogger(deps.Logger.With(zap.String("session", id))),
		realtime.WithOnTick(deps.Observer.Ticked),
	)
	d.handle = d.ticker.Start(ctx, deps.TickInterval)
	return d
}

// ID returns the session id.
func (d *Dashboard) ID() string { return d.id }

// Ticker exposes the live feed for streaming.
func (d *Dashboard) Ticker() *realtime.Ticker { return d.ticker }

// Done is closed once the ticker has stopped.
func (d *Dashboard) Done() <-chan struct{} { return d.handle.Done() }

// Close stops the ticker. Further mutations return ErrClosed.
func (d *Dashboard) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.handle.Stop()
}

// Closed reports whether Close has run.
func (d *Dashboard) Closed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}

// Touch marks the dashboard as used now.
func (d *Dashboard) Touch() {
	d.mu.Lock()
	d.lastSeen = d.deps.Now()
	d.mu.Unlock()
}

// LastSeen is the time of the last Touch.
func (d *Dashboard) LastSeen() time.Time {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lastSeen
}

func (d *Dashboard) checkOpen() error {
	if d.closed {
		return ErrClosed
	}
	return nil
}

// SelectEstate switches the estate used for block lists.
func (d *Dashboard) SelectEstate(name string) error {
	if !d.deps.Fixtures.ValidEstate(name) {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownEstate, name)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkOpen(); err != nil {
		return err
	}
	d.estate = name
	return nil
}

// Estate returns the selected estate.
func (d *Dashboard) Estate() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.estate
}

// UpdateParameter moves one scenario slider.
func (d *Dashboard) UpdateParameter(name string, value float64) (scenario.Snapshot, error) {
	if d.Closed() {
		return scenario.Snapshot{}, ErrClosed
	}
	return d.scenario.Update(name, value)
}

// SetParameters moves all four sliders at once.
func (d *Dashboard) SetParameters(p models.ScenarioParameters) (scenario.Snapshot, error) {
	if d.Closed() {
		return scenario.Snapshot{}, ErrClosed
	}
	return d.scenario.Set(p), nil
}

// ResetScenario restores the default sliders.
func (d *Dashboard) ResetScenario() (scenario.Snapshot, error) {
	if d.Closed() {
		return scenario.Snapshot{}, ErrClosed
	}
	return d.scenario.Reset(), nil
}

// Ask runs the prompt responder and keeps the answer for the overview.
func (d *Dashboard) Ask(text string) (Answer, error) {
	rule := prompt.Classify(text)
	a := Answer{Text: text, Rule: rule.Name, Answer: rule.Response}

	d.mu.Lock()
	if err := d.checkOpen(); err != nil {
		d.mu.Unlock()
		return Answer{}, err
	}
	d.answer = &a
	d.mu.Unlock()

	d.deps.Observer.Answered(rule.Name)
	return a, nil
}

// Do dispatches a parameterless button action.
func (d *Dashboard) Do(action string) (ActionResult, error) {
	if d.Closed() {
		return ActionResult{}, ErrClosed
	}
	switch action {
	case ActionSync:
		return d.sync(), nil
	case ActionRetrain:
		return ActionResult{Action: action, JobID: d.training.Retrain(d.deps.Now())}, nil
	case ActionPairDrone:
		return d.pairDrone(), nil
	case ActionNext:
		return ActionResult{Action: action, Step: d.moveStep(1)}, nil
	case ActionBack:
		return ActionResult{Action: action, Step: d.moveStep(-1)}, nil
	}
	return ActionResult{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

func (d *Dashboard) sync() ActionResult {
	now := d.deps.Now()
	d.mu.Lock()
	d.lastSync = now
	d.mu.Unlock()
	evt := d.ticker.Push(fmt.Sprintf("Mobile sync %s: field reports uploaded", now.Format("15:04:05")))
	return ActionResult{Action: ActionSync, Entry: evt.Entry}
}

func (d *Dashboard) pairDrone() ActionResult {
	d.mu.Lock()
	d.dronePaired = true
	d.mu.Unlock()
	evt := d.ticker.Push("Drone paired: Edge AI active")
	return ActionResult{Action: ActionPairDrone, Entry: evt.Entry}
}

// moveStep shifts the onboarding step by delta, clamped to [FirstStep, LastStep].
func (d *Dashboard) moveStep(delta int) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.step += delta
	if d.step < FirstStep {
		d.step = FirstStep
	}
	if d.step > LastStep {
		d.step = LastStep
	}
	return d.step
}

// State is everything the views render from.
type State struct {
	ID          string                `json:"id"`
	Estate      string                `json:"estate"`
	Estates     []string              `json:"estates"`
	Scenario    scenario.Snapshot     `json:"scenario"`
	Scatter     []models.ScatterPoint `json:"scatter"`
	Ticker      []string              `json:"ticker"`
	Answer      *Answer               `json:"answer,omitempty"`
	Step        int                   `json:"step"`
	DronePaired bool                  `json:"dronePaired"`
	LastSync    *time.Time            `json:"lastSync,omitempty"`
	Blocks      []models.Block        `json:"blocks"`
	AllBlocks   []models.Block        `json:"-"`
	Models      []models.Model        `json:"models"`
	TrainingLog []string              `json:"trainingLog"`
	Fixtures    *catalog.Fixtures     `json:"-"`
}

// State captures a consistent snapshot for rendering.
func (d *Dashboard) State(ctx context.Context) (State, error) {
	blocks, err := d.deps.Catalog.Blocks(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load blocks: %w", err)
	}
	registry, err := d.deps.Catalog.Models(ctx)
	if err != nil {
		return State{}, fmt.Errorf("load models: %w", err)
	}

	d.mu.RLock()
	st := State{
		ID:          d.id,
		Estate:      d.estate,
		Estates:     append([]string(nil), d.deps.Fixtures.Estates...),
		Step:        d.step,
		DronePaired: d.dronePaired,
		AllBlocks:   blocks,
		Models:      registry,
		Fixtures:    d.deps.Fixtures,
	}
	if d.answer != nil {
		a := *d.answer
		st.Answer = &a
	}
	if !d.lastSync.IsZero() {
		t := d.lastSync
		st.LastSync = &t
	}
	d.mu.RUnlock()

	st.Blocks = catalog.FilterBlocks(blocks, st.Estate)
	st.Scenario = d.scenario.Snapshot()
	st.Scatter = d.ticker.Scatter()
	st.Ticker = d.ticker.Log()
	st.TrainingLog = d.training.Entries()
	return st, nil
}
