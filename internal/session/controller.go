// Package session drives the workout recording state machine.
//
// A Controller is owned by a single event loop. Each On* method runs to
// completion before the next event is delivered, so it holds no locks.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/verte-zerg/tuitrail/internal/geo"
	"github.com/verte-zerg/tuitrail/internal/workout"
)

// State is the controller's interaction state.
type State int

// Controller states.
const (
	Idle State = iota
	AwaitingFormInput
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingFormInput:
		return "awaiting-form-input"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Presenter receives the controller's rendering requests.
type Presenter interface {
	ShowForm()
	HideForm()
	RenderMarker(loc geo.Location, kind workout.Kind, description string)
	RenderListEntry(w *workout.Workout)
	CenterMapOn(loc geo.Location)
	NotifyValidationFailure(reason string)
	NotifyPersistenceFailure(err error)
	Restart()
}

// Medium persists the serialized workout store. Read returns nil data when
// nothing has been stored.
type Medium interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context) ([]byte, error)
	Erase(ctx context.Context) error
}

// FormInput is a submitted workout form.
type FormInput struct {
	Kind        workout.Kind
	DistanceKm  float64
	DurationMin float64
	// Cadence for running, elevation gain for cycling.
	KindValue float64
}

// Controller turns location picks and form submissions into stored workouts.
type Controller struct {
	presenter Presenter
	medium    Medium
	factory   *workout.Factory
	locator   geo.Locator
	logger    *log.Logger

	workouts *workout.Store
	state    State
	pending  geo.Location
}

// Option configures a Controller.
type Option func(*Controller)

// WithFactory overrides the workout factory.
func WithFactory(f *workout.Factory) Option {
	return func(c *Controller) {
		c.factory = f
	}
}

// WithLocator sets the geolocation provider.
func WithLocator(l geo.Locator) Option {
	return func(c *Controller) {
		c.locator = l
	}
}

// WithLogger sets the logger for non-fatal failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// New constructs an idle controller with an empty store.
func New(presenter Presenter, medium Medium, opts ...Option) *Controller {
	c := &Controller{
		presenter: presenter,
		medium:    medium,
		factory:   workout.NewFactory(),
		locator:   geo.NewFixed(nil, nil),
		logger:    log.New(io.Discard, "", 0),
		workouts:  workout.NewStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Pending returns the location awaiting form input.
func (c *Controller) Pending() (geo.Location, bool) {
	return c.pending, c.state == AwaitingFormInput
}

// Workouts returns the committed workouts in creation order.
func (c *Controller) Workouts() []*workout.Workout {
	return c.workouts.All()
}

// OnLocationPicked opens the form for loc. A new pick replaces a pending one.
func (c *Controller) OnLocationPicked(loc geo.Location) {
	c.pending = loc
	c.state = AwaitingFormInput
	c.presenter.ShowForm()
}

// OnCancel abandons the pending location.
func (c *Controller) OnCancel() {
	if c.state != AwaitingFormInput {
		return
	}
	c.pending = geo.Location{}
	c.state = Idle
	c.presenter.HideForm()
}

// OnFormSubmitted commits a workout at the pending location. It is ignored
// while idle. On validation failure the form stays open with the same location.
func (c *Controller) OnFormSubmitted(ctx context.Context, in FormInput) (*workout.Workout, error) {
	if c.state != AwaitingFormInput {
		return nil, nil
	}
	w, err := c.factory.Create(in.Kind, c.pending, in.DistanceKm, in.DurationMin, in.KindValue)
	if err != nil {
		reason := err.Error()
		var verr *workout.ValidationError
		if errors.As(err, &verr) {
			reason = verr.Field + " " + verr.Reason
		}
		c.presenter.NotifyValidationFailure(reason)
		return nil, err
	}
	if err := c.workouts.Append(w); err != nil {
		c.logger.Printf("refusing workout: %v", err)
		return nil, err
	}

	c.presenter.RenderMarker(w.Location(), w.Kind(), w.Description())
	c.presenter.RenderListEntry(w)
	c.persist(ctx)

	c.pending = geo.Location{}
	c.state = Idle
	c.presenter.HideForm()
	return w, nil
}

// OnSelectExisting records a click on a workout and centers the map on it.
func (c *Controller) OnSelectExisting(id string) error {
	w, err := c.workouts.FindByID(id)
	if err != nil {
		c.logger.Printf("select: %v", err)
		return err
	}
	w.Select()
	c.presenter.CenterMapOn(w.Location())
	return nil
}

// OnStartup loads persisted workouts and renders them. Any read or decode
// failure leaves an empty store; the returned error is informational.
func (c *Controller) OnStartup(ctx context.Context) error {
	c.workouts = workout.NewStore()
	c.pending = geo.Location{}
	c.state = Idle

	data, err := c.medium.Read(ctx)
	if err != nil {
		c.logger.Printf("failed to read workouts: %v", err)
		return err
	}
	if data == nil {
		return nil
	}
	loaded, err := workout.Deserialize(data)
	if err != nil {
		c.logger.Printf("ignoring stored workouts: %v", err)
		return err
	}
	c.workouts = loaded
	for _, w := range loaded.All() {
		c.presenter.RenderMarker(w.Location(), w.Kind(), w.Description())
		c.presenter.RenderListEntry(w)
	}
	return nil
}

// OnReset drops every workout, erases the medium, and asks the presenter to
// start over.
func (c *Controller) OnReset(ctx context.Context) error {
	c.workouts.Clear()
	c.pending = geo.Location{}
	c.state = Idle
	err := c.medium.Erase(ctx)
	if err != nil {
		c.logger.Printf("failed to erase workouts: %v", err)
	}
	c.presenter.Restart()
	return err
}

// RequestPosition asks the locator for the current position. It touches no
// controller state, so it may run off the event loop.
func (c *Controller) RequestPosition(ctx context.Context) (geo.Location, error) {
	return c.locator.CurrentPosition(ctx)
}

// OnPositionResolved delivers a geolocation result. On success the map is
// centered on it. On failure nothing changes and the error is returned for
// the caller to report.
func (c *Controller) OnPositionResolved(loc geo.Location, err error) error {
	if err != nil {
		return fmt.Errorf("could not get your position: %w", err)
	}
	c.presenter.CenterMapOn(loc)
	return nil
}

func (c *Controller) persist(ctx context.Context) {
	data, err := c.workouts.Serialize()
	if err == nil {
		err = c.medium.Write(ctx, data)
	}
	if err != nil {
		c.logger.Printf("failed to persist workouts: %v", err)
		c.presenter.NotifyPersistenceFailure(err)
	}
}
