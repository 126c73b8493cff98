// Package editor holds the create/edit workflow for rate profiles: a draft
// with a live throughput preview, the locally held profile list and the
// reconciliation of that list after each successful write.
//
// An Editor is driven from a single goroutine and is not safe for
// concurrent use.
package editor

import (
	"context"
	"errors"
	"sort"

	"github.com/aman-churiwal/root-panel/internal/client"
	"github.com/aman-churiwal/root-panel/internal/shooting"
)

// Remote operations the editor depends on. *client.Client satisfies it.
type API interface {
	ListShootingSpeeds(ctx context.Context) ([]client.ShootingSpeed, error)
	GetShootingSpeed(ctx context.Context, id uint) (*client.ShootingSpeed, error)
	CreateShootingSpeed(ctx context.Context, fields client.ShootingSpeedFields) (*client.ShootingSpeed, error)
	UpdateShootingSpeed(ctx context.Context, id uint, fields client.ShootingSpeedFields) (*client.ShootingSpeed, error)
}

// Mode of the editor: creating a new profile or editing an existing one
type State int

const (
	StateIdle State = iota
	StateEditing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// Shown for failures that carry no server message
const genericFailure = "Something went wrong, please try again"

// Live throughput estimate for the draft
type Preview struct {
	Daily  int
	Hourly float64
}

type entry struct {
	profile client.ShootingSpeed
	arrival uint64
}

// Owns the draft, its preview and the local profile list
type Editor struct {
	api API

	state     State
	editingID uint
	draft     client.ShootingSpeedFields
	preview   Preview

	profiles    map[uint]*entry
	nextArrival uint64
	loaded      bool

	err          string
	unauthorized bool
}

// Returns an idle editor with a default draft and an empty list
func New(api API) *Editor {
	e := &Editor{
		api:      api,
		profiles: make(map[uint]*entry),
	}
	e.resetDraft()
	return e
}

func defaultDraft() client.ShootingSpeedFields {
	return client.ShootingSpeedFields{Status: true}
}

func (e *Editor) resetDraft() {
	e.state = StateIdle
	e.editingID = 0
	e.draft = defaultDraft()
	e.recompute()
}

func (e *Editor) recompute() {
	daily := shooting.DailyShots(shooting.Params{
		NumberShots:      e.draft.NumberShots,
		TimeBetweenShots: e.draft.TimeBetweenShots,
		TimeRest:         e.draft.TimeRest,
	})
	e.preview = Preview{Daily: daily, Hourly: shooting.HourlyAverage(daily)}
}

// Fetches the profile list the first time it is called
func (e *Editor) Load(ctx context.Context) error {
	if e.loaded {
		return nil
	}
	return e.Reload(ctx)
}

// Replaces the local list with the server's. On failure the current list
// is kept.
func (e *Editor) Reload(ctx context.Context) error {
	speeds, err := e.api.ListShootingSpeeds(ctx)
	if err != nil {
		return e.fail(err)
	}

	e.profiles = make(map[uint]*entry, len(speeds))
	e.nextArrival = 0
	for _, speed := range speeds {
		e.reconcile(speed)
	}
	e.loaded = true
	e.clearErr()

	return nil
}

// Fetches a profile and makes it the draft. On failure the editor stays in
// its prior state with its draft untouched.
func (e *Editor) LoadForEdit(ctx context.Context, id uint) error {
	speed, err := e.api.GetShootingSpeed(ctx, id)
	if err != nil {
		return e.fail(err)
	}

	// the snapshot may omit its id; the requested one is authoritative
	e.state = StateEditing
	e.editingID = id
	e.draft = speed.Fields()
	e.recompute()
	e.clearErr()

	return nil
}

// Discards the draft and returns to idle
func (e *Editor) CancelEdit() {
	e.resetDraft()
	e.clearErr()
}

// Creates or updates depending on the current state. On success the local
// list is patched and the editor returns to idle; on failure nothing but
// Err changes.
func (e *Editor) Submit(ctx context.Context) error {
	if e.state == StateEditing {
		return e.submitUpdate(ctx)
	}
	return e.submitCreate(ctx)
}

func (e *Editor) submitCreate(ctx context.Context) error {
	created, err := e.api.CreateShootingSpeed(ctx, e.draft)
	if err != nil {
		return e.fail(err)
	}

	if created == nil || created.ID == 0 {
		// nothing to append; take the authoritative list instead
		if err := e.Reload(ctx); err != nil {
			return err
		}
	} else {
		e.reconcile(*created)
	}

	e.resetDraft()
	e.clearErr()

	return nil
}

func (e *Editor) submitUpdate(ctx context.Context) error {
	id := e.editingID
	fields := e.draft

	confirmed, err := e.api.UpdateShootingSpeed(ctx, id, fields)
	if err != nil {
		return e.fail(err)
	}

	merged := client.ShootingSpeed{ID: id}
	if existing, ok := e.profiles[id]; ok {
		merged = existing.profile
	}
	merged.Name = fields.Name
	merged.Sequence = fields.Sequence
	merged.NumberShots = fields.NumberShots
	merged.TimeBetweenShots = fields.TimeBetweenShots
	merged.TimeRest = fields.TimeRest
	merged.Status = fields.Status
	if confirmed != nil {
		merged.ShootingPerDay = confirmed.ShootingPerDay
	}
	e.reconcile(merged)

	e.resetDraft()
	e.clearErr()

	return nil
}

// Stores the profile under its id, keeping the arrival position of an
// existing entry. Returns the number of entries whose value changed, which
// is never more than one.
func (e *Editor) reconcile(profile client.ShootingSpeed) int {
	if existing, ok := e.profiles[profile.ID]; ok {
		if existing.profile == profile {
			return 0
		}
		existing.profile = profile
		return 1
	}

	e.profiles[profile.ID] = &entry{profile: profile, arrival: e.nextArrival}
	e.nextArrival++
	return 1
}

func (e *Editor) fail(err error) error {
	e.unauthorized = errors.Is(err, client.ErrUnauthorized)

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		e.err = apiErr.Message
	} else {
		e.err = genericFailure
	}

	return err
}

func (e *Editor) clearErr() {
	e.err = ""
	e.unauthorized = false
}

// Sets the draft name
func (e *Editor) SetName(name string) {
	e.draft.Name = name
}

// Sets the draft ordering key
func (e *Editor) SetSequence(sequence int) {
	e.draft.Sequence = sequence
}

// Sets whether the draft is active
func (e *Editor) SetStatus(status bool) {
	e.draft.Status = status
}

// Sets the shots per burst and recomputes the preview
func (e *Editor) SetNumberShots(n int) {
	e.draft.NumberShots = n
	e.recompute()
}

// Sets the gap inside a burst and recomputes the preview
func (e *Editor) SetTimeBetweenShots(seconds float64) {
	e.draft.TimeBetweenShots = seconds
	e.recompute()
}

// Sets the rest after a burst and recomputes the preview
func (e *Editor) SetTimeRest(seconds float64) {
	e.draft.TimeRest = seconds
	e.recompute()
}

// Returns the throughput estimate for the current draft
func (e *Editor) Preview() Preview {
	return e.preview
}

// Returns the current mode
func (e *Editor) State() State {
	return e.state
}

// Returns the profile being edited, if any
func (e *Editor) EditingID() (uint, bool) {
	return e.editingID, e.state == StateEditing
}

// Returns a copy of the fields that the next Submit will send
func (e *Editor) Draft() client.ShootingSpeedFields {
	return e.draft
}

// Returns the profiles ordered by sequence, ties in arrival order. The
// stored collection is not reordered.
func (e *Editor) Profiles() []client.ShootingSpeed {
	entries := make([]*entry, 0, len(e.profiles))
	for _, en := range e.profiles {
		entries = append(entries, en)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].profile.Sequence != entries[j].profile.Sequence {
			return entries[i].profile.Sequence < entries[j].profile.Sequence
		}
		return entries[i].arrival < entries[j].arrival
	})

	out := make([]client.ShootingSpeed, len(entries))
	for i, en := range entries {
		out[i] = en.profile
	}
	return out
}

// Returns how many listed profiles are active and how many are listed
func (e *Editor) Counts() (active, total int) {
	for _, en := range e.profiles {
		if en.profile.Status {
			active++
		}
	}
	return active, len(e.profiles)
}

// Returns the message of the last failed operation, or "" after a success
func (e *Editor) Err() string {
	return e.err
}

// Reports whether the last failure was a rejected session
func (e *Editor) Unauthorized() bool {
	return e.unauthorized
}
