// Package session holds the per-user selection state and the
// transitions it is allowed to make before a release is dispatched.
package session

import (
	"errors"
	"fmt"

	"github.com/scx-platform/releasegate/internal/dispatch"
	"github.com/scx-platform/releasegate/internal/manifest"
	"github.com/scx-platform/releasegate/internal/validate"
)

// State identifies where a session is in the selection flow.
type State int

const (
	Idle State = iota
	ManifestReady
	LobSelected
	PairSelected
	Validating
	Dispatching
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ManifestReady:
		return "manifest-ready"
	case LobSelected:
		return "lob-selected"
	case PairSelected:
		return "pair-selected"
	case Validating:
		return "validating"
	case Dispatching:
		return "dispatching"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrBadTransition is returned when a transition is attempted from a
// state that does not allow it.
var ErrBadTransition = errors.New("transition not allowed")

// Session is one user's selection flow over one manifest snapshot.
// The manifest is immutable for the session's lifetime; concurrent
// edits to the source are not observed until a new session loads it.
type Session struct {
	state    Snapshot
	manifest *manifest.Manifest
}

// Snapshot is the transient selection state. A fresh copy is produced
// on every transition so callers never observe partial mutation.
type Snapshot struct {
	State             State
	SelectedLob       string
	SelectedTargetApp string
	Metadata          dispatch.Metadata

	// Diagnostic carries the last invalid-pairing result, if any.
	Diagnostic *validate.Result
}

// New creates a session in ManifestReady over the given snapshot.
func New(m *manifest.Manifest) *Session {
	return &Session{
		state:    Snapshot{State: ManifestReady},
		manifest: m,
	}
}

// Snapshot returns a copy of the current selection state. The
// diagnostic is copied too, so callers may hold a snapshot across
// later transitions without aliasing the live state.
func (s *Session) Snapshot() Snapshot {
	snap := s.state
	if snap.Diagnostic != nil {
		d := *snap.Diagnostic
		d.Alternatives = append([]string(nil), d.Alternatives...)
		snap.Diagnostic = &d
	}
	return snap
}

// Manifest returns the immutable manifest snapshot the session owns.
func (s *Session) Manifest() *manifest.Manifest { return s.manifest }

// SelectLob records the chosen LOB. Any previously chosen target app is
// cleared so a stale cross-LOB pairing can never reach submission.
func (s *Session) SelectLob(lobKey string) error {
	switch s.state.State {
	case ManifestReady, LobSelected, PairSelected:
	default:
		return fmt.Errorf("%w: select LOB in %s", ErrBadTransition, s.state.State)
	}
	next := s.state
	next.State = LobSelected
	next.SelectedLob = lobKey
	next.SelectedTargetApp = ""
	next.Diagnostic = nil
	s.state = next
	return nil
}

// SelectTargetApp records the chosen target application.
func (s *Session) SelectTargetApp(app string) error {
	switch s.state.State {
	case LobSelected, PairSelected:
	default:
		return fmt.Errorf("%w: select target app in %s", ErrBadTransition, s.state.State)
	}
	next := s.state
	next.State = PairSelected
	next.SelectedTargetApp = app
	next.Diagnostic = nil
	s.state = next
	return nil
}

// SetMetadata attaches the free-form release metadata. Allowed any time
// after the manifest is ready; nothing downstream inspects its content.
func (s *Session) SetMetadata(meta dispatch.Metadata) error {
	if s.state.State == Idle {
		return fmt.Errorf("%w: set metadata in %s", ErrBadTransition, s.state.State)
	}
	next := s.state
	next.Metadata = meta
	s.state = next
	return nil
}

// Submit re-validates the selected pair against the manifest snapshot.
// A valid pair moves the session to Dispatching and returns the result;
// an invalid pair returns the session to PairSelected with the
// diagnostic attached, so the caller can render the alternatives and
// resubmit a corrected pair.
func (s *Session) Submit() (validate.Result, error) {
	if s.state.State != PairSelected {
		return validate.Result{}, fmt.Errorf("%w: submit in %s", ErrBadTransition, s.state.State)
	}
	s.state.State = Validating

	res := validate.Validate(s.manifest, s.state.SelectedLob, s.state.SelectedTargetApp)
	next := s.state
	if res.Valid {
		next.State = Dispatching
		next.Diagnostic = nil
	} else {
		next.State = PairSelected
		next.Diagnostic = &res
	}
	s.state = next
	return res, nil
}

// Fail records that the external dispatch did not go through and
// returns the session to PairSelected, keeping the selections so the
// same pair can be resubmitted.
func (s *Session) Fail() error {
	if s.state.State != Dispatching {
		return fmt.Errorf("%w: fail in %s", ErrBadTransition, s.state.State)
	}
	next := s.state
	next.State = PairSelected
	s.state = next
	return nil
}

// Finish records the external dispatch acknowledgement (or the session
// being abandoned) and returns the session to Idle. Nothing persists.
func (s *Session) Finish() {
	s.state = Snapshot{State: Idle}
}
