package session

import (
	"errors"
	"testing"

	"github.com/scx-platform/releasegate/internal/dispatch"
	"github.com/scx-platform/releasegate/internal/manifest"
)

func testManifest(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Parse([]byte(`{
		"SCXML_APP_LISTS": {"CL1": ["Consumer Lending"], "HL1": ["Home Lending"]},
		"SCXML_TARGET_APP_LISTS": {"CL1": ["AppX", "AppY"], "HL1": ["AppZ"]}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestSession_FullFlow(t *testing.T) {
	s := New(testManifest(t))
	if got := s.Snapshot().State; got != ManifestReady {
		t.Fatalf("initial state = %v", got)
	}

	if err := s.SelectLob("CL1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectTargetApp("AppX"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetMetadata(dispatch.Metadata{ProjectName: "proj"}); err != nil {
		t.Fatal(err)
	}

	res, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Fatalf("expected Valid, got %+v", res)
	}
	if got := s.Snapshot().State; got != Dispatching {
		t.Errorf("state after valid submit = %v, want Dispatching", got)
	}

	s.Finish()
	snap := s.Snapshot()
	if snap.State != Idle {
		t.Errorf("state after Finish = %v, want Idle", snap.State)
	}
	if snap.SelectedLob != "" || snap.SelectedTargetApp != "" {
		t.Errorf("Finish did not clear selection: %+v", snap)
	}
}

// Changing the LOB must always reset the target app, so no stale
// cross-LOB pairing can reach submission.
func TestSession_SelectLobResetsTargetApp(t *testing.T) {
	s := New(testManifest(t))
	if err := s.SelectLob("CL1"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectTargetApp("AppX"); err != nil {
		t.Fatal(err)
	}
	if err := s.SelectLob("HL1"); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.SelectedTargetApp != "" {
		t.Errorf("target app not reset: %q", snap.SelectedTargetApp)
	}
	if snap.State != LobSelected {
		t.Errorf("state = %v, want LobSelected", snap.State)
	}
	if _, err := s.Submit(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("submit without target app should fail, got %v", err)
	}
}

func TestSession_InvalidPairingReturnsToPairSelected(t *testing.T) {
	s := New(testManifest(t))
	s.SelectLob("CL1")
	s.SelectTargetApp("AppZ") // belongs to HL1, not CL1

	res, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid {
		t.Fatal("expected Invalid")
	}
	snap := s.Snapshot()
	if snap.State != PairSelected {
		t.Errorf("state = %v, want PairSelected", snap.State)
	}
	if snap.Diagnostic == nil {
		t.Fatal("expected diagnostic to be attached")
	}
	if len(snap.Diagnostic.Alternatives) != 2 {
		t.Errorf("alternatives = %v", snap.Diagnostic.Alternatives)
	}

	// Corrected pair can be resubmitted on the same session.
	if err := s.SelectTargetApp("AppY"); err != nil {
		t.Fatal(err)
	}
	res, err = s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Errorf("corrected pair should be Valid, got %+v", res)
	}
}

// A failed external dispatch must not strand the session in
// Dispatching; Fail keeps the pair selected so it can be resubmitted.
func TestSession_FailReturnsToPairSelected(t *testing.T) {
	s := New(testManifest(t))
	s.SelectLob("CL1")
	s.SelectTargetApp("AppX")
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot().State; got != Dispatching {
		t.Fatalf("state = %v, want Dispatching", got)
	}

	if err := s.Fail(); err != nil {
		t.Fatal(err)
	}
	snap := s.Snapshot()
	if snap.State != PairSelected {
		t.Errorf("state after Fail = %v, want PairSelected", snap.State)
	}
	if snap.SelectedLob != "CL1" || snap.SelectedTargetApp != "AppX" {
		t.Errorf("Fail cleared the selection: %+v", snap)
	}

	// The same pair goes through on retry.
	res, err := s.Submit()
	if err != nil {
		t.Fatal(err)
	}
	if !res.Valid {
		t.Errorf("resubmit after Fail: %+v", res)
	}
}

func TestSession_FailOutsideDispatching(t *testing.T) {
	s := New(testManifest(t))
	if err := s.Fail(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("fail in ManifestReady: %v", err)
	}
	s.SelectLob("CL1")
	s.SelectTargetApp("AppX")
	if err := s.Fail(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("fail in PairSelected: %v", err)
	}
}

func TestSession_IllegalTransitions(t *testing.T) {
	s := New(testManifest(t))

	if err := s.SelectTargetApp("AppX"); !errors.Is(err, ErrBadTransition) {
		t.Errorf("select app before LOB: %v", err)
	}
	if _, err := s.Submit(); !errors.Is(err, ErrBadTransition) {
		t.Errorf("submit before pair: %v", err)
	}

	s.Finish()
	if err := s.SelectLob("CL1"); !errors.Is(err, ErrBadTransition) {
		t.Errorf("select LOB on idle session: %v", err)
	}
	if err := s.SetMetadata(dispatch.Metadata{}); !errors.Is(err, ErrBadTransition) {
		t.Errorf("set metadata on idle session: %v", err)
	}
}

func TestSession_SnapshotIsACopy(t *testing.T) {
	s := New(testManifest(t))
	s.SelectLob("CL1")
	snap := s.Snapshot()
	snap.SelectedLob = "mutated"
	if got := s.Snapshot().SelectedLob; got != "CL1" {
		t.Errorf("session state leaked through snapshot: %q", got)
	}
}

func TestSession_SnapshotDiagnosticIsACopy(t *testing.T) {
	s := New(testManifest(t))
	s.SelectLob("CL1")
	s.SelectTargetApp("AppZ") // invalid: belongs to HL1
	if _, err := s.Submit(); err != nil {
		t.Fatal(err)
	}

	snap := s.Snapshot()
	if snap.Diagnostic == nil || len(snap.Diagnostic.Alternatives) == 0 {
		t.Fatalf("expected diagnostic with alternatives, got %+v", snap.Diagnostic)
	}
	snap.Diagnostic.TargetApp = "mutated"
	snap.Diagnostic.Alternatives[0] = "mutated"

	fresh := s.Snapshot()
	if fresh.Diagnostic.TargetApp != "AppZ" {
		t.Errorf("diagnostic aliased: %q", fresh.Diagnostic.TargetApp)
	}
	if fresh.Diagnostic.Alternatives[0] == "mutated" {
		t.Errorf("alternatives aliased: %v", fresh.Diagnostic.Alternatives)
	}
}
