package zmachine

import "testing"

func newPolicyTestEngine(policy Policy) *Engine {
	return &Engine{
		policy:      policy,
		directiveCh: make(chan Directive),
		responseCh:  make(chan Response),
		warnedOnce:  map[ErrorKind]bool{},
	}
}

// runHandleError calls handleError on its own goroutine (since it may call
// emit, which blocks on directiveCh) and drains at most one Directive.
func runHandleError(e *Engine, zerr *Error) (cont bool, directives []Directive) {
	done := make(chan bool)
	go func() {
		done <- e.handleError(zerr)
	}()

	for {
		select {
		case d := <-e.directiveCh:
			directives = append(directives, d)
			e.responseCh <- Response{}
		case cont = <-done:
			return
		}
	}
}

func TestHandleErrorFatalKindAlwaysAborts(t *testing.T) {
	e := newPolicyTestEngine(PolicyIgnore)
	next := uint32(0x100)
	zerr := newErrAt(StackUnderflow, true, next, "underflow")

	cont, directives := runHandleError(e, zerr)
	if cont {
		t.Errorf("handleError should not continue for a fatal kind")
	}
	if len(directives) != 1 || !directives[0].Fatal {
		t.Errorf("expected one fatal DirectiveMessage, got %+v", directives)
	}
}

func TestHandleErrorPolicyAbort(t *testing.T) {
	e := newPolicyTestEngine(PolicyAbort)
	zerr := newErr(IllegalAccess, true, "bad write")

	cont, directives := runHandleError(e, zerr)
	if cont {
		t.Errorf("PolicyAbort should never continue")
	}
	if len(directives) != 1 || !directives[0].Fatal {
		t.Errorf("expected one fatal DirectiveMessage, got %+v", directives)
	}
}

func TestHandleErrorPolicyIgnoreResumesAtNextAddress(t *testing.T) {
	e := newPolicyTestEngine(PolicyIgnore)
	next := uint32(0x200)
	zerr := newErrAt(IllegalAccess, true, next, "bad write")

	cont, directives := runHandleError(e, zerr)
	if !cont {
		t.Errorf("PolicyIgnore should resume when NextAddress is set")
	}
	if len(directives) != 0 {
		t.Errorf("PolicyIgnore should not emit any message, got %+v", directives)
	}
	if e.pc != next {
		t.Errorf("pc = %#x, want %#x", e.pc, next)
	}
}

func TestHandleErrorPolicyIgnoreWithoutNextAddressHalts(t *testing.T) {
	e := newPolicyTestEngine(PolicyIgnore)
	zerr := newErr(IllegalAccess, true, "bad write")

	cont, _ := runHandleError(e, zerr)
	if cont {
		t.Errorf("PolicyIgnore with no NextAddress should not be able to resume")
	}
}

func TestHandleErrorPolicyWarnOnceFiresOnlyOnce(t *testing.T) {
	e := newPolicyTestEngine(PolicyWarnOnce)
	next := uint32(0x300)

	_, directives := runHandleError(e, newErrAt(IllegalAccess, true, next, "first"))
	if len(directives) != 1 {
		t.Fatalf("expected one warning on first occurrence, got %+v", directives)
	}

	_, directives = runHandleError(e, newErrAt(IllegalAccess, true, next, "second"))
	if len(directives) != 0 {
		t.Errorf("expected no warning on repeated occurrence of the same kind, got %+v", directives)
	}

	_, directives = runHandleError(e, newErrAt(InvalidObjectProperty, true, next, "different kind"))
	if len(directives) != 1 {
		t.Errorf("expected a warning for a distinct error kind, got %+v", directives)
	}
}

func TestHandleErrorPolicyWarnAlwaysFiresEveryTime(t *testing.T) {
	e := newPolicyTestEngine(PolicyWarnAlways)
	next := uint32(0x400)

	for i := 0; i < 3; i++ {
		_, directives := runHandleError(e, newErrAt(IllegalAccess, true, next, "occurrence %d", i))
		if len(directives) != 1 || directives[0].Fatal {
			t.Errorf("occurrence %d: expected one non-fatal warning, got %+v", i, directives)
		}
	}
}

func TestHandleErrorNonRecoverableAbortsRegardlessOfPolicy(t *testing.T) {
	e := newPolicyTestEngine(PolicyIgnore)
	zerr := newErr(InvalidObjectProperty, false, "not recoverable")

	cont, directives := runHandleError(e, zerr)
	if cont {
		t.Errorf("a non-recoverable error should never let execution continue")
	}
	if len(directives) != 1 || !directives[0].Fatal {
		t.Errorf("expected one fatal DirectiveMessage, got %+v", directives)
	}
}
