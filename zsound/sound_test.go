package zsound_test

import (
	"testing"

	"github.com/kestrelif/ifzm/zsound"
)

func TestPlayBuiltinBeepsNeverFail(t *testing.T) {
	m := zsound.NewManager(nil)
	if err := m.Play(zsound.EffectHighBeep, 8, 1, 0, false); err != nil {
		t.Fatalf("Play(high beep): %v", err)
	}
	if !m.Playing() {
		t.Errorf("Playing() should be true right after Play")
	}
}

func TestPlayUnknownEffectWithoutResourcesFails(t *testing.T) {
	m := zsound.NewManager(nil)
	if err := m.Play(5, 8, 1, 0, false); err == nil {
		t.Errorf("Play should fail for a non-beep effect with no resource file loaded")
	}
}

func TestCompleteCycleFiresEndRoutineAfterRepeats(t *testing.T) {
	m := zsound.NewManager(nil)
	if err := m.Play(zsound.EffectHighBeep, 8, 2, 0x4000, true); err != nil {
		t.Fatalf("Play: %v", err)
	}

	routine, ok := m.CompleteCycle()
	if ok {
		t.Fatalf("CompleteCycle fired early after only 1 of 2 repeats, got routine %#x", routine)
	}
	if !m.Playing() {
		t.Errorf("Playing() should remain true mid-repeat")
	}

	routine, ok = m.CompleteCycle()
	if !ok {
		t.Fatalf("CompleteCycle should fire once the repeat count is exhausted")
	}
	if routine != 0x4000 {
		t.Errorf("CompleteCycle routine = %#x, want 0x4000", routine)
	}
	if m.Playing() {
		t.Errorf("Playing() should be false after the final repeat completes")
	}
}

func TestCompleteCycleInfiniteRepeatsNeverFires(t *testing.T) {
	m := zsound.NewManager(nil)
	if err := m.Play(zsound.EffectHighBeep, 8, zsound.InfiniteRepeats, 0x4000, true); err != nil {
		t.Fatalf("Play: %v", err)
	}
	for i := 0; i < 10; i++ {
		if _, ok := m.CompleteCycle(); ok {
			t.Fatalf("CompleteCycle should never fire for an infinite-repeat effect")
		}
	}
}

func TestStopDiscardsEndRoutine(t *testing.T) {
	m := zsound.NewManager(nil)
	if err := m.Play(zsound.EffectHighBeep, 8, 3, 0x4000, true); err != nil {
		t.Fatalf("Play: %v", err)
	}
	m.Stop()
	if m.Playing() {
		t.Errorf("Playing() should be false after Stop")
	}
	if _, ok := m.CompleteCycle(); ok {
		t.Errorf("CompleteCycle should not fire after Stop discarded the effect")
	}
}
