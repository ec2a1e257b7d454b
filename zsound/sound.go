// Package zsound implements the Z-machine sound-effect resource manager:
// resolving effect numbers against a loaded Blorb resource file and
// tracking playback state (volume, repeats, completion routine) for the
// dispatcher to consume between instructions.
package zsound

import (
	"fmt"

	"github.com/kestrelif/ifzm/zblorb"
)

// VeryLoud is the sentinel volume value (0xFF) meaning "as loud as
// possible".
const VeryLoud = 0xFF

// InfiniteRepeats is the sentinel repeat count (0 or 255) meaning "repeat
// until stopped".
const InfiniteRepeats = 0

// Effect number 1 and 2 are reserved for the high/low-pitched beeps that
// exist even without a Blorb resource file.
const (
	EffectHighBeep = 1
	EffectLowBeep  = 2
)

// Manager tracks the loaded resource file and currently playing effect.
type Manager struct {
	resources *zblorb.File

	playing       bool
	effect        uint32
	volume        uint8
	repeats       uint32
	repeatsDone   uint32
	endRoutine    uint32
	hasEndRoutine bool
}

// NewManager constructs a Manager over an optionally-nil resource file;
// nil means only the two built-in beep effects are available.
func NewManager(resources *zblorb.File) *Manager {
	return &Manager{resources: resources}
}

// LoadResources swaps in a newly parsed Blorb file (e.g. after the host
// attaches a resource file chosen by the player).
func (m *Manager) LoadResources(f *zblorb.File) {
	m.resources = f
}

// normaliseVolume maps the 1-8/0xFF input range onto an 8-bit output
// volume.
func normaliseVolume(volume uint8) uint8 {
	if volume == VeryLoud {
		return 255
	}
	if volume == 0 {
		return 255 / 8
	}
	if volume > 8 {
		volume = 8
	}
	return uint8((uint16(volume) * 255) / 8)
}

// Play starts playback of effect at the given volume and repeat count,
// with an optional routine address to invoke on natural completion.
// repeats of 0 or 255 means loop indefinitely. Effects 1 and 2 are the
// built-in beeps and succeed without a resource file.
func (m *Manager) Play(effect uint32, volume uint8, repeats uint32, endRoutine uint32, hasEndRoutine bool) error {
	if effect != EffectHighBeep && effect != EffectLowBeep {
		if m.resources == nil {
			return fmt.Errorf("sound: no resource file loaded, cannot play effect %d", effect)
		}
		if _, ok := m.resources.Sound(effect); !ok {
			return fmt.Errorf("sound: effect %d not found in resource file", effect)
		}
	}

	m.playing = true
	m.effect = effect
	m.volume = normaliseVolume(volume)
	if repeats == 255 {
		repeats = InfiniteRepeats
	}
	m.repeats = repeats
	m.repeatsDone = 0
	m.endRoutine = endRoutine
	m.hasEndRoutine = hasEndRoutine
	return nil
}

// Stop halts playback immediately; any pending end routine is discarded
// per the standard (stopping does not count as natural completion).
func (m *Manager) Stop() {
	m.playing = false
	m.hasEndRoutine = false
}

// Playing reports whether an effect is currently sounding.
func (m *Manager) Playing() bool {
	return m.playing
}

// CompleteCycle records that one repeat of the current effect finished
// playing. It returns the end routine to invoke (and true) if the effect
// has now exhausted its repeat count and a routine was registered; the
// dispatcher calls this between instructions once the host reports audio
// completion.
func (m *Manager) CompleteCycle() (routine uint32, shouldCall bool) {
	if !m.playing {
		return 0, false
	}
	m.repeatsDone++
	if m.repeats != InfiniteRepeats && m.repeatsDone >= m.repeats {
		m.playing = false
		if m.hasEndRoutine {
			m.hasEndRoutine = false
			return m.endRoutine, true
		}
	}
	return 0, false
}

// Current returns the effect number and volume of the in-progress sound,
// for hosts that render a textual "[playing effect N]" indicator.
func (m *Manager) Current() (effect uint32, volume uint8, ok bool) {
	return m.effect, m.volume, m.playing
}
