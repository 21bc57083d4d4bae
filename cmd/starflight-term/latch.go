package main

import (
	"time"

	"github.com/spacehole-rogue/starflight/internal/game"
)

// flightKey is a held flight control.
type flightKey uint8

const (
	keyAccelerate flightKey = iota
	keyBrake
	keyBoost
	keyYawLeft
	keyYawRight
	keyPitchUp
	keyPitchDown
	keyRollLeft
	keyRollRight
	keyFire
	numFlightKeys
)

// keyLatch turns terminal key presses into held keys. Terminals report no
// key release, so a key counts as held until hold has passed since its last
// press or auto-repeat.
type keyLatch struct {
	hold    time.Duration
	pressed [numFlightKeys]time.Time
}

func newKeyLatch(hold time.Duration) *keyLatch {
	return &keyLatch{hold: hold}
}

func (l *keyLatch) Press(k flightKey, now time.Time) {
	if k < numFlightKeys {
		l.pressed[k] = now
	}
}

func (l *keyLatch) Release() {
	l.pressed = [numFlightKeys]time.Time{}
}

func (l *keyLatch) held(k flightKey, now time.Time) bool {
	t := l.pressed[k]
	return !t.IsZero() && now.Sub(t) < l.hold
}

// Keys snapshots the held keys at now.
func (l *keyLatch) Keys(now time.Time) game.Keys {
	return game.Keys{
		Accelerate: l.held(keyAccelerate, now),
		Brake:      l.held(keyBrake, now),
		Boost:      l.held(keyBoost, now),
		YawLeft:    l.held(keyYawLeft, now),
		YawRight:   l.held(keyYawRight, now),
		PitchUp:    l.held(keyPitchUp, now),
		PitchDown:  l.held(keyPitchDown, now),
		RollLeft:   l.held(keyRollLeft, now),
		RollRight:  l.held(keyRollRight, now),
		Fire:       l.held(keyFire, now),
	}
}

// runeKeys maps letter keys to flight controls.
var runeKeys = map[rune]flightKey{
	'w': keyAccelerate,
	's': keyBrake,
	'b': keyBoost,
	'a': keyYawLeft,
	'd': keyYawRight,
	'q': keyRollLeft,
	'e': keyRollRight,
	'f': keyFire,
}
