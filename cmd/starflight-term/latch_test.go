package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyLatchHoldsUntilExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := newKeyLatch(250 * time.Millisecond)

	assert.False(t, l.Keys(now).Accelerate)

	l.Press(keyAccelerate, now)
	l.Press(keyYawLeft, now.Add(100*time.Millisecond))

	k := l.Keys(now.Add(200 * time.Millisecond))
	assert.True(t, k.Accelerate)
	assert.True(t, k.YawLeft)
	assert.False(t, k.Brake)

	k = l.Keys(now.Add(300 * time.Millisecond))
	assert.False(t, k.Accelerate, "expired")
	assert.True(t, k.YawLeft)

	l.Release()
	assert.False(t, l.Keys(now.Add(300*time.Millisecond)).YawLeft)
}

func TestRuneKeysAreDistinct(t *testing.T) {
	seen := map[flightKey]rune{}
	for r, k := range runeKeys {
		prev, dup := seen[k]
		assert.False(t, dup, "%q and %q share a control", r, prev)
		seen[k] = r
	}
}
