package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageLogWrapsLongLines(t *testing.T) {
	l := NewMessageLog(10)
	l.AddAt(7, strings.Repeat("docking clamp ", 8), MsgNav)

	assert.Greater(t, len(l.Messages), 1)
	for _, m := range l.Messages {
		assert.LessOrEqual(t, len(m.Text), commsWidth)
		assert.Equal(t, MsgNav, m.Priority)
		assert.Equal(t, uint64(7), m.Tick)
	}
}

func TestMessageLogEvictsOldest(t *testing.T) {
	l := NewMessageLog(3)
	for _, s := range []string{"one", "two", "three", "four"} {
		l.Add(s, MsgInfo)
	}
	assert.Len(t, l.Messages, 3)
	assert.Equal(t, "two", l.Messages[0].Text)

	recent := l.Recent(2)
	assert.Equal(t, "three", recent[0].Text)
	assert.Equal(t, "four", recent[1].Text)
	assert.Len(t, l.Recent(10), 3)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{""}, wrapText("   ", 10))
	assert.Equal(t, []string{"autonav", "engaged"}, wrapText("autonav engaged", 10))
	assert.Equal(t, []string{"hyperspacelane", "ok"}, wrapText("hyperspacelane ok", 5))
}
