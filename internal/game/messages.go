package game

import "strings"

// MsgPriority controls the color of a message in the comms log.
type MsgPriority uint8

const (
	MsgInfo     MsgPriority = iota // cyan
	MsgWarning                     // yellow
	MsgCritical                    // red
	MsgNav                         // green: autonav and docking
)

// commsWidth is the comms panel's line width.
const commsWidth = 55

// Message is a single entry in the comms log.
type Message struct {
	Text     string
	Priority MsgPriority
	Tick     uint64
}

// MessageLog is a bounded FIFO of messages.
type MessageLog struct {
	Messages []Message
	maxSize  int
}

// NewMessageLog creates a log that keeps the most recent maxSize lines.
func NewMessageLog(maxSize int) *MessageLog {
	return &MessageLog{
		Messages: make([]Message, 0, maxSize),
		maxSize:  maxSize,
	}
}

// Add appends a message, wrapped to the comms panel, evicting the oldest
// lines when full.
func (l *MessageLog) Add(text string, priority MsgPriority) {
	l.AddAt(0, text, priority)
}

// AddAt is Add with the tick the message was raised on.
func (l *MessageLog) AddAt(tick uint64, text string, priority MsgPriority) {
	if l.maxSize <= 0 {
		return
	}
	for _, line := range wrapText(text, commsWidth) {
		msg := Message{Text: line, Priority: priority, Tick: tick}
		if len(l.Messages) >= l.maxSize {
			copy(l.Messages, l.Messages[1:])
			l.Messages[len(l.Messages)-1] = msg
		} else {
			l.Messages = append(l.Messages, msg)
		}
	}
}

// wrapText splits text into lines no longer than maxWidth. Words longer than
// a line are left whole.
func wrapText(s string, maxWidth int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var result []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > maxWidth {
			result = append(result, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(result, line)
}

// Recent returns the last n messages (or fewer if the log is shorter).
func (l *MessageLog) Recent(n int) []Message {
	if n > len(l.Messages) {
		n = len(l.Messages)
	}
	return l.Messages[len(l.Messages)-n:]
}
