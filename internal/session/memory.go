package session

import "github.com/ChamsBouzaiene/codequery/internal/answerer"

// Memory is the append-only conversation history for the current session.
// Queries are processed one at a time, so no locking is needed.
type Memory struct {
	turns []answerer.Turn
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Append records a completed turn.
func (m *Memory) Append(question, answer string) {
	m.turns = append(m.turns, answerer.Turn{Question: question, Answer: answer})
}

// Turns returns a copy of the recorded turns in order.
func (m *Memory) Turns() []answerer.Turn {
	out := make([]answerer.Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// Len returns the number of recorded turns.
func (m *Memory) Len() int {
	return len(m.turns)
}

// Clear discards all turns.
func (m *Memory) Clear() {
	m.turns = nil
}
