package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/kestrelmoor/dungeon-guardian/internal/models"
)

// MemoryRecord is one failure the guardian remembers: the action that
// failed, the world as it stood, and the synthesized reason.
type MemoryRecord struct {
	ID     uuid.UUID
	Seq    int
	Action ActionType
	State  models.WorldState
	Reason string
	At     time.Time
}

// Memory is the append-only failure log for one run. It is owned by a single
// Agent and never mutated, only appended and scanned; it does not survive
// the process.
type Memory struct {
	records []MemoryRecord
}

// How far back FailureCount scans, and how much each remembered failure
// adds to an action's planning cost. The surcharge biases the planner away
// from recently burned actions without ever forbidding them.
const (
	memoryWindow     = 8
	failureSurcharge = 3.0
)

// NewMemory returns an empty failure log.
func NewMemory() *Memory {
	return &Memory{}
}

// Record appends a failure and returns the stored record.
func (m *Memory) Record(action ActionType, state models.WorldState, reason string) MemoryRecord {
	rec := MemoryRecord{
		ID:     uuid.New(),
		Seq:    len(m.records) + 1,
		Action: action,
		State:  state,
		Reason: reason,
		At:     time.Now(),
	}
	m.records = append(m.records, rec)
	return rec
}

// FailureCount reports how many of the most recent failures hit the given
// action under conditions similar to state.
func (m *Memory) FailureCount(action ActionType, state models.WorldState) int {
	start := len(m.records) - memoryWindow
	if start < 0 {
		start = 0
	}
	count := 0
	for _, rec := range m.records[start:] {
		if rec.Action == action && similar(rec.State, state) {
			count++
		}
	}
	return count
}

// Surcharge is the planning-cost penalty derived from FailureCount.
func (m *Memory) Surcharge(action ActionType, state models.WorldState) float64 {
	return float64(m.FailureCount(action, state)) * failureSurcharge
}

// LastFailure returns the most recent record, or false when the log is empty.
func (m *Memory) LastFailure() (MemoryRecord, bool) {
	if len(m.records) == 0 {
		return MemoryRecord{}, false
	}
	return m.records[len(m.records)-1], true
}

// Len returns the number of recorded failures.
func (m *Memory) Len() int {
	return len(m.records)
}

// Records returns a copy of the log, oldest first.
func (m *Memory) Records() []MemoryRecord {
	out := make([]MemoryRecord, len(m.records))
	copy(out, m.records)
	return out
}

// similar buckets two states together when the conditions that drive action
// outcomes match: enemy presence, cover, and whether health is critical.
func similar(a, b models.WorldState) bool {
	return a.EnemyNearby == b.EnemyNearby &&
		a.InSafeZone == b.InSafeZone &&
		(a.Health <= CriticalHealth) == (b.Health <= CriticalHealth)
}
