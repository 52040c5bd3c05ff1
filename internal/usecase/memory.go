package usecase

import (
	"strings"

	"madrasa/internal/domain"
)

const defaultMemoryCapacity = 3

// Memory keeps the last few user/assistant exchanges for prompt
// context. Capacity is fixed: adding beyond it evicts the oldest.
type Memory struct {
	interactions []domain.Interaction
	capacity     int
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &Memory{
		interactions: make([]domain.Interaction, 0, capacity),
		capacity:     capacity,
	}
}

// Add records one exchange, evicting the oldest when full.
func (m *Memory) Add(user, assistant string) {
	if len(m.interactions) == m.capacity {
		copy(m.interactions, m.interactions[1:])
		m.interactions = m.interactions[:m.capacity-1]
	}
	m.interactions = append(m.interactions, domain.Interaction{User: user, Assistant: assistant})
}

// History formats the stored interactions oldest first, one line per
// turn. Empty memory yields the empty string.
func (m *Memory) History() string {
	if len(m.interactions) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, it := range m.interactions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("User: ")
		sb.WriteString(it.User)
		sb.WriteString("\nAssistant: ")
		sb.WriteString(it.Assistant)
	}
	return sb.String()
}

func (m *Memory) Clear() {
	m.interactions = m.interactions[:0]
}

func (m *Memory) Len() int { return len(m.interactions) }

func (m *Memory) Cap() int { return m.capacity }
