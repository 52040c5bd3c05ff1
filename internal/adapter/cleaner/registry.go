package cleaner

import (
	"strings"

	"madrasa/internal/port"
)

// Registry maps subject keys to cleaning strategies. Math and physics
// share a strategy, as do chemistry and biology. Unknown subjects fall
// back to the English cleaner.
type Registry struct {
	cleaners map[string]port.Cleaner
	fallback port.Cleaner
}

func NewRegistry() *Registry {
	mathPhysics := NewMathPhysics()
	science := NewScience()
	english := NewEnglish()
	return &Registry{
		cleaners: map[string]port.Cleaner{
			"arabic":    NewArabic(),
			"math":      mathPhysics,
			"physics":   mathPhysics,
			"chemistry": science,
			"biology":   science,
			"english":   english,
		},
		fallback: english,
	}
}

// ForSubject returns the cleaner for a subject key.
func (r *Registry) ForSubject(subject string) port.Cleaner {
	if c, ok := r.cleaners[strings.ToLower(subject)]; ok {
		return c
	}
	return r.fallback
}
