package domain

import (
	"fmt"
	"strings"
	"time"
)

// IngestionMethod is a named onset/duration profile.
type IngestionMethod struct {
	Key      string
	Name     string
	Onset    time.Duration
	Duration time.Duration
}

var (
	DryHerb = IngestionMethod{Key: "dry-herb", Name: "Dry Herb", Onset: 15 * time.Minute, Duration: 2 * time.Hour}
	Edible  = IngestionMethod{Key: "edible", Name: "Edible", Onset: 2 * time.Hour, Duration: 6 * time.Hour}
	Test    = IngestionMethod{Key: "test", Name: "Test", Onset: 15 * time.Second, Duration: 15 * time.Second}
)

// BuiltinMethods lists the predefined profiles in display order.
func BuiltinMethods() []IngestionMethod {
	return []IngestionMethod{Edible, DryHerb, Test}
}

func (m IngestionMethod) Validate() error {
	if strings.TrimSpace(m.Key) == "" {
		return fmt.Errorf("method key is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("method %q: name is required", m.Key)
	}
	if m.Onset < 0 {
		return fmt.Errorf("method %q: onset must be non-negative, got %s", m.Key, m.Onset)
	}
	if m.Duration < 0 {
		return fmt.Errorf("method %q: duration must be non-negative, got %s", m.Key, m.Duration)
	}
	return nil
}
