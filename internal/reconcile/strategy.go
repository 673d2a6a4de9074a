package reconcile

import (
	"fmt"

	"github.com/roach88/evgen/internal/artifact"
)

// Strategy decides what happens to an existing destination.
type Strategy int

const (
	Create Strategy = iota
	ForceCreate
	Update
	ForceUpdate
	UpdateIfNonExistent
)

var strategyNames = [...]string{
	Create:              "create",
	ForceCreate:         "force-create",
	Update:              "update",
	ForceUpdate:         "force-update",
	UpdateIfNonExistent: "update-if-non-existent",
}

func (s Strategy) String() string {
	if s < 0 || int(s) >= len(strategyNames) {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (Strategy, error) {
	for i, n := range strategyNames {
		if n == name {
			return Strategy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown update strategy %q", name)
}

// Item pairs an artifact with the strategy it is evaluated under.
type Item struct {
	Artifact artifact.Artifact
	Strategy Strategy
}

// Assign evaluates every artifact under primary, except that editable
// artifacts are never overwritten by an update: under Update and
// ForceUpdate they get UpdateIfNonExistent.
func Assign(arts []artifact.Artifact, primary Strategy) []Item {
	items := make([]Item, len(arts))
	for i, a := range arts {
		s := primary
		if a.Editable && (primary == Update || primary == ForceUpdate) {
			s = UpdateIfNonExistent
		}
		items[i] = Item{Artifact: a, Strategy: s}
	}
	return items
}
