package fluid

import (
	"fmt"
	"strings"
)

// Material enumerates the kinds of matter a cell can hold.
type Material uint8

const (
	Empty Material = iota
	Water
	Rock
	materialCount
)

var capacities = [materialCount]float64{
	Empty: 1,
	Water: 1,
	Rock:  0,
}

// Capacity reports how much fluid a cell of this kind can hold.
func (m Material) Capacity() float64 {
	if m >= materialCount {
		return 0
	}
	return capacities[m]
}

// Flows reports whether fluid may enter a cell of this kind.
func (m Material) Flows() bool { return m == Empty || m == Water }

func (m Material) String() string {
	switch m {
	case Empty:
		return "empty"
	case Water:
		return "water"
	case Rock:
		return "rock"
	default:
		return fmt.Sprintf("material(%d)", uint8(m))
	}
}

// ParseMaterial maps a name back to its Material.
func ParseMaterial(s string) (Material, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "empty":
		return Empty, nil
	case "water":
		return Water, nil
	case "rock":
		return Rock, nil
	}
	return Empty, fmt.Errorf("unknown material %q", s)
}
