package bpool

import "fmt"

// Parameters holds the capacity bounds of a pool.
type Parameters struct {
	MinCapacity int `yaml:"min_capacity" toml:"min_capacity"`
	MaxCapacity int `yaml:"max_capacity" toml:"max_capacity"`
}

// NewParameters is a shortcut to build Parameters.
func NewParameters(minCapacity, maxCapacity int) Parameters {
	return Parameters{
		MinCapacity: minCapacity,
		MaxCapacity: maxCapacity,
	}
}

// IsValid reports if 0 <= MinCapacity <= MaxCapacity.
func (p Parameters) IsValid() bool {
	return p.MinCapacity >= 0 && p.MinCapacity <= p.MaxCapacity
}

func (p Parameters) String() string {
	return fmt.Sprintf("Minimum: %d - Maximum: %d", p.MinCapacity, p.MaxCapacity)
}

// baseline is the number of objects created on construction and on Clear.
// A minimum raised above the maximum after construction is capped here.
func (p Parameters) baseline() int {
	return max(0, min(p.MinCapacity, p.MaxCapacity))
}
