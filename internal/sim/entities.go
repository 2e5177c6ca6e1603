package sim

// Bomb is placed by a bomber and explodes when its fuse runs out.
// It holds the blasts drawn on explosion until it is released.
type Bomb struct {
	ID         int
	Owner      int
	Active     bool
	ExplodesAt int

	blasts []*Blast
}

// Blasts returns the blasts held by the bomb.
func (b *Bomb) Blasts() []*Blast {
	return b.blasts
}

// Blast is one cell of an explosion.
type Blast struct {
	ID     int
	Active bool
}

// Upgrade kinds.
const (
	KindRange    = "range"
	KindCapacity = "capacity"
)

// Upgrade is a power-up dropped by explosions.
type Upgrade struct {
	ID        int
	Kind      string
	Active    bool
	ExpiresAt int
}
