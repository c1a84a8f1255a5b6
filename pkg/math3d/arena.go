package math3d

// arenaBlock is the number of matrices allocated at a time.
const arenaBlock = 64

// Arena hands out scratch matrices that live until the next Reset. Pointers
// returned by Alloc stay valid when the arena grows. An Arena is not safe for
// concurrent use; give each worker its own.
type Arena struct {
	blocks [][]Mat4
	n      int
}

// NewArena returns an arena with room for at least capacity matrices before
// it has to grow.
func NewArena(capacity int) *Arena {
	a := &Arena{}
	for range (capacity + arenaBlock - 1) / arenaBlock {
		a.blocks = append(a.blocks, make([]Mat4, arenaBlock))
	}
	return a
}

// Alloc returns the next scratch matrix, set to identity.
func (a *Arena) Alloc() *Mat4 {
	b, i := a.n/arenaBlock, a.n%arenaBlock
	if b == len(a.blocks) {
		a.blocks = append(a.blocks, make([]Mat4, arenaBlock))
	}
	a.n++
	return a.blocks[b][i].SetIdentity()
}

// Reset makes every matrix available again. Matrices handed out earlier
// must not be used afterwards.
func (a *Arena) Reset() {
	a.n = 0
}

// Len returns the number of matrices handed out since the last Reset.
func (a *Arena) Len() int {
	return a.n
}

// Cap returns the number of matrices the arena can hand out without growing.
func (a *Arena) Cap() int {
	return len(a.blocks) * arenaBlock
}
