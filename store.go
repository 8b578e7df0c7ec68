package birch

// capacityAlign is the alignment every store capacity is rounded to.
// Must be a power of two.
const capacityAlign = 64

// growCapacity returns the next capacity for a buffer currently holding old
// slots: 1.5x plus one alignment step, rounded down to capacityAlign. The
// result is always greater than old, so n appends reallocate O(log n) times.
func growCapacity(old int) int {
	return (old + old/2 + capacityAlign) &^ (capacityAlign - 1)
}

// GrowCapacity returns the capacity a buffer of size current grows to when it
// must hold need elements. Backends sizing GPU instance buffers use it so
// their reallocations follow the item store.
func GrowCapacity(current, need int) int {
	n := growCapacity(current)
	for n < need {
		n = growCapacity(n)
	}
	return n
}

// ensureCapacity returns buf with at least need slots, preserving the first
// keep elements. The slice length always equals its capacity.
func ensureCapacity[E any](buf []E, need, keep int) []E {
	if need <= len(buf) {
		return buf
	}
	grown := make([]E, GrowCapacity(len(buf), need))
	copy(grown, buf[:keep])
	return grown
}

// itemStore is an append-only array of Items with a parallel array of texture
// keys: items[i] renders with textures[i]. Both arrays share one count and
// one capacity. Clear keeps the backing arrays, so a warmed-up store never
// allocates.
type itemStore[K comparable] struct {
	items    []Item
	textures []K
	count    int
}

// add appends a zeroed slot for key and returns it for in-place filling. The
// pointer is only valid until the next add.
func (s *itemStore[K]) add(key K) *Item {
	if s.count == len(s.items) {
		s.reserve(s.count + 1)
	}
	i := s.count
	s.count++
	s.items[i] = Item{}
	s.textures[i] = key
	return &s.items[i]
}

// reserve grows both arrays to hold at least n slots.
func (s *itemStore[K]) reserve(n int) {
	s.items = ensureCapacity(s.items, n, s.count)
	s.textures = ensureCapacity(s.textures, len(s.items), s.count)
}

// clear resets the count. Texture keys are zeroed so the store does not pin
// resources from the previous frame.
func (s *itemStore[K]) clear() {
	var zero K
	for i := range s.textures[:s.count] {
		s.textures[i] = zero
	}
	s.count = 0
}

func (s *itemStore[K]) len() int { return s.count }

func (s *itemStore[K]) cap() int { return len(s.items) }

func (s *itemStore[K]) itemsView() []Item { return s.items[:s.count:s.count] }

func (s *itemStore[K]) texturesView() []K { return s.textures[:s.count:s.count] }
