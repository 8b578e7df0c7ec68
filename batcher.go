package birch

// SortMode selects how Build orders items before cutting slices.
type SortMode uint8

const (
	SortNone        SortMode = iota // keep submission order
	SortFrontToBack                 // ascending depth (Location z)
	SortBackToFront                 // descending depth (Location z)
)

func (m SortMode) String() string {
	switch m {
	case SortNone:
		return "None"
	case SortFrontToBack:
		return "FrontToBack"
	case SortBackToFront:
		return "BackToFront"
	default:
		return "SortMode(?)"
	}
}

// Batcher accumulates items keyed by texture and partitions them into
// texture-homogeneous slices. Items and keys are kept in two parallel arrays
// so the sort and scan passes touch as little memory as possible.
//
// A Batcher is not safe for concurrent use. Give each submitting goroutine
// its own Batcher.
type Batcher[K comparable] struct {
	store  itemStore[K]
	slices sliceTable

	// order[i] is the submission index of the item now at i. It lets a
	// SortNone build after a depth sort put items back in submission order.
	order  []int
	sorted bool

	// merge sort scratch, kept at the high-water mark
	itemBuf  []Item
	texBuf   []K
	orderBuf []int
}

// NewBatcher creates a Batcher with room for capacity items before the first
// reallocation.
func NewBatcher[K comparable](capacity int) *Batcher[K] {
	b := &Batcher[K]{}
	if capacity > 0 {
		b.store.reserve(capacity)
	}
	return b
}

// Add appends a zeroed item that renders with texture key and returns it for
// in-place filling. The pointer is only valid until the next Add: a resize
// moves the backing array.
func (b *Batcher[K]) Add(key K) *Item {
	i := b.store.len()
	it := b.store.add(key)
	b.order = ensureCapacity(b.order, b.store.cap(), i)
	b.order[i] = i
	return it
}

// Clear drops all items and slices but keeps allocated capacity.
func (b *Batcher[K]) Clear() {
	b.store.clear()
	b.slices.reset()
	b.sorted = false
}

// Len returns the number of items added since the last Clear.
func (b *Batcher[K]) Len() int { return b.store.len() }

// Cap returns the number of items the store holds before it must grow.
func (b *Batcher[K]) Cap() int { return b.store.cap() }

// Items returns the valid item prefix. After Build it is in draw order.
// The returned slice MUST NOT be appended to.
func (b *Batcher[K]) Items() []Item { return b.store.itemsView() }

// Textures returns the texture keys parallel to Items.
func (b *Batcher[K]) Textures() []K { return b.store.texturesView() }

// Slices returns the slice table produced by the last Build.
func (b *Batcher[K]) Slices() []Slice { return b.slices.view() }

// SliceTexture returns the texture bound for s.
func (b *Batcher[K]) SliceTexture(s Slice) K {
	return b.store.textures[s.Start]
}

// Build orders the items according to mode and recomputes the slice table.
// Depth sorts are stable: items at equal depth keep their submission order.
// Build may run again with another mode; every build starts from submission
// order. Build on an empty batcher leaves the slice table empty.
func (b *Batcher[K]) Build(mode SortMode) {
	n := b.store.len()
	if n == 0 {
		b.slices.reset()
		return
	}
	if b.sorted {
		b.restoreOrder()
	}
	switch mode {
	case SortFrontToBack:
		b.mergeSort(frontToBack)
	case SortBackToFront:
		b.mergeSort(backToFront)
	}
	scanSlices(&b.slices, b.store.texturesView())
}

// restoreOrder scatters the items back to their submission positions.
func (b *Batcher[K]) restoreOrder() {
	n := b.store.len()
	b.ensureScratch(n)
	items, texs, order := b.store.items[:n], b.store.textures[:n], b.order[:n]
	for i, dst := range order {
		b.itemBuf[dst] = items[i]
		b.texBuf[dst] = texs[i]
	}
	copy(items, b.itemBuf[:n])
	copy(texs, b.texBuf[:n])
	for i := range order {
		order[i] = i
	}
	b.releaseScratchKeys(n)
	b.sorted = false
}

func (b *Batcher[K]) ensureScratch(n int) {
	b.itemBuf = ensureCapacity(b.itemBuf, n, 0)
	b.texBuf = ensureCapacity(b.texBuf, n, 0)
	b.orderBuf = ensureCapacity(b.orderBuf, n, 0)
}

// releaseScratchKeys zeroes the texture scratch so it does not pin textures
// the store has already let go of.
func (b *Batcher[K]) releaseScratchKeys(n int) {
	var zero K
	for i := range b.texBuf[:n] {
		b.texBuf[i] = zero
	}
}

// depthOrder reports whether an item at depth a may stay before one at
// depth b. Ties must return true to keep the merge stable.
type depthOrder func(a, b float32) bool

func frontToBack(a, b float32) bool { return a <= b }

func backToFront(a, b float32) bool { return a >= b }

// mergeSort sorts items and textures jointly by depth using the scratch
// buffers. Bottom-up merge sort: stable, and zero allocations once the
// scratch buffers reach the high-water mark.
func (b *Batcher[K]) mergeSort(inOrder depthOrder) {
	n := b.store.len()
	if n <= 1 {
		return
	}
	b.ensureScratch(n)
	b.sorted = true

	src := sortArrays[K]{b.store.items[:n], b.store.textures[:n], b.order[:n]}
	dst := sortArrays[K]{b.itemBuf[:n], b.texBuf[:n], b.orderBuf[:n]}
	swapped := false

	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(&src, &dst, lo, mid, hi, inOrder)
		}
		src, dst = dst, src
		swapped = !swapped
	}

	if swapped {
		copy(b.store.items[:n], b.itemBuf[:n])
		copy(b.store.textures[:n], b.texBuf[:n])
		copy(b.order[:n], b.orderBuf[:n])
	}
	b.releaseScratchKeys(n)
}

// sortArrays are the parallel arrays the merge sort moves together.
type sortArrays[K comparable] struct {
	items []Item
	texs  []K
	order []int
}

func (a *sortArrays[K]) move(to *sortArrays[K], dst, src int) {
	to.items[dst] = a.items[src]
	to.texs[dst] = a.texs[src]
	to.order[dst] = a.order[src]
}

// mergeRun merges the sorted runs [lo, mid) and [mid, hi) of src into dst,
// moving each item with its texture and submission index.
func mergeRun[K comparable](src, dst *sortArrays[K], lo, mid, hi int, inOrder depthOrder) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if inOrder(src.items[i].Location[2], src.items[j].Location[2]) {
			src.move(dst, k, i)
			i++
		} else {
			src.move(dst, k, j)
			j++
		}
		k++
	}
	for ; i < mid; i, k = i+1, k+1 {
		src.move(dst, k, i)
	}
	for ; j < hi; j, k = j+1, k+1 {
		src.move(dst, k, j)
	}
}
