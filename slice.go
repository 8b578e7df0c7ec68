package birch

// Slice is a maximal run of consecutive same-texture items in the built item
// array. The render step issues one instanced draw per slice, binding the
// texture returned by Batcher.SliceTexture.
type Slice struct {
	Start  int // index of the first item
	Length int // number of items, always > 0
}

// End returns the index one past the last item.
func (s Slice) End() int { return s.Start + s.Length }

// sliceTable is the ordered output of Build. Slices partition [0, count)
// exactly and are ordered by Start.
type sliceTable struct {
	slices []Slice
	count  int
}

func (t *sliceTable) reset() { t.count = 0 }

func (t *sliceTable) push(s Slice) {
	if t.count == len(t.slices) {
		t.slices = ensureCapacity(t.slices, t.count+1, t.count)
	}
	t.slices[t.count] = s
	t.count++
}

func (t *sliceTable) view() []Slice { return t.slices[:t.count:t.count] }

// scanSlices cuts textures into runs wherever the key changes between neighbours.
// Non-contiguous runs of the same key stay separate slices so draw order is
// exactly submission (or sorted) order.
func scanSlices[K comparable](t *sliceTable, textures []K) {
	t.reset()
	if len(textures) == 0 {
		return
	}
	start := 0
	for i := 1; i < len(textures); i++ {
		if textures[i] != textures[i-1] {
			t.push(Slice{Start: start, Length: i - start})
			start = i
		}
	}
	t.push(Slice{Start: start, Length: len(textures) - start})
}
