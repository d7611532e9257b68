package cursor

// Affinity picks a side when an offset falls on a boundary shared by two
// leaves, e.g. the end of one paragraph and the start of the next.
type Affinity uint8

const (
	// Upstream resolves to the earliest position reaching the offset.
	Upstream Affinity = iota
	// Downstream resolves to a leaf starting exactly at the offset,
	// choosing among several by Offsets.Ordinal.
	Downstream
)

// String returns the affinity name.
func (a Affinity) String() string {
	if a == Downstream {
		return "downstream"
	}
	return "upstream"
}

// Offsets is a selection expressed as global character offsets.
// 0 <= Start <= End <= total text length of the tree it was taken from.
type Offsets struct {
	Start int
	End   int

	// Backward records that the focus preceded the anchor.
	Backward bool

	// Scroll is the surface scroll offset captured with the selection.
	Scroll    int
	HasScroll bool

	// Affinity and Ordinal disambiguate Start on a boundary. Ordinal
	// counts the leaves (text nodes and line breaks) starting at Start that
	// precede the point.
	Affinity Affinity
	Ordinal  int

	// EndAffinity and EndOrdinal do the same for End of a range.
	EndAffinity Affinity
	EndOrdinal  int
}

// Caret returns collapsed offsets at the given position.
func Caret(offset int) Offsets {
	if offset < 0 {
		offset = 0
	}
	return Offsets{Start: offset, End: offset}
}

// Span returns offsets covering [start, end], normalized.
func Span(start, end int) Offsets {
	if start > end {
		return Offsets{Start: max(end, 0), End: max(start, 0), Backward: true}
	}
	return Offsets{Start: max(start, 0), End: max(end, 0)}
}

// IsCollapsed returns true if the offsets describe a caret.
func (o Offsets) IsCollapsed() bool {
	return o.Start == o.End
}

// Len returns the number of characters covered.
func (o Offsets) Len() int {
	return o.End - o.Start
}

// WithScroll returns a copy with the scroll offset recorded.
func (o Offsets) WithScroll(scroll int) Offsets {
	o.Scroll = scroll
	o.HasScroll = true
	return o
}

// Downstream returns a copy resolving to the given leaf at Start.
func (o Offsets) Downstream(ordinal int) Offsets {
	o.Affinity = Downstream
	o.Ordinal = max(ordinal, 0)
	return o
}

// Clamp limits the offsets to [0, length].
func (o Offsets) Clamp(length int) Offsets {
	o.Start = min(max(o.Start, 0), length)
	o.End = min(max(o.End, 0), length)
	return o
}
