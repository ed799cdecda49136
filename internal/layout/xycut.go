package layout

import (
	"errors"
	"sort"

	"github.com/yomitoru/yomitoru/internal/detector"
)

// ErrLayoutTooComplex is returned when the XY-cut partition exceeds the
// depth ceiling. The page geometry is finite, so a well-formed layout
// terminates long before this; the ceiling guards against pathological
// inputs.
var ErrLayoutTooComplex = errors.New("layout too complex: partition depth limit exceeded")

// maxPartitionDepth bounds the explicit traversal stack. Partition depth
// grows with the number of split points, so the ceiling sits well above any
// dense but well-formed page.
const maxPartitionDepth = 4096

type axis int

const (
	axisY axis = iota // horizontal split line, partitions top/bottom
	axisX             // vertical split line, partitions left/right
)

type region struct {
	indices []int
	depth   int
}

// orderBoxes linearizes boxes into reading order via recursive XY-cut,
// expressed as an explicit stack with a bounded depth. Splits happen at the
// largest whitespace gap; equal gaps prefer the horizontal split (native
// scan order). Deterministic for identical input.
func orderBoxes(boxes []detector.Box) ([]int, error) {
	if len(boxes) == 0 {
		return nil, nil
	}

	all := make([]int, len(boxes))
	for i := range boxes {
		all[i] = i
	}

	order := make([]int, 0, len(boxes))
	stack := []region{{indices: all, depth: 0}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if r.depth > maxPartitionDepth {
			return nil, ErrLayoutTooComplex
		}
		if len(r.indices) == 1 {
			order = append(order, r.indices[0])
			continue
		}

		first, second, ok := splitRegion(boxes, r.indices)
		if !ok {
			// No whitespace gap on either axis: emit in native scan order
			// (reversed columns for vertical-dominant text).
			order = append(order, sortNative(boxes, r.indices)...)
			continue
		}
		// LIFO stack: push the later group first so the earlier pops first.
		stack = append(stack, region{indices: second, depth: r.depth + 1})
		stack = append(stack, region{indices: first, depth: r.depth + 1})
	}
	return order, nil
}

// splitRegion finds the largest whitespace gap across both axes and
// partitions the region there. The returned groups are ordered for reading:
// top before bottom for horizontal splits; for vertical splits, right before
// left when the region is vertical-dominant, left before right otherwise.
func splitRegion(boxes []detector.Box, indices []int) (first, second []int, ok bool) {
	gapY, posY, okY := largestGap(boxes, indices, axisY)
	gapX, posX, okX := largestGap(boxes, indices, axisX)

	// Prefer the larger gap; ties go to the horizontal split, which comes
	// first in native scan order.
	useY := okY && (!okX || gapY >= gapX)
	switch {
	case useY:
		before, after := partition(boxes, indices, axisY, posY)
		return before, after, true
	case okX:
		before, after := partition(boxes, indices, axisX, posX)
		if verticalDominant(boxes, indices) {
			return after, before, true
		}
		return before, after, true
	default:
		return nil, nil, false
	}
}

// largestGap projects the region's boxes onto the axis, merges overlapping
// intervals, and returns the widest whitespace gap between them. When gaps
// are equal the earliest (native scan order) is kept.
func largestGap(boxes []detector.Box, indices []int, a axis) (gap, splitAt float64, ok bool) {
	type interval struct{ lo, hi float64 }
	ivs := make([]interval, 0, len(indices))
	for _, idx := range indices {
		b := boxes[idx]
		if a == axisY {
			ivs = append(ivs, interval{b.YMin, b.YMax})
		} else {
			ivs = append(ivs, interval{b.XMin, b.XMax})
		}
	}
	sort.Slice(ivs, func(i, j int) bool {
		if ivs[i].lo != ivs[j].lo {
			return ivs[i].lo < ivs[j].lo
		}
		return ivs[i].hi < ivs[j].hi
	})

	// Merge and record gaps between merged intervals.
	curHi := ivs[0].hi
	for _, iv := range ivs[1:] {
		if iv.lo > curHi {
			if g := iv.lo - curHi; g > gap {
				gap = g
				splitAt = (curHi + iv.lo) / 2
				ok = true
			}
		}
		if iv.hi > curHi {
			curHi = iv.hi
		}
	}
	return gap, splitAt, ok
}

// partition splits indices into boxes lying before and after the split
// coordinate on the given axis.
func partition(boxes []detector.Box, indices []int, a axis, at float64) (before, after []int) {
	for _, idx := range indices {
		b := boxes[idx]
		center := (b.YMin + b.YMax) / 2
		if a == axisX {
			center = (b.XMin + b.XMax) / 2
		}
		if center < at {
			before = append(before, idx)
		} else {
			after = append(after, idx)
		}
	}
	return before, after
}

// verticalDominant reports whether more of the region's boxes are taller
// than wide.
func verticalDominant(boxes []detector.Box, indices []int) bool {
	vertical := 0
	for _, idx := range indices {
		if boxes[idx].Height() > boxes[idx].Width() {
			vertical++
		}
	}
	return vertical*2 > len(indices)
}

// sortNative orders unsplittable boxes top-to-bottom then left-to-right.
// Vertical-dominant groups read column-wise right-to-left instead.
func sortNative(boxes []detector.Box, indices []int) []int {
	out := make([]int, len(indices))
	copy(out, indices)
	if verticalDominant(boxes, indices) {
		sort.SliceStable(out, func(i, j int) bool {
			bi, bj := boxes[out[i]], boxes[out[j]]
			if bi.XMax != bj.XMax {
				return bi.XMax > bj.XMax
			}
			return bi.YMin < bj.YMin
		})
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := boxes[out[i]], boxes[out[j]]
		if bi.YMin != bj.YMin {
			return bi.YMin < bj.YMin
		}
		return bi.XMin < bj.XMin
	})
	return out
}
