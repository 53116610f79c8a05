// Package diff reconciles a slice of a container's children against a target
// node sequence in place, preserving node identity.
package diff

import "github.com/vango-dev/livetree/pkg/dom"

// Op is a structural operation applied to the container.
type Op uint8

const (
	OpInsert Op = iota + 1 // node was not among the current nodes
	OpMove                 // node was current but out of order
	OpRemove               // node is absent from the target
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Hook observes each operation before it is applied. For inserts and moves
// it may return a replacement node to place instead; nil keeps the node.
// The return value is ignored for removals.
type Hook func(n dom.Node, op Op) dom.Node

// Stats counts the operations Apply performed.
type Stats struct {
	Inserts int
	Moves   int
	Removes int
}

// Total returns the number of operations.
func (s Stats) Total() int {
	return s.Inserts + s.Moves + s.Removes
}

// Apply mutates container so that the nodes in current are replaced by
// target, in order, at the same place. current must be a contiguous run of
// container's children; when it is empty the target is appended. Nodes present in both sequences are never recreated:
// the longest run of them already in target order stays put and only the
// others are moved. An unchanged sequence costs no operations.
//
// Duplicate nodes in target keep their first position.
func Apply(container dom.Container, current, target []dom.Node, hook Hook) (Stats, error) {
	var stats Stats

	target = dedupe(target)
	inTarget := make(map[dom.Node]int, len(target))
	for i, n := range target {
		inTarget[n] = i
	}

	// Everything after the region stays after it.
	var anchor dom.Node
	if len(current) > 0 {
		anchor = current[len(current)-1].NextSibling()
		for anchor != nil {
			if _, ok := inTarget[anchor]; !ok {
				break
			}
			anchor = anchor.NextSibling()
		}
	}

	// Remove what the target dropped; remember survivors in current order.
	isCurrent := make(map[dom.Node]bool, len(current))
	survivors := make([]int, 0, len(current))
	for _, n := range current {
		isCurrent[n] = true
		idx, keep := inTarget[n]
		if keep {
			if n.ParentNode() == container {
				survivors = append(survivors, idx)
			}
			continue
		}
		if hook != nil {
			hook(n, OpRemove)
		}
		if n.ParentNode() != container {
			continue
		}
		if err := container.RemoveChild(n); err != nil {
			return stats, err
		}
		stats.Removes++
	}

	stable := make(map[int]bool, len(survivors))
	for _, i := range longestIncreasing(survivors) {
		stable[survivors[i]] = true
	}

	// Walk right to left, placing each node before the one after it.
	for i := len(target) - 1; i >= 0; i-- {
		n := target[i]
		if stable[i] {
			anchor = n
			continue
		}
		op := OpInsert
		if isCurrent[n] && n.ParentNode() == container {
			op = OpMove
		}
		if hook != nil {
			if r := hook(n, op); r != nil {
				n = r
			}
		}
		if err := container.InsertBefore(n, anchor); err != nil {
			return stats, err
		}
		if op == OpMove {
			stats.Moves++
		} else {
			stats.Inserts++
		}
		anchor = n
	}

	return stats, nil
}

func dedupe(nodes []dom.Node) []dom.Node {
	seen := make(map[dom.Node]bool, len(nodes))
	out := nodes[:0:0]
	for _, n := range nodes {
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// longestIncreasing returns the indices into seq of one longest strictly
// increasing subsequence.
func longestIncreasing(seq []int) []int {
	if len(seq) == 0 {
		return nil
	}
	// tails[k] is the index in seq of the smallest tail of an increasing
	// run of length k+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	out := make([]int, len(tails))
	for i, k := len(tails)-1, tails[len(tails)-1]; i >= 0; i-- {
		out[i] = k
		k = prev[k]
	}
	return out
}
