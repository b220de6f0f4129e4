package diff

import "strings"

// OpKind identifies an edit operation
type OpKind int

const (
	// Equal means the line is present in both texts
	Equal OpKind = iota
	// Delete means the line is present only in the old text
	Delete
	// Insert means the line is present only in the new text
	Insert
)

func (k OpKind) String() string {
	switch k {
	case Equal:
		return "equal"
	case Delete:
		return "delete"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// Op is one step of an edit script. OldIndex and NewIndex are the 0-based
// cursor positions in each text when the op applies: for an Insert, OldIndex
// is the insertion point in the old text; for a Delete, NewIndex is the
// matching position in the new text.
type Op struct {
	Kind     OpKind
	OldIndex int
	NewIndex int
	Text     string
}

// DefaultThreshold is the largest m*n cell count solved with a full table
const DefaultThreshold = 1_000_000

// SplitLines splits text on '\n'. A trailing newline yields a final empty
// line, so joining the result with '\n' restores the input exactly.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// JoinLines is the inverse of SplitLines
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// Lines diffs two texts line by line
func Lines(oldText, newText string, threshold int) []Op {
	return Compute(SplitLines(oldText), SplitLines(newText), threshold)
}

// Compute returns the edit script turning a into b. threshold selects the
// table strategy for the differing middle section; a non-positive value
// means DefaultThreshold.
func Compute(a, b []string, threshold int) []Op {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	prefix := commonPrefix(a, b)
	suffix := commonSuffix(a[prefix:], b[prefix:])
	midA := a[prefix : len(a)-suffix]
	midB := b[prefix : len(b)-suffix]

	ops := make([]Op, 0, len(a)+len(b)-prefix-suffix)
	for i := 0; i < prefix; i++ {
		ops = append(ops, Op{Kind: Equal, OldIndex: i, NewIndex: i, Text: a[i]})
	}

	var middle []Op
	if int64(len(midA))*int64(len(midB)) <= int64(threshold) {
		middle = computeFull(midA, midB)
	} else {
		middle = computeRolling(midA, midB)
	}
	for _, op := range middle {
		op.OldIndex += prefix
		op.NewIndex += prefix
		ops = append(ops, op)
	}

	oldBase := len(a) - suffix
	newBase := len(b) - suffix
	for k := 0; k < suffix; k++ {
		ops = append(ops, Op{Kind: Equal, OldIndex: oldBase + k, NewIndex: newBase + k, Text: a[oldBase+k]})
	}
	return ops
}

// HasChanges reports whether an edit script contains any non-equal op
func HasChanges(ops []Op) bool {
	for _, op := range ops {
		if op.Kind != Equal {
			return true
		}
	}
	return false
}

func commonPrefix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}
