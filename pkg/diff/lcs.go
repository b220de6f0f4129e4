package diff

// Back-pointer values, one byte per cell
const (
	ptrEqual byte = iota + 1
	ptrDelete
	ptrInsert
)

// computeFull solves the suffix LCS table L[i][j] = LCS(a[i:], b[j:]) in a
// flat (m+1)*(n+1) slice and walks it forward from (0, 0).
func computeFull(a, b []string) []Op {
	m, n := len(a), len(b)
	width := n + 1
	table := make([]int, (m+1)*width)

	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				table[i*width+j] = table[(i+1)*width+j+1] + 1
			case table[(i+1)*width+j] >= table[i*width+j+1]:
				table[i*width+j] = table[(i+1)*width+j]
			default:
				table[i*width+j] = table[i*width+j+1]
			}
		}
	}

	return walk(a, b, func(i, j int) byte {
		switch {
		case a[i] == b[j]:
			return ptrEqual
		case table[(i+1)*width+j] >= table[i*width+j+1]:
			return ptrDelete
		default:
			return ptrInsert
		}
	})
}

// computeRolling keeps only two score vectors along the shorter input and
// records each cell's decision in a byte table for the forward walk.
func computeRolling(a, b []string) []Op {
	m, n := len(a), len(b)
	ptr := make([]byte, m*n)

	if n <= m {
		// Rows over b: next holds L[i+1][*], cur holds L[i][*]
		next := make([]int, n+1)
		cur := make([]int, n+1)
		for i := m - 1; i >= 0; i-- {
			cur[n] = 0
			for j := n - 1; j >= 0; j-- {
				switch {
				case a[i] == b[j]:
					cur[j] = next[j+1] + 1
					ptr[i*n+j] = ptrEqual
				case next[j] >= cur[j+1]:
					cur[j] = next[j]
					ptr[i*n+j] = ptrDelete
				default:
					cur[j] = cur[j+1]
					ptr[i*n+j] = ptrInsert
				}
			}
			next, cur = cur, next
		}
	} else {
		// Columns over a: next holds L[*][j+1], cur holds L[*][j]
		next := make([]int, m+1)
		cur := make([]int, m+1)
		for j := n - 1; j >= 0; j-- {
			cur[m] = 0
			for i := m - 1; i >= 0; i-- {
				switch {
				case a[i] == b[j]:
					cur[i] = next[i+1] + 1
					ptr[i*n+j] = ptrEqual
				case cur[i+1] >= next[i]:
					cur[i] = cur[i+1]
					ptr[i*n+j] = ptrDelete
				default:
					cur[i] = next[i]
					ptr[i*n+j] = ptrInsert
				}
			}
			next, cur = cur, next
		}
	}

	return walk(a, b, func(i, j int) byte { return ptr[i*n+j] })
}

// walk turns per-cell decisions into an edit script
func walk(a, b []string, decide func(i, j int) byte) []Op {
	m, n := len(a), len(b)
	ops := make([]Op, 0, m+n)
	i, j := 0, 0

	for i < m && j < n {
		switch decide(i, j) {
		case ptrEqual:
			ops = append(ops, Op{Kind: Equal, OldIndex: i, NewIndex: j, Text: a[i]})
			i++
			j++
		case ptrDelete:
			ops = append(ops, Op{Kind: Delete, OldIndex: i, NewIndex: j, Text: a[i]})
			i++
		default:
			ops = append(ops, Op{Kind: Insert, OldIndex: i, NewIndex: j, Text: b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		ops = append(ops, Op{Kind: Delete, OldIndex: i, NewIndex: j, Text: a[i]})
	}
	for ; j < n; j++ {
		ops = append(ops, Op{Kind: Insert, OldIndex: i, NewIndex: j, Text: b[j]})
	}
	return ops
}
