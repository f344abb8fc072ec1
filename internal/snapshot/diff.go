package snapshot

import (
	"bytes"
	"fmt"
	"sort"
)

const diffContext = 3

// #region tree-diff
// diffTrees renders a unified diff covering every file that differs
// between two trees, in path order.
func diffTrees(a, b map[string][]byte) []byte {
	paths := make(map[string]bool, len(a)+len(b))
	for p := range a {
		paths[p] = true
	}
	for p := range b {
		paths[p] = true
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	var buf bytes.Buffer
	for _, p := range sorted {
		ca, inA := a[p]
		cb, inB := b[p]
		switch {
		case inA && !inB:
			la, aEOL := splitLines(ca)
			writeFileDiff(&buf, "a/"+p, "/dev/null", la, aEOL, nil, true)
		case !inA && inB:
			lb, bEOL := splitLines(cb)
			writeFileDiff(&buf, "/dev/null", "b/"+p, nil, true, lb, bEOL)
		case !bytes.Equal(ca, cb):
			la, aEOL := splitLines(ca)
			lb, bEOL := splitLines(cb)
			writeFileDiff(&buf, "a/"+p, "b/"+p, la, aEOL, lb, bEOL)
		}
	}
	return buf.Bytes()
}

// #endregion tree-diff

// #region line-diff

type editOp struct {
	kind byte // ' ', '-', '+'
	text string
}

// diffLines computes a line-level edit script via LCS.
func diffLines(a, b []string) []editOp {
	n, m := len(a), len(b)
	// lcs[i][j] = LCS length of a[i:], b[j:]
	lcs := make([][]int, n+1)
	for i := range lcs {
		lcs[i] = make([]int, m+1)
	}
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var ops []editOp
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			ops = append(ops, editOp{' ', a[i]})
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			ops = append(ops, editOp{'-', a[i]})
			i++
		default:
			ops = append(ops, editOp{'+', b[j]})
			j++
		}
	}
	for ; i < n; i++ {
		ops = append(ops, editOp{'-', a[i]})
	}
	for ; j < m; j++ {
		ops = append(ops, editOp{'+', b[j]})
	}
	return ops
}

const noNewlineMarker = "\\ No newline at end of file\n"

// writeFileDiff renders one file's hunks with diffContext lines of context.
// Files without a trailing newline get the "\ No newline" marker so the
// rendered diff re-applies to the exact bytes.
func writeFileDiff(buf *bytes.Buffer, origName, newName string, a []string, aEOL bool, b []string, bEOL bool) {
	ops := diffLines(a, b)

	// A missing trailing newline cannot ride on a shared context line: the
	// marker would be ambiguous about which side it describes. Rewrite the
	// final context op as a delete/add pair so the marker always follows a
	// '-' or '+' line. This also catches files differing only in the
	// trailing newline, where every line matches.
	if len(ops) > 0 && ops[len(ops)-1].kind == ' ' && (!aEOL || !bEOL) {
		last := ops[len(ops)-1]
		ops = append(ops[:len(ops)-1], editOp{'-', last.text}, editOp{'+', last.text})
	}

	changed := false
	for _, op := range ops {
		if op.kind != ' ' {
			changed = true
			break
		}
	}
	if !changed {
		return
	}

	fmt.Fprintf(buf, "--- %s\n", origName)
	fmt.Fprintf(buf, "+++ %s\n", newName)

	// Group changes into hunks, merging changes separated by at most
	// 2*diffContext unchanged lines.
	type hunk struct{ start, end int } // op index range, inclusive
	var hunks []hunk
	for idx, op := range ops {
		if op.kind == ' ' {
			continue
		}
		if len(hunks) > 0 && idx-hunks[len(hunks)-1].end <= 2*diffContext {
			hunks[len(hunks)-1].end = idx
			continue
		}
		hunks = append(hunks, hunk{start: idx, end: idx})
	}

	// Track orig/new line numbers per op index.
	origLine := make([]int, len(ops)+1) // 1-based line before op idx
	newLine := make([]int, len(ops)+1)
	o, nw := 1, 1
	for idx, op := range ops {
		origLine[idx] = o
		newLine[idx] = nw
		switch op.kind {
		case ' ':
			o++
			nw++
		case '-':
			o++
		case '+':
			nw++
		}
	}
	origLine[len(ops)] = o
	newLine[len(ops)] = nw

	for _, h := range hunks {
		start := h.start - diffContext
		if start < 0 {
			start = 0
		}
		end := h.end + diffContext
		if end > len(ops)-1 {
			end = len(ops) - 1
		}

		var origCount, newCount int
		for idx := start; idx <= end; idx++ {
			switch ops[idx].kind {
			case ' ':
				origCount++
				newCount++
			case '-':
				origCount++
			case '+':
				newCount++
			}
		}

		origStart := origLine[start]
		newStart := newLine[start]
		if origCount == 0 {
			origStart--
		}
		if newCount == 0 {
			newStart--
		}
		fmt.Fprintf(buf, "@@ -%d,%d +%d,%d @@\n", origStart, origCount, newStart, newCount)
		for idx := start; idx <= end; idx++ {
			buf.WriteByte(ops[idx].kind)
			buf.WriteString(ops[idx].text)
			buf.WriteByte('\n')
			switch {
			case ops[idx].kind == '-' && !aEOL && origLine[idx] == len(a):
				buf.WriteString(noNewlineMarker)
			case ops[idx].kind == '+' && !bEOL && newLine[idx] == len(b):
				buf.WriteString(noNewlineMarker)
			}
		}
	}
}

// #endregion line-diff
