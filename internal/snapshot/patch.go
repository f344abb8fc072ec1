package snapshot

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// #region apply
// applyPatch applies a unified diff to a tree and returns the new tree.
// The input tree is not mutated. Any hunk that fails exact-context matching,
// or any file target absent from the tree, yields ErrInvalidPatch.
func applyPatch(tree map[string][]byte, patch []byte) (map[string][]byte, error) {
	out := make(map[string][]byte, len(tree))
	for p, c := range tree {
		out[p] = c
	}
	if len(bytes.TrimSpace(patch)) == 0 {
		return out, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrInvalidPatch, err)
	}
	if len(fileDiffs) == 0 {
		return nil, fmt.Errorf("%w: no file diffs", ErrInvalidPatch)
	}

	for _, fd := range fileDiffs {
		origPath := stripDiffPrefix(fd.OrigName)
		newPath := stripDiffPrefix(fd.NewName)

		switch {
		case fd.OrigName == "/dev/null":
			// File creation.
			if _, exists := out[newPath]; exists {
				return nil, fmt.Errorf("%w: %s: created file already exists", ErrInvalidPatch, newPath)
			}
			lines, eol, err := applyHunks(nil, true, fd.Hunks)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPatch, newPath, err)
			}
			out[newPath] = joinLines(lines, eol)

		case fd.NewName == "/dev/null":
			// File deletion; hunks must still match the base content.
			orig, exists := out[origPath]
			if !exists {
				return nil, fmt.Errorf("%w: %s: deleted file not in snapshot", ErrInvalidPatch, origPath)
			}
			origLines, origEOL := splitLines(orig)
			if _, _, err := applyHunks(origLines, origEOL, fd.Hunks); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPatch, origPath, err)
			}
			delete(out, origPath)

		default:
			orig, exists := out[origPath]
			if !exists {
				return nil, fmt.Errorf("%w: %s: file not in snapshot", ErrInvalidPatch, origPath)
			}
			origLines, origEOL := splitLines(orig)
			lines, eol, err := applyHunks(origLines, origEOL, fd.Hunks)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPatch, origPath, err)
			}
			if origPath != newPath {
				delete(out, origPath)
			}
			out[newPath] = joinLines(lines, eol)
		}
	}
	return out, nil
}

// applyHunks replays ordered hunks against orig with exact context matching.
// The returned bool reports whether the patched file ends with a newline.
// The parser encodes a "\ No newline at end of file" marker after an added
// or context line by stripping the newline off the hunk body's last line;
// an orig-side marker after a deletion lands in OrigNoNewlineAt and does
// not affect the output. A tail carried over from orig keeps orig's state.
func applyHunks(orig []string, origEOL bool, hunks []*diff.Hunk) ([]string, bool, error) {
	var result []string
	cursor := 0
	newEOL := true
	var lastOp byte

	for i, h := range hunks {
		start := int(h.OrigStartLine) - 1
		if h.OrigStartLine == 0 {
			// "@@ -0,0" form used for file creation.
			start = 0
		}
		if start < cursor || start > len(orig) {
			return nil, false, fmt.Errorf("hunk %d out of order at line %d", i+1, h.OrigStartLine)
		}
		result = append(result, orig[cursor:start]...)
		cursor = start

		for _, raw := range strings.Split(string(h.Body), "\n") {
			if raw == "" {
				continue
			}
			op, text := raw[0], raw[1:]
			switch op {
			case ' ':
				if cursor >= len(orig) || orig[cursor] != text {
					return nil, false, fmt.Errorf("hunk %d context mismatch at line %d", i+1, cursor+1)
				}
				result = append(result, text)
				cursor++
				lastOp = op
			case '-':
				if cursor >= len(orig) || orig[cursor] != text {
					return nil, false, fmt.Errorf("hunk %d delete mismatch at line %d", i+1, cursor+1)
				}
				cursor++
				lastOp = op
			case '+':
				result = append(result, text)
				lastOp = op
			case '\\':
				// Marker left verbatim in the body; binds to the
				// preceding line. After a deletion it describes only orig.
				if lastOp == '+' || lastOp == ' ' {
					newEOL = false
				}
			default:
				return nil, false, fmt.Errorf("hunk %d has unknown line prefix %q", i+1, string(op))
			}
		}
		// A body without a final newline is the parser's encoding of the
		// marker on a '+' or context line.
		if !bytes.HasSuffix(h.Body, []byte("\n")) && (lastOp == '+' || lastOp == ' ') {
			newEOL = false
		}
	}

	if cursor < len(orig) {
		result = append(result, orig[cursor:]...)
		newEOL = origEOL
	}
	return result, newEOL, nil
}

// #endregion apply

// #region line-helpers

func stripDiffPrefix(name string) string {
	if strings.HasPrefix(name, "a/") || strings.HasPrefix(name, "b/") {
		return name[2:]
	}
	return name
}

// splitLines turns file content into lines without newline terminators and
// reports whether the content ended with a newline. A trailing newline does
// not produce an empty final line.
func splitLines(content []byte) ([]string, bool) {
	if len(content) == 0 {
		return nil, true
	}
	s := string(content)
	eol := strings.HasSuffix(s, "\n")
	if eol {
		s = s[:len(s)-1]
	}
	return strings.Split(s, "\n"), eol
}

// joinLines is the inverse of splitLines.
func joinLines(lines []string, eol bool) []byte {
	if len(lines) == 0 {
		return []byte{}
	}
	joined := strings.Join(lines, "\n")
	if eol {
		joined += "\n"
	}
	return []byte(joined)
}

// #endregion line-helpers
