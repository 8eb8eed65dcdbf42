package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// LineOf returns the 1-based line number of the first occurrence of needle
// in content, or 1 when not found.
func LineOf(content, needle string) int {
	if needle == "" {
		return 1
	}
	idx := strings.Index(content, needle)
	if idx < 0 {
		return 1
	}
	return strings.Count(content[:idx], "\n") + 1
}

// LineAt returns the 1-based line number containing byte offset off.
func LineAt(content string, off int) int {
	if off < 0 {
		return 1
	}
	if off > len(content) {
		off = len(content)
	}
	return strings.Count(content[:off], "\n") + 1
}

// ExtractSnippet returns up to maxLines lines centered on line (1-based).
func ExtractSnippet(content string, line, maxLines int) string {
	if maxLines <= 0 {
		maxLines = 4
	}
	lines := strings.Split(content, "\n")
	if line < 1 {
		line = 1
	}
	s := max(0, line-1-maxLines/2)
	e := min(len(lines)-1, line-1+maxLines/2)
	if s > e {
		return ""
	}
	return strings.Join(lines[s:e+1], "\n")
}

// Fingerprint computes a stable hash for a finding key.
func Fingerprint(ruleID, contract string, line int, context string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%s", ruleID, contract, line, context)
	return hex.EncodeToString(h.Sum(nil))
}
