// shellcore provides a POSIX-style command-line parser and a layered
// word-expansion engine for building UNIX shells.
//
// Copyright 2019-present Shellcore Contributors
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions
// are met:
//
//   * Redistributions of source code must retain the above copyright
//     notice, this list of conditions and the following disclaimer.
//
//   * Redistributions in binary form must reproduce the above copyright
//     notice, this list of conditions and the following disclaimer in
//     the documentation and/or other materials provided with the
//     distribution.
//
//   * Neither the names of the copyright holders nor the names of his
//     contributors may be used to endorse or promote products derived
//     from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
// "AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
// LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS
// FOR A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE
// COPYRIGHT OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT,
// INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING,
// BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES;
// LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
// CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT
// LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN
// ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package wfnmatch implements a wide-character, fnmatch-style glob matcher.
//
// It matches `?`, `*`, `[set]` (including `[!set]`, ranges and POSIX
// character classes) against a rune subject in three modes: the whole
// subject must match, the longest matching prefix, or the shortest
// matching prefix. It backs both pathname expansion and the
// parameter-expansion prefix/suffix/substitution operators.
package wfnmatch

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Flags control how a pattern is interpreted.
type Flags uint8

const (
	// NoEscape disables backslash as an escape character in the pattern.
	NoEscape Flags = 1 << iota
	// Pathname means '/' is not matched by '?', '*', or a bracket expression.
	Pathname
	// Period means a leading '.' (in Pathname mode, after a '/' too) must
	// be matched literally, never by '?', '*', or a bracket expression.
	Period
	// CaseFold folds case before comparing pattern and subject characters.
	CaseFold
)

// Mode selects how much of the subject a match must consume.
type Mode int

const (
	// Whole requires the pattern to consume the entire subject.
	Whole Mode = iota
	// Longest returns the longest prefix of the subject that matches.
	Longest
	// Shortest returns the shortest non-empty prefix that matches, or
	// the empty prefix if the pattern can match zero characters.
	Shortest
)

// Sentinel results returned instead of a rune count.
const (
	// NoMatch means the pattern does not match the subject (in Whole
	// mode), or no match of any length was found (Longest/Shortest).
	NoMatch = -1
	// Error means the pattern is malformed (e.g. an unterminated
	// bracket expression).
	ErrorResult = -2
)

var fold = cases.Fold()

// Match runs pat against subject under the given flags and mode.
//
// On success it returns the number of subject runes consumed (for
// Whole this is always len(subject) in runes). On failure it returns
// NoMatch. On a malformed pattern it returns ErrorResult.
func Match(pat, subject string, flags Flags, mode Mode) int {
	p := []rune(pat)
	s := []rune(subject)

	m := &matcher{flags: flags}
	switch mode {
	case Whole:
		ok, err := m.matchWhole(p, 0, s, 0)
		if err {
			return ErrorResult
		}
		if !ok {
			return NoMatch
		}
		return len(s)
	case Longest:
		n, err := m.matchExtent(p, s, true)
		if err {
			return ErrorResult
		}
		return n
	case Shortest:
		n, err := m.matchExtent(p, s, false)
		if err {
			return ErrorResult
		}
		return n
	default:
		return ErrorResult
	}
}

// ShortestMatchLength returns a quick lower bound on how many subject
// runes any match of pat must consume; it's intended for fast
// rejection before a full Match call.
func ShortestMatchLength(pat string, flags Flags) int {
	p := []rune(pat)
	m := &matcher{flags: flags}
	n := 0
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '\\' && flags&NoEscape == 0:
			i++
			n++
		case c == '*':
			// matches zero or more; contributes nothing to the lower bound
		case c == '[':
			end, ok := m.bracketEnd(p, i)
			if !ok {
				return 0
			}
			i = end
			n++
		default:
			n++
		}
	}
	return n
}

// HasSpecialChar reports whether pat contains an unescaped glob
// metacharacter (`*`, `?`, `[`).
func HasSpecialChar(pat string, pathname bool) bool {
	p := []rune(pat)
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '\\':
			i++
		case '*', '?', '[':
			return true
		}
	}
	_ = pathname
	return false
}

type matcher struct {
	flags Flags
}

func (m *matcher) foldRune(r rune) rune {
	if m.flags&CaseFold == 0 {
		return r
	}
	folded := fold.String(string(r))
	rs := []rune(folded)
	if len(rs) == 0 {
		return r
	}
	return rs[0]
}

func (m *matcher) eq(a, b rune) bool {
	return m.foldRune(a) == m.foldRune(b)
}

// matchWhole reports whether pat[pi:] matches subject[si:] to its end.
// The second return value is true iff the pattern is malformed.
func (m *matcher) matchWhole(pat []rune, pi int, subj []rune, si int) (bool, bool) {
	for pi < len(pat) {
		c := pat[pi]
		switch c {
		case '\\':
			if m.flags&NoEscape != 0 {
				if si >= len(subj) || !m.eq(subj[si], c) {
					return false, false
				}
				pi++
				si++
				continue
			}
			if pi+1 >= len(pat) {
				return false, false
			}
			lit := pat[pi+1]
			if si >= len(subj) || !m.eq(subj[si], lit) {
				return false, false
			}
			pi += 2
			si++
		case '?':
			if si >= len(subj) {
				return false, false
			}
			if m.flags&Pathname != 0 && subj[si] == '/' {
				return false, false
			}
			if m.isLeadingPeriod(subj, si) {
				return false, false
			}
			pi++
			si++
		case '*':
			// collapse consecutive stars
			for pi < len(pat) && pat[pi] == '*' {
				pi++
			}
			// a leading dot may only be matched by consuming zero
			// characters here; k==si (the empty match) is still tried
			leadingPeriod := m.isLeadingPeriod(subj, si)
			if pi == len(pat) {
				// trailing star matches the rest, unless pathname mode
				// forbids crossing a '/', or a leading dot blocks it
				if leadingPeriod && si < len(subj) {
					return false, false
				}
				if m.flags&Pathname != 0 {
					for k := si; k < len(subj); k++ {
						if subj[k] == '/' {
							return false, false
						}
					}
				}
				return true, false
			}
			for k := si; k <= len(subj); k++ {
				if k > si {
					if leadingPeriod {
						break
					}
					if m.flags&Pathname != 0 && subj[k-1] == '/' {
						break
					}
				}
				ok, err := m.matchWhole(pat, pi, subj, k)
				if err {
					return false, true
				}
				if ok {
					return true, false
				}
			}
			return false, false
		case '[':
			if si >= len(subj) {
				return false, false
			}
			if m.flags&Pathname != 0 && subj[si] == '/' {
				return false, false
			}
			if m.isLeadingPeriod(subj, si) {
				return false, false
			}
			end, ok := m.bracketEnd(pat, pi)
			if !ok {
				return false, true
			}
			matched, err := m.bracketMatch(pat[pi:end+1], subj[si])
			if err {
				return false, true
			}
			if !matched {
				return false, false
			}
			pi = end + 1
			si++
		default:
			if si >= len(subj) || !m.eq(subj[si], c) {
				return false, false
			}
			pi++
			si++
		}
	}
	return si == len(subj), false
}

// isLeadingPeriod reports whether subj[si] is a '.' that, under the
// Period flag, must be matched literally rather than by a wildcard.
func (m *matcher) isLeadingPeriod(subj []rune, si int) bool {
	if m.flags&Period == 0 {
		return false
	}
	if si >= len(subj) || subj[si] != '.' {
		return false
	}
	if si == 0 {
		return true
	}
	return m.flags&Pathname != 0 && subj[si-1] == '/'
}

// matchExtent finds a matching prefix length of subj, longest or
// shortest depending on preferLongest.
func (m *matcher) matchExtent(pat []rune, subj []rune, preferLongest bool) (int, bool) {
	best := NoMatch
	if preferLongest {
		for n := len(subj); n >= 0; n-- {
			ok, err := m.matchWhole(pat, 0, subj[:n], 0)
			if err {
				return 0, true
			}
			if ok {
				best = n
				break
			}
		}
	} else {
		for n := 0; n <= len(subj); n++ {
			ok, err := m.matchWhole(pat, 0, subj[:n], 0)
			if err {
				return 0, true
			}
			if ok {
				best = n
				break
			}
		}
	}
	return best, false
}

// bracketEnd returns the index of the closing ']' for a bracket
// expression starting at pat[start] == '['.
func (m *matcher) bracketEnd(pat []rune, start int) (int, bool) {
	i := start + 1
	if i < len(pat) && (pat[i] == '!' || pat[i] == '^') {
		i++
	}
	// a ']' immediately here is a literal member, not the closer
	if i < len(pat) && pat[i] == ']' {
		i++
	}
	for i < len(pat) {
		if pat[i] == '[' && i+1 < len(pat) && pat[i+1] == ':' {
			end := strings.Index(string(pat[i+2:]), ":]")
			if end < 0 {
				return 0, false
			}
			i += 2 + end + 2
			continue
		}
		if pat[i] == ']' {
			return i, true
		}
		i++
	}
	return 0, false
}

// bracketMatch evaluates a full bracket expression `[...]` (inclusive
// of the brackets) against a single subject rune.
func (m *matcher) bracketMatch(expr []rune, c rune) (bool, bool) {
	i := 1
	negate := false
	if i < len(expr) && (expr[i] == '!' || expr[i] == '^') {
		negate = true
		i++
	}
	matched := false
	for i < len(expr)-1 {
		if expr[i] == '[' && i+1 < len(expr)-1 && expr[i+1] == ':' {
			end := strings.Index(string(expr[i+2:]), ":]")
			if end < 0 {
				return false, true
			}
			class := string(expr[i+2 : i+2+end])
			if matchClass(class, c) {
				matched = true
			}
			i += 2 + end + 2
			continue
		}
		lit := expr[i]
		if lit == '\\' && m.flags&NoEscape == 0 && i+1 < len(expr)-1 {
			i++
			lit = expr[i]
		}
		if i+2 < len(expr)-1 && expr[i+1] == '-' && expr[i+2] != ']' {
			lo, hi := lit, expr[i+2]
			if hi == '\\' && m.flags&NoEscape == 0 && i+3 < len(expr)-1 {
				hi = expr[i+3]
				i++
			}
			if m.inRange(lo, hi, c) {
				matched = true
			}
			i += 3
			continue
		}
		if m.eq(lit, c) {
			matched = true
		}
		i++
	}
	if negate {
		return !matched, false
	}
	return matched, false
}

func (m *matcher) inRange(lo, hi, c rune) bool {
	if m.flags&CaseFold == 0 {
		return lo <= c && c <= hi
	}
	fc := m.foldRune(c)
	return (m.foldRune(lo) <= fc && fc <= m.foldRune(hi)) || (lo <= c && c <= hi)
}

func matchClass(class string, c rune) bool {
	switch class {
	case "alpha":
		return isUnicodeAlpha(c)
	case "digit":
		return c >= '0' && c <= '9'
	case "alnum":
		return isUnicodeAlpha(c) || (c >= '0' && c <= '9')
	case "space":
		return c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r'
	case "blank":
		return c == ' ' || c == '\t'
	case "upper":
		return c >= 'A' && c <= 'Z'
	case "lower":
		return c >= 'a' && c <= 'z'
	case "punct":
		return strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", c)
	case "cntrl":
		return c < 0x20 || c == 0x7f
	case "graph":
		return c > 0x20 && c != 0x7f
	case "print":
		return c >= 0x20 && c != 0x7f
	case "xdigit":
		return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
	default:
		return false
	}
}

func isUnicodeAlpha(c rune) bool {
	return unicode.IsLetter(c)
}
