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

package expand

import (
	"fmt"
	"strconv"

	"github.com/shellcore/shellcore/internal/shopt"
)

// expandBraces enumerates `{a,b,c}` alternations and `{N..M}` numeric
// sequences in f, recursing on every generated value so nested braces
// are fully unrolled. It carries f's splittability mask through in
// lock-step: a brace span's own `{`, comma(s), and `}` bytes never
// survive into the output, so only the prefix/element/suffix runes
// contribute splittability bits to each result.
func expandBraces(f *Field, opts shopt.Options) []*Field {
	if !opts.BraceExpand {
		return []*Field{f}
	}
	if out, ok := expandOneBrace(f); ok {
		var all []*Field
		for _, r := range out {
			all = append(all, expandBraces(r, opts)...)
		}
		return all
	}
	return []*Field{f}
}

// expandOneBrace finds the first unescaped `{` in f and tries the
// numeric-sequence then comma-alternation readings. ok is false when
// there is no brace span to expand (no `{` at all, or the first `{`
// doesn't parse as either form, in which case it is left as literal
// text and the caller stops recursing).
func expandOneBrace(f *Field) ([]*Field, bool) {
	open := -1
	for i := 0; i < len(f.Runes); i++ {
		if f.Runes[i] == '\\' {
			i++
			continue
		}
		// A brace that came from a quoted literal is opaque: its
		// splittability bit is false, the same bit that keeps it out
		// of IFS splitting.
		if f.Runes[i] == '{' && f.Split[i] {
			open = i
			break
		}
	}
	if open < 0 {
		return nil, false
	}

	closeIdx, ok := findMatchingBrace(f, open)
	if !ok {
		return nil, false
	}

	prefix := f.slice(0, open)
	suffix := f.slice(closeIdx+1, len(f.Runes))
	inside := f.slice(open+1, closeIdx)

	if lo, hi, okSeq := parseNumericSequence(inside); okSeq {
		return buildSequenceFields(prefix, suffix, lo, hi), true
	}

	elems, okAlt := splitCommaElements(inside)
	if !okAlt || len(elems) < 2 {
		return nil, false
	}

	var out []*Field
	for _, elem := range elems {
		combined := prefix.clone()
		combined.appendField(elem)
		combined.appendField(suffix)
		out = append(out, combined)
	}
	return out, true
}

// findMatchingBrace finds the `}` matching f.Runes[open] == '{',
// honoring nested braces and backslash escapes. Only splittable (i.e.
// unquoted) braces count toward nesting depth, so a quoted `{` or `}`
// inside the span is just opaque literal text.
func findMatchingBrace(f *Field, open int) (int, bool) {
	depth := 0
	for i := open; i < len(f.Runes); i++ {
		if f.Runes[i] == '\\' {
			i++
			continue
		}
		if !f.Split[i] {
			continue
		}
		switch f.Runes[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// splitCommaElements splits inside on unescaped, unquoted commas at
// nest depth zero, returning each element as its own Field (with
// inside's own splittability runs preserved). A quoted comma never
// acts as an alternation separator.
func splitCommaElements(inside *Field) ([]*Field, bool) {
	var elems []*Field
	depth := 0
	start := 0
	for i := 0; i < len(inside.Runes); i++ {
		if inside.Runes[i] == '\\' {
			i++
			continue
		}
		if !inside.Split[i] {
			continue
		}
		switch inside.Runes[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				elems = append(elems, inside.slice(start, i))
				start = i + 1
			}
		}
	}
	elems = append(elems, inside.slice(start, len(inside.Runes)))
	return elems, true
}

// numericEndpoint is one parsed `{N..M}` endpoint, keeping its
// original textual span so sign/zero-padding rules can be derived from
// how it was actually written rather than from the normalized value.
type numericEndpoint struct {
	value    int
	negative bool
	hadSign  bool
	digits   string
}

// parseNumericSequence recognizes `N..M` inside a brace span (no
// unescaped commas, both sides plain integer literals) and returns its
// inclusive bounds.
func parseNumericSequence(inside *Field) (lo, hi numericEndpoint, ok bool) {
	s := string(inside.Runes)
	sep := -1
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '.' && s[i+1] == '.' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return numericEndpoint{}, numericEndpoint{}, false
	}
	left := s[:sep]
	right := s[sep+2:]

	lo, okLo := parseEndpoint(left)
	hi, okHi := parseEndpoint(right)
	if !okLo || !okHi {
		return numericEndpoint{}, numericEndpoint{}, false
	}
	return lo, hi, true
}

func parseEndpoint(s string) (numericEndpoint, bool) {
	if s == "" {
		return numericEndpoint{}, false
	}
	e := numericEndpoint{}
	i := 0
	if s[i] == '+' || s[i] == '-' {
		e.hadSign = s[i] == '+'
		e.negative = s[i] == '-'
		i++
	}
	digits := s[i:]
	if digits == "" {
		return numericEndpoint{}, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return numericEndpoint{}, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return numericEndpoint{}, false
	}
	if e.negative {
		n = -n
	}
	e.value = n
	e.digits = digits
	return e, true
}

// buildSequenceFields produces one Field per integer in the inclusive
// range [lo, hi] (direction inferred from ordering), each formatted
// per the sign/zero-padding rule: the field width is the larger of the
// two endpoints' own digit-string widths when either endpoint was
// written with a leading zero, and a `+` sign is emitted iff either
// endpoint was written with a leading `+`.
func buildSequenceFields(prefix, suffix *Field, lo, hi numericEndpoint) []*Field {
	width := 0
	if hasLeadingZero(lo) || hasLeadingZero(hi) {
		width = maxInt(len(lo.digits), len(hi.digits))
	}
	showSign := lo.hadSign || hi.hadSign

	step := 1
	if lo.value > hi.value {
		step = -1
	}

	var out []*Field
	for n := lo.value; ; n += step {
		out = append(out, buildSequenceField(prefix, suffix, n, width, showSign))
		if n == hi.value {
			break
		}
	}
	return out
}

func hasLeadingZero(e numericEndpoint) bool {
	return len(e.digits) > 1 && e.digits[0] == '0'
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func buildSequenceField(prefix, suffix *Field, n, width int, showSign bool) *Field {
	abs := n
	neg := n < 0
	if neg {
		abs = -abs
	}
	digits := strconv.Itoa(abs)
	for len(digits) < width {
		digits = "0" + digits
	}
	sign := ""
	if neg {
		sign = "-"
	} else if showSign {
		sign = "+"
	}

	f := prefix.clone()
	f.appendString(fmt.Sprintf("%s%s", sign, digits), true)
	f.appendField(suffix)
	return f
}

// slice returns the [lo, hi) sub-range of f as a freestanding Field.
func (f *Field) slice(lo, hi int) *Field {
	return &Field{
		Runes: append([]rune(nil), f.Runes[lo:hi]...),
		Split: append([]bool(nil), f.Split[lo:hi]...),
	}
}
