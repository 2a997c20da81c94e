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
	"strconv"
	"strings"

	"github.com/shellcore/shellcore/internal/collab"
	"github.com/shellcore/shellcore/internal/diag"
	"github.com/shellcore/shellcore/internal/shopt"
	"github.com/shellcore/shellcore/internal/wfnmatch"
	"github.com/shellcore/shellcore/internal/wordtree"
)

// paramResult is what expanding one ParamExpansion node produces: the
// element strings (more than one only for an array/"$@" reference),
// whether the parameter was unset, and whether the elements should be
// joined into a single concatenated string (the "$*" / concat-flag
// form) rather than kept as separate fields.
type paramResult struct {
	elems  []string
	unset  bool
	concat bool
}

// expandParam implements the parameter-expansion operator matrix.
func expandParam(pe *wordtree.ParamExpansion, inDoubleQuote bool, cb collab.Callbacks, opts shopt.Options) (paramResult, error) {
	name := pe.Name
	if pe.Nested != nil {
		nested, err := expandWordFields(pe.Nested, TildeSingle, false, cb, opts)
		if err != nil {
			return paramResult{}, err
		}
		name = joinFieldsPlain(nested)
	}

	elems, concat, found := lookupElems(name, cb)
	unset := !found
	if pe.Colon && !unset && isEmptyElems(elems) {
		unset = true
	}

	// §4.4 step 1: referencing an unset parameter with nounset on is a
	// hard failure, unless an operator (use-default, assign-default,
	// indicate-error, alternate) is about to handle the unset case
	// itself.
	if unset && opts.NoUnset && !handlesUnset(pe.Op) {
		return paramResult{}, diag.New(diag.UnsetParameter, 0, "%s: parameter not set", name)
	}

	switch pe.Op {
	case wordtree.OpNone:
		// nothing further to do

	case wordtree.OpUseDefault:
		if unset {
			elems, concat, err := substOperand(pe.Subst, inDoubleQuote, cb, opts)
			if err != nil {
				return paramResult{}, err
			}
			return paramResult{elems: elems, concat: concat}, nil
		}

	case wordtree.OpAlternate:
		if !unset {
			elems, concat, err := substOperand(pe.Subst, inDoubleQuote, cb, opts)
			if err != nil {
				return paramResult{}, err
			}
			return paramResult{elems: elems, concat: concat}, nil
		}
		elems = nil

	case wordtree.OpAssignDefault:
		if unset {
			if pe.Nested != nil {
				return paramResult{}, diag.New(diag.BadAssignment, 0, "cannot assign to a nested expansion")
			}
			if !validIdentifier(name) {
				return paramResult{}, diag.New(diag.BadAssignment, 0, "%q is not a valid identifier", name)
			}
			val, err := substScalar(pe.Subst, cb, opts)
			if err != nil {
				return paramResult{}, err
			}
			if err := cb.SetVar(name, val); err != nil {
				return paramResult{}, diag.New(diag.BadAssignment, 0, "assigning %s: %v", name, err)
			}
			elems = []string{val}
		}

	case wordtree.OpIndicateError:
		if unset {
			msg, err := substScalar(pe.Subst, cb, opts)
			if err != nil {
				return paramResult{}, err
			}
			if msg == "" {
				msg = "parameter not set"
			}
			cb.Diagnostic("%s: %s", name, msg)
			return paramResult{}, diag.New(diag.UnsetParameter, 0, "%s: %s", name, msg)
		}

	case wordtree.OpMatchPrefixShort, wordtree.OpMatchPrefixLong,
		wordtree.OpMatchSuffixShort, wordtree.OpMatchSuffixLong:
		pattern, err := patternOperand(pe.Match, cb, opts)
		if err != nil {
			return paramResult{}, err
		}
		for i, e := range elems {
			elems[i] = stripMatch(e, pattern, pe.Op)
		}

	case wordtree.OpSubstituteFirst, wordtree.OpSubstituteAll,
		wordtree.OpSubstitutePrefix, wordtree.OpSubstituteSuffix, wordtree.OpSubstituteWhole:
		pattern, err := patternOperand(pe.Match, cb, opts)
		if err != nil {
			return paramResult{}, err
		}
		replacement, err := substScalar(pe.Subst, cb, opts)
		if err != nil {
			return paramResult{}, err
		}
		for i, e := range elems {
			elems[i] = substituteMatch(e, pattern, replacement, pe.Op)
		}

	case wordtree.OpLength:
		for i, e := range elems {
			elems[i] = strconv.Itoa(len([]rune(e)))
		}
	}

	return paramResult{elems: elems, unset: unset, concat: concat}, nil
}

func isEmptyElems(elems []string) bool {
	return len(elems) == 0 || (len(elems) == 1 && elems[0] == "")
}

// handlesUnset reports whether op already has its own defined behavior
// for an unset parameter, so nounset must not preempt it.
func handlesUnset(op wordtree.ParamOp) bool {
	switch op {
	case wordtree.OpUseDefault, wordtree.OpAlternate, wordtree.OpAssignDefault, wordtree.OpIndicateError:
		return true
	}
	return false
}

// lookupElems resolves a parameter name to its element strings, plus
// whether it should be joined ("$*"-style) rather than kept separate
// ("$@"-style), plus whether it was found at all. An absent parameter
// still yields a single empty-string element (per §4.4 step 1, "yield
// [\"\"] and mark unset") so operators that map over elems — notably
// OpLength, where ${#x} for an unset x must report length 0 rather
// than vanish — have an element to operate on.
func lookupElems(name string, cb collab.Callbacks) ([]string, bool, bool) {
	val, ok := cb.LookupVar(name)
	if !ok {
		return []string{""}, false, false
	}
	if val.IsArray {
		if val.IsConcat || name == "*" {
			return []string{strings.Join(val.Array, ifsFirstChar(cb))}, true, true
		}
		return append([]string(nil), val.Array...), false, true
	}
	return []string{val.Scalar}, false, true
}

func ifsFirstChar(cb collab.Callbacks) string {
	if val, ok := cb.LookupVar("IFS"); ok && !val.IsArray && len(val.Scalar) > 0 {
		return val.Scalar[:1]
	}
	return " "
}

// substOperand expands a use-default/alternate operand word with
// tilde-single semantics, returning its elements.
func substOperand(w *wordtree.Word, inDoubleQuote bool, cb collab.Callbacks, opts shopt.Options) ([]string, bool, error) {
	fields, err := expandWordFields(w, TildeSingle, inDoubleQuote, cb, opts)
	if err != nil {
		return nil, false, err
	}
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.String()
	}
	return out, false, nil
}

// substScalar expands an operand word to a single plain string
// (assign-default value, indicate-error message, substitution
// replacement text).
func substScalar(w *wordtree.Word, cb collab.Callbacks, opts shopt.Options) (string, error) {
	fields, err := expandWordFields(w, TildeNone, false, cb, opts)
	if err != nil {
		return "", err
	}
	return joinFieldsPlain(fields), nil
}

// patternOperand expands a match operand to a plain (quote-removed,
// un-escaped) pattern string, since glob metacharacters in a pattern
// operand must stay live rather than being preemptively backslashed.
func patternOperand(w *wordtree.Word, cb collab.Callbacks, opts shopt.Options) (string, error) {
	fields, err := expandWordFields(w, TildeNone, false, cb, opts)
	if err != nil {
		return "", err
	}
	return quoteRemove(joinFieldsPlain(fields)), nil
}

func joinFieldsPlain(fields []*Field) string {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(quoteRemove(f.String()))
	}
	return b.String()
}

func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// stripMatch implements the four prefix/suffix removal operators.
func stripMatch(subject, pattern string, op wordtree.ParamOp) string {
	switch op {
	case wordtree.OpMatchPrefixShort:
		k := wfnmatch.Match(pattern, subject, 0, wfnmatch.Shortest)
		if k < 0 {
			return subject
		}
		return subject[byteOffset(subject, k):]
	case wordtree.OpMatchPrefixLong:
		k := wfnmatch.Match(pattern, subject, 0, wfnmatch.Longest)
		if k < 0 {
			return subject
		}
		return subject[byteOffset(subject, k):]
	case wordtree.OpMatchSuffixShort:
		j, ok := longestSuffixMatch(subject, pattern, false)
		if !ok {
			return subject
		}
		return subject[:j]
	case wordtree.OpMatchSuffixLong:
		j, ok := longestSuffixMatch(subject, pattern, true)
		if !ok {
			return subject
		}
		return subject[:j]
	}
	return subject
}

// longestSuffixMatch scans candidate suffix byte-offsets j (subject[j:])
// for one where pattern whole-matches. When long is true the search
// starts from j=0 (the longest possible suffix) and returns the first
// hit; when false it starts from the end (the shortest suffix).
func longestSuffixMatch(subject, pattern string, long bool) (int, bool) {
	runes := []rune(subject)
	offsets := make([]int, len(runes)+1)
	b := 0
	for i, r := range runes {
		offsets[i] = b
		b += len(string(r))
	}
	offsets[len(runes)] = len(subject)

	if long {
		for i := 0; i <= len(runes); i++ {
			if wfnmatch.Match(pattern, string(runes[i:]), 0, wfnmatch.Whole) >= 0 {
				return offsets[i], true
			}
		}
		return 0, false
	}
	for i := len(runes); i >= 0; i-- {
		if wfnmatch.Match(pattern, string(runes[i:]), 0, wfnmatch.Whole) >= 0 {
			return offsets[i], true
		}
	}
	return 0, false
}

// byteOffset converts a rune count returned by the matcher into a byte
// offset into s.
func byteOffset(s string, runeCount int) int {
	n := 0
	for i := range s {
		if n == runeCount {
			return i
		}
		n++
	}
	return len(s)
}

// substituteMatch implements the pattern-substitution operators.
func substituteMatch(subject, pattern, replacement string, op wordtree.ParamOp) string {
	switch op {
	case wordtree.OpSubstituteWhole:
		if wfnmatch.Match(pattern, subject, 0, wfnmatch.Whole) >= 0 {
			return replacement
		}
		return subject

	case wordtree.OpSubstitutePrefix:
		k := wfnmatch.Match(pattern, subject, 0, wfnmatch.Longest)
		if k < 0 {
			return subject
		}
		off := byteOffset(subject, k)
		return replacement + subject[off:]

	case wordtree.OpSubstituteSuffix:
		j, ok := longestSuffixMatch(subject, pattern, true)
		if !ok {
			return subject
		}
		return subject[:j] + replacement

	case wordtree.OpSubstituteFirst:
		start, end, ok := firstMatch(subject, pattern, 0)
		if !ok {
			return subject
		}
		return subject[:start] + replacement + subject[end:]

	case wordtree.OpSubstituteAll:
		var b strings.Builder
		pos := 0
		for pos <= len(subject) {
			start, end, ok := firstMatch(subject, pattern, pos)
			if !ok {
				b.WriteString(subject[pos:])
				break
			}
			b.WriteString(subject[pos:start])
			b.WriteString(replacement)
			if end == start {
				// zero-length match: copy one rune forward to make
				// progress, never loop forever on an empty match.
				if end < len(subject) {
					_, sz := decodeRuneAt(subject, end)
					b.WriteString(subject[end : end+sz])
					pos = end + sz
				} else {
					pos = end + 1
				}
				continue
			}
			pos = end
		}
		return b.String()
	}
	return subject
}

// firstMatch finds the leftmost, longest pattern match in subject at
// or after byte offset from.
func firstMatch(subject, pattern string, from int) (start, end int, ok bool) {
	runes := []rune(subject[from:])
	offsets := make([]int, len(runes)+1)
	b := from
	for i, r := range runes {
		offsets[i] = b
		b += len(string(r))
	}
	offsets[len(runes)] = len(subject)

	for i := 0; i <= len(runes); i++ {
		k := wfnmatch.Match(pattern, string(runes[i:]), 0, wfnmatch.Longest)
		if k >= 0 {
			startOff := offsets[i]
			endOff := byteOffset(subject[startOff:], k) + startOff
			return startOff, endOff, true
		}
	}
	return 0, 0, false
}

func decodeRuneAt(s string, byteOff int) (rune, int) {
	for i, r := range s[byteOff:] {
		if i == 0 {
			return r, len(string(r))
		}
	}
	return 0, 1
}
