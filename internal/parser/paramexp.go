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

package parser

import (
	"strings"

	"github.com/shellcore/shellcore/internal/diag"
	"github.com/shellcore/shellcore/internal/shopt"
	"github.com/shellcore/shellcore/internal/wordtree"
)

// parseParamExpansionBody parses the text between `${` and `}` into a
// ParamExpansion. pos is the absolute source position of the body,
// used only for diagnostics.
func parseParamExpansionBody(body string, pos int, opts shopt.Options) (*wordtree.ParamExpansion, error) {
	if body == "" {
		return nil, diag.New(diag.Syntax, pos, "bad substitution: ${}")
	}

	pe := &wordtree.ParamExpansion{}
	i := 0

	if body == "#" {
		pe.Op = wordtree.OpNone
		pe.Name = "#"
		return pe, nil
	}

	if body[0] == '#' {
		name, end, ok := scanBracedName(body, 1)
		if ok && end == len(body) {
			pe.Op = wordtree.OpLength
			pe.Name = name
			return pe, nil
		}
		return nil, diag.New(diag.Syntax, pos, "bad length substitution")
	}

	if body[0] == '$' {
		sub := &parser{src: body, opts: opts}
		unit, end, err := sub.scanDollar(0)
		if err != nil {
			return nil, err
		}
		nested := &wordtree.Word{}
		nested.Append(unit)
		pe.Nested = nested
		i = end
	} else {
		name, end, ok := scanBracedName(body, 0)
		if !ok {
			return nil, diag.New(diag.Syntax, pos, "bad substitution")
		}
		pe.Name = name
		i = end
	}

	if i == len(body) {
		pe.Op = wordtree.OpNone
		return pe, nil
	}

	colon := false
	if body[i] == ':' {
		colon = true
		i++
		if i >= len(body) {
			return nil, diag.New(diag.Syntax, pos, "bad substitution after ':'")
		}
	}

	op := body[i]
	switch op {
	case '-':
		pe.Op = wordtree.OpUseDefault
		pe.Colon = colon
		w, err := parseWordAll(body[i+1:], opts)
		if err != nil {
			return nil, err
		}
		pe.Subst = w
		return pe, nil
	case '=':
		pe.Op = wordtree.OpAssignDefault
		pe.Colon = colon
		w, err := parseWordAll(body[i+1:], opts)
		if err != nil {
			return nil, err
		}
		pe.Subst = w
		return pe, nil
	case '?':
		pe.Op = wordtree.OpIndicateError
		pe.Colon = colon
		w, err := parseWordAll(body[i+1:], opts)
		if err != nil {
			return nil, err
		}
		pe.Subst = w
		return pe, nil
	case '+':
		pe.Op = wordtree.OpAlternate
		pe.Colon = colon
		w, err := parseWordAll(body[i+1:], opts)
		if err != nil {
			return nil, err
		}
		pe.Subst = w
		return pe, nil
	}

	if colon {
		return nil, diag.New(diag.Syntax, pos, "bad substitution after ':'")
	}

	switch op {
	case '#':
		long := i+1 < len(body) && body[i+1] == '#'
		operand := i + 1
		if long {
			pe.Op = wordtree.OpMatchPrefixLong
			operand = i + 2
		} else {
			pe.Op = wordtree.OpMatchPrefixShort
		}
		w, err := parseWordAll(body[operand:], opts)
		if err != nil {
			return nil, err
		}
		pe.Match = w
		return pe, nil

	case '%':
		long := i+1 < len(body) && body[i+1] == '%'
		operand := i + 1
		if long {
			pe.Op = wordtree.OpMatchSuffixLong
			operand = i + 2
		} else {
			pe.Op = wordtree.OpMatchSuffixShort
		}
		w, err := parseWordAll(body[operand:], opts)
		if err != nil {
			return nil, err
		}
		pe.Match = w
		return pe, nil

	case '/':
		return parseSubstitution(pe, body[i+1:], pos, opts)

	default:
		return nil, diag.New(diag.Syntax, pos, "unsupported parameter operator %q", string(op))
	}
}

// parseSubstitution handles the four `/`-introduced substitution
// forms: "//old/new" (all), "/#old/new" (prefix-anchored),
// "/%old/new" (suffix-anchored), and "/old/new" (first match).
func parseSubstitution(pe *wordtree.ParamExpansion, rest string, pos int, opts shopt.Options) (*wordtree.ParamExpansion, error) {
	if rest == "" {
		pe.Op = wordtree.OpSubstituteFirst
		empty, _ := parseWordAll("", opts)
		pe.Match = empty
		subst, _ := parseWordAll("", opts)
		pe.Subst = subst
		return pe, nil
	}

	var kind wordtree.ParamOp
	var body string
	switch rest[0] {
	case '/':
		kind = wordtree.OpSubstituteAll
		body = rest[1:]
	case '#':
		kind = wordtree.OpSubstitutePrefix
		body = rest[1:]
	case '%':
		kind = wordtree.OpSubstituteSuffix
		body = rest[1:]
	default:
		kind = wordtree.OpSubstituteFirst
		body = rest
	}

	parts := splitUnescaped(body, '/')
	matchWord, err := parseWordAll(parts[0], opts)
	if err != nil {
		return nil, err
	}
	pe.Op = kind
	pe.Match = matchWord

	rep := ""
	if len(parts) > 1 {
		rep = strings.Join(parts[1:], "/")
	}
	substWord, err := parseWordAll(rep, opts)
	if err != nil {
		return nil, err
	}
	pe.Subst = substWord

	_ = pos
	return pe, nil
}

// splitUnescaped splits s on occurrences of sep not preceded by an
// unescaped backslash, leaving the escape sequences themselves intact
// for the expander to interpret.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			buf.WriteByte(c)
			buf.WriteByte(s[i+1])
			i++
			continue
		}
		if c == sep {
			parts = append(parts, buf.String())
			buf.Reset()
			continue
		}
		buf.WriteByte(c)
	}
	parts = append(parts, buf.String())
	return parts
}

// scanBracedName recognizes a parameter name inside `${...}`: a
// single special character (@*?-$!), a full run of digits (unlike the
// brace-less form, `${10}` names positional parameter ten, not one
// followed by a literal "0"), or a letter/underscore identifier.
func scanBracedName(src string, pos int) (string, int, bool) {
	if pos >= len(src) {
		return "", pos, false
	}
	c := src[pos]
	switch c {
	case '@', '*', '?', '-', '$', '!':
		return string(c), pos + 1, true
	}
	if c >= '0' && c <= '9' {
		end := pos
		for end < len(src) && src[end] >= '0' && src[end] <= '9' {
			end++
		}
		return src[pos:end], end, true
	}
	if !isNameStart(c) {
		return "", pos, false
	}
	end := pos + 1
	for end < len(src) && isNameBody(src[end]) {
		end++
	}
	return src[pos:end], end, true
}
