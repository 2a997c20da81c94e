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
	"github.com/shellcore/shellcore/internal/collab"
	"github.com/shellcore/shellcore/internal/diag"
	"github.com/shellcore/shellcore/internal/shopt"
	"github.com/shellcore/shellcore/internal/wordtree"
)

// ExpandWord runs the full per-word pipeline: expansion, brace
// expansion, field splitting, and pathname expansion, returning the
// final argv fragments contributed by this one source word.
func ExpandWord(word *wordtree.Word, mode TildeMode, cb collab.Callbacks, opts shopt.Options) ([]string, error) {
	fields, err := expandWordFields(word, mode, false, cb, opts)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, f := range fields {
		braced := expandBraces(f, opts)
		for _, bf := range braced {
			for _, split := range splitField(bf, cb) {
				globbed, err := globField(split, cb, opts)
				if err != nil {
					return nil, err
				}
				out = append(out, globbed...)
			}
		}
	}
	return out, nil
}

// expandWordFields performs tilde expansion, parameter expansion, and
// command substitution over word, without brace expansion, field
// splitting, or globbing. inDoubleQuote is true when word itself sits
// inside an enclosing double-quoted context (used when expanding
// parameter-expansion operands).
func expandWordFields(word *wordtree.Word, mode TildeMode, inDoubleQuote bool, cb collab.Callbacks, opts shopt.Options) ([]*Field, error) {
	var fields []*Field
	cur := newField()
	sawQuote := false
	atWordStart := true

	closeField := func() {
		fields = append(fields, cur)
		cur = newField()
	}

	units := word.Units()
	for ui, unit := range units {
		switch unit.Kind {
		case wordtree.Lit:
			isLastUnit := ui == len(units)-1
			if err := expandLiteral(unit.Lit, mode, isLastUnit, &inDoubleQuote, &sawQuote, &atWordStart, cur, cb); err != nil {
				return nil, err
			}

		case wordtree.Param:
			pr, err := expandParam(unit.Param, inDoubleQuote, cb, opts)
			if err != nil {
				return nil, err
			}
			appendElems(&cur, pr.elems, !inDoubleQuote, &fields)
			atWordStart = false

		case wordtree.CmdSub:
			out, err := cb.RunCommandSubstitution(unit.CmdSub)
			if err != nil {
				return nil, diag.New(diag.SubstitutionError, 0, "command substitution failed: %v", err)
			}
			cur.appendString(escapeBraceGlobChars(out), !inDoubleQuote)
			atWordStart = false

		case wordtree.Arith:
			return nil, diag.New(diag.ConversionError, 0, "arithmetic expansion is not supported")
		}
	}

	closeField()

	if len(fields) == 1 && fields[0].Len() == 0 && !inDoubleQuote {
		if sawQuote {
			// an explicit empty quote like "" must still produce a field
			return fields, nil
		}
		if !hadAnyParamOrCmdSub(units) {
			return fields, nil
		}
		// a purely-empty, unquoted expansion produces no word at all
		return nil, nil
	}

	return fields, nil
}

func hadAnyParamOrCmdSub(units []*wordtree.WordUnit) bool {
	for _, u := range units {
		if u.Kind == wordtree.Param || u.Kind == wordtree.CmdSub {
			return true
		}
	}
	return false
}

// appendElems implements the "$@"-shaped multi-field emission: the
// first element joins the buffer in progress, and each subsequent
// element closes the current field and starts a new one, leaving the
// last element's field open for any literal text that follows in the
// same word. cur is a pointer to the caller's in-progress field
// variable so the new field started for each subsequent element
// becomes the one later word units keep appending to.
func appendElems(cur **Field, elems []string, splittable bool, fields *[]*Field) {
	if len(elems) == 0 {
		return
	}
	(*cur).appendString(escapeBraceGlobChars(elems[0]), splittable)
	for _, e := range elems[1:] {
		*fields = append(*fields, *cur)
		*cur = newField()
		(*cur).appendString(escapeBraceGlobChars(e), splittable)
	}
}

// expandLiteral walks one literal source fragment, consuming its
// quote marks and backslash escapes and appending the decoded text to
// cur. mode/atWordStart drive tilde recognition; inDoubleQuote and
// sawQuote are threaded by pointer since a single word can straddle
// several literal fragments around intervening param/cmdsub units.
func expandLiteral(lit string, mode TildeMode, isLastUnit bool, inDoubleQuote, sawQuote, atWordStart *bool, cur *Field, cb collab.Callbacks) error {
	inSingle := false
	i := 0

	tryTilde := func(rest string) bool {
		if !*atWordStart || *inDoubleQuote || inSingle {
			return false
		}
		repl, consumed, ok := resolveTilde(rest, mode, isLastUnit, cb)
		if !ok {
			return false
		}
		cur.appendString(repl, false)
		i += consumed
		return true
	}

	for i < len(lit) {
		c := lit[i]

		if c == '~' {
			if tryTilde(lit[i:]) {
				*atWordStart = false
				continue
			}
		}

		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
				*sawQuote = true
				i++
				continue
			}
			if c == '\\' {
				// escaped so quote removal keeps the literal backslash
				cur.appendRune('\\', false)
			}
			cur.appendRune(rune(c), false)
			i++

		case *inDoubleQuote:
			switch c {
			case '"':
				*inDoubleQuote = false
				*sawQuote = true
				i++
			case '\\':
				if i+1 < len(lit) {
					x := lit[i+1]
					switch x {
					case '$', '`', '"', '\\':
						cur.appendRune('\\', false)
						cur.appendRune(rune(x), false)
					default:
						cur.appendRune('\\', false)
						cur.appendRune('\\', false)
						cur.appendRune(rune(x), false)
					}
					i += 2
				} else {
					cur.appendRune('\\', false)
					i++
				}
			default:
				cur.appendRune(rune(c), false)
				i++
			}

		case c == '\'':
			inSingle = true
			*sawQuote = true
			i++

		case c == '"':
			*inDoubleQuote = true
			*sawQuote = true
			i++

		case c == '\\':
			if i+1 < len(lit) {
				cur.appendRune('\\', false)
				cur.appendRune(rune(lit[i+1]), false)
				i += 2
			} else {
				cur.appendRune('\\', false)
				i++
			}

		case mode == TildeMulti && c == ':':
			cur.appendRune(':', true)
			i++
			*atWordStart = true
			continue

		default:
			cur.appendRune(rune(c), true)
			i++
		}

		*atWordStart = false
	}

	return nil
}
