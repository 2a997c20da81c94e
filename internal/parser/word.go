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

// scanWord scans one word starting at pos, stopping at the first
// unquoted metacharacter (whitespace, `;&|()<>`, or newline). Quote
// marks and backslash escapes are kept verbatim in the literal units
// they surround; the expand package interprets them. It returns the
// parsed word and the position just past it.
func (p *parser) scanWord(pos int) (*wordtree.Word, int, error) {
	if pos < len(p.src) && isWordMeta(p.src[pos]) {
		return nil, 0, diag.New(diag.Syntax, pos, "unexpected token %q", string(p.src[pos]))
	}

	word := &wordtree.Word{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			word.Append(&wordtree.WordUnit{Kind: wordtree.Lit, Lit: lit.String()})
			lit.Reset()
		}
	}

	inSingle, inDouble := false, false
	i := pos

	for i < len(p.src) {
		c := p.src[i]

		switch {
		case inSingle:
			lit.WriteByte(c)
			i++
			if c == '\'' {
				inSingle = false
			}
			continue

		case c == '\\' && !inSingle:
			if i+1 < len(p.src) && p.src[i+1] == '\n' {
				// backslash-newline is a line continuation: it
				// vanishes from the word entirely.
				i += 2
				continue
			}
			if i+1 >= len(p.src) {
				return nil, 0, diag.New(diag.Syntax, i, "stray backslash at end of input")
			}
			lit.WriteByte(c)
			lit.WriteByte(p.src[i+1])
			i += 2
			continue

		case inDouble:
			switch c {
			case '"':
				lit.WriteByte(c)
				i++
				inDouble = false
			case '$':
				flush()
				unit, newPos, err := p.scanDollar(i)
				if err != nil {
					return nil, 0, err
				}
				word.Append(unit)
				i = newPos
			case '`':
				flush()
				unit, newPos, err := p.scanBacktick(i)
				if err != nil {
					return nil, 0, err
				}
				word.Append(unit)
				i = newPos
			default:
				lit.WriteByte(c)
				i++
			}
			continue

		default: // unquoted
			if isWordMeta(c) {
				goto done
			}
			switch c {
			case '\'':
				inSingle = true
				lit.WriteByte(c)
				i++
			case '"':
				inDouble = true
				lit.WriteByte(c)
				i++
			case '$':
				flush()
				unit, newPos, err := p.scanDollar(i)
				if err != nil {
					return nil, 0, err
				}
				word.Append(unit)
				i = newPos
			case '`':
				flush()
				unit, newPos, err := p.scanBacktick(i)
				if err != nil {
					return nil, 0, err
				}
				word.Append(unit)
				i = newPos
			default:
				lit.WriteByte(c)
				i++
			}
		}
	}

done:
	flush()
	if inSingle {
		return nil, 0, diag.New(diag.Syntax, pos, "unterminated '")
	}
	if inDouble {
		return nil, 0, diag.New(diag.Syntax, pos, "unterminated \"")
	}
	if word.Head == nil {
		word.Append(&wordtree.WordUnit{Kind: wordtree.Lit, Lit: ""})
	}
	return word, i, nil
}

func isWordMeta(c byte) bool {
	switch c {
	case ' ', '\t', '\n', ';', '&', '|', '(', ')', '<', '>':
		return true
	default:
		return false
	}
}

// scanDollar parses one `$`-introduced unit at p.src[pos] == '$':
// `$(...)` command substitution, `${...}` parameter expansion, or a
// bare `$name`/`$1`/`$@` form. An unrecognized `$` (nothing valid
// follows) degrades to a literal "$".
func (p *parser) scanDollar(pos int) (*wordtree.WordUnit, int, error) {
	i := pos + 1
	if i >= len(p.src) {
		return &wordtree.WordUnit{Kind: wordtree.Lit, Lit: "$"}, i, nil
	}

	switch p.src[i] {
	case '(':
		inner, err := p.scanBalanced(i, '(', ')')
		if err != nil {
			return nil, 0, err
		}
		cmds, err := parseListString(inner.body, p.opts)
		if err != nil {
			return nil, 0, err
		}
		return &wordtree.WordUnit{Kind: wordtree.CmdSub, CmdSub: cmds}, inner.end, nil

	case '{':
		inner, err := p.scanBalanced(i, '{', '}')
		if err != nil {
			return nil, 0, err
		}
		pe, err := parseParamExpansionBody(inner.body, i, p.opts)
		if err != nil {
			return nil, 0, err
		}
		return &wordtree.WordUnit{Kind: wordtree.Param, Param: pe}, inner.end, nil

	default:
		name, end, ok := scanBareParamName(p.src, i)
		if !ok {
			return &wordtree.WordUnit{Kind: wordtree.Lit, Lit: "$"}, i, nil
		}
		return &wordtree.WordUnit{Kind: wordtree.Param, Param: &wordtree.ParamExpansion{Name: name}}, end, nil
	}
}

// scanBacktick parses a `...` command substitution starting at
// p.src[pos] == '`'. Inside the backquotes, `\` escapes only the
// characters `` ` ``, `\`, and `$`; anything else is copied verbatim
// before the inner text is reparsed as a command list.
func (p *parser) scanBacktick(pos int) (*wordtree.WordUnit, int, error) {
	i := pos + 1
	var body strings.Builder
	for i < len(p.src) {
		c := p.src[i]
		if c == '\\' && i+1 < len(p.src) {
			next := p.src[i+1]
			if next == '`' || next == '\\' || next == '$' {
				body.WriteByte(next)
				i += 2
				continue
			}
			body.WriteByte(c)
			i++
			continue
		}
		if c == '`' {
			i++
			cmds, err := parseListString(body.String(), p.opts)
			if err != nil {
				return nil, 0, err
			}
			return &wordtree.WordUnit{Kind: wordtree.CmdSub, CmdSub: cmds, Backtick: true}, i, nil
		}
		body.WriteByte(c)
		i++
	}
	return nil, 0, diag.New(diag.Syntax, pos, "unterminated `")
}

// scanBareParamName recognizes the name in a brace-less `$name` form:
// a single special character (@*#?-$!0), a single digit (positional
// parameters beyond one digit require `${10}`), or a
// letter/underscore followed by letters, digits, and underscores.
func scanBareParamName(src string, pos int) (string, int, bool) {
	if pos >= len(src) {
		return "", pos, false
	}
	c := src[pos]
	switch c {
	case '@', '*', '#', '?', '-', '$', '!':
		return string(c), pos + 1, true
	}
	if c >= '0' && c <= '9' {
		return string(c), pos + 1, true
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

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isNameBody(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9')
}

// parseWordAll parses s entirely as a single word, ignoring shell
// metacharacters (used for parameter-expansion operands, which are
// already delimited by the enclosing `${...}` braces).
func parseWordAll(s string, opts shopt.Options) (*wordtree.Word, error) {
	sub := &parser{src: s, opts: opts}
	word := &wordtree.Word{}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			word.Append(&wordtree.WordUnit{Kind: wordtree.Lit, Lit: lit.String()})
			lit.Reset()
		}
	}

	inSingle, inDouble := false, false
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case inSingle:
			lit.WriteByte(c)
			i++
			if c == '\'' {
				inSingle = false
			}
		case c == '\\' && !inSingle:
			if i+1 >= len(s) {
				lit.WriteByte(c)
				i++
				continue
			}
			lit.WriteByte(c)
			lit.WriteByte(s[i+1])
			i += 2
		case inDouble:
			switch c {
			case '"':
				lit.WriteByte(c)
				i++
				inDouble = false
			case '$':
				flush()
				unit, newPos, err := sub.scanDollar(i)
				if err != nil {
					return nil, err
				}
				word.Append(unit)
				i = newPos
			case '`':
				flush()
				unit, newPos, err := sub.scanBacktick(i)
				if err != nil {
					return nil, err
				}
				word.Append(unit)
				i = newPos
			default:
				lit.WriteByte(c)
				i++
			}
		case c == '\'':
			inSingle = true
			lit.WriteByte(c)
			i++
		case c == '"':
			inDouble = true
			lit.WriteByte(c)
			i++
		case c == '$':
			flush()
			unit, newPos, err := sub.scanDollar(i)
			if err != nil {
				return nil, err
			}
			word.Append(unit)
			i = newPos
		case c == '`':
			flush()
			unit, newPos, err := sub.scanBacktick(i)
			if err != nil {
				return nil, err
			}
			word.Append(unit)
			i = newPos
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	if word.Head == nil {
		word.Append(&wordtree.WordUnit{Kind: wordtree.Lit, Lit: ""})
	}
	return word, nil
}
