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

// Package expand drives the shell expansion pipeline: tilde, parameter
// and command substitution, brace expansion, IFS field splitting, and
// pathname expansion, over the wordtree the parser produces.
package expand

import "strings"

// Field is one expanded value, paired character-for-character with a
// splittability mask: split[i] is true iff runes[i] came from an
// unquoted context and may still be broken apart by IFS field
// splitting.
type Field struct {
	Runes []rune
	Split []bool
}

func newField() *Field {
	return &Field{}
}

func fieldFromString(s string, splittable bool) *Field {
	f := &Field{}
	f.appendString(s, splittable)
	return f
}

func (f *Field) appendRune(r rune, splittable bool) {
	f.Runes = append(f.Runes, r)
	f.Split = append(f.Split, splittable)
}

func (f *Field) appendString(s string, splittable bool) {
	for _, r := range s {
		f.appendRune(r, splittable)
	}
}

func (f *Field) appendField(other *Field) {
	f.Runes = append(f.Runes, other.Runes...)
	f.Split = append(f.Split, other.Split...)
}

func (f *Field) String() string {
	return string(f.Runes)
}

func (f *Field) Len() int {
	return len(f.Runes)
}

func (f *Field) clone() *Field {
	c := &Field{
		Runes: make([]rune, len(f.Runes)),
		Split: make([]bool, len(f.Split)),
	}
	copy(c.Runes, f.Runes)
	copy(c.Split, f.Split)
	return c
}

// escapeBraceGlobChars backslash-escapes `\ { , } * ? [` throughout
// s, so that later brace/glob passes never re-interpret bytes that
// came from a variable's expanded value. It returns plain text; the
// caller appends it with one splittability flag for every rune, the
// inserted backslashes included. quoteRemove reverses this.
func escapeBraceGlobChars(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '{', ',', '}', '*', '?', '[':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteRemove strips the backslashes introduced by escapeBraceGlobChars
// (or by the original source's own unquoted "\x" escapes), producing
// the final argument text.
func quoteRemove(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			b.WriteRune(runes[i+1])
			i++
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}
