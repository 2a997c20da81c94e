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
	"unicode"

	"github.com/shellcore/shellcore/internal/collab"
)

const defaultIFS = " \t\n"

// splitField breaks f apart on IFS per §4.6: whitespace-IFS delimiter
// runs are compressed into one boundary, each non-whitespace-IFS
// character forces its own boundary even between two delimiters.
// Only runes where f.Split[i] is true ever act as a delimiter, and a
// `\x` pair (a source escape, or one escapeBraceGlobChars inserted
// into expansion output) is copied through whole and never splits.
// A field with no delimiter at
// all is returned unchanged, as the one-element slice []*Field{f}.
func splitField(f *Field, cb collab.Callbacks) []*Field {
	ifs := lookupIFS(cb)

	var fields []*Field
	cur := newField()
	sawDelimiter := false
	lastWasNonWSDelim := false

	push := func() {
		fields = append(fields, cur)
		cur = newField()
	}

	i := 0
	n := len(f.Runes)
	for i < n {
		r := f.Runes[i]
		if r == '\\' && i+1 < n {
			cur.appendRune(r, f.Split[i])
			cur.appendRune(f.Runes[i+1], f.Split[i+1])
			lastWasNonWSDelim = false
			i += 2
			continue
		}
		if f.Split[i] && isIFSRune(r, ifs) {
			if unicode.IsSpace(r) {
				for i < n && f.Split[i] && isIFSRune(f.Runes[i], ifs) && unicode.IsSpace(f.Runes[i]) {
					i++
				}
				sawDelimiter = true
				// A leading whitespace-IFS run has nothing accumulated
				// in cur yet and no prior field to terminate: it must
				// not produce an empty leading field.
				if len(fields) > 0 || cur.Len() > 0 {
					push()
				}
				lastWasNonWSDelim = false
				continue
			}
			sawDelimiter = true
			push()
			lastWasNonWSDelim = true
			i++
			continue
		}
		cur.appendRune(r, f.Split[i])
		lastWasNonWSDelim = false
		i++
	}

	if !sawDelimiter {
		return []*Field{f}
	}
	if cur.Len() > 0 || lastWasNonWSDelim {
		fields = append(fields, cur)
	}
	return fields
}

func lookupIFS(cb collab.Callbacks) string {
	if cb.LookupVar == nil {
		return defaultIFS
	}
	if v, ok := cb.LookupVar("IFS"); ok && !v.IsArray {
		return v.Scalar
	}
	return defaultIFS
}

func isIFSRune(r rune, ifs string) bool {
	for _, c := range ifs {
		if c == r {
			return true
		}
	}
	return false
}
