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
	"strings"

	"github.com/shellcore/shellcore/internal/collab"
)

// TildeMode controls where unquoted `~` is recognized as the start of
// a tilde expansion.
type TildeMode int

const (
	// TildeNone never expands `~`.
	TildeNone TildeMode = iota
	// TildeSingle expands only a leading `~` at the very start of the word.
	TildeSingle
	// TildeMulti additionally expands `~` immediately after an
	// unquoted `:`, for variable-assignment right-hand sides like
	// `PATH=~:~other`.
	TildeMulti
)

// resolveTilde looks at rest (the unquoted text starting at the `~`
// itself) and, if a tilde-prefix expansion applies, returns the
// replacement text and how many bytes of rest it consumed. isFinal
// indicates rest is the last literal chunk in the word (no further
// word units follow), in which case running off the end of rest
// without finding a terminator still counts as a valid, unterminated
// name.
func resolveTilde(rest string, mode TildeMode, isFinal bool, cb collab.Callbacks) (replacement string, consumed int, ok bool) {
	if mode == TildeNone || len(rest) == 0 || rest[0] != '~' {
		return "", 0, false
	}

	end := 1
	for end < len(rest) {
		c := rest[end]
		if c == '/' {
			break
		}
		if mode == TildeMulti && c == ':' {
			break
		}
		if c == '\'' || c == '"' || c == '\\' {
			return "", 0, false
		}
		end++
	}

	if end == len(rest) && !isFinal {
		// the name runs off the end of this literal chunk with more
		// word units still to come (e.g. `~$USER/x`): don't guess.
		return "", 0, false
	}

	name := rest[1:end]
	home, found := lookupHome(name, cb)
	if !found {
		return "", 0, false
	}
	return home, end, true
}

func lookupHome(name string, cb collab.Callbacks) (string, bool) {
	switch name {
	case "":
		if v, ok := cb.LookupVar("HOME"); ok && !v.IsArray {
			return v.Scalar, true
		}
		return "", false
	case "+":
		if v, ok := cb.LookupVar("PWD"); ok && !v.IsArray {
			return v.Scalar, true
		}
		return "", false
	case "-":
		if v, ok := cb.LookupVar("OLDPWD"); ok && !v.IsArray {
			return v.Scalar, true
		}
		return "", false
	default:
		if strings.ContainsAny(name, "'\"\\") {
			return "", false
		}
		return cb.LookupHomeDir(name)
	}
}
