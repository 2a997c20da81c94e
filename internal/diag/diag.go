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

// Package diag carries the shell's error kinds and its stderr writer.
package diag

import (
	"errors"
	"fmt"
	"io"
)

// Kind classifies a failure the way §7 of the core design groups them.
type Kind int

const (
	Syntax Kind = iota
	UnsetParameter
	BadAssignment
	MatchError
	SubstitutionError
	ConversionError
	NoMatch
	GlobError
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case UnsetParameter:
		return "unset-parameter"
	case BadAssignment:
		return "bad-assignment"
	case MatchError:
		return "match-error"
	case SubstitutionError:
		return "substitution-error"
	case ConversionError:
		return "conversion-error"
	case NoMatch:
		return "no-match"
	case GlobError:
		return "glob-error"
	default:
		return "unknown"
	}
}

// Error is the single error type every parser/expander failure is
// wrapped in, so callers can switch on Kind without type-asserting
// through a dozen concrete error structs.
type Error struct {
	Kind Kind
	Msg  string
	Pos  int
}

func (e *Error) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("%s: %s (at %d)", e.Kind, e.Msg, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func New(kind Kind, pos int, format string, args ...any) error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// *Error, with ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// ExpErrorStatus is the exit status a non-interactive shell uses when
// an expansion fails, distinct from any status a run command returns.
const ExpErrorStatus = 2

// Writer writes diagnostics in the shell's own "progname: message"
// convention, matching original_source's diagnostic prefixing.
type Writer struct {
	Out     io.Writer
	Program string
}

func NewWriter(out io.Writer, program string) *Writer {
	return &Writer{Out: out, Program: program}
}

func (w *Writer) Diagnostic(format string, args ...any) {
	prefix := w.Program
	if prefix == "" {
		prefix = "sh"
	}
	fmt.Fprintf(w.Out, "%s: %s\n", prefix, fmt.Sprintf(format, args...))
}
