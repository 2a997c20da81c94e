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

// Package collab declares the narrow contracts the parser and
// expander consume from the rest of a shell: variable storage,
// command substitution, pathname globbing, and diagnostics.
package collab

import "github.com/shellcore/shellcore/internal/wordtree"

// Value is what a variable lookup returns: either a scalar, or an
// array of strings (IsArray). IsConcat marks an array whose elements
// are joined with the first IFS character when referenced, the way
// `$*` is, instead of staying separate fields the way `"$@"` does.
type Value struct {
	Scalar   string
	Array    []string
	IsArray  bool
	IsConcat bool
}

// Callbacks is the full set of collaborators the expander needs. It's
// a struct of functions (not an interface) so a caller can build one
// out of closures over whatever storage it actually uses, the same
// shape the teacher library uses for its ExpansionCallbacks type.
type Callbacks struct {
	// LookupVar resolves a parameter name to its value. ok is false
	// when the parameter is entirely unset.
	LookupVar func(name string) (Value, bool)

	// SetVar assigns value to name, used by the assign-default ("${v:=x}")
	// parameter operator.
	SetVar func(name, value string) error

	// LookupHomeDir resolves a ~user tilde prefix to that user's home
	// directory.
	LookupHomeDir func(user string) (string, bool)

	// RunCommandSubstitution executes the given command list and
	// returns its standard output as a string with trailing newlines
	// stripped.
	RunCommandSubstitution func(cmds []*wordtree.Command) (string, error)

	// Glob expands a pathname pattern against the filesystem.
	Glob func(pattern string, flags GlobFlags) ([]string, error)

	// Diagnostic writes a message to the shell's standard error,
	// prefixed the way the shell prefixes its own diagnostics.
	Diagnostic func(format string, args ...any)
}

// GlobFlags mirror the subset of shopt.Options that affect pathname
// expansion.
type GlobFlags struct {
	CaseFold     bool
	DotGlob      bool
	MarkDirs     bool
	ExtendedGlob bool
}
