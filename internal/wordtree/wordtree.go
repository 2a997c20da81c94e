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

// Package wordtree holds the parsed, unexpanded representation of a
// shell command line: words made of word units, and commands linked
// by connectors. The parser builds these trees; the expand package
// consumes them. Neither package owns the other.
package wordtree

// UnitKind tags the variant a WordUnit holds.
type UnitKind int

const (
	// Lit is a raw source fragment, still carrying its quote marks
	// ('"\) for the expander to interpret.
	Lit UnitKind = iota
	// Param is a parameter expansion subtree.
	Param
	// CmdSub is a $(...) or `...` command substitution.
	CmdSub
	// Arith is an arithmetic expression; reserved, never evaluated.
	Arith
)

// WordUnit is one element of a Word's linked sequence: a literal
// fragment, a parameter expansion, a command substitution, or an
// arithmetic expression.
type WordUnit struct {
	Kind UnitKind

	// Lit holds the raw text when Kind == Lit or Kind == Arith.
	Lit string

	// Param holds the parsed parameter-expansion node when Kind == Param.
	Param *ParamExpansion

	// CmdSub holds the nested command list when Kind == CmdSub.
	CmdSub []*Command

	// Backtick records whether a CmdSub was written as `...` rather
	// than $(...); it never changes expansion semantics, and neither
	// the parser nor the expander reads it.
	Backtick bool

	Next *WordUnit
}

// Word is a non-empty linked sequence of WordUnits: one future
// command argument before expansion.
type Word struct {
	Head *WordUnit
}

// Units returns the word's units as a slice, for callers that find a
// slice more convenient than walking Next by hand.
func (w *Word) Units() []*WordUnit {
	var units []*WordUnit
	for u := w.Head; u != nil; u = u.Next {
		units = append(units, u)
	}
	return units
}

// Append adds unit to the end of the word, initializing Head if the
// word was empty.
func (w *Word) Append(unit *WordUnit) {
	if w.Head == nil {
		w.Head = unit
		return
	}
	last := w.Head
	for last.Next != nil {
		last = last.Next
	}
	last.Next = unit
}

// ParamOp enumerates the parameter-expansion operators.
type ParamOp int

const (
	OpNone ParamOp = iota
	OpUseDefault
	OpAssignDefault
	OpIndicateError
	OpAlternate
	OpMatchPrefixShort
	OpMatchPrefixLong
	OpMatchSuffixShort
	OpMatchSuffixLong
	OpSubstituteFirst
	OpSubstituteAll
	OpSubstitutePrefix
	OpSubstituteSuffix
	OpSubstituteWhole
	OpLength
)

// ParamExpansion is the parsed form of a `$name`/`${...}` expansion.
type ParamExpansion struct {
	// Name is the parameter name, empty when Nested is set.
	Name string

	// Nested holds a `${...${...}...}` inner word, for indirect
	// expansion forms; mutually exclusive with Name being meaningful.
	Nested *Word

	Op ParamOp

	// Colon records whether the ':' variant of Op was used, meaning an
	// empty value is treated the same as unset.
	Colon bool

	// Match is the pattern operand (prefix/suffix/substitution forms).
	Match *Word

	// Subst is the replacement/default-value operand.
	Subst *Word
}

// Connector is how a Command is joined to the command that follows it.
type Connector int

const (
	End Connector = iota
	Background
	Pipe
	And
	Or
)

// RedirFlag describes a redirection operator.
type RedirFlag int

const (
	RedirNone RedirFlag = iota
	RedirIn             // <
	RedirOut            // >
	RedirAppend         // >>
	RedirInOut          // <>
	RedirClobber        // >|
	RedirDupIn          // <&
	RedirDupOut         // >&
)

// Redirect is one redirection attached to a Command.
type Redirect struct {
	// TargetFD is the file descriptor being redirected; when no fd
	// digits are written the parser fills in the operator's default
	// (0 for the < forms, 1 for the > forms).
	TargetFD int
	Flags    RedirFlag

	// File is the target word, nil when Close or FDDup is set.
	File *Word

	// Close records a "N<&-" / "N>&-" close-fd form.
	Close bool

	// FDDup records a "N<&M" / "N>&M" fd-duplication target, valid
	// only in conjunction with RedirDupIn/RedirDupOut and when Close
	// is false.
	FDDup    int
	HasFDDup bool
}

// Command is one node in the parsed command tree: a connector applied
// to whatever follows it, plus either a simple-command argv or a
// nested subcommand list (never both).
type Command struct {
	Connector Connector

	// Argv holds the command's words when this is a simple command.
	Argv []*Word

	// Subcommands holds a nested command list when this is a grouped
	// or subshell command. Exactly one of Argv/Subcommands is set.
	Subcommands []*Command

	Redirs []*Redirect

	// SourceText is the verbatim source span this command was parsed
	// from, kept for diagnostics.
	SourceText string
}

// IsGroup reports whether c is a subshell/group command rather than a
// simple command.
func (c *Command) IsGroup() bool {
	return c.Subcommands != nil
}
