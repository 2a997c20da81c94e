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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shellcore/shellcore/internal/collab"
)

func splitStrings(f *Field, ifs string, ifsSet bool) []string {
	cb := collab.Callbacks{
		LookupVar: func(name string) (collab.Value, bool) {
			if name == "IFS" && ifsSet {
				return collab.Value{Scalar: ifs}, true
			}
			return collab.Value{}, false
		},
	}
	fields := splitField(f, cb)
	var out []string
	for _, r := range fields {
		out = append(out, r.String())
	}
	return out
}

func TestSplitFieldDefaultIFSWhitespace(t *testing.T) {
	t.Parallel()

	f := fieldFromString("one  two\tthree", true)
	got := splitStrings(f, "", false)
	require.Equal(t, []string{"one", "two", "three"}, got)
}

func TestSplitFieldUnquotedVsQuotedNeverSplits(t *testing.T) {
	t.Parallel()

	// "$A" with A="foo bar" expands to one unsplittable field.
	quoted := newField()
	quoted.appendString("foo bar", false)
	got := splitStrings(quoted, "", false)
	require.Equal(t, []string{"foo bar"}, got)

	// $A unquoted is splittable and does split.
	unquoted := newField()
	unquoted.appendString("foo bar", true)
	got = splitStrings(unquoted, "", false)
	require.Equal(t, []string{"foo", "bar"}, got)
}

func TestSplitFieldNonWhitespaceIFSForcesBoundary(t *testing.T) {
	t.Parallel()

	f := fieldFromString("a,,b", true)
	got := splitStrings(f, ",", true)
	require.Equal(t, []string{"a", "", "b"}, got)
}

func TestSplitFieldTrailingNonWhitespaceIFSEmitsFinalEmpty(t *testing.T) {
	t.Parallel()

	f := fieldFromString("a,", true)
	got := splitStrings(f, ",", true)
	require.Equal(t, []string{"a", ""}, got)
}

func TestSplitFieldTrailingWhitespaceIFSHasNoFinalEmpty(t *testing.T) {
	t.Parallel()

	f := fieldFromString("a ", true)
	got := splitStrings(f, "", false)
	require.Equal(t, []string{"a"}, got)
}

func TestSplitFieldLeadingWhitespaceIFSHasNoLeadingEmpty(t *testing.T) {
	t.Parallel()

	f := fieldFromString(" a b", true)
	got := splitStrings(f, "", false)
	require.Equal(t, []string{"a", "b"}, got)
}

func TestSplitFieldAllWhitespaceIFSYieldsNoFields(t *testing.T) {
	t.Parallel()

	f := fieldFromString("   ", true)
	got := splitStrings(f, "", false)
	require.Empty(t, got)
}

func TestSplitFieldLeadingNonWhitespaceIFSStillEmitsLeadingEmpty(t *testing.T) {
	t.Parallel()

	f := fieldFromString(",a,b", true)
	got := splitStrings(f, ",", true)
	require.Equal(t, []string{"", "a", "b"}, got)
}

func TestSplitFieldNoDelimiterPassesThroughUnchanged(t *testing.T) {
	t.Parallel()

	f := fieldFromString("unchanged", true)
	fields := splitField(f, collab.Callbacks{})
	require.Len(t, fields, 1)
	require.Same(t, f, fields[0])
}

func TestSplitFieldEmptyIFSNeverSplits(t *testing.T) {
	t.Parallel()

	f := fieldFromString("a b", true)
	got := splitStrings(f, "", true)
	require.Equal(t, []string{"a b"}, got)
}
