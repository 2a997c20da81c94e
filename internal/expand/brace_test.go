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

	"github.com/shellcore/shellcore/internal/shopt"
)

func braceStrings(t *testing.T, in string) []string {
	t.Helper()
	f := fieldFromString(in, true)
	out := expandBraces(f, shopt.Default())
	var ss []string
	for _, r := range out {
		require.Equal(t, r.Len(), len(r.Split), "value/splittability length must match")
		ss = append(ss, r.String())
	}
	return ss
}

func TestExpandBracesAlternation(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "a{b,c,d}e")
	require.Equal(t, []string{"abe", "ace", "ade"}, got)
}

func TestExpandBracesNoBraceIsNoOp(t *testing.T) {
	t.Parallel()

	f := fieldFromString("plain text", true)
	out := expandBraces(f, shopt.Default())
	require.Len(t, out, 1)
	require.Equal(t, "plain text", out[0].String())
}

func TestExpandBracesSingleElementStaysLiteral(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "a{b}c")
	require.Equal(t, []string{"a{b}c"}, got)
}

func TestExpandBracesNested(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "{a,b{1,2}}")
	require.ElementsMatch(t, []string{"a", "b1", "b2"}, got)
}

func TestExpandBracesNumericSequenceAscending(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "{1..3}")
	require.Equal(t, []string{"1", "2", "3"}, got)
}

func TestExpandBracesNumericSequenceDescending(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "{3..1}")
	require.Equal(t, []string{"3", "2", "1"}, got)
}

func TestExpandBracesNumericZeroPadded(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "{01..3}")
	require.Equal(t, []string{"01", "02", "03"}, got)
}

func TestExpandBracesNumericSignedWhenEitherEndpointSigned(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "{+1..3}")
	require.Equal(t, []string{"+1", "+2", "+3"}, got)
}

func TestExpandBracesNumericNegativeRange(t *testing.T) {
	t.Parallel()

	got := braceStrings(t, "{-1..1}")
	require.Equal(t, []string{"-1", "0", "1"}, got)
}

func TestExpandBracesQuotedBraceIsOpaque(t *testing.T) {
	t.Parallel()

	// "{a,b}" quoted: every rune unsplittable, so the braces are just
	// literal text, not an alternation.
	f := newField()
	f.appendString("{a,b}", false)
	out := expandBraces(f, shopt.Default())
	require.Len(t, out, 1)
	require.Equal(t, "{a,b}", out[0].String())
}

func TestExpandBracesDisabledByOption(t *testing.T) {
	t.Parallel()

	f := fieldFromString("a{b,c}d", true)
	out := expandBraces(f, shopt.Options{})
	require.Len(t, out, 1)
	require.Equal(t, "a{b,c}d", out[0].String())
}
