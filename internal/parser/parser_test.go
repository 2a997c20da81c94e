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
	"testing"

	"github.com/shellcore/shellcore/internal/shopt"
	"github.com/shellcore/shellcore/internal/wordtree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func argvStrings(t *testing.T, cmd *wordtree.Command) []string {
	t.Helper()
	var out []string
	for _, w := range cmd.Argv {
		var s string
		for _, u := range w.Units() {
			require.Equal(t, wordtree.Lit, u.Kind)
			s += u.Lit
		}
		out = append(out, s)
	}
	return out
}

func TestParseSimpleCommand(t *testing.T) {
	cmds, err := ParseLine(`echo foo bar`, shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, []string{"echo", "foo", "bar"}, argvStrings(t, cmds[0]))
	assert.Equal(t, wordtree.End, cmds[0].Connector)
}

func TestParseBlankLine(t *testing.T) {
	cmds, err := ParseLine("   ", shopt.Default())
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestParseCommentOnly(t *testing.T) {
	cmds, err := ParseLine("# nothing to see here", shopt.Default())
	require.NoError(t, err)
	assert.Empty(t, cmds)
}

func TestParseTrailingComment(t *testing.T) {
	cmds, err := ParseLine("echo hi # trailing", shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, []string{"echo", "hi"}, argvStrings(t, cmds[0]))
}

func TestParseConnectors(t *testing.T) {
	cmds, err := ParseLine(`a; b && c || d | e & f`, shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 6)
	assert.Equal(t, wordtree.End, cmds[0].Connector)
	assert.Equal(t, wordtree.And, cmds[1].Connector)
	assert.Equal(t, wordtree.Or, cmds[2].Connector)
	assert.Equal(t, wordtree.Pipe, cmds[3].Connector)
	assert.Equal(t, wordtree.Background, cmds[4].Connector)
	assert.Equal(t, wordtree.End, cmds[5].Connector)
}

func TestParseTrailingSemicolonAccepted(t *testing.T) {
	cmds, err := ParseLine(`echo hi;`, shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
}

func TestParseLeadingEmptyCommandIsError(t *testing.T) {
	_, err := ParseLine(`; echo hi`, shopt.Default())
	require.Error(t, err)
}

func TestParsePipeFollowedByEmptyIsError(t *testing.T) {
	_, err := ParseLine(`echo hi | ; echo bye`, shopt.Default())
	require.Error(t, err)
}

func TestParseAndFollowedByEmptyIsError(t *testing.T) {
	_, err := ParseLine(`echo hi &&`, shopt.Default())
	require.Error(t, err)
}

func TestParseDoubleSemicolonIsError(t *testing.T) {
	_, err := ParseLine(`echo hi;; echo bye`, shopt.Default())
	require.Error(t, err)
}

func TestParseSubshellGroup(t *testing.T) {
	cmds, err := ParseLine(`(echo hi; echo bye) > out.txt`, shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	require.True(t, cmds[0].IsGroup())
	require.Len(t, cmds[0].Subcommands, 2)
	require.Len(t, cmds[0].Redirs, 1)
	assert.Equal(t, wordtree.RedirOut, cmds[0].Redirs[0].Flags)
}

func TestParseNestedCommandSubstitution(t *testing.T) {
	cmds, err := ParseLine(`echo $(echo $(echo deep))`, shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	require.Len(t, cmds[0].Argv, 2)
	units := cmds[0].Argv[1].Units()
	require.Len(t, units, 1)
	require.Equal(t, wordtree.CmdSub, units[0].Kind)
	require.Len(t, units[0].CmdSub, 1)
}

func TestParseQuotedMetacharactersAreLiteral(t *testing.T) {
	cmds, err := ParseLine(`echo "a;b|c"`, shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	require.Len(t, cmds[0].Argv, 2)
	units := cmds[0].Argv[1].Units()
	require.Len(t, units, 1)
	assert.Equal(t, `"a;b|c"`, units[0].Lit)
}

func TestParseRedirections(t *testing.T) {
	cmds, err := ParseLine(`cmd 0<in.txt 1>out.txt 2>>err.txt 3<&4 5>&-`, shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	require.Len(t, cmds[0].Redirs, 5)

	r := cmds[0].Redirs[0]
	assert.Equal(t, 0, r.TargetFD)
	assert.Equal(t, wordtree.RedirIn, r.Flags)

	r = cmds[0].Redirs[1]
	assert.Equal(t, 1, r.TargetFD)
	assert.Equal(t, wordtree.RedirOut, r.Flags)

	r = cmds[0].Redirs[2]
	assert.Equal(t, 2, r.TargetFD)
	assert.Equal(t, wordtree.RedirAppend, r.Flags)

	r = cmds[0].Redirs[3]
	assert.Equal(t, 3, r.TargetFD)
	assert.Equal(t, wordtree.RedirDupIn, r.Flags)
	assert.True(t, r.HasFDDup)
	assert.Equal(t, 4, r.FDDup)

	r = cmds[0].Redirs[4]
	assert.Equal(t, 5, r.TargetFD)
	assert.Equal(t, wordtree.RedirDupOut, r.Flags)
	assert.True(t, r.Close)
}

func TestParseMalformedRedirectionMissingTarget(t *testing.T) {
	_, err := ParseLine(`cmd >`, shopt.Default())
	require.Error(t, err)
}

func TestParseStrayCloseParen(t *testing.T) {
	_, err := ParseLine(`echo hi)`, shopt.Default())
	require.Error(t, err)
}

func TestParseUnterminatedCommandSubstitution(t *testing.T) {
	_, err := ParseLine(`echo $(echo hi`, shopt.Default())
	require.Error(t, err)
}

func TestParseUnterminatedDoubleQuote(t *testing.T) {
	_, err := ParseLine(`echo "hi`, shopt.Default())
	require.Error(t, err)
}

func TestParseBacktickCommandSubstitution(t *testing.T) {
	cmds, err := ParseLine("echo `echo hi`", shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	require.Len(t, cmds[0].Argv, 2)
	units := cmds[0].Argv[1].Units()
	require.Len(t, units, 1)
	require.Equal(t, wordtree.CmdSub, units[0].Kind)
	require.True(t, units[0].Backtick)
}

func TestParseUnquotedNewlineIsError(t *testing.T) {
	_, err := ParseLine("echo a\nfoo", shopt.Default())
	require.Error(t, err)
}

func TestParseLineContinuation(t *testing.T) {
	cmds, err := ParseLine("echo a\\\nb", shopt.Default())
	require.NoError(t, err)
	require.Len(t, cmds, 1)
	assert.Equal(t, []string{"echo", "ab"}, argvStrings(t, cmds[0]))
}
