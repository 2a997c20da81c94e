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

func TestScanWordBareParameter(t *testing.T) {
	p := &parser{src: "$foo rest", opts: shopt.Default()}
	w, end, err := p.scanWord(0)
	require.NoError(t, err)
	assert.Equal(t, 4, end)
	units := w.Units()
	require.Len(t, units, 1)
	require.Equal(t, wordtree.Param, units[0].Kind)
	assert.Equal(t, "foo", units[0].Param.Name)
}

func TestScanWordSpecialParameters(t *testing.T) {
	for _, name := range []string{"@", "*", "#", "?", "-", "$", "!"} {
		p := &parser{src: "$" + name, opts: shopt.Default()}
		w, _, err := p.scanWord(0)
		require.NoError(t, err)
		units := w.Units()
		require.Len(t, units, 1)
		require.Equal(t, wordtree.Param, units[0].Kind)
		assert.Equal(t, name, units[0].Param.Name)
	}
}

func TestScanWordSingleDigitPositional(t *testing.T) {
	p := &parser{src: "$12", opts: shopt.Default()}
	w, end, err := p.scanWord(0)
	require.NoError(t, err)
	units := w.Units()
	require.Len(t, units, 2)
	assert.Equal(t, wordtree.Param, units[0].Kind)
	assert.Equal(t, "1", units[0].Param.Name)
	assert.Equal(t, wordtree.Lit, units[1].Kind)
	assert.Equal(t, "2", units[1].Lit)
	assert.Equal(t, 3, end)
}

func TestScanWordBracedMultiDigitPositional(t *testing.T) {
	p := &parser{src: "${12}", opts: shopt.Default()}
	w, _, err := p.scanWord(0)
	require.NoError(t, err)
	units := w.Units()
	require.Len(t, units, 1)
	assert.Equal(t, "12", units[0].Param.Name)
}

func TestScanWordLoneDollarIsLiteral(t *testing.T) {
	p := &parser{src: "$", opts: shopt.Default()}
	w, _, err := p.scanWord(0)
	require.NoError(t, err)
	units := w.Units()
	require.Len(t, units, 1)
	assert.Equal(t, wordtree.Lit, units[0].Kind)
	assert.Equal(t, "$", units[0].Lit)
}

func TestScanWordDollarFollowedByPunctuationIsLiteral(t *testing.T) {
	p := &parser{src: "$;", opts: shopt.Default()}
	w, end, err := p.scanWord(0)
	require.NoError(t, err)
	units := w.Units()
	require.Len(t, units, 1)
	assert.Equal(t, "$", units[0].Lit)
	assert.Equal(t, 1, end)
}

func TestScanWordSingleQuoteSuppressesExpansion(t *testing.T) {
	p := &parser{src: `'$foo'`, opts: shopt.Default()}
	w, _, err := p.scanWord(0)
	require.NoError(t, err)
	units := w.Units()
	require.Len(t, units, 1)
	assert.Equal(t, wordtree.Lit, units[0].Kind)
	assert.Equal(t, `'$foo'`, units[0].Lit)
}

func TestScanWordDoubleQuoteAllowsExpansion(t *testing.T) {
	p := &parser{src: `"$foo"`, opts: shopt.Default()}
	w, _, err := p.scanWord(0)
	require.NoError(t, err)
	units := w.Units()
	require.Len(t, units, 3)
	assert.Equal(t, `"`, units[0].Lit)
	assert.Equal(t, wordtree.Param, units[1].Kind)
	assert.Equal(t, `"`, units[2].Lit)
}

func TestScanWordStrayBackslashAtEOF(t *testing.T) {
	p := &parser{src: `foo\`, opts: shopt.Default()}
	_, _, err := p.scanWord(0)
	require.Error(t, err)
}

func TestScanWordEscapedMetacharacter(t *testing.T) {
	p := &parser{src: `foo\;bar`, opts: shopt.Default()}
	w, end, err := p.scanWord(0)
	require.NoError(t, err)
	assert.Equal(t, len(`foo\;bar`), end)
	units := w.Units()
	require.Len(t, units, 1)
	assert.Equal(t, `foo\;bar`, units[0].Lit)
}
