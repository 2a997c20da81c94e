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
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shellcore/shellcore/internal/collab"
	"github.com/shellcore/shellcore/internal/shopt"
)

func TestGlobFieldSkipsGlobberWhenNoMeta(t *testing.T) {
	t.Parallel()

	called := false
	cb := collab.Callbacks{
		Glob: func(pattern string, flags collab.GlobFlags) ([]string, error) {
			called = true
			return nil, nil
		},
	}
	out, err := globField(fieldFromString("plain", true), cb, shopt.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"plain"}, out)
	require.False(t, called)
}

func TestGlobFieldNoGlobOptionBypassesGlobber(t *testing.T) {
	t.Parallel()

	called := false
	cb := collab.Callbacks{
		Glob: func(pattern string, flags collab.GlobFlags) ([]string, error) {
			called = true
			return nil, nil
		},
	}
	out, err := globField(fieldFromString("*.go", true), cb, shopt.Options{NoGlob: true})
	require.NoError(t, err)
	require.Equal(t, []string{"*.go"}, out)
	require.False(t, called)
}

func TestGlobFieldNoMatchKeepsLiteralWithoutNullglob(t *testing.T) {
	t.Parallel()

	cb := collab.Callbacks{
		Glob: func(pattern string, flags collab.GlobFlags) ([]string, error) {
			return nil, nil
		},
	}
	out, err := globField(fieldFromString("*.nonexistent", true), cb, shopt.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"*.nonexistent"}, out)
}

func TestGlobFieldNoMatchVanishesUnderNullglob(t *testing.T) {
	t.Parallel()

	cb := collab.Callbacks{
		Glob: func(pattern string, flags collab.GlobFlags) ([]string, error) {
			return nil, nil
		},
	}
	out, err := globField(fieldFromString("*.nonexistent", true), cb, shopt.Options{NullGlob: true})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestGlobFieldMatchesAreAppended(t *testing.T) {
	t.Parallel()

	cb := collab.Callbacks{
		Glob: func(pattern string, flags collab.GlobFlags) ([]string, error) {
			require.Equal(t, "*.go", pattern)
			return []string{"a.go", "b.go"}, nil
		},
	}
	out, err := globField(fieldFromString("*.go", true), cb, shopt.Default())
	require.NoError(t, err)
	require.Equal(t, []string{"a.go", "b.go"}, out)
}

func TestHasUnescapedGlobMetaIgnoresEscaped(t *testing.T) {
	t.Parallel()

	f := newField()
	f.appendRune('\\', false)
	f.appendRune('*', false)
	require.False(t, hasUnescapedGlobMeta(f))
}

func TestDefaultGlobberMatchesPlainEntries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "beta.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.txt"), []byte("x"), 0o644))

	matches, err := DefaultGlobber(filepath.Join(dir, "*.txt"), collab.GlobFlags{})
	require.NoError(t, err)
	sort.Strings(matches)
	require.Equal(t, []string{
		filepath.Join(dir, "alpha.txt"),
		filepath.Join(dir, "beta.txt"),
	}, matches)
}

func TestDefaultGlobberDotglobRevealsHidden(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	matches, err := DefaultGlobber(filepath.Join(dir, ".*"), collab.GlobFlags{DotGlob: true})
	require.NoError(t, err)
	require.Contains(t, matches, filepath.Join(dir, ".hidden"))
}
