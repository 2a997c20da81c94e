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
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/moby/patternmatcher"

	"github.com/shellcore/shellcore/internal/collab"
	"github.com/shellcore/shellcore/internal/diag"
	"github.com/shellcore/shellcore/internal/shopt"
	"github.com/shellcore/shellcore/internal/wfnmatch"
)

// globField runs pathname expansion over one field per §4.7: fields
// without unescaped glob metacharacters just go through quote removal;
// fields that have them are handed to cb.Glob, and the literal
// (quote-removed) text survives only when there were no matches and
// nullglob is off.
func globField(f *Field, cb collab.Callbacks, opts shopt.Options) ([]string, error) {
	literal := quoteRemove(f.String())

	if opts.NoGlob || !hasUnescapedGlobMeta(f) {
		return []string{literal}, nil
	}

	pattern := literal
	flags := collab.GlobFlags{
		CaseFold:     opts.NoCaseGlob,
		DotGlob:      opts.DotGlob,
		MarkDirs:     opts.MarkDirs,
		ExtendedGlob: opts.ExtendedGlob,
	}

	matches, err := cb.Glob(pattern, flags)
	if err != nil {
		return nil, diag.New(diag.GlobError, 0, "globbing %q: %v", pattern, err)
	}
	if len(matches) == 0 {
		if opts.NullGlob {
			return nil, nil
		}
		return []string{literal}, nil
	}
	return matches, nil
}

// hasUnescapedGlobMeta reports whether f contains a `*`, `?`, or `[`
// that survived as live pattern syntax (not behind a backslash, and
// not a rune that came from a quoted context, whose splittability bit
// is false, the same bit the brace expander checks).
func hasUnescapedGlobMeta(f *Field) bool {
	for i := 0; i < len(f.Runes); i++ {
		if f.Runes[i] == '\\' {
			i++
			continue
		}
		if !f.Split[i] {
			continue
		}
		switch f.Runes[i] {
		case '*', '?', '[':
			return true
		}
	}
	return false
}

// DefaultGlobber is the filesystem-backed collab.Callbacks.Glob this
// module ships: single-path-segment patterns (`?`, `[...]`, a lone
// `*`) are matched through wfnmatch for case-fold/dotglob parity with
// the POSIX operators, while a pattern containing `**` under
// extendedglob is delegated whole to doublestar, which natively
// implements recursive-descent matching. A leading-dot entry's
// visibility is decided with moby/patternmatcher's ignore-pattern
// semantics, adapted to the dotglob flag rather than its usual
// .dockerignore role.
func DefaultGlobber(pattern string, flags collab.GlobFlags) ([]string, error) {
	if flags.ExtendedGlob && strings.Contains(pattern, "**") {
		return globDoublestar(pattern, flags)
	}
	return globSegments(pattern, flags)
}

func globDoublestar(pattern string, flags collab.GlobFlags) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, err
	}
	matches = filterDotfiles(matches, flags)
	if flags.MarkDirs {
		markDirs(matches)
	}
	return matches, nil
}

// globSegments walks pattern one path separator segment at a time,
// expanding each segment's metacharacters against directory entries
// with wfnmatch and only recursing into directories that matched.
func globSegments(pattern string, flags collab.GlobFlags) ([]string, error) {
	abs := strings.HasPrefix(pattern, "/")
	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")

	roots := []string{"."}
	if abs {
		roots = []string{"/"}
	}

	matchFlags := wfnmatch.Pathname
	if flags.CaseFold {
		matchFlags |= wfnmatch.CaseFold
	}
	if !flags.DotGlob {
		matchFlags |= wfnmatch.Period
	}

	current := roots
	for si, seg := range segments {
		isLast := si == len(segments)-1
		var next []string
		if !wfnmatch.HasSpecialChar(seg, true) {
			for _, dir := range current {
				candidate := filepath.Join(dir, seg)
				if _, err := os.Stat(candidate); err == nil {
					next = append(next, candidate)
				}
			}
			current = next
			continue
		}
		for _, dir := range current {
			entries, err := os.ReadDir(dir)
			if err != nil {
				continue
			}
			for _, e := range entries {
				name := e.Name()
				if !isLast && !e.IsDir() {
					continue
				}
				if wfnmatch.Match(seg, name, matchFlags, wfnmatch.Whole) < 0 {
					continue
				}
				next = append(next, filepath.Join(dir, name))
			}
		}
		current = next
	}

	results := filterDotfiles(current, flags)
	if flags.MarkDirs {
		markDirs(results)
	}
	return results, nil
}

// filterDotfiles hides entries whose base name starts with `.` unless
// dotglob is set, using patternmatcher's ignore-pattern matcher
// against a synthetic ".*" rule rather than a hand-rolled prefix check.
func filterDotfiles(matches []string, flags collab.GlobFlags) []string {
	if flags.DotGlob || len(matches) == 0 {
		return matches
	}
	pm, err := patternmatcher.New([]string{".*"})
	if err != nil {
		return matches
	}
	var out []string
	for _, m := range matches {
		hidden, err := pm.Matches(filepath.Base(m))
		if err == nil && hidden {
			continue
		}
		out = append(out, m)
	}
	return out
}

func markDirs(matches []string) {
	for i, m := range matches {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			matches[i] = m + string(filepath.Separator)
		}
	}
}
