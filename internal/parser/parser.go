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

// Package parser turns a line of shell source into a tree of Commands
// (internal/wordtree), by recursive descent over a small scanner that
// tracks quoting state, paren/brace nesting, and backslash escapes.
package parser

import (
	"strconv"
	"strings"

	"github.com/shellcore/shellcore/internal/diag"
	"github.com/shellcore/shellcore/internal/shopt"
	"github.com/shellcore/shellcore/internal/wordtree"
)

type parser struct {
	src  string
	opts shopt.Options
	pos0 int
}

// ParseLine parses a single logical line of shell source into an
// ordered list of Commands. Nested newlines are only permitted inside
// quoted regions, $(...), or (...); a bare newline elsewhere is a
// syntax error.
func ParseLine(text string, opts shopt.Options) ([]*wordtree.Command, error) {
	text = strings.TrimSuffix(text, "\n")
	p := &parser{src: text, opts: opts}
	return p.parseList()
}

func parseListString(text string, opts shopt.Options) ([]*wordtree.Command, error) {
	p := &parser{src: text, opts: opts}
	return p.parseList()
}

// parseList parses a maximal run of connector-joined commands from the
// parser's current position to the end of its source string.
func (p *parser) parseList() ([]*wordtree.Command, error) {
	var cmds []*wordtree.Command
	sawAny := false
	prevConnWasEnd := false

	for {
		p.pos0 = p.skipBlank(p.pos0)
		if p.pos0 >= len(p.src) {
			break
		}

		start := p.pos0
		cmd, empty, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		p.pos0 = p.skipBlank(p.pos0)

		conn, hasConn, err := p.readConnector()
		if err != nil {
			return nil, err
		}

		if empty {
			if !sawAny {
				if !hasConn {
					// a wholly blank line: no commands, not an error
					break
				}
				return nil, diag.New(diag.Syntax, start, "unexpected empty command")
			}
			if !prevConnWasEnd || hasConn {
				return nil, diag.New(diag.Syntax, start, "empty command not allowed here")
			}
			break
		}

		cmd.Connector = conn
		cmds = append(cmds, cmd)
		sawAny = true
		prevConnWasEnd = hasConn && conn == wordtree.End

		if !hasConn {
			break
		}
	}

	// a pipe/and/or connector at the end of input has no command after it
	if n := len(cmds); n > 0 {
		switch cmds[n-1].Connector {
		case wordtree.Pipe, wordtree.And, wordtree.Or:
			return nil, diag.New(diag.Syntax, p.pos0, "missing command after connector")
		}
	}

	return cmds, nil
}

// skipBlank advances past spaces and tabs, then (if what follows is a
// comment) to the end of the source. It stops at a bare, unquoted
// newline, which readConnector then reports as a syntax error: this
// parser only accepts newlines nested inside quotes, $(...), or (...).
func (p *parser) skipBlank(pos int) int {
	for pos < len(p.src) {
		switch p.src[pos] {
		case ' ', '\t':
			pos++
		case '#':
			return len(p.src)
		default:
			return pos
		}
	}
	return pos
}

func (p *parser) readConnector() (wordtree.Connector, bool, error) {
	pos := p.pos0
	if pos >= len(p.src) {
		return wordtree.End, false, nil
	}
	switch p.src[pos] {
	case ';':
		p.pos0 = pos + 1
		return wordtree.End, true, nil
	case '\n':
		return 0, false, diag.New(diag.Syntax, pos, "invalid newline")
	case ')':
		return 0, false, diag.New(diag.Syntax, pos, "unexpected `)`")
	case '&':
		if pos+1 < len(p.src) && p.src[pos+1] == '&' {
			p.pos0 = pos + 2
			return wordtree.And, true, nil
		}
		p.pos0 = pos + 1
		return wordtree.Background, true, nil
	case '|':
		if pos+1 < len(p.src) && p.src[pos+1] == '|' {
			p.pos0 = pos + 2
			return wordtree.Or, true, nil
		}
		p.pos0 = pos + 1
		return wordtree.Pipe, true, nil
	default:
		return 0, false, diag.New(diag.Syntax, pos, "unexpected token %q", string(p.src[pos]))
	}
}

// parseCommand parses one simple command or subshell group, stopping
// before the next connector. empty is true iff this was a simple
// command with no words and no redirections.
func (p *parser) parseCommand() (*wordtree.Command, bool, error) {
	start := p.pos0
	cmd := &wordtree.Command{}

	if p.pos0 < len(p.src) && p.src[p.pos0] == '(' {
		inner, err := p.scanBalanced(p.pos0, '(', ')')
		if err != nil {
			return nil, false, err
		}
		subs, err := parseListString(inner.body, p.opts)
		if err != nil {
			return nil, false, err
		}
		p.pos0 = inner.end
		cmd.Subcommands = subs
		if cmd.Subcommands == nil {
			cmd.Subcommands = []*wordtree.Command{}
		}
		if err := p.parseTrailingRedirs(cmd); err != nil {
			return nil, false, err
		}
		cmd.SourceText = p.src[start:p.pos0]
		return cmd, false, nil
	}

	for {
		p.pos0 = p.skipBlank(p.pos0)
		if p.pos0 >= len(p.src) {
			break
		}
		c := p.src[p.pos0]
		if c == ';' || c == '&' || c == '|' || c == ')' || c == '\n' {
			break
		}
		if c == '(' {
			return nil, false, diag.New(diag.Syntax, p.pos0, "unsupported construct: unexpected `(`")
		}
		if isRedirStart(p.src, p.pos0) {
			r, err := p.parseRedir()
			if err != nil {
				return nil, false, err
			}
			cmd.Redirs = append(cmd.Redirs, r)
			continue
		}
		w, newPos, err := p.scanWord(p.pos0)
		if err != nil {
			return nil, false, err
		}
		p.pos0 = newPos
		cmd.Argv = append(cmd.Argv, w)
	}

	cmd.SourceText = p.src[start:p.pos0]
	empty := len(cmd.Argv) == 0 && len(cmd.Redirs) == 0
	return cmd, empty, nil
}

func (p *parser) parseTrailingRedirs(cmd *wordtree.Command) error {
	for {
		p.pos0 = p.skipBlank(p.pos0)
		if !isRedirStart(p.src, p.pos0) {
			return nil
		}
		r, err := p.parseRedir()
		if err != nil {
			return err
		}
		cmd.Redirs = append(cmd.Redirs, r)
	}
}

// isRedirStart reports whether a redirection operator starts at pos,
// allowing an immediately-adjacent leading fd-digit run.
func isRedirStart(src string, pos int) bool {
	i := pos
	for i < len(src) && src[i] >= '0' && src[i] <= '9' {
		i++
	}
	if i >= len(src) {
		return false
	}
	return src[i] == '<' || src[i] == '>'
}

func (p *parser) parseRedir() (*wordtree.Redirect, error) {
	start := p.pos0
	fdStart := p.pos0
	for p.pos0 < len(p.src) && p.src[p.pos0] >= '0' && p.src[p.pos0] <= '9' {
		p.pos0++
	}

	r := &wordtree.Redirect{TargetFD: -1}
	if p.pos0 > fdStart {
		fd, err := strconv.Atoi(p.src[fdStart:p.pos0])
		if err != nil {
			return nil, diag.New(diag.Syntax, fdStart, "redirection fd overflow")
		}
		r.TargetFD = fd
	}

	op := p.src[p.pos0]
	p.pos0++
	switch op {
	case '<':
		switch {
		case p.pos0 < len(p.src) && p.src[p.pos0] == '>':
			p.pos0++
			r.Flags = wordtree.RedirInOut
		case p.pos0 < len(p.src) && p.src[p.pos0] == '&':
			p.pos0++
			r.Flags = wordtree.RedirDupIn
			if r.TargetFD == -1 {
				r.TargetFD = 0
			}
			return p.finishDup(r, start)
		default:
			r.Flags = wordtree.RedirIn
		}
		if r.TargetFD == -1 {
			r.TargetFD = 0
		}
	case '>':
		switch {
		case p.pos0 < len(p.src) && p.src[p.pos0] == '>':
			p.pos0++
			r.Flags = wordtree.RedirAppend
		case p.pos0 < len(p.src) && p.src[p.pos0] == '|':
			p.pos0++
			r.Flags = wordtree.RedirClobber
		case p.pos0 < len(p.src) && p.src[p.pos0] == '&':
			p.pos0++
			r.Flags = wordtree.RedirDupOut
			if r.TargetFD == -1 {
				r.TargetFD = 1
			}
			return p.finishDup(r, start)
		default:
			r.Flags = wordtree.RedirOut
		}
		if r.TargetFD == -1 {
			r.TargetFD = 1
		}
	}

	p.pos0 = p.skipBlank(p.pos0)
	if p.pos0 >= len(p.src) {
		return nil, diag.New(diag.Syntax, start, "malformed redirection: missing target word")
	}
	switch p.src[p.pos0] {
	case ';', '&', '|', ')', '\n':
		return nil, diag.New(diag.Syntax, start, "malformed redirection: missing target word")
	}

	w, newPos, err := p.scanWord(p.pos0)
	if err != nil {
		return nil, err
	}
	p.pos0 = newPos
	r.File = w
	return r, nil
}

func (p *parser) finishDup(r *wordtree.Redirect, start int) (*wordtree.Redirect, error) {
	if p.pos0 < len(p.src) && p.src[p.pos0] == '-' {
		p.pos0++
		r.Close = true
		return r, nil
	}
	digStart := p.pos0
	for p.pos0 < len(p.src) && p.src[p.pos0] >= '0' && p.src[p.pos0] <= '9' {
		p.pos0++
	}
	if p.pos0 == digStart {
		return nil, diag.New(diag.Syntax, start, "malformed fd-duplication redirection")
	}
	n, err := strconv.Atoi(p.src[digStart:p.pos0])
	if err != nil {
		return nil, diag.New(diag.Syntax, start, "fd parse overflow")
	}
	r.FDDup = n
	r.HasFDDup = true
	return r, nil
}

// balanced is the result of scanning a delimited, nesting-aware span:
// body is the text strictly between the delimiters, end is the index
// immediately after the closing delimiter.
type balanced struct {
	body string
	end  int
}

// scanBalanced scans a delimiter pair starting at p.src[start] == open,
// tracking nested open/close pairs, single/double quotes, and
// backslash escapes, and returns the text strictly between them.
func (p *parser) scanBalanced(start int, open, close byte) (balanced, error) {
	i := start + 1
	depth := 1
	inSingle, inDouble := false, false
	for i < len(p.src) {
		c := p.src[i]
		switch {
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
			i++
		case c == '\\' && !inDouble:
			i++
			if i < len(p.src) {
				i++
			}
		case c == '\\' && inDouble:
			i++
			if i < len(p.src) {
				i++
			}
		case inDouble:
			if c == '"' {
				inDouble = false
			}
			i++
		case c == '\'':
			inSingle = true
			i++
		case c == '"':
			inDouble = true
			i++
		case c == open:
			depth++
			i++
		case c == close:
			depth--
			i++
			if depth == 0 {
				return balanced{body: p.src[start+1 : i-1], end: i}, nil
			}
		default:
			i++
		}
	}
	return balanced{}, diag.New(diag.Syntax, start, "unterminated %q", string(open))
}
