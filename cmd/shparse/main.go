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

// Command shparse is a thin driver over the parser/expander core: it
// reads one line of shell source, prints the parsed command tree, and
// prints the fully expanded argv for each simple command.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/user"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/shellcore/shellcore/internal/collab"
	"github.com/shellcore/shellcore/internal/diag"
	"github.com/shellcore/shellcore/internal/expand"
	"github.com/shellcore/shellcore/internal/parser"
	"github.com/shellcore/shellcore/internal/shopt"
	"github.com/shellcore/shellcore/internal/wordtree"
)

func main() {
	cmd := &cli.Command{
		Name:      "shparse",
		Usage:     "parse and expand one line of POSIX shell source",
		ArgsUsage: "[SOURCE LINE]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "posix", Usage: "enable posixly_correct behavior"},
			&cli.BoolFlag{Name: "nounset", Usage: "treat an unset parameter reference as an error"},
			&cli.BoolFlag{Name: "noglob", Usage: "disable pathname expansion"},
			&cli.BoolFlag{Name: "nullglob", Usage: "a pattern with no matches expands to nothing"},
			&cli.BoolFlag{Name: "nocaseglob", Usage: "case-insensitive pathname matching"},
			&cli.BoolFlag{Name: "dotglob", Usage: "glob patterns may match leading-dot entries"},
			&cli.BoolFlag{Name: "markdirs", Usage: "append / to directory glob matches"},
			&cli.BoolFlag{Name: "extendedglob", Usage: "enable ** recursive-descent glob patterns"},
			&cli.StringFlag{Name: "ifs", Usage: "override IFS for field splitting", Value: " \t\n"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "shparse: %s\n", err)
		os.Exit(diag.ExpErrorStatus)
	}
}

func run(_ context.Context, cmd *cli.Command) error {
	line := strings.Join(cmd.Args().Slice(), " ")

	opts := shopt.Options{
		NoUnset:        cmd.Bool("nounset"),
		NoGlob:         cmd.Bool("noglob"),
		NullGlob:       cmd.Bool("nullglob"),
		NoCaseGlob:     cmd.Bool("nocaseglob"),
		DotGlob:        cmd.Bool("dotglob"),
		MarkDirs:       cmd.Bool("markdirs"),
		ExtendedGlob:   cmd.Bool("extendedglob"),
		BraceExpand:    true,
		PosixlyCorrect: cmd.Bool("posix"),
	}

	commands, err := parser.ParseLine(line, opts)
	if err != nil {
		return err
	}

	env := newEnvironment(cmd.String("ifs"))
	env.opts = opts
	for _, c := range commands {
		printCommand(c, 0)
		if err := expandAndRun(c, env, opts); err != nil {
			return err
		}
	}
	return nil
}

func printCommand(c *wordtree.Command, depth int) {
	indent := strings.Repeat("  ", depth)
	if c.IsGroup() {
		fmt.Printf("%s(group, connector=%d)\n", indent, c.Connector)
		for _, sub := range c.Subcommands {
			printCommand(sub, depth+1)
		}
		return
	}
	fmt.Printf("%s(command, connector=%d, words=%d, redirs=%d)\n", indent, c.Connector, len(c.Argv), len(c.Redirs))
}

// expandAndRun expands every word of c (and its subcommands) and
// prints the resulting argv, then executes each simple command (so
// command substitution has something to observe). Connectors are not
// honored: every command runs in sequence as if joined by ";" — this
// driver exists to exercise expansion, not to be a shell.
func expandAndRun(c *wordtree.Command, env *environment, opts shopt.Options) error {
	if c.IsGroup() {
		for _, sub := range c.Subcommands {
			if err := expandAndRun(sub, env, opts); err != nil {
				return err
			}
		}
		return nil
	}

	argv, err := env.expandArgv(c.Argv, opts)
	if err != nil {
		return err
	}
	fmt.Printf("  argv: %q\n", argv)
	if len(argv) == 0 {
		return nil
	}

	out, err := env.exec(argv)
	if err != nil {
		env.cb.Diagnostic("%s: %v", argv[0], err)
		return nil
	}
	if out != "" {
		fmt.Print(out)
	}
	return nil
}

// environment is the CLI's own collaborator implementation: an
// in-memory variable table seeded from the process environment, the
// filesystem for home-directory lookups and globbing, and os/exec for
// command substitution.
type environment struct {
	vars map[string]collab.Value
	cb   collab.Callbacks
	opts shopt.Options
}

func newEnvironment(ifs string) *environment {
	e := &environment{vars: map[string]collab.Value{}}
	for _, kv := range os.Environ() {
		if name, val, ok := strings.Cut(kv, "="); ok {
			e.vars[name] = collab.Value{Scalar: val}
		}
	}
	e.vars["IFS"] = collab.Value{Scalar: ifs}

	e.cb = collab.Callbacks{
		LookupVar: func(name string) (collab.Value, bool) {
			v, ok := e.vars[name]
			return v, ok
		},
		SetVar: func(name, value string) error {
			e.vars[name] = collab.Value{Scalar: value}
			return nil
		},
		LookupHomeDir: func(name string) (string, bool) {
			u, err := user.Lookup(name)
			if err != nil {
				return "", false
			}
			return u.HomeDir, true
		},
		RunCommandSubstitution: func(cmds []*wordtree.Command) (string, error) {
			return e.runSubstitution(cmds)
		},
		Glob: expand.DefaultGlobber,
		Diagnostic: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "shparse: "+format+"\n", args...)
		},
	}
	return e
}

func (e *environment) expandArgv(words []*wordtree.Word, opts shopt.Options) ([]string, error) {
	var argv []string
	for _, w := range words {
		parts, err := expand.ExpandWord(w, expand.TildeSingle, e.cb, opts)
		if err != nil {
			return nil, err
		}
		argv = append(argv, parts...)
	}
	return argv, nil
}

func (e *environment) runSubstitution(cmds []*wordtree.Command) (string, error) {
	var out strings.Builder
	for _, c := range cmds {
		if c.IsGroup() {
			for _, sub := range c.Subcommands {
				s, err := e.runSubstitution([]*wordtree.Command{sub})
				if err != nil {
					return "", err
				}
				out.WriteString(s)
			}
			continue
		}
		argv, err := e.expandArgv(c.Argv, e.opts)
		if err != nil {
			return "", err
		}
		if len(argv) == 0 {
			continue
		}
		s, err := e.exec(argv)
		if err != nil {
			return "", err
		}
		out.WriteString(s)
	}
	return strings.TrimRight(out.String(), "\n"), nil
}

func (e *environment) exec(argv []string) (string, error) {
	out, err := exec.Command(argv[0], argv[1:]...).Output()
	return string(out), err
}
