// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	stderrors "github.com/kanso-lang/abstrans/internal/errors"

	"github.com/kanso-lang/abstrans/internal/cfg"
	"github.com/kanso-lang/abstrans/internal/driver"
	"github.com/kanso-lang/abstrans/internal/interp"
	"github.com/kanso-lang/abstrans/internal/view"

	"github.com/kanso-lang/abstrans/grammar"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: esir-analyze <file.esir>")
		os.Exit(1)
	}

	path := os.Args[1]

	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read file: %s\n", err)
		os.Exit(1)
	}

	prog, err := grammar.ParseSource(path, string(source))
	if err != nil {
		// ParseSource has already printed a caret-style diagnostic.
		os.Exit(1)
	}

	built, err := grammar.Lower(prog)
	if err != nil {
		color.Red("failed to lower %s: %s", path, err)
		os.Exit(1)
	}

	d := driver.New(built, interp.New())
	for _, fn := range built.Functions {
		d.Seed(fn)
	}

	failures := d.Run()

	reporter := stderrors.NewErrorReporter(path, string(source))
	for _, f := range failures {
		ce := stderrors.FromFailure(f.ID, f.Err, stderrors.Position{Line: 1, Column: 1})
		fmt.Print(reporter.FormatError(ce))
	}

	for name, fn := range built.Functions {
		for id := range fn.Nodes {
			np := cfg.NodePoint{Func: name, Node: id, View: view.Root()}
			state := d.State(np)
			if state.IsBottom() {
				continue
			}
			fmt.Printf("%s@%d: locals=%v\n", name, id, state.LocalsSnapshot())
		}
	}

	if len(failures) > 0 {
		color.Yellow("analysis completed with %d failure(s)", len(failures))
		os.Exit(1)
	}

	color.Green("analysis converged for %s", path)
}
