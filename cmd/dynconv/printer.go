package main

import (
	"fmt"
	"io"

	"github.com/funvibe/dynconv/internal/scenario"
)

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

type printer struct {
	out   io.Writer
	color bool
}

func (p printer) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

func (p printer) report(name string, r *scenario.Report) {
	fmt.Fprintf(p.out, "%s\n", name)
	for _, res := range r.Results {
		outcome := ""
		if res.Err != nil {
			outcome = "error: " + res.Err.Error()
		} else {
			outcome = fmt.Sprintf("%s %s", res.Value.RuntimeType(), res.Value.Inspect())
		}
		status := p.paint(colorGreen, "ok  ")
		if !res.Passed() {
			status = p.paint(colorRed, "FAIL")
		}
		fmt.Fprintf(p.out, "%s %3d %-16s %s -> %s\n", status, res.Index, res.Site, res.Operand, outcome)
		if !res.Passed() {
			fmt.Fprintf(p.out, "         %s\n", p.paint(colorRed, res.Mismatch))
		}
	}

	fmt.Fprintln(p.out, p.paint(colorGray, "call sites:"))
	for _, s := range r.Sites {
		stats := s.Site.Stats()
		fmt.Fprintf(p.out, "  %-16s %-12s rules=%d hits=%d misses=%d\n", s.Name, stats.State, stats.Rules, stats.Hits, stats.Misses)
	}
}
