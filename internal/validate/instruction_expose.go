package validate

import (
	"regexp"
	"strings"

	"github.com/wharflab/dockfilelint/internal/ast"
	"github.com/wharflab/dockfilelint/internal/diagnostic"
)

var rePort = regexp.MustCompile(`^([0-9])+(-[0-9]+)?(:([0-9])+(-[0-9]*)?)?(\/(\w*))?(\/\w*)*$`)

// checkExpose implements the EXPOSE rule sub-engine.
func (c *checker) checkExpose(inst ast.Instruction) {
	if len(inst.Words) == 0 {
		c.emit(diagnostic.New(inst.Range, diagnostic.SeverityError, diagnostic.ArgumentRequiresAtLeastOne,
			"EXPOSE requires at least one argument").WithInstructionLine(inst.StartLine))
		return
	}
	for _, w := range inst.Words {
		expanded := w.Expanded
		if expanded == "" && !strings.Contains(w.Value, "$") {
			expanded = w.Value
		}
		quoteOffset := len(expanded) - len(strings.TrimLeft(expanded, `"`))
		token := strings.Trim(expanded, `"`)
		// A reference the file could not resolve may expand to anything
		// at build time.
		if strings.HasPrefix(token, "$") {
			continue
		}
		m := rePort.FindStringSubmatch(token)
		if m == nil {
			c.emit(diagnostic.New(w.Range, diagnostic.SeverityError, diagnostic.InvalidPort,
				diagnostic.Format("invalid port ${0}", token)).WithInstructionLine(inst.StartLine))
			continue
		}
		proto := m[7]
		if proto != "" && !strings.EqualFold(proto, "tcp") && !strings.EqualFold(proto, "udp") && !strings.EqualFold(proto, "sctp") {
			rng := w.Range
			// Column math into the token only holds when expansion left
			// the source text unchanged.
			if expanded == w.Value {
				if protoStart := strings.LastIndex(token, "/"+proto); protoStart >= 0 {
					from := quoteOffset + protoStart + 1
					rng = subRange(w, from, from+len(proto))
				}
			}
			c.emit(diagnostic.New(rng, diagnostic.SeverityError, diagnostic.InvalidProto,
				diagnostic.Format("invalid proto ${0}", proto)).WithInstructionLine(inst.StartLine))
		}
	}
}
