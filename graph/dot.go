package graph

import (
	"fmt"
	"html"
	"io"
	"strings"

	"pipelined.dev/engine/processor"
)

const (
	audioColor = "#00ff00"
	eventColor = "#ff00ff"
)

// Dot returns the graph in Graphviz format.
func Dot(g *Graph) string {
	var sb strings.Builder
	WriteDot(&sb, g)
	return sb.String()
}

// WriteDot writes the graph in Graphviz format. Every processor is a table
// with audio ports in green and event ports in magenta.
func WriteDot(w io.Writer, g *Graph) error {
	dw := &dotWriter{w: w}
	dw.printf("digraph {\n")
	dw.printf("node [shape=plaintext]\n")
	for _, p := range g.Processors() {
		dw.processor(p)
	}
	for _, wire := range g.Audio.All() {
		dw.wire(wire, 'a', audioColor)
	}
	for _, wire := range g.Event.All() {
		dw.wire(wire, 'e', eventColor)
	}
	dw.printf("}\n")
	return dw.err
}

type dotWriter struct {
	w   io.Writer
	err error
}

func (dw *dotWriter) printf(format string, args ...any) {
	if dw.err != nil {
		return
	}
	_, dw.err = fmt.Fprintf(dw.w, format, args...)
}

func (dw *dotWriter) processor(p processor.Processor) {
	dw.printf("%s [label=<<table>\n", nodeName(p))
	if p.NumInputs() > 0 || len(p.EventInputs()) > 0 {
		dw.printf("<tr>\n")
		for i := 0; i < p.NumInputs(); i++ {
			dw.printf("<td port=\"ai%d\" bgcolor=\"%s\">a%d</td>\n", i, audioColor, i)
		}
		for i, port := range p.EventInputs() {
			dw.printf("<td port=\"ei%d\" bgcolor=\"%s\">%s</td>\n", i, eventColor, html.EscapeString(port.Name()))
		}
		dw.printf("</tr>\n")
	}
	span := max(p.NumInputs()+len(p.EventInputs()), p.NumOutputs()+len(p.EventOutputs()), 1)
	dw.printf("<tr>\n<td colspan=\"%d\">%s:%s</td>\n</tr>\n", span, p.TypeName(), html.EscapeString(p.Name()))
	if p.NumOutputs() > 0 || len(p.EventOutputs()) > 0 {
		dw.printf("<tr>\n")
		for i := 0; i < p.NumOutputs(); i++ {
			dw.printf("<td port=\"ao%d\" bgcolor=\"%s\">a%d</td>\n", i, audioColor, i)
		}
		for i, port := range p.EventOutputs() {
			dw.printf("<td port=\"eo%d\" bgcolor=\"%s\">%s</td>\n", i, eventColor, html.EscapeString(port.Name()))
		}
		dw.printf("</tr>\n")
	}
	dw.printf("</table>>]\n")
}

func (dw *dotWriter) wire(w Wire, kind byte, color string) {
	dw.printf("%s:%co%d -> %s:%ci%d [color=\"%s\"]\n",
		nodeName(w.Src.Proc), kind, w.Src.Port,
		nodeName(w.Dst.Proc), kind, w.Dst.Port,
		color)
}

func nodeName(p processor.Processor) string {
	return p.TypeName() + "_" + p.ID()
}
