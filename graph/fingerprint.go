package graph

import (
	"encoding/hex"
	"fmt"

	"lukechampine.com/blake3"
)

// Fingerprint returns a digest of the graph topology. Graphs with the same
// wires between the same processors have the same fingerprint.
func Fingerprint(g *Graph) string {
	h := blake3.New(32, nil)
	for _, ws := range []struct {
		kind  string
		wires *Wires
	}{
		{"a", &g.Audio},
		{"e", &g.Event},
	} {
		for _, w := range ws.wires.All() {
			fmt.Fprintf(h, "%s %s:%d %s:%d\n", ws.kind, w.Src.Proc.ID(), w.Src.Port, w.Dst.Proc.ID(), w.Dst.Port)
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}
