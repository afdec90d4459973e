package dag

import "sync/atomic"

// node is a compiled task. Nodes are allocated once and referenced by index.
type node struct {
	task     Task
	children []int32
	parents  int32
	pending  atomic.Int32
}

func compile(d *DAG) []node {
	parents := d.parents()
	nodes := make([]node, len(d.tasks))
	for i, t := range d.tasks {
		nodes[i].task = t
		nodes[i].parents = parents[i]
		nodes[i].children = make([]int32, len(d.children[i]))
		for j, c := range d.children[i] {
			nodes[i].children[j] = int32(c)
		}
	}
	return nodes
}
