package scenario

import (
	"fmt"
	"sort"

	"github.com/Sumatoshi-tech/algoviz/pkg/session"
)

var demos = map[string]Scenario{
	"avl-rotations": {
		Name:        "avl-rotations",
		Description: "Insert 10, 20, 30, 40, 50, 25: two RR rotations, then an RL double rotation leaves 30 at the root",
		Steps: []Step{
			{Module: session.ModuleAVL, Op: session.OpInsert, Values: []int{10, 20, 30, 40, 50, 25}},
			{Module: session.ModuleAVL, Op: session.OpTraverse, Arg: "in"},
		},
	},
	"heapsort": {
		Name:        "heapsort",
		Description: "Heapsort of [12 11 13 5 6 7 1 9 15 4]",
		Steps: []Step{
			{Module: session.ModuleHeapsort, Op: session.OpLoad, Values: []int{12, 11, 13, 5, 6, 7, 1, 9, 15, 4}},
			{Module: session.ModuleHeapsort, Op: session.OpSort},
		},
	},
	"array-growth": {
		Name:        "array-growth",
		Description: "Append 1..5 to an array of capacity 4: the fifth add doubles the backing to 8",
		Steps: []Step{
			{Module: session.ModuleArray, Op: session.OpAdd, Values: []int{1, 2, 3, 4, 5}},
			{Module: session.ModuleArray, Op: session.OpRemove, Values: []int{1}},
		},
	},
	"bst-delete": {
		Name:        "bst-delete",
		Description: "Build a BST, then delete a leaf, a one-child node and a two-children node",
		Steps: []Step{
			{Module: session.ModuleBST, Op: session.OpInsert, Values: []int{50, 30, 70, 20, 40, 60, 80, 65}},
			{Module: session.ModuleBST, Op: session.OpDelete, Values: []int{20, 60, 50}},
			{Module: session.ModuleBST, Op: session.OpSearch, Values: []int{65}},
		},
	},
	"heap-modes": {
		Name:        "heap-modes",
		Description: "Build a max-heap, extract the root, then switch to min order",
		Steps: []Step{
			{Module: session.ModuleHeap, Op: session.OpBuild, Values: []int{3, 9, 2, 7, 5, 8}},
			{Module: session.ModuleHeap, Op: session.OpExtract},
			{Module: session.ModuleHeap, Op: session.OpMode, Arg: "min"},
		},
	},
}

// Demos returns the names of the built-in scenarios, sorted.
func Demos() []string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Demo returns a copy of the named built-in scenario.
func Demo(name string) (*Scenario, error) {
	d, ok := demos[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownDemo, name, Demos())
	}

	sc := d
	sc.Steps = make([]Step, len(d.Steps))

	for i, st := range d.Steps {
		sc.Steps[i] = st
		sc.Steps[i].Values = append([]int(nil), st.Values...)
	}

	return &sc, nil
}
