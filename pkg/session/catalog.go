package session

// Module names.
const (
	ModuleArray    = "array"
	ModuleBST      = "bst"
	ModuleAVL      = "avl"
	ModuleHeap     = "heap"
	ModuleHeapsort = "heapsort"
)

// Operation names. Not every module supports every operation; see Catalog.
const (
	OpAdd      = "add"
	OpRemove   = "remove"
	OpInsert   = "insert"
	OpDelete   = "delete"
	OpSearch   = "search"
	OpTraverse = "traverse"
	OpExtract  = "extract"
	OpBuild    = "build"
	OpMode     = "mode"
	OpSort     = "sort"
	OpLoad     = "load"
	OpClear    = "clear"
)

// Arity is how many values an operation takes.
type Arity int

// Operation arities.
const (
	// ArityNone takes no values.
	ArityNone Arity = iota
	// ArityOne takes exactly one value. Scenario steps with several values
	// expand into one command per value.
	ArityOne
	// ArityList takes the whole value list as one input.
	ArityList
)

func (a Arity) String() string {
	switch a {
	case ArityNone:
		return "none"
	case ArityOne:
		return "value"
	case ArityList:
		return "values"
	default:
		return "unknown"
	}
}

// OpInfo describes one operation of a module.
type OpInfo struct {
	Name        string `json:"name"`
	Arity       Arity  `json:"arity"`
	Arg         string `json:"arg,omitempty"`
	Description string `json:"description"`
}

// ModuleInfo describes a module and its operations.
type ModuleInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Ops         []OpInfo `json:"ops"`
}

var treeOps = []OpInfo{
	{Name: OpInsert, Arity: ArityOne, Description: "insert a value; duplicates are narrated and ignored"},
	{Name: OpDelete, Arity: ArityOne, Description: "delete a value; absent values are narrated"},
	{Name: OpSearch, Arity: ArityOne, Description: "search for a value along the root path"},
	{Name: OpTraverse, Arity: ArityNone, Arg: "in | pre | post", Description: "visit every node in the given order"},
	{Name: OpLoad, Arity: ArityList, Description: "replace the tree with the given values"},
	{Name: OpClear, Arity: ArityNone, Description: "remove every node"},
}

var catalog = []ModuleInfo{
	{
		Name:        ModuleArray,
		Description: "dynamic array with capacity doubling",
		Ops: []OpInfo{
			{Name: OpAdd, Arity: ArityOne, Description: "append a value, resizing when full"},
			{Name: OpRemove, Arity: ArityOne, Description: "remove the element at an index and shift the tail left"},
			{Name: OpLoad, Arity: ArityList, Description: "replace the content with the given values"},
			{Name: OpClear, Arity: ArityNone, Description: "empty the array"},
		},
	},
	{Name: ModuleBST, Description: "unbalanced binary search tree", Ops: treeOps},
	{Name: ModuleAVL, Description: "self-balancing AVL tree", Ops: treeOps},
	{
		Name:        ModuleHeap,
		Description: "binary heap with switchable max/min order",
		Ops: []OpInfo{
			{Name: OpInsert, Arity: ArityOne, Description: "insert a value and sift it up"},
			{Name: OpExtract, Arity: ArityNone, Description: "remove the root and sift down"},
			{Name: OpBuild, Arity: ArityList, Description: "build a heap bottom-up from the values"},
			{Name: OpMode, Arity: ArityNone, Arg: "max | min", Description: "switch order and re-heapify"},
			{Name: OpClear, Arity: ArityNone, Description: "empty the heap"},
		},
	},
	{
		Name:        ModuleHeapsort,
		Description: "in-place ascending heapsort",
		Ops: []OpInfo{
			{Name: OpLoad, Arity: ArityList, Description: "set the array to sort"},
			{Name: OpSort, Arity: ArityNone, Description: "build a max-heap and extract into a sorted suffix"},
			{Name: OpClear, Arity: ArityNone, Description: "empty the array"},
		},
	},
}

// Catalog returns the modules and their operations.
func Catalog() []ModuleInfo {
	out := make([]ModuleInfo, len(catalog))
	for i, m := range catalog {
		out[i] = m
		out[i].Ops = append([]OpInfo(nil), m.Ops...)
	}

	return out
}

// Lookup returns the description of op on module.
func Lookup(module, op string) (OpInfo, error) {
	for _, m := range catalog {
		if m.Name != module {
			continue
		}

		for _, o := range m.Ops {
			if o.Name == op {
				return o, nil
			}
		}

		return OpInfo{}, unknownOp(module, op)
	}

	return OpInfo{}, unknownModule(module)
}
