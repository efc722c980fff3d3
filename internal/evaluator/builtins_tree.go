package evaluator

// Tree queries need tree structure, which the model graph does not hold.
func registerTreeOps(r *Registry) {
	r.unsupported(GroupTree, "mrca", "nodeAge", "treeHeight", "treeLength", "taxa")
}
