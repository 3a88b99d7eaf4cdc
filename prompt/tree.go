package prompt

import (
	"sort"
	"strings"
)

// TreeNode is one segment of the tree summary. Each node owns its children.
type TreeNode struct {
	Name     string
	IsFile   bool
	Children map[string]*TreeNode
}

// BuildTree builds a prefix trie from slash-separated paths. A node is marked
// as a file when some path terminates on it; empty segments are ignored.
func BuildTree(paths []string) *TreeNode {
	root := &TreeNode{Children: make(map[string]*TreeNode)}
	for _, p := range paths {
		parts := splitSegments(NormalizePath(p))
		node := root
		for i, part := range parts {
			child, ok := node.Children[part]
			if !ok {
				child = &TreeNode{Name: part, Children: make(map[string]*TreeNode)}
				node.Children[part] = child
			}
			if i == len(parts)-1 {
				child.IsFile = true
			}
			node = child
		}
	}
	return root
}

func splitSegments(p string) []string {
	raw := strings.Split(p, "/")
	parts := raw[:0]
	for _, s := range raw {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// sortedChildren orders directories before files, then by name.
func (n *TreeNode) sortedChildren() []*TreeNode {
	children := make([]*TreeNode, 0, len(n.Children))
	for _, c := range n.Children {
		children = append(children, c)
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].IsFile != children[j].IsFile {
			return !children[i].IsFile
		}
		return children[i].Name < children[j].Name
	})
	return children
}

// RenderTree renders the outline: two spaces of indentation per depth, "+ "
// before directories and "- " before files.
func RenderTree(root *TreeNode) string {
	var lines []string
	var walk func(n *TreeNode, indent string)
	walk = func(n *TreeNode, indent string) {
		for _, child := range n.sortedChildren() {
			marker := "+ "
			if child.IsFile {
				marker = "- "
			}
			lines = append(lines, indent+marker+child.Name)
			walk(child, indent+"  ")
		}
	}
	walk(root, "")
	return strings.Join(lines, "\n")
}

// TreeSummary renders the outline of the given files' paths.
func TreeSummary(files []FileContent) string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return RenderTree(BuildTree(paths))
}
