package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agusx1211/promptpack/prompt"
	"github.com/agusx1211/promptpack/tokens"
)

type reportItem struct {
	Label  string
	Path   string
	Tokens int
	Files  int
	IsDir  bool
}

func sortReportItems(items []reportItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Tokens == items[j].Tokens {
			return items[i].Label < items[j].Label
		}
		return items[i].Tokens > items[j].Tokens
	})
}

func formatPercent(n, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)*100/float64(total))
}

func formatDirPathForReport(p string) string {
	return strings.TrimSuffix(p, "/") + "/"
}

func modelLabel(info tokens.Info) string {
	if info.Approximate {
		return info.Model + " (approximate)"
	}
	return info.Model
}

// buildTokenReport prints the prompt's total token count and, when detailed,
// a breakdown of the per-file counts by directory.
func buildTokenReport(files []prompt.FileContent, counts []int, total tokens.Info, detailed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d\n", total.Tokens)
	if !detailed {
		return b.String()
	}

	subtreeTokens := make(map[string]int)
	subtreeFiles := make(map[string]int)
	children := make(map[string]map[string]bool)
	dirs := make(map[string]bool)
	pathTokens := 0

	for i, f := range files {
		n := 0
		if i < len(counts) {
			n = counts[i]
		}
		pathTokens += n
		p := prompt.NormalizePath(f.Path)
		subtreeTokens[p] += n
		subtreeFiles[p]++

		parent := ""
		segs := strings.Split(p, "/")
		for j := 1; j <= len(segs); j++ {
			node := strings.Join(segs[:j], "/")
			if children[parent] == nil {
				children[parent] = make(map[string]bool)
			}
			children[parent][node] = true
			if j < len(segs) {
				dirs[node] = true
				subtreeTokens[node] += n
				subtreeFiles[node]++
			}
			parent = node
		}
	}

	nonPathTokens := total.Tokens - pathTokens
	if nonPathTokens < 0 {
		nonPathTokens = 0
	}
	fmt.Fprintf(&b, "\nmodel: %s\n", modelLabel(total))
	fmt.Fprintf(&b, "path tokens: %d\n", pathTokens)
	fmt.Fprintf(&b, "non-path tokens: %d\n", nonPathTokens)

	itemFor := func(p string) reportItem {
		it := reportItem{Label: p, Path: p, Tokens: subtreeTokens[p], Files: subtreeFiles[p], IsDir: dirs[p]}
		if it.IsDir {
			it.Label = formatDirPathForReport(p)
		}
		return it
	}
	writeItem := func(it reportItem) {
		if it.IsDir {
			fmt.Fprintf(&b, "%d\t%s\t(%s, %d files)\n", it.Tokens, it.Label, formatPercent(it.Tokens, pathTokens), it.Files)
			return
		}
		fmt.Fprintf(&b, "%d\t%s\t(%s)\n", it.Tokens, it.Label, formatPercent(it.Tokens, pathTokens))
	}
	writeList := func(title string, items []reportItem, limit int) {
		sortReportItems(items)
		fmt.Fprintf(&b, "\n%s:\n", title)
		n := len(items)
		if n > limit {
			n = limit
		}
		for _, it := range items[:n] {
			writeItem(it)
		}
		if len(items) > n {
			fmt.Fprintf(&b, "...\n")
		}
	}

	const maxLines = 20

	var topLevel []reportItem
	for p := range children[""] {
		if subtreeTokens[p] > 0 {
			topLevel = append(topLevel, itemFor(p))
		}
	}
	writeList("top-level (by path tokens)", topLevel, maxLines)

	fmt.Fprintf(&b, "\ndominant path:\n")
	current := ""
	for depth := 0; depth < 8; depth++ {
		best, bestTokens := "", 0
		for child := range children[current] {
			tok := subtreeTokens[child]
			if tok > bestTokens || (tok == bestTokens && tok > 0 && child < best) {
				best, bestTokens = child, tok
			}
		}
		if best == "" || bestTokens == 0 {
			break
		}
		writeItem(itemFor(best))
		if !dirs[best] {
			break
		}
		current = best
	}

	var dirItems []reportItem
	for d := range dirs {
		if subtreeTokens[d] > 0 {
			dirItems = append(dirItems, itemFor(d))
		}
	}
	writeList("top directories (subtree)", dirItems, maxLines)

	var fileItems []reportItem
	for i, f := range files {
		if i < len(counts) && counts[i] > 0 {
			p := prompt.NormalizePath(f.Path)
			fileItems = append(fileItems, reportItem{Label: p, Path: p, Tokens: counts[i], Files: 1})
		}
	}
	writeList("top files", fileItems, maxLines)

	return b.String()
}

// formatFileCounts lists each file's tokens in selection order with a total.
func formatFileCounts(files []prompt.FileContent, counts []int, total tokens.Info) string {
	var b strings.Builder
	sum := 0
	for i, f := range files {
		fmt.Fprintf(&b, "%d\t%s\n", counts[i], f.Path)
		sum += counts[i]
	}
	fmt.Fprintf(&b, "%d\ttotal (%d files, %s)\n", sum, len(files), modelLabel(total))
	return b.String()
}

func budgetWarning(count, budget int) string {
	if budget <= 0 || count <= budget {
		return ""
	}
	return fmt.Sprintf("warning: prompt is %d tokens, over the budget of %d by %d", count, budget, count-budget)
}
