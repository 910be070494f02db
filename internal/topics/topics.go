package topics

import (
	"sort"
	"strings"
)

// General is the catch-all topic for blank or unrecognized tags.
const General = "general"

// taxonomy maps each canonical topic slug to the alias spellings seen in
// question metadata. Keys and aliases are lowercase and hyphenated.
var taxonomy = map[string][]string{
	"array":               {"arrays", "list", "lists"},
	"string":              {"strings", "string-matching"},
	"linked-list":         {"linkedlist", "linked-lists"},
	"stack":               {"stacks"},
	"queue":               {"queues"},
	"hash-table":          {"hashtable", "hash-map", "hashmap", "dictionary"},
	"tree":                {"trees", "binary-tree", "binary-trees"},
	"graph":               {"graphs"},
	"heap":                {"heaps", "priority-queue"},
	"trie":                {"tries", "prefix-tree"},
	"sorting":             {"sort", "merge-sort", "quick-sort", "heap-sort"},
	"searching":           {"search"},
	"two-pointers":        {"two-pointer", "sliding-window"},
	"dynamic-programming": {"dp"},
	"greedy":              {"greedy-algorithm"},
	"divide-and-conquer":  {},
	"backtracking":        {"backtrack"},
	"recursion":           {"recursive"},
	"bit-manipulation":    {"bitwise"},
	"dfs":                 {"depth-first-search"},
	"bfs":                 {"breadth-first-search"},
	"union-find":          {"disjoint-set"},
	"topological-sort":    {"toposort"},
	"math":                {"mathematics", "mathematical"},
	"geometry":            {"geometric"},
	"combinatorics":       {"permutation", "combination"},
	"number-theory":       {},
	"design":              {"system-design", "oop"},
	"simulation":          {"simulator"},
	"matrix":              {"matrices", "2d-array"},
	"prefix-sum":          {},
	"monotonic-stack":     {},
	"binary-search":       {},
}

// aliasIndex resolves any known spelling to its canonical slug.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]string {
	index := make(map[string]string, len(taxonomy)*2)
	for canonical, aliases := range taxonomy {
		index[canonical] = canonical
		for _, alias := range aliases {
			index[alias] = canonical
		}
	}
	return index
}

// Normalize maps a raw topic tag to its canonical slug. Tags outside the
// taxonomy keep their slugified form; blank tags become General.
func Normalize(raw string) string {
	slug := slugify(raw)
	if slug == "" {
		return General
	}
	if canonical, ok := aliasIndex[slug]; ok {
		return canonical
	}
	return slug
}

// NormalizeAll normalizes a tag list into sorted unique slugs. An empty or
// all-blank input yields [General].
func NormalizeAll(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	for _, tag := range raw {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		seen[Normalize(tag)] = true
	}
	if len(seen) == 0 {
		return []string{General}
	}
	out := make([]string, 0, len(seen))
	for topic := range seen {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out
}

// slugify lowercases a tag, turns separators into single hyphens, and
// strips everything outside [a-z0-9-].
func slugify(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(lowered))
	lastHyphen := false
	for _, c := range lowered {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b.WriteRune(c)
			lastHyphen = false
		case c == '-' || c == '_' || c == ' ' || c == '\t':
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
