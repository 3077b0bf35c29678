// Package trie is the prefix index behind text-field autocomplete.
package trie

import (
	"strings"

	"golang.org/x/text/cases"
)

type node struct {
	children map[rune]*node
	word     bool
}

func newNode() *node {
	return &node{children: make(map[rune]*node)}
}

// Index is a case-insensitive prefix tree of known words. Words are only
// ever added.
type Index struct {
	root  *node
	words int
	fold  cases.Caser
}

// New returns an empty index.
func New() *Index {
	return &Index{root: newNode(), fold: cases.Fold()}
}

func (x *Index) normalize(s string) string {
	return x.fold.String(s)
}

// Insert adds word to the index. Blank words are ignored.
func (x *Index) Insert(word string) {
	if strings.TrimSpace(word) == "" {
		return
	}
	cur := x.root
	for _, ch := range x.normalize(word) {
		next, ok := cur.children[ch]
		if !ok {
			next = newNode()
			cur.children[ch] = next
		}
		cur = next
	}
	if !cur.word {
		cur.word = true
		x.words++
	}
}

// Complete returns the characters that extend prefix to the first word in
// lexicographic order, found by always descending into the smallest child.
// It returns "" when nothing extends prefix or prefix is already a word.
// The suffix is case-folded.
func (x *Index) Complete(prefix string) string {
	cur := x.find(x.normalize(prefix))
	if cur == nil {
		return ""
	}

	var suffix strings.Builder
	for !cur.word {
		ch, next := firstChild(cur)
		if next == nil {
			// Unreachable for nodes created by Insert: every leaf is a word.
			return suffix.String()
		}
		suffix.WriteRune(ch)
		cur = next
	}
	return suffix.String()
}

// Contains reports whether word was inserted.
func (x *Index) Contains(word string) bool {
	n := x.find(x.normalize(word))
	return n != nil && n.word
}

// Len is the number of distinct words inserted.
func (x *Index) Len() int { return x.words }

func (x *Index) find(folded string) *node {
	cur := x.root
	for _, ch := range folded {
		next, ok := cur.children[ch]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func firstChild(n *node) (rune, *node) {
	var (
		best  rune
		child *node
	)
	for ch, c := range n.children {
		if child == nil || ch < best {
			best, child = ch, c
		}
	}
	return best, child
}
