// Package quotes serves encouragement quotes from a shuffle bag so every
// quote is seen once before any repeats.
package quotes

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// HistoryLimit is how many recent draws the bag remembers.
const HistoryLimit = 4

//go:embed quotes.yaml
var quotesYAML []byte

var (
	loadOnce sync.Once
	all      []string
)

// All returns the quote catalog.
func All() []string {
	loadOnce.Do(func() {
		list, err := parse(quotesYAML)
		if err != nil {
			list = []string{"Small steps, repeated, become big change."}
		}
		all = list
	})
	out := make([]string, len(all))
	copy(out, all)
	return out
}

func parse(data []byte) ([]string, error) {
	var f struct {
		Quotes []string `yaml:"quotes"`
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse quotes: %w", err)
	}
	out := make([]string, 0, len(f.Quotes))
	for _, q := range f.Quotes {
		if q = strings.TrimSpace(q); q != "" {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no quotes defined")
	}
	return out, nil
}

// Rand is the randomness Shuffled and Draw need. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Bag is the persisted draw state: indices still to be drawn and the most
// recent draws, newest first.
type Bag struct {
	Remaining []int `json:"remaining"`
	History   []int `json:"history"`
}

// Shuffled returns a random permutation of 0..n-1 (Fisher-Yates).
func Shuffled(n int, rnd Rand) []int {
	idx := make([]int, max(n, 0))
	for i := range idx {
		idx[i] = i
	}
	for i := len(idx) - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx
}

// Draw takes the next index from bag, refilling it with a fresh shuffle when
// empty. A refill never starts with the quote that was just shown.
func Draw(bag Bag, n int, rnd Rand) (int, Bag) {
	remaining := append([]int(nil), bag.Remaining...)
	if len(remaining) == 0 {
		remaining = Shuffled(n, rnd)
		if len(bag.History) > 0 && len(remaining) > 1 && remaining[0] == bag.History[0] {
			remaining[0], remaining[1] = remaining[1], remaining[0]
		}
	}

	index := 0
	if len(remaining) > 0 {
		index, remaining = remaining[0], remaining[1:]
	}

	history := append([]int{index}, bag.History...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	return index, Bag{Remaining: remaining, History: history}
}

// Sanitize drops indices outside 0..n-1.
func Sanitize(bag Bag, n int) Bag {
	keep := func(in []int) []int {
		out := make([]int, 0, len(in))
		for _, v := range in {
			if v >= 0 && v < n {
				out = append(out, v)
			}
		}
		return out
	}
	return Bag{Remaining: keep(bag.Remaining), History: keep(bag.History)}
}

// DecodeBag parses a stored bag. Invalid input yields an empty bag, which the
// next Draw refills.
func DecodeBag(s string, n int) Bag {
	var bag Bag
	if err := json.Unmarshal([]byte(s), &bag); err != nil {
		return Bag{}
	}
	return Sanitize(bag, n)
}

// EncodeBag serializes bag for storage.
func EncodeBag(bag Bag) string {
	b, err := json.Marshal(bag)
	if err != nil {
		return ""
	}
	return string(b)
}
