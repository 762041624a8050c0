package quotes

import (
	"math/rand/v2"
	"slices"
	"testing"
)

// fixedRand always returns the same fraction of n.
type fixedRand struct{ zero bool }

func (f fixedRand) IntN(n int) int {
	if f.zero {
		return 0
	}
	return n / 2
}

func TestAll_AtLeastThirty(t *testing.T) {
	if n := len(All()); n < 30 {
		t.Errorf("len(All) = %d, want >= 30", n)
	}
}

func TestShuffled_IsPermutation(t *testing.T) {
	got := Shuffled(5, fixedRand{})
	slices.Sort(got)
	if !slices.Equal(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Shuffled = %v, want permutation of 0..4", got)
	}
	if got := Shuffled(0, fixedRand{}); len(got) != 0 {
		t.Errorf("Shuffled(0) = %v", got)
	}
}

func TestDraw_NoImmediateRepeatOnRefill(t *testing.T) {
	// With IntN always 0 a refill of three is [1 2 0].
	for last := 0; last < 3; last++ {
		idx, _ := Draw(Bag{History: []int{last}}, 3, fixedRand{zero: true})
		if idx == last {
			t.Errorf("history %d: drew %d again", last, idx)
		}
	}
}

func TestDraw_ExhaustsBagBeforeRepeating(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	n := 10
	bag := Bag{}
	seen := map[int]bool{}
	for i := 0; i < n; i++ {
		var idx int
		idx, bag = Draw(bag, n, r)
		if seen[idx] {
			t.Fatalf("index %d repeated within one bag", idx)
		}
		seen[idx] = true
	}
	if len(bag.Remaining) != 0 {
		t.Errorf("Remaining = %v, want empty", bag.Remaining)
	}
	if len(bag.History) != HistoryLimit {
		t.Errorf("len(History) = %d, want %d", len(bag.History), HistoryLimit)
	}
}

func TestDraw_DoesNotMutateInput(t *testing.T) {
	bag := Bag{Remaining: []int{3, 4}, History: []int{1}}
	idx, next := Draw(bag, 5, fixedRand{})
	if idx != 3 {
		t.Errorf("idx = %d, want 3", idx)
	}
	if !slices.Equal(bag.Remaining, []int{3, 4}) {
		t.Errorf("input bag mutated: %v", bag.Remaining)
	}
	if !slices.Equal(next.History, []int{3, 1}) {
		t.Errorf("History = %v, want [3 1]", next.History)
	}
}

func TestSanitizeAndDecode(t *testing.T) {
	bag := DecodeBag(`{"remaining":[0,7,-1,2],"history":[9,1]}`, 5)
	if !slices.Equal(bag.Remaining, []int{0, 2}) || !slices.Equal(bag.History, []int{1}) {
		t.Errorf("DecodeBag = %+v", bag)
	}
	if got := DecodeBag("garbage", 5); len(got.Remaining) != 0 || len(got.History) != 0 {
		t.Errorf("DecodeBag(garbage) = %+v", got)
	}
	round := DecodeBag(EncodeBag(Bag{Remaining: []int{1}, History: []int{2}}), 5)
	if !slices.Equal(round.Remaining, []int{1}) || !slices.Equal(round.History, []int{2}) {
		t.Errorf("round trip = %+v", round)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := parse([]byte("quotes: []")); err == nil {
		t.Error("expected error for empty catalog")
	}
	if _, err := parse([]byte("quotes: [")); err == nil {
		t.Error("expected error for bad yaml")
	}
}
