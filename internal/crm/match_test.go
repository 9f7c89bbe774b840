package crm

import "testing"

func TestPairKeys(t *testing.T) {
	t.Parallel()

	matches := &Matches{Items: []*Match{
		{PropertyID: 1, BuyerID: 10},
		{PropertyID: 2, BuyerID: 10},
		{PropertyID: 1, BuyerID: 10},
	}}

	set := matches.PairKeys()

	if len(set) != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", len(set))
	}
	if !set.Has(PairKey(1, 10)) || !set.Has(PairKey(2, 10)) {
		t.Fatalf("missing expected keys: %v", set)
	}
	if set.Has(PairKey(10, 1)) {
		t.Fatalf("pair keys must be order sensitive")
	}
}
