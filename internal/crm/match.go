package crm

import "fmt"

// StatusMatched is the default status for generated matches. The backend
// stores the Hebrew UI value as-is.
const StatusMatched = "הותאם"

type Matches struct {
	Items []*Match
}

type Match struct {
	ID         int    `json:"id,omitempty"`
	PropertyID int    `json:"property_id"`
	BuyerID    int    `json:"buyer_id"`
	MatchScore int    `json:"match_score"`
	Status     string `json:"status,omitempty"`
}

func (m *Matches) Len() int {
	return len(m.Items)
}

// PairKey identifies a (property, buyer) pair. At most one match may exist
// per key.
func PairKey(propertyID, buyerID int) string {
	return fmt.Sprintf("%d_%d", propertyID, buyerID)
}

func (m *Match) PairKey() string {
	return PairKey(m.PropertyID, m.BuyerID)
}

// PairKeySet is the set of pairs that already have a match.
type PairKeySet map[string]struct{}

func (s PairKeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s PairKeySet) Add(key string) {
	s[key] = struct{}{}
}

// PairKeys builds the lookup set for the existing matches.
func (m *Matches) PairKeys() PairKeySet {
	set := make(PairKeySet, len(m.Items))
	for _, match := range m.Items {
		set.Add(match.PairKey())
	}

	return set
}
