package matching

import "github.com/nadlan-crm/brokerctl/internal/crm"

// Score points per rule. The rules are independent and additive; a full
// match is 100.
const (
	areaPoints = 20
	roomPoints = 20
	typePoints = 25
	dealPoints = 15

	budgetWithin   = 20
	budgetOver10   = 15
	budgetOver20   = 10
	budgetUnknown  = 10
	budgetTolerant = 1.10

	// MinScore is the lowest score that still produces a match.
	MinScore = 60

	// StrictScore is the fixed score assigned by the strict generator,
	// matching what the manual match form defaults to.
	StrictScore = 85
)

// wantsExactly is the tri-state preference comparison: a buyer with no
// preference on an attribute accepts any value.
func wantsExactly[T comparable](value T, preference *T) bool {
	return preference == nil || *preference == value
}

// Score computes the compatibility score between a property and a buyer.
// The result is always in [0, 100].
func Score(p *crm.Property, b *crm.Buyer) int {
	score := 0

	if wantsExactly(p.Area, b.DesiredArea) {
		score += areaPoints
	}

	if wantsExactly(p.Rooms, b.DesiredRooms) {
		score += roomPoints
	}

	if wantsExactly(p.PropertyType, b.DesiredPropertyType) {
		score += typePoints
	}

	if wantsExactly(p.ListingType, b.RequestCategory) {
		score += dealPoints
	}

	score += budgetPoints(p.Price, b.Budget)

	return score
}

func budgetPoints(price, budget *float64) int {
	if price == nil || budget == nil || *price == 0 || *budget == 0 {
		// Partial credit when either side is unknown.
		return budgetUnknown
	}

	ratio := *price / *budget
	switch {
	case ratio <= 1.0:
		return budgetWithin
	case ratio <= 1.10:
		return budgetOver10
	case ratio <= 1.20:
		return budgetOver20
	default:
		return 0
	}
}

// strictEligible requires every categorical preference to be present and to
// match exactly, and the price to be within 10% of a known budget. No
// wildcards, no partial credit.
func strictEligible(p *crm.Property, b *crm.Buyer) bool {
	if b.DesiredArea == nil || p.Area != *b.DesiredArea {
		return false
	}
	if b.DesiredRooms == nil || p.Rooms != *b.DesiredRooms {
		return false
	}
	if b.DesiredPropertyType == nil || p.PropertyType != *b.DesiredPropertyType {
		return false
	}
	if b.RequestCategory == nil || p.ListingType != *b.RequestCategory {
		return false
	}
	if p.Price == nil || b.Budget == nil || *b.Budget == 0 {
		return false
	}

	return *p.Price <= *b.Budget*budgetTolerant
}
