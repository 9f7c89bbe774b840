package crm

// BuyerStatusNew is the status assigned to buyer leads that nobody has
// picked up yet. The backend stores the Hebrew UI value as-is.
const BuyerStatusNew = "קונה חדש"

type Buyers struct {
	Items []*Buyer
}

// Buyer is a buyer/renter request. All preference fields are optional: a
// missing preference means the buyer does not care about that attribute.
type Buyer struct {
	ID                  int      `json:"id,omitempty"`
	DesiredArea         *string  `json:"desired_area,omitempty"`
	DesiredRooms        *float64 `json:"desired_rooms,omitempty"`
	DesiredPropertyType *string  `json:"desired_property_type,omitempty"`
	RequestCategory     *string  `json:"request_category,omitempty"`
	Budget              *float64 `json:"budget,omitempty"`
	Status              string   `json:"status,omitempty"`
	ContactID           int      `json:"contact_id,omitempty"`
	CreatedDate         string   `json:"created_date,omitempty"`
}

func (b *Buyers) Len() int {
	return len(b.Items)
}
