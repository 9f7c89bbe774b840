package crm

type Properties struct {
	Items []*Property
}

type Property struct {
	ID           int      `json:"id,omitempty"`
	Area         string   `json:"area,omitempty"`
	Rooms        float64  `json:"rooms,omitempty"`
	PropertyType string   `json:"property_type,omitempty"`
	ListingType  string   `json:"listing_type,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	Category     string   `json:"category,omitempty"`
	City         string   `json:"city,omitempty"`
	ContactID    int      `json:"contact_id,omitempty"`
}

func (p *Properties) Len() int {
	return len(p.Items)
}
