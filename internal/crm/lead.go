package crm

import (
	"fmt"
	"strings"
)

type Leads struct {
	Items []*Lead
}

type Lead struct {
	ID              int    `json:"id,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Budget          string `json:"budget,omitempty"`
	Neighborhood    string `json:"neighborhood,omitempty"`
	Street          string `json:"street,omitempty"`
	RoomsMin        int    `json:"rooms_min,omitempty"`
	RoomsMax        int    `json:"rooms_max,omitempty"`
	ClientType      string `json:"client_type,omitempty"`
	Seriousness     string `json:"seriousness,omitempty"`
	AdditionalNotes string `json:"additional_notes,omitempty"`
	OptOutWhatsapp  bool   `json:"opt_out_whatsapp,omitempty"`
	ImportDate      string `json:"import_date,omitempty"`
}

func (l *Leads) Len() int {
	return len(l.Items)
}

// LeadIdentityKey builds the duplicate-detection key for a lead. Name and
// street are compared case-insensitively and without surrounding whitespace.
func LeadIdentityKey(firstName, phone, street string) string {
	return fmt.Sprintf("%s-%s-%s",
		strings.ToLower(strings.TrimSpace(firstName)),
		phone,
		strings.ToLower(strings.TrimSpace(street)),
	)
}

func (l *Lead) IdentityKey() string {
	return LeadIdentityKey(l.FirstName, l.PhoneNumber, l.Street)
}

// LeadKeySet is the set of identity keys already taken, either by leads in
// the backend or by rows accepted earlier in the same import.
type LeadKeySet map[string]struct{}

func (s LeadKeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s LeadKeySet) Add(key string) {
	s[key] = struct{}{}
}

// IdentityKeys builds the duplicate-lookup set for the existing leads.
func (l *Leads) IdentityKeys() LeadKeySet {
	set := make(LeadKeySet, len(l.Items))
	for _, lead := range l.Items {
		set.Add(lead.IdentityKey())
	}

	return set
}
