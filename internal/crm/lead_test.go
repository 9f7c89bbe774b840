package crm

import "testing"

func TestLeadIdentityKey(t *testing.T) {
	t.Parallel()

	key := LeadIdentityKey("Dana", "972501234567", "HaShalom 5")

	cases := []struct {
		name   string
		first  string
		phone  string
		street string
		same   bool
	}{
		{name: "identical", first: "Dana", phone: "972501234567", street: "HaShalom 5", same: true},
		{name: "name casing and spacing", first: " dana ", phone: "972501234567", street: "HaShalom 5", same: true},
		{name: "street casing", first: "Dana", phone: "972501234567", street: "hashalom 5", same: true},
		{name: "different phone", first: "Dana", phone: "972509999999", street: "HaShalom 5", same: false},
		{name: "different name", first: "Noa", phone: "972501234567", street: "HaShalom 5", same: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LeadIdentityKey(tc.first, tc.phone, tc.street)
			if (got == key) != tc.same {
				t.Fatalf("LeadIdentityKey(%q, %q, %q) = %q, base %q", tc.first, tc.phone, tc.street, got, key)
			}
		})
	}
}

func TestLeadsIdentityKeys(t *testing.T) {
	t.Parallel()

	leads := &Leads{Items: []*Lead{
		{FirstName: "Dana", PhoneNumber: "972501234567", Street: "HaShalom 5"},
		{FirstName: " DANA ", PhoneNumber: "972501234567", Street: "hashalom 5 "},
		{FirstName: "Noa", PhoneNumber: "972509999999", Street: "Herzl 1"},
	}}

	set := leads.IdentityKeys()

	if len(set) != 2 {
		t.Fatalf("expected 2 distinct keys, got %d", len(set))
	}
	if !set.Has(LeadIdentityKey("dana", "972501234567", "hashalom 5")) {
		t.Fatalf("missing normalized key: %v", set)
	}
}
