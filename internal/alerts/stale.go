package alerts

import (
	"time"

	"github.com/nadlan-crm/brokerctl/internal/crm"
)

// StaleAfter is how long a buyer lead may sit in the "new" status before it
// counts as untreated.
const StaleAfter = 4 * time.Hour

const unknownLeadName = "unknown lead"

// StaleLead is a buyer lead that nobody has picked up in time.
type StaleLead struct {
	BuyerID     int
	ContactName string
	CreatedDate string
}

// StaleBuyers returns the buyers still in the "new" status whose record is
// older than StaleAfter, resolved to their contact names. Buyers with an
// unparsable creation date are skipped.
func StaleBuyers(buyers *crm.Buyers, contacts *crm.Contacts, now time.Time) []StaleLead {
	cutoff := now.Add(-StaleAfter)

	var stale []StaleLead
	for _, buyer := range buyers.Items {
		if buyer.Status != crm.BuyerStatusNew {
			continue
		}

		created, err := parseCreatedDate(buyer.CreatedDate)
		if err != nil {
			continue
		}

		if created.After(cutoff) {
			continue
		}

		name := unknownLeadName
		if contact := contacts.FindByID(buyer.ContactID); contact != nil {
			name = contact.FullName
		}

		stale = append(stale, StaleLead{
			BuyerID:     buyer.ID,
			ContactName: name,
			CreatedDate: buyer.CreatedDate,
		})
	}

	return stale
}

// parseCreatedDate accepts the timestamp formats the backend has produced
// over time.
func parseCreatedDate(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", time.DateOnly} {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, lastErr
}
