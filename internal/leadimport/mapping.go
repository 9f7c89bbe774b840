package leadimport

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// columnMapping maps the Hebrew headers of the marketing export to the lead
// record fields. Columns not listed here are dropped.
var columnMapping = map[string]string{
	"מספר טלפון":         "phone_number",
	"שם פרטי":            "first_name",
	"שם משפחה":           "last_name",
	"תקציב":              "budget",
	"שכונה":              "neighborhood",
	"רחוב":               "street",
	"חדרים - מ":          "rooms_min",
	"חדרים - עד":         "rooms_max",
	"סוג לקוח":           "client_type",
	"רצינות":             "seriousness",
	"הערות נוספות":       "additional_notes",
	"ביקש לא לקבל דיוור": "opt_out_whatsapp",
}

var nonDigits = regexp.MustCompile(`\D`)

// normalizePhone strips everything but digits and rewrites the number to
// international form: a leading zero becomes the 972 country code, and a
// number without any prefix gets 972 prepended.
func normalizePhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if digits == "" {
		return ""
	}

	switch {
	case strings.HasPrefix(digits, "0"):
		return "972" + digits[1:]
	case strings.HasPrefix(digits, "972"):
		return digits
	default:
		return "972" + digits
	}
}

// cleanBudget removes the shekel sign and thousands separators.
func cleanBudget(budget string) string {
	return strings.TrimSpace(strings.NewReplacer("₪", "", ",", "").Replace(budget))
}

// MapRow converts a parsed CSV row into a lead record. Only mapped columns
// are copied; empty values are omitted rather than stored as empty strings.
// importDate is stamped on every record.
func MapRow(row Row, importDate string) map[string]any {
	record := map[string]any{
		"import_date": importDate,
	}

	for column, field := range columnMapping {
		raw := row.Fields[column]

		switch field {
		case "phone_number":
			if phone := normalizePhone(raw); phone != "" {
				record[field] = phone
			}
		case "budget":
			if budget := cleanBudget(raw); budget != "" {
				record[field] = budget
			}
		case "rooms_min", "rooms_max":
			// Unparsable room counts become 0, matching the export's
			// habit of leaving these blank.
			record[field] = cast.ToInt(strings.TrimSpace(raw))
		default:
			if value := strings.TrimSpace(raw); value != "" {
				record[field] = value
			}
		}
	}

	return record
}

func recordString(record map[string]any, field string) string {
	value, _ := record[field].(string)
	return value
}
