package leadimport

import "testing"

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
	}{
		{input: "0501234567", want: "972501234567"},
		{input: "501234567", want: "972501234567"},
		{input: "972501234567", want: "972501234567"},
		{input: "050-123-4567", want: "972501234567"},
		{input: "+972 50 123 4567", want: "972501234567"},
		{input: "", want: ""},
		{input: "phone", want: ""},
	}

	for _, tc := range cases {
		if got := normalizePhone(tc.input); got != tc.want {
			t.Fatalf("normalizePhone(%q) = %q, expected %q", tc.input, got, tc.want)
		}
	}
}

func TestCleanBudget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  string
	}{
		{input: "₪1,500,000", want: "1500000"},
		{input: "1500000", want: "1500000"},
		{input: " ₪2,000 ", want: "2000"},
		{input: "", want: ""},
	}

	for _, tc := range cases {
		if got := cleanBudget(tc.input); got != tc.want {
			t.Fatalf("cleanBudget(%q) = %q, expected %q", tc.input, got, tc.want)
		}
	}
}

func TestMapRow(t *testing.T) {
	t.Parallel()

	row := Row{
		Line: 2,
		Fields: map[string]string{
			"מספר טלפון": "050-1234567",
			"שם פרטי":    "דנה",
			"תקציב":      "₪1,500,000",
			"חדרים - מ":  "3",
			"חדרים - עד": "not a number",
			"סוג לקוח":   "קונה",
			"שם משפחה":   "",
			"ignored":    "dropped",
		},
	}

	record := MapRow(row, "2026-08-28")

	if got := record["phone_number"]; got != "972501234567" {
		t.Fatalf("unexpected phone: %v", got)
	}
	if got := record["budget"]; got != "1500000" {
		t.Fatalf("unexpected budget: %v", got)
	}
	if got := record["rooms_min"]; got != 3 {
		t.Fatalf("unexpected rooms_min: %v", got)
	}
	// Unparsable room counts fall back to zero but stay on the record.
	if got := record["rooms_max"]; got != 0 {
		t.Fatalf("unexpected rooms_max: %v", got)
	}
	if got := record["import_date"]; got != "2026-08-28" {
		t.Fatalf("unexpected import_date: %v", got)
	}

	// Empty and unmapped columns are omitted entirely.
	if _, ok := record["last_name"]; ok {
		t.Fatalf("expected empty last_name to be omitted")
	}
	if _, ok := record["ignored"]; ok {
		t.Fatalf("expected unmapped column to be dropped")
	}
}
