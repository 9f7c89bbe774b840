package crm

import "testing"

func TestAPIErrorIsRateLimit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  *APIError
		want bool
	}{
		{
			name: "proper 429",
			err:  &APIError{StatusCode: 429, Message: "slow down"},
			want: true,
		},
		{
			name: "400 with a rate limit message",
			err:  &APIError{StatusCode: 400, Message: "Rate limit exceeded, retry later"},
			want: true,
		},
		{
			name: "500 mentioning 429 upstream",
			err:  &APIError{StatusCode: 500, Message: "upstream returned 429"},
			want: true,
		},
		{
			name: "plain validation failure",
			err:  &APIError{StatusCode: 400, Message: "phone_number is invalid"},
			want: false,
		},
		{
			name: "not found",
			err:  &APIError{StatusCode: 404, Message: "no such buyer"},
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.IsRateLimit(); got != tc.want {
				t.Fatalf("IsRateLimit() = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestMessageFromBody(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		body   string
		status string
		want   string
	}{
		{name: "detail field", body: `{"detail": "Rate limit exceeded"}`, want: "Rate limit exceeded"},
		{name: "message field", body: `{"message": "bad token"}`, want: "bad token"},
		{name: "plain text body", body: "service unavailable", want: "service unavailable"},
		{name: "empty body falls back to the status line", body: "", status: "502 Bad Gateway", want: "502 Bad Gateway"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := messageFromBody([]byte(tc.body), tc.status); got != tc.want {
				t.Fatalf("messageFromBody(%q) = %q, expected %q", tc.body, got, tc.want)
			}
		})
	}
}
