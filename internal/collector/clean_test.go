package collector

import "testing"

// TestCleanText verifies truncation markers are stripped and whitespace
// collapses to single spaces.
func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "truncation marker",
			in:   "Acme announced a new product line today. [+1234 chars]",
			want: "Acme announced a new product line today.",
		},
		{
			name: "marker without leading space",
			in:   "Earnings beat expectations.[+87 chars]",
			want: "Earnings beat expectations.",
		},
		{
			name: "whitespace runs",
			in:   "Acme\n\nexpanded\tinto   Europe.\r\n",
			want: "Acme expanded into Europe.",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "marker only",
			in:   "[+999 chars]",
			want: "",
		},
		{
			name: "already clean",
			in:   "Nothing to fix here.",
			want: "Nothing to fix here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
