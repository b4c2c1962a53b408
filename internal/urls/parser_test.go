package urls

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		lineNum int
		want    Entry
		wantErr error
	}{
		{
			name: "pipe separated",
			line: "Example|https://example.com",
			want: Entry{Name: "Example", URL: "https://example.com"},
		},
		{
			name: "comma separated without scheme",
			line: "Example,example.com",
			want: Entry{Name: "Example", URL: "https://example.com"},
		},
		{
			name: "tab separated",
			line: "Example\thttps://example.com",
			want: Entry{Name: "Example", URL: "https://example.com"},
		},
		{
			name:    "bare url gets synthetic name",
			line:    "example.com",
			lineNum: 7,
			want:    Entry{Name: "URL_7", URL: "https://example.com"},
		},
		{
			name:    "separator with empty name",
			line:    "|example.com",
			lineNum: 3,
			want:    Entry{Name: "URL_3", URL: "https://example.com"},
		},
		{
			name: "pipe wins over comma",
			line: "A, Inc|https://a.com",
			want: Entry{Name: "A, Inc", URL: "https://a.com"},
		},
		{
			name:    "blank line skipped",
			line:    "   ",
			wantErr: ErrLineSkipped,
		},
		{
			name:    "comment skipped",
			line:    "# a comment",
			wantErr: ErrLineSkipped,
		},
		{
			name:    "url with space rejected",
			line:    "Bad|exa mple.com",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "no dot rejected",
			line:    "Bad|localhost",
			wantErr: ErrInvalidURL,
		},
		{
			name:    "leading dot rejected",
			line:    ".example.com",
			wantErr: ErrInvalidURL,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLine(tc.line, tc.lineNum)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestIsValidURL(t *testing.T) {
	t.Parallel()

	require.True(t, IsValidURL("example.com"))
	require.True(t, IsValidURL("https://example.com/path"))
	require.True(t, IsValidURL("example.com/a%20b"), "percent-encoded spaces are allowed")
	require.False(t, IsValidURL(""))
	require.False(t, IsValidURL("https://"))
	require.False(t, IsValidURL("@example.com"))
	require.False(t, IsValidURL("/example.com"))
	require.False(t, IsValidURL("exa mple.com"))
}

func TestNormalizeURLIdempotent(t *testing.T) {
	t.Parallel()

	require.Equal(t, "https://x.com", NormalizeURL("x.com"))
	require.Equal(t, "https://x.com", NormalizeURL(NormalizeURL("x.com")))
	require.Equal(t, "http://x.com", NormalizeURL("http://x.com"))
}

func TestParseTableHeaderDetection(t *testing.T) {
	t.Parallel()

	withHeader := [][]string{
		{"Name", "URL"},
		{"Acme", "https://acme.com"},
		{"Beta", "beta.example.org"},
	}
	withoutHeader := withHeader[1:]

	gotHeader, issues := ParseTable(withHeader)
	require.Empty(t, issues)
	gotPlain, issues := ParseTable(withoutHeader)
	require.Empty(t, issues)
	require.Equal(t, gotPlain, gotHeader, "header row must not change the entry set")

	want := []Entry{
		{Name: "Acme", URL: "https://acme.com"},
		{Name: "Beta", URL: "https://beta.example.org"},
	}
	require.Equal(t, want, gotHeader)
}

func TestParseTableNonHeaderFirstRowKept(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Acme", "https://acme.com"},
		{"Beta", "https://beta.com"},
	}
	entries, issues := ParseTable(rows)
	require.Empty(t, issues)
	require.Len(t, entries, 2)
	require.Equal(t, "Acme", entries[0].Name)
}

func TestParseTableSkipsBadRows(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Name", "URL"},
		{"", "https://acme.com"},
		{"Beta", ""},
		{"short"},
		{"Bad", "no spaces all owed.com"},
		{"Good", "good.example.com"},
	}
	entries, issues := ParseTable(rows)
	require.Len(t, entries, 1)
	require.Equal(t, Entry{Name: "Good", URL: "https://good.example.com"}, entries[0])
	require.Len(t, issues, 4)
}
