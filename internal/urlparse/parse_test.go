package urlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want ParsedURL
	}{
		{
			name: "conversation with number",
			url:  "https://secure.helpscout.net/conversation/2483654381/1234/?folderId=99",
			want: ParsedURL{ResourceType: Conversation, ID: 2483654381, Number: 1234},
		},
		{
			name: "conversation without number",
			url:  "https://secure.helpscout.net/conversation/42",
			want: ParsedURL{ResourceType: Conversation, ID: 42},
		},
		{
			name: "plural path",
			url:  "https://secure.helpscout.net/conversations/42/",
			want: ParsedURL{ResourceType: Conversation, ID: 42},
		},
		{
			name: "customer",
			url:  "https://secure.helpscout.net/customer/584193/",
			want: ParsedURL{ResourceType: Customer, ID: 584193},
		},
		{
			name: "mailbox slug",
			url:  "https://secure.helpscout.net/mailbox/a1b2c3d4e5f6/",
			want: ParsedURL{ResourceType: Mailbox, Slug: "a1b2c3d4e5f6"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"ftp://secure.helpscout.net/conversation/1",
		"https:///conversation/1",
		"https://secure.helpscout.net/conversation/abc",
		"https://secure.helpscout.net/conversation/0",
		"https://secure.helpscout.net/reports/",
		"https://secure.helpscout.net/conversation",
	} {
		_, err := Parse(raw)
		assert.Error(t, err, raw)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://secure.helpscout.net/conversation/1"))
	assert.True(t, IsURL("  HTTP://localhost/x"))
	assert.False(t, IsURL("123"))
	assert.False(t, IsURL("Support"))
}
