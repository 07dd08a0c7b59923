package models_test

import (
	"testing"

	"socialite/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseMentions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single mention",
			text: "hello @alice how are you",
			want: []string{"alice"},
		},
		{
			name: "multiple mentions in order",
			text: "@bob meet @alice and @carol",
			want: []string{"bob", "alice", "carol"},
		},
		{
			name: "duplicates collapse to first appearance",
			text: "@alice again @bob then @alice once more",
			want: []string{"alice", "bob"},
		},
		{
			name: "dots and underscores are part of the name",
			text: "ping @jo.smith_99",
			want: []string{"jo.smith_99"},
		},
		{
			name: "single character mention is ignored",
			text: "not a tag: @a",
			want: nil,
		},
		{
			name: "no mentions",
			text: "plain text with an email-less at sign @ here",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.ParseMentions(tt.text))
		})
	}
}
