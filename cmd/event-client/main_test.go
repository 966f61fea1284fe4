package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		msg    string
		pretty bool
		want   string
	}{
		{"raw passthrough", `{"type":"content.created","slug":"a"}`, false, `{"type":"content.created","slug":"a"}`},
		{"pretty json", `{"slug":"a","type":"content.created"}`, true, "{\n  \"slug\": \"a\",\n  \"type\": \"content.created\"\n}"},
		{"pretty non-json", "  hello \n", true, "hello"},
		{"raw non-json keeps spacing", "hello \n", false, "hello \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, format([]byte(tt.msg), tt.pretty))
		})
	}
}
