package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAPI(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"canonical", "API # 33-053-06755", "33-053-06755"},
		{"label with colon", "API: 33-053-06755", "33-053-06755"},
		{"spaced dashes", "API # 33 - 053 - 06755", "33-053-06755"},
		{"api number label", "API Number: 33-105-01234", "33-105-01234"},
		{"raw ten digits", "API: 3305306755", "33-053-06755"},
		{"space separated triple", "the api is 33 053 06755 per filing", "33-053-06755"},
		{"bare canonical no label", "well 33-053-06755 completed", "33-053-06755"},
		{"absent", "no identifier in this text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAPI(tt.text))
		})
	}
}

func TestExtractAPIPrefersSurveyRegion(t *testing.T) {
	// The commingled header API appears first in the document, but the
	// survey block carries the well's own number.
	text := "Commingling approved for API 33-999-99999\n" +
		"APPLICATION FOR PERMIT\nAPI # 33-053-06755\nOperator: Acme"
	assert.Equal(t, "33-053-06755", ExtractAPI(text))
}

func TestFormatAPINumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"33-053-06755", "33-053-06755"},
		{"3305306755", "33-053-06755"},
		{"33 053 06755", "33-053-06755"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAPINumber(tt.in))
		})
	}
}
