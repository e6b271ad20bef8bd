package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{
			name:   "edit url",
			in:     "https://docs.google.com/spreadsheets/d/1AbC_d-3xyz/edit#gid=0",
			want:   "1AbC_d-3xyz",
			wantOK: true,
		},
		{
			name:   "bare share url",
			in:     "https://docs.google.com/spreadsheets/d/XYZ123/",
			want:   "XYZ123",
			wantOK: true,
		},
		{
			name:   "not a sheets url",
			in:     "https://example.com/page",
			wantOK: false,
		},
		{
			name:   "empty",
			in:     "",
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractSpreadsheetID(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractSheetGID(t *testing.T) {
	gid, ok := ExtractSheetGID("https://docs.google.com/spreadsheets/d/abc/edit#gid=1234")
	assert.True(t, ok)
	assert.Equal(t, int64(1234), gid)

	gid, ok = ExtractSheetGID("https://docs.google.com/spreadsheets/d/abc/edit?gid=77")
	assert.True(t, ok)
	assert.Equal(t, int64(77), gid)

	_, ok = ExtractSheetGID("https://docs.google.com/spreadsheets/d/abc/edit")
	assert.False(t, ok)
}
