package vtt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single_cue",
			input: "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHello world\n",
			want:  "Hello world",
		},
		{
			name: "interleaved_cues_keep_order",
			input: "WEBVTT - generated\n\n" +
				"00:00:00.000 --> 00:00:02.500\nFirst line\nsecond line of cue\n\n" +
				"00:00:02.500 --> 00:00:04.000 align:start position:10%\nThird\n",
			want: "First line\nsecond line of cue\nThird",
		},
		{
			name:  "crlf",
			input: "WEBVTT\r\n\r\n00:01.000 --> 00:02.000\r\nHi\r\n\r\n",
			want:  "Hi",
		},
		{
			name:  "bom_header",
			input: "\ufeffWEBVTT\n\n00:00.000 --> 00:01.000\nHi",
			want:  "Hi",
		},
		{
			name:  "whitespace_only_lines",
			input: "WEBVTT\n \t \n00:00:00.000 --> 00:00:01.000\n   \nkept\n",
			want:  "kept",
		},
		{
			name:  "lone_timecode_line",
			input: "12:30:00\ncaption",
			want:  "caption",
		},
		{
			name:  "caption_text_resembling_time",
			input: "WEBVTT\n\n00:00:00.000 --> 00:00:03.000\n10:30 is when we meet\nat 09:15:00 sharp\n",
			want:  "10:30 is when we meet\nat 09:15:00 sharp",
		},
		{
			name:  "header_word_inside_text",
			input: "WEBVTT\n\n00:00.000 --> 00:01.000\nWEBVTTX is not a header\nthe WEBVTT format",
			want:  "WEBVTTX is not a header\nthe WEBVTT format",
		},
		{
			name: "caption_line_that_is_only_a_clock_time",
			input: "WEBVTT\n\n00:00.000 --> 00:02.000\nThe meeting starts at\n\n" +
				"00:02.000 --> 00:03.000\n10:30\n",
			want: "The meeting starts at\n10:30",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "header_only",
			input: "WEBVTT\n\n",
			want:  "",
		},
		{
			name:  "plain_text_unchanged",
			input: "Hello world\nGoodbye",
			want:  "Hello world\nGoodbye",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nHello world\n",
		"WEBVTT\n\n00:00.000 --> 00:01.000\nWEBVTT is great\n",
		"a\r\r\n\r\nb\r",
		"  indented\n\t\ttabbed\n",
		"00:00:01,000 --> 00:00:02,000\n1\nsrt style\n",
		"\ufeffWEBVTT\n\nNOTE a comment\n\n00:00.000 --> 00:01.000\n<v Bob>Hi</v>\n",
		"",
		"\n\n\n",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestIsCueTiming(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"00:00:00.000 --> 00:00:01.000", true},
		{"00:00.000 --> 00:01.000", true},
		{"00:00:00,000 --> 00:00:01,000", true},
		{"00:00:00.000-->00:00:01.000", true},
		{"  00:00:00.000 --> 00:00:01.000  ", true},
		{"00:00:00.000 --> 00:00:01.000 align:start line:0%", true},
		{"100:00:00.000 --> 100:00:01.000", true},
		{"00:00:00", true},
		{"00:00", false},
		{"10:30", false},
		{"00:00.000", true},
		{"00:00:00.000 -->", false},
		{"00:00:00.000 --> soon", false},
		{"00:00:00.000 --> 00:00:01.000align:start", false},
		{"00:00:00.00 --> 00:00:01.000", false},
		{"0:00:00.000 --> 00:00:01.000", false},
		{"00:60:00.000 --> 00:00:01.000", false},
		{"1:02", false},
		{"10:30 is when we meet", false},
		{"Hello world", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCueTiming(tt.line))
		})
	}
}

func TestIsHeader(t *testing.T) {
	assert.True(t, IsHeader("WEBVTT"))
	assert.True(t, IsHeader("WEBVTT - Some title"))
	assert.True(t, IsHeader("WEBVTT\tkind"))
	assert.True(t, IsHeader("\ufeffWEBVTT"))
	assert.False(t, IsHeader("WEBVTTX"))
	assert.False(t, IsHeader(" WEBVTT"))
	assert.False(t, IsHeader("webvtt"))
}
