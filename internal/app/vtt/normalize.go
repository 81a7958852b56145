// Package vtt turns WebVTT caption tracks into plain text.
package vtt

import (
	"strings"

	"github.com/samber/lo"
)

const (
	headerMarker = "WEBVTT"
	utf8BOM      = "\ufeff"
)

// Normalize strips the header marker, cue-timing lines and blank lines from a
// caption track and joins the remaining caption text with newlines, keeping
// the original order. It is idempotent.
func Normalize(captionText string) string {
	lines := strings.Split(captionText, "\n")
	kept := lo.FilterMap(lines, func(line string, _ int) (string, bool) {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || IsHeader(line) || IsCueTiming(line) {
			return "", false
		}
		return line, true
	})
	return strings.Join(kept, "\n")
}

// IsHeader reports whether line is the WebVTT header marker, optionally
// followed by a space or tab and free text.
func IsHeader(line string) bool {
	line = strings.TrimPrefix(line, utf8BOM)
	if !strings.HasPrefix(line, headerMarker) {
		return false
	}
	rest := line[len(headerMarker):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// IsCueTiming reports whether the whole line is a cue-timing line: one time
// code, or two joined by "-->" with optional cue settings after the second.
func IsCueTiming(line string) bool {
	p := parser{s: strings.TrimSpace(line)}
	if !p.timecode() {
		return false
	}
	p.spaces()
	if p.done() {
		return true
	}
	if !p.literal("-->") {
		return false
	}
	p.spaces()
	if !p.timecode() {
		return false
	}
	if p.done() {
		return true
	}
	// cue settings such as "align:start position:10%" must be space separated
	return p.spaces() > 0
}

// parser is a cursor over one line for the cue-timing grammar:
//
//	timing   = timecode [ ws* "-->" ws* timecode [ ws+ settings ] ]
//	timecode = hours ":" MM ":" SS [ ("." | ",") mmm ]
//	         | MM ":" SS ("." | ",") mmm
type parser struct {
	s   string
	pos int
}

func (p *parser) done() bool {
	return p.pos >= len(p.s)
}

func (p *parser) literal(lit string) bool {
	if strings.HasPrefix(p.s[p.pos:], lit) {
		p.pos += len(lit)
		return true
	}
	return false
}

func (p *parser) spaces() int {
	n := 0
	for !p.done() && (p.s[p.pos] == ' ' || p.s[p.pos] == '\t') {
		p.pos++
		n++
	}
	return n
}

func (p *parser) digits() string {
	start := p.pos
	for !p.done() && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	return p.s[start:p.pos]
}

// timecode consumes one time code, restoring the cursor on failure.
func (p *parser) timecode() bool {
	start := p.pos
	ok := p.scanTimecode()
	if !ok {
		p.pos = start
	}
	return ok
}

func (p *parser) scanTimecode() bool {
	fields := make([]string, 0, 3)
	for {
		d := p.digits()
		if d == "" {
			return false
		}
		fields = append(fields, d)
		if len(fields) == 3 || !p.literal(":") {
			break
		}
	}

	switch len(fields) {
	case 2:
		if !twoDigitSexagesimal(fields[0]) || !twoDigitSexagesimal(fields[1]) {
			return false
		}
	case 3:
		if len(fields[0]) < 2 || !twoDigitSexagesimal(fields[1]) || !twoDigitSexagesimal(fields[2]) {
			return false
		}
	default:
		return false
	}

	fraction := p.literal(".") || p.literal(",")
	if fraction && len(p.digits()) != 3 {
		return false
	}
	// without hours a bare "10:30" is ordinary caption text
	return fraction || len(fields) == 3
}

func twoDigitSexagesimal(s string) bool {
	return len(s) == 2 && s[0] <= '5'
}
