// Package header extracts the fenced bootstrap block embedded in a bex file.
package header

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"

	"go.trai.ch/bex/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// BlockType is the type of the block holding the bootstrap declaration.
	BlockType = "bootstrap"

	closeMarker = "///"
)

// Prefixes lists the recognized comment prefixes, longest first.
var Prefixes = []string{"//", "--", "#", ";"}

var openMarkerPattern = regexp.MustCompile(`^/// ([A-Za-z0-9-]+)$`)

// Block is an extracted bootstrap block.
type Block struct {
	// Text is the inner content with the comment prefix stripped per line.
	Text string
	// Prefix is the comment prefix the block was written with.
	Prefix string
	// Line is the 1-based line of the open marker.
	Line int
}

type state uint8

const (
	outside state = iota
	inBootstrap
	inForeign
)

type scanner struct {
	state  state
	prefix string
	start  int
	lines  []string
	found  *Block
}

// Extract finds exactly one bootstrap block in content.
//
// Blocks of other types ("# /// script") are skipped. Every line between the
// open and close markers must carry the same comment prefix as the open marker.
func Extract(content []byte) (*Block, error) {
	s := &scanner{}

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), len(content)+1)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := s.feed(lineNo, strings.TrimSuffix(sc.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to scan file content")
	}

	if s.state == inBootstrap {
		return nil, malformed("bootstrap block is not terminated", s.start)
	}
	if s.found == nil {
		return nil, zerr.Wrap(domain.ErrMissingHeader, `no "/// bootstrap" block found`)
	}
	return s.found, nil
}

func (s *scanner) feed(lineNo int, line string) error {
	switch s.state {
	case inBootstrap:
		return s.feedBootstrap(lineNo, line)
	case inForeign:
		prefix, rest, ok := splitMarker(line)
		if !ok || prefix != s.prefix {
			return nil
		}
		if rest == closeMarker {
			s.state = outside
			return nil
		}
		if m := openMarkerPattern.FindStringSubmatch(rest); m != nil && m[1] == BlockType {
			return malformed("bootstrap block nested in another block", lineNo)
		}
		return nil
	default:
		prefix, rest, ok := splitMarker(line)
		if !ok {
			return nil
		}
		m := openMarkerPattern.FindStringSubmatch(rest)
		if m == nil {
			return nil
		}
		s.prefix = prefix
		s.start = lineNo
		if m[1] != BlockType {
			s.state = inForeign
			return nil
		}
		if s.found != nil {
			return malformed("duplicate bootstrap block", lineNo)
		}
		s.state = inBootstrap
		s.lines = s.lines[:0]
		return nil
	}
}

func (s *scanner) feedBootstrap(lineNo int, line string) error {
	trimmed := strings.TrimRight(line, " \t")

	if trimmed == s.prefix {
		s.lines = append(s.lines, "")
		return nil
	}

	inner, ok := strings.CutPrefix(line, s.prefix+" ")
	if !ok {
		err := malformed("line inside bootstrap block lacks the comment prefix", lineNo)
		return zerr.With(err, "prefix", s.prefix)
	}

	switch {
	case strings.TrimRight(inner, " \t") == closeMarker:
		s.found = &Block{
			Text:   joinLines(s.lines),
			Prefix: s.prefix,
			Line:   s.start,
		}
		s.state = outside
	case openMarkerPattern.MatchString(strings.TrimRight(inner, " \t")):
		return malformed("nested block marker inside bootstrap block", lineNo)
	default:
		s.lines = append(s.lines, inner)
	}
	return nil
}

// splitMarker splits a candidate marker line into its comment prefix and the rest.
func splitMarker(line string) (prefix, rest string, ok bool) {
	line = strings.TrimRight(line, " \t")
	for _, p := range Prefixes {
		if r, found := strings.CutPrefix(line, p+" "); found && strings.HasPrefix(r, closeMarker) {
			return p, r, true
		}
	}
	return "", "", false
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func malformed(msg string, line int) error {
	return zerr.With(zerr.Wrap(domain.ErrMalformedHeader, msg), "line", line)
}
