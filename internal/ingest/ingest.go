// Package ingest parses bulk coordinate lists pasted by an operator into
// a closed ring, the non-interactive alternative to the polygon editor.
// Pure parsing: the caller decides whether to hand the result to the
// editor or commit it directly.
package ingest

import (
	"strconv"
	"strings"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
)

// Parser validates pasted coordinates against the deployment bounding box
type Parser struct {
	bounds geo.Bounds
}

// NewParser creates a parser for the given bounding box
func NewParser(bounds geo.Bounds) *Parser {
	return &Parser{bounds: bounds}
}

// Parse converts coordinate lines into a closed ring. Each line must
// split into exactly two numeric tokens (lat, lng), comma or whitespace
// separated; blank lines are skipped. Failures report the offending
// 1-based line number. Auto-closing is idempotent: a final line that
// already duplicates the first is preserved, not doubled.
func (p *Parser) Parse(lines []string) (domain.Ring, error) {
	points := make([]domain.Coordinate, 0, len(lines))
	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		c, err := parseLine(line)
		if err != nil {
			return nil, &domain.LineError{Line: i + 1, Text: line, Err: domain.ErrMalformedLine}
		}
		if !geo.IsValidCoordinate(c, p.bounds) {
			return nil, &domain.LineError{Line: i + 1, Text: line, Err: domain.ErrLineOutOfBounds}
		}
		points = append(points, c)
	}
	if len(points) < geo.MinRingVertices {
		return nil, domain.ErrInsufficientPoints
	}
	ring, err := geo.CloseRing(points)
	if err != nil {
		return nil, err
	}
	return ring, nil
}

// ParseText splits raw pasted text on newlines and parses it
func (p *Parser) ParseText(text string) (domain.Ring, error) {
	return p.Parse(strings.Split(text, "\n"))
}

func parseLine(line string) (domain.Coordinate, error) {
	line = strings.ReplaceAll(line, ",", " ")
	tokens := strings.Fields(line)
	if len(tokens) != 2 {
		return domain.Coordinate{}, domain.ErrMalformedLine
	}
	lat, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return domain.Coordinate{}, domain.ErrMalformedLine
	}
	lng, err := strconv.ParseFloat(tokens[1], 64)
	if err != nil {
		return domain.Coordinate{}, domain.ErrMalformedLine
	}
	return domain.Coordinate{Lat: lat, Lng: lng}, nil
}
