package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastarkhwan/backend/internal/domain"
	"github.com/dastarkhwan/backend/internal/geo"
)

func TestParseMixedSeparators(t *testing.T) {
	p := NewParser(geo.DefaultBounds)
	ring, err := p.Parse([]string{
		"31.50, 74.35",
		"31.51 74.35",
		"  31.51,74.36  ",
	})
	require.NoError(t, err)
	require.Len(t, ring, 4)
	assert.True(t, ring.Closed())
	assert.Equal(t, domain.Coordinate{Lat: 31.50, Lng: 74.35}, ring[0])
	assert.Equal(t, domain.Coordinate{Lat: 31.51, Lng: 74.35}, ring[1])
	assert.Equal(t, domain.Coordinate{Lat: 31.51, Lng: 74.36}, ring[2])
}

func TestParseAlreadyClosedInput(t *testing.T) {
	p := NewParser(geo.DefaultBounds)
	ring, err := p.Parse([]string{
		"31.50,74.35",
		"31.51,74.35",
		"31.51,74.36",
		"31.50,74.35",
	})
	require.NoError(t, err)
	assert.Len(t, ring, 4, "closing line must not be doubled")
	assert.True(t, ring.Closed())
}

func TestParseSkipsBlankLinesButKeepsNumbering(t *testing.T) {
	p := NewParser(geo.DefaultBounds)
	_, err := p.Parse([]string{
		"31.50,74.35",
		"",
		"not a coordinate",
	})
	var le *domain.LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 3, le.Line, "blank lines still count toward line numbers")
	assert.ErrorIs(t, err, domain.ErrMalformedLine)
}

func TestParseMalformedLines(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"one token", "31.50"},
		{"three tokens", "31.50 74.35 12"},
		{"non numeric latitude", "abc,74.35"},
		{"non numeric longitude", "31.50,xyz"},
	}
	p := NewParser(geo.DefaultBounds)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse([]string{"31.50,74.35", tt.line})
			var le *domain.LineError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, 2, le.Line)
			assert.ErrorIs(t, err, domain.ErrMalformedLine)
		})
	}
}

func TestParseOutOfBoundsLine(t *testing.T) {
	p := NewParser(geo.DefaultBounds)
	_, err := p.Parse([]string{
		"31.50,74.35",
		"51.50,-0.12",
	})
	var le *domain.LineError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Line)
	assert.ErrorIs(t, err, domain.ErrLineOutOfBounds)
}

func TestParseInsufficientPoints(t *testing.T) {
	p := NewParser(geo.DefaultBounds)
	_, err := p.Parse([]string{"31.50,74.35", "31.51,74.35"})
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)

	_, err = p.Parse(nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
}

func TestParseDegenerateAfterDeduplication(t *testing.T) {
	p := NewParser(geo.DefaultBounds)
	_, err := p.Parse([]string{
		"31.50,74.35",
		"31.50,74.35",
		"31.51,74.35",
	})
	assert.ErrorIs(t, err, domain.ErrDegenerateRing)
}

func TestParseText(t *testing.T) {
	p := NewParser(geo.DefaultBounds)
	ring, err := p.ParseText("31.50,74.35\n31.51,74.35\n31.51,74.36\n")
	require.NoError(t, err)
	assert.Equal(t, 3, ring.DistinctCount())
	assert.True(t, ring.Closed())
}
