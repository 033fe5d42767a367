package registry

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/agenthands/genoscan/internal/core/model"
)

// organismElements are the GenBank and INSDC XML element names that carry
// the source organism.
var organismElements = map[string]bool{
	"GBSeq_organism":   true,
	"INSDSeq_organism": true,
}

// Parse extracts the organism from GenBank XML. It always returns a usable
// record: malformed markup or a missing field yields model.UnknownOrganism
// together with an error wrapping model.ErrParseDegraded.
func Parse(raw string) (model.GenomicRecord, error) {
	organism, err := findOrganism(raw)
	if err != nil {
		return model.GenomicRecord{Organism: model.UnknownOrganism}, fmt.Errorf("%w: %v", model.ErrParseDegraded, err)
	}
	return model.GenomicRecord{Organism: organism}, nil
}

// findOrganism reads the whole document so a syntax error anywhere rejects it.
func findOrganism(raw string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))

	var (
		organism string
		inField  bool
		buf      strings.Builder
		sawRoot  bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawRoot = true
			if organism == "" && organismElements[t.Name.Local] {
				inField = true
				buf.Reset()
			}
		case xml.CharData:
			if inField {
				buf.Write(t)
			}
		case xml.EndElement:
			if inField && organismElements[t.Name.Local] {
				inField = false
				organism = strings.TrimSpace(buf.String())
			}
		}
	}

	if !sawRoot {
		return "", errors.New("no markup in response")
	}
	if organism == "" {
		return "", errors.New("organism field not found")
	}
	return organism, nil
}
