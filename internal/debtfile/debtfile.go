// Package debtfile reads debt lists for the settle command.
//
// A debt file names the participants and the debts between them:
//
//	names: [Alice, Bob, Charlie]
//	edges:
//	  - {from: Alice, to: Bob, amount: 10}
//	  - {from: Bob, to: Charlie, amount: "7.25"}
//
// JSON files with the same fields are accepted too.
package debtfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/settlewise/internal/calculator"
	"github.com/mmynk/settlewise/internal/money"
)

// Edge is one debt: From owes To Amount, a decimal string.
type Edge struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Amount string `yaml:"amount"`
}

// File is the decoded content of a debt file.
type File struct {
	Names []string `yaml:"names"`
	Edges []Edge   `yaml:"edges"`
}

// Load reads and decodes the debt file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open debt file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a YAML or JSON debt file.
func Read(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return &file, nil
		}
		return nil, fmt.Errorf("failed to decode debt file: %w", err)
	}
	return &file, nil
}

// Participants returns Names, or when Names is empty every name mentioned by
// an edge in order of first appearance.
func (f *File) Participants() []string {
	if len(f.Names) > 0 {
		return f.Names
	}
	roster := calculator.NewRoster()
	for _, e := range f.Edges {
		roster.Add(e.From)
		roster.Add(e.To)
	}
	return roster.Names()
}

// NamedEdges converts the edges to cents.
func (f *File) NamedEdges() ([]calculator.NamedEdge, error) {
	edges := make([]calculator.NamedEdge, len(f.Edges))
	for i, e := range f.Edges {
		amount, err := money.Parse(e.Amount)
		if err != nil {
			return nil, fmt.Errorf("edge %d: %w", i, err)
		}
		edges[i] = calculator.NamedEdge{From: e.From, To: e.To, Amount: amount}
	}
	return edges, nil
}
