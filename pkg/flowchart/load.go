package flowchart

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/matzehuels/flowbench/pkg/errors"
)

// Entry is one graph of an example collection.
// Err is set when the entry could not be decoded; Graph is nil in that case.
type Entry struct {
	ID    string
	Graph *Graph
	Err   error
}

// ExampleSet is a decoded example collection, sorted by id.
type ExampleSet struct {
	Entries []Entry
}

// Len returns the number of entries, including malformed ones.
func (s *ExampleSet) Len() int { return len(s.Entries) }

// IDs returns the entry ids in order.
func (s *ExampleSet) IDs() []string {
	ids := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		ids[i] = e.ID
	}
	return ids
}

// Get returns the entry with exactly the given id.
func (s *ExampleSet) Get(id string) (Entry, bool) {
	for _, e := range s.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Find returns the entry whose id matches id case-insensitively.
// An exact match wins over a case-folded one.
func (s *ExampleSet) Find(id string) (Entry, bool) {
	if e, ok := s.Get(id); ok {
		return e, true
	}
	for _, e := range s.Entries {
		if strings.EqualFold(e.ID, id) {
			return e, true
		}
	}
	return Entry{}, false
}

// Graphs returns the successfully decoded graphs in order.
func (s *ExampleSet) Graphs() []*Graph {
	var out []*Graph
	for _, e := range s.Entries {
		if e.Graph != nil {
			out = append(out, e.Graph)
		}
	}
	return out
}

// rawGraph distinguishes absent arrays from empty ones.
type rawGraph struct {
	Nodes *[]Node `json:"nodes"`
	Edges *[]Edge `json:"edges"`
}

// ReadExamples decodes an example collection from r.
//
// The document must be a JSON object mapping graph id to {nodes, edges}.
// A document that is not an object is a fatal error. An individual entry
// that fails to decode, or whose nodes or edges array is missing, is kept
// with a MALFORMED_INPUT_DOCUMENT error and does not affect its siblings.
//
// Entries are sorted by id. ReadExamples does not validate graphs; see
// [Validate].
func ReadExamples(r io.Reader) (*ExampleSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "examples document must be a JSON object")
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	set := &ExampleSet{Entries: make([]Entry, 0, len(ids))}
	for _, id := range ids {
		g, err := decodeGraph(id, raw[id])
		set.Entries = append(set.Entries, Entry{ID: id, Graph: g, Err: err})
	}
	return set, nil
}

// LoadExamples reads the example collection at path.
// The error wraps the underlying cause with the file path for context.
func LoadExamples(path string) (*ExampleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	set, err := ReadExamples(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func decodeGraph(id string, data []byte) (*Graph, error) {
	var rg rawGraph
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&rg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedInput, err, "graph %q", id)
	}
	if rg.Nodes == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, "graph %q has no nodes array", id)
	}
	if rg.Edges == nil {
		return nil, errors.New(errors.ErrCodeMalformedInput, "graph %q has no edges array", id)
	}
	return &Graph{ID: id, Nodes: *rg.Nodes, Edges: *rg.Edges}, nil
}

// WriteExamples encodes graphs as an example collection keyed by id.
func WriteExamples(w io.Writer, graphs []*Graph) error {
	out := make(map[string]Graph, len(graphs))
	for _, g := range graphs {
		out[g.ID] = Graph{Nodes: g.Nodes, Edges: g.Edges}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
