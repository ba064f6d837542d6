package render

import (
	"context"

	"github.com/matzehuels/flowbench/pkg/convert"
	"github.com/matzehuels/flowbench/pkg/flowchart"
)

// Source writes converter output verbatim: the dot, d2, graphml and elkjson
// backends.
type Source struct {
	name    string
	format  convert.Format
	options convert.Options
}

// NewSource returns a text sink for the given converter format.
func NewSource(name string, format convert.Format, opts convert.Options) *Source {
	return &Source{name: name, format: format, options: opts}
}

func (s *Source) Name() string { return s.name }
func (s *Source) Ext() string  { return s.format.Ext() }

func (s *Source) Render(_ context.Context, g *flowchart.Graph) ([]byte, error) {
	return convert.Convert(s.format, g, s.options)
}
