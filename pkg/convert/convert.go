package convert

import (
	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/style"
)

// Format names a converter output.
type Format string

// Converter outputs.
const (
	FormatDOT     Format = "dot"
	FormatD2      Format = "d2"
	FormatGraphML Format = "graphml"
	FormatELK     Format = "elk"
)

// Formats lists every converter output.
var Formats = []Format{FormatDOT, FormatD2, FormatGraphML, FormatELK}

// Ext returns the file extension for the format's output.
func (f Format) Ext() string {
	if f == FormatELK {
		return "json"
	}
	return string(f)
}

// Options configures the text converters.
type Options struct {
	// Styles resolves node types to styles. Nil uses style.Default().
	Styles *style.Resolver

	// OmitEdgeLabels drops edge labels from D2 output, for byte parity with
	// diagrams generated before D2 labels were emitted.
	OmitEdgeLabels bool

	// ELK configures the ELK JSON converter.
	ELK ELKOptions
}

func (o Options) styles() *style.Resolver {
	if o.Styles == nil {
		return style.Default()
	}
	return o.Styles
}

// Convert converts g to the given format.
func Convert(f Format, g *flowchart.Graph, opts Options) ([]byte, error) {
	switch f {
	case FormatDOT:
		return []byte(ToDOT(g, opts)), nil
	case FormatD2:
		return []byte(ToD2(g, opts)), nil
	case FormatGraphML:
		return []byte(ToGraphML(g, opts)), nil
	case FormatELK:
		return ToELK(g, opts.ELK)
	default:
		return nil, errors.New(errors.ErrCodeUnknownFormat, "unknown format %q", f)
	}
}
