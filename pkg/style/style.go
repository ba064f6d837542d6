// Package style maps semantic node types to per-format visual styles.
//
// Node types are parsed into a closed [Kind] enum with an explicit
// [KindOther] variant that keeps the raw text. Resolution is total: every
// type string, including the empty string, yields a fully populated [Style]
// for every [Format].
//
// Each format keeps its own shape vocabulary and palette ("ellipse" in DOT is
// "circle" in D2); the guarantee is semantic consistency across formats, not
// identical strings.
package style

import (
	"fmt"
	"strings"
)

// =============================================================================
// Kind
// =============================================================================

// Kind is the semantic tag of a node.
type Kind uint8

// Node kinds. KindOther marks a type string outside the canonical set.
const (
	KindOther Kind = iota
	KindStart
	KindEnd
	KindProcess
	KindDecision
	KindData
	KindDocument
	KindDefault
)

var kindNames = [...]string{
	KindOther:    "other",
	KindStart:    "start",
	KindEnd:      "end",
	KindProcess:  "process",
	KindDecision: "decision",
	KindData:     "data",
	KindDocument: "document",
	KindDefault:  "default",
}

// Kinds lists the canonical kinds in table order.
var Kinds = []Kind{KindStart, KindEnd, KindProcess, KindDecision, KindData, KindDocument, KindDefault}

// String returns the canonical tag.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Type is a parsed node type.
type Type struct {
	Kind  Kind
	Other string // raw text when Kind is KindOther
}

// ParseType parses a free-text node type. Matching is exact; any other
// value, including "", yields KindOther carrying the raw text.
func ParseType(s string) Type {
	for _, k := range Kinds {
		if kindNames[k] == s {
			return Type{Kind: k}
		}
	}
	return Type{Kind: KindOther, Other: s}
}

// String returns the canonical tag, or the raw text for KindOther.
func (t Type) String() string {
	if t.Kind == KindOther {
		return t.Other
	}
	return t.Kind.String()
}

// TableKind returns the kind used for table lookup: KindOther falls back
// to KindDefault.
func (t Type) TableKind() Kind {
	if t.Kind == KindOther {
		return KindDefault
	}
	return t.Kind
}

// IsTerminal reports whether the type is a start or end node.
func (t Type) IsTerminal() bool {
	return t.Kind == KindStart || t.Kind == KindEnd
}

// =============================================================================
// Format
// =============================================================================

// Format selects a style table.
type Format string

// Target formats.
const (
	FormatDOT     Format = "dot"
	FormatD2      Format = "d2"
	FormatGraphML Format = "graphml"
	FormatCanvas  Format = "canvas"
)

// Formats lists every format with a style table.
var Formats = []Format{FormatDOT, FormatD2, FormatGraphML, FormatCanvas}

// ParseFormat returns the format with the given name.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(s))
	_, ok := tables[f]
	return f, ok
}

// =============================================================================
// Style
// =============================================================================

// Style is the visual treatment of one node in one format.
type Style struct {
	Shape       string  `toml:"shape" yaml:"shape"`
	Fill        string  `toml:"fill" yaml:"fill"`
	Stroke      string  `toml:"stroke" yaml:"stroke"`
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width"`
}

// IsZero reports whether no field is set.
func (s Style) IsZero() bool {
	return s == Style{}
}

// merge returns s with empty fields taken from base.
func (s Style) merge(base Style) Style {
	if s.Shape == "" {
		s.Shape = base.Shape
	}
	if s.Fill == "" {
		s.Fill = base.Fill
	}
	if s.Stroke == "" {
		s.Stroke = base.Stroke
	}
	if s.StrokeWidth == 0 {
		s.StrokeWidth = base.StrokeWidth
	}
	return s
}

// =============================================================================
// Resolver
// =============================================================================

// Overrides are partial styles keyed by format, then by type tag.
type Overrides map[Format]map[string]Style

// Resolver resolves node types to styles, applying optional overrides.
// The zero value is not usable; use [NewResolver] or [Default].
type Resolver struct {
	overrides Overrides
}

// NewResolver returns a resolver that layers overrides over the built-in
// tables. Override entries may be partial; missing fields come from the
// type's table entry and then from the format's default entry.
func NewResolver(overrides Overrides) *Resolver {
	return &Resolver{overrides: overrides}
}

var defaultResolver = NewResolver(nil)

// Default returns the resolver with no overrides.
func Default() *Resolver { return defaultResolver }

// Resolve returns the style for a node type in the given format using
// [Default].
func Resolve(typ string, f Format) Style {
	return defaultResolver.Resolve(typ, f)
}

// Resolve returns the style for a node type in the given format.
// It never fails: unknown types and unknown formats use default entries.
func (r *Resolver) Resolve(typ string, f Format) Style {
	table, ok := tables[f]
	if !ok {
		table = tables[FormatDOT]
	}
	t := ParseType(typ)
	fallback := table[KindDefault]
	base := table[t.TableKind()].merge(fallback)

	if r == nil || r.overrides == nil {
		return base
	}
	if o, ok := r.overrides[f][t.String()]; ok {
		return o.merge(base)
	}
	if t.Kind == KindOther {
		if o, ok := r.overrides[f][KindDefault.String()]; ok {
			return o.merge(base)
		}
	}
	return base
}
