package style

// tables holds one palette per format. Palettes are kept literally as the
// comparison viewers expect them, so the same kind may differ in exact hex
// value between formats (end is #FFB6C1 in DOT and D2, #FFB6C6 in GraphML).
var tables = map[Format]map[Kind]Style{
	FormatDOT: {
		KindStart:    {Shape: "ellipse", Fill: "#90EE90", Stroke: "#228B22", StrokeWidth: 1},
		KindEnd:      {Shape: "ellipse", Fill: "#FFB6C1", Stroke: "#C71585", StrokeWidth: 1},
		KindProcess:  {Shape: "box", Fill: "#87CEEB", Stroke: "#4682B4", StrokeWidth: 1},
		KindDecision: {Shape: "diamond", Fill: "#FFD700", Stroke: "#DAA520", StrokeWidth: 1},
		KindData:     {Shape: "parallelogram", Fill: "#DDA0DD", Stroke: "#9932CC", StrokeWidth: 1},
		KindDocument: {Shape: "note", Fill: "#F0E68C", Stroke: "#BDB76B", StrokeWidth: 1},
		KindDefault:  {Shape: "box", Fill: "#D3D3D3", Stroke: "#808080", StrokeWidth: 1},
	},
	FormatD2: {
		KindStart:    {Shape: "circle", Fill: "#90EE90", Stroke: "#228B22", StrokeWidth: 2},
		KindEnd:      {Shape: "circle", Fill: "#FFB6C1", Stroke: "#C71585", StrokeWidth: 2},
		KindProcess:  {Shape: "rectangle", Fill: "#87CEEB", Stroke: "#4682B4", StrokeWidth: 1},
		KindDecision: {Shape: "diamond", Fill: "#FFD700", Stroke: "#DAA520", StrokeWidth: 1},
		KindData:     {Shape: "parallelogram", Fill: "#DDA0DD", Stroke: "#9932CC", StrokeWidth: 1},
		KindDocument: {Shape: "document", Fill: "#F0E68C", Stroke: "#BDB76B", StrokeWidth: 1},
		KindDefault:  {Shape: "rectangle", Fill: "#D3D3D3", Stroke: "#808080", StrokeWidth: 1},
	},
	FormatGraphML: {
		KindStart:    {Shape: "ellipse", Fill: "#90EE90", Stroke: "#228B22", StrokeWidth: 1},
		KindEnd:      {Shape: "ellipse", Fill: "#FFB6C6", Stroke: "#DC143C", StrokeWidth: 1},
		KindProcess:  {Shape: "rectangle", Fill: "#87CEEB", Stroke: "#4682B4", StrokeWidth: 1},
		KindDecision: {Shape: "diamond", Fill: "#FFD700", Stroke: "#DAA520", StrokeWidth: 1},
		KindData:     {Shape: "parallelogram", Fill: "#DDA0DD", Stroke: "#9932CC", StrokeWidth: 1},
		KindDocument: {Shape: "rectangle", Fill: "#F0E68C", Stroke: "#BDB76B", StrokeWidth: 1},
		// Unknown types take the process colours in GraphML.
		KindDefault:  {Shape: "rectangle", Fill: "#87CEEB", Stroke: "#4682B4", StrokeWidth: 1},
	},
	FormatCanvas: {
		KindStart:    {Shape: "rect", Fill: "#90EE90", Stroke: "#333333", StrokeWidth: 2},
		KindEnd:      {Shape: "rect", Fill: "#FFB6C6", Stroke: "#333333", StrokeWidth: 2},
		KindProcess:  {Shape: "rect", Fill: "#87CEEB", Stroke: "#333333", StrokeWidth: 2},
		KindDecision: {Shape: "rect", Fill: "#FFD700", Stroke: "#333333", StrokeWidth: 2},
		KindData:     {Shape: "rect", Fill: "#D3D3D3", Stroke: "#333333", StrokeWidth: 2},
		KindDocument: {Shape: "rect", Fill: "#D3D3D3", Stroke: "#333333", StrokeWidth: 2},
		KindDefault:  {Shape: "rect", Fill: "#D3D3D3", Stroke: "#333333", StrokeWidth: 2},
	},
}

// GroupFill is the canvas fill for compound (group) nodes.
const GroupFill = "#E6E6FA"
