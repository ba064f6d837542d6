// Package render invokes layout engines and produces comparison artifacts.
//
// # Overview
//
// Every backend implements [Renderer]: it takes a validated
// [flowchart.Graph] and returns the bytes of one artifact. Backends come in
// three flavours:
//
//   - Text sinks ([Source]): DOT, D2, GraphML or ELK JSON produced by the
//     converters in package convert, written as-is
//   - In-process engines: [Graphviz] (WASM Graphviz), [Canvas] (PNG grid)
//     and [CanvasSVG] (SVG grid)
//   - External tools: [D2] (d2 CLI with the elk or tala layout) and
//     [Browser] (headless Chromium screenshot of the playground view page)
//
// # Decorators
//
// Renderers compose:
//
//	r := render.Instrument(
//	    render.Cached(
//	        render.WithBreaker(render.NewD2(render.LayoutELK), render.BreakerSettings{}),
//	        c, 24*time.Hour, ""),
//	)
//
// [WithBreaker] fails fast once an external tool keeps failing, [Cached]
// memoizes artifacts by graph content hash, [Rasterize] converts SVG output
// to PNG through rsvg-convert, and [Instrument] reports to the registered
// observability hooks.
//
// # Errors
//
// A missing tool or an open breaker yields RENDERER_UNAVAILABLE; a tool that
// exits non-zero or an engine error yields RENDER_FAILED; a per-attempt
// deadline yields TIMEOUT.
package render
