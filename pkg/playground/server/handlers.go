package server

import (
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/matzehuels/flowbench/pkg/convert"
	"github.com/matzehuels/flowbench/pkg/errors"
	"github.com/matzehuels/flowbench/pkg/flowchart"
	"github.com/matzehuels/flowbench/pkg/playground"
)

// maxBody bounds editor uploads.
const maxBody = 4 << 20

type datasetInfo struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

func datasetInfos() []datasetInfo {
	out := make([]datasetInfo, len(playground.DatasetNames))
	for i, name := range playground.DatasetNames {
		out[i] = datasetInfo{Name: name, Title: playground.DatasetTitles[name]}
	}
	return out
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Datasets []datasetInfo
		Layouts  []string
	}{datasetInfos(), playground.LayoutNames}
	if err := templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	g, ok := s.publishedGraph(token)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct{ ID, Token string }{g.ID, token}
	if err := templates.ExecuteTemplate(w, "view.html", data); err != nil {
		s.logger.Error("render view", "err", err)
	}
}

func (s *Server) handlePublished(w http.ResponseWriter, r *http.Request) {
	g, ok := s.publishedGraph(chi.URLParam(r, "token"))
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNoMatchingExample, "graph not published"))
		return
	}
	layout, _ := playground.LayoutPreset(playground.DefaultLayout)
	writeJSON(w, http.StatusOK, map[string]any{
		"elements": playground.FromGraph(g),
		"layout":   layout,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleDatasets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, datasetInfos())
}

func (s *Server) handleLoadDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.LoadDataset(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleLayouts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, playground.LayoutNames)
}

func (s *Server) handleSetLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.SetLayout(chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State().Layout)
}

func (s *Server) handleApplyElements(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeMalformedInput, err, "read body"))
		return
	}
	if err := s.session.ApplyJSON(r.Context(), body); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.State())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.session.Export()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

// handleExportExamples downloads the session graph as an examples file that
// compare and convert accept.
func (s *Server) handleExportExamples(w http.ResponseWriter, r *http.Request) {
	g := s.session.Graph()
	if err := flowchart.Validate(g); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+g.ID+`.examples.json"`)
	if err := flowchart.WriteExamples(w, []*flowchart.Graph{g}); err != nil {
		s.logger.Warn("export examples failed", "err", err)
	}
}

func (s *Server) handleNodeInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.session.NodeInfo(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleEvent(w http.ResponseWriter, r *http.Request) {
	var ev playground.Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&ev); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeMalformedInput, err, "decode event"))
		return
	}
	if err := s.session.Dispatch(r.Context(), ev); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var z float64
	switch chi.URLParam(r, "op") {
	case "in":
		z = s.session.ZoomIn()
	case "out":
		z = s.session.ZoomOut()
	case "fit":
		z = s.session.Fit()
	default:
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"zoom": z})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	g := s.session.Graph()
	if err := flowchart.Validate(g); err != nil {
		writeError(w, err)
		return
	}
	out, err := convert.Convert(convert.Format(chi.URLParam(r, "format")), g, convert.Options{})
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(out)
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{Error: errors.UserMessage(err), Code: code})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeUnknownNode, errors.ErrCodeUnknownDataset, errors.ErrCodeUnknownLayout,
		errors.ErrCodeUnknownFormat, errors.ErrCodeNoMatchingExample:
		return http.StatusNotFound
	case errors.ErrCodeMalformedInput, errors.ErrCodeDanglingEdge, errors.ErrCodeDuplicateNodeID,
		errors.ErrCodeUnknownParent, errors.ErrCodeCyclicParent:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
