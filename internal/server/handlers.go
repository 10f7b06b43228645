package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"github.com/KaramelBytes/vaxkpi-cli/internal/analysis"
	"github.com/KaramelBytes/vaxkpi-cli/internal/dataset"
	output "github.com/KaramelBytes/vaxkpi-cli/internal/render"
)

const defaultPreviewRows = 5

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := requestFromForm(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.engine.Run(ds, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "analysis complete", "dataset", ds.Name(), "rows", ds.Len(), "failed_kinds", res.Failed())
	render.JSON(w, r, res)
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	n := defaultPreviewRows
	if v := r.URL.Query().Get("rows"); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil || i < 0 {
			writeError(w, r, newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", "rows must be a non-negative integer", v))
			return
		}
		n = i
	}
	render.JSON(w, r, ds.Profile(n))
}

// handleCharts returns an HTML page. The optional "request" field drives the
// trend and vaccination charts; the optional "chart" field adds a custom one.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	ds, err := s.loadUpload(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var res *analysis.Result
	if strings.TrimSpace(r.FormValue("request")) != "" {
		req, err := requestFromForm(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if res, err = s.engine.Run(ds, req); err != nil {
			writeError(w, r, err)
			return
		}
	}
	var spec *output.ChartSpec
	if raw := strings.TrimSpace(r.FormValue("chart")); raw != "" {
		spec = &output.ChartSpec{}
		if err := json.Unmarshal([]byte(raw), spec); err != nil {
			writeError(w, r, newAPIError(http.StatusBadRequest, "INVALID_CHART", "chart is not valid JSON", err.Error()))
			return
		}
	}
	var buf bytes.Buffer
	if err := output.Charts(&buf, ds, res, spec, s.cfg.ChartColor); err != nil {
		writeError(w, r, chartError(err))
		return
	}
	render.HTML(w, r, buf.String())
}

func chartError(err error) error {
	switch analysis.ErrorKindOf(err) {
	case analysis.ErrKindSchemaMismatch, analysis.ErrKindTypeMismatch, analysis.ErrKindEmptyInput:
		return newAPIError(http.StatusUnprocessableEntity, "CHART_DATA", "chart columns are missing or not plottable", err.Error())
	}
	return newAPIError(http.StatusBadRequest, "INVALID_CHART", "chart could not be built", err.Error())
}

func (s *Server) loadUpload(r *http.Request) (*dataset.Dataset, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		return nil, newAPIError(http.StatusBadRequest, "INVALID_UPLOAD", "expected a multipart/form-data upload", err.Error())
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, newAPIError(http.StatusBadRequest, "MISSING_FILE", "form field 'file' is required", nil)
	}
	defer file.Close()
	return dataset.Read(file, hdr.Filename, s.cfg.Dataset)
}

// requestFromForm decodes the "request" field. When it is absent every kind
// is requested.
func requestFromForm(r *http.Request) (analysis.Request, error) {
	raw := strings.TrimSpace(r.FormValue("request"))
	if raw == "" {
		return analysis.Request{Kinds: analysis.AllKinds}, nil
	}
	var req analysis.Request
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "request is not valid JSON", err.Error())
	}
	return req, nil
}
