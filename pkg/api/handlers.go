package api

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ssargent/etlcdb/pkg/bitfield"
	"github.com/ssargent/etlcdb/pkg/metrics"
	"github.com/ssargent/etlcdb/pkg/pixel"
	"github.com/ssargent/etlcdb/pkg/record"
)

// maxImageScale bounds the scale query parameter of the image endpoint.
const maxImageScale = 8

// Server holds the API server state
type Server struct {
	files   map[string]RecordSource
	config  ServerConfig
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewServer creates a new API server over the named files
func NewServer(files map[string]RecordSource, config ServerConfig, m *metrics.Metrics, log *slog.Logger) *Server {
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		files:   files,
		config:  config,
		metrics: m,
		log:     log,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]FileInfo, 0, len(names))
	for _, name := range names {
		src := s.files[name]
		sc := src.Decoder().Schema()
		infos = append(infos, FileInfo{
			Name:            name,
			Format:          sc.Name,
			OctetsPerRecord: sc.OctetsPerRecord,
			Records:         src.Len(),
			FirstIndex:      src.Skip(),
		})
	}
	sendSuccess(w, infos)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	name, rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}

	g := rec.Image()
	resp := RecordResponse{
		File:   name,
		Index:  rec.Index,
		Format: rec.Schema.Name,
		Code:   rec.Code(),
		Char:   rec.Char(),
		Fields: fieldsJSON(rec),
		Image:  fmt.Sprintf("/api/v1/files/%s/records/%d/image.png", name, rec.Index),
	}
	if g != nil {
		resp.Width = g.Width()
		resp.Height = g.Height()
	}
	sendSuccess(w, resp)
}

func (s *Server) handleGetRecordImage(w http.ResponseWriter, r *http.Request) {
	_, rec, ok := s.lookupRecord(w, r)
	if !ok {
		return
	}

	g := rec.Image()
	if g == nil {
		sendError(w, "Record has no image", http.StatusNotFound)
		return
	}
	if rec.Schema.Bilevel {
		g = g.Stretch(255)
	}

	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.Atoi(v)
		if err != nil || scale < 1 || scale > maxImageScale {
			sendError(w, fmt.Sprintf("scale must be between 1 and %d", maxImageScale), http.StatusBadRequest)
			return
		}
		resized, err := pixel.Resize(g, g.Width()*scale, g.Height()*scale, pixel.Nearest)
		if err != nil {
			sendError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		g = resized
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if err := png.Encode(w, g.Image()); err != nil {
		s.log.Error("failed to encode record image", "index", rec.Index, "error", err)
	}
}

// lookupRecord resolves the {file} and {index} URL parameters. On failure it
// writes the error response and returns ok=false.
func (s *Server) lookupRecord(w http.ResponseWriter, r *http.Request) (string, *record.Record, bool) {
	name := chi.URLParam(r, "file")
	src, found := s.files[name]
	if !found {
		sendError(w, fmt.Sprintf("File %q is not served", name), http.StatusNotFound)
		return "", nil, false
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		sendError(w, "Record index must be a non-negative integer", http.StatusBadRequest)
		return "", nil, false
	}
	if index < src.Skip() || index >= src.Skip()+src.Len() {
		sendError(w, fmt.Sprintf("Record %d out of range [%d, %d)", index, src.Skip(), src.Skip()+src.Len()), http.StatusNotFound)
		return "", nil, false
	}

	rec, err := src.ReadAt(index)
	if err != nil {
		format := src.Decoder().Schema().Name
		s.metrics.RecordDecodeError(format, err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, bitfield.ErrTruncatedRecord) {
			status = http.StatusNotFound
		}
		sendError(w, err.Error(), status)
		return "", nil, false
	}
	s.metrics.RecordDecoded(rec.Schema.Name, 1)
	return name, rec, true
}

// fieldsJSON renders record fields for JSON output. The image is left out
// and byte strings are hex encoded.
func fieldsJSON(rec *record.Record) map[string]any {
	out := make(map[string]any, len(rec.Fields))
	for name, v := range rec.Fields {
		if name == rec.Schema.ImageField {
			continue
		}
		switch v := v.(type) {
		case []byte:
			out[name] = hex.EncodeToString(v)
		default:
			out[name] = v
		}
	}
	return out
}
