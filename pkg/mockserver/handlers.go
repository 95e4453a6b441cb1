package mockserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-typescaf/pkg/openapi"
)

// handleIndex lists the resources and their record counts.
// GET {base}/
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Name    string `json:"name"`
		Class   string `json:"class"`
		Records int    `json:"records"`
	}
	out := make([]entry, 0, len(s.resources))
	for _, name := range s.Resources() {
		res := s.resources[name]
		out = append(out, entry{Name: name, Class: res.Class, Records: len(res.Records)})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleList returns the record values of a resource.
// GET {base}/{resource}
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	values := make([]map[string]any, 0, len(res.Records))
	for _, rec := range res.Records {
		values = append(values, rec.Value)
	}
	writeJSON(w, http.StatusOK, values)
}

// handleGet returns one record, matched on the primary key value or, when
// the class has none, on the record key.
// GET {base}/{resource}/{key}
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	key := chi.URLParam(r, "key")
	for _, rec := range res.Records {
		if res.PrimaryKey != "" {
			if v, ok := rec.Value[res.PrimaryKey]; ok && fmt.Sprint(v) == key {
				writeJSON(w, http.StatusOK, rec.Value)
				return
			}
			continue
		}
		if rec.Key == key {
			writeJSON(w, http.StatusOK, rec.Value)
			return
		}
	}
	writeError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("%s %q not found", res.Class, key))
}

// handleSchema returns the JSON schema of a resource.
// GET {base}/_schema/{resource}
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	res, ok := s.lookup(w, r)
	if !ok {
		return
	}
	sch := openapi.SchemaFor(res.Properties)
	sch.Title = res.Class
	writeJSON(w, http.StatusOK, sch)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*Resource, bool) {
	name := chi.URLParam(r, "resource")
	res, ok := s.resources[name]
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "unknown resource: "+name)
		return nil, false
	}
	return res, true
}
