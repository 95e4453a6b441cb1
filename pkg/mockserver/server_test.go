package mockserver_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-typescaf/pkg/mockdata"
	"github.com/goliatone/go-typescaf/pkg/mockserver"
	"github.com/goliatone/go-typescaf/pkg/schema"
	"github.com/goliatone/go-typescaf/pkg/settings"
)

func prop(name string, control schema.ControlKind, validation schema.ValidationKind, ann schema.Annotations) schema.Property {
	return schema.NewProperty(name, schema.TypeDescriptor{Control: control, Validation: validation}, ann)
}

func classes() []mockserver.Class {
	return []mockserver.Class{
		{Name: "Customer", Properties: []schema.Property{
			prop("customerId", schema.ControlNumber, schema.ValidationNumber, schema.Annotations{PrimaryKey: true}),
			prop("name", schema.ControlText, schema.ValidationString, schema.Annotations{Required: true, OptionsLabel: true}),
		}},
		{Name: "Note", Properties: []schema.Property{
			prop("body", schema.ControlText, schema.ValidationString, schema.Annotations{}),
		}},
	}
}

func newServer(t *testing.T, cfg settings.Settings) *mockserver.Server {
	t.Helper()
	srv, err := mockserver.New(cfg, classes(), mockserver.WithSynthesizer(mockdata.New(mockdata.WithSeed(3))))
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, path string, out any) int {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"), path)
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), path)
	}
	return rec.Code
}

func TestRoutes(t *testing.T) {
	srv := newServer(t, settings.Defaults())
	assert.Equal(t, "/api", srv.BasePath())
	assert.Equal(t, []string{"customers", "notes"}, srv.Resources())

	var health map[string]string
	assert.Equal(t, http.StatusOK, get(t, srv, "/healthz", &health))
	assert.Equal(t, "ok", health["status"])

	var list []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/api/customers", &list))
	require.Len(t, list, 5)
	assert.Equal(t, "Customer Name 0", list[0]["name"])

	res, ok := srv.Resource("customers")
	require.True(t, ok)
	assert.Equal(t, "customerId", res.PrimaryKey)
	first := res.Records[0].Value
	var one map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, fmt.Sprintf("/api/customers/%v", first["customerId"]), &one))
	assert.Equal(t, first["name"], one["name"])

	var errBody map[string]string
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/customers/not-a-key", &errBody))
	assert.Equal(t, "NOT_FOUND", errBody["code"])
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/orders", &errBody))
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/elsewhere", &errBody))
}

func TestEveryRecordReachableByPrimaryKey(t *testing.T) {
	srv := newServer(t, settings.Defaults())
	res, ok := srv.Resource("customers")
	require.True(t, ok)
	for i, rec := range res.Records {
		var one map[string]any
		require.Equal(t, http.StatusOK, get(t, srv, fmt.Sprintf("/api/customers/%v", rec.Value["customerId"]), &one))
		assert.Equal(t, rec.Value["name"], one["name"], "record %d", i)
	}
}

func TestGetByRecordKeyWithoutPrimaryKey(t *testing.T) {
	srv := newServer(t, settings.Defaults())
	res, ok := srv.Resource("notes")
	require.True(t, ok)
	require.Empty(t, res.PrimaryKey)

	var one map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/api/notes/"+res.Records[1].Key, &one))
	assert.Equal(t, res.Records[1].Value["body"], one["body"])
}

func TestSchemaAndIndex(t *testing.T) {
	srv := newServer(t, settings.Defaults())

	var sch map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/api/_schema/customers", &sch))
	assert.Equal(t, "Customer", sch["title"])
	props, ok := sch["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "customerId")
	assert.Equal(t, []any{"name"}, sch["required"])

	var index []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/api/", &index))
	require.Len(t, index, 2)
	assert.Equal(t, "customers", index[0]["name"])
	assert.Equal(t, float64(5), index[0]["records"])
}

func TestBareBaseURLAndCounts(t *testing.T) {
	cfg := settings.Defaults()
	cfg.BaseRestAPIURL = ""
	cfg.MockData.Records = 2
	srv := newServer(t, cfg)

	var list []map[string]any
	require.Equal(t, http.StatusOK, get(t, srv, "/notes", &list))
	assert.Len(t, list, 2)
}

func TestDuplicateResource(t *testing.T) {
	_, err := mockserver.New(settings.Defaults(), []mockserver.Class{{Name: "Note"}, {Name: "Note"}})
	require.Error(t, err)
}
