package problems

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matryer/is"
)

func TestWriteResponse(t *testing.T) {
	is := is.New(t)
	w := httptest.NewRecorder()

	NewReadOnly("fixtures.SetOnce instance property[a] is read-only", "abc123").WriteResponse(w)

	is.Equal(w.Code, http.StatusConflict)
	is.Equal(w.Header().Get("Content-Type"), ContentType)

	body := map[string]string{}
	is.NoErr(json.Unmarshal(w.Body.Bytes(), &body))
	is.Equal(body["type"], "https://diwise.io/explorable/problems/ReadOnly")
	is.Equal(body["traceID"], "abc123")
}

func TestTraceIDIsOmittedWhenEmpty(t *testing.T) {
	is := is.New(t)

	b, err := json.Marshal(NewNotFound("gone", ""))
	is.NoErr(err)
	is.Equal(string(b), `{"type":"https://diwise.io/explorable/problems/NotFound","title":"Not Found","detail":"gone"}`)
}

func TestUnsupportedMediaType(t *testing.T) {
	is := is.New(t)
	w := httptest.NewRecorder()

	NewUnsupportedMediaType("unsupported content type \"text/plain\"", "").WriteResponse(w)

	is.Equal(w.Code, http.StatusUnsupportedMediaType)
	is.Equal(w.Header().Get("Content-Type"), ContentType)
}
