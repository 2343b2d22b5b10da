package problems

import (
	"encoding/json"
	"net/http"
)

const (
	//ContentType as required by https://tools.ietf.org/html/rfc7807
	ContentType string = "application/problem+json"

	typePrefix string = "https://diwise.io/explorable/problems/"
)

//ProblemDetails stores details about a certain problem according to RFC7807
type ProblemDetails struct {
	typ     string
	title   string
	detail  string
	code    int
	traceID string
}

func newProblem(typ, title string, code int, detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     typePrefix + typ,
		title:   title,
		detail:  detail,
		code:    code,
		traceID: traceID,
	}
}

//NewNotFound reports an unknown explorable or property. Authorization failures
//are reported the same way so that a caller cannot probe for names.
func NewNotFound(detail, traceID string) *ProblemDetails {
	return newProblem("NotFound", "Not Found", http.StatusNotFound, detail, traceID)
}

//NewReadOnly reports a write that the property's write policy refuses
func NewReadOnly(detail, traceID string) *ProblemDetails {
	return newProblem("ReadOnly", "Read Only", http.StatusConflict, detail, traceID)
}

//NewBadRequestData reports a body or value that does not fit the property
func NewBadRequestData(detail, traceID string) *ProblemDetails {
	return newProblem("BadRequestData", "Bad Request Data", http.StatusBadRequest, detail, traceID)
}

func NewNotAcceptable(detail, traceID string) *ProblemDetails {
	return newProblem("NotAcceptable", "Not Acceptable", http.StatusNotAcceptable, detail, traceID)
}

//NewUnsupportedMediaType reports a request body in a format the operation does not accept
func NewUnsupportedMediaType(detail, traceID string) *ProblemDetails {
	return newProblem("UnsupportedMediaType", "Unsupported Media Type", http.StatusUnsupportedMediaType, detail, traceID)
}

func NewInternalError(detail, traceID string) *ProblemDetails {
	return newProblem("InternalError", "Internal Error", http.StatusInternalServerError, detail, traceID)
}

func (p *ProblemDetails) Type() string {
	return p.typ
}

func (p *ProblemDetails) Title() string {
	return p.title
}

func (p *ProblemDetails) Detail() string {
	return p.detail
}

//ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *ProblemDetails) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	var traceID *string

	if p.traceID != "" {
		traceID = &p.traceID
	}

	return json.Marshal(struct {
		Type    string  `json:"type"`
		Title   string  `json:"title"`
		Detail  string  `json:"detail"`
		TraceID *string `json:"traceID,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Detail:  p.detail,
		TraceID: traceID,
	})
}

//WriteResponse writes the contents of this instance to a http.ResponseWriter
func (p *ProblemDetails) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", ContentType)
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
