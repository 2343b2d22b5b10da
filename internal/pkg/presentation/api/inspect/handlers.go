package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/diwise/explorable/internal/pkg/application/inspector"
	"github.com/diwise/explorable/internal/pkg/presentation/api/inspect/auth"
	"github.com/diwise/explorable/internal/pkg/presentation/api/inspect/problems"
	"github.com/diwise/explorable/pkg/explorable"
	"github.com/diwise/explorable/pkg/ngsild"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	yaml "gopkg.in/yaml.v2"
)

var tracer = otel.Tracer("explorable-inspector/api")

const (
	TraceAttributeExplorableName string = "explorable-name"
	TraceAttributePropertyName   string = "explorable-property"
)

const (
	contentTypeJSON   string = "application/json"
	contentTypeLDJSON string = "application/ld+json"
	contentTypeYAML   string = "application/yaml"
)

func RegisterHandlers(ctx context.Context, r chi.Router, policies io.Reader, app inspector.Inspector) error {

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return fmt.Errorf("failed to create api authenticator: %w", err)
	}

	r.Route("/api/v0/explorables", func(r chi.Router) {
		r.Use(Logger(logging.GetFromContext(ctx)))

		r.Get("/", NewListExplorablesHandler(app, authenticator))

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", NewRetrieveExplorableHandler(app, authenticator))
			r.Get("/dump", NewDumpExplorableHandler(app, authenticator))
			r.Get("/properties/{property}", NewReadPropertyHandler(app, authenticator))
			r.Put("/properties/{property}", NewWritePropertyHandler(app, authenticator))
		})
	})

	return nil
}

func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			_, ctx, _ = o11y.AddTraceIDToLoggerAndStoreInContext(
				trace.SpanFromContext(ctx),
				logger,
				ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func NewListExplorablesHandler(app inspector.Lister, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-explorables")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		allowed := []inspector.Summary{}

		for _, s := range app.ListExplorables(ctx) {
			if authErr := authenticator.CheckAccess(ctx, r, auth.Request{Name: s.Name, Type: s.Type}); authErr != nil {
				log.Debug("explorable omitted from listing", slog.String("name", s.Name), slog.String("err", authErr.Error()))
				continue
			}
			allowed = append(allowed, s)
		}

		b, err := json.Marshal(allowed)
		if err != nil {
			problems.NewInternalError(err.Error(), "").WriteResponse(w)
			return
		}

		writeResponse(w, contentTypeJSON, b)
	})
}

func NewRetrieveExplorableHandler(app inspector.Inspector, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		name, _ := url.PathUnescape(chi.URLParam(r, "name"))

		ctx, span := tracer.Start(r.Context(), "retrieve-explorable",
			trace.WithAttributes(attribute.String(TraceAttributeExplorableName, name)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		recursive := true
		if q := r.URL.Query().Get("recursive"); q != "" {
			recursive, err = strconv.ParseBool(q)
			if err != nil {
				problems.NewBadRequestData(fmt.Sprintf("invalid value for recursive: %s", q), traceID).WriteResponse(w)
				return
			}
		}

		_, err = checkedRetrieve(ctx, r, app, authenticator, name, "")
		if err != nil {
			log.Info("failed to retrieve explorable", slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		var body []byte
		contentType := negotiateContentType(r.Header.Get("Accept"))

		switch contentType {
		case contentTypeLDJSON:
			var e *ngsild.Entity
			e, err = app.ExplorableEntity(ctx, name)
			if err == nil {
				body, err = json.Marshal(e)
			}
		case contentTypeYAML:
			var tree *explorable.Tree
			tree, err = app.ExplorableTree(ctx, name, recursive)
			if err == nil {
				body, err = yaml.Marshal(tree)
			}
		case contentTypeJSON:
			var tree *explorable.Tree
			tree, err = app.ExplorableTree(ctx, name, recursive)
			if err == nil {
				body, err = json.Marshal(tree)
			}
		default:
			err = fmt.Errorf("unsupported accept header %q", r.Header.Get("Accept"))
			problems.NewNotAcceptable(err.Error(), traceID).WriteResponse(w)
			return
		}

		if err != nil {
			log.Error("failed to render explorable", slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		writeResponse(w, contentType, body)
	})
}

func NewDumpExplorableHandler(app inspector.Inspector, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		name, _ := url.PathUnescape(chi.URLParam(r, "name"))

		ctx, span := tracer.Start(r.Context(), "dump-explorable",
			trace.WithAttributes(attribute.String(TraceAttributeExplorableName, name)),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		_, err = checkedRetrieve(ctx, r, app, authenticator, name, "")
		if err != nil {
			log.Info("failed to retrieve explorable", slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		var tree *explorable.Tree
		tree, err = app.DumpExplorable(ctx, name)
		if err != nil {
			reportError(w, err, traceID)
			return
		}

		var body []byte
		body, err = json.Marshal(tree)
		if err != nil {
			log.Error("failed to marshal dump", slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		writeResponse(w, contentTypeJSON, body)
	})
}

func NewReadPropertyHandler(app inspector.Inspector, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		name, _ := url.PathUnescape(chi.URLParam(r, "name"))
		property, _ := url.PathUnescape(chi.URLParam(r, "property"))

		ctx, span := tracer.Start(r.Context(), "read-property",
			trace.WithAttributes(
				attribute.String(TraceAttributeExplorableName, name),
				attribute.String(TraceAttributePropertyName, property),
			),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		_, err = checkedRetrieve(ctx, r, app, authenticator, name, property)
		if err != nil {
			log.Info("failed to retrieve explorable", slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		var value any
		value, err = app.ReadProperty(ctx, name, property)
		if err != nil {
			log.Info("failed to read property", slog.String("property", property), slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		var body []byte
		body, err = json.Marshal(value)
		if err != nil {
			reportError(w, err, traceID)
			return
		}

		writeResponse(w, contentTypeJSON, body)
	})
}

func NewWritePropertyHandler(app inspector.Inspector, authenticator auth.Enticator) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error

		name, _ := url.PathUnescape(chi.URLParam(r, "name"))
		property, _ := url.PathUnescape(chi.URLParam(r, "property"))

		ctx, span := tracer.Start(r.Context(), "write-property",
			trace.WithAttributes(
				attribute.String(TraceAttributeExplorableName, name),
				attribute.String(TraceAttributePropertyName, property),
			),
		)
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

		traceID, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

		contentType := r.Header.Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, contentTypeJSON) {
			err = fmt.Errorf("unsupported content type %q", contentType)
			problems.NewUnsupportedMediaType(err.Error(), traceID).WriteResponse(w)
			return
		}

		_, err = checkedRetrieve(ctx, r, app, authenticator, name, property)
		if err != nil {
			log.Info("failed to retrieve explorable", slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		var value any
		err = json.NewDecoder(r.Body).Decode(&value)
		if err != nil {
			problems.NewBadRequestData(fmt.Sprintf("unable to decode request payload: %s", err.Error()), traceID).WriteResponse(w)
			return
		}

		err = app.WriteProperty(ctx, name, property, value)
		if err != nil {
			log.Info("failed to write property", slog.String("property", property), slog.String("err", err.Error()))
			reportError(w, err, traceID)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

// checkedRetrieve returns the named explorable if the caller may reach it.
// A denied request is reported as not found.
func checkedRetrieve(ctx context.Context, r *http.Request, app inspector.Retriever, authenticator auth.Enticator, name, property string) (explorable.Explorer, error) {
	entity, err := app.RetrieveExplorable(ctx, name)
	if err != nil {
		return nil, err
	}

	target := auth.Request{
		Name:     name,
		Type:     entity.ExplorableView().TypeName(),
		Property: property,
	}

	if err = authenticator.CheckAccess(ctx, r, target); err != nil {
		logging.GetFromContext(ctx).Info("access denied", slog.String("err", err.Error()))
		return nil, inspector.NewNotFoundError(name)
	}

	return entity, nil
}

// negotiateContentType picks the first supported type in an Accept header,
// defaulting to JSON. An empty string means nothing acceptable was offered.
func negotiateContentType(accept string) string {
	if accept == "" {
		return contentTypeJSON
	}

	for _, part := range strings.Split(accept, ",") {
		mediaType := strings.TrimSpace(strings.Split(part, ";")[0])

		switch mediaType {
		case contentTypeJSON, "*/*", "application/*":
			return contentTypeJSON
		case contentTypeLDJSON:
			return contentTypeLDJSON
		case contentTypeYAML, "application/x-yaml", "text/yaml":
			return contentTypeYAML
		}
	}

	return ""
}

func reportError(w http.ResponseWriter, err error, traceID string) {
	var nfe inspector.NotFoundError

	switch {
	case errors.As(err, &nfe):
		problems.NewNotFound(nfe.Error(), traceID).WriteResponse(w)
	case errors.Is(err, explorable.ErrNotFound):
		problems.NewNotFound(err.Error(), traceID).WriteResponse(w)
	case errors.Is(err, explorable.ErrReadOnly):
		problems.NewReadOnly(err.Error(), traceID).WriteResponse(w)
	case errors.Is(err, explorable.ErrInvalidValue):
		problems.NewBadRequestData(err.Error(), traceID).WriteResponse(w)
	default:
		problems.NewInternalError(err.Error(), traceID).WriteResponse(w)
	}
}

func writeResponse(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Add("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
