// Package handlers implements the endpoints served by minihttpd.
package handlers

import (
	"github.com/rs/zerolog"

	"github.com/xaitan80/minihttpd/internal/filestore"
	"github.com/xaitan80/minihttpd/internal/request"
	"github.com/xaitan80/minihttpd/internal/response"
	"github.com/xaitan80/minihttpd/internal/router"
)

const (
	contentTypeText = "text/plain"
	userAgentHeader = "User-Agent"
)

// Handlers carries the collaborators the endpoints need. None of them
// mutate shared state; file access goes through the store.
type Handlers struct {
	store filestore.Store
	log   zerolog.Logger
}

// New returns handlers backed by store.
func New(store filestore.Store, logger zerolog.Logger) *Handlers {
	return &Handlers{store: store, log: logger}
}

// Routes returns the route table in priority order.
func (h *Handlers) Routes() []router.Route {
	return []router.Route{
		{Name: "root", Method: "GET", Path: router.Exact("/"), Handler: Root},
		{Name: "user-agent", Method: "GET", Path: router.Exact("/user-agent"), Handler: UserAgent},
		{Name: "echo", Method: "GET", Path: router.Prefix("/echo/"), Handler: Echo},
		{Name: "read-file", Method: "GET", Path: router.Prefix("/files/"), Handler: h.ReadFile},
		{Name: "write-file", Method: "POST", Path: router.Prefix("/files/"), Handler: h.WriteFile},
	}
}

// Root answers the liveness probe on "/".
func Root(*request.Request, string) response.Response {
	return response.Empty(response.StatusOK)
}

// UserAgent echoes the User-Agent header. Requests without one get a 400.
func UserAgent(req *request.Request, _ string) response.Response {
	ua, ok := req.Header(userAgentHeader)
	if !ok {
		return response.Empty(response.StatusBadRequest)
	}
	return response.WithBody(response.StatusOK, contentTypeText, []byte(ua))
}

// Echo returns the path remainder as the body.
func Echo(_ *request.Request, rest string) response.Response {
	return response.WithBody(response.StatusOK, contentTypeText, []byte(rest))
}

// ReadFile serves a file from the store. Every failure is a 404.
func (h *Handlers) ReadFile(_ *request.Request, name string) response.Response {
	data, err := h.store.Read(name)
	if err != nil {
		h.log.Debug().Err(err).Str("file", name).Msg("file read failed")
		return response.Empty(response.StatusNotFound)
	}
	return response.WithBody(response.StatusOK, response.DefaultContentType, data)
}

// WriteFile stores the request body under name. A request without a
// payload gets a 400; a store failure is a 404.
func (h *Handlers) WriteFile(req *request.Request, name string) response.Response {
	body, ok := req.Payload()
	if !ok {
		return response.Empty(response.StatusBadRequest)
	}
	if err := h.store.Write(name, body); err != nil {
		h.log.Warn().Err(err).Str("file", name).Msg("file write failed")
		return response.Empty(response.StatusNotFound)
	}
	h.log.Debug().Str("file", name).Int("bytes", len(body)).Msg("file written")
	return response.Empty(response.StatusCreated)
}
