// Package fallback answers gateway requests with synthetic data when the
// backend cannot be reached.
//
// Requests are matched against an ordered rule table; the first rule whose
// method and path shape match handles the request. Anything unmatched gets
// a 503 explaining that the backend is offline.
package fallback

import (
	"net/http"
	"strings"

	"github.com/jcmexdev/ecommerce-gateway/internal/api-gateway/core/ports"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/discovery"
	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/httpx"
)

// Shape classifies a request path relative to /api/<collection>.
type Shape int

const (
	ShapeOther Shape = iota
	// ShapeCollection is /api/<collection>.
	ShapeCollection
	// ShapeItem is /api/<collection>/<id>, exactly one segment deep.
	ShapeItem
)

// Request is what a rule sees of the incoming request.
type Request struct {
	Service discovery.ServiceName
	Method  string
	Shape   Shape
	ID      string
}

type HandlerFunc func(w http.ResponseWriter, ds *Dataset, req Request)

type Rule struct {
	Method string
	Shape  Shape
	Handle HandlerFunc
}

// DefaultRules is the table used by NewResponder.
var DefaultRules = []Rule{
	{Method: http.MethodGet, Shape: ShapeCollection, Handle: serveCollection},
	{Method: http.MethodGet, Shape: ShapeItem, Handle: serveItem},
}

type Responder struct {
	data  *Dataset
	rules []Rule
}

var _ ports.Fallback = (*Responder)(nil)

func NewResponder(data *Dataset) *Responder {
	return &Responder{data: data, rules: DefaultRules}
}

func (f *Responder) Respond(w http.ResponseWriter, r *http.Request, service discovery.ServiceName) {
	shape, id := ClassifyPath(service, r.URL.Path)
	req := Request{Service: service, Method: r.Method, Shape: shape, ID: id}

	for _, rule := range f.rules {
		if rule.Method == req.Method && rule.Shape == req.Shape {
			rule.Handle(w, f.data, req)
			return
		}
	}
	serveUnavailable(w, f.data, req)
}

// ClassifyPath returns the shape of path for service and, for items, the id.
func ClassifyPath(service discovery.ServiceName, path string) (Shape, string) {
	base := "/api/" + service.Collection()
	rest, ok := strings.CutPrefix(path, base)
	if !ok {
		return ShapeOther, ""
	}
	if rest == "" || rest == "/" {
		return ShapeCollection, ""
	}
	id, ok := strings.CutPrefix(rest, "/")
	if !ok || id == "" || strings.Contains(id, "/") {
		return ShapeOther, ""
	}
	return ShapeItem, id
}

func serveCollection(w http.ResponseWriter, ds *Dataset, req Request) {
	records := ds.All(req.Service)
	if records == nil {
		records = []Record{}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		req.Service.Collection(): records,
		"total":                  len(records),
	})
}

func serveItem(w http.ResponseWriter, ds *Dataset, req Request) {
	if rec, ok := ds.Find(req.Service, req.ID); ok {
		httpx.WriteJSON(w, http.StatusOK, rec)
		return
	}
	httpx.WriteError(w, http.StatusNotFound, "not_found", entityLabel(req.Service)+" not found")
}

type UnavailableResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Note    string `json:"note"`
}

func serveUnavailable(w http.ResponseWriter, _ *Dataset, req Request) {
	httpx.WriteJSON(w, http.StatusServiceUnavailable, UnavailableResponse{
		Error:   "Service " + req.Service.RegistryName() + " unavailable",
		Message: "This is a synthetic response: the " + req.Service.RegistryName() + " backend is offline.",
		Note:    "Start the corresponding service to get real data and to perform writes.",
	})
}

func entityLabel(s discovery.ServiceName) string {
	name := string(s)
	if name == "" {
		return "Resource"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
