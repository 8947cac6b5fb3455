package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/ecommerce-gateway/internal/pkg/rpc"
)

// Resource exposes an Entity as REST routes under /api/<Collection>.
type Resource[E, F any] struct {
	Collection string
	Service    rpc.Entity[E, F]
}

func (res Resource[E, F]) Mount(r chi.Router) {
	r.Route("/api/"+res.Collection, func(r chi.Router) {
		r.Get("/", res.list)
		r.Post("/", res.create)
		r.Get("/{id}", res.get)
		r.Put("/{id}", res.update)
		r.Patch("/{id}", res.update)
		r.Delete("/{id}", res.delete)
	})
}

func (res Resource[E, F]) get(w http.ResponseWriter, r *http.Request) {
	item, err := res.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (res Resource[E, F]) create(w http.ResponseWriter, r *http.Request) {
	fields := new(F)
	if err := json.NewDecoder(r.Body).Decode(fields); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON object")
		return
	}
	item, err := res.Service.Create(r.Context(), fields)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

func (res Resource[E, F]) update(w http.ResponseWriter, r *http.Request) {
	fields := new(F)
	if err := json.NewDecoder(r.Body).Decode(fields); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_json", "request body must be a JSON object")
		return
	}
	item, err := res.Service.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

func (res Resource[E, F]) delete(w http.ResponseWriter, r *http.Request) {
	if err := res.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, rpc.DeleteResponse{Success: true})
}

// list answers {"<collection>": [...], "total": n}.
func (res Resource[E, F]) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := rpc.ListRequest{
		Page:   atoi(q.Get("page")),
		Limit:  atoi(q.Get("limit")),
		UserID: q.Get("user_id"),
	}
	out, err := res.Service.List(r.Context(), req)
	if err != nil {
		WriteAppError(w, r, err)
		return
	}
	items := out.Items
	if items == nil {
		items = []E{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		res.Collection: items,
		"total":        out.Total,
	})
}

// atoi treats malformed numbers as absent.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
