package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"collider/internal/collision"
	"collider/internal/geom"
	"collider/internal/render"
	"collider/internal/world"
)

// handlers holds the dependencies for the REST endpoints.
type handlers struct {
	world    WorldInterface
	renderer *render.Renderer
}

// addBodyRequest is the payload for POST /api/bodies. The hull is built
// server-side from the raw vertices; interior points are dropped.
type addBodyRequest struct {
	Name            string      `json:"name"`
	Vertices        []geom.Vec2 `json:"vertices"`
	Position        geom.Vec2   `json:"position"`
	Angle           float64     `json:"angle"`
	Velocity        geom.Vec2   `json:"velocity"`
	AngularVelocity float64     `json:"angularVelocity"`
}

type addBodyResponse struct {
	Name         string `json:"name"`
	HullVertices int    `json:"hullVertices"`
}

// checkRequest is the payload for POST /api/check: a one-off exact test of
// two free-form shapes, without tracking them.
type checkRequest struct {
	A placedShape `json:"a"`
	B placedShape `json:"b"`
}

type placedShape struct {
	Vertices []geom.Vec2 `json:"vertices"`
	Position geom.Vec2   `json:"position"`
	Angle    float64     `json:"angle"`
}

type checkResponse struct {
	Colliding bool `json:"colliding"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeGeometryError maps the core's construction errors to 400s; anything
// else is a 500.
func writeGeometryError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if collision.IsTooFewPoints(err) || collision.IsDegenerate(err) {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"bodies": h.world.BodyCount(),
	})
}

func (h *handlers) handleAddBody(w http.ResponseWriter, r *http.Request) {
	var req addBodyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	body, err := h.world.AddBody(req.Name, req.Vertices, world.BodyOptions{
		Position:        req.Position,
		Angle:           req.Angle,
		Velocity:        req.Velocity,
		AngularVelocity: req.AngularVelocity,
	})
	if err != nil {
		writeGeometryError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, addBodyResponse{
		Name:         body.Name,
		HullVertices: len(body.Shape.Vertices()),
	})
}

func (h *handlers) handleRemoveBody(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !h.world.RemoveBody(name) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown body: " + name})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.world.Snapshot())
}

func (h *handlers) handleContacts(w http.ResponseWriter, r *http.Request) {
	snap := h.world.Snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tick":     snap.Tick,
		"contacts": snap.Contacts,
	})
}

// handleCheck builds both hulls and runs the SAT test directly: no tracking,
// no broadphase, just the exact verdict. Symmetric by construction.
func (h *handlers) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	a, err := collision.NewConvex(req.A.Vertices)
	if err != nil {
		writeGeometryError(w, err)
		return
	}
	b, err := collision.NewConvex(req.B.Vertices)
	if err != nil {
		writeGeometryError(w, err)
		return
	}

	at := geom.NewTransform(req.A.Position, geom.NewRotation(req.A.Angle))
	bt := geom.NewTransform(req.B.Position, geom.NewRotation(req.B.Angle))
	writeJSON(w, http.StatusOK, checkResponse{
		Colliding: collision.Collides(a, at, b, bt),
	})
}

func (h *handlers) handleFrame(w http.ResponseWriter, r *http.Request) {
	if h.renderer == nil {
		http.NotFound(w, r)
		return
	}

	frame, err := h.renderer.FramePNG(h.world.Snapshot())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(frame)
}
