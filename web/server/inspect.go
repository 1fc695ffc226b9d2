package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/spoax/raytracer/pkg/core"
	"github.com/spoax/raytracer/pkg/geometry"
	"github.com/spoax/raytracer/pkg/renderer"
	"github.com/spoax/raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	PathState    string                 `json:"pathState"`
	Bounces      int                    `json:"bounces"`
	Color        [3]float64             `json:"color"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractGeometryInfo describes the sphere at index in the scene's world list
func extractGeometryInfo(sceneObj *scene.Scene, index int) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	if index < 0 || index >= len(sceneObj.World.Shapes) {
		return "unknown", properties
	}

	switch geom := sceneObj.World.Shapes[index].(type) {
	case *geometry.Sphere:
		properties["index"] = index
		properties["center"] = vecArray(geom.Center)
		properties["radius"] = geom.Radius
		if geom.Radius < 0 {
			properties["hollow"] = true
		}
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	inspectReq := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(inspectReq)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scene.ErrUnknownScene) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	info, err := renderer.NewRaytracer(sceneObj).InspectPixel(pixelX, pixelY)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds: "+err.Error())
		return
	}

	response := InspectResponse{
		Hit:       info.Hit,
		PathState: info.State.String(),
		Bounces:   info.Bounces,
		Color:     vecArray(info.Color),
	}
	if info.Hit {
		geometryType, geometryProps := extractGeometryInfo(sceneObj, info.SphereIndex)

		response.MaterialType = info.MaterialType
		response.GeometryType = geometryType
		response.Point = vecArray(info.Point)
		response.Normal = vecArray(info.Normal)
		response.Distance = info.T
		response.FrontFace = info.FrontFace
		response.Properties = map[string]interface{}{
			"material": info.Properties,
			"geometry": geometryProps,
		}
	}

	writeJSON(w, http.StatusOK, response)
}
