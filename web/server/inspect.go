package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/integrator"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	GeometryType string                 `json:"geometryType,omitempty"`
	ShapeIndex   int                    `json:"shapeIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Background   [3]float64             `json:"background"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// extractMaterialInfo extracts material information with type assertions
func extractMaterialInfo(mat core.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.Lambertian:
		properties["albedo"] = vecArray(m.Albedo)
		properties["color"] = fmt.Sprintf("#%02x%02x%02x",
			int(m.Albedo.X*255), int(m.Albedo.Y*255), int(m.Albedo.Z*255))
		return "lambertian", properties
	default:
		return "unknown", properties
	}
}

// extractGeometryInfo extracts geometry information
func extractGeometryInfo(shape core.Shape) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch geom := shape.(type) {
	case *geometry.Sphere:
		properties["center"] = vecArray(geom.Center())
		properties["radius"] = geom.Radius()
		return "sphere", properties
	default:
		return "unknown", properties
	}
}

// inspectPixel casts an un-jittered ray through the center of pixel (x, y).
// It returns the closest hit, the index of the shape that produced it, and
// the ray itself.
func inspectPixel(sceneObj *scene.Scene, x, y int) (*core.HitRecord, int, core.Ray) {
	camera := renderer.NewCamera(sceneObj.CameraConfig)
	origin := camera.Center()
	ray := core.NewRay(origin, camera.PixelCenter(x, y).Subtract(origin))

	rayT := core.NewInterval(integrator.ShadowAcneEpsilon, math.Inf(1))
	hit, isHit := sceneObj.World.Hit(ray, rayT)
	if !isHit {
		return nil, -1, ray
	}

	// The world does not report which member produced the hit
	for i, shape := range sceneObj.World.Shapes() {
		if shapeHit, ok := shape.Hit(ray, rayT); ok && shapeHit.T == hit.T {
			return hit, i, ray
		}
	}
	return hit, -1, ray
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sceneName := query.Get("scene")
	if sceneName == "" {
		sceneName = "default"
	}
	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	width, err := parseIntParam(query, "width", sceneObj.CameraConfig.Width, 1, MaxWidth)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sceneObj.CameraConfig.Width = width
	if err := checkImageLimits(sceneObj.CameraConfig); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	height := sceneObj.CameraConfig.ImageHeight()

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid x coordinate"))
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid y coordinate"))
		return
	}
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeError(w, http.StatusBadRequest, fmt.Errorf("pixel coordinates out of bounds"))
		return
	}

	hit, shapeIndex, ray := inspectPixel(sceneObj, pixelX, pixelY)
	if hit == nil {
		writeJSON(w, http.StatusOK, InspectResponse{
			Hit:        false,
			ShapeIndex: -1,
			Background: vecArray(integrator.BackgroundGradient(ray)),
		})
		return
	}

	materialType, materialProps := extractMaterialInfo(hit.Material)
	geometryType := "unknown"
	geometryProps := map[string]interface{}{}
	if shapeIndex >= 0 {
		geometryType, geometryProps = extractGeometryInfo(sceneObj.World.Shapes()[shapeIndex])
	}

	writeJSON(w, http.StatusOK, InspectResponse{
		Hit:          true,
		MaterialType: materialType,
		GeometryType: geometryType,
		ShapeIndex:   shapeIndex,
		Point:        vecArray(hit.Point),
		Normal:       vecArray(hit.Normal),
		Distance:     hit.T,
		FrontFace:    hit.FrontFace,
		Properties: map[string]interface{}{
			"material": materialProps,
			"geometry": geometryProps,
		},
	})
}
