package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
)

const lambertianType = "lambertian"

type vecFile struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type colorFile struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

type cameraFile struct {
	AspectRatio     float64 `json:"aspect_ratio"`
	Width           int     `json:"width"`
	VFov            float64 `json:"vfov"`
	SamplesPerPixel int     `json:"samples_per_pixel"`
	MaxDepth        int     `json:"max_depth"`
	LookFrom        vecFile `json:"lookfrom"`
	LookAt          vecFile `json:"lookat"`
	VUp             vecFile `json:"vup"`
	DefocusAngle    float64 `json:"defocus_angle"`
	FocusDist       float64 `json:"focus_dist"`
}

type materialFile struct {
	ID     string    `json:"id"`
	Type   string    `json:"type"`
	Albedo colorFile `json:"albedo"`
}

type sphereFile struct {
	Center   vecFile `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

type sceneFile struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Camera      cameraFile     `json:"camera"`
	Materials   []materialFile `json:"materials"`
	Spheres     []sphereFile   `json:"spheres"`
}

func toVec(v vecFile) core.Vec3 { return core.NewVec3(v.X, v.Y, v.Z) }

func fromVec(v core.Vec3) vecFile { return vecFile{X: v.X, Y: v.Y, Z: v.Z} }

func toCameraConfig(c cameraFile) renderer.CameraConfig {
	return renderer.CameraConfig{
		AspectRatio:     c.AspectRatio,
		Width:           c.Width,
		VFov:            c.VFov,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		LookFrom:        toVec(c.LookFrom),
		LookAt:          toVec(c.LookAt),
		VUp:             toVec(c.VUp),
		DefocusAngle:    c.DefocusAngle,
		FocusDist:       c.FocusDist,
	}
}

func fromCameraConfig(c renderer.CameraConfig) cameraFile {
	return cameraFile{
		AspectRatio:     c.AspectRatio,
		Width:           c.Width,
		VFov:            c.VFov,
		SamplesPerPixel: c.SamplesPerPixel,
		MaxDepth:        c.MaxDepth,
		LookFrom:        fromVec(c.LookFrom),
		LookAt:          fromVec(c.LookAt),
		VUp:             fromVec(c.VUp),
		DefocusAngle:    c.DefocusAngle,
		FocusDist:       c.FocusDist,
	}
}

// Load reads a Scene from a JSON file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a Scene in JSON form from r. Camera fields missing from the
// input keep their DefaultCameraConfig values.
func Decode(r io.Reader) (*Scene, error) {
	sf := sceneFile{Camera: fromCameraConfig(renderer.DefaultCameraConfig())}
	if err := json.NewDecoder(r).Decode(&sf); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	materials := make(map[string]core.Material, len(sf.Materials))
	for _, m := range sf.Materials {
		if _, exists := materials[m.ID]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateMaterial, m.ID)
		}
		switch m.Type {
		case lambertianType:
			materials[m.ID] = material.NewLambertian(core.NewVec3(m.Albedo.R, m.Albedo.G, m.Albedo.B))
		default:
			return nil, fmt.Errorf("%w: %q (material %q)", ErrUnknownMaterialType, m.Type, m.ID)
		}
	}

	s := New(sf.Name, toCameraConfig(sf.Camera))
	for i, sp := range sf.Spheres {
		mat, ok := materials[sp.Material]
		if !ok {
			return nil, fmt.Errorf("%w: %q (sphere %d)", ErrUnknownMaterial, sp.Material, i)
		}
		s.AddSphere(toVec(sp.Center), sp.Radius, mat)
	}

	return s, nil
}

// Save writes a Scene to a JSON file.
func Save(path string, sc *Scene) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene: %w", err)
	}
	defer f.Close()

	if err := Encode(f, sc); err != nil {
		return err
	}
	return f.Close()
}

// Encode writes sc to w as indented JSON. Spheres sharing a material
// instance reference a single material entry.
func Encode(w io.Writer, sc *Scene) error {
	sf := sceneFile{
		Name:      sc.Name,
		Camera:    fromCameraConfig(sc.CameraConfig),
		Materials: []materialFile{},
		Spheres:   []sphereFile{},
	}

	ids := make(map[*material.Lambertian]string)
	for i, sphere := range sc.Spheres() {
		lambertian, ok := sphere.Material().(*material.Lambertian)
		if !ok {
			return fmt.Errorf("%w: %T (sphere %d)", ErrUnknownMaterialType, sphere.Material(), i)
		}

		id, seen := ids[lambertian]
		if !seen {
			id = fmt.Sprintf("material%d", len(ids))
			ids[lambertian] = id
			sf.Materials = append(sf.Materials, materialFile{
				ID:     id,
				Type:   lambertianType,
				Albedo: colorFile{R: lambertian.Albedo.X, G: lambertian.Albedo.Y, B: lambertian.Albedo.Z},
			})
		}

		sf.Spheres = append(sf.Spheres, sphereFile{
			Center:   fromVec(sphere.Center()),
			Radius:   sphere.Radius(),
			Material: id,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sf); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}

type sceneDescription struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// readDescription decodes only the name and description of a scene file
func readDescription(path string) (sceneDescription, error) {
	var desc sceneDescription

	f, err := os.Open(path)
	if err != nil {
		return desc, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&desc); err != nil {
		return desc, fmt.Errorf("decode scene: %w", err)
	}
	return desc, nil
}
