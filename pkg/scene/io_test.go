package scene

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

const sampleScene = `{
  "name": "two spheres",
  "camera": {
    "aspect_ratio": 2,
    "width": 64,
    "vfov": 30,
    "samples_per_pixel": 4,
    "max_depth": 5,
    "lookfrom": {"x": 0, "y": 1, "z": 5},
    "lookat": {"x": 0, "y": 0, "z": 0},
    "vup": {"x": 0, "y": 1, "z": 0},
    "defocus_angle": 0.5,
    "focus_dist": 4
  },
  "materials": [
    {"id": "grey", "type": "lambertian", "albedo": {"r": 0.5, "g": 0.5, "b": 0.5}}
  ],
  "spheres": [
    {"center": {"x": 0, "y": -100, "z": 0}, "radius": 100, "material": "grey"},
    {"center": {"x": 0, "y": 1, "z": 0}, "radius": 1, "material": "grey"}
  ]
}`

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if s.Name != "two spheres" {
		t.Errorf("Expected name 'two spheres', got %q", s.Name)
	}
	c := s.CameraConfig
	if c.AspectRatio != 2 || c.Width != 64 || c.VFov != 30 || c.SamplesPerPixel != 4 || c.MaxDepth != 5 {
		t.Errorf("Unexpected camera config %+v", c)
	}
	if c.LookFrom != core.NewVec3(0, 1, 5) || c.DefocusAngle != 0.5 || c.FocusDist != 4 {
		t.Errorf("Unexpected camera placement %+v", c)
	}

	spheres := s.Spheres()
	if len(spheres) != 2 {
		t.Fatalf("Expected 2 spheres, got %d", len(spheres))
	}
	if spheres[0].Material() != spheres[1].Material() {
		t.Error("Expected spheres referencing one id to share the material instance")
	}
}

func TestDecode_MissingCameraFieldsUseDefaults(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"name": "bare", "camera": {"width": 10}}`))
	if err != nil {
		t.Fatal(err)
	}

	if s.CameraConfig.Width != 10 {
		t.Errorf("Expected width 10, got %d", s.CameraConfig.Width)
	}
	if s.CameraConfig.SamplesPerPixel != 10 || s.CameraConfig.VUp != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected defaults for missing fields, got %+v", s.CameraConfig)
	}
	if s.World.Len() != 0 {
		t.Errorf("Expected empty world, got %d shapes", s.World.Len())
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{
			name:     "unknown material",
			input:    `{"spheres": [{"center": {"x": 0, "y": 0, "z": 0}, "radius": 1, "material": "nope"}]}`,
			expected: ErrUnknownMaterial,
		},
		{
			name:     "unknown material type",
			input:    `{"materials": [{"id": "m", "type": "metal"}]}`,
			expected: ErrUnknownMaterialType,
		},
		{
			name:     "duplicate material",
			input:    `{"materials": [{"id": "m", "type": "lambertian"}, {"id": "m", "type": "lambertian"}]}`,
			expected: ErrDuplicateMaterial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}

	if _, err := Decode(strings.NewReader(`{"name": `)); err == nil || !strings.Contains(err.Error(), "decode scene") {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestEncode_SharedMaterialsWrittenOnce(t *testing.T) {
	s := NewSphereGridScene()

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatal(err)
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode of encoded scene failed: %v", err)
	}
	if decoded.World.Len() != s.World.Len() {
		t.Errorf("Expected %d shapes, got %d", s.World.Len(), decoded.World.Len())
	}

	shared := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.3))
	two := New("shared", s.CameraConfig)
	two.AddSphere(core.NewVec3(0, 0, 0), 1, shared)
	two.AddSphere(core.NewVec3(3, 0, 0), 1, shared)

	buf.Reset()
	if err := Encode(&buf, two); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), `"type": "lambertian"`); n != 1 {
		t.Errorf("Expected one material entry, got %d", n)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.json")
	original := NewDefaultScene()

	if err := Save(path, original); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Name != original.Name {
		t.Errorf("Expected name %q, got %q", original.Name, loaded.Name)
	}
	if loaded.CameraConfig != original.CameraConfig {
		t.Errorf("Camera config changed:\n got %+v\nwant %+v", loaded.CameraConfig, original.CameraConfig)
	}

	want, got := original.Spheres(), loaded.Spheres()
	if len(want) != len(got) {
		t.Fatalf("Expected %d spheres, got %d", len(want), len(got))
	}
	for i := range want {
		if want[i].Center() != got[i].Center() || want[i].Radius() != got[i].Radius() {
			t.Errorf("Sphere %d changed: got %v r=%f", i, got[i].Center(), got[i].Radius())
		}
		if want[i].Material().(*material.Lambertian).Albedo != got[i].Material().(*material.Lambertian).Albedo {
			t.Errorf("Sphere %d albedo changed", i)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped os.ErrNotExist, got %v", err)
	}
}
