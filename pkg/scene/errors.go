package scene

import "errors"

var (
	// ErrUnknownScene is returned by Create for names that are neither a
	// built-in scene nor a .json file.
	ErrUnknownScene = errors.New("scene: unknown scene")

	// ErrUnknownMaterial is returned when a sphere references a material id
	// that the scene file does not define.
	ErrUnknownMaterial = errors.New("scene: unknown material")

	// ErrUnknownMaterialType is returned for material types other than lambertian.
	ErrUnknownMaterialType = errors.New("scene: unknown material type")

	// ErrDuplicateMaterial is returned when two materials share an id.
	ErrDuplicateMaterial = errors.New("scene: duplicate material id")
)
