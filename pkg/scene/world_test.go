package scene

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/material"
)

func TestWorld_EmptyMisses(t *testing.T) {
	world := NewWorld()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if hit, isHit := world.Hit(ray, core.NewInterval(0.001, math.Inf(1))); isHit {
		t.Errorf("Expected empty world to miss, got hit at t=%f", hit.T)
	}
}

func TestWorld_ClosestHitWins(t *testing.T) {
	near := material.NewLambertian(core.NewVec3(1, 0, 0))
	far := material.NewLambertian(core.NewVec3(0, 0, 1))

	// Far sphere added first so insertion order cannot explain the result
	world := NewWorld(
		geometry.NewSphere(core.NewVec3(0, 0, -10), 1, far),
		geometry.NewSphere(core.NewVec3(0, 0, -3), 1, near),
	)
	if world.Len() != 2 {
		t.Fatalf("Expected 2 shapes, got %d", world.Len())
	}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, isHit := world.Hit(ray, core.NewInterval(0.001, math.Inf(1)))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected t=2, got %f", hit.T)
	}
	if hit.Material != near {
		t.Error("Expected hit record to carry the nearer sphere's material")
	}
}

func TestWorld_RespectsInterval(t *testing.T) {
	world := NewWorld(geometry.NewSphere(core.NewVec3(0, 0, -3), 1, nil))
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if _, isHit := world.Hit(ray, core.NewInterval(0.001, 1.5)); isHit {
		t.Error("Expected miss when both roots lie beyond the interval")
	}
}

func TestWorld_ClosestHitInvariant(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	world := NewWorld()
	for i := 0; i < 20; i++ {
		center := core.NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		world.Add(geometry.NewSphere(center, 0.2+random.Float64()*1.5, nil))
	}

	rayT := core.NewInterval(0.001, math.Inf(1))
	hits := 0
	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
		ray := core.NewRay(origin, core.RandomUnitVector(random))

		hit, isHit := world.Hit(ray, rayT)
		for _, shape := range world.Shapes() {
			member, memberHit := shape.Hit(ray, rayT)
			if !memberHit {
				continue
			}
			if !isHit {
				t.Fatalf("Ray %d: member hit at t=%f but world reported a miss", i, member.T)
			}
			if hit.T > member.T {
				t.Fatalf("Ray %d: world t=%f exceeds member t=%f", i, hit.T, member.T)
			}
		}
		if isHit {
			hits++
		}
	}

	if hits == 0 {
		t.Fatal("Expected at least some rays to hit the world")
	}
}
