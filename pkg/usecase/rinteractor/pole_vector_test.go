// 指示: miu200521358
package rinteractor

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
)

func TestCalculatePoleVectorLiesOnPlaneNormal(t *testing.T) {
	p1 := mmath.NewVec3(0, 0, 0)
	p2 := mmath.NewVec3(0, 1, 0.5)
	p3 := mmath.NewVec3(0, 2, 0)

	position, fallback := CalculatePoleVector(p1, p2, p3, 2.0)
	if fallback {
		t.Fatalf("expected no fallback for bent chain")
	}
	if math.Abs(position.Distance(p2)-2.0) > 1e-9 {
		t.Fatalf("expected offset distance 2.0 from mid joint, got %f", position.Distance(p2))
	}

	// YZ平面内のチェーンの法線はX軸方向になる。
	direction := position.Subed(p2).Normalized()
	if math.Abs(math.Abs(direction.X)-1.0) > 1e-9 {
		t.Fatalf("expected pole direction along X axis, got %v", direction)
	}
}

func TestCalculatePoleVectorCollinearFallsBack(t *testing.T) {
	p1 := mmath.NewVec3(0, 0, 0)
	p2 := mmath.NewVec3(0, 1, 0)
	p3 := mmath.NewVec3(0, 2, 0)

	position, fallback := CalculatePoleVector(p1, p2, p3, 1.5)
	if !fallback {
		t.Fatalf("expected fallback for collinear chain")
	}
	if !position.NearEquals(mmath.NewVec3(0, 2.5, 0), 1e-9) {
		t.Fatalf("expected mid joint offset along +Y, got %v", position)
	}
}

func TestCalculatePoleVectorZeroOffsetStaysAtMid(t *testing.T) {
	p1 := mmath.NewVec3(0, 0, 0)
	p2 := mmath.NewVec3(0, 1, 0.5)
	p3 := mmath.NewVec3(0, 2, 0)

	position, fallback := CalculatePoleVector(p1, p2, p3, 0)
	if fallback {
		t.Fatalf("expected no fallback for bent chain")
	}
	if !position.NearEquals(p2, 1e-9) {
		t.Fatalf("expected zero offset to stay at mid joint, got %v", position)
	}
}
