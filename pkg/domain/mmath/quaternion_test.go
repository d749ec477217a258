// 指示: miu200521358
package mmath

import (
	"math"
	"testing"
)

func TestNewQuaternionFromDegreesRotatesAroundSingleAxis(t *testing.T) {
	q := NewQuaternionFromDegrees(0, 0, 90)
	rotated := q.MulVec3(UNIT_X_VEC3)
	if !rotated.NearEquals(UNIT_Y_VEC3, 1e-9) {
		t.Fatalf("z90 rotation mismatch: %v", rotated)
	}

	q = NewQuaternionFromDegrees(90, 0, 0)
	rotated = q.MulVec3(UNIT_Y_VEC3)
	if !rotated.NearEquals(UNIT_Z_VEC3, 1e-9) {
		t.Fatalf("x90 rotation mismatch: %v", rotated)
	}
}

func TestQuaternionEulerRoundTrip(t *testing.T) {
	for _, degrees := range []Vec3{
		NewVec3(10, 20, 30),
		NewVec3(-45, 60, -15),
		NewVec3(0, 0, 0),
		NewVec3(120, -35, 70),
	} {
		q := NewQuaternionFromDegrees(degrees.X, degrees.Y, degrees.Z)
		back := q.ToDegrees()
		restored := NewQuaternionFromDegrees(back.X, back.Y, back.Z)
		if !q.NearEquals(restored, 1e-9) {
			t.Fatalf("euler round trip mismatch: in=%v out=%v", degrees, back)
		}
	}
}

func TestQuaternionMuledComposesInOrder(t *testing.T) {
	qz := NewQuaternionFromDegrees(0, 0, 90)
	qx := NewQuaternionFromDegrees(90, 0, 0)
	// qz.Muled(qx) はXを先に適用してからZを適用する。
	got := qz.Muled(qx).MulVec3(UNIT_Y_VEC3)
	if !got.NearEquals(UNIT_Z_VEC3, 1e-9) {
		t.Fatalf("composition mismatch: %v", got)
	}
}

func TestQuaternionInvertedCancelsRotation(t *testing.T) {
	q := NewQuaternionFromDegrees(25, -40, 65)
	v := NewVec3(1.5, -2.0, 0.5)
	restored := q.Inverted().MulVec3(q.MulVec3(v))
	if !restored.NearEquals(v, 1e-9) {
		t.Fatalf("inverse should cancel rotation: %v", restored)
	}
}

func TestNewQuaternionFromToAlignsVectors(t *testing.T) {
	from := NewVec3(1, 0, 0)
	to := NewVec3(0, 0.5, 0.5)
	q := NewQuaternionFromTo(from, to)
	rotated := q.MulVec3(from)
	if !rotated.Normalized().NearEquals(to.Normalized(), 1e-9) {
		t.Fatalf("from-to rotation mismatch: %v", rotated)
	}
	if math.Abs(rotated.Length()-from.Length()) > 1e-9 {
		t.Fatalf("rotation should preserve length: %f", rotated.Length())
	}
}

func TestNewQuaternionFromToZeroVectorIsIdentity(t *testing.T) {
	q := NewQuaternionFromTo(ZERO_VEC3, UNIT_X_VEC3)
	if !q.NearEquals(NewQuaternion(), 1e-12) {
		t.Fatalf("zero from vector should produce identity: %v", q)
	}
}
