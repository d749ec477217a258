// 指示: miu200521358
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const quaternionGimbalEpsilon = 1e-9

// Quaternion は3次元回転を表す。
type Quaternion struct {
	mgl64.Quat
}

// NewQuaternion は単位回転を生成する。
func NewQuaternion() Quaternion {
	return Quaternion{Quat: mgl64.QuatIdent()}
}

// NewQuaternionFromDegrees はXYZ順のオイラー角(度)から回転を生成する。
func NewQuaternionFromDegrees(degreeX float64, degreeY float64, degreeZ float64) Quaternion {
	qx := mgl64.QuatRotate(DegToRad(degreeX), mgl64.Vec3{1, 0, 0})
	qy := mgl64.QuatRotate(DegToRad(degreeY), mgl64.Vec3{0, 1, 0})
	qz := mgl64.QuatRotate(DegToRad(degreeZ), mgl64.Vec3{0, 0, 1})
	return Quaternion{Quat: qz.Mul(qy).Mul(qx)}
}

// NewQuaternionFromTo はfromをtoへ向ける最小回転を生成する。
// いずれかが長さゼロの場合は単位回転を返す。
func NewQuaternionFromTo(from Vec3, to Vec3) Quaternion {
	if from.Length() == 0 || to.Length() == 0 {
		return NewQuaternion()
	}
	return Quaternion{Quat: mgl64.QuatBetweenVectors(toMgl(from), toMgl(to))}
}

// Muled は回転の合成結果を返す。
func (q Quaternion) Muled(other Quaternion) Quaternion {
	return Quaternion{Quat: q.Quat.Mul(other.Quat)}
}

// MulVec3 はベクトルへ回転を適用する。
func (q Quaternion) MulVec3(v Vec3) Vec3 {
	return fromMgl(q.Quat.Rotate(toMgl(v)))
}

// Inverted は逆回転を返す。
func (q Quaternion) Inverted() Quaternion {
	return Quaternion{Quat: q.Quat.Inverse()}
}

// Normalized は正規化結果を返す。
func (q Quaternion) Normalized() Quaternion {
	return Quaternion{Quat: q.Quat.Normalize()}
}

// NearEquals は同一回転とみなせるか判定する。符号反転した表現も同一とみなす。
func (q Quaternion) NearEquals(other Quaternion, epsilon float64) bool {
	return math.Abs(q.Quat.Dot(other.Quat)) >= 1.0-epsilon
}

// ToDegrees はXYZ順のオイラー角(度)へ変換する。
func (q Quaternion) ToDegrees() Vec3 {
	m := q.Quat.Normalize().Mat4()

	sinY := -m.At(2, 0)
	if sinY > 1.0 {
		sinY = 1.0
	}
	if sinY < -1.0 {
		sinY = -1.0
	}

	// ジンバルロック時はZ回転を0に固定して分解する。
	if math.Abs(sinY) > 1.0-quaternionGimbalEpsilon {
		x := math.Atan2(-m.At(1, 2), m.At(1, 1))
		y := math.Asin(sinY)
		return NewVec3(RadToDeg(x), RadToDeg(y), 0)
	}

	x := math.Atan2(m.At(2, 1), m.At(2, 2))
	y := math.Asin(sinY)
	z := math.Atan2(m.At(1, 0), m.At(0, 0))
	return NewVec3(RadToDeg(x), RadToDeg(y), RadToDeg(z))
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(degree float64) float64 {
	return mgl64.DegToRad(degree)
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(radian float64) float64 {
	return mgl64.RadToDeg(radian)
}

// toMgl はVec3をmgl64表現へ変換する。
func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// fromMgl はmgl64表現からVec3へ変換する。
func fromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v.X(), v.Y(), v.Z())
}
