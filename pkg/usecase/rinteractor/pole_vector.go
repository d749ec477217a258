// 指示: miu200521358
package rinteractor

import "github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"

// poleVectorDegenerateEpsilon はチェーンを直線とみなす法線長の閾値。
const poleVectorDegenerateEpsilon = 1e-6

// CalculatePoleVector は3関節が張る平面の法線方向へoffsetだけ離れた点を返す。
// チェーンがほぼ直線の場合はp2の+Y方向へ逃がし、フォールバックしたことを返す。
func CalculatePoleVector(p1 mmath.Vec3, p2 mmath.Vec3, p3 mmath.Vec3, offset float64) (mmath.Vec3, bool) {
	v1 := p2.Subed(p1)
	v2 := p3.Subed(p2)
	normal := v1.Cross(v2)
	if normal.Length() < poleVectorDegenerateEpsilon {
		return p2.Added(mmath.NewVec3(0, offset, 0)), true
	}
	return p2.Added(normal.Normalized().MuledScalar(offset)), false
}
