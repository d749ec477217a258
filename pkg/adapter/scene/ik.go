// 指示: miu200521358
package scene

import (
	"fmt"
	"math"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
)

const (
	ikMinimumChainJointCount = 3
	ikLengthEpsilon          = 1e-8
	ikCcdIterations          = 10
	ikCcdTolerance           = 1e-6
)

// ikHandleRecord は回転平面IKハンドル1本を表す。
// ハンドル自体もシーンノードとして存在し、そのワールド位置が目標点になる。
type ikHandleRecord struct {
	Name      string
	RootJoint string
	TipJoint  string
}

// CreateIKHandle はルートから先端までのジョイント連鎖へIKハンドルを生成する。
func (s *Scene) CreateIKHandle(name string, rootJoint string, tipJoint string) (string, error) {
	chain, err := s.jointChain(rootJoint, tipJoint)
	if err != nil {
		return "", err
	}
	if len(chain) < ikMinimumChainJointCount {
		return "", fmt.Errorf("IKチェーンのジョイント数が不足しています: %d (最低 %d)", len(chain), ikMinimumChainJointCount)
	}

	s.ensureEvaluated()
	tipPosition := s.evaluated[tipJoint].worldPos
	if err := s.createNodeAtWorld(name, NodeTypeIKHandle, "", tipPosition, mmath.NewQuaternion()); err != nil {
		return "", err
	}
	s.ikHandles = append(s.ikHandles, &ikHandleRecord{
		Name:      name,
		RootJoint: rootJoint,
		TipJoint:  tipJoint,
	})
	return name, nil
}

// ConstrainPoleVector はポールベクタ参照元をIKハンドルへ接続する。
func (s *Scene) ConstrainPoleVector(source string, ikHandle string) (string, error) {
	if !s.Exists(source) {
		return "", fmt.Errorf("ポールベクタ参照元が存在しません: %s", source)
	}
	if s.findIKHandle(ikHandle) == nil {
		return "", fmt.Errorf("IKハンドルが存在しません: %s", ikHandle)
	}

	s.constraintSeq++
	link := &constraintLink{
		Handle:    fmt.Sprintf("mu_constraint_pv_%03d", s.constraintSeq),
		Kind:      constraintPoleVector,
		Driver:    source,
		Driven:    ikHandle,
		OffsetRot: mmath.NewQuaternion(),
	}
	s.constraints = append(s.constraints, link)
	s.invalidate()
	return link.Handle, nil
}

// findIKHandle は名前からIKハンドル記録を探す。
func (s *Scene) findIKHandle(name string) *ikHandleRecord {
	for _, handle := range s.ikHandles {
		if handle.Name == name {
			return handle
		}
	}
	return nil
}

// jointChain は先端から親を辿り、ルートまでのジョイント列(ルート→先端)を返す。
func (s *Scene) jointChain(rootJoint string, tipJoint string) ([]string, error) {
	for _, joint := range []string{rootJoint, tipJoint} {
		nodeType, err := s.NodeType(joint)
		if err != nil {
			return nil, err
		}
		if nodeType != NodeTypeJoint {
			return nil, fmt.Errorf("IK対象がジョイントではありません: %s", joint)
		}
	}

	chain := []string{tipJoint}
	current := tipJoint
	for current != rootJoint {
		node := s.nodes[current]
		if node.Parent == "" {
			return nil, fmt.Errorf("先端からルートへ到達できません: %s → %s", tipJoint, rootJoint)
		}
		current = node.Parent
		chain = append(chain, current)
	}
	for left, right := 0, len(chain)-1; left < right; left, right = left+1, right-1 {
		chain[left], chain[right] = chain[right], chain[left]
	}
	return chain, nil
}

// solveIK はIKハンドル1本を解決する。3関節は解析解、それ以上はCCDで近似する。
func (s *Scene) solveIK(handle *ikHandleRecord) {
	handleState, handleExists := s.evaluated[handle.Name]
	if !handleExists {
		return
	}
	chain, err := s.jointChain(handle.RootJoint, handle.TipJoint)
	if err != nil {
		return
	}

	target := handleState.worldPos
	pole := s.poleTargetFor(handle, chain)
	if len(chain) == ikMinimumChainJointCount {
		s.solveTwoBoneIK(chain, target, pole)
		return
	}
	s.solveCcdIK(chain, target)
}

// poleTargetFor はポールベクタ参照位置を返す。未接続時は中間関節位置で平面を維持する。
func (s *Scene) poleTargetFor(handle *ikHandleRecord, chain []string) mmath.Vec3 {
	for _, link := range s.constraints {
		if link.Kind != constraintPoleVector || link.Driven != handle.Name {
			continue
		}
		if sourceState, exists := s.evaluated[link.Driver]; exists {
			return sourceState.worldPos
		}
	}
	return s.evaluated[chain[len(chain)/2]].worldPos
}

// solveTwoBoneIK は余弦定理による2ボーンIKの解析解を適用する。
// 中間関節はポールベクタが張る平面側へ曲げる。
func (s *Scene) solveTwoBoneIK(chain []string, target mmath.Vec3, pole mmath.Vec3) {
	rootPos := s.evaluated[chain[0]].worldPos
	midPos := s.evaluated[chain[1]].worldPos
	tipPos := s.evaluated[chain[2]].worldPos

	upperLength := rootPos.Distance(midPos)
	lowerLength := midPos.Distance(tipPos)
	if upperLength < ikLengthEpsilon || lowerLength < ikLengthEpsilon {
		return
	}

	toTarget := target.Subed(rootPos)
	distance := toTarget.Length()
	minDistance := math.Abs(upperLength-lowerLength) + ikLengthEpsilon
	// 完全伸展(目標が到達限界以遠)では直線姿勢を正確に保つため、上限側は縮めない。
	maxDistance := upperLength + lowerLength
	if distance < minDistance {
		distance = minDistance
	}
	if distance > maxDistance {
		distance = maxDistance
	}
	direction := toTarget.Normalized()
	if direction.Length() == 0 {
		return
	}

	poleDirection := pole.Subed(rootPos)
	poleDirection = poleDirection.Subed(direction.MuledScalar(poleDirection.Dot(direction)))
	if poleDirection.Length() < ikLengthEpsilon {
		poleDirection = direction.Cross(mmath.UNIT_Y_VEC3)
		if poleDirection.Length() < ikLengthEpsilon {
			poleDirection = direction.Cross(mmath.UNIT_X_VEC3)
		}
	}
	poleDirection = poleDirection.Normalized()

	cosUpper := (upperLength*upperLength + distance*distance - lowerLength*lowerLength) / (2 * upperLength * distance)
	if cosUpper > 1.0 {
		cosUpper = 1.0
	}
	if cosUpper < -1.0 {
		cosUpper = -1.0
	}
	sinUpper := math.Sqrt(1.0 - cosUpper*cosUpper)

	desiredMid := rootPos.
		Added(direction.MuledScalar(upperLength * cosUpper)).
		Added(poleDirection.MuledScalar(upperLength * sinUpper))
	desiredTip := rootPos.Added(direction.MuledScalar(distance))

	s.aimJoint(chain[0], chain[1], desiredMid)
	s.aimJoint(chain[1], chain[2], desiredTip)
}

// solveCcdIK は先端が目標へ届くまで各関節を回すCCD近似を適用する。
func (s *Scene) solveCcdIK(chain []string, target mmath.Vec3) {
	tip := chain[len(chain)-1]
	for iteration := 0; iteration < ikCcdIterations; iteration++ {
		if s.evaluated[tip].worldPos.Distance(target) < ikCcdTolerance {
			return
		}
		for index := len(chain) - 2; index >= 0; index-- {
			s.aimJoint(chain[index], tip, target)
		}
	}
}

// aimJoint はジョイントを回し、childの現在位置をdesiredへ向ける。
func (s *Scene) aimJoint(jointName string, childName string, desired mmath.Vec3) {
	jointState := s.evaluated[jointName]
	childState := s.evaluated[childName]
	from := childState.worldPos.Subed(jointState.worldPos)
	to := desired.Subed(jointState.worldPos)
	if from.Length() < ikLengthEpsilon || to.Length() < ikLengthEpsilon {
		return
	}
	delta := mmath.NewQuaternionFromTo(from, to)
	s.setWorldRotation(jointName, delta.Muled(jointState.worldRot))
}
