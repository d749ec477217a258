// 指示: miu200521358
package scene

import (
	"fmt"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
)

// constraintKind はコンストレイント種別を表す。
type constraintKind int

const (
	constraintPosition constraintKind = iota
	constraintOrientation
	constraintPoleVector
)

// constraintLink は駆動側→被駆動側の有向リンクを表す。
// MaintainOffset時は作成時点の相対姿勢をOffsetへ記録し、評価時に維持する。
type constraintLink struct {
	Handle         string
	Kind           constraintKind
	Driver         string
	Driven         string
	MaintainOffset bool
	OffsetPos      mmath.Vec3
	OffsetRot      mmath.Quaternion
}

// ConstrainPosition は位置コンストレイントを作成する。
func (s *Scene) ConstrainPosition(driver string, driven string, maintainOffset bool) (string, error) {
	return s.addConstraint(constraintPosition, "pos", driver, driven, maintainOffset)
}

// ConstrainOrientation は回転コンストレイントを作成する。
func (s *Scene) ConstrainOrientation(driver string, driven string, maintainOffset bool) (string, error) {
	return s.addConstraint(constraintOrientation, "ori", driver, driven, maintainOffset)
}

// addConstraint はコンストレイントを登録し、削除用ハンドルを返す。
func (s *Scene) addConstraint(kind constraintKind, kindLabel string, driver string, driven string, maintainOffset bool) (string, error) {
	if !s.Exists(driver) {
		return "", fmt.Errorf("駆動側ノードが存在しません: %s", driver)
	}
	if !s.Exists(driven) {
		return "", fmt.Errorf("被駆動側ノードが存在しません: %s", driven)
	}

	s.ensureEvaluated()
	link := &constraintLink{
		Kind:           kind,
		Driver:         driver,
		Driven:         driven,
		MaintainOffset: maintainOffset,
		OffsetRot:      mmath.NewQuaternion(),
	}
	if maintainOffset {
		driverState := s.evaluated[driver]
		drivenState := s.evaluated[driven]
		inverse := driverState.worldRot.Inverted()
		link.OffsetPos = inverse.MulVec3(drivenState.worldPos.Subed(driverState.worldPos))
		link.OffsetRot = inverse.Muled(drivenState.worldRot)
	}

	s.constraintSeq++
	link.Handle = fmt.Sprintf("mu_constraint_%s_%03d", kindLabel, s.constraintSeq)
	s.constraints = append(s.constraints, link)
	s.invalidate()
	return link.Handle, nil
}

// ConstraintExists はコンストレイントの存在を判定する。
func (s *Scene) ConstraintExists(handle string) bool {
	for _, link := range s.constraints {
		if link.Handle == handle {
			return true
		}
	}
	return false
}

// DeleteConstraint はコンストレイントを削除する。
func (s *Scene) DeleteConstraint(handle string) error {
	for index, link := range s.constraints {
		if link.Handle != handle {
			continue
		}
		s.constraints = append(s.constraints[:index], s.constraints[index+1:]...)
		s.invalidate()
		return nil
	}
	return fmt.Errorf("コンストレイントが存在しません: %s", handle)
}

// ConstraintCount は有効なコンストレイント数を返す。
func (s *Scene) ConstraintCount() int {
	return len(s.constraints)
}

// applyConstraint はコンストレイント1本を評価結果へ適用する。
// ポールベクタ種別はIK解決側で参照するためここでは何もしない。
func (s *Scene) applyConstraint(link *constraintLink) {
	if link.Kind == constraintPoleVector {
		return
	}
	driverState, driverExists := s.evaluated[link.Driver]
	if _, drivenExists := s.evaluated[link.Driven]; !driverExists || !drivenExists {
		return
	}

	switch link.Kind {
	case constraintPosition:
		desired := driverState.worldPos
		if link.MaintainOffset {
			desired = driverState.worldPos.Added(driverState.worldRot.MulVec3(link.OffsetPos))
		}
		s.setWorldPosition(link.Driven, desired)
	case constraintOrientation:
		desired := driverState.worldRot
		if link.MaintainOffset {
			desired = driverState.worldRot.Muled(link.OffsetRot)
		}
		s.setWorldRotation(link.Driven, desired)
	}
}
