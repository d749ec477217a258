// 指示: miu200521358
package scene

import (
	"testing"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
)

// buildJointColumn はY軸方向へ等間隔に並ぶジョイント列を作る。
func buildJointColumn(t *testing.T, target *Scene, names []string) {
	t.Helper()
	parent := ""
	for index, name := range names {
		translation := mmath.ZERO_VEC3
		if index > 0 {
			translation = mmath.NewVec3(0, 1, 0)
		}
		if err := target.AddNode(&Node{Name: name, Type: NodeTypeJoint, Parent: parent, Translation: translation}); err != nil {
			t.Fatalf("AddNode %s failed: %v", name, err)
		}
		parent = name
	}
}

func TestCreateIKHandleRequiresThreeJoints(t *testing.T) {
	target := NewScene(0, 24)
	buildJointColumn(t, target, []string{"j1", "j2"})

	if _, err := target.CreateIKHandle("handle", "j1", "j2"); err == nil {
		t.Fatalf("expected short chain error, got nil")
	}
}

func TestCreateIKHandleRequiresJointNodes(t *testing.T) {
	target := NewScene(0, 24)
	if err := target.AddNode(&Node{Name: "t1", Type: NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := target.AddNode(&Node{Name: "t2", Type: NodeTypeTransform, Parent: "t1"}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := target.AddNode(&Node{Name: "t3", Type: NodeTypeTransform, Parent: "t2"}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	if _, err := target.CreateIKHandle("handle", "t1", "t3"); err == nil {
		t.Fatalf("expected non-joint chain error, got nil")
	}
}

func TestTwoBoneIKReachesTarget(t *testing.T) {
	target := NewScene(0, 24)
	buildJointColumn(t, target, []string{"j1", "j2", "j3"})

	if _, err := target.CreateIKHandle("handle", "j1", "j3"); err != nil {
		t.Fatalf("CreateIKHandle failed: %v", err)
	}
	if err := target.SetKeyframe("handle", "tx", 0, 1); err != nil {
		t.Fatalf("SetKeyframe tx failed: %v", err)
	}
	if err := target.SetKeyframe("handle", "ty", 0, 1); err != nil {
		t.Fatalf("SetKeyframe ty failed: %v", err)
	}

	tip, err := target.WorldPosition("j3")
	if err != nil {
		t.Fatalf("WorldPosition failed: %v", err)
	}
	if tip.Distance(mmath.NewVec3(1, 1, 0)) > 1e-6 {
		t.Fatalf("expected tip at IK target (1, 1, 0), got %v", tip)
	}
}

func TestTwoBoneIKBendsTowardPoleVector(t *testing.T) {
	target := NewScene(0, 24)
	buildJointColumn(t, target, []string{"j1", "j2", "j3"})

	handle, err := target.CreateIKHandle("handle", "j1", "j3")
	if err != nil {
		t.Fatalf("CreateIKHandle failed: %v", err)
	}
	if err := target.CreateLocator("pole", mmath.NewVec3(0, 1, 2)); err != nil {
		t.Fatalf("CreateLocator failed: %v", err)
	}
	if _, err := target.ConstrainPoleVector("pole", handle); err != nil {
		t.Fatalf("ConstrainPoleVector failed: %v", err)
	}
	// 目標を縮めて中間関節を曲げさせる。
	if err := target.SetKeyframe("handle", "ty", 0, 1.5); err != nil {
		t.Fatalf("SetKeyframe failed: %v", err)
	}

	mid, err := target.WorldPosition("j2")
	if err != nil {
		t.Fatalf("WorldPosition failed: %v", err)
	}
	if mid.Z <= 0 {
		t.Fatalf("expected mid joint bent toward pole (+Z), got %v", mid)
	}
	tip, err := target.WorldPosition("j3")
	if err != nil {
		t.Fatalf("WorldPosition failed: %v", err)
	}
	if tip.Distance(mmath.NewVec3(0, 1.5, 0)) > 1e-6 {
		t.Fatalf("expected tip at IK target (0, 1.5, 0), got %v", tip)
	}
}

func TestTwoBoneIKKeepsExtendedChainStraight(t *testing.T) {
	target := NewScene(0, 24)
	buildJointColumn(t, target, []string{"j1", "j2", "j3"})

	if _, err := target.CreateIKHandle("handle", "j1", "j3"); err != nil {
		t.Fatalf("CreateIKHandle failed: %v", err)
	}

	// 目標が先端の初期位置(到達限界ちょうど)の場合、完全伸展の直線姿勢を崩さない。
	mid, err := target.WorldPosition("j2")
	if err != nil {
		t.Fatalf("WorldPosition failed: %v", err)
	}
	if !mid.NearEquals(mmath.NewVec3(0, 1, 0), 1e-9) {
		t.Fatalf("expected mid joint kept on the chain line, got %v", mid)
	}

	// 到達限界以遠の目標でも直線のまま限界位置へ伸ばす。
	if err := target.SetKeyframe("handle", "ty", 0, 3); err != nil {
		t.Fatalf("SetKeyframe failed: %v", err)
	}
	mid, err = target.WorldPosition("j2")
	if err != nil {
		t.Fatalf("WorldPosition failed: %v", err)
	}
	if !mid.NearEquals(mmath.NewVec3(0, 1, 0), 1e-9) {
		t.Fatalf("expected mid joint kept straight toward far target, got %v", mid)
	}
	tip, err := target.WorldPosition("j3")
	if err != nil {
		t.Fatalf("WorldPosition failed: %v", err)
	}
	if !tip.NearEquals(mmath.NewVec3(0, 2, 0), 1e-9) {
		t.Fatalf("expected tip at full reach (0, 2, 0), got %v", tip)
	}
}

func TestCcdIKApproachesTarget(t *testing.T) {
	target := NewScene(0, 24)
	buildJointColumn(t, target, []string{"j1", "j2", "j3", "j4"})

	if _, err := target.CreateIKHandle("handle", "j1", "j4"); err != nil {
		t.Fatalf("CreateIKHandle failed: %v", err)
	}
	if err := target.SetKeyframe("handle", "tx", 0, 1); err != nil {
		t.Fatalf("SetKeyframe tx failed: %v", err)
	}
	if err := target.SetKeyframe("handle", "ty", 0, 2); err != nil {
		t.Fatalf("SetKeyframe ty failed: %v", err)
	}

	tip, err := target.WorldPosition("j4")
	if err != nil {
		t.Fatalf("WorldPosition failed: %v", err)
	}
	if tip.Distance(mmath.NewVec3(1, 2, 0)) > 1e-2 {
		t.Fatalf("expected tip near IK target (1, 2, 0), got %v", tip)
	}
}
