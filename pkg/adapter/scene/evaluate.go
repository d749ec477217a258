// 指示: miu200521358
package scene

import "github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"

// constraintRelaxationRounds はコンストレイントとIKの固定点反復回数。
// 有効なリンクに循環が無い前提で、2回で依存が伝播しきる。
const constraintRelaxationRounds = 2

// evalState は1ノードの評価結果を表す。
type evalState struct {
	localPos mmath.Vec3
	localRot mmath.Quaternion
	worldPos mmath.Vec3
	worldRot mmath.Quaternion
}

// ensureEvaluated は現在フレームの評価結果を最新化する。
func (s *Scene) ensureEvaluated() {
	if s.evalValid && s.evalFrame == s.currentFrame {
		return
	}
	s.Evaluate(s.currentFrame)
}

// Evaluate は指定フレームのシーン全体を評価する。
// カーブ適用 → ワールド合成 → (コンストレイント適用 → IK解決) の反復、の順で解決する。
func (s *Scene) Evaluate(frame float64) {
	states := make(map[string]*evalState, len(s.nodes))
	for name, node := range s.nodes {
		states[name] = &evalState{
			localPos: mmath.NewVec3(
				s.sampleChannel(node, "tx", frame, node.Translation.X),
				s.sampleChannel(node, "ty", frame, node.Translation.Y),
				s.sampleChannel(node, "tz", frame, node.Translation.Z),
			),
			localRot: mmath.NewQuaternionFromDegrees(
				s.sampleChannel(node, "rx", frame, node.Rotation.X),
				s.sampleChannel(node, "ry", frame, node.Rotation.Y),
				s.sampleChannel(node, "rz", frame, node.Rotation.Z),
			),
		}
	}
	s.evaluated = states
	s.computeAllWorlds()

	for round := 0; round < constraintRelaxationRounds; round++ {
		for _, link := range s.constraints {
			s.applyConstraint(link)
		}
		for _, handle := range s.ikHandles {
			s.solveIK(handle)
		}
	}

	s.evalFrame = frame
	s.evalValid = true
}

// sampleChannel はチャンネル値をフレームでサンプリングする。キーが無ければ基準値を返す。
// 範囲外は端のキー値で保持し、キー間は線形補間する。
func (s *Scene) sampleChannel(node *Node, channel string, frame float64, base float64) float64 {
	keys := node.Curves[channel]
	if len(keys) == 0 {
		return base
	}
	if frame <= keys[0].Frame {
		return keys[0].Value
	}
	last := keys[len(keys)-1]
	if frame >= last.Frame {
		return last.Value
	}
	for index := 1; index < len(keys); index++ {
		if frame > keys[index].Frame {
			continue
		}
		prev := keys[index-1]
		next := keys[index]
		span := next.Frame - prev.Frame
		if span == 0 {
			return next.Value
		}
		ratio := (frame - prev.Frame) / span
		return prev.Value + (next.Value-prev.Value)*ratio
	}
	return last.Value
}

// computeAllWorlds は親から順に全ノードのワールド姿勢を合成する。
func (s *Scene) computeAllWorlds() {
	done := make(map[string]bool, len(s.nodes))
	var compute func(name string)
	compute = func(name string) {
		if done[name] {
			return
		}
		node := s.nodes[name]
		if node.Parent != "" {
			compute(node.Parent)
		}
		s.composeWorld(node)
		done[name] = true
	}
	for _, name := range s.order {
		compute(name)
	}
}

// composeWorld は親のワールド姿勢からノードのワールド姿勢を合成する。
func (s *Scene) composeWorld(node *Node) {
	state := s.evaluated[node.Name]
	if node.Parent == "" {
		state.worldPos = state.localPos
		state.worldRot = node.RestRotation.Muled(state.localRot)
		return
	}
	parent := s.evaluated[node.Parent]
	state.worldPos = parent.worldPos.Added(parent.worldRot.MulVec3(state.localPos))
	state.worldRot = parent.worldRot.Muled(node.RestRotation).Muled(state.localRot)
}

// recomputeWorld はノードとその子孫のワールド姿勢を再合成する。
func (s *Scene) recomputeWorld(name string) {
	s.composeWorld(s.nodes[name])
	for _, childName := range s.childrenOf(name) {
		s.recomputeWorld(childName)
	}
}

// setWorldPosition はワールド位置を満たすようローカル位置を書き換える。
func (s *Scene) setWorldPosition(name string, desired mmath.Vec3) {
	node := s.nodes[name]
	state := s.evaluated[name]
	if node.Parent == "" {
		state.localPos = desired
	} else {
		parent := s.evaluated[node.Parent]
		state.localPos = parent.worldRot.Inverted().MulVec3(desired.Subed(parent.worldPos))
	}
	s.recomputeWorld(name)
}

// setWorldRotation はワールド回転を満たすようローカル回転を書き換える。
func (s *Scene) setWorldRotation(name string, desired mmath.Quaternion) {
	node := s.nodes[name]
	state := s.evaluated[name]
	if node.Parent == "" {
		state.localRot = node.RestRotation.Inverted().Muled(desired)
	} else {
		parent := s.evaluated[node.Parent]
		state.localRot = parent.worldRot.Muled(node.RestRotation).Inverted().Muled(desired)
	}
	s.recomputeWorld(name)
}
