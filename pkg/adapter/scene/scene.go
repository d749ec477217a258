// 指示: miu200521358
package scene

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fk2ik/pkg/usecase/port/routput"
)

// Scene はインメモリのシーングラフホストを表す。
// 全コラボレータ契約(ISceneHost)を1つで実装する。
type Scene struct {
	nodes         map[string]*Node
	order         []string
	constraints   []*constraintLink
	constraintSeq int
	ikHandles     []*ikHandleRecord

	playbackStart float64
	playbackEnd   float64
	currentFrame  float64

	evaluated map[string]*evalState
	evalFrame float64
	evalValid bool
}

var _ routput.ISceneHost = (*Scene)(nil)

// NewScene は再生範囲を指定してシーンを生成する。
func NewScene(playbackStart float64, playbackEnd float64) *Scene {
	return &Scene{
		nodes:         map[string]*Node{},
		playbackStart: playbackStart,
		playbackEnd:   playbackEnd,
		currentFrame:  playbackStart,
	}
}

// AddNode はノードを追加する。名前は一意で、親は先に存在していなければならない。
func (s *Scene) AddNode(node *Node) error {
	if node == nil || node.Name == "" {
		return fmt.Errorf("追加対象ノードが不正です")
	}
	if _, exists := s.nodes[node.Name]; exists {
		return fmt.Errorf("ノード名が重複しています: %s", node.Name)
	}
	if node.Parent != "" {
		if _, exists := s.nodes[node.Parent]; !exists {
			return fmt.Errorf("親ノードが存在しません: %s", node.Parent)
		}
	}
	if node.Curves == nil {
		node.Curves = map[string][]Keyframe{}
	}
	if node.RestRotation.Quat.Len() == 0 {
		node.RestRotation = mmath.NewQuaternion()
	}
	s.nodes[node.Name] = node
	s.order = append(s.order, node.Name)
	s.invalidate()
	return nil
}

// Exists はノードの存在を判定する。
func (s *Scene) Exists(name string) bool {
	_, exists := s.nodes[name]
	return exists
}

// NodeType はノード種別を返す。
func (s *Scene) NodeType(name string) (string, error) {
	node, exists := s.nodes[name]
	if !exists {
		return "", fmt.Errorf("ノードが存在しません: %s", name)
	}
	return node.Type, nil
}

// Ancestors は祖先ノード名を近い順に返す。
func (s *Scene) Ancestors(name string) ([]string, error) {
	node, exists := s.nodes[name]
	if !exists {
		return nil, fmt.Errorf("ノードが存在しません: %s", name)
	}
	ancestors := []string{}
	for parent := node.Parent; parent != ""; {
		ancestors = append(ancestors, parent)
		parentNode, parentExists := s.nodes[parent]
		if !parentExists {
			break
		}
		parent = parentNode.Parent
	}
	return ancestors, nil
}

// NodeNames は全ノード名を作成順で返す。
func (s *Scene) NodeNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

// ParentOf はノードの親名を返す。ルートは空文字。
func (s *Scene) ParentOf(name string) (string, error) {
	node, exists := s.nodes[name]
	if !exists {
		return "", fmt.Errorf("ノードが存在しません: %s", name)
	}
	return node.Parent, nil
}

// WorldPosition は現在フレームのワールド位置を返す。
func (s *Scene) WorldPosition(name string) (mmath.Vec3, error) {
	if !s.Exists(name) {
		return mmath.ZERO_VEC3, fmt.Errorf("ノードが存在しません: %s", name)
	}
	s.ensureEvaluated()
	return s.evaluated[name].worldPos, nil
}

// WorldRotation は現在フレームのワールド回転を返す。
func (s *Scene) WorldRotation(name string) (mmath.Quaternion, error) {
	if !s.Exists(name) {
		return mmath.NewQuaternion(), fmt.Errorf("ノードが存在しません: %s", name)
	}
	s.ensureEvaluated()
	return s.evaluated[name].worldRot, nil
}

// CreateJoint はワールド姿勢を指定してジョイントを生成する。
func (s *Scene) CreateJoint(name string, parent string, position mmath.Vec3, rotation mmath.Quaternion) error {
	return s.createNodeAtWorld(name, NodeTypeJoint, parent, position, rotation)
}

// CreateController は操作用プロキシノードを生成する。
func (s *Scene) CreateController(name string, position mmath.Vec3, rotation mmath.Quaternion) error {
	return s.createNodeAtWorld(name, NodeTypeTransform, "", position, rotation)
}

// CreateLocator はロケータを生成する。
func (s *Scene) CreateLocator(name string, position mmath.Vec3) error {
	return s.createNodeAtWorld(name, NodeTypeLocator, "", position, mmath.NewQuaternion())
}

// createNodeAtWorld はワールド姿勢からローカル姿勢へ変換してノードを追加する。
func (s *Scene) createNodeAtWorld(name string, nodeType string, parent string, position mmath.Vec3, rotation mmath.Quaternion) error {
	if parent != "" && !s.Exists(parent) {
		return fmt.Errorf("親ノードが存在しません: %s", parent)
	}
	s.ensureEvaluated()
	localPos, localRot := s.worldToLocal(parent, position, rotation)
	return s.AddNode(&Node{
		Name:         name,
		Type:         nodeType,
		Parent:       parent,
		Translation:  localPos,
		Rotation:     localRot.ToDegrees(),
		RestRotation: mmath.NewQuaternion(),
	})
}

// worldToLocal はワールド姿勢を親空間のローカル姿勢へ変換する。
func (s *Scene) worldToLocal(parent string, position mmath.Vec3, rotation mmath.Quaternion) (mmath.Vec3, mmath.Quaternion) {
	if parent == "" {
		return position, rotation
	}
	parentState := s.evaluated[parent]
	inverse := parentState.worldRot.Inverted()
	localPos := inverse.MulVec3(position.Subed(parentState.worldPos))
	localRot := inverse.Muled(rotation)
	return localPos, localRot
}

// FreezeRotation は現在のローカル回転をレスト姿勢へ焼き込み、回転チャンネルを初期化する。
func (s *Scene) FreezeRotation(name string) error {
	node, exists := s.nodes[name]
	if !exists {
		return fmt.Errorf("ノードが存在しません: %s", name)
	}
	current := mmath.NewQuaternionFromDegrees(node.Rotation.X, node.Rotation.Y, node.Rotation.Z)
	node.RestRotation = node.RestRotation.Muled(current)
	node.Rotation = mmath.ZERO_VEC3
	delete(node.Curves, "rx")
	delete(node.Curves, "ry")
	delete(node.Curves, "rz")
	s.invalidate()
	return nil
}

// Delete はノードを子孫ごと削除し、参照するコンストレイントとIKハンドルも取り除く。
func (s *Scene) Delete(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("ノードが存在しません: %s", name)
	}

	removed := map[string]struct{}{}
	s.collectSubtree(name, removed)

	for target := range removed {
		delete(s.nodes, target)
	}
	remaining := make([]string, 0, len(s.order))
	for _, nodeName := range s.order {
		if _, gone := removed[nodeName]; !gone {
			remaining = append(remaining, nodeName)
		}
	}
	s.order = remaining

	constraints := make([]*constraintLink, 0, len(s.constraints))
	for _, link := range s.constraints {
		_, driverGone := removed[link.Driver]
		_, drivenGone := removed[link.Driven]
		if driverGone || drivenGone {
			continue
		}
		constraints = append(constraints, link)
	}
	s.constraints = constraints

	handles := make([]*ikHandleRecord, 0, len(s.ikHandles))
	for _, handle := range s.ikHandles {
		_, handleGone := removed[handle.Name]
		_, rootGone := removed[handle.RootJoint]
		_, tipGone := removed[handle.TipJoint]
		if handleGone || rootGone || tipGone {
			continue
		}
		handles = append(handles, handle)
	}
	s.ikHandles = handles

	s.invalidate()
	return nil
}

// collectSubtree はノードとその子孫の名前を収集する。
func (s *Scene) collectSubtree(name string, removed map[string]struct{}) {
	removed[name] = struct{}{}
	for _, childName := range s.childrenOf(name) {
		s.collectSubtree(childName, removed)
	}
}

// childrenOf は直接の子ノード名を作成順で返す。
func (s *Scene) childrenOf(name string) []string {
	children := []string{}
	for _, nodeName := range s.order {
		if s.nodes[nodeName].Parent == name {
			children = append(children, nodeName)
		}
	}
	return children
}

// CurrentFrame は現在フレームを返す。
func (s *Scene) CurrentFrame() float64 {
	return s.currentFrame
}

// SetCurrentFrame は現在フレームを変更する。
func (s *Scene) SetCurrentFrame(frame float64) {
	if s.currentFrame == frame {
		return
	}
	s.currentFrame = frame
	s.invalidate()
}

// Clone はシーン全体の独立した複製を返す。
func (s *Scene) Clone() (*Scene, error) {
	cloned := NewScene(s.playbackStart, s.playbackEnd)
	cloned.currentFrame = s.currentFrame
	cloned.constraintSeq = s.constraintSeq
	if err := deepcopy.Copy(&cloned.nodes, s.nodes); err != nil {
		return nil, fmt.Errorf("ノード複製に失敗しました: %w", err)
	}
	if err := deepcopy.Copy(&cloned.order, s.order); err != nil {
		return nil, fmt.Errorf("ノード順複製に失敗しました: %w", err)
	}
	if err := deepcopy.Copy(&cloned.constraints, s.constraints); err != nil {
		return nil, fmt.Errorf("コンストレイント複製に失敗しました: %w", err)
	}
	if err := deepcopy.Copy(&cloned.ikHandles, s.ikHandles); err != nil {
		return nil, fmt.Errorf("IKハンドル複製に失敗しました: %w", err)
	}
	return cloned, nil
}

// invalidate は評価キャッシュを破棄する。
func (s *Scene) invalidate() {
	s.evalValid = false
}
