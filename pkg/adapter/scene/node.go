// 指示: miu200521358

// Package scene はポート契約を満たすインメモリのシーングラフホストを提供する。
// 実DCCの代わりにCLIとテストの実行基盤となる。
package scene

import "github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"

// ノード種別定数。
const (
	NodeTypeTransform = "transform"
	NodeTypeJoint     = "joint"
	NodeTypeLocator   = "locator"
	NodeTypeIKHandle  = "ikHandle"
)

// Keyframe は1キーフレームを表す。
type Keyframe struct {
	Frame float64
	Value float64
}

// Node はシーングラフの1ノードを表す。
// Rotationはアニメーション対象のローカル回転(度)で、RestRotationは
// フリーズ済みのレスト姿勢を保持する。ワールド回転は
// 親ワールド回転 × RestRotation × ローカル回転 で合成する。
type Node struct {
	Name         string
	Type         string
	Parent       string
	Translation  mmath.Vec3
	Rotation     mmath.Vec3
	RestRotation mmath.Quaternion
	Curves       map[string][]Keyframe
}

// animatableChannels はキー設定可能なチャンネル名を保持する。
var animatableChannels = map[string]struct{}{
	"tx": {}, "ty": {}, "tz": {},
	"rx": {}, "ry": {}, "rz": {},
}

// IsAnimatableChannel はチャンネル名がキー設定可能か判定する。
func IsAnimatableChannel(channel string) bool {
	_, exists := animatableChannels[channel]
	return exists
}
