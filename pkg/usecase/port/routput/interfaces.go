// 指示: miu200521358

// Package routput はホストシーンへの出力ポート(コラボレータ契約)を提供する。
package routput

import "github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"

// ISceneGraph はシーングラフ操作の契約を表す。
type ISceneGraph interface {
	// Exists はノードの存在を判定する。
	Exists(name string) bool
	// NodeType はノード種別を返す。
	NodeType(name string) (string, error)
	// Ancestors は祖先ノード名を近い順に返す。
	Ancestors(name string) ([]string, error)
	// WorldPosition は現在フレームのワールド位置を返す。
	WorldPosition(name string) (mmath.Vec3, error)
	// WorldRotation は現在フレームのワールド回転を返す。
	WorldRotation(name string) (mmath.Quaternion, error)
	// CreateJoint はワールド姿勢を指定してジョイントを生成する。親は省略可。
	CreateJoint(name string, parent string, position mmath.Vec3, rotation mmath.Quaternion) error
	// CreateController は操作用プロキシノードを生成する。
	CreateController(name string, position mmath.Vec3, rotation mmath.Quaternion) error
	// CreateLocator はロケータを生成する。
	CreateLocator(name string, position mmath.Vec3) error
	// FreezeRotation は現在のローカル回転をレスト姿勢へ焼き込む。
	FreezeRotation(name string) error
	// Delete はノードを子孫ごと削除する。
	Delete(name string) error
}

// IConstraintService はコンストレイント操作の契約を表す。
type IConstraintService interface {
	// ConstrainPosition は位置コンストレイントを作成し、削除用ハンドルを返す。
	ConstrainPosition(driver string, driven string, maintainOffset bool) (string, error)
	// ConstrainOrientation は回転コンストレイントを作成し、削除用ハンドルを返す。
	ConstrainOrientation(driver string, driven string, maintainOffset bool) (string, error)
	// ConstraintExists はコンストレイントの存在を判定する。
	ConstraintExists(handle string) bool
	// DeleteConstraint はコンストレイントを削除する。
	DeleteConstraint(handle string) error
}

// IIKSolverService はIKソルバ操作の契約を表す。
type IIKSolverService interface {
	// CreateIKHandle は回転平面ソルバのIKハンドルを生成する。
	CreateIKHandle(name string, rootJoint string, tipJoint string) (string, error)
	// ConstrainPoleVector はポールベクタ参照元をIKハンドルへ接続する。
	ConstrainPoleVector(source string, ikHandle string) (string, error)
}

// IKeyframeService はキーフレーム操作の契約を表す。
type IKeyframeService interface {
	// PlaybackRange は現在の再生範囲を返す。
	PlaybackRange() (float64, float64)
	// Bake は指定チャンネルを一定間隔で再サンプリングする。範囲外のキーは保持する。
	Bake(nodes []string, channels []string, start float64, end float64, step float64) error
}

// ISceneHost は全コラボレータを束ねた契約を表す。
type ISceneHost interface {
	ISceneGraph
	IConstraintService
	IIKSolverService
	IKeyframeService
}

// TranslateChannels は移動チャンネル名を返す。
func TranslateChannels() []string {
	return []string{"tx", "ty", "tz"}
}

// RotateChannels は回転チャンネル名を返す。
func RotateChannels() []string {
	return []string{"rx", "ry", "rz"}
}
