// 指示: miu200521358
package rinteractor

import (
	"fmt"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fk2ik/pkg/domain/model"
	"github.com/miu200521358/mu_fk2ik/pkg/usecase/port/routput"
)

const (
	tempJointNamePrefix     = "mu_fk2ik_jnt_"
	ikHandleNodeName        = "mu_fk2ik_handle"
	ikControllerNodeName    = "mu_fk2ik_ik_ctrl"
	poleVectorCtrlNodeName  = "mu_fk2ik_pv_ctrl"
	upVectorLocatorNodeName = "mu_fk2ik_upv_loc"
	bakeFrameStep           = 1.0
)

// builderState はIKRigBuilderの状態を表す。
type builderState int

const (
	builderStateEmpty builderState = iota
	builderStateBuilt
	builderStateDestroyed
)

// IKRigBuilderDeps はIKリグ構築の依存を表す。
type IKRigBuilderDeps struct {
	Scene            routput.ISceneGraph
	Constraints      routput.IConstraintService
	Solver           routput.IIKSolverService
	Keyframes        routput.IKeyframeService
	ProgressReporter IRigProgressReporter
}

// IKRigBuilder は一時IKリグの構築・アニメーション転送・破棄を担う。
// 破棄後の再利用は不可で、所有セッションが破棄操作後に参照を捨てる。
type IKRigBuilder struct {
	scene       routput.ISceneGraph
	constraints routput.IConstraintService
	solver      routput.IIKSolverService
	keyframes   routput.IKeyframeService
	reporter    IRigProgressReporter

	chain      *ChainSelection
	config     model.RigConfig
	frameRange model.FrameRange
	state      builderState

	tempJoints           []string
	ikHandle             string
	ikController         string
	poleVectorController string
	upVectorLocator      string
	ownsUpVectorLocator  bool

	structuralLinks     []string
	transferOrientLinks []string
	warnings            []string
}

// NewIKRigBuilder はIKリグビルダーを生成する。フレーム範囲はこの時点の再生範囲で固定する。
func NewIKRigBuilder(deps IKRigBuilderDeps, chain *ChainSelection, config model.RigConfig) *IKRigBuilder {
	start, end := deps.Keyframes.PlaybackRange()
	return &IKRigBuilder{
		scene:       deps.Scene,
		constraints: deps.Constraints,
		solver:      deps.Solver,
		keyframes:   deps.Keyframes,
		reporter:    deps.ProgressReporter,
		chain:       chain,
		config:      config,
		frameRange:  model.NewFrameRange(start, end),
		state:       builderStateEmpty,
	}
}

// FrameRange は構築時に確定したフレーム区間を返す。
func (b *IKRigBuilder) FrameRange() model.FrameRange {
	return b.frameRange
}

// TempJoints は一時ジョイント名一覧の複製を返す。
func (b *IKRigBuilder) TempJoints() []string {
	joints := make([]string, len(b.tempJoints))
	copy(joints, b.tempJoints)
	return joints
}

// IKController はIKコントローラ名を返す。
func (b *IKRigBuilder) IKController() string {
	return b.ikController
}

// PoleVectorController はポールベクタコントローラ名を返す。
func (b *IKRigBuilder) PoleVectorController() string {
	return b.poleVectorController
}

// Warnings は構築時に収集した警告ID一覧の複製を返す。
func (b *IKRigBuilder) Warnings() []string {
	warnings := make([]string, len(b.warnings))
	copy(warnings, b.warnings)
	return warnings
}

// CreateIK は一時IKリグを構築し、FKアニメーションをIK側へ転送する。
// 途中で失敗した場合は部分的な一時オブジェクトが残るため、呼び出し側がCleanupを行う。
func (b *IKRigBuilder) CreateIK() error {
	if b.state == builderStateDestroyed {
		return fmt.Errorf("破棄済みのIKリグビルダーは再利用できません")
	}
	if b.state != builderStateEmpty {
		return fmt.Errorf("IKリグは構築済みです")
	}
	if err := b.chain.Validate(b.scene, minChainControllerCount); err != nil {
		return err
	}

	if err := b.createTempJoints(); err != nil {
		return err
	}
	reportRigProgress(b.reporter, RigProgressEvent{
		Type:       RigProgressEventTypeJointsCreated,
		JointCount: len(b.tempJoints),
	})

	if err := b.trackRoot(); err != nil {
		return err
	}
	reportRigProgress(b.reporter, RigProgressEvent{
		Type:      RigProgressEventTypeRootTracked,
		LinkCount: len(b.structuralLinks),
	})

	if err := b.attachSolver(); err != nil {
		return err
	}
	reportRigProgress(b.reporter, RigProgressEvent{
		Type: RigProgressEventTypeSolverAttached,
	})

	if err := b.createIKController(); err != nil {
		return err
	}
	if err := b.createPoleVectorController(); err != nil {
		return err
	}
	reportRigProgress(b.reporter, RigProgressEvent{
		Type:      RigProgressEventTypeControllersCreated,
		LinkCount: len(b.structuralLinks),
	})

	// 転送前に定常状態の転送リンクを張り、チェーン姿勢の変化がFK側へ見えるようにする。
	if err := b.createTransferOrientLinks(); err != nil {
		return err
	}

	b.state = builderStateBuilt
	if err := b.transferFkAnimationToIk(); err != nil {
		return err
	}
	reportRigProgress(b.reporter, RigProgressEvent{
		Type: RigProgressEventTypeTransferCompleted,
	})
	return nil
}

// createTempJoints はFKチェーンと同じワールド姿勢の一時ジョイント列を生成する。
// 生成直後にローカル回転をレスト姿勢へ焼き込み、以後のIK回転を初期姿勢基準にする。
func (b *IKRigBuilder) createTempJoints() error {
	controllers := b.chain.Controllers()
	parent := ""
	for index, controller := range controllers {
		position, err := b.scene.WorldPosition(controller)
		if err != nil {
			return err
		}
		rotation, err := b.scene.WorldRotation(controller)
		if err != nil {
			return err
		}
		jointName := fmt.Sprintf("%s%02d_%s", tempJointNamePrefix, index, controller)
		if err := b.scene.CreateJoint(jointName, parent, position, rotation); err != nil {
			return err
		}
		if err := b.scene.FreezeRotation(jointName); err != nil {
			return err
		}
		b.tempJoints = append(b.tempJoints, jointName)
		parent = jointName
	}
	return nil
}

// trackRoot はFKルートの動きへ一時チェーンのルートを常時追従させる。
func (b *IKRigBuilder) trackRoot() error {
	positionLink, err := b.constraints.ConstrainPosition(b.chain.Root(), b.tempJoints[0], false)
	if err != nil {
		return err
	}
	b.structuralLinks = append(b.structuralLinks, positionLink)

	orientLink, err := b.constraints.ConstrainOrientation(b.chain.Root(), b.tempJoints[0], false)
	if err != nil {
		return err
	}
	b.structuralLinks = append(b.structuralLinks, orientLink)
	return nil
}

// attachSolver は一時チェーンのルートから先端へ回転平面IKソルバを張る。
func (b *IKRigBuilder) attachSolver() error {
	handle, err := b.solver.CreateIKHandle(ikHandleNodeName, b.tempJoints[0], b.tempJoints[len(b.tempJoints)-1])
	if err != nil {
		return err
	}
	b.ikHandle = handle
	return nil
}

// createIKController は先端姿勢に合わせたIKコントローラを生成し、IKハンドルを駆動させる。
// 初期オフセットを保持するため、コントローラ操作で先端が飛ばない。
func (b *IKRigBuilder) createIKController() error {
	tip := b.chain.Tip()
	position, err := b.scene.WorldPosition(tip)
	if err != nil {
		return err
	}
	rotation, err := b.scene.WorldRotation(tip)
	if err != nil {
		return err
	}
	if err := b.scene.CreateController(ikControllerNodeName, position, rotation); err != nil {
		return err
	}
	b.ikController = ikControllerNodeName

	positionLink, err := b.constraints.ConstrainPosition(b.ikController, b.ikHandle, true)
	if err != nil {
		return err
	}
	b.structuralLinks = append(b.structuralLinks, positionLink)

	orientLink, err := b.constraints.ConstrainOrientation(b.ikController, b.ikHandle, true)
	if err != nil {
		return err
	}
	b.structuralLinks = append(b.structuralLinks, orientLink)
	return nil
}

// createPoleVectorController はポールベクタコントローラを生成してIKハンドルへ接続する。
// 初期位置は外部指定のアップベクタ位置か、先頭3関節からの算出値を使う。
func (b *IKRigBuilder) createPoleVectorController() error {
	position, err := b.resolvePoleVectorPosition()
	if err != nil {
		return err
	}
	if err := b.scene.CreateController(poleVectorCtrlNodeName, position, mmath.NewQuaternion()); err != nil {
		return err
	}
	b.poleVectorController = poleVectorCtrlNodeName

	link, err := b.solver.ConstrainPoleVector(b.poleVectorController, b.ikHandle)
	if err != nil {
		return err
	}
	b.structuralLinks = append(b.structuralLinks, link)
	return nil
}

// resolvePoleVectorPosition はポールベクタコントローラの初期位置を解決する。
func (b *IKRigBuilder) resolvePoleVectorPosition() (mmath.Vec3, error) {
	if b.config.UpVectorName != "" {
		if !b.scene.Exists(b.config.UpVectorName) {
			return mmath.ZERO_VEC3, model.NewNodeNotFound(b.config.UpVectorName)
		}
		return b.scene.WorldPosition(b.config.UpVectorName)
	}

	positions := make([]mmath.Vec3, 0, minChainControllerCount)
	for _, joint := range b.tempJoints[:minChainControllerCount] {
		position, err := b.scene.WorldPosition(joint)
		if err != nil {
			return mmath.ZERO_VEC3, err
		}
		positions = append(positions, position)
	}
	position, fallback := CalculatePoleVector(positions[0], positions[1], positions[2], b.config.EffectiveOffset())
	if fallback {
		b.warnings = append(b.warnings, model.RigWarningPoleVectorFallback)
	}
	if err := b.scene.CreateLocator(upVectorLocatorNodeName, position); err != nil {
		return mmath.ZERO_VEC3, err
	}
	b.upVectorLocator = upVectorLocatorNodeName
	b.ownsUpVectorLocator = true
	return position, nil
}

// createTransferOrientLinks は各一時ジョイントから対応FKコントローラへの回転リンクを張る。
// 二重ドライバを避けるため、既存リンクは必ず先に削除する。
func (b *IKRigBuilder) createTransferOrientLinks() error {
	b.removeTransferOrientLinks()
	for index, controller := range b.chain.Controllers() {
		link, err := b.constraints.ConstrainOrientation(b.tempJoints[index], controller, true)
		if err != nil {
			return err
		}
		b.transferOrientLinks = append(b.transferOrientLinks, link)
	}
	return nil
}

// removeTransferOrientLinks は転送用回転リンクを存在確認付きで削除する。
func (b *IKRigBuilder) removeTransferOrientLinks() {
	for _, link := range b.transferOrientLinks {
		if b.constraints.ConstraintExists(link) {
			_ = b.constraints.DeleteConstraint(link)
		}
	}
	b.transferOrientLinks = nil
}

// transferFkAnimationToIk はFK側の既存アニメーションをIK・ポールベクタコントローラへ焼き込む。
// ベイク中は転送用回転リンクを外し、FK→一時ジョイント→FKの循環を作らない。
func (b *IKRigBuilder) transferFkAnimationToIk() error {
	actors := []struct {
		role string
		name string
	}{
		{role: "tip_controller", name: b.chain.Tip()},
		{role: "ik_controller", name: b.ikController},
		{role: "pole_reference", name: b.chain.PoleReference()},
		{role: "pole_vector_controller", name: b.poleVectorController},
	}
	for _, actor := range actors {
		if actor.name == "" || !b.scene.Exists(actor.name) {
			return model.NewMissingActor(actor.role, actor.name)
		}
	}

	b.removeTransferOrientLinks()

	if err := b.withTransientTransferLinks(func() error {
		nodes := []string{b.ikController, b.poleVectorController}
		channels := append(routput.TranslateChannels(), routput.RotateChannels()...)
		return b.keyframes.Bake(nodes, channels, b.frameRange.Start, b.frameRange.End, bakeFrameStep)
	}); err != nil {
		return err
	}

	// 転送後はIK側の操作がFKコントローラを前進駆動するよう定常リンクを張り直す。
	return b.createTransferOrientLinks()
}

// withTransientTransferLinks はベイク用の一時リンクを張ってfnを実行する。
// fnの成否に関わらず、張った一時リンクは必ず削除する。
func (b *IKRigBuilder) withTransientTransferLinks(fn func() error) error {
	transient := make([]string, 0, 4)
	defer func() {
		for _, link := range transient {
			if b.constraints.ConstraintExists(link) {
				_ = b.constraints.DeleteConstraint(link)
			}
		}
	}()

	tip := b.chain.Tip()
	poleReference := b.chain.PoleReference()
	pairs := []struct {
		driver string
		driven string
	}{
		{driver: tip, driven: b.ikController},
		{driver: poleReference, driven: b.poleVectorController},
	}
	for _, pair := range pairs {
		positionLink, err := b.constraints.ConstrainPosition(pair.driver, pair.driven, false)
		if err != nil {
			return err
		}
		transient = append(transient, positionLink)

		orientLink, err := b.constraints.ConstrainOrientation(pair.driver, pair.driven, false)
		if err != nil {
			return err
		}
		transient = append(transient, orientLink)
	}

	return fn()
}

// BakeAndCleanup はIK駆動の姿勢をFKコントローラの回転チャンネルへ焼き戻し、一時リグを破棄する。
func (b *IKRigBuilder) BakeAndCleanup() error {
	if b.state == builderStateDestroyed {
		return fmt.Errorf("IKリグは破棄済みです")
	}
	if b.state != builderStateBuilt {
		return fmt.Errorf("IKリグが未構築のため焼き戻しできません")
	}
	if err := b.keyframes.Bake(b.chain.Controllers(), routput.RotateChannels(), b.frameRange.Start, b.frameRange.End, bakeFrameStep); err != nil {
		return err
	}
	reportRigProgress(b.reporter, RigProgressEvent{
		Type:       RigProgressEventTypeBakedBack,
		JointCount: b.chain.Len(),
	})
	return b.Cleanup()
}

// Cleanup は所有する一時オブジェクトを全て破棄する。二重呼び出しは無害。
func (b *IKRigBuilder) Cleanup() error {
	if b.state == builderStateDestroyed {
		return nil
	}
	b.deleteTemp()
	b.state = builderStateDestroyed
	reportRigProgress(b.reporter, RigProgressEvent{
		Type: RigProgressEventTypeCleanupCompleted,
	})
	return nil
}

// deleteTemp は一時オブジェクトを存在確認付きで削除し、内部の管理情報を初期化する。
// 既に消えているものは黙って読み飛ばす。
func (b *IKRigBuilder) deleteTemp() {
	for _, link := range append(b.structuralLinks, b.transferOrientLinks...) {
		if b.constraints.ConstraintExists(link) {
			_ = b.constraints.DeleteConstraint(link)
		}
	}
	b.structuralLinks = nil
	b.transferOrientLinks = nil

	b.deleteNodeIfExists(b.ikHandle)
	b.ikHandle = ""
	b.deleteNodeIfExists(b.ikController)
	b.ikController = ""
	b.deleteNodeIfExists(b.poleVectorController)
	b.poleVectorController = ""

	for index := len(b.tempJoints) - 1; index >= 0; index-- {
		b.deleteNodeIfExists(b.tempJoints[index])
	}
	b.tempJoints = nil

	if b.ownsUpVectorLocator {
		b.deleteNodeIfExists(b.upVectorLocator)
	}
	b.upVectorLocator = ""
	b.ownsUpVectorLocator = false
}

// deleteNodeIfExists はノードが残っている場合のみ削除する。
func (b *IKRigBuilder) deleteNodeIfExists(name string) {
	if name == "" || !b.scene.Exists(name) {
		return
	}
	_ = b.scene.Delete(name)
}
