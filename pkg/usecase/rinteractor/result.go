// 指示: miu200521358
package rinteractor

// RigProgressEventType はリグ操作の進捗イベント種別を表す。
type RigProgressEventType string

const (
	// RigProgressEventTypeJointsCreated は一時ジョイント生成完了イベントを表す。
	RigProgressEventTypeJointsCreated RigProgressEventType = "joints_created"
	// RigProgressEventTypeRootTracked はFKルート追従リンク作成完了イベントを表す。
	RigProgressEventTypeRootTracked RigProgressEventType = "root_tracked"
	// RigProgressEventTypeSolverAttached はIKソルバ接続完了イベントを表す。
	RigProgressEventTypeSolverAttached RigProgressEventType = "solver_attached"
	// RigProgressEventTypeControllersCreated はIK・ポールベクタコントローラ生成完了イベントを表す。
	RigProgressEventTypeControllersCreated RigProgressEventType = "controllers_created"
	// RigProgressEventTypeTransferCompleted はFK→IKアニメーション転送完了イベントを表す。
	RigProgressEventTypeTransferCompleted RigProgressEventType = "transfer_completed"
	// RigProgressEventTypeBakedBack はFK側への焼き戻し完了イベントを表す。
	RigProgressEventTypeBakedBack RigProgressEventType = "baked_back"
	// RigProgressEventTypeCleanupCompleted は一時リグ破棄完了イベントを表す。
	RigProgressEventTypeCleanupCompleted RigProgressEventType = "cleanup_completed"
)

// RigProgressEvent はリグ操作の進捗イベントを表す。
type RigProgressEvent struct {
	Type       RigProgressEventType
	JointCount int
	LinkCount  int
}

// IRigProgressReporter はリグ操作の進捗通知契約を表す。
type IRigProgressReporter interface {
	// ReportRigProgress はリグ操作進捗を通知する。
	ReportRigProgress(event RigProgressEvent)
}

// reportRigProgress はリグ操作の進捗を通知する。
func reportRigProgress(reporter IRigProgressReporter, event RigProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportRigProgress(event)
}
