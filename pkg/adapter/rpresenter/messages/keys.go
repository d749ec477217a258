// 指示: miu200521358
// Package messages はUI表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	LabelScenePath  = "入力シーンファイルパス"
	LabelOutputPath = "出力シーンファイルパス"
	LabelChain      = "FKチェーンのコントローラ名"
	LabelUpVector   = "ポールベクタ位置に使うアップベクタノード名"
	LabelPoleOffset = "ポールベクタの平面法線方向オフセット距離"
	LabelGenerate   = "IKリグ生成"
	LabelBakeDelete = "焼き戻して削除"
	LabelDeleteOnly = "削除のみ"

	MessageLoadFailed     = "シーン読み込みに失敗しました"
	MessageSaveFailed     = "シーン保存に失敗しました"
	MessageGenerateFailed = "IKリグ生成に失敗しました"
	MessageBakeFailed     = "焼き戻しに失敗しました"
	MessageInputRequired  = "入力シーンファイルを指定してください"
	MessageChainRequired  = "FKチェーンのコントローラを指定してください"

	WarningPoleVectorFallback = "チェーンが直線のためポールベクタ位置を+Y方向へ退避しました"

	LogLoadSuccess = "シーン読み込み成功: %s"
	LogBakeSuccess = "焼き戻し成功: %s"
	LogSaveSuccess = "シーン保存成功: %s"
)
