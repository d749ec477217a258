// 指示: miu200521358

// Package model はリグ切替ドメインの型とエラーを提供する。
package model

import "fmt"

// NodeNotFoundError は参照ノードが存在しないことを表す。
type NodeNotFoundError struct {
	Name string
}

// Error はエラーメッセージを返す。
func (e *NodeNotFoundError) Error() string {
	return fmt.Sprintf("対象ノードが見つかりません: %s", e.Name)
}

// NewNodeNotFound はNodeNotFoundErrorを生成する。
func NewNodeNotFound(name string) error {
	return &NodeNotFoundError{Name: name}
}

// NoTransformAncestorError はトランスフォーム系の祖先が見つからないことを表す。
type NoTransformAncestorError struct {
	Name string
}

// Error はエラーメッセージを返す。
func (e *NoTransformAncestorError) Error() string {
	return fmt.Sprintf("トランスフォーム系の祖先が見つかりません: %s", e.Name)
}

// NewNoTransformAncestor はNoTransformAncestorErrorを生成する。
func NewNoTransformAncestor(name string) error {
	return &NoTransformAncestorError{Name: name}
}

// InvalidControllerError はノードは存在するがコントローラとして無効なことを表す。
type InvalidControllerError struct {
	Name string
}

// Error はエラーメッセージを返す。
func (e *InvalidControllerError) Error() string {
	return fmt.Sprintf("コントローラとして無効なノードです: %s", e.Name)
}

// NewInvalidController はInvalidControllerErrorを生成する。
func NewInvalidController(name string) error {
	return &InvalidControllerError{Name: name}
}

// ChainTooShortError はチェーンのコントローラ数不足を表す。
type ChainTooShortError struct {
	Count int
	Min   int
}

// Error はエラーメッセージを返す。
func (e *ChainTooShortError) Error() string {
	return fmt.Sprintf("チェーンのコントローラ数が不足しています: %d (最低 %d)", e.Count, e.Min)
}

// NewChainTooShort はChainTooShortErrorを生成する。
func NewChainTooShort(count int, min int) error {
	return &ChainTooShortError{Count: count, Min: min}
}

// MissingControllerError はコントローラ入力スロットの未設定を表す。
type MissingControllerError struct {
	Slot int
}

// Error はエラーメッセージを返す。
func (e *MissingControllerError) Error() string {
	return fmt.Sprintf("コントローラ入力が未設定です: slot=%d", e.Slot)
}

// NewMissingController はMissingControllerErrorを生成する。
func NewMissingController(slot int) error {
	return &MissingControllerError{Slot: slot}
}

// MissingActorError は転送に必要なノードの消失を表す。
type MissingActorError struct {
	Role string
	Name string
}

// Error はエラーメッセージを返す。
func (e *MissingActorError) Error() string {
	return fmt.Sprintf("アニメーション転送に必要なノードが存在しません: role=%s name=%s", e.Role, e.Name)
}

// NewMissingActor はMissingActorErrorを生成する。
func NewMissingActor(role string, name string) error {
	return &MissingActorError{Role: role, Name: name}
}

// NoActiveRigError は操作対象のIKリグが存在しないことを表す。
type NoActiveRigError struct{}

// Error はエラーメッセージを返す。
func (e *NoActiveRigError) Error() string {
	return "有効なIKリグが存在しません"
}

// NewNoActiveRig はNoActiveRigErrorを生成する。
func NewNoActiveRig() error {
	return &NoActiveRigError{}
}
