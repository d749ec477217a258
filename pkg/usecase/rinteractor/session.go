// 指示: miu200521358
package rinteractor

import (
	"github.com/miu200521358/mu_fk2ik/pkg/domain/model"
	"github.com/miu200521358/mu_fk2ik/pkg/usecase/port/routput"
)

// RigSwitcherSessionDeps はリグ切替セッションの依存を表す。
type RigSwitcherSessionDeps struct {
	Host             routput.ISceneHost
	ProgressReporter IRigProgressReporter
}

// RigSwitcherSession はチェーン設定を保持し、生成・焼き戻し削除・削除のみの3操作を提供する。
// 同時に保持するビルダーは最大1つ。
type RigSwitcherSession struct {
	host     routput.ISceneHost
	reporter IRigProgressReporter
	config   model.RigConfig
	builder  *IKRigBuilder
	warnings []string
}

// NewRigSwitcherSession はリグ切替セッションを生成する。
func NewRigSwitcherSession(deps RigSwitcherSessionDeps, config model.RigConfig) *RigSwitcherSession {
	return &RigSwitcherSession{
		host:     deps.Host,
		reporter: deps.ProgressReporter,
		config:   config,
	}
}

// HasActiveRig は有効なIKリグを保持しているか返す。
func (s *RigSwitcherSession) HasActiveRig() bool {
	return s.builder != nil
}

// Warnings はセッション中に収集した警告ID一覧の複製を返す。
func (s *RigSwitcherSession) Warnings() []string {
	warnings := make([]string, len(s.warnings))
	copy(warnings, s.warnings)
	return warnings
}

// Generate は現在の設定からIKリグを構築する。既存リグが残っていれば先に破棄する。
// 構築に失敗した場合は部分生成物を破棄し、シーンを元の状態へ戻す。
func (s *RigSwitcherSession) Generate() error {
	if s.builder != nil {
		_ = s.builder.Cleanup()
		s.builder = nil
	}

	chain, err := NewChainSelection(s.host, s.config.ChainNames)
	if err != nil {
		return err
	}
	builder := NewIKRigBuilder(IKRigBuilderDeps{
		Scene:            s.host,
		Constraints:      s.host,
		Solver:           s.host,
		Keyframes:        s.host,
		ProgressReporter: s.reporter,
	}, chain, s.config)
	if err := builder.CreateIK(); err != nil {
		_ = builder.Cleanup()
		return err
	}

	s.builder = builder
	s.warnings = append(s.warnings, builder.Warnings()...)
	return nil
}

// BakeAndDelete はIK駆動の結果をFK側へ焼き戻し、一時リグを破棄する。
// 失敗時もビルダーは破棄し、以後の操作対象にしない。
func (s *RigSwitcherSession) BakeAndDelete() error {
	if s.builder == nil {
		return model.NewNoActiveRig()
	}
	builder := s.builder
	s.builder = nil
	if err := builder.BakeAndCleanup(); err != nil {
		_ = builder.Cleanup()
		return err
	}
	return nil
}

// DeleteOnly は焼き戻しを行わずに一時リグを破棄する。
func (s *RigSwitcherSession) DeleteOnly() error {
	if s.builder == nil {
		return model.NewNoActiveRig()
	}
	builder := s.builder
	s.builder = nil
	return builder.Cleanup()
}

// ActiveBuilder は検証用に現在のビルダーを返す。
func (s *RigSwitcherSession) ActiveBuilder() *IKRigBuilder {
	return s.builder
}
