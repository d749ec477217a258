// 指示: miu200521358
package rinteractor

import (
	"strings"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/model"
	"github.com/miu200521358/mu_fk2ik/pkg/usecase/port/routput"
)

const (
	// minChainControllerCount はFKチェーンに必要な最小コントローラ数。
	minChainControllerCount = 3
	// poleReferenceChainIndex はポールベクタ参照に使う固定のチェーン位置。
	poleReferenceChainIndex = 1
)

// ChainSelection はFKチェーンを構成するコントローラ列を表す。
// 並び順は運動学的順序(ルート→先端)で、構築後に並べ替えない。
type ChainSelection struct {
	controllers []string
}

// NewChainSelection は入力名を解決してチェーン選択を構築する。
func NewChainSelection(scene routput.ISceneGraph, names []string) (*ChainSelection, error) {
	controllers := make([]string, 0, len(names))
	for slot, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			return nil, model.NewMissingController(slot)
		}
		resolved, err := ResolveTransform(scene, name)
		if err != nil {
			return nil, err
		}
		controllers = append(controllers, resolved)
	}
	return &ChainSelection{controllers: controllers}, nil
}

// Validate は本数と各メンバの有効性を再検査する。minCountが0以下なら既定値を使う。
// 選択から使用までの間にシーンが変わっている可能性があるため、毎回再解決する。
func (c *ChainSelection) Validate(scene routput.ISceneGraph, minCount int) error {
	if minCount <= 0 {
		minCount = minChainControllerCount
	}
	if len(c.controllers) < minCount {
		return model.NewChainTooShort(len(c.controllers), minCount)
	}
	for _, controller := range c.controllers {
		resolved, err := ResolveTransform(scene, controller)
		if err != nil || resolved != controller {
			return model.NewInvalidController(controller)
		}
	}
	return nil
}

// Controllers はコントローラ名一覧の複製を返す。
func (c *ChainSelection) Controllers() []string {
	controllers := make([]string, len(c.controllers))
	copy(controllers, c.controllers)
	return controllers
}

// Len はコントローラ数を返す。
func (c *ChainSelection) Len() int {
	return len(c.controllers)
}

// Root はルートコントローラ名を返す。
func (c *ChainSelection) Root() string {
	if len(c.controllers) == 0 {
		return ""
	}
	return c.controllers[0]
}

// Tip は先端コントローラ名を返す。
func (c *ChainSelection) Tip() string {
	if len(c.controllers) == 0 {
		return ""
	}
	return c.controllers[len(c.controllers)-1]
}

// PoleReference はポールベクタ参照コントローラ名を返す。
func (c *ChainSelection) PoleReference() string {
	if len(c.controllers) <= poleReferenceChainIndex {
		return ""
	}
	return c.controllers[poleReferenceChainIndex]
}
