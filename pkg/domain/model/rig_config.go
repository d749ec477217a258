// 指示: miu200521358
package model

// DefaultPoleVectorOffset はポールベクタ距離の既定値。
const DefaultPoleVectorOffset = 1.0

// RigConfig はセッション入力(チェーン構成とパラメータ)を表す。
type RigConfig struct {
	ChainNames       []string
	UpVectorName     string
	PoleVectorOffset float64
}

// EffectiveOffset は未指定(0)時に既定値へ倒したポールベクタ距離を返す。
func (c RigConfig) EffectiveOffset() float64 {
	if c.PoleVectorOffset == 0 {
		return DefaultPoleVectorOffset
	}
	return c.PoleVectorOffset
}
