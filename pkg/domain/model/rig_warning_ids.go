// 指示: miu200521358
package model

const (
	// RigWarningPoleVectorFallback はチェーンがほぼ直線でポールベクタを
	// 既定方向(+Y)へ逃がしたことを表す警告。
	RigWarningPoleVectorFallback = "RigWarningPoleVectorFallback"
)
