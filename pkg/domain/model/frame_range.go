// 指示: miu200521358
package model

// FrameRange はベイク対象のフレーム区間を表す。区間は両端を含む。
type FrameRange struct {
	Start float64
	End   float64
}

// NewFrameRange はフレーム区間を生成する。逆転した指定は正順へ補正する。
func NewFrameRange(start float64, end float64) FrameRange {
	if end < start {
		start, end = end, start
	}
	return FrameRange{Start: start, End: end}
}

// Contains はフレームが区間内か判定する。
func (r FrameRange) Contains(frame float64) bool {
	return frame >= r.Start && frame <= r.End
}
