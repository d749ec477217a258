// 指示: miu200521358
package scene

import (
	"fmt"
	"sort"
)

// bakeFrameEpsilon はフレーム比較の許容誤差。
const bakeFrameEpsilon = 1e-9

// PlaybackRange は再生範囲を返す。
func (s *Scene) PlaybackRange() (float64, float64) {
	return s.playbackStart, s.playbackEnd
}

// SetKeyframe はチャンネルへキーを追加する。同一フレームのキーは置き換える。
func (s *Scene) SetKeyframe(name string, channel string, frame float64, value float64) error {
	node, exists := s.nodes[name]
	if !exists {
		return fmt.Errorf("ノードが存在しません: %s", name)
	}
	if !IsAnimatableChannel(channel) {
		return fmt.Errorf("キー設定できないチャンネルです: %s", channel)
	}

	keys := node.Curves[channel]
	replaced := false
	for index := range keys {
		if keys[index].Frame == frame {
			keys[index].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		keys = append(keys, Keyframe{Frame: frame, Value: value})
		sort.Slice(keys, func(i, j int) bool { return keys[i].Frame < keys[j].Frame })
	}
	node.Curves[channel] = keys
	s.invalidate()
	return nil
}

// Keyframes はチャンネルのキー一覧の複製を返す。
func (s *Scene) Keyframes(name string, channel string) ([]Keyframe, error) {
	node, exists := s.nodes[name]
	if !exists {
		return nil, fmt.Errorf("ノードが存在しません: %s", name)
	}
	keys := make([]Keyframe, len(node.Curves[channel]))
	copy(keys, node.Curves[channel])
	return keys, nil
}

// Bake は指定チャンネルを[start, end]で再サンプリングしてキーへ焼き込む。
// まず全フレームをサンプリングしてから書き込むため、書き込みは全件か0件になる。
// 範囲外の既存キーは保持する。
func (s *Scene) Bake(nodes []string, channels []string, start float64, end float64, step float64) error {
	if step <= 0 {
		return fmt.Errorf("ベイク間隔が不正です: %f", step)
	}
	if end < start {
		return fmt.Errorf("ベイク範囲が不正です: [%f, %f]", start, end)
	}
	for _, name := range nodes {
		if !s.Exists(name) {
			return fmt.Errorf("ベイク対象ノードが存在しません: %s", name)
		}
	}
	for _, channel := range channels {
		if !IsAnimatableChannel(channel) {
			return fmt.Errorf("ベイクできないチャンネルです: %s", channel)
		}
	}

	type frameSample struct {
		frame  float64
		values map[string]map[string]float64
	}
	samples := []frameSample{}
	restoreFrame := s.currentFrame
	for frame := start; frame <= end+bakeFrameEpsilon; frame += step {
		s.Evaluate(frame)
		values := map[string]map[string]float64{}
		for _, name := range nodes {
			state := s.evaluated[name]
			euler := state.localRot.ToDegrees()
			values[name] = map[string]float64{
				"tx": state.localPos.X,
				"ty": state.localPos.Y,
				"tz": state.localPos.Z,
				"rx": euler.X,
				"ry": euler.Y,
				"rz": euler.Z,
			}
		}
		samples = append(samples, frameSample{frame: frame, values: values})
	}

	for _, name := range nodes {
		node := s.nodes[name]
		for _, channel := range channels {
			kept := []Keyframe{}
			for _, key := range node.Curves[channel] {
				if key.Frame < start-bakeFrameEpsilon || key.Frame > end+bakeFrameEpsilon {
					kept = append(kept, key)
				}
			}
			for _, sample := range samples {
				kept = append(kept, Keyframe{Frame: sample.frame, Value: sample.values[name][channel]})
			}
			sort.Slice(kept, func(i, j int) bool { return kept[i].Frame < kept[j].Frame })
			node.Curves[channel] = kept
		}
	}

	s.currentFrame = restoreFrame
	s.invalidate()
	return nil
}
