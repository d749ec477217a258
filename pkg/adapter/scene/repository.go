// 指示: miu200521358
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
)

const sceneFileExtension = ".json"

// keyframeDocument はJSON上の1キーを表す。
type keyframeDocument struct {
	Frame float64 `json:"frame"`
	Value float64 `json:"value"`
}

// nodeDocument はJSON上の1ノードを表す。回転はXYZ順のオイラー角(度)。
type nodeDocument struct {
	Name        string                        `json:"name"`
	Type        string                        `json:"type"`
	Parent      string                        `json:"parent,omitempty"`
	Translation [3]float64                    `json:"translation"`
	Rotation    [3]float64                    `json:"rotation"`
	Curves      map[string][]keyframeDocument `json:"curves,omitempty"`
}

// playbackDocument はJSON上の再生範囲を表す。
type playbackDocument struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// sceneDocument はJSONシーン文書全体を表す。
type sceneDocument struct {
	Playback playbackDocument `json:"playback"`
	Nodes    []nodeDocument   `json:"nodes"`
}

// SceneRepository はJSONシーン文書の読み書き契約を表す。
type SceneRepository struct{}

// NewSceneRepository はSceneRepositoryを生成する。
func NewSceneRepository() *SceneRepository {
	return &SceneRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *SceneRepository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), sceneFileExtension)
}

// Load はJSONシーン文書を読み込む。
func (r *SceneRepository) Load(path string) (*Scene, error) {
	if !r.CanLoad(path) {
		return nil, fmt.Errorf("入力拡張子が %s ではありません: %s", sceneFileExtension, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("シーンファイルが見つかりません: %s", path)
		}
		return nil, fmt.Errorf("シーンファイルの読み取りに失敗しました: %w", err)
	}

	doc := sceneDocument{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("シーンJSONの解析に失敗しました: %w", err)
	}
	if doc.Playback.End < doc.Playback.Start {
		return nil, fmt.Errorf("再生範囲が不正です: [%f, %f]", doc.Playback.Start, doc.Playback.End)
	}

	loaded := NewScene(doc.Playback.Start, doc.Playback.End)
	for _, nodeDoc := range doc.Nodes {
		if nodeDoc.Name == "" {
			return nil, fmt.Errorf("ノード名が未指定の定義があります")
		}
		nodeType := nodeDoc.Type
		if nodeType == "" {
			nodeType = NodeTypeTransform
		}
		curves := map[string][]Keyframe{}
		for channel, keyDocs := range nodeDoc.Curves {
			if !IsAnimatableChannel(channel) {
				return nil, fmt.Errorf("キー設定できないチャンネルです: %s.%s", nodeDoc.Name, channel)
			}
			keys := make([]Keyframe, 0, len(keyDocs))
			for _, keyDoc := range keyDocs {
				keys = append(keys, Keyframe{Frame: keyDoc.Frame, Value: keyDoc.Value})
			}
			sort.Slice(keys, func(i, j int) bool { return keys[i].Frame < keys[j].Frame })
			curves[channel] = keys
		}
		loaded.nodes[nodeDoc.Name] = &Node{
			Name:         nodeDoc.Name,
			Type:         nodeType,
			Parent:       nodeDoc.Parent,
			Translation:  mmath.NewVec3(nodeDoc.Translation[0], nodeDoc.Translation[1], nodeDoc.Translation[2]),
			Rotation:     mmath.NewVec3(nodeDoc.Rotation[0], nodeDoc.Rotation[1], nodeDoc.Rotation[2]),
			RestRotation: mmath.NewQuaternion(),
			Curves:       curves,
		}
		loaded.order = append(loaded.order, nodeDoc.Name)
	}

	// 親参照は定義順に依存しないよう、全ノード登録後に検証する。
	for _, name := range loaded.order {
		parent := loaded.nodes[name].Parent
		if parent != "" && !loaded.Exists(parent) {
			return nil, fmt.Errorf("親ノードが存在しません: %s (子: %s)", parent, name)
		}
	}
	return loaded, nil
}

// Save はシーンをJSON文書として保存する。
func (r *SceneRepository) Save(path string, target *Scene) error {
	if !r.CanLoad(path) {
		return fmt.Errorf("出力拡張子が %s ではありません: %s", sceneFileExtension, path)
	}
	if target == nil {
		return fmt.Errorf("保存対象シーンが未設定です")
	}

	doc := sceneDocument{
		Playback: playbackDocument{Start: target.playbackStart, End: target.playbackEnd},
		Nodes:    make([]nodeDocument, 0, len(target.order)),
	}
	for _, name := range target.order {
		node := target.nodes[name]
		nodeDoc := nodeDocument{
			Name:        node.Name,
			Type:        node.Type,
			Parent:      node.Parent,
			Translation: [3]float64{node.Translation.X, node.Translation.Y, node.Translation.Z},
			Rotation:    [3]float64{node.Rotation.X, node.Rotation.Y, node.Rotation.Z},
		}
		if len(node.Curves) > 0 {
			nodeDoc.Curves = map[string][]keyframeDocument{}
			for channel, keys := range node.Curves {
				keyDocs := make([]keyframeDocument, 0, len(keys))
				for _, key := range keys {
					keyDocs = append(keyDocs, keyframeDocument{Frame: key.Frame, Value: key.Value})
				}
				nodeDoc.Curves[channel] = keyDocs
			}
		}
		doc.Nodes = append(doc.Nodes, nodeDoc)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("シーンJSONの生成に失敗しました: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("シーンファイルの書き込みに失敗しました: %w", err)
	}
	return nil
}
