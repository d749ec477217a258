// 指示: miu200521358

// Package rinteractor はFK→IKリグ切替のユースケースを提供する。
package rinteractor

import (
	"github.com/miu200521358/mu_fk2ik/pkg/domain/model"
	"github.com/miu200521358/mu_fk2ik/pkg/usecase/port/routput"
)

// transformBearingNodeTypes はトランスフォームを持つノード種別を保持する。
var transformBearingNodeTypes = map[string]struct{}{
	"transform": {},
	"joint":     {},
	"locator":   {},
	"ikHandle":  {},
}

// IsTransformBearing はノード種別がトランスフォームを持つか判定する。
func IsTransformBearing(nodeType string) bool {
	_, exists := transformBearingNodeTypes[nodeType]
	return exists
}

// ResolveTransform はノードから祖先方向へ辿り、最初のトランスフォーム系ノード名を返す。
func ResolveTransform(scene routput.ISceneGraph, name string) (string, error) {
	if !scene.Exists(name) {
		return "", model.NewNodeNotFound(name)
	}
	nodeType, err := scene.NodeType(name)
	if err != nil {
		return "", err
	}
	if IsTransformBearing(nodeType) {
		return name, nil
	}

	ancestors, err := scene.Ancestors(name)
	if err != nil {
		return "", err
	}
	for _, ancestor := range ancestors {
		if !scene.Exists(ancestor) {
			continue
		}
		ancestorType, err := scene.NodeType(ancestor)
		if err != nil {
			return "", err
		}
		if IsTransformBearing(ancestorType) {
			return ancestor, nil
		}
	}
	return "", model.NewNoTransformAncestor(name)
}
