// 指示: miu200521358
package rinteractor

import (
	"errors"
	"testing"

	"github.com/miu200521358/mu_fk2ik/pkg/adapter/scene"
	"github.com/miu200521358/mu_fk2ik/pkg/domain/model"
)

func TestIsTransformBearing(t *testing.T) {
	cases := []struct {
		nodeType string
		wanted   bool
	}{
		{nodeType: "transform", wanted: true},
		{nodeType: "joint", wanted: true},
		{nodeType: "locator", wanted: true},
		{nodeType: "ikHandle", wanted: true},
		{nodeType: "mesh", wanted: false},
		{nodeType: "", wanted: false},
	}
	for _, c := range cases {
		if IsTransformBearing(c.nodeType) != c.wanted {
			t.Fatalf("IsTransformBearing(%s) expected %v", c.nodeType, c.wanted)
		}
	}
}

func TestResolveTransformReturnsSelfForTransform(t *testing.T) {
	host := scene.NewScene(0, 24)
	if err := host.AddNode(&scene.Node{Name: "ctrl", Type: scene.NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	resolved, err := ResolveTransform(host, "ctrl")
	if err != nil {
		t.Fatalf("ResolveTransform failed: %v", err)
	}
	if resolved != "ctrl" {
		t.Fatalf("expected ctrl, got %s", resolved)
	}
}

func TestResolveTransformWalksToClosestAncestor(t *testing.T) {
	host := scene.NewScene(0, 24)
	if err := host.AddNode(&scene.Node{Name: "ctrl", Type: scene.NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode ctrl failed: %v", err)
	}
	if err := host.AddNode(&scene.Node{Name: "ctrlShape", Type: "mesh", Parent: "ctrl"}); err != nil {
		t.Fatalf("AddNode shape failed: %v", err)
	}

	resolved, err := ResolveTransform(host, "ctrlShape")
	if err != nil {
		t.Fatalf("ResolveTransform failed: %v", err)
	}
	if resolved != "ctrl" {
		t.Fatalf("expected shape resolved to ctrl, got %s", resolved)
	}
}

func TestResolveTransformUnknownNode(t *testing.T) {
	host := scene.NewScene(0, 24)

	_, err := ResolveTransform(host, "missing")
	notFound := &model.NodeNotFoundError{}
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NodeNotFoundError, got %v", err)
	}
}

func TestResolveTransformWithoutTransformAncestor(t *testing.T) {
	host := scene.NewScene(0, 24)
	if err := host.AddNode(&scene.Node{Name: "orphanShape", Type: "mesh"}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	_, err := ResolveTransform(host, "orphanShape")
	noAncestor := &model.NoTransformAncestorError{}
	if !errors.As(err, &noAncestor) {
		t.Fatalf("expected NoTransformAncestorError, got %v", err)
	}
}
