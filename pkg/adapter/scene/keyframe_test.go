// 指示: miu200521358
package scene

import (
	"math"
	"testing"
)

func TestSetKeyframeReplacesSameFrame(t *testing.T) {
	target := NewScene(0, 24)
	if err := target.AddNode(&Node{Name: "node", Type: NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	if err := target.SetKeyframe("node", "tx", 5, 1.0); err != nil {
		t.Fatalf("SetKeyframe failed: %v", err)
	}
	if err := target.SetKeyframe("node", "tx", 5, 2.0); err != nil {
		t.Fatalf("SetKeyframe replace failed: %v", err)
	}

	keys, err := target.Keyframes("node", "tx")
	if err != nil {
		t.Fatalf("Keyframes failed: %v", err)
	}
	if len(keys) != 1 || keys[0].Value != 2.0 {
		t.Fatalf("expected single replaced key with value 2.0, got %v", keys)
	}
}

func TestSetKeyframeRejectsUnknownChannel(t *testing.T) {
	target := NewScene(0, 24)
	if err := target.AddNode(&Node{Name: "node", Type: NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := target.SetKeyframe("node", "sx", 0, 1.0); err == nil {
		t.Fatalf("expected unknown channel error, got nil")
	}
}

func TestBakePreservesKeysOutsideRange(t *testing.T) {
	target := NewScene(0, 30)
	if err := target.AddNode(&Node{Name: "node", Type: NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := target.SetKeyframe("node", "tx", 0, 0); err != nil {
		t.Fatalf("SetKeyframe failed: %v", err)
	}
	if err := target.SetKeyframe("node", "tx", 30, 30); err != nil {
		t.Fatalf("SetKeyframe failed: %v", err)
	}

	if err := target.Bake([]string{"node"}, []string{"tx"}, 10, 20, 5); err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	keys, err := target.Keyframes("node", "tx")
	if err != nil {
		t.Fatalf("Keyframes failed: %v", err)
	}
	wantedFrames := []float64{0, 10, 15, 20, 30}
	if len(keys) != len(wantedFrames) {
		t.Fatalf("expected %d keys, got %d: %v", len(wantedFrames), len(keys), keys)
	}
	for index, key := range keys {
		if key.Frame != wantedFrames[index] {
			t.Fatalf("expected frame %f at index %d, got %f", wantedFrames[index], index, key.Frame)
		}
		if math.Abs(key.Value-key.Frame) > 1e-9 {
			t.Fatalf("expected linear ramp value %f at frame %f, got %f", key.Frame, key.Frame, key.Value)
		}
	}
}

func TestBakeRejectsInvalidArguments(t *testing.T) {
	target := NewScene(0, 24)
	if err := target.AddNode(&Node{Name: "node", Type: NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	if err := target.Bake([]string{"node"}, []string{"tx"}, 0, 24, 0); err == nil {
		t.Fatalf("expected invalid step error, got nil")
	}
	if err := target.Bake([]string{"node"}, []string{"tx"}, 24, 0, 1); err == nil {
		t.Fatalf("expected invalid range error, got nil")
	}
	if err := target.Bake([]string{"missing"}, []string{"tx"}, 0, 24, 1); err == nil {
		t.Fatalf("expected unknown node error, got nil")
	}
	if err := target.Bake([]string{"node"}, []string{"visibility"}, 0, 24, 1); err == nil {
		t.Fatalf("expected unknown channel error, got nil")
	}
}

func TestBakeRestoresCurrentFrame(t *testing.T) {
	target := NewScene(0, 24)
	if err := target.AddNode(&Node{Name: "node", Type: NodeTypeTransform}); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	target.SetCurrentFrame(7)

	if err := target.Bake([]string{"node"}, []string{"tx"}, 0, 24, 1); err != nil {
		t.Fatalf("Bake failed: %v", err)
	}
	if target.CurrentFrame() != 7 {
		t.Fatalf("expected current frame restored to 7, got %f", target.CurrentFrame())
	}
}
