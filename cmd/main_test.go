// 指示: miu200521358
package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_fk2ik/pkg/adapter/scene"
	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
)

func TestParseOptionsWithFlags(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{
		"-in", "scene.json",
		"-out", "result.json",
		"-chain", "ctrl1, ctrl2, ctrl3",
		"-up", "up_loc",
		"-offset", "2.5",
		"-mode", "delete",
		"-dry-run",
	}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.inputPath != "scene.json" {
		t.Fatalf("inputPath mismatch: %s", opts.inputPath)
	}
	if opts.outputPath != "result.json" {
		t.Fatalf("outputPath mismatch: %s", opts.outputPath)
	}
	if len(opts.chainNames) != 3 || opts.chainNames[0] != "ctrl1" || opts.chainNames[2] != "ctrl3" {
		t.Fatalf("chainNames mismatch: %v", opts.chainNames)
	}
	if opts.upVectorName != "up_loc" {
		t.Fatalf("upVectorName mismatch: %s", opts.upVectorName)
	}
	if opts.poleOffset != 2.5 {
		t.Fatalf("poleOffset mismatch: %f", opts.poleOffset)
	}
	if opts.mode != modeDeleteOnly {
		t.Fatalf("mode mismatch: %s", opts.mode)
	}
	if !opts.dryRun {
		t.Fatalf("dryRun should be true")
	}
}

func TestParseOptionsWithPositionals(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	opts, err := parseOptions([]string{"-chain", "a,b,c", "scene.json", "result.json"}, errBuf)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if opts.inputPath != "scene.json" {
		t.Fatalf("inputPath mismatch: %s", opts.inputPath)
	}
	if opts.outputPath != "result.json" {
		t.Fatalf("outputPath mismatch: %s", opts.outputPath)
	}
}

func TestParseOptionsRequireJsonExt(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	_, err := parseOptions([]string{"-in", "scene.ma", "-chain", "a,b,c"}, errBuf)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), ".json") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseOptionsRequireChain(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	_, err := parseOptions([]string{"-in", "scene.json"}, errBuf)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "-chain") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseOptionsRejectsUnknownMode(t *testing.T) {
	errBuf := bytes.NewBuffer(nil)
	_, err := parseOptions([]string{"-in", "scene.json", "-chain", "a,b,c", "-mode", "freeze"}, errBuf)
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestResolveOutputPathDefault(t *testing.T) {
	out, err := resolveOutputPath(filepath.Join("work", "scene.json"), "")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	expected := filepath.Join("work", "scene_baked.json")
	if out != expected {
		t.Fatalf("output mismatch: %s != %s", out, expected)
	}
}

func TestResolveOutputPathRequireJsonExt(t *testing.T) {
	_, err := resolveOutputPath("scene.json", "scene.ma")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), ".json") {
		t.Fatalf("unexpected error: %v", err)
	}
}

// writeTestScene はアニメーション付きFKチェーンのシーンを保存する。
func writeTestScene(t *testing.T, path string) {
	t.Helper()
	host := scene.NewScene(1, 24)
	nodes := []*scene.Node{
		{Name: "ctrl1", Type: scene.NodeTypeTransform},
		{Name: "ctrl2", Type: scene.NodeTypeTransform, Parent: "ctrl1", Translation: mmath.NewVec3(0, 1, 0.3)},
		{Name: "ctrl3", Type: scene.NodeTypeTransform, Parent: "ctrl2", Translation: mmath.NewVec3(0, 1, -0.3)},
	}
	for _, node := range nodes {
		if err := host.AddNode(node); err != nil {
			t.Fatalf("AddNode %s failed: %v", node.Name, err)
		}
	}
	if err := host.SetKeyframe("ctrl1", "rz", 1, 0); err != nil {
		t.Fatalf("SetKeyframe failed: %v", err)
	}
	if err := host.SetKeyframe("ctrl1", "rz", 24, 45); err != nil {
		t.Fatalf("SetKeyframe failed: %v", err)
	}
	if err := scene.NewSceneRepository().Save(path, host); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func TestRunBakesSceneToOutput(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "scene.json")
	outPath := filepath.Join(tempDir, "scene_out.json")
	writeTestScene(t, inPath)

	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	if err := run([]string{"-in", inPath, "-out", outPath, "-chain", "ctrl1,ctrl2,ctrl3"}, outBuf, errBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	baked, err := scene.NewSceneRepository().Load(outPath)
	if err != nil {
		t.Fatalf("output load failed: %v", err)
	}
	for _, name := range baked.NodeNames() {
		if strings.HasPrefix(name, "mu_fk2ik") {
			t.Fatalf("expected no temp nodes in output, found %s", name)
		}
	}
	keys, err := baked.Keyframes("ctrl1", "rz")
	if err != nil {
		t.Fatalf("Keyframes failed: %v", err)
	}
	if len(keys) != 24 {
		t.Fatalf("expected 24 baked keys on ctrl1.rz, got %d", len(keys))
	}
	if !strings.Contains(outBuf.String(), "シーン保存成功") {
		t.Fatalf("expected save success log, got: %s", outBuf.String())
	}
}

func TestRunDryRunSkipsSave(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "scene.json")
	writeTestScene(t, inPath)

	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	if err := run([]string{"-in", inPath, "-chain", "ctrl1,ctrl2,ctrl3", "-dry-run"}, outBuf, errBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	defaultOut := filepath.Join(tempDir, "scene_baked.json")
	if scene.NewSceneRepository().CanLoad(defaultOut) {
		if _, err := scene.NewSceneRepository().Load(defaultOut); err == nil {
			t.Fatalf("expected no output file in dry run")
		}
	}
	if !strings.Contains(outBuf.String(), "焼き戻し成功") {
		t.Fatalf("expected bake success log on cloned scene, got: %s", outBuf.String())
	}
	if !strings.Contains(outBuf.String(), "保存をスキップ") {
		t.Fatalf("expected save skip log, got: %s", outBuf.String())
	}

	// 入力ファイル側のアニメーションはドライランで書き換わらない。
	reloaded, err := scene.NewSceneRepository().Load(inPath)
	if err != nil {
		t.Fatalf("input reload failed: %v", err)
	}
	keys, err := reloaded.Keyframes("ctrl1", "rz")
	if err != nil {
		t.Fatalf("Keyframes failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected original 2 keys untouched, got %d", len(keys))
	}
}

func TestRunDeleteModeKeepsOriginalKeys(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "scene.json")
	outPath := filepath.Join(tempDir, "scene_out.json")
	writeTestScene(t, inPath)

	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	if err := run([]string{"-in", inPath, "-out", outPath, "-chain", "ctrl1,ctrl2,ctrl3", "-mode", "delete"}, outBuf, errBuf); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	saved, err := scene.NewSceneRepository().Load(outPath)
	if err != nil {
		t.Fatalf("output load failed: %v", err)
	}
	keys, err := saved.Keyframes("ctrl1", "rz")
	if err != nil {
		t.Fatalf("Keyframes failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected original 2 keys untouched, got %d", len(keys))
	}
}

func TestRunFailsForUnknownController(t *testing.T) {
	tempDir := t.TempDir()
	inPath := filepath.Join(tempDir, "scene.json")
	writeTestScene(t, inPath)

	outBuf := bytes.NewBuffer(nil)
	errBuf := bytes.NewBuffer(nil)
	err := run([]string{"-in", inPath, "-chain", "ctrl1,missing,ctrl3"}, outBuf, errBuf)
	if err == nil {
		t.Fatalf("expected error for unknown controller")
	}
}
