// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_fk2ik/pkg/adapter/scene"
	"github.com/miu200521358/mu_fk2ik/pkg/domain/mmath"
	"github.com/miu200521358/mu_fk2ik/pkg/domain/model"
	"github.com/miu200521358/mu_fk2ik/pkg/usecase/rinteractor"
)

const (
	batchOutputDirMode = 0o755
)

// batchCase はリグ切替検証1ケース分のシーン構築を表す。
type batchCase struct {
	Name  string
	Build func() (*scene.Scene, model.RigConfig, error)
}

// targetCases は検証対象のシーン構成一覧。
var targetCases = []batchCase{
	{Name: "straight_arm", Build: buildStraightArmScene},
	{Name: "bent_arm", Build: buildBentArmScene},
	{Name: "bent_leg_up_vector", Build: buildBentLegWithUpVectorScene},
	{Name: "long_spine_chain", Build: buildLongSpineChainScene},
}

// batchConfig はバッチ検証の実行設定を表す。
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
}

// switchEntry は1ケース分の実行入力情報を表す。
type switchEntry struct {
	Index      int
	Case       batchCase
	CaseDir    string
	OutputPath string
}

// switchResult は1ケース分の実行結果を表す。
type switchResult struct {
	Entry        switchEntry
	Status       string
	Duration     time.Duration
	Err          error
	ProgressInfo string
	Warnings     []string
}

// main はIKリグ切替の一括検証を実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括検証を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildSwitchEntries(config.OutputRoot, targetCases)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "検証対象ケースがありません")
		return 2
	}

	results := executeBatchSwitch(config, entries)
	printBatchSummary(results)

	hasFailed := false
	for _, result := range results {
		if result.Status == "failed" {
			hasFailed = true
			break
		}
	}
	if hasFailed {
		return 1
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "検証結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "リグ切替せず、ケース一覧と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// buildSwitchEntries はケース一覧から実行対象エントリを生成する。
func buildSwitchEntries(outputRoot string, cases []batchCase) []switchEntry {
	entries := make([]switchEntry, 0, len(cases))
	for i, c := range cases {
		safeName := sanitizePathComponent(c.Name)
		caseDirName := fmt.Sprintf("%03d_%s", i+1, safeName)
		caseDir := filepath.Join(outputRoot, caseDirName)
		outputPath := filepath.Join(caseDir, safeName+"_baked.json")
		entries = append(entries, switchEntry{
			Index:      i + 1,
			Case:       c,
			CaseDir:    caseDir,
			OutputPath: outputPath,
		})
	}
	return entries
}

// executeBatchSwitch は全ケースのリグ切替処理を順次実行する。
func executeBatchSwitch(config batchConfig, entries []switchEntry) []switchResult {
	results := make([]switchResult, 0, len(entries))
	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] リグ切替開始: case=%s\n", entry.Index, total, entry.Case.Name)
		result := switchCaseEntry(config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] リグ切替成功: case=%s output=%s elapsed=%s\n", entry.Index, total, entry.Case.Name, entry.OutputPath, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.ProgressInfo) != "" {
				fmt.Printf("[%d/%d] 進捗サマリ: %s\n", entry.Index, total, result.ProgressInfo)
			}
			for _, warning := range result.Warnings {
				fmt.Printf("[%d/%d] 警告: %s\n", entry.Index, total, warning)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: case=%s output=%s\n", entry.Index, total, entry.Case.Name, entry.OutputPath)
		default:
			fmt.Printf("[%d/%d] リグ切替失敗: case=%s reason=%v\n", entry.Index, total, entry.Case.Name, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// switchCaseEntry は1ケース分のリグ切替と焼き戻しを実行する。
func switchCaseEntry(config batchConfig, entry switchEntry) switchResult {
	result := switchResult{
		Entry:  entry,
		Status: "failed",
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	host, rigConfig, err := entry.Case.Build()
	if err != nil {
		result.Err = fmt.Errorf("シーン構築に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	collector := newRigProgressCollector()
	session := rinteractor.NewRigSwitcherSession(rinteractor.RigSwitcherSessionDeps{
		Host:             host,
		ProgressReporter: collector,
	}, rigConfig)

	if err := session.Generate(); err != nil {
		result.Err = fmt.Errorf("IKリグ生成に失敗しました: %w", err)
		return result
	}
	if err := session.BakeAndDelete(); err != nil {
		result.Err = fmt.Errorf("焼き戻しに失敗しました: %w", err)
		return result
	}
	if leftover := countTempRigNodes(host); leftover > 0 {
		result.Err = fmt.Errorf("一時ノードが %d 件残存しています", leftover)
		return result
	}

	if err := scene.NewSceneRepository().Save(entry.OutputPath, host); err != nil {
		result.Err = fmt.Errorf("シーン保存に失敗しました: %w", err)
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.ProgressInfo = collector.Summary()
	result.Warnings = session.Warnings()
	return result
}

// countTempRigNodes はリグ由来の一時ノード数を数える。
func countTempRigNodes(host *scene.Scene) int {
	count := 0
	for _, name := range host.NodeNames() {
		if strings.HasPrefix(name, "mu_fk2ik") {
			count++
		}
	}
	return count
}

// printBatchSummary は実行結果の集計を標準出力へ表示する。
func printBatchSummary(results []switchResult) {
	succeeded := 0
	failed := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		default:
			failed++
		}
	}
	fmt.Printf(
		"バッチ検証サマリ: total=%d succeeded=%d failed=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		dryRun,
	)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "case"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "case"
	}
	return replaced
}

// buildChainScene は指定ローカル位置のコントローラ列を持つシーンを作る。
func buildChainScene(start float64, end float64, names []string, translations []mmath.Vec3) (*scene.Scene, error) {
	host := scene.NewScene(start, end)
	parent := ""
	for i, name := range names {
		if err := host.AddNode(&scene.Node{
			Name:        name,
			Type:        scene.NodeTypeTransform,
			Parent:      parent,
			Translation: translations[i],
		}); err != nil {
			return nil, err
		}
		parent = name
	}
	return host, nil
}

// buildStraightArmScene は直線チェーン(ポールベクタ退避の発生ケース)を作る。
func buildStraightArmScene() (*scene.Scene, model.RigConfig, error) {
	names := []string{"arm_fk_01", "arm_fk_02", "arm_fk_03"}
	host, err := buildChainScene(1, 24, names, []mmath.Vec3{
		mmath.NewVec3(0, 10, 0),
		mmath.NewVec3(0, -2, 0),
		mmath.NewVec3(0, -2, 0),
	})
	if err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("arm_fk_01", "rz", 1, 0); err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("arm_fk_01", "rz", 24, 60); err != nil {
		return nil, model.RigConfig{}, err
	}
	return host, model.RigConfig{ChainNames: names}, nil
}

// buildBentArmScene は肘の曲がった腕チェーンを作る。
func buildBentArmScene() (*scene.Scene, model.RigConfig, error) {
	names := []string{"arm_fk_01", "arm_fk_02", "arm_fk_03"}
	host, err := buildChainScene(1, 48, names, []mmath.Vec3{
		mmath.NewVec3(1, 12, 0),
		mmath.NewVec3(0, -2, -0.4),
		mmath.NewVec3(0, -2, 0.4),
	})
	if err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("arm_fk_01", "rx", 1, 0); err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("arm_fk_01", "rx", 48, 35); err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("arm_fk_02", "rz", 24, 20); err != nil {
		return nil, model.RigConfig{}, err
	}
	return host, model.RigConfig{ChainNames: names, PoleVectorOffset: 2.0}, nil
}

// buildBentLegWithUpVectorScene は外部アップベクタ指定付きの脚チェーンを作る。
func buildBentLegWithUpVectorScene() (*scene.Scene, model.RigConfig, error) {
	names := []string{"leg_fk_01", "leg_fk_02", "leg_fk_03"}
	host, err := buildChainScene(1, 30, names, []mmath.Vec3{
		mmath.NewVec3(0.8, 8, 0),
		mmath.NewVec3(0, -3.5, 0.5),
		mmath.NewVec3(0, -3.5, -0.5),
	})
	if err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.CreateLocator("knee_up_loc", mmath.NewVec3(0.8, 4.5, 3)); err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("leg_fk_01", "rx", 1, 0); err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("leg_fk_01", "rx", 30, -40); err != nil {
		return nil, model.RigConfig{}, err
	}
	return host, model.RigConfig{ChainNames: names, UpVectorName: "knee_up_loc"}, nil
}

// buildLongSpineChainScene はCCD解決になる4コントローラの背骨チェーンを作る。
func buildLongSpineChainScene() (*scene.Scene, model.RigConfig, error) {
	names := []string{"spine_fk_01", "spine_fk_02", "spine_fk_03", "spine_fk_04"}
	host, err := buildChainScene(1, 24, names, []mmath.Vec3{
		mmath.NewVec3(0, 8, 0),
		mmath.NewVec3(0, 1.5, 0.2),
		mmath.NewVec3(0, 1.5, -0.1),
		mmath.NewVec3(0, 1.5, -0.1),
	})
	if err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("spine_fk_01", "ry", 1, 0); err != nil {
		return nil, model.RigConfig{}, err
	}
	if err := host.SetKeyframe("spine_fk_01", "ry", 24, 30); err != nil {
		return nil, model.RigConfig{}, err
	}
	return host, model.RigConfig{ChainNames: names}, nil
}

// rigProgressCollector はリグ操作の進捗イベントを収集する。
type rigProgressCollector struct {
	eventCounts map[rinteractor.RigProgressEventType]int
	jointMax    int
	linkTotal   int
}

// newRigProgressCollector はリグ進捗収集器を生成する。
func newRigProgressCollector() *rigProgressCollector {
	return &rigProgressCollector{
		eventCounts: map[rinteractor.RigProgressEventType]int{},
	}
}

// ReportRigProgress はリグ操作の進捗イベントを収集する。
func (collector *rigProgressCollector) ReportRigProgress(event rinteractor.RigProgressEvent) {
	if collector == nil {
		return
	}
	if collector.eventCounts == nil {
		collector.eventCounts = map[rinteractor.RigProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.JointCount > collector.jointMax {
		collector.jointMax = event.JointCount
	}
	collector.linkTotal += event.LinkCount
}

// Summary は収集したリグ進捗の要約文字列を返す。
func (collector *rigProgressCollector) Summary() string {
	if collector == nil || len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for eventType := range collector.eventCounts {
		types = append(types, string(eventType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d joints=%d links=%d stages=%s",
		len(collector.eventCounts),
		collector.jointMax,
		collector.linkTotal,
		strings.Join(types, ","),
	)
}
