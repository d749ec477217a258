// 指示: miu200521358
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_fk2ik/pkg/adapter/rpresenter/messages"
	"github.com/miu200521358/mu_fk2ik/pkg/adapter/scene"
	"github.com/miu200521358/mu_fk2ik/pkg/domain/model"
	"github.com/miu200521358/mu_fk2ik/pkg/usecase/rinteractor"
)

const (
	modeBakeDelete = "bake"
	modeDeleteOnly = "delete"

	bakedOutputSuffix = "_baked"
)

// options はCLI引数を保持する。
type options struct {
	inputPath    string
	outputPath   string
	chainNames   []string
	upVectorName string
	poleOffset   float64
	mode         string
	dryRun       bool
}

// main はFKチェーンのIKリグ切替と焼き戻しを実行する。
func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	repository := scene.NewSceneRepository()
	if !repository.CanLoad(opts.inputPath) {
		return fmt.Errorf("入力形式が未対応です: %s", opts.inputPath)
	}

	fmt.Fprintf(out, "[mu_fk2ik] 読み込み開始: %s\n", opts.inputPath)
	host, err := repository.Load(opts.inputPath)
	if err != nil {
		return fmt.Errorf(messages.MessageLoadFailed+": %w", err)
	}
	fmt.Fprintf(out, "[mu_fk2ik] "+messages.LogLoadSuccess+"\n", opts.inputPath)

	// ドライランは複製シーンへ適用し、読み込んだシーンを変更しない。
	working := host
	if opts.dryRun {
		cloned, err := host.Clone()
		if err != nil {
			return fmt.Errorf("シーン複製に失敗しました: %w", err)
		}
		working = cloned
	}

	config := model.RigConfig{
		ChainNames:       opts.chainNames,
		UpVectorName:     opts.upVectorName,
		PoleVectorOffset: opts.poleOffset,
	}
	session := rinteractor.NewRigSwitcherSession(rinteractor.RigSwitcherSessionDeps{
		Host:             working,
		ProgressReporter: &rigProgressPrinter{out: out},
	}, config)

	fmt.Fprintf(out, "[mu_fk2ik] "+messages.LabelGenerate+"開始: %s\n", strings.Join(opts.chainNames, " → "))
	if err := session.Generate(); err != nil {
		return fmt.Errorf(messages.MessageGenerateFailed+": %w", err)
	}
	for _, warning := range session.Warnings() {
		fmt.Fprintf(out, "[mu_fk2ik] 警告: %s\n", warningMessage(warning))
	}

	switch opts.mode {
	case modeBakeDelete:
		if err := session.BakeAndDelete(); err != nil {
			return fmt.Errorf(messages.MessageBakeFailed+": %w", err)
		}
		fmt.Fprintf(out, "[mu_fk2ik] "+messages.LogBakeSuccess+"\n", strings.Join(opts.chainNames, ","))
	case modeDeleteOnly:
		if err := session.DeleteOnly(); err != nil {
			return fmt.Errorf("一時リグの破棄に失敗しました: %w", err)
		}
	}

	if opts.dryRun {
		fmt.Fprintf(out, "[mu_fk2ik] ドライランのため保存をスキップしました\n")
		return nil
	}

	outputPath, err := resolveOutputPath(opts.inputPath, opts.outputPath)
	if err != nil {
		return err
	}
	if err := ensureOutputDir(outputPath); err != nil {
		return err
	}

	fmt.Fprintf(out, "[mu_fk2ik] 保存開始: %s\n", outputPath)
	if err := repository.Save(outputPath, host); err != nil {
		return fmt.Errorf(messages.MessageSaveFailed+": %w", err)
	}
	fmt.Fprintf(out, "[mu_fk2ik] "+messages.LogSaveSuccess+"\n", outputPath)
	return nil
}

// parseOptions はCLI引数を解析する。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_fk2ik", flag.ContinueOnError)
	fs.SetOutput(errOut)

	in := fs.String("in", "", messages.LabelScenePath)
	out := fs.String("out", "", messages.LabelOutputPath)
	chain := fs.String("chain", "", messages.LabelChain+" (ルート→先端, カンマ区切り)")
	up := fs.String("up", "", messages.LabelUpVector)
	offset := fs.Float64("offset", model.DefaultPoleVectorOffset, messages.LabelPoleOffset)
	mode := fs.String("mode", modeBakeDelete, "処理モード (bake="+messages.LabelBakeDelete+", delete="+messages.LabelDeleteOnly+")")
	dryRun := fs.Bool("dry-run", false, "保存せずにリグ切替処理のみ実行する")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *in == "" && fs.NArg() > 0 {
		*in = fs.Arg(0)
	}
	if *out == "" && fs.NArg() > 1 {
		*out = fs.Arg(1)
	}
	if *in == "" {
		return options{}, fmt.Errorf(messages.MessageInputRequired + " (-in)")
	}
	if !strings.EqualFold(filepath.Ext(*in), ".json") {
		return options{}, fmt.Errorf("入力拡張子が .json ではありません: %s", *in)
	}

	chainNames := splitChainNames(*chain)
	if len(chainNames) == 0 {
		return options{}, fmt.Errorf(messages.MessageChainRequired + " (-chain)")
	}
	if *mode != modeBakeDelete && *mode != modeDeleteOnly {
		return options{}, fmt.Errorf("処理モードが不正です: %s (bake または delete)", *mode)
	}

	return options{
		inputPath:    *in,
		outputPath:   *out,
		chainNames:   chainNames,
		upVectorName: strings.TrimSpace(*up),
		poleOffset:   *offset,
		mode:         *mode,
		dryRun:       *dryRun,
	}, nil
}

// splitChainNames はカンマ区切りのコントローラ名を分解する。
func splitChainNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		names = append(names, strings.TrimSpace(part))
	}
	return names
}

// resolveOutputPath は出力シーンパスを解決する。
func resolveOutputPath(inputPath string, outputPath string) (string, error) {
	if strings.TrimSpace(outputPath) == "" {
		dir := filepath.Dir(inputPath)
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		return filepath.Join(dir, base+bakedOutputSuffix+".json"), nil
	}
	if !strings.EqualFold(filepath.Ext(outputPath), ".json") {
		return "", fmt.Errorf("出力拡張子が .json ではありません: %s", outputPath)
	}
	return outputPath, nil
}

// ensureOutputDir は出力先ディレクトリを作成する。
func ensureOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("出力先ディレクトリの作成に失敗しました: %w", err)
	}
	return nil
}

// warningMessage は警告IDを表示メッセージへ変換する。
func warningMessage(id string) string {
	if id == model.RigWarningPoleVectorFallback {
		return messages.WarningPoleVectorFallback
	}
	return id
}

// rigProgressPrinter はリグ操作の進捗を標準出力へ流す。
type rigProgressPrinter struct {
	out io.Writer
}

// ReportRigProgress はリグ操作進捗を通知する。
func (p *rigProgressPrinter) ReportRigProgress(event rinteractor.RigProgressEvent) {
	switch event.Type {
	case rinteractor.RigProgressEventTypeJointsCreated:
		fmt.Fprintf(p.out, "[mu_fk2ik] 一時ジョイント生成: %d本\n", event.JointCount)
	case rinteractor.RigProgressEventTypeRootTracked:
		fmt.Fprintf(p.out, "[mu_fk2ik] ルート追従リンク作成: %d本\n", event.LinkCount)
	case rinteractor.RigProgressEventTypeSolverAttached:
		fmt.Fprintf(p.out, "[mu_fk2ik] IKソルバ接続\n")
	case rinteractor.RigProgressEventTypeControllersCreated:
		fmt.Fprintf(p.out, "[mu_fk2ik] コントローラ生成: リンク%d本\n", event.LinkCount)
	case rinteractor.RigProgressEventTypeTransferCompleted:
		fmt.Fprintf(p.out, "[mu_fk2ik] FK→IK転送完了\n")
	case rinteractor.RigProgressEventTypeBakedBack:
		fmt.Fprintf(p.out, "[mu_fk2ik] FK焼き戻し完了: %dコントローラ\n", event.JointCount)
	case rinteractor.RigProgressEventTypeCleanupCompleted:
		fmt.Fprintf(p.out, "[mu_fk2ik] 一時リグ破棄完了\n")
	}
}
