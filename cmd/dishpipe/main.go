package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/John-Robertt/DishPipe/internal/adapter"
	"github.com/John-Robertt/DishPipe/internal/adapter/autotype"
	"github.com/John-Robertt/DishPipe/internal/adapter/termkeys"
	"github.com/John-Robertt/DishPipe/internal/app"
	"github.com/John-Robertt/DishPipe/internal/app/sequencer"
	"github.com/John-Robertt/DishPipe/internal/app/session"
	"github.com/John-Robertt/DishPipe/internal/config"
	"github.com/John-Robertt/DishPipe/internal/domain"
	"github.com/John-Robertt/DishPipe/internal/extract"
	"github.com/John-Robertt/DishPipe/internal/infra/fsx"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	cmd := args[0]
	switch cmd {
	case "parse", "fix", "all", "paste", "run":
		if code := runCmd(cmd, args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", cmd)
		printUsage()
		os.Exit(2)
	}
}

func runCmd(cmd string, args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printCmdUsage(cmd)
			return 0
		}
	}

	ca, err := parseArgs(cmd, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printCmdUsage(cmd)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, ca)
	if err != nil {
		rep := newReport(cmd, "", ca.DryRunSet && ca.DryRun)
		code := config.Code(err)
		if code == "" {
			code = domain.ErrCodeConfigInvalid
		}
		failReport(&rep, code, err.Error())
		emitReport(rep)
		return 1
	}

	rep := newReport(cmd, eff.Dir, eff.DryRun)
	var code int
	switch cmd {
	case "parse":
		code = cmdParse(eff, &rep)
	case "fix":
		code = cmdFix(eff, &rep)
	case "all":
		code = cmdAll(eff, &rep)
	case "paste":
		code = cmdPaste(eff, &rep)
	case "run":
		code = cmdRun(eff, &rep)
	}
	emitReport(rep)
	return code
}

// cmdParse 从 HTML 文档提取原始名字并写出 names 文件。
func cmdParse(eff config.EffectiveConfig, rep *domain.Report) int {
	names, code := loadHTMLNames(eff, rep)
	if code != 0 {
		return code
	}
	rep.Summary.RawNames = len(names)
	if !eff.DryRun {
		if c := writeOutput(rep, "names", eff.InputPath, names); c != 0 {
			return c
		}
	}
	return 0
}

// cmdFix 读取 names 文件，产出展示名与规范键两个文件。
func cmdFix(eff config.EffectiveConfig, rep *domain.Report) int {
	raw, code := loadRawNames(eff, rep)
	if code != 0 {
		return code
	}
	return fixAndWrite(eff, rep, raw)
}

// cmdAll 把 parse 与 fix 串起来：HTML -> names 文件 -> 展示名/规范键文件。
func cmdAll(eff config.EffectiveConfig, rep *domain.Report) int {
	names, code := loadHTMLNames(eff, rep)
	if code != 0 {
		return code
	}
	if len(names) == 0 {
		failReport(rep, domain.ErrCodeInputEmpty, fmt.Sprintf("从 %q 没有提取到任何名字", eff.HTMLPath))
		return 2
	}
	rep.Summary.RawNames = len(names)
	if !eff.DryRun {
		if c := writeOutput(rep, "names", eff.InputPath, names); c != 0 {
			return c
		}
	}
	return fixAndWrite(eff, rep, names)
}

// cmdPaste 从既有产物文件装配粘贴序列并进入交互会话。
func cmdPaste(eff config.EffectiveConfig, rep *domain.Report) int {
	display, err := fsx.ReadLines(eff.DisplayPath)
	if err != nil {
		if os.IsNotExist(err) {
			failReport(rep, domain.ErrCodeInputMissing, fmt.Sprintf("展示名文件不存在：%q（先运行 fix 或 all）", eff.DisplayPath))
			return 2
		}
		failReport(rep, domain.ErrCodeIOFailed, fmt.Sprintf("读取 %q 失败：%v", eff.DisplayPath, err))
		return 1
	}
	if len(display) == 0 {
		failReport(rep, domain.ErrCodeInputEmpty, fmt.Sprintf("展示名文件为空：%q", eff.DisplayPath))
		return 2
	}

	// 规范键文件缺失或行数对不上时由装配层按展示名重算。
	keys, err := fsx.ReadLines(eff.KeysPath)
	if err != nil && !os.IsNotExist(err) {
		failReport(rep, domain.ErrCodeIOFailed, fmt.Sprintf("读取 %q 失败：%v", eff.KeysPath, err))
		return 1
	}

	// names 文件缺失时组名桶为空，全部条目走兜底组名。
	raw, err := fsx.ReadLines(eff.InputPath)
	if err != nil && !os.IsNotExist(err) {
		failReport(rep, domain.ErrCodeIOFailed, fmt.Sprintf("读取 %q 失败：%v", eff.InputPath, err))
		return 1
	}

	rep.Summary.RawNames = len(raw)
	rep.Summary.DisplayNames = len(display)
	bases := app.DeriveGroupBases(raw)
	rep.Summary.GroupBases = len(bases)

	entries := sequencer.Build(display, keys, bases)
	return runSession(eff, rep, entries)
}

// cmdRun 在内存中跑完整条流水线：HTML（或既有 names 文件）-> 序列 -> 交互会话，
// 除未匹配日志外不落盘。
func cmdRun(eff config.EffectiveConfig, rep *domain.Report) int {
	var (
		names []string
		code  int
	)
	if eff.HTMLPath != "" {
		names, code = loadHTMLNames(eff, rep)
		if code != 0 {
			return code
		}
		if len(names) == 0 {
			failReport(rep, domain.ErrCodeInputEmpty, fmt.Sprintf("从 %q 没有提取到任何名字", eff.HTMLPath))
			return 2
		}
	} else {
		names, code = loadRawNames(eff, rep)
		if code != 0 {
			return code
		}
	}

	display, keys := app.BuildDisplayList(names)
	bases := app.DeriveGroupBases(names)
	rep.Summary.RawNames = len(names)
	rep.Summary.DisplayNames = len(display)
	rep.Summary.GroupBases = len(bases)

	entries := sequencer.Build(display, keys, bases)
	return runSession(eff, rep, entries)
}

// loadHTMLNames 读取 HTML 文件并提取原始名字。
func loadHTMLNames(eff config.EffectiveConfig, rep *domain.Report) ([]string, int) {
	b, err := os.ReadFile(eff.HTMLPath)
	if err != nil {
		if os.IsNotExist(err) {
			failReport(rep, domain.ErrCodeInputMissing, fmt.Sprintf("HTML 文件不存在：%q", eff.HTMLPath))
			return nil, 2
		}
		failReport(rep, domain.ErrCodeIOFailed, fmt.Sprintf("读取 %q 失败：%v", eff.HTMLPath, err))
		return nil, 1
	}
	return extract.Names(string(b)), 0
}

// loadRawNames 读取 names 文件；缺失与空文件都是操作者层面的输入错误。
func loadRawNames(eff config.EffectiveConfig, rep *domain.Report) ([]string, int) {
	raw, err := fsx.ReadLines(eff.InputPath)
	if err != nil {
		if os.IsNotExist(err) {
			failReport(rep, domain.ErrCodeInputMissing, fmt.Sprintf("输入文件不存在：%q（先运行 parse）", eff.InputPath))
			return nil, 2
		}
		failReport(rep, domain.ErrCodeIOFailed, fmt.Sprintf("读取 %q 失败：%v", eff.InputPath, err))
		return nil, 1
	}
	if len(raw) == 0 {
		failReport(rep, domain.ErrCodeInputEmpty, fmt.Sprintf("输入文件为空：%q", eff.InputPath))
		return nil, 2
	}
	return raw, 0
}

func fixAndWrite(eff config.EffectiveConfig, rep *domain.Report, raw []string) int {
	display, keys := app.BuildDisplayList(raw)
	rep.Summary.RawNames = len(raw)
	rep.Summary.DisplayNames = len(display)
	if eff.DryRun {
		return 0
	}
	if c := writeOutput(rep, "display", eff.DisplayPath, display); c != 0 {
		return c
	}
	return writeOutput(rep, "keys", eff.KeysPath, keys)
}

func writeOutput(rep *domain.Report, kind, path string, lines []string) int {
	if err := fsx.WriteLinesAtomic(path, lines); err != nil {
		failReport(rep, domain.ErrCodeIOFailed, fmt.Sprintf("写入 %q 失败：%v", path, err))
		return 1
	}
	rep.Outputs = append(rep.Outputs, domain.OutputFile{Kind: kind, Path: path, Lines: len(lines)})
	return 0
}

// runSession 进入交互会话；dry-run 或宿主能力缺失时降级为预览枚举。
func runSession(eff config.EffectiveConfig, rep *domain.Report, entries []domain.SequenceEntry) int {
	w, interactive := pickProgressWriter()
	var (
		ui  *sessionUI
		obs session.Observer = session.NopObserver{}
	)
	if interactive {
		ui = newSessionUI(w)
		obs = ui
	}

	preview := func(reason string) int {
		if reason != "" && interactive {
			fmt.Fprintf(w, "%s，降级为预览模式\n", reason)
		}
		obs.OnStart(len(entries), true, eff.NoMatchPath)
		res := session.Preview(entries, obs)
		rep.Summary.Pasted = res.Pasted
		return 0
	}

	if eff.DryRun {
		return preview("")
	}

	ad, err := autotype.New()
	if err != nil {
		if adapter.IsUnavailable(err) {
			warnReport(rep, domain.ErrCodeAdapterUnavailable, err.Error())
			return preview(err.Error())
		}
		failReport(rep, domain.ErrCodeIOFailed, err.Error())
		return 1
	}

	trg, err := termkeys.New()
	if err != nil {
		if adapter.IsUnavailable(err) {
			warnReport(rep, domain.ErrCodeAdapterUnavailable, err.Error())
			return preview(err.Error())
		}
		failReport(rep, domain.ErrCodeIOFailed, err.Error())
		return 1
	}
	defer trg.Close()
	if ui != nil {
		ui.setRaw(true)
		defer ui.setRaw(false)
	}

	sq := sequencer.New(entries, fsx.NoMatchLog{Path: eff.NoMatchPath})
	obs.OnStart(len(entries), false, eff.NoMatchPath)
	res := session.RunInteractive(context.Background(), sq, ad, trg, obs)

	rep.Summary.Pasted = res.Pasted
	rep.Summary.Logged = res.Logged
	rep.Errors = append(rep.Errors, res.Errors...)
	if res.Logged > 0 {
		rep.Outputs = append(rep.Outputs, domain.OutputFile{Kind: "no_matches", Path: eff.NoMatchPath, Lines: res.Logged})
	}
	return 0
}

func parseArgs(cmd string, args []string) (config.CLIArgs, error) {
	ca := config.CLIArgs{}

	strFlags := map[string]*string{
		"--html":        &ca.HTML,
		"--input":       &ca.Input,
		"--dir":         &ca.Dir,
		"--out-dir":     &ca.OutDir,
		"--out-display": &ca.OutDisplay,
		"--out-keys":    &ca.OutKeys,
		"--no-matches":  &ca.NoMatches,
	}
	// parse 命令里 --out 指 names 文件（它是 parse 的产物、fix 的输入）。
	if cmd == "parse" {
		strFlags["--out"] = &ca.Input
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--dry-run":
			ca.DryRun = true
			ca.DryRunSet = true
		case strings.HasPrefix(a, "--dry-run="):
			v := strings.TrimPrefix(a, "--dry-run=")
			switch v {
			case "true":
				ca.DryRun = true
			case "false":
				ca.DryRun = false
			default:
				return config.CLIArgs{}, fmt.Errorf("--dry-run 只能是 true 或 false，实际是 %q", v)
			}
			ca.DryRunSet = true
		default:
			name, val, hasVal := strings.Cut(a, "=")
			dst, ok := strFlags[name]
			if !ok {
				return config.CLIArgs{}, fmt.Errorf("未知参数 %q", a)
			}
			if !hasVal {
				if i+1 >= len(args) {
					return config.CLIArgs{}, fmt.Errorf("%s 需要一个值", name)
				}
				i++
				val = args[i]
			}
			if *dst != "" {
				return config.CLIArgs{}, fmt.Errorf("重复的参数 %s", name)
			}
			if val == "" {
				return config.CLIArgs{}, fmt.Errorf("%s 不能为空", name)
			}
			*dst = val
		}
	}

	switch cmd {
	case "parse", "all":
		if ca.HTML == "" {
			return config.CLIArgs{}, fmt.Errorf("%s 需要 --html", cmd)
		}
	case "run":
		// --input 给出既有 names 文件时可以不解析 HTML。
		if ca.HTML == "" && ca.Input == "" {
			return config.CLIArgs{}, fmt.Errorf("run 需要 --html 或 --input")
		}
	}
	return ca, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  dishpipe <命令> [参数]

命令：
  parse   从 HTML 文档提取原始名字，写出 names 文件
  fix     读取 names 文件，产出展示名与规范键文件
  all     parse + fix 一步完成
  paste   从既有产物文件装配序列，进入交互粘贴会话
  run     HTML 直达交互会话（内存流水线，只写未匹配日志）

使用 "dishpipe <命令> --help" 查看详细说明。
`)
}

func printCmdUsage(cmd string) {
	switch cmd {
	case "parse":
		fmt.Fprint(os.Stdout, `用法：
  dishpipe parse --html <文件> [--out names.txt] [--dir <目录>] [--dry-run]

参数：
  --html      媒体库页面的 HTML 文件（必填）
  --out       原始名字输出文件（默认 names.txt）
  --dir       工作目录（默认当前目录）
  --dry-run   只统计不落盘
`)
	case "fix":
		fmt.Fprint(os.Stdout, `用法：
  dishpipe fix [--input names.txt] [--out-display dish_names.txt] [--out-keys dish_names2.txt] [--out-dir <目录>] [--dry-run]

参数：
  --input        原始名字输入文件（默认 names.txt）
  --out-display  展示名输出文件（默认 dish_names.txt）
  --out-keys     规范键输出文件（默认 dish_names2.txt）
  --out-dir      输出目录（默认工作目录）
  --dry-run      只统计不落盘
`)
	case "all":
		fmt.Fprint(os.Stdout, `用法：
  dishpipe all --html <文件> [--input names.txt] [--out-display dish_names.txt] [--out-keys dish_names2.txt] [--out-dir <目录>] [--dry-run]

parse + fix 一步完成；--input 是中间 names 文件的落点。
`)
	case "paste":
		fmt.Fprint(os.Stdout, `用法：
  dishpipe paste [--dir <目录>] [--input names.txt] [--out-display dish_names.txt] [--out-keys dish_names2.txt] [--no-matches no_matches.txt] [--dry-run]

参数：
  --dir       工作目录：产物文件与未匹配日志的默认落点（默认当前目录）

会话按键：
  Down / j   下一条（键入展示名，组名进剪贴板）
  Up / k     把最近一条记为未匹配（追加到未匹配日志）
  F8 / q     结束会话
`)
	case "run":
		fmt.Fprint(os.Stdout, `用法：
  dishpipe run (--html <文件> | --input names.txt) [--no-matches no_matches.txt] [--dry-run]

参数：
  --html      媒体库页面的 HTML 文件
  --input     已有的原始名字文件（给出且无 --html 时跳过 HTML 解析）

直达交互会话：流水线全程在内存中，只有未匹配日志落盘。
会话按键同 paste。
`)
	default:
		printUsage()
	}
}

func newReport(cmd, dir string, dryRun bool) domain.Report {
	return domain.Report{
		Command:   cmd,
		Source:    dir,
		DryRun:    dryRun,
		StartedAt: time.Now().UTC(),
	}
}

func failReport(rep *domain.Report, code, msg string) {
	rep.Errors = append(rep.Errors, domain.ReportError{Code: code, Msg: msg})
}

func warnReport(rep *domain.Report, code, msg string) {
	rep.Errors = append(rep.Errors, domain.ReportError{Code: code, Msg: msg})
}

func emitReport(rep domain.Report) {
	rep.FinishedAt = time.Now().UTC()
	rep.Finalize()

	if isTTY(os.Stdout) {
		fmt.Fprintf(os.Stdout, "完成：raw=%d display=%d groups=%d pasted=%d logged=%d\n",
			rep.Summary.RawNames, rep.Summary.DisplayNames, rep.Summary.GroupBases,
			rep.Summary.Pasted, rep.Summary.Logged,
		)
		for _, out := range rep.Outputs {
			fmt.Fprintf(os.Stdout, "out: %s (%d 行)\n", out.Path, out.Lines)
		}
		for _, e := range rep.Errors {
			fmt.Fprintf(os.Stderr, "%s: %s\n", e.Code, e.Msg)
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个 Report JSON（日志/摘要走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(rep)
	fmt.Fprintf(os.Stderr, "完成：raw=%d display=%d pasted=%d logged=%d\n",
		rep.Summary.RawNames, rep.Summary.DisplayNames, rep.Summary.Pasted, rep.Summary.Logged,
	)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func pickProgressWriter() (io.Writer, bool) {
	// 会话进度只在交互终端渲染；默认走 stderr（不污染 stdout JSON）。
	if isTTY(os.Stderr) {
		return os.Stderr, true
	}
	if isTTY(os.Stdout) {
		return os.Stdout, true
	}
	return nil, false
}
