package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// ErrCodeInvalid 表示配置文件/环境变量无法读取或解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultNamesFile 是原始名字列表的默认文件名。
	DefaultNamesFile = "names.txt"
	// DefaultDisplayFile 是展示名列表的默认文件名。
	DefaultDisplayFile = "dish_names.txt"
	// DefaultKeysFile 是规范键列表的默认文件名。
	DefaultKeysFile = "dish_names2.txt"
	// DefaultNoMatchFile 是未匹配日志的默认文件名。
	DefaultNoMatchFile = "no_matches.txt"
	// ConfigFileName 是工作目录下可选配置文件的固定名字。
	ConfigFileName = "dishpipe.json"
	// EnvFileName 是工作目录下可选 .env 文件的固定名字。
	EnvFileName = ".env"
)

// 环境变量名（优先级在 CLI 之下、配置文件之上）。
const (
	EnvOutDir    = "DISHPIPE_OUT_DIR"
	EnvNoMatches = "DISHPIPE_NO_MATCHES"
	EnvDryRun    = "DISHPIPE_DRY_RUN"
)

// CLIArgs 只包含 CLI 暴露的入口参数，并保留"是否显式指定"的信息。
// 这能保证覆盖优先级可实现：例如 --dry-run=false 必须能覆盖 DISHPIPE_DRY_RUN=1。
type CLIArgs struct {
	HTML       string
	Input      string
	Dir        string
	OutDir     string
	OutDisplay string
	OutKeys    string
	NoMatches  string

	DryRun    bool
	DryRunSet bool
}

// FileConfig 对应 dishpipe.json 的解析结构（所有字段可选）。
type FileConfig struct {
	OutDir    string `json:"out_dir"`
	NoMatches string `json:"no_matches"`
	DryRun    *bool  `json:"dry_run"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
// 各路径字段均为 clean + absolute。
type EffectiveConfig struct {
	// Dir 是工作目录：默认输出与默认输入都落在这里。
	Dir string

	HTMLPath    string
	InputPath   string
	DisplayPath string
	KeysPath    string
	NoMatchPath string

	DryRun bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取可选配置，然后与 CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) 工作目录 = CLI --dir（若给出）否则 cwd
// 2) 读取 <dir>/.env（可选，不覆盖已存在的进程环境变量）
// 3) 读取 <dir>/dishpipe.json（可选）
//
// 覆盖优先级（固定）：CLI > 环境变量 > 配置文件 > 内置默认。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	dir := cwdAbs
	if strings.TrimSpace(cli.Dir) != "" {
		dir = absCleanFrom(cwdAbs, cli.Dir)
	}

	// .env 只补缺，不覆盖进程环境（godotenv.Load 的语义正好如此）。
	envPath := filepath.Join(dir, EnvFileName)
	if _, statErr := os.Stat(envPath); statErr == nil {
		if err := godotenv.Load(envPath); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envPath, Err: err}
		}
	}

	cfgPath := filepath.Join(dir, ConfigFileName)
	fc, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	// out_dir：CLI > env > file > dir
	outDir := dir
	if v := pick(cli.OutDir, os.Getenv(EnvOutDir), fc.OutDir); v != "" {
		outDir = absCleanFrom(dir, v)
	}

	// no_matches：CLI > env > file > 默认文件名（相对 outDir）
	noMatch := pick(cli.NoMatches, os.Getenv(EnvNoMatches), fc.NoMatches)
	if noMatch == "" {
		noMatch = DefaultNoMatchFile
	}

	// dry_run：CLI > env > file > false
	dryRun := false
	if fc.DryRun != nil {
		dryRun = *fc.DryRun
	}
	if v := strings.TrimSpace(os.Getenv(EnvDryRun)); v != "" {
		b, perr := strconv.ParseBool(v)
		if perr != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: EnvDryRun, Err: fmt.Errorf("%s=%q 不是布尔值", EnvDryRun, v)}
		}
		dryRun = b
	}
	if cli.DryRunSet {
		dryRun = cli.DryRun
	}

	ec := EffectiveConfig{
		Dir:         dir,
		DisplayPath: resolveOut(dir, outDir, cli.OutDisplay, DefaultDisplayFile),
		KeysPath:    resolveOut(dir, outDir, cli.OutKeys, DefaultKeysFile),
		NoMatchPath: absCleanFrom(outDir, noMatch),
		DryRun:      dryRun,
	}
	if strings.TrimSpace(cli.HTML) != "" {
		ec.HTMLPath = absCleanFrom(dir, cli.HTML)
	}
	ec.InputPath = absCleanFrom(dir, pickDefault(cli.Input, DefaultNamesFile))
	return ec, nil
}

// resolveOut 解析一个输出路径：显式 CLI 值相对 dir，缺省文件名相对 outDir。
func resolveOut(dir, outDir, cliVal, def string) string {
	if strings.TrimSpace(cliVal) != "" {
		return absCleanFrom(dir, cliVal)
	}
	return absCleanFrom(outDir, def)
}

// pick 返回第一个非空白的候选值（已 TrimSpace）。
func pick(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func pickDefault(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
// - p 若已是绝对路径：直接 Clean
// - p 若是相对路径：Join(base, p) 后 Clean
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件；文件不存在不算错误。
func readFileConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, err
	}
	var fc FileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}
