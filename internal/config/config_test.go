package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入测试文件失败: %v", err)
	}
}

func TestLoadEffective_Defaults(t *testing.T) {
	dir := t.TempDir()

	ec, err := LoadEffective(dir, CLIArgs{})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if ec.Dir != dir {
		t.Fatalf("Dir 不符: got=%q want=%q", ec.Dir, dir)
	}
	if want := filepath.Join(dir, DefaultNamesFile); ec.InputPath != want {
		t.Fatalf("InputPath 不符: got=%q want=%q", ec.InputPath, want)
	}
	if want := filepath.Join(dir, DefaultDisplayFile); ec.DisplayPath != want {
		t.Fatalf("DisplayPath 不符: got=%q want=%q", ec.DisplayPath, want)
	}
	if want := filepath.Join(dir, DefaultKeysFile); ec.KeysPath != want {
		t.Fatalf("KeysPath 不符: got=%q want=%q", ec.KeysPath, want)
	}
	if want := filepath.Join(dir, DefaultNoMatchFile); ec.NoMatchPath != want {
		t.Fatalf("NoMatchPath 不符: got=%q want=%q", ec.NoMatchPath, want)
	}
	if ec.DryRun {
		t.Fatalf("DryRun 默认应为 false")
	}
}

func TestLoadEffective_FileConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName),
		`{"out_dir":"out","no_matches":"misses.log","dry_run":true}`)

	ec, err := LoadEffective(dir, CLIArgs{})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if want := filepath.Join(dir, "out", DefaultDisplayFile); ec.DisplayPath != want {
		t.Fatalf("out_dir 未生效: got=%q want=%q", ec.DisplayPath, want)
	}
	if want := filepath.Join(dir, "out", "misses.log"); ec.NoMatchPath != want {
		t.Fatalf("no_matches 未生效: got=%q want=%q", ec.NoMatchPath, want)
	}
	if !ec.DryRun {
		t.Fatalf("dry_run=true 未生效")
	}
}

func TestLoadEffective_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{"dry_run":true,"no_matches":"a.txt"}`)
	t.Setenv(EnvDryRun, "false")
	t.Setenv(EnvNoMatches, "b.txt")

	ec, err := LoadEffective(dir, CLIArgs{})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if ec.DryRun {
		t.Fatalf("环境变量应覆盖配置文件的 dry_run")
	}
	if want := filepath.Join(dir, "b.txt"); ec.NoMatchPath != want {
		t.Fatalf("环境变量应覆盖配置文件的 no_matches: got=%q want=%q", ec.NoMatchPath, want)
	}
}

func TestLoadEffective_CLIOverridesAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{"dry_run":false}`)
	t.Setenv(EnvDryRun, "false")

	ec, err := LoadEffective(dir, CLIArgs{
		DryRun: true, DryRunSet: true,
		OutDisplay: "d.txt",
		Input:      "raw.txt",
	})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if !ec.DryRun {
		t.Fatalf("CLI --dry-run 应覆盖环境变量与配置文件")
	}
	if want := filepath.Join(dir, "d.txt"); ec.DisplayPath != want {
		t.Fatalf("CLI --out-display 未生效: got=%q want=%q", ec.DisplayPath, want)
	}
	if want := filepath.Join(dir, "raw.txt"); ec.InputPath != want {
		t.Fatalf("CLI --input 未生效: got=%q want=%q", ec.InputPath, want)
	}
}

func TestLoadEffective_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, EnvFileName), EnvDryRun+"=1\n")
	// godotenv 会写进程环境，测试结束后清掉。
	t.Cleanup(func() { os.Unsetenv(EnvDryRun) })

	ec, err := LoadEffective(dir, CLIArgs{})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if !ec.DryRun {
		t.Fatalf(".env 中的 %s=1 未生效", EnvDryRun)
	}
}

func TestLoadEffective_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFileName), `{not json`)

	_, err := LoadEffective(dir, CLIArgs{})
	if err == nil {
		t.Fatalf("期望解析错误，实际成功")
	}
	var ce *Error
	if !errors.As(err, &ce) || ce.Code != ErrCodeInvalid {
		t.Fatalf("期望 %s，实际: %v", ErrCodeInvalid, err)
	}
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("Code(err) 不符: %q", Code(err))
	}
}

func TestLoadEffective_InvalidDryRunEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDryRun, "maybe")

	_, err := LoadEffective(dir, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %s，实际: %v", ErrCodeInvalid, err)
	}
}

func TestAbsCleanFrom(t *testing.T) {
	if got := absCleanFrom("/base", "sub/../x"); got != filepath.Join("/base", "x") {
		t.Fatalf("相对路径处理不符: %q", got)
	}
	if got := absCleanFrom("/base", "/abs/y/"); got != filepath.Clean("/abs/y") {
		t.Fatalf("绝对路径处理不符: %q", got)
	}
}
