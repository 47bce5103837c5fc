package fsx

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// LineSep 返回 OS 原生行终止符（输出文件一律使用原生终止符）。
func LineSep() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}

// ReadLines 读取 UTF-8 行文件：每行去掉首尾空白，空行丢弃，行顺序即处理顺序。
// 文件不存在时原样返回 os.IsNotExist 可判定的错误（上层映射为 input_missing）。
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines := make([]string, 0, 64)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// JoinNative 把行拼成带 OS 原生行终止符的字节串；
// 非空时末尾带终止符，空列表返回空串。
func JoinNative(lines []string) []byte {
	if len(lines) == 0 {
		return nil
	}
	sep := LineSep()
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString(sep)
	}
	return []byte(b.String())
}

// WriteLinesAtomic 原子写入行文件（同目录临时文件 + rename 覆盖）。
// 派生输出（names/display/keys）允许覆盖重写；no-match 日志绝不走这里。
func WriteLinesAtomic(path string, lines []string) error {
	return writeFileAtomic(filepath.Dir(path), filepath.Base(path), JoinNative(lines))
}

// AppendLine 以追加模式写入一行（加原生终止符）；文件不存在则创建。
// no-match 日志专用：永不截断、永不重写已有内容。
func AppendLine(path, line string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(line + LineSep())
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// NoMatchLog 是 append-only 的未匹配日志（实现 sequencer.NoMatchSink）。
// 流水线只追加、永不回读。
type NoMatchLog struct {
	Path string
}

func (l NoMatchLog) AppendNoMatch(text string) error {
	return AppendLine(l.Path, text)
}

// writeFileAtomic 在 dir 下原子写入 name（临时文件 + rename 覆盖）。
//
// - 临时文件必须与目标文件在同目录，以保证 rename 的原子性
// - 对临时文件做 Sync；目录 Sync 采用 best-effort（避免平台差异导致误报失败）
func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, dst); err != nil {
		return err
	}

	_ = syncDirBestEffort(dir)
	return nil
}

func syncDirBestEffort(dir string) error {
	// Windows 上目录 Sync 的语义与支持情况不稳定，直接跳过。
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
