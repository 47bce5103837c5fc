// Package autotype 基于桌面自动化工具实现文本键入与剪贴板写入：
// Linux 上依次探测 xdotool（X11）与 wtype（Wayland），剪贴板走系统剪贴板。
package autotype

import (
	"fmt"
	"os/exec"

	"github.com/atotto/clipboard"

	"github.com/John-Robertt/DishPipe/internal/adapter"
)

// Typer 同时实现 adapter.Adapter 的两个方法。
type Typer struct {
	tool string // "xdotool" 或 "wtype"
}

// New 探测宿主能力并返回可用的 Typer。
// 任一能力缺失（无键入工具，或剪贴板不可用）时返回 *adapter.UnavailableError。
func New() (*Typer, error) {
	if clipboard.Unsupported {
		return nil, &adapter.UnavailableError{Capability: "clipboard"}
	}
	for _, tool := range []string{"xdotool", "wtype"} {
		if _, err := exec.LookPath(tool); err == nil {
			return &Typer{tool: tool}, nil
		}
	}
	return nil, &adapter.UnavailableError{
		Capability: "type",
		Err:        fmt.Errorf("需要 xdotool 或 wtype"),
	}
}

// TypeText 先全选当前输入框再键入 s，覆盖已有内容。
func (t *Typer) TypeText(s string) error {
	var cmds [][]string
	switch t.tool {
	case "xdotool":
		cmds = [][]string{
			{"xdotool", "key", "--clearmodifiers", "ctrl+a"},
			{"xdotool", "type", "--clearmodifiers", "--", s},
		}
	case "wtype":
		cmds = [][]string{
			{"wtype", "-M", "ctrl", "a", "-m", "ctrl"},
			{"wtype", "--", s},
		}
	default:
		return fmt.Errorf("未知键入工具 %q", t.tool)
	}
	for _, c := range cmds {
		if out, err := exec.Command(c[0], c[1:]...).CombinedOutput(); err != nil {
			return fmt.Errorf("%s 执行失败：%w（输出：%s）", c[0], err, out)
		}
	}
	return nil
}

// SetClipboard 用 s 替换系统剪贴板内容。
func (t *Typer) SetClipboard(s string) error {
	if err := clipboard.WriteAll(s); err != nil {
		return fmt.Errorf("写入剪贴板失败：%w", err)
	}
	return nil
}
