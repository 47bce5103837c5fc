package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/John-Robertt/DishPipe/internal/domain"
)

func TestSessionUI_InteractiveOutput(t *testing.T) {
	var buf bytes.Buffer
	ui := newSessionUI(&buf)

	ui.OnStart(3, false, "/tmp/no_matches.txt")
	ui.OnEntry(0, 3, domain.SequenceEntry{Index: 0, Display: "grilled Salmon", Clipboard: "grilledSalmon"})
	ui.OnUnmatched(domain.SequenceEntry{Index: 0, Clipboard: "grilledSalmon"})
	ui.OnEndOfSequence()
	ui.OnWarn(domain.ErrCodeTypeFailed, "no display")
	ui.OnDone(1, 1)

	out := buf.String()
	for _, want := range []string{
		"会话开始：共 3 条",
		"/tmp/no_matches.txt",
		"[1/3] 键入 \"grilled Salmon\"",
		"记未匹配：\"grilledSalmon\"",
		"已到末尾",
		"警告 " + domain.ErrCodeTypeFailed,
		"pasted=1 logged=1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("输出缺少 %q:\n%s", want, out)
		}
	}
}

func TestSessionUI_PreviewMarksDry(t *testing.T) {
	var buf bytes.Buffer
	ui := newSessionUI(&buf)

	ui.OnStart(2, true, "")
	ui.OnEntry(0, 2, domain.SequenceEntry{Index: 0, Display: "Miso Soup", Clipboard: "miso_soup"})

	out := buf.String()
	if !strings.Contains(out, "预览模式") {
		t.Fatalf("预览模式提示缺失:\n%s", out)
	}
	if !strings.Contains(out, "[dry 1/2]") {
		t.Fatalf("dry 前缀缺失:\n%s", out)
	}
}

func TestSessionUI_RawModeUsesCRLF(t *testing.T) {
	var buf bytes.Buffer
	ui := newSessionUI(&buf)
	ui.setRaw(true)
	ui.OnEndOfSequence()

	if !strings.HasSuffix(buf.String(), "\r\n") {
		t.Fatalf("raw 模式应以 CRLF 结尾: %q", buf.String())
	}
}
