package main

import (
	"strings"
	"testing"
)

func TestParseArgs_RunRequiresHTML(t *testing.T) {
	if _, err := parseArgs("run", nil); err == nil {
		t.Fatalf("run 缺少 --html 应报错")
	}
	ca, err := parseArgs("run", []string{"--html", "page.html"})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if ca.HTML != "page.html" {
		t.Fatalf("HTML 不符: %q", ca.HTML)
	}
}

func TestParseArgs_RunInputAlternative(t *testing.T) {
	// run 可以用既有 names 文件代替 HTML 解析。
	ca, err := parseArgs("run", []string{"--input", "names.txt"})
	if err != nil {
		t.Fatalf("run --input 应被接受为 --html 的替代，实际错误: %v", err)
	}
	if ca.Input != "names.txt" || ca.HTML != "" {
		t.Fatalf("解析不符: %+v", ca)
	}

	// 两者都没给才是用法错误。
	if _, err := parseArgs("run", []string{"--dry-run"}); err == nil {
		t.Fatalf("run 缺少 --html 与 --input 应报错")
	}

	// parse/all 仍然必须有 --html。
	if _, err := parseArgs("all", []string{"--input", "names.txt"}); err == nil {
		t.Fatalf("all 不应接受 --input 代替 --html")
	}
}

func TestParseArgs_EqualsForm(t *testing.T) {
	ca, err := parseArgs("fix", []string{"--input=raw.txt", "--out-display=d.txt", "--dry-run=true"})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if ca.Input != "raw.txt" || ca.OutDisplay != "d.txt" {
		t.Fatalf("解析不符: %+v", ca)
	}
	if !ca.DryRun || !ca.DryRunSet {
		t.Fatalf("--dry-run=true 未生效: %+v", ca)
	}
}

func TestParseArgs_DryRunFalseOverride(t *testing.T) {
	ca, err := parseArgs("paste", []string{"--dry-run=false"})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if ca.DryRun || !ca.DryRunSet {
		t.Fatalf("--dry-run=false 应保留显式指定标记: %+v", ca)
	}
}

func TestParseArgs_ParseOutIsNamesFile(t *testing.T) {
	ca, err := parseArgs("parse", []string{"--html", "p.html", "--out", "my_names.txt"})
	if err != nil {
		t.Fatalf("期望成功，实际错误: %v", err)
	}
	if ca.Input != "my_names.txt" {
		t.Fatalf("parse 的 --out 应落到 names 文件: %+v", ca)
	}
	// --out 只属于 parse。
	if _, err := parseArgs("fix", []string{"--out", "x.txt"}); err == nil {
		t.Fatalf("fix 不应接受 --out")
	}
}

func TestParseArgs_Rejections(t *testing.T) {
	cases := [][]string{
		{"--html", "a", "--html", "b"}, // 重复
		{"--input"},                    // 缺值
		{"--input="},                   // 空值
		{"--bogus", "x"},               // 未知
		{"--dry-run=maybe"},            // 非布尔
	}
	for _, args := range cases {
		if _, err := parseArgs("paste", args); err == nil {
			t.Fatalf("参数 %v 应报错", args)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  hello  ", 10); got != "hello" {
		t.Fatalf("truncate 不符: %q", got)
	}
	if got := truncate(strings.Repeat("x", 20), 10); got != "xxxxxxx..." {
		t.Fatalf("truncate 不符: %q", got)
	}
}
