package termkeys

import (
	"reflect"
	"testing"

	"github.com/John-Robertt/DishPipe/internal/adapter"
)

// decodeAll 把一串原始字节跑完解码循环，收集所有触发。
func decodeAll(bytes []byte) []adapter.Trigger {
	i := 0
	next := func() (byte, bool) {
		if i >= len(bytes) {
			return 0, false
		}
		b := bytes[i]
		i++
		return b, true
	}
	var got []adapter.Trigger
	emit := func(t adapter.Trigger) bool {
		got = append(got, t)
		return true
	}
	decodeLoop(next, emit)
	return got
}

func TestDecode_ArrowKeys(t *testing.T) {
	got := decodeAll([]byte{0x1b, '[', 'B', 0x1b, '[', 'A'})
	want := []adapter.Trigger{adapter.TriggerNext, adapter.TriggerLogUnmatched}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("方向键解码不符: got=%v want=%v", got, want)
	}
}

func TestDecode_F8AndCtrlC(t *testing.T) {
	got := decodeAll([]byte{0x1b, '[', '1', '9', '~', 0x03})
	want := []adapter.Trigger{adapter.TriggerQuit, adapter.TriggerQuit}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("F8/Ctrl-C 解码不符: got=%v want=%v", got, want)
	}
}

func TestDecode_ViAliases(t *testing.T) {
	got := decodeAll([]byte{'j', 'k', 'q'})
	want := []adapter.Trigger{adapter.TriggerNext, adapter.TriggerLogUnmatched, adapter.TriggerQuit}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("别名键解码不符: got=%v want=%v", got, want)
	}
}

func TestDecode_IgnoresUnknownSequences(t *testing.T) {
	// F5（ESC [ 1 5 ~）以及无关字符都应被静默忽略。
	got := decodeAll([]byte{0x1b, '[', '1', '5', '~', 'x', ' ', 0x1b, 'z'})
	if len(got) != 0 {
		t.Fatalf("未知序列不应产生触发: got=%v", got)
	}
}

func TestDecode_EmitStop(t *testing.T) {
	i := 0
	bytes := []byte{'j', 'j', 'j'}
	next := func() (byte, bool) {
		if i >= len(bytes) {
			return 0, false
		}
		b := bytes[i]
		i++
		return b, true
	}
	n := 0
	emit := func(adapter.Trigger) bool {
		n++
		return false // 第一次投递后要求停止
	}
	decodeLoop(next, emit)
	if n != 1 {
		t.Fatalf("emit 返回 false 后应停止: 投递了 %d 次", n)
	}
}
