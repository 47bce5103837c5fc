// Package termkeys 把终端按键解码为会话触发指令：
// 方向键 Down -> 下一条，Up -> 记未匹配，F8（或 q / Ctrl-C）-> 退出。
// 终端在会话期间处于 raw 模式，Close 时恢复。
package termkeys

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/John-Robertt/DishPipe/internal/adapter"
)

// Source 从标准输入读取按键并解码为 Trigger。
type Source struct {
	fd       int
	oldState *term.State
	triggers chan adapter.Trigger
	errc     chan error
	done     chan struct{}
}

// New 把标准输入切换到 raw 模式并启动读键协程。
// 标准输入不是终端时返回 *adapter.UnavailableError。
func New() (*Source, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, &adapter.UnavailableError{
			Capability: "terminal",
			Err:        fmt.Errorf("标准输入不是终端"),
		}
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, &adapter.UnavailableError{Capability: "terminal", Err: err}
	}
	s := &Source{
		fd:       fd,
		oldState: oldState,
		triggers: make(chan adapter.Trigger),
		errc:     make(chan error, 1),
		done:     make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Next 阻塞直到下一次触发或 ctx 取消。
func (s *Source) Next(ctx context.Context) (adapter.Trigger, error) {
	select {
	case <-ctx.Done():
		return adapter.TriggerQuit, ctx.Err()
	case err := <-s.errc:
		return adapter.TriggerQuit, err
	case t := <-s.triggers:
		return t, nil
	}
}

// Close 恢复终端状态。读键协程阻塞在 os.Stdin 上，随进程退出回收。
func (s *Source) Close() error {
	close(s.done)
	return term.Restore(s.fd, s.oldState)
}

// readLoop 逐字节读取标准输入并解码按键序列。
func (s *Source) readLoop() {
	buf := make([]byte, 1)
	next := func() (byte, bool) {
		if _, err := os.Stdin.Read(buf); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.EOF
			}
			s.errc <- err
			return 0, false
		}
		return buf[0], true
	}
	emit := func(t adapter.Trigger) bool {
		select {
		case s.triggers <- t:
			return true
		case <-s.done:
			return false
		}
	}
	decodeLoop(next, emit)
}

// decodeLoop 驱动按键解码直到输入耗尽或 emit 要求停止。
// next 返回下一个输入字节；emit 投递一次触发，返回 false 表示该停了。
func decodeLoop(next func() (byte, bool), emit func(adapter.Trigger) bool) {
	for {
		b, ok := next()
		if !ok {
			return
		}
		switch b {
		case 0x03, 'q', 'Q': // Ctrl-C / q
			if !emit(adapter.TriggerQuit) {
				return
			}
		case 'j': // vi 风格别名
			if !emit(adapter.TriggerNext) {
				return
			}
		case 'k':
			if !emit(adapter.TriggerLogUnmatched) {
				return
			}
		case 0x1b: // ESC 序列
			t, matched, alive := decodeEscape(next)
			if !alive {
				return
			}
			if matched && !emit(t) {
				return
			}
		}
	}
}

// decodeEscape 解码 ESC 之后的序列。返回 (触发, 是否识别, 输入是否仍可读)。
// 识别的序列：ESC [ B（Down）、ESC [ A（Up）、ESC [ 1 9 ~（F8）。
func decodeEscape(next func() (byte, bool)) (adapter.Trigger, bool, bool) {
	b, ok := next()
	if !ok {
		return 0, false, false
	}
	if b != '[' && b != 'O' {
		return 0, false, true
	}
	b, ok = next()
	if !ok {
		return 0, false, false
	}
	switch b {
	case 'B':
		return adapter.TriggerNext, true, true
	case 'A':
		return adapter.TriggerLogUnmatched, true, true
	case '1':
		// 可能是 F5..F8 的 ESC [ 1 N ~ 形式，只认 F8（N='9'）。
		n, ok := next()
		if !ok {
			return 0, false, false
		}
		tilde, ok := next()
		if !ok {
			return 0, false, false
		}
		if n == '9' && tilde == '~' {
			return adapter.TriggerQuit, true, true
		}
	}
	return 0, false, true
}
