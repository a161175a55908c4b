package input

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned when the operator presses Ctrl+C at a prompt.
var ErrInterrupted = errors.New("interrupted")

// ReadLine 读取一行输入（支持中文）
func ReadLine(prompt string) (string, error) {
	rl, err := NewReadline(prompt)
	if err != nil {
		return "", err
	}
	defer rl.Close()

	line, err := rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", ErrInterrupted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// NewReadline 创建 readline 实例
// History is kept in memory only; paths typed here are not persisted.
func NewReadline(prompt string) (*readline.Instance, error) {
	cfg := &readline.Config{
		Prompt:          prompt,
		HistoryLimit:    -1,
		InterruptPrompt: "^C",
		EOFPrompt:       "",
		UniqueEditLine:  false,
		AutoComplete:    nil,
	}

	rl, err := readline.NewEx(cfg)
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	return rl, nil
}
