// Package xsurface 查询输出网格尺寸，每次运行只查询一次
package xsurface

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

const (
	FallbackCols = 80
	FallbackRows = 24
)

// Size 输出网格，单位为字符
type Size struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Cols, s.Rows)
}

func (s Size) Valid() bool {
	return s.Cols > 0 && s.Rows > 0
}

// sizeFunc 便于测试替换
var sizeFunc = term.GetSize

// Terminal 当前终端尺寸，stdout 不是终端时返回 80x24
func Terminal() Size {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return Size{Cols: FallbackCols, Rows: FallbackRows}
	}
	cols, rows, err := sizeFunc(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return Size{Cols: FallbackCols, Rows: FallbackRows}
	}
	return Size{Cols: cols, Rows: rows}
}

// Resolve 显式配置优先，未配置的维度用 def 补齐；def 为零值时查询终端
func Resolve(cols, rows int, def Size) Size {
	if cols > 0 && rows > 0 {
		return Size{Cols: cols, Rows: rows}
	}
	if !def.Valid() {
		def = Terminal()
	}
	if cols > 0 {
		def.Cols = cols
	}
	if rows > 0 {
		def.Rows = rows
	}
	return def
}
