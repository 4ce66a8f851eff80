package xframe

import (
	"strings"
)

// Color 24 位前景色
type Color struct {
	R, G, B uint8
}

// GlyphCell 一个字符单元；HasColor 为 false 时使用终端默认前景色
type GlyphCell struct {
	Rune     rune
	Color    Color
	HasColor bool
}

var blankCell = GlyphCell{Rune: ' '}

// GlyphFrame 封存后的字符帧，只读，可在阶段间传递
type GlyphFrame struct {
	cols  int
	rows  int
	cells []GlyphCell
	seq   uint64
	blank bool
}

func (g *GlyphFrame) Cols() int {
	return g.cols
}

func (g *GlyphFrame) Rows() int {
	return g.rows
}

func (g *GlyphFrame) Seq() uint64 {
	return g.seq
}

// IsBlank 畸形帧的替代帧
func (g *GlyphFrame) IsBlank() bool {
	return g.blank
}

// At 越界返回空白单元
func (g *GlyphFrame) At(col, row int) GlyphCell {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return blankCell
	}
	return g.cells[row*g.cols+col]
}

// Row 返回第 row 行的拷贝
func (g *GlyphFrame) Row(row int) []GlyphCell {
	if row < 0 || row >= g.rows {
		return nil
	}
	out := make([]GlyphCell, g.cols)
	copy(out, g.cells[row*g.cols:(row+1)*g.cols])
	return out
}

// Lines 每行拼成字符串，忽略颜色
func (g *GlyphFrame) Lines() []string {
	lines := make([]string, g.rows)
	var sb strings.Builder
	for r := 0; r < g.rows; r++ {
		sb.Reset()
		for _, c := range g.cells[r*g.cols : (r+1)*g.cols] {
			sb.WriteRune(c.Rune)
		}
		lines[r] = sb.String()
	}
	return lines
}

func (g *GlyphFrame) String() string {
	return strings.Join(g.Lines(), "\n")
}

// Blank 全空格、无颜色的帧
func Blank(cols, rows int, seq uint64) *GlyphFrame {
	b := NewBuilder(cols, rows, seq)
	f := b.Seal()
	f.blank = true
	return f
}
