package xframe

// Builder 构建中的字符帧，只属于转换阶段
// Seal 之后不能再写，保证下游看到的帧不会被修改
type Builder struct {
	cols   int
	rows   int
	cells  []GlyphCell
	seq    uint64
	sealed bool
}

// NewBuilder 尺寸小于 0 按 0 处理，初始全部为空格
func NewBuilder(cols, rows int, seq uint64) *Builder {
	cols = max(cols, 0)
	rows = max(rows, 0)
	cells := make([]GlyphCell, cols*rows)
	for i := range cells {
		cells[i] = blankCell
	}
	return &Builder{cols: cols, rows: rows, cells: cells, seq: seq}
}

func (b *Builder) Cols() int {
	return b.cols
}

func (b *Builder) Rows() int {
	return b.rows
}

// Set 封存后调用会 panic
func (b *Builder) Set(col, row int, cell GlyphCell) {
	if b.sealed {
		panic("xframe: Set on sealed frame")
	}
	b.cells[row*b.cols+col] = cell
}

// Seal 把单元的所有权转给 GlyphFrame，只能调用一次
func (b *Builder) Seal() *GlyphFrame {
	if b.sealed {
		panic("xframe: frame already sealed")
	}
	b.sealed = true
	f := &GlyphFrame{cols: b.cols, rows: b.rows, cells: b.cells, seq: b.seq}
	b.cells = nil
	return f
}
