package xglyph

import (
	"math"
)

// Mapper 亮度 -> 字符，结果按亮度缓存，每个亮度值最多计算一次
// 只在转换阶段使用，不做并发保护
type Mapper struct {
	ramp        Ramp
	cache       [256]rune
	cached      [256]bool
	evaluations int
}

// NewMapper ramp 至少两个字符，否则 panic
func NewMapper(ramp Ramp) *Mapper {
	if len(ramp) < 2 {
		panic("xglyph: ramp must contain at least 2 characters")
	}
	return &Mapper{ramp: ramp}
}

// Map 索引 = round(l / 255 * (n-1))，四舍五入远离零
func (m *Mapper) Map(l uint8) rune {
	if m.cached[l] {
		return m.cache[l]
	}
	idx := int(math.Round(float64(l) / 255 * float64(len(m.ramp)-1)))
	r := m.ramp[idx]
	m.cache[l] = r
	m.cached[l] = true
	m.evaluations++
	return r
}

// Evaluations 实际计算（未命中缓存）的次数
func (m *Mapper) Evaluations() int {
	return m.evaluations
}

func (m *Mapper) Ramp() Ramp {
	return m.ramp
}
