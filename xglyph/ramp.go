// Package xglyph 亮度到字符的映射
package xglyph

import (
	"fmt"
	"slices"
)

// Ramp 由暗到亮排列的字符序列，至少两个字符
type Ramp []rune

const (
	coarseRamp = " .:-=+*#%@"
	// detailRamp 由亮到暗书写，使用时反转
	detailRamp = "$@B%8&WM#*oahkbdpqwmZO0QLCJUYXzcvunxrjft/\\|()1{}[]?-_+~<>i!lI;:,\"^`'. "
)

// Density 内置字符集
type Density string

const (
	Coarse Density = "coarse"
	Fine   Density = "fine"
)

// ParseDensity 空字符串视为 coarse
func ParseDensity(s string) (Density, error) {
	switch Density(s) {
	case "", Coarse:
		return Coarse, nil
	case Fine:
		return Fine, nil
	default:
		return "", fmt.Errorf("unknown density [%s], expect coarse or fine", s)
	}
}

// Ramp 返回内置字符集的新副本
func (d Density) Ramp() Ramp {
	if d == Fine {
		r := Ramp(detailRamp)
		slices.Reverse(r)
		return r
	}
	return Ramp(coarseRamp)
}

// NewRamp 校验自定义字符集
func NewRamp(s string) (Ramp, error) {
	r := Ramp(s)
	if len(r) < 2 {
		return nil, fmt.Errorf("ramp [%s] must contain at least 2 characters", s)
	}
	return r, nil
}

// Inverted 亮暗反转后的副本，适合浅色背景
func (r Ramp) Inverted() Ramp {
	out := slices.Clone(r)
	slices.Reverse(out)
	return out
}

func (r Ramp) String() string {
	return string(r)
}
