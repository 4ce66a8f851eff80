package xglyph

import (
	"testing"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDensity(t *testing.T) {
	PatchConvey("TestDensity", t, func() {
		d, err := ParseDensity("")
		So(err, ShouldBeNil)
		So(d, ShouldEqual, Coarse)
		So(d.Ramp().String(), ShouldEqual, " .:-=+*#%@")

		d, err = ParseDensity("fine")
		So(err, ShouldBeNil)
		fine := d.Ramp()
		So(len(fine), ShouldEqual, 70)
		So(fine[0], ShouldEqual, ' ')
		So(fine[len(fine)-1], ShouldEqual, '$')

		_, err = ParseDensity("ultra")
		So(err, ShouldNotBeNil)
	})
}

func TestNewRamp(t *testing.T) {
	PatchConvey("TestNewRamp", t, func() {
		_, err := NewRamp("x")
		So(err, ShouldNotBeNil)

		r, err := NewRamp(" ░▒▓█")
		So(err, ShouldBeNil)
		So(len(r), ShouldEqual, 5)
		So(r.Inverted().String(), ShouldEqual, "█▓▒░ ")
		So(r.String(), ShouldEqual, " ░▒▓█")
	})
}

func TestMapper(t *testing.T) {
	PatchConvey("TestMapper-Coarse", t, func() {
		m := NewMapper(Coarse.Ramp())
		So(m.Map(0), ShouldEqual, ' ')
		So(m.Map(255), ShouldEqual, '@')
		// 128/255*9 = 4.517，四舍五入到 5
		So(m.Map(128), ShouldEqual, '+')
		So(m.Map(127), ShouldEqual, '=')
	})

	PatchConvey("TestMapper-Monotonic", t, func() {
		for _, ramp := range []Ramp{Coarse.Ramp(), Fine.Ramp()} {
			m := NewMapper(ramp)
			pos := make(map[rune]int, len(ramp))
			for i, r := range ramp {
				pos[r] = i
			}
			prev := 0
			ok := true
			for l := 0; l < 256; l++ {
				p := pos[m.Map(uint8(l))]
				if p < prev {
					ok = false
				}
				prev = p
			}
			So(ok, ShouldBeTrue)
		}
	})

	PatchConvey("TestMapper-Memo", t, func() {
		m := NewMapper(Coarse.Ramp())
		for i := 0; i < 1000; i++ {
			m.Map(200)
		}
		So(m.Evaluations(), ShouldEqual, 1)

		for l := 0; l < 256; l++ {
			m.Map(uint8(l))
		}
		So(m.Evaluations(), ShouldEqual, 256)
	})

	PatchConvey("TestMapper-Invalid", t, func() {
		So(func() { NewMapper(Ramp("x")) }, ShouldPanic)
	})
}
