package xframe

import (
	"errors"
	"math"
	"testing"

	"github.com/xiaoshicae/xascii/xerror"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRawFrameValidate(t *testing.T) {
	PatchConvey("TestRawFrameValidate", t, func() {
		So((&RawFrame{Data: make([]byte, 6), Width: 3, Height: 2, Format: Gray}).Validate(), ShouldBeNil)
		So((&RawFrame{Data: make([]byte, 18), Width: 3, Height: 2, Format: RGB}).Validate(), ShouldBeNil)

		err := (&RawFrame{Data: make([]byte, 5), Width: 3, Height: 2, Format: Gray, Seq: 4}).Validate()
		So(errors.Is(err, xerror.ErrMalformedFrame), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "want 6 bytes, got 5")

		var nilFrame *RawFrame
		So(errors.Is(nilFrame.Validate(), xerror.ErrMalformedFrame), ShouldBeTrue)
		So(errors.Is((&RawFrame{Width: 0, Height: 2}).Validate(), xerror.ErrMalformedFrame), ShouldBeTrue)

		// 1<<62 * 4 * 1 回绕为 0，与空 Data 长度相等
		huge := &RawFrame{Width: 1 << 62, Height: 4, Format: Gray}
		err = huge.Validate()
		So(errors.Is(err, xerror.ErrMalformedFrame), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "overflows")

		huge = &RawFrame{Width: math.MaxInt / 2, Height: 1, Format: RGB}
		So(errors.Is(huge.Validate(), xerror.ErrMalformedFrame), ShouldBeTrue)
	})
}

func TestRawFramePixel(t *testing.T) {
	PatchConvey("TestRawFramePixel", t, func() {
		g := &RawFrame{Data: []byte{10, 20, 30, 40}, Width: 2, Height: 2, Format: Gray}
		r, gg, b := g.Pixel(1, 1)
		So([]uint8{r, gg, b}, ShouldResemble, []uint8{40, 40, 40})

		c := &RawFrame{Data: []byte{1, 2, 3, 4, 5, 6}, Width: 2, Height: 1, Format: RGB}
		r, gg, b = c.Pixel(1, 0)
		So([]uint8{r, gg, b}, ShouldResemble, []uint8{4, 5, 6})
	})
}

func TestColorMode(t *testing.T) {
	PatchConvey("TestColorMode", t, func() {
		m, err := ParseColorMode("")
		So(err, ShouldBeNil)
		So(m, ShouldEqual, ModeGray)
		So(m.PixelFormat(), ShouldEqual, Gray)

		m, err = ParseColorMode("color")
		So(err, ShouldBeNil)
		So(m.PixelFormat(), ShouldEqual, RGB)
		So(m.PixelFormat().String(), ShouldEqual, "rgb24")

		_, err = ParseColorMode("sepia")
		So(err, ShouldNotBeNil)
	})
}

func TestBuilder(t *testing.T) {
	PatchConvey("TestBuilder", t, func() {
		b := NewBuilder(2, 2, 9)
		b.Set(0, 0, GlyphCell{Rune: '#'})
		b.Set(1, 1, GlyphCell{Rune: '@', Color: Color{R: 255}, HasColor: true})
		f := b.Seal()

		So(f.Cols(), ShouldEqual, 2)
		So(f.Rows(), ShouldEqual, 2)
		So(f.Seq(), ShouldEqual, 9)
		So(f.Lines(), ShouldResemble, []string{"# ", " @"})
		So(f.String(), ShouldEqual, "# \n @")
		So(f.At(1, 1), ShouldResemble, GlyphCell{Rune: '@', Color: Color{R: 255}, HasColor: true})
		So(f.At(5, 5), ShouldResemble, GlyphCell{Rune: ' '})
		So(f.Row(3), ShouldBeNil)

		row := f.Row(0)
		row[0].Rune = 'x'
		So(f.At(0, 0).Rune, ShouldEqual, '#')

		So(func() { b.Set(0, 0, GlyphCell{Rune: 'x'}) }, ShouldPanic)
		So(func() { b.Seal() }, ShouldPanic)
	})
}

func TestBlank(t *testing.T) {
	PatchConvey("TestBlank", t, func() {
		f := Blank(3, 1, 2)
		So(f.IsBlank(), ShouldBeTrue)
		So(f.Lines(), ShouldResemble, []string{"   "})
		So(f.At(0, 0).HasColor, ShouldBeFalse)

		empty := Blank(-1, 2, 0)
		So(empty.Cols(), ShouldEqual, 0)
		So(empty.Lines(), ShouldResemble, []string{"", ""})
	})
}
