package xsurface

import (
	"errors"
	"testing"

	"golang.org/x/term"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTerminal(t *testing.T) {
	PatchConvey("TestTerminal-NotTerminal", t, func() {
		Mock(term.IsTerminal).Return(false).Build()
		So(Terminal(), ShouldResemble, Size{Cols: 80, Rows: 24})
	})

	PatchConvey("TestTerminal-Size", t, func() {
		Mock(term.IsTerminal).Return(true).Build()
		old := sizeFunc
		defer func() { sizeFunc = old }()
		sizeFunc = func(int) (int, int, error) { return 132, 43, nil }
		So(Terminal(), ShouldResemble, Size{Cols: 132, Rows: 43})

		sizeFunc = func(int) (int, int, error) { return 0, 0, errors.New("ioctl") }
		So(Terminal(), ShouldResemble, Size{Cols: 80, Rows: 24})
	})
}

func TestResolve(t *testing.T) {
	PatchConvey("TestResolve", t, func() {
		So(Resolve(10, 5, Size{}), ShouldResemble, Size{Cols: 10, Rows: 5})
		So(Resolve(0, 0, Size{Cols: 120, Rows: 40}), ShouldResemble, Size{Cols: 120, Rows: 40})
		So(Resolve(100, 0, Size{Cols: 120, Rows: 40}), ShouldResemble, Size{Cols: 100, Rows: 40})

		Mock(Terminal).Return(Size{Cols: 80, Rows: 24}).Build()
		So(Resolve(0, 30, Size{}), ShouldResemble, Size{Cols: 80, Rows: 30})
	})

	PatchConvey("TestSize", t, func() {
		So(Size{Cols: 3, Rows: 2}.String(), ShouldEqual, "3x2")
		So(Size{Cols: 3}.Valid(), ShouldBeFalse)
	})
}
