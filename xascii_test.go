package xascii

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/xiaoshicae/xascii/xconfig"
	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xhook"
	"github.com/xiaoshicae/xascii/xpipeline"
	"github.com/xiaoshicae/xascii/xshutdown"
	"github.com/xiaoshicae/xascii/xsink"
	"github.com/xiaoshicae/xascii/xstatus"
	"github.com/xiaoshicae/xascii/xsurface"

	. "github.com/bytedance/mockey"
	. "github.com/smartystreets/goconvey/convey"
)

func writeGIF(t *testing.T, frames int) string {
	path := filepath.Join(t.TempDir(), "in.gif")
	pal := color.Palette{color.Black, color.White}
	g := &gif.GIF{}
	for i := 0; i < frames; i++ {
		img := image.NewPaletted(image.Rect(0, 0, 16, 8), pal)
		for x := 0; x < 16; x++ {
			for y := 0; y < 8; y++ {
				if (x+i)%2 == 0 {
					img.SetColorIndex(x, y, 1)
				}
			}
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := gif.EncodeAll(f, g); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfig(t *testing.T) {
	PatchConvey("TestConfig-configMergeDefault", t, func() {
		c := configMergeDefault(nil)
		So(c.Mode, ShouldEqual, "gray")
		So(c.Density, ShouldEqual, "coarse")
		So(c.FPS, ShouldEqual, 30)
		So(c.Output, ShouldBeEmpty)
	})

	PatchConvey("TestConfig-getConfig", t, func() {
		Mock(xconfig.UnmarshalConfig).To(func(_ string, conf any) error {
			c := conf.(*Config)
			c.Input = "a.mp4"
			c.Mode = "color"
			return nil
		}).Build()
		c, err := getConfig()
		So(err, ShouldBeNil)
		So(c.Input, ShouldEqual, "a.mp4")
		So(c.Mode, ShouldEqual, "color")
		So(c.FPS, ShouldEqual, 30)
	})

	PatchConvey("TestConfig-getConfig-Err", t, func() {
		Mock(xconfig.UnmarshalConfig).Return(errors.New("bad yaml")).Build()
		_, err := getConfig()
		So(err, ShouldNotBeNil)
	})
}

func TestBuildJob(t *testing.T) {
	coord := xshutdown.NewCoordinator()

	PatchConvey("TestBuildJob-InvalidConfig", t, func() {
		input := writeGIF(t, 1)

		_, err := buildJob(configMergeDefault(&Config{}), coord)
		So(errors.Is(err, xerror.ErrInvalidConfig), ShouldBeTrue)

		_, err = buildJob(configMergeDefault(&Config{Input: "/no/such/video.mp4"}), coord)
		So(errors.Is(err, xerror.ErrSourceOpen), ShouldBeTrue)

		_, err = buildJob(configMergeDefault(&Config{Input: input, Mode: "sepia"}), coord)
		So(errors.Is(err, xerror.ErrInvalidConfig), ShouldBeTrue)

		_, err = buildJob(configMergeDefault(&Config{Input: input, Density: "ultra"}), coord)
		So(errors.Is(err, xerror.ErrInvalidConfig), ShouldBeTrue)

		_, err = buildJob(configMergeDefault(&Config{Input: input, Ramp: "#"}), coord)
		So(errors.Is(err, xerror.ErrInvalidConfig), ShouldBeTrue)
		So(xerror.IsFatal(err), ShouldBeTrue)
	})

	PatchConvey("TestBuildJob-Encoder", t, func() {
		input := writeGIF(t, 1)
		job, err := buildJob(configMergeDefault(&Config{Input: input, Output: "out.gif"}), coord)
		So(err, ShouldBeNil)
		_, ok := job.Sink.(*xsink.Encoder)
		So(ok, ShouldBeTrue)
		So(job.Converter.Cols(), ShouldEqual, 120)
		So(job.Converter.Rows(), ShouldEqual, 40)
		So(job.Source.Name(), ShouldEqual, "gif")
	})

	PatchConvey("TestBuildJob-Player", t, func() {
		Mock(xsurface.Terminal).Return(xsurface.Size{Cols: 100, Rows: 30}).Build()
		input := writeGIF(t, 1)
		job, err := buildJob(configMergeDefault(&Config{Input: input, Rows: 20}), coord)
		So(err, ShouldBeNil)
		_, ok := job.Sink.(*xsink.Player)
		So(ok, ShouldBeTrue)
		So(job.Converter.Cols(), ShouldEqual, 100)
		So(job.Converter.Rows(), ShouldEqual, 20)
	})
}

func TestBuildRamp(t *testing.T) {
	PatchConvey("TestBuildRamp", t, func() {
		r, err := buildRamp(configMergeDefault(&Config{}))
		So(err, ShouldBeNil)
		So(r.String(), ShouldEqual, " .:-=+*#%@")

		r, err = buildRamp(configMergeDefault(&Config{Invert: true}))
		So(err, ShouldBeNil)
		So(r.String(), ShouldEqual, "@%#*+=-:. ")

		r, err = buildRamp(configMergeDefault(&Config{Ramp: " #", Density: "fine"}))
		So(err, ShouldBeNil)
		So(r.String(), ShouldEqual, " #")

		r, err = buildRamp(configMergeDefault(&Config{Density: "fine"}))
		So(err, ShouldBeNil)
		So(len(r), ShouldEqual, 70)
		So(r[0], ShouldEqual, ' ')
		So(r[len(r)-1], ShouldEqual, '$')
	})
}

func TestRunServer(t *testing.T) {
	PatchConvey("TestRunServer-EncodeGIF", t, func() {
		input := writeGIF(t, 3)
		output := filepath.Join(t.TempDir(), "out.gif")
		Mock(getConfig).Return(&Config{Input: input, Output: output, Mode: "gray", Density: "coarse", FPS: 10, Cols: 8, Rows: 4}, nil).Build()
		Mock(xpipeline.GetConfig).Return(&xpipeline.Config{DisableMonitor: true, PollInterval: "5ms", StatsInterval: "0"}).Build()
		Mock(xstatus.GetConfig).Return(&xstatus.Config{}).Build()

		s := newRunServer()
		So(s.Run(), ShouldBeNil)
		v, ok := s.board.Latest()
		So(ok, ShouldBeTrue)
		So(v.(*xpipeline.Snapshot).Consumed, ShouldEqual, 3)

		f, err := os.Open(output)
		So(err, ShouldBeNil)
		defer f.Close()
		g, err := gif.DecodeAll(f)
		So(err, ShouldBeNil)
		So(len(g.Image), ShouldEqual, 3)
		So(g.Image[0].Bounds().Dx(), ShouldEqual, 8*7)
		So(g.Image[0].Bounds().Dy(), ShouldEqual, 4*13)
	})

	PatchConvey("TestRunServer-RegistersSinkClose", t, func() {
		input := writeGIF(t, 1)
		output := filepath.Join(t.TempDir(), "out.gif")
		Mock(getConfig).Return(&Config{Input: input, Output: output, Mode: "gray", Density: "coarse", FPS: 10}, nil).Build()
		Mock(xstatus.GetConfig).Return(&xstatus.Config{}).Build()
		Mock(xpipeline.Execute).Return(&xpipeline.Report{}, nil).Build()
		closes := 0
		Mock((*xsink.Encoder).Close).To(func(*xsink.Encoder) error {
			closes++
			return nil
		}).Build()
		var registered xhook.HookFunc
		Mock(xhook.BeforeStop).To(func(f xhook.HookFunc, _ ...xhook.Option) {
			registered = f
		}).Build()

		So(newRunServer().Run(), ShouldBeNil)
		So(registered, ShouldNotBeNil)
		So(registered(), ShouldBeNil)
		So(closes, ShouldEqual, 1)
	})

	PatchConvey("TestRunServer-ConfigErr", t, func() {
		Mock(getConfig).Return(&Config{}, nil).Build()
		err := newRunServer().Run()
		So(errors.Is(err, xerror.ErrInvalidConfig), ShouldBeTrue)
	})

	PatchConvey("TestRunServer-Stop", t, func() {
		s := newRunServer()
		So(s.Stop(), ShouldBeNil)
		So(s.coord.Aborted(), ShouldBeTrue)
		So(s.coord.Cause(), ShouldBeNil)
		So(s.ctx.Err(), ShouldNotBeNil)
	})
}
