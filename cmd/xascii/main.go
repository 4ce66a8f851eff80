package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/xiaoshicae/xascii"
	"github.com/xiaoshicae/xascii/xconfig"
)

func main() {
	fs := pflag.NewFlagSet("xascii", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: xascii [flags] <input>\n\nFlags:\n%s", fs.FlagUsages())
	}

	fs.StringP("input", "i", "", "video file to convert")
	fs.StringP("mode", "m", "gray", "output mode: gray|color")
	fs.StringP("density", "d", "coarse", "glyph ramp: coarse|fine")
	fs.String("ramp", "", "custom glyph ramp from dark to bright, overrides --density")
	fs.Bool("invert", false, "reverse the glyph ramp for light backgrounds")
	fs.StringP("output", "o", "", "encode to this file instead of playing in the terminal")
	fs.Int("fps", 30, "playback and encoding frame rate")
	fs.Int("cols", 0, "output columns, defaults to the terminal width (120 when encoding)")
	fs.Int("rows", 0, "output rows, defaults to the terminal height (40 when encoding)")
	config := fs.StringP("config", "c", "", "path of application.yml")
	version := fs.BoolP("version", "v", false, "print version and exit")

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		os.Exit(2)
	}
	if *version {
		fmt.Println(xascii.VERSION)
		return
	}
	if fs.NArg() > 0 && !fs.Changed("input") {
		_ = fs.Set("input", fs.Arg(0))
	}
	if *config != "" {
		xconfig.SetConfigLocation(*config)
	}

	xconfig.BindFlags(fs, map[string]string{
		"XAscii.Input":   "input",
		"XAscii.Mode":    "mode",
		"XAscii.Density": "density",
		"XAscii.Ramp":    "ramp",
		"XAscii.Invert":  "invert",
		"XAscii.Output":  "output",
		"XAscii.FPS":     "fps",
		"XAscii.Cols":    "cols",
		"XAscii.Rows":    "rows",
	})

	if err := xascii.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "xascii: %v\n", err)
		os.Exit(1)
	}
}
