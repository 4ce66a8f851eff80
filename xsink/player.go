package xsink

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/xiaoshicae/xascii/xerror"
	"github.com/xiaoshicae/xascii/xframe"
	"github.com/xiaoshicae/xascii/xlog"
	"github.com/xiaoshicae/xascii/xutil"
)

// PlayerOptions Screen 为空时打开真实终端
type PlayerOptions struct {
	FPS    int
	Screen tcell.Screen

	// OnQuit 用户按下 Esc、q 或 Ctrl-C 时调用，只调用一次
	OnQuit func()
}

// Player 在终端上逐帧绘制，每帧只 Show 一次
type Player struct {
	fps    int
	screen tcell.Screen
	onQuit func()

	opened    bool
	quit      atomic.Bool
	quitOnce  sync.Once
	closeOnce sync.Once
	events    sync.WaitGroup
	frames    atomic.Uint64
}

func NewPlayer(opts PlayerOptions) *Player {
	return &Player{
		fps:    opts.FPS,
		screen: opts.Screen,
		onQuit: opts.OnQuit,
	}
}

func (p *Player) Name() string {
	return "player"
}

func (p *Player) Pace() time.Duration {
	return xutil.FrameInterval(p.fps)
}

// Open 初始化终端并隐藏光标
func (p *Player) Open(ctx context.Context) error {
	if p.screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return xerror.Newf("xsink", "open", "create terminal screen failed, err=[%v]: %w", err, xerror.ErrSinkOpen)
		}
		p.screen = s
	}
	if err := p.screen.Init(); err != nil {
		return xerror.Newf("xsink", "open", "init terminal screen failed, err=[%v]: %w", err, xerror.ErrSinkOpen)
	}
	p.opened = true
	p.screen.HideCursor()
	p.screen.Clear()
	p.screen.Show()

	p.events.Add(1)
	go p.pollEvents(ctx)
	return nil
}

func (p *Player) pollEvents(ctx context.Context) {
	defer p.events.Done()
	for {
		ev := p.screen.PollEvent()
		if ev == nil {
			return
		}
		key, ok := ev.(*tcell.EventKey)
		if !ok || !isQuitKey(key) {
			continue
		}
		p.quitOnce.Do(func() {
			xlog.Info(ctx, "XAscii player quit by user", xlog.Stage(StageName))
			p.quit.Store(true)
			if p.onQuit != nil {
				p.onQuit()
			}
		})
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	default:
		return false
	}
}

// Consume 写入所有单元后统一 Show，避免逐格刷新造成闪烁
func (p *Player) Consume(_ context.Context, frame *xframe.GlyphFrame) error {
	if p.quit.Load() {
		return xerror.ErrStopped
	}
	for row := 0; row < frame.Rows(); row++ {
		for col := 0; col < frame.Cols(); col++ {
			cell := frame.At(col, row)
			p.screen.SetContent(col, row, cell.Rune, nil, cellStyle(cell))
		}
	}
	p.screen.Show()
	p.frames.Add(1)
	return nil
}

// Close 清屏并还原终端，可重复调用
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		if !p.opened {
			return
		}
		p.screen.Clear()
		p.screen.Show()
		p.screen.Fini()
		p.events.Wait()
	})
	return nil
}

// Frames 已绘制帧数
func (p *Player) Frames() uint64 {
	return p.frames.Load()
}

func cellStyle(cell xframe.GlyphCell) tcell.Style {
	style := tcell.StyleDefault
	if cell.HasColor {
		style = style.Foreground(tcell.NewRGBColor(int32(cell.Color.R), int32(cell.Color.G), int32(cell.Color.B)))
	}
	return style
}
