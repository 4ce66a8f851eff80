package xlog

import (
	"context"
	"fmt"
	"io"
	"path"
	"runtime"
	"strings"
	"time"

	"github.com/xiaoshicae/xascii/xutil"

	"github.com/sirupsen/logrus"
)

// 控制台颜色
const (
	colorRed    = 31
	colorYellow = 33
	colorBlue   = 36
	colorGray   = 37
)

const consoleTimeLayout = "15:04:05.000"

// xLogHook 给每条日志补上进程、调用位置、trace 与流水线字段，Console 打开时同步打印到 Writer
type xLogHook struct {
	ServerName string
	Pid        int
	Console    bool
	RawConsole bool
	Writer     io.Writer
}

func (h *xLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *xLogHook) Fire(entry *logrus.Entry) error {
	data := entry.Data
	if _, ok := data["servername"]; !ok {
		data["servername"] = h.ServerName
	}
	data["pid"] = h.Pid

	if f := entryCaller(entry); f != nil {
		data["filename"] = path.Base(f.File)
		data["lineid"] = f.Line
	}

	traceID, spanID := xutil.SpanIDsFromCtx(entry.Context)
	data["traceid"] = traceID
	data["spanid"] = spanID

	// 单条日志上的字段优先于 ctx 上的
	for k, v := range kvFromCtx(entry.Context) {
		if _, ok := data[k]; !ok {
			data[k] = v
		}
	}

	if !h.Console {
		return nil
	}
	return h.print(entry)
}

func (h *xLogHook) print(entry *logrus.Entry) error {
	if h.RawConsole {
		line, err := entry.Bytes()
		if err != nil {
			return err
		}
		_, err = h.Writer.Write(line)
		return err
	}

	msg := fmt.Appendf(nil, "\x1b[%dm%s\x1b[0m[%s] \x1b[34m%v:%v\x1b[0m %s%s\n",
		levelColor(entry.Level), strings.ToUpper(entry.Level.String()), entry.Time.Format(consoleTimeLayout),
		entry.Data["filename"], entry.Data["lineid"], pipelineTag(entry.Data), entry.Message)
	if stack, ok := entry.Data["panic_stack"]; ok {
		msg = fmt.Appendf(msg, "%v\n", stack)
	}
	_, err := h.Writer.Write(msg)
	return err
}

func entryCaller(entry *logrus.Entry) *runtime.Frame {
	if entry.Caller != nil {
		return entry.Caller
	}
	return logCaller()
}

// pipelineTag 形如 "[run=1a2b3c4d stage=conversion seq=12] "，没有流水线字段时为空
func pipelineTag(data logrus.Fields) string {
	parts := make([]string, 0, 3)
	if run, ok := data[FieldRunID].(string); ok && run != "" {
		parts = append(parts, "run="+run[:min(len(run), 8)])
	}
	if stage, ok := data[FieldStage]; ok {
		parts = append(parts, fmt.Sprintf("stage=%v", stage))
	}
	if seq, ok := data[FieldSeq]; ok {
		parts = append(parts, fmt.Sprintf("seq=%v", seq))
	}
	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, " ") + "] "
}

func levelColor(l logrus.Level) int {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return colorGray
	case logrus.WarnLevel:
		return colorYellow
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return colorRed
	default:
		return colorBlue
	}
}

// zoneFormatter 在指定时区下格式化，entry 先复制，多个 writer hook 会并发调用
type zoneFormatter struct {
	logrus.Formatter
	Location *time.Location
}

func (z zoneFormatter) Format(e *logrus.Entry) ([]byte, error) {
	cp := *e
	if cp.Context == nil {
		cp.Context = context.Background()
	}
	if z.Location != nil {
		cp.Time = cp.Time.In(z.Location)
	}
	return z.Formatter.Format(&cp)
}
