package xlog

// 流水线日志的固定字段，控制台输出时会拼成 [run=… stage=… seq=…]
const (
	FieldRunID = "run_id"
	FieldStage = "stage"
	FieldSeq   = "seq"
)

// Option 单条日志的附加字段，作为 Info/Warn 等的可变参数传入
type Option func(fields map[string]any)

// KV 单条日志附加字段
func KV(k string, v any) Option {
	return func(fields map[string]any) {
		fields[k] = v
	}
}

// Stage 日志所属的流水线阶段
func Stage(name string) Option {
	return KV(FieldStage, name)
}

// Seq 日志对应的帧序号
func Seq(seq uint64) Option {
	return KV(FieldSeq, seq)
}
