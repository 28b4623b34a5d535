package log

import "go.uber.org/zap"

// ZapLogger forwards match events to a structured logger at debug level.
// Unlike MemoryLogger it keeps nothing, so a long match costs no memory.
type ZapLogger struct {
	z *zap.Logger
}

func NewZapLogger(z *zap.Logger) *ZapLogger {
	return &ZapLogger{z: z}
}

func (l *ZapLogger) Log(event GameEvent) {
	l.z.Debug(event.Details,
		zap.String("event", event.Type.String()),
		zap.Int("turn", event.Turn),
		zap.String("player", event.Player),
		zap.String("card", event.Card),
	)
}

// Events always returns nil.
func (l *ZapLogger) Events() []GameEvent { return nil }
