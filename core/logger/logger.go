package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log  *zap.SugaredLogger
	once sync.Once
)

// Init builds the global logger. level is one of debug/info/warn/error,
// format is "json" or "console". Safe to call more than once.
func Init(level, format string) {
	once.Do(func() {
		log = build(level, format)
	})
}

func build(level, format string) *zap.SugaredLogger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if format == "console" {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)
	return zap.New(core, zap.AddCallerSkip(1)).Sugar()
}

func get() *zap.SugaredLogger {
	if log == nil {
		Init("info", "console")
	}
	return log
}

func Debug(msg string, keysAndValues ...any) {
	get().Debugw(msg, normalize(keysAndValues)...)
}

func Info(msg string, keysAndValues ...any) {
	get().Infow(msg, normalize(keysAndValues)...)
}

func Warn(msg string, keysAndValues ...any) {
	get().Warnw(msg, normalize(keysAndValues)...)
}

func Error(msg string, keysAndValues ...any) {
	get().Errorw(msg, normalize(keysAndValues)...)
}

// normalize tolerates call sites that pass a bare error (or other odd
// trailing value) instead of a key/value pair.
func normalize(kv []any) []any {
	if len(kv)%2 == 0 {
		return kv
	}
	if err, ok := kv[len(kv)-1].(error); ok {
		return append(kv[:len(kv)-1], "error", err)
	}
	return append(kv[:len(kv)-1], "detail", kv[len(kv)-1])
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
