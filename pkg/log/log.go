// Package log wraps zap for the console. The TUI owns stdout, so the
// default sink is a rotated file; stdout output exists for the dev server
// and one-off commands.
package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

/**
 * @time: 2025/6/22
 * @file: log.go
 * @description: zap 日志封装。TUI 占用 stdout，默认写滚动文件。
 */

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
	sugar  = logger.Sugar()
)

// Conf holds logging configuration.
type Conf struct {
	Output     string // "file" 或 "stdout"
	Path       string // 日志目录
	Filename   string
	Level      string
	RotateSize int // 单个文件上限（MB）
	RotateNum  int // 保留文件数
	KeepDays   int // 保留天数
}

// SetDefaults returns the default configuration.
func SetDefaults() *Conf {
	return &Conf{
		Output:     "file",
		Path:       "./logs",
		Filename:   "mailroom.log",
		Level:      "INFO",
		RotateSize: 50,
		RotateNum:  5,
		KeepDays:   7,
	}
}

// Init builds the global logger from conf.
func Init(conf *Conf) error {
	if conf == nil {
		conf = SetDefaults()
	}

	var sink zapcore.WriteSyncer
	switch conf.Output {
	case "stdout":
		sink = zapcore.AddSync(os.Stdout)
	default:
		if conf.Path == "" {
			return fmt.Errorf("log path is required when output is %q", conf.Output)
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(conf.Path, conf.Filename),
			MaxSize:    max(conf.RotateSize, 1),
			MaxBackups: max(conf.RotateNum, 1),
			MaxAge:     max(conf.KeepDays, 1),
			Compress:   true,
		})
	}

	core := zapcore.NewCore(encoder(), sink, parseLevel(conf.Level))
	l := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	mu.Lock()
	logger = l
	sugar = l.Sugar()
	mu.Unlock()
	return nil
}

// MustInit initializes the global logger, panicking on failure.
func MustInit(conf *Conf) {
	if err := Init(conf); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

// GetLogger returns the global sugared logger. Before Init it is a no-op
// logger, so library code may log unconditionally.
func GetLogger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// 常用日志入口，与 GetLogger() 等价的包级便捷函数

func Info(args ...any)                  { GetLogger().Info(args...) }
func Infof(format string, args ...any)  { GetLogger().Infof(format, args...) }
func Infow(msg string, kv ...any)       { GetLogger().Infow(msg, kv...) }
func Debugf(format string, args ...any) { GetLogger().Debugf(format, args...) }
func Debugw(msg string, kv ...any)      { GetLogger().Debugw(msg, kv...) }
func Warnf(format string, args ...any)  { GetLogger().Warnf(format, args...) }
func Warnw(msg string, kv ...any)       { GetLogger().Warnw(msg, kv...) }
func Errorf(format string, args ...any) { GetLogger().Errorf(format, args...) }
func Errorw(msg string, kv ...any)      { GetLogger().Errorw(msg, kv...) }

// Sync flushes buffered entries.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	_ = logger.Sync()
}

func encoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "msg"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006-01-02 15:04:05"))
	}
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN", "WARNING":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
