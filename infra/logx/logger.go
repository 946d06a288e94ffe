// Package logx 基于 logrus 的日志初始化, 写文件时由 lumberjack 负责切割
package logx

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"fastCurate/config"
)

// New 按配置构造 logger; 返回的 io.Closer 在写文件时关闭 lumberjack
func New(c config.LogConfig) (*logrus.Logger, io.Closer, error) {
	l := logrus.New()

	level := c.Level
	if level == "" {
		level = "info"
	}
	lv, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	l.SetLevel(lv)

	switch c.Format {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", c.Format)
	}

	if c.File == "" {
		l.SetOutput(os.Stderr)
		return l, io.NopCloser(nil), nil
	}
	rotator := &lumberjack.Logger{
		Filename:   c.File,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
	}
	l.SetOutput(rotator)
	return l, rotator, nil
}
