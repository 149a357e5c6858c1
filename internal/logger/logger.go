// Package logger wraps zap with key/value redaction so that API keys and
// child or teacher identifiers never reach the log sink in clear text.
package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Logger is a sugared zap logger that sanitizes key/value pairs.
type Logger struct {
	sugar    *zap.SugaredLogger
	hashSalt string
}

// New builds a logger for the given mode ("prod" or "dev").
func New(mode, hashSalt string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{sugar: z.Sugar(), hashSalt: hashSalt}, nil
}

// Nop returns a logger that discards everything. Used in tests and as the
// fallback when a component is constructed without a logger.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) *Logger {
	return &Logger{sugar: z.Sugar()}
}

func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, l.sanitize(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, l.sanitize(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, l.sanitize(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, l.sanitize(kv)...) }

// With returns a child logger carrying the given fields.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.sugar.With(l.sanitize(kv)...), hashSalt: l.hashSalt}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *Logger) *Logger {
	if l == nil {
		return Nop()
	}
	return l
}

func (l *Logger) sanitize(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := fmt.Sprint(kv[i])
		out = append(out, key, l.sanitizeValue(strings.ToLower(key), kv[i+1]))
	}
	return out
}

func (l *Logger) sanitizeValue(key string, val any) any {
	switch {
	case isRedactKey(key):
		return "[REDACTED]"
	case isHashKey(key):
		return l.hash(val)
	}
	return val
}

func isRedactKey(key string) bool {
	for _, frag := range []string{"api_key", "apikey", "token_secret", "password", "secret", "authorization"} {
		if strings.Contains(key, frag) {
			return true
		}
	}
	return false
}

func isHashKey(key string) bool {
	return strings.Contains(key, "user_id") || strings.Contains(key, "student_id") || strings.Contains(key, "student_name")
}

func (l *Logger) hash(val any) string {
	raw := strings.TrimSpace(fmt.Sprint(val))
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if l.hashSalt != "" {
		h.Write([]byte(l.hashSalt))
	}
	h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}
