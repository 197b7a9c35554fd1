package security

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType names a security relevant event.
type EventType string

const (
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventAccountDeleted     EventType = "account_deleted"
)

// Event is one entry in the security log. Subject values are hashed before
// they are written.
type Event struct {
	Type      EventType
	Subject   string
	IP        string
	UserAgent string
	RequestID string
	Reason    string
	Path      string
}

// Logger writes security events as structured zap entries, separate from the
// application log so they can be shipped on their own.
type Logger struct {
	zap         *zap.Logger
	environment string
}

var (
	defaultLogger *Logger
	defaultOnce   sync.Once
)

// Init builds the security logger. Release mode writes production JSON to
// stdout, otherwise zap's development encoder is used.
func Init(release bool) *Logger {
	var (
		base *zap.Logger
		err  error
		env  = "development"
	)
	if release {
		env = "production"
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
		base, err = cfg.Build()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}

	defaultLogger = &Logger{zap: base.Named("security"), environment: env}
	return defaultLogger
}

// New wraps an existing zap logger; tests pass an observer core here.
func New(base *zap.Logger) *Logger {
	return &Logger{zap: base, environment: "test"}
}

// Default returns the logger set by Init, or a no-op logger.
func Default() *Logger {
	defaultOnce.Do(func() {
		if defaultLogger == nil {
			defaultLogger = New(zap.NewNop())
		}
	})
	return defaultLogger
}

func (l *Logger) Log(e Event) {
	level := zapcore.WarnLevel
	if e.Type == EventAccountDeleted {
		level = zapcore.InfoLevel
	}

	fields := []zap.Field{
		zap.String("event", string(e.Type)),
		zap.String("env", l.environment),
		zap.Time("at", time.Now().UTC()),
	}
	if e.Subject != "" {
		fields = append(fields, zap.String("subject", HashValue(e.Subject)))
	}
	if e.IP != "" {
		fields = append(fields, zap.String("ip", e.IP))
	}
	if e.UserAgent != "" {
		fields = append(fields, zap.String("user_agent", e.UserAgent))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}
	if e.Reason != "" {
		fields = append(fields, zap.String("reason", e.Reason))
	}
	if e.Path != "" {
		fields = append(fields, zap.String("path", e.Path))
	}

	l.zap.Log(level, string(e.Type), fields...)
}

func (l *Logger) Sync() error {
	return l.zap.Sync()
}

// HashValue returns a short SHA256 prefix so ids can be correlated without
// being logged in the clear.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
