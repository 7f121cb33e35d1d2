package database

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func traceSQL() (string, int64) {
	return "INSERT INTO stock_master (stock_id) VALUES ('ABC123-S-RED')", 0
}

func TestGormLoggerTrace(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		begin time.Time
		err   error
		want  string
	}{
		{"failed statement", gormlogger.Warn, time.Now(), errors.New("UNIQUE constraint failed"), `"message":"query failed"`},
		{"record not found", gormlogger.Warn, time.Now(), gorm.ErrRecordNotFound, ""},
		{"slow statement", gormlogger.Warn, time.Now().Add(-time.Second), nil, `"message":"slow query"`},
		{"fast statement", gormlogger.Warn, time.Now(), nil, ""},
		{"silent", gormlogger.Silent, time.Now(), errors.New("boom"), ""},
		{"info level", gormlogger.Info, time.Now(), nil, `"message":"query"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := newGormLogger(zerolog.New(&buf), tt.level)
			l.Trace(context.Background(), tt.begin, traceSQL, tt.err)

			out := buf.String()
			if tt.want == "" {
				if out != "" {
					t.Errorf("Expected nothing logged, got %s", out)
				}
				return
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected %s in %s", tt.want, out)
			}
			if !strings.Contains(out, `"component":"gorm"`) || !strings.Contains(out, "stock_master") {
				t.Errorf("Expected component and sql fields, got %s", out)
			}
		})
	}
}

func TestGormLoggerLogModeCopies(t *testing.T) {
	var buf bytes.Buffer
	base := newGormLogger(zerolog.New(&buf), gormlogger.Warn)
	quiet := base.LogMode(gormlogger.Silent)

	quiet.Error(context.Background(), "dropped %d", 1)
	if buf.Len() != 0 {
		t.Errorf("Expected silent copy to log nothing, got %s", buf.String())
	}
	base.Error(context.Background(), "kept %d", 2)
	if !strings.Contains(buf.String(), "kept 2") {
		t.Errorf("Expected original level unchanged, got %s", buf.String())
	}
}
