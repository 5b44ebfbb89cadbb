package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/uptrace/bun"
)

func TestSlowQueryHook(t *testing.T) {
	var buf bytes.Buffer
	hook := &slowQueryHook{threshold: 100 * time.Millisecond, log: slog.New(slog.NewTextHandler(&buf, nil))}

	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now()})
	if buf.Len() != 0 {
		t.Fatalf("fast query logged: %s", buf.String())
	}

	hook.AfterQuery(context.Background(), &bun.QueryEvent{Query: "SELECT 1", StartTime: time.Now().Add(-time.Second)})
	out := buf.String()
	if !strings.Contains(out, "slow query") || !strings.Contains(out, "operation=SELECT") {
		t.Fatalf("log output = %q", out)
	}
}
