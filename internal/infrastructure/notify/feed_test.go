package notify

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/nimblecrm/crm-console/internal/core/domain"
	"github.com/nimblecrm/crm-console/internal/core/ports"
)

var _ ports.Notifier = (*Feed)(nil)

func TestFeed_RecentNewestFirst(t *testing.T) {
	f := NewFeed(3, zerolog.Nop())
	ctx := context.Background()

	if got := f.Recent(0); len(got) != 0 {
		t.Fatalf("expected empty feed, got %d", len(got))
	}

	f.Success(ctx, "one")
	f.Error(ctx, "two")

	got := f.Recent(0)
	if len(got) != 2 {
		t.Fatalf("expected 2 notices, got %d", len(got))
	}
	if got[0].Message != "two" || got[0].Level != domain.NoticeError {
		t.Fatalf("unexpected newest notice: %+v", got[0])
	}
	if got[1].Message != "one" || got[1].Level != domain.NoticeSuccess {
		t.Fatalf("unexpected oldest notice: %+v", got[1])
	}
}

func TestFeed_DropsOldestWhenFull(t *testing.T) {
	f := NewFeed(2, zerolog.Nop())
	ctx := context.Background()
	for _, m := range []string{"a", "b", "c"} {
		f.Success(ctx, m)
	}

	got := f.Recent(10)
	if len(got) != 2 || got[0].Message != "c" || got[1].Message != "b" {
		t.Fatalf("unexpected feed contents: %+v", got)
	}
	if got := f.Recent(1); len(got) != 1 || got[0].Message != "c" {
		t.Fatalf("unexpected limited feed: %+v", got)
	}
}

func TestFeed_LogsNotices(t *testing.T) {
	var buf bytes.Buffer
	f := NewFeed(0, zerolog.New(&buf))

	f.Error(context.Background(), "Invalid credentials")

	if !strings.Contains(buf.String(), "Invalid credentials") {
		t.Fatalf("expected notice in log output, got %q", buf.String())
	}
}
