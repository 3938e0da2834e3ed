package orders

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSinkAppendsOneLinePerEntry(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSink(&buf)

	entry := NewCompletedOrder(State{DrinkType: strPtr("latte"), Extras: []string{}})
	if err := sink.Append(entry); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := sink.Append(entry); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	entries, err := ReadCompletedOrders(&buf)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Timestamp == "" {
		t.Fatal("expected a timestamp on the entry")
	}
	if entries[1].Order.DrinkType == nil || *entries[1].Order.DrinkType != "latte" {
		t.Fatalf("expected order state to round-trip, got %+v", entries[1].Order)
	}
}

func TestSinkAppendAfterCloseFails(t *testing.T) {
	sink := NewSink(&bytes.Buffer{})
	if err := sink.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if err := sink.Append(NewCompletedOrder(DefaultState())); err == nil {
		t.Fatal("expected append on a closed sink to fail")
	}
}

func TestOpenSinkAppendsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completed_orders.json")

	for range 2 {
		sink, err := OpenSink(path)
		if err != nil {
			t.Fatalf("open failed: %v", err)
		}
		if err := sink.Append(NewCompletedOrder(DefaultState())); err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("close failed: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log failed: %v", err)
	}
	defer f.Close()

	entries, err := ReadCompletedOrders(f)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected both appends to survive reopen, got %d entries", len(entries))
	}
}

func TestReadCompletedOrdersRejectsMalformedLine(t *testing.T) {
	if _, err := ReadCompletedOrders(strings.NewReader("{}\nnot json\n")); err == nil {
		t.Fatal("expected an error for a malformed line")
	}
}
