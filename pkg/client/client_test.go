package client

import (
	"errors"
	"strings"
	"testing"

	"blockindex/pkg/common"
	"blockindex/pkg/core"
	"blockindex/pkg/network"
	"blockindex/pkg/protocol"
)

func TestDialInvalidAddr(t *testing.T) {
	_, err := Dial("invalid:invalid:invalid")
	if err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestDialUnreachable(t *testing.T) {
	// Connect to non-routable IP (RFC 5737) - expect error
	_, err := Dial("192.0.2.1:9999")
	if err == nil {
		t.Skip("connection unexpectedly succeeded (e.g. in sandbox)")
	}
}

func startServer(t *testing.T) string {
	t.Helper()
	records := []common.Record{
		{ID: 1, Name: "a", Major: "A"},
		{ID: 2, Name: "b", Major: "B"},
		{ID: 3, Name: "c", Major: "A"},
		{ID: 4, Name: "d", Major: "A"},
		{ID: 5, Name: "e", Major: "B"},
	}
	table, err := core.NewTable(records, 2)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	srv := network.NewTCPServer(table)
	if err := srv.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve()
	t.Cleanup(func() { srv.Close() })
	return srv.Addr().String()
}

func TestQueryOverTCP(t *testing.T) {
	cli, err := Dial(startServer(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer cli.Close()

	res, err := cli.Query("SELECT * FROM uni WHERE id = 4")
	if err != nil {
		t.Fatalf("exact query: %v", err)
	}
	if len(res.Records) != 1 || res.Records[0].Name != "d" || res.Blocks != 2 {
		t.Fatalf("unexpected exact result: %+v", res)
	}

	res, err = cli.Query("SELECT * FROM uni WHERE major = 'B' USING CHAIN")
	if err != nil {
		t.Fatalf("major query: %v", err)
	}
	if len(res.Records) != 2 || res.Blocks != 3 {
		t.Fatalf("unexpected chained result: %+v", res)
	}

	if _, err := cli.Query("SELECT name FROM uni"); err == nil || !strings.Contains(err.Error(), "syntax") {
		t.Fatalf("expected syntax error, got %v", err)
	}

	stats, err := cli.Stats()
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats["record_count"] != float64(5) {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestOversizedQueryIsRejectedLocally(t *testing.T) {
	cli, err := Dial(startServer(t))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer cli.Close()

	huge := "SELECT * FROM uni WHERE major = '" + strings.Repeat("x", protocol.MaxValueLen) + "'"
	if _, err := cli.Query(huge); !errors.Is(err, protocol.ErrFrameTooLarge) {
		t.Fatalf("expected ErrFrameTooLarge, got %v", err)
	}

	// the connection was not torn down
	if _, err := cli.Query("SELECT * FROM uni WHERE id = 1"); err != nil {
		t.Fatalf("query after rejected frame: %v", err)
	}
}
