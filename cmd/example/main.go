package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"blockindex/pkg/client"
	"blockindex/pkg/common"
	"blockindex/pkg/core"
	"blockindex/pkg/network"
)

// Walks through a five-record table with a block size of 2, which
// shows both the sparse primary entries and the clustering gap for major A.
func main() {
	addr := flag.String("addr", "", "query a running server instead of an in-process one")
	flag.Parse()

	target := *addr
	if target == "" {
		records := []common.Record{
			{ID: 1, Name: "Ann", Major: "A"},
			{ID: 2, Name: "Ben", Major: "B"},
			{ID: 3, Name: "Cid", Major: "A"},
			{ID: 4, Name: "Dee", Major: "A"},
			{ID: 5, Name: "Eve", Major: "B"},
		}
		table, err := core.NewTable(records, 2)
		if err != nil {
			log.Fatalf("Failed to build table: %v", err)
		}
		fmt.Printf("Primary entries:    %v\n", table.Primary().Entries())
		fmt.Printf("Clustering entries: %v\n", table.Clustering().Entries())

		srv := network.NewTCPServer(table)
		if err := srv.Listen("127.0.0.1:0"); err != nil {
			log.Fatalf("Failed to listen: %v", err)
		}
		defer srv.Close()
		go srv.Serve()
		target = srv.Addr().String()
	}

	fmt.Println("Connecting to blockindex...")
	cli, err := client.Dial(target)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer cli.Close()

	for _, q := range []string{
		"SELECT * FROM uni WHERE id = 4",
		"SELECT * FROM uni WHERE id = 4 USING SCAN",
		"SELECT * FROM uni WHERE id BETWEEN 2 AND 4",
		"SELECT * FROM uni WHERE major = 'A'",
		"SELECT * FROM uni WHERE major = 'A' USING CHAIN",
		"SELECT * FROM uni WHERE major = 'A' USING SCAN",
	} {
		start := time.Now()
		res, err := cli.Query(q)
		if err != nil {
			log.Fatalf("Query failed: %v", err)
		}
		ids := make([]int64, len(res.Records))
		for i, r := range res.Records {
			ids[i] = r.ID
		}
		fmt.Printf("%-50s ids=%v blocks=%d (%v)\n", q, ids, res.Blocks, time.Since(start))
	}
}
