package main

import (
	"flag"
	"log"

	"blockindex/pkg/api"
	"blockindex/pkg/bench"
	"blockindex/pkg/common"
	"blockindex/pkg/config"
	"blockindex/pkg/core"
	"blockindex/pkg/network"
	"blockindex/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config")
	generate := flag.Int("generate", 0, "serve N synthetic records instead of loading the data source")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var records []common.Record
	if *generate > 0 {
		records = bench.Synthetic(*generate, 1)
		log.Printf("[Server] Generated %d synthetic records", len(records))
	} else {
		records, err = storage.LoadRecords(cfg.Data)
		if err != nil {
			log.Fatalf("Failed to load records: %v", err)
		}
	}

	table, err := core.NewTable(records, cfg.Index.BlockSize)
	if err != nil {
		log.Fatalf("Failed to build indexes: %v", err)
	}

	tcpServer := network.NewTCPServer(table)
	go func() {
		if err := tcpServer.Start(cfg.Server.TCPAddr); err != nil {
			log.Fatalf("TCP server stopped: %v", err)
		}
	}()

	server := api.NewServer(table, bench.Options{
		RangeWidth: cfg.Bench.RangeWidth,
		Repeat:     cfg.Bench.Repeat,
	})
	if err := server.Start(cfg.Server.Addr); err != nil {
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
