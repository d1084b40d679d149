package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"blockindex/pkg/client"
)

const Prompt = "blockindex> "

func main() {
	serverAddr := flag.String("addr", "localhost:9090", "blockindex TCP server address")
	table := flag.String("table", "students", "table name used in generated queries")
	flag.Parse()

	fmt.Printf("blockindex CLI (Target: %s)\n", *serverAddr)
	fmt.Println("Connecting...")

	cli, err := client.Dial(*serverAddr)
	if err != nil {
		fmt.Printf("Connection failed: %v\n", err)
		fmt.Println("Tip: Ensure the server is running (e.g. go run ./cmd/server).")
		return
	}
	defer cli.Close()
	fmt.Println("Connected! Type 'help' for commands.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(Prompt)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "get":
			handleGet(cli, *table, parts)
		case "range":
			handleRange(cli, *table, parts)
		case "major":
			handleMajor(cli, *table, parts)
		case "sql":
			run(cli, strings.TrimSpace(strings.TrimPrefix(line, parts[0])))
		case "stats":
			handleStats(cli)
		case "help":
			printHelp()
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command: '%s'. Type 'help'.\n", cmd)
		}
	}
}

func handleGet(cli *client.Client, table string, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: get <id> [scan]")
		return
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Println("Error: id must be an integer")
		return
	}
	run(cli, fmt.Sprintf("SELECT * FROM %s WHERE id = %d%s", table, id, using(parts, 2)))
}

func handleRange(cli *client.Client, table string, parts []string) {
	if len(parts) < 3 {
		fmt.Println("Usage: range <low> <high> [scan]")
		return
	}
	low, err1 := strconv.ParseInt(parts[1], 10, 64)
	high, err2 := strconv.ParseInt(parts[2], 10, 64)
	if err1 != nil || err2 != nil {
		fmt.Println("Error: bounds must be integers")
		return
	}
	run(cli, fmt.Sprintf("SELECT * FROM %s WHERE id BETWEEN %d AND %d%s", table, low, high, using(parts, 3)))
}

func handleMajor(cli *client.Client, table string, parts []string) {
	if len(parts) < 2 {
		fmt.Println("Usage: major <value> [index|chain|scan]")
		return
	}
	value := parts[1]
	suffix := ""
	if last := strings.ToLower(parts[len(parts)-1]); len(parts) > 2 && isMethod(last) {
		value = strings.Join(parts[1:len(parts)-1], " ")
		suffix = " USING " + strings.ToUpper(last)
	} else {
		value = strings.Join(parts[1:], " ")
	}
	run(cli, fmt.Sprintf("SELECT * FROM %s WHERE major = '%s'%s", table, value, suffix))
}

func handleStats(cli *client.Client) {
	stats, err := cli.Stats()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	for _, k := range []string{"record_count", "block_size", "block_count", "primary_entries", "clustering_entries", "distinct_majors"} {
		fmt.Printf("  %-20s %v\n", k, stats[k])
	}
	if w, ok := stats["workload"]; ok {
		fmt.Printf("  %-20s %v\n", "workload", w)
	}
}

func run(cli *client.Client, sql string) {
	if sql == "" {
		fmt.Println("Usage: sql <statement>")
		return
	}
	start := time.Now()
	res, err := cli.Query(sql)
	duration := time.Since(start)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Found %d records, %d blocks read (%v):\n", len(res.Records), res.Blocks, duration)
	for i, rec := range res.Records {
		if i >= 20 {
			fmt.Printf("... and %d more\n", len(res.Records)-20)
			break
		}
		fmt.Printf("  %s\n", rec.String())
	}
}

func using(parts []string, at int) string {
	if len(parts) > at && isMethod(strings.ToLower(parts[at])) {
		return " USING " + strings.ToUpper(parts[at])
	}
	return ""
}

func isMethod(s string) bool {
	return s == "index" || s == "scan" || s == "chain"
}

func printHelp() {
	fmt.Println(`
Commands:
  get <id> [scan]                    Exact match on id (primary index by default)
  range <low> <high> [scan]          Inclusive id range
  major <value> [index|chain|scan]   Exact match on major (clustering index by default)
  sql <statement>                    Raw SELECT ... WHERE ... [USING INDEX|SCAN|CHAIN]
  stats                              Table and workload counters
  exit                               Exit CLI
	`)
}
