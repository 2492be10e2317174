package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"

	bookSync "bookhub/internal/sync"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:7070", "TCP change feed address")
	raw := flag.Bool("raw", false, "print events as received")
	flag.Parse()

	for {
		if err := run(*addr, *raw); err != nil {
			log.Printf("[sync-client] disconnected: %v", err)
		}
		time.Sleep(1 * time.Second) // auto reconnect
	}
}

func run(addr string, raw bool) error {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	log.Printf("[sync-client] connected to %s", addr)

	sc := bufio.NewScanner(conn)
	for sc.Scan() {
		line := sc.Bytes()
		if raw {
			fmt.Println(string(line))
			continue
		}

		var ev bookSync.CatalogEvent
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(line, &ev); err != nil || ev.Type != bookSync.CatalogChanged {
			fmt.Println(string(line))
			continue
		}
		fmt.Printf("%s catalog changed: %d books, %d borrowed\n",
			ev.At.Local().Format(time.DateTime), ev.Books, ev.Borrowed)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return os.ErrClosed
}
