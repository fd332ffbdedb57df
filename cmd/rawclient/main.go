package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strings"
)

var addr = flag.String("addr", "127.0.0.1:4221", "server address")

// Reads request lines from stdin until an empty line, sends them with CRLF
// endings on a fresh connection and prints the raw reply. When the request
// has a Content-Length, the lines after the empty line up to a lone "."
// are sent as the body, joined by "\n".
func main() {
	flag.Parse()

	r := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		raw, err := readRequest(r)
		if err != nil {
			if err != io.EOF {
				log.Printf("input error: %v", err)
			}
			return
		}
		if raw == "" {
			continue
		}

		reply, err := send(raw)
		if err != nil {
			log.Printf("send error: %v", err)
			continue
		}
		fmt.Printf("%q\n", reply)
	}
}

func readRequest(r *bufio.Reader) (string, error) {
	var b strings.Builder
	inBody := false
	bodyLines := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			if b.Len() > 0 {
				return b.String(), nil
			}
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if inBody {
			if line == "." {
				return b.String(), nil
			}
			if bodyLines > 0 {
				b.WriteString("\n")
			}
			b.WriteString(line)
			bodyLines++
			continue
		}
		if line == "" {
			if b.Len() == 0 {
				return "", nil
			}
			b.WriteString("\r\n")
			if !strings.Contains(b.String(), "Content-Length: ") {
				return b.String(), nil
			}
			inBody = true
			continue
		}
		b.WriteString(line + "\r\n")
	}
}

func send(raw string) ([]byte, error) {
	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if _, err := io.WriteString(conn, raw); err != nil {
		return nil, err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil {
			return nil, err
		}
	}
	return io.ReadAll(conn)
}
