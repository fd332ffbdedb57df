package main

import (
	"flag"
	"fmt"
	"log"
	"net"

	"github.com/nhdewitt/tcp-http-server/internal/request"
)

var addr = flag.String("addr", ":4221", "address to listen on")

// Dumps every request it receives; never answers.
func main() {
	flag.Parse()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("error listening: %v", err.Error())
	}
	defer listener.Close()

	fmt.Println("Listening for TCP traffic on", *addr)
	for {
		c, err := listener.Accept()
		if err != nil {
			log.Fatalf("error accepting connection: %v", err)
		}
		log.Println("Connection accepted:", c.RemoteAddr())

		req, err := request.RequestFromReader(c)
		if err != nil {
			log.Printf("error parsing request: %v", err)
			c.Close()
			continue
		}

		fmt.Println("Request line:")
		fmt.Printf("- Method: %s\n", req.RequestLine.Method)
		fmt.Printf("- Target: %s\n", req.RequestLine.RequestTarget)
		fmt.Printf("- Version: %s\n", req.RequestLine.HttpVersion)
		fmt.Println("Headers:")
		for _, k := range req.Headers.Keys() {
			fmt.Printf("- %s: %s\n", k, req.Headers[k])
		}
		if req.HasBody() {
			fmt.Println("Body:")
			fmt.Println(string(req.Body))
		}
		c.Close()
		fmt.Println("Connection to ", c.RemoteAddr(), "closed")
	}
}
