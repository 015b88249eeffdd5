package main

import (
	"log"
	"os"
	"strings"
	"syscall"
)

func main() {
	addr := os.Getenv("MPART_ADDR")
	if addr == "" {
		addr = ":9000"
	}

	h, err := newUploadHandler(64, []os.Signal{syscall.SIGINT, syscall.SIGTERM})
	if err != nil {
		log.Fatal(err)
	}
	log.Fatal(h.run(ensureProtoAddr(addr)))
}

func ensureProtoAddr(addr string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	return "tcp://" + addr
}
