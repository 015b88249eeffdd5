package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/J1407B-K/mpart/mpart"
)

func TestWalkParts(t *testing.T) {
	body := "----B\r\n" +
		"Content-Disposition: form-data; name=\"Description\"\r\n" +
		"\r\n" +
		"hello\r\n" +
		"----B\r\n" +
		"Content-Disposition: form-data; name=\"MyFile\"; filename=\"1.gif\"\r\n" +
		"Content-Type: image/gif\r\n" +
		"\r\n" +
		"GIF89\r\n" +
		"----B--"
	parts, err := walkParts(strings.NewReader(body), "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parts != 2 {
		t.Fatalf("expected 2 parts, got %d", parts)
	}
}

func TestWalkPartsMalformed(t *testing.T) {
	_, err := walkParts(strings.NewReader(strings.Repeat("z", 2048)), "test")
	if !errors.Is(err, mpart.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestEnsureProtoAddr(t *testing.T) {
	if got := ensureProtoAddr(":9000"); got != "tcp://:9000" {
		t.Fatalf("unexpected addr %q", got)
	}
	if got := ensureProtoAddr("udp://:9000"); got != "udp://:9000" {
		t.Fatalf("unexpected addr %q", got)
	}
}
