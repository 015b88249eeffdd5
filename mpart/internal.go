package mpart

import "errors"

const (
	crlf             = "\r\n"
	headerTerminator = "\r\n\r\n"

	defaultChunkSize = 1024
)

var (
	crlfBytes       = []byte(crlf)
	headerTermBytes = []byte(headerTerminator)
)

var (
	// ErrMalformedInput is returned when a part's construction window holds
	// no boundary line: the data must begin with one.
	ErrMalformedInput = errors.New("malformed multipart: data must begin with a boundary line")

	// ErrHeaderTooLarge is returned when a part's header block does not
	// terminate within the configured scan chunk.
	ErrHeaderTooLarge = errors.New("part header too large")
)
