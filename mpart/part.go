// Package mpart decodes multipart/form-data messages from a forward-only,
// non-seekable byte source. Parts are exposed one at a time as a singly
// linked chain; the whole message is never buffered, and boundary bytes are
// never delivered as content.
package mpart

import (
	"fmt"
	"io"

	"github.com/valyala/bytebufferpool"
)

// windowPool recycles the read-window scratch buffers used by construction
// and content reads.
var windowPool bytebufferpool.Pool

// Part is one unit of a multipart message: header metadata plus a
// forward-only view over its raw content bytes.
//
// Exactly one Part of a message is active at a time. The call that confirms
// the boundary closing a Part constructs its successor; from then on the
// Part is inert and every further read answers (0, next, nil).
type Part struct {
	// Header is the part's raw header block text.
	Header string
	// ContentDisposition is the Content-Disposition header value, "" when absent.
	ContentDisposition string
	// ContentType is the Content-Type header value, "" when absent.
	ContentType string
	// Name is the name="..." attribute of the disposition, "" when absent.
	Name string
	// FileName is the filename="..." attribute of the disposition. It is ""
	// for plain form fields.
	FileName string

	src      io.Reader
	boundary []byte
	carry    []byte
	cfg      config

	terminal  bool
	complete  bool
	exhausted bool // source ended without a closing boundary
	srcEOF    bool
	next      *Part
}

// NewPart decodes the first part of a multipart message read from src. The
// boundary token is discovered from the first line of the stream and reused
// for every later delimiter. A message holding nothing but the closing
// delimiter yields (nil, nil).
func NewPart(src io.Reader, opts ...Option) (*Part, error) {
	if src == nil {
		return nil, fmt.Errorf("missing source")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	p := &Part{src: src, cfg: cfg}
	if err := p.init(); err != nil {
		return nil, err
	}
	if p.terminal {
		return nil, nil
	}
	return p, nil
}

// init reads the part's boundary line and header block, leaving the carry
// buffer positioned at the first content byte. The carry is expected to
// start at the boundary line, without its leading line terminator.
func (p *Part) init() error {
	wb := windowPool.Get()
	defer windowPool.Put(wb)
	if cap(wb.B) < p.cfg.chunkSize {
		wb.B = make([]byte, p.cfg.chunkSize)
	}
	chunk := wb.B[:p.cfg.chunkSize]

	n, err := p.fill(chunk)
	if err != nil {
		return err
	}
	chunk = chunk[:n]

	eol := findPattern(chunk, crlfBytes, 0)
	if p.boundary == nil {
		if eol <= 0 {
			return ErrMalformedInput
		}
		token := make([]byte, 0, len(crlf)+eol)
		token = append(token, crlfBytes...)
		p.boundary = append(token, chunk[:eol]...)
	}

	// The closing delimiter line is exactly as long as the boundary token:
	// the leading line terminator traded for the two trailing hyphens.
	if n == len(p.boundary) {
		p.markTerminal()
		return nil
	}
	if eol == -1 {
		return ErrMalformedInput
	}
	if isClosingLine(chunk[:eol], p.boundary) {
		p.markTerminal()
		return nil
	}

	hdrEnd := findPattern(chunk, headerTermBytes, eol)
	if hdrEnd == -1 {
		return ErrHeaderTooLarge
	}
	// hdrEnd == eol when the blank line directly follows the boundary line,
	// i.e. a part without headers.
	headerText := ""
	if hdrEnd > eol {
		headerText = string(chunk[eol+len(crlf) : hdrEnd])
	}
	parseHeader(p, headerText)

	// Whatever the header scan read past the blank line is content; put it
	// back in front of any carry bytes the scan did not drain.
	p.restore(chunk[hdrEnd+len(headerTerminator) : n])
	return nil
}

// ReadContent copies up to len(dst) content bytes of this part into dst.
//
// The call that confirms the boundary closing this part constructs the
// successor and returns it as next, with the terminal marker collapsed to
// nil. Afterwards the part is inert: every call returns (0, next, nil)
// without touching the source. If the source ends before any boundary is
// seen, the bytes held back as a possible boundary prefix are delivered as
// content and subsequent calls return io.EOF. Upstream read failures are
// returned verbatim and are fatal for the message.
func (p *Part) ReadContent(dst []byte) (int, *Part, error) {
	if p.complete {
		if p.exhausted {
			return 0, nil, io.EOF
		}
		return 0, p.next, nil
	}
	if len(dst) == 0 {
		return 0, nil, nil
	}

	// The extra boundary-sized slack resolves, within this call, whether
	// the bytes trailing the requested count start a boundary.
	size := len(dst) + len(p.boundary)
	wb := windowPool.Get()
	defer windowPool.Put(wb)
	if cap(wb.B) < size {
		wb.B = make([]byte, size)
	}
	window := wb.B[:size]

	n, err := p.fill(window)
	if err != nil {
		return 0, nil, err
	}
	window = window[:n]

	k := findPattern(window, p.boundary, 0)
	var ret int
	switch {
	case k >= 0:
		ret = k
	case p.srcEOF && len(p.carry) == 0:
		// Nothing can follow, so withheld bytes are genuine content.
		ret = n
		if ret > len(dst) {
			ret = len(dst)
		}
	default:
		// The trailing bytes might be an unconfirmed boundary prefix;
		// hold them back until the next call sees more data.
		ret = n - len(p.boundary)
		if ret < 0 {
			ret = 0
		}
	}
	copy(dst, window[:ret])

	if k >= 0 {
		// Everything past the token's leading line terminator, plus any
		// carry bytes the fill did not drain, seeds the next part.
		seed := make([]byte, 0, n-(k+len(crlf))+len(p.carry))
		seed = append(seed, window[k+len(crlf):n]...)
		seed = append(seed, p.carry...)
		p.carry = nil

		next := &Part{src: p.src, boundary: p.boundary, carry: seed, cfg: p.cfg, srcEOF: p.srcEOF}
		if err := next.init(); err != nil {
			return ret, nil, err
		}
		p.complete = true
		if !next.terminal {
			p.next = next
		}
		return ret, p.next, nil
	}

	p.restore(window[ret:n])
	if p.srcEOF && len(p.carry) == 0 {
		p.complete = true
		p.exhausted = true
		if ret == 0 {
			return 0, nil, io.EOF
		}
	}
	return ret, nil, nil
}

// Read implements io.Reader over the part's content. It reports io.EOF once
// the content is exhausted; the successor, if any, is available from Next.
func (p *Part) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	n, _, err := p.ReadContent(dst)
	if err != nil {
		return n, err
	}
	if n == 0 && p.complete {
		return 0, io.EOF
	}
	return n, nil
}

// Next skips whatever content remains and returns the following part, nil at
// end of message.
func (p *Part) Next() (*Part, error) {
	if p.complete {
		return p.next, nil
	}
	buf := make([]byte, p.cfg.chunkSize)
	for !p.complete {
		if _, _, err := p.ReadContent(buf); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
	}
	return p.next, nil
}

// fill copies into window from the carry buffer first, then from the source,
// until window is full or the source is exhausted. On a source failure the
// bytes already placed in window are pushed back into the carry and the
// failure is returned untouched.
func (p *Part) fill(window []byte) (int, error) {
	n := copy(window, p.carry)
	p.discard(n)
	for n < len(window) && !p.srcEOF {
		m, err := p.src.Read(window[n:])
		n += m
		if err == io.EOF {
			p.srcEOF = true
			break
		}
		if err != nil {
			p.restore(window[:n])
			return 0, err
		}
	}
	return n, nil
}

// discard drops the first n carry bytes.
func (p *Part) discard(n int) {
	switch {
	case n >= len(p.carry):
		p.carry = p.carry[:0]
	case n > 0:
		copy(p.carry, p.carry[n:])
		p.carry = p.carry[:len(p.carry)-n]
	}
}

// restore puts b back in front of the carry buffer, preserving order.
func (p *Part) restore(b []byte) {
	if len(b) == 0 {
		return
	}
	merged := make([]byte, 0, len(b)+len(p.carry))
	merged = append(merged, b...)
	merged = append(merged, p.carry...)
	p.carry = merged
}

func (p *Part) markTerminal() {
	p.terminal = true
	p.complete = true
	p.carry = nil
}

// isClosingLine reports whether line is the boundary line suffixed with the
// terminal double hyphen.
func isClosingLine(line, boundary []byte) bool {
	token := boundary[len(crlf):]
	if len(line) != len(token)+2 {
		return false
	}
	if line[len(line)-2] != '-' || line[len(line)-1] != '-' {
		return false
	}
	return findPattern(line, token, 0) == 0
}
