package mpart

import "regexp"

var (
	dispositionRe = regexp.MustCompile(`(?m)^Content-Disposition: ([^\r\n]+)`)
	contentTypeRe = regexp.MustCompile(`(?m)^Content-Type: ([^\r\n]+)`)
	nameRe        = regexp.MustCompile(`(^|[; ])name="([^"]*)"`)
	fileNameRe    = regexp.MustCompile(`filename="([^"]*)"`)
)

// parseHeader fills the part's metadata fields from its raw header block.
// Matching is case-sensitive and line-anchored, first match wins. Fields that
// are not present stay empty; an empty filename attribute means the part is a
// plain form field rather than a file.
func parseHeader(p *Part, header string) {
	p.Header = header
	if m := dispositionRe.FindStringSubmatch(header); m != nil {
		p.ContentDisposition = m[1]
	}
	if m := contentTypeRe.FindStringSubmatch(header); m != nil {
		p.ContentType = m[1]
	}
	if p.ContentDisposition == "" {
		return
	}
	if m := nameRe.FindStringSubmatch(p.ContentDisposition); m != nil {
		p.Name = m[2]
	}
	if m := fileNameRe.FindStringSubmatch(p.ContentDisposition); m != nil {
		p.FileName = m[1]
	}
}
