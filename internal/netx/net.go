// Package netx contains streaming helpers for outbound HTTP bodies.
package netx

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync/atomic"
)

// MultipartBody is a streamed multipart/form-data body carrying a single file part.
// Its length is known up front so callers can set Content-Length and report progress.
type MultipartBody struct {
	io.Reader
	ContentType string
	Length      int64
}

// NewMultipartFile streams r (of exactly size bytes) as the form field named field.
// The file content is never buffered in memory.
func NewMultipartFile(field, filename string, r io.Reader, size int64) (*MultipartBody, error) {
	var head bytes.Buffer
	w := multipart.NewWriter(&head)
	if _, err := w.CreateFormFile(field, filename); err != nil {
		return nil, fmt.Errorf("multipart header: %w", err)
	}
	prefix := append([]byte(nil), head.Bytes()...)

	head.Reset()
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("multipart trailer: %w", err)
	}
	trailer := head.String()

	return &MultipartBody{
		Reader:      io.MultiReader(bytes.NewReader(prefix), r, strings.NewReader(trailer)),
		ContentType: w.FormDataContentType(),
		Length:      int64(len(prefix)) + size + int64(len(trailer)),
	}, nil
}

// ProgressReader reports read progress as a whole percentage of Total.
// OnProgress fires only when the percentage changes.
type ProgressReader struct {
	r          io.Reader
	total      int64
	read       atomic.Int64
	last       atomic.Int64
	onProgress func(percent int)
}

func NewProgressReader(r io.Reader, total int64, onProgress func(percent int)) *ProgressReader {
	p := &ProgressReader{r: r, total: total, onProgress: onProgress}
	p.last.Store(-1)
	return p
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.report(p.read.Add(int64(n)))
	}
	if err == io.EOF {
		p.report(p.total)
	}
	return n, err
}

// Percent returns the current progress (0..100).
func (p *ProgressReader) Percent() int {
	return percent(p.read.Load(), p.total)
}

func (p *ProgressReader) report(read int64) {
	if p.onProgress == nil {
		return
	}
	pct := int64(percent(read, p.total))
	if p.last.Swap(pct) != pct {
		p.onProgress(int(pct))
	}
}

func percent(read, total int64) int {
	if total <= 0 {
		return 100
	}
	if read >= total {
		return 100
	}
	return int(read * 100 / total)
}
