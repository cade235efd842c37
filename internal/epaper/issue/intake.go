// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/patrikahq/patrika/internal/platform/apperr"
)

// # PDF Intake
//
// Both intake paths (direct bytes and remote URL) funnel through the same
// two checks: the size ceiling and the PDF magic prefix. Remote fetches
// additionally reject responses whose declared Content-Type is neither a
// PDF nor a generic binary stream, before the body is buffered.

// pdfMagic is the mandatory file-signature prefix of a PDF document.
const pdfMagic = "%PDF-"

// Intake validates and fetches issue PDFs.
type Intake struct {
	maxBytes int64
	client   *http.Client
}

// NewIntake constructs an [Intake] with the given size ceiling in bytes.
//
// The embedded HTTP client refuses connections to loopback, private,
// link-local and unspecified addresses at dial time, so neither DNS
// tricks nor redirects can steer a fetch into internal infrastructure.
func NewIntake(maxBytes int64) *Intake {
	dialer := &net.Dialer{
		Timeout: 15 * time.Second,
		Control: guardDial,
	}

	return &Intake{
		maxBytes: maxBytes,
		client: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				MaxIdleConns:        4,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

/*
FromBytes validates a directly uploaded PDF payload.

Parameters:
  - data: []byte (the uploaded body)

Returns:
  - error: apperr.ValidationError (empty), apperr.SizeLimit (over ceiling)
    or apperr.UnsupportedType (not a PDF)
*/
func (intake *Intake) FromBytes(data []byte) error {
	if len(data) == 0 {
		return apperr.ValidationError("Uploaded file is empty")
	}
	if int64(len(data)) > intake.maxBytes {
		return apperr.SizeLimit(fmt.Sprintf("PDF exceeds the %d byte limit", intake.maxBytes))
	}
	if !strings.HasPrefix(string(data[:min(len(data), len(pdfMagic))]), pdfMagic) {
		return apperr.UnsupportedType("File is not a PDF")
	}
	return nil
}

/*
FromURL downloads an issue PDF from a remote source.

Description: Accepts absolute http/https URLs only. Responses declaring a
non-PDF Content-Type are rejected before the body is read. The download is
read through a hard limit one byte past the ceiling, so an oversized body
is rejected without ever buffering it fully. The fetched bytes then pass
the same checks as a direct upload.

Parameters:
  - context: context.Context
  - rawURL: string (the remote PDF location)

Returns:
  - []byte: The validated PDF bytes
  - error: apperr.ValidationError (bad URL), apperr.UpstreamFailure
    (unreachable or non-2xx source), apperr.SizeLimit, apperr.UnsupportedType
*/
func (intake *Intake) FromURL(context context.Context, rawURL string) ([]byte, error) {

	// URL shape validation before any network activity
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, apperr.ValidationError("sourceUrl must be an absolute URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, apperr.ValidationError("sourceUrl must use http or https")
	}

	request, err := http.NewRequestWithContext(context, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.ValidationError("sourceUrl is not a valid URL")
	}
	request.Header.Set("Accept", "application/pdf")

	response, err := intake.client.Do(request)
	if err != nil {
		return nil, apperr.UpstreamFailure("Failed to fetch source PDF", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, apperr.UpstreamFailure(
			fmt.Sprintf("Source returned HTTP %d", response.StatusCode), nil)
	}

	// Refuse obviously wrong payloads (HTML error pages, images) before
	// buffering anything. An absent header is tolerated: plenty of archive
	// servers omit it, and the magic-byte check still has the final say.
	if err := checkSourceContentType(response.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	// Read one byte past the ceiling to distinguish "at limit" from "over"
	data, err := io.ReadAll(io.LimitReader(response.Body, intake.maxBytes+1))
	if err != nil {
		return nil, apperr.UpstreamFailure("Failed to read source PDF", err)
	}
	if int64(len(data)) > intake.maxBytes {
		return nil, apperr.SizeLimit(fmt.Sprintf("Source PDF exceeds the %d byte limit", intake.maxBytes))
	}

	if err := intake.FromBytes(data); err != nil {
		return nil, err
	}
	return data, nil
}

// checkSourceContentType gates a remote response on its declared media
// type. Only "application/pdf" and the generic "application/octet-stream"
// pass; an empty or unparsable header passes too.
func checkSourceContentType(header string) error {
	if header == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return nil
	}
	switch mediaType {
	case "application/pdf", "application/octet-stream":
		return nil
	}
	return apperr.UnsupportedType(fmt.Sprintf("Source served %q, not a PDF", mediaType))
}

// guardDial rejects dials to addresses inside the deployment perimeter.
// Running at the socket layer catches DNS rebinding as well as redirects,
// since the check sees the address actually being connected to.
func guardDial(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("intake: malformed dial address %q", address)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return fmt.Errorf("intake: non-IP dial address %q", host)
	}
	if isInternalIP(ip) {
		return fmt.Errorf("intake: refusing to fetch from internal address %s", ip)
	}
	return nil
}

// isInternalIP reports whether ip must never be fetched from.
func isInternalIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
