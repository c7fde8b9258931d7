// Diagnostic tool for ingest URL lists: checks every URL in a list file for
// reachability, redirects, content type, and response size, and prints a
// per-URL report plus a summary. Useful before pointing the batch worker at
// a new list.
//
// Usage: go run scripts/diagnose_urls.go urls.txt [--json]
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

// URLDiagnostic represents the diagnostic result for a single URL.
type URLDiagnostic struct {
	URL           string `json:"url"`
	Status        string `json:"status"` // "OK", "HTTP_ERROR", "TIMEOUT", "REDIRECT", "NOT_HTML", "ERROR"
	HTTPCode      int    `json:"http_code"`
	ContentType   string `json:"content_type"`
	FinalURL      string `json:"final_url,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	ResponseTime  int64  `json:"response_time_ms"`
	ContentLength int64  `json:"content_length"`
}

const (
	requestTimeout = 15 * time.Second
	maxBodyBytes   = 5 * 1024 * 1024
	userAgent      = "Mozilla/5.0 (compatible; pagegate-diagnose/1.0)"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run scripts/diagnose_urls.go <url-list-file> [--json]")
		os.Exit(1)
	}
	listPath := os.Args[1]
	jsonOutput := len(os.Args) > 2 && os.Args[2] == "--json"

	urls, err := readList(listPath)
	if err != nil {
		log.Fatalf("failed to read url list: %v", err)
	}

	client := &http.Client{
		Timeout: requestTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	results := make([]URLDiagnostic, 0, len(urls))
	for _, u := range urls {
		results = append(results, diagnose(client, u))
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			log.Fatalf("failed to encode results: %v", err)
		}
		return
	}

	printReport(results)
}

func diagnose(client *http.Client, rawURL string) URLDiagnostic {
	diag := URLDiagnostic{URL: rawURL}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		diag.Status = "ERROR"
		diag.ErrorMessage = err.Error()
		return diag
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := client.Do(req)
	diag.ResponseTime = time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			diag.Status = "TIMEOUT"
		} else {
			diag.Status = "ERROR"
		}
		diag.ErrorMessage = err.Error()
		return diag
	}
	defer resp.Body.Close()

	diag.HTTPCode = resp.StatusCode
	diag.ContentType = resp.Header.Get("Content-Type")
	if resp.Request.URL.String() != rawURL {
		diag.FinalURL = resp.Request.URL.String()
	}

	n, _ := io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	diag.ContentLength = n

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		diag.Status = "REDIRECT"
		diag.ErrorMessage = fmt.Sprintf("stopped at redirect to %s", resp.Header.Get("Location"))
	case resp.StatusCode != http.StatusOK:
		diag.Status = "HTTP_ERROR"
	case !strings.Contains(diag.ContentType, "html"):
		diag.Status = "NOT_HTML"
	default:
		diag.Status = "OK"
	}

	return diag
}

func readList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func printReport(results []URLDiagnostic) {
	counts := map[string]int{}
	for _, r := range results {
		counts[r.Status]++

		fmt.Printf("%-10s %4d %6dms %8dB  %s\n", r.Status, r.HTTPCode, r.ResponseTime, r.ContentLength, r.URL)
		if r.FinalURL != "" {
			fmt.Printf("%27s -> %s\n", "", r.FinalURL)
		}
		if r.ErrorMessage != "" {
			fmt.Printf("%27s    %s\n", "", r.ErrorMessage)
		}
	}

	fmt.Printf("\nTotal: %d", len(results))
	for _, status := range []string{"OK", "REDIRECT", "HTTP_ERROR", "NOT_HTML", "TIMEOUT", "ERROR"} {
		if counts[status] > 0 {
			fmt.Printf("  %s: %d", status, counts[status])
		}
	}
	fmt.Println()
}
