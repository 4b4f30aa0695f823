// Command jasegment fetches a URL, extracts its readable article text,
// segments it against a JMdict-simplified dictionary, and persists word
// occurrences into a SQLite database.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/kotoba-works/jasegment/pkg/db"
	"github.com/kotoba-works/jasegment/pkg/dictionary"
	"github.com/kotoba-works/jasegment/pkg/document"
	"github.com/kotoba-works/jasegment/pkg/ingest"
	"github.com/kotoba-works/jasegment/pkg/logging"
	"github.com/kotoba-works/jasegment/pkg/segmenter"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	urlFlag := flag.String("url", "", "URL to fetch and segment")
	dbFlag := flag.String("db", "jasegment.db", "path to SQLite database")
	dictFlag := flag.String("dict", "jmdict-eng-common.json", "path to a JMdict-simplified JSON file (auto-downloaded if missing)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *urlFlag == "" {
		log.Fatal("please provide -url")
	}

	conn, err := sql.Open("sqlite3", *dbFlag)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer conn.Close()

	if err := db.InitDB(conn); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	fmt.Printf("Database initialized at %s\n", *dbFlag)

	if err := dictionary.EnsureDictionary(ctx, *dictFlag); err != nil {
		log.Fatalf("failed to ensure dictionary at %s: %v", *dictFlag, err)
	}

	fmt.Println("Loading dictionary into memory...")
	start := time.Now()
	rawEntries, err := dictionary.LoadJMdictSimplified(*dictFlag)
	if err != nil {
		log.Fatalf("failed to load dictionary: %v", err)
	}
	built, err := dictionary.Build(rawEntries)
	if err != nil {
		log.Fatalf("failed to build dictionary: %v", err)
	}
	fmt.Printf("Dictionary built (%d entries) in %v\n", len(built.Dictionary.Entries), time.Since(start))

	fmt.Printf("Fetching %s...\n", *urlFlag)
	bodyBytes, err := fetchURL(ctx, *urlFlag)
	if err != nil {
		log.Fatalf("failed to fetch URL: %v", err)
	}

	bodyBytes = document.SanitizeRuby(bodyBytes)

	parsedURL, _ := url.Parse(*urlFlag)
	article, err := readability.FromReader(bytes.NewReader(bodyBytes), parsedURL)
	if err != nil {
		log.Fatalf("failed to extract article: %v", err)
	}

	fmt.Printf("Title: %s\n", article.Title)
	fmt.Printf("Extracted text length: %d chars\n", len(article.TextContent))

	sourceID, err := db.CreateOrGetSource(conn, "website_article", article.Title, article.Byline, article.SiteName, *urlFlag, "")
	if err != nil {
		log.Fatalf("failed to persist source: %v", err)
	}
	fmt.Printf("Source saved with ID: %d\n", sourceID)

	tok := segmenter.New(built.Dictionary)
	sentences := document.SplitSentences(article.TextContent)
	fmt.Printf("Split into %d sentences.\n", len(sentences))

	ingester := ingest.NewIngester(conn, tok, built)
	logger := log.New(os.Stdout, "", 0)
	ingester.Logger = logger
	ingester.OnProgress = func(current, total int) {
		logging.Get().Info().Int("current", current).Int("total", total).Msg("ingest progress")
	}

	linkCount, err := ingester.Ingest(ctx, sourceID, sentences)
	if err != nil {
		log.Fatalf("ingestion failed: %v", err)
	}

	fmt.Printf("Processing complete. Linked %d word occurrences.\n", linkCount)
}

// maxBodySize bounds how much of a fetched page is read into memory, so an
// untrusted URL cannot exhaust memory via an unbounded or mislabeled
// Content-Length response.
const maxBodySize = 10 * 1024 * 1024

// fetchURL retrieves url with a browser-mimicking request (some sites
// reject requests that look like bots) and enforces maxBodySize.
func fetchURL(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("got status code %d", resp.StatusCode)
	}

	if resp.ContentLength > int64(maxBodySize) {
		return nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) >= int64(maxBodySize) {
		return nil, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}
	return body, nil
}
