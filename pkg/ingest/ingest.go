package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kotoba-works/jasegment/pkg/category"
	"github.com/kotoba-works/jasegment/pkg/db"
	"github.com/kotoba-works/jasegment/pkg/dictionary"
	"github.com/kotoba-works/jasegment/pkg/segmenter"
)

// WorkerPoolInterface is the subset of WorkerPool's behavior Ingester
// depends on, so tests can substitute a pool that fails in controlled ways.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	Submit(job Job) error
	Close()
}

// Ingester handles the ingestion of sentences into the database.
type Ingester struct {
	DB        *sql.DB
	Tokenizer *segmenter.Tokenizer
	Dict      *dictionary.BuildResult
	BatchSize int
	// Logger is used for informational messages (e.g. resume status). nil means no logging.
	Logger *log.Logger
	// OnProgress is called periodically with the number of processed sentences and total sentences.
	OnProgress func(current, total int)

	// Concurrency settings
	Workers int

	// PoolFactory builds the WorkerPool used by Ingest. nil means NewWorkerPool.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates a new Ingester.
func NewIngester(conn *sql.DB, tok *segmenter.Tokenizer, dict *dictionary.BuildResult) *Ingester {
	return &Ingester{
		DB:        conn,
		Tokenizer: tok,
		Dict:      dict,
		BatchSize: 50,
		Workers:   4, // Default worker count
	}
}

// wordData holds prepared data for a single word occurrence in a sentence.
type wordData struct {
	Word        string
	Reading     string
	Definitions string
	Count       int
	TermID      *uint32
}

// processedSentence holds the result of processing a sentence before DB ingestion
type processedSentence struct {
	Index    int
	Sentence string
	Words    []wordData
	Error    error
}

// asciiOnly matches surfaces made up entirely of ASCII letters, digits,
// whitespace and punctuation — not worth persisting as Japanese vocabulary.
var asciiOnly = regexp.MustCompile(`^[a-zA-Z0-9\s[:punct:]]+$`)

// Ingest segments and persists sentences using concurrent workers and batched writes.
// It supports resuming from the last checkpoint using the sourceID.
func (ig *Ingester) Ingest(ctx context.Context, sourceID int64, sentences []string) (int, error) {
	// Check progress
	lastProcessed, err := db.GetSourceProgress(ig.DB, sourceID)
	if err != nil {
		if ig.Logger != nil {
			ig.Logger.Printf("Warning: Failed to retrieve progress: %v", err)
		}
		lastProcessed = -1
	}

	if lastProcessed >= 0 {
		if ig.Logger != nil {
			ig.Logger.Printf("Resuming from sentence index %d (skipping %d messages)\n", lastProcessed+1, lastProcessed+1)
		}
	}

	totalSentences := len(sentences)
	startIdx := lastProcessed + 1
	if startIdx >= totalSentences {
		return 0, nil // Nothing to do
	}

	// 1. Setup concurrency components
	poolFactory := ig.PoolFactory
	if poolFactory == nil {
		poolFactory = func(workers, queue int) WorkerPoolInterface { return NewWorkerPool(workers, queue) }
	}
	wp := poolFactory(ig.Workers, ig.Workers*2)
	resultCh := make(chan processedSentence, ig.Workers*2)

	// Link tracker
	var totalLinks int64

	// BatchWriter for DB operations
	// Flush every BatchSize or 100ms to ensure progress
	bw := NewBatchWriter(ig.DB, ig.BatchSize, 100*time.Millisecond)
	// Capture first error seen in batch writer
	var batchErr error
	var batchErrMu sync.Mutex
	bw.OnError = func(e error) {
		batchErrMu.Lock()
		if batchErr == nil {
			batchErr = e
		}
		batchErrMu.Unlock()
	}

	defer bw.Close()
	defer wp.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wp.Start(ctx)

	// 2. Start result consumer (reordering and submission)
	doneCh := make(chan error, 1)

	go func() {
		defer close(doneCh)
		buffer := make(map[int]processedSentence)
		nextIdx := startIdx

		for i := 0; i < totalSentences-startIdx; i++ {
			select {
			case <-ctx.Done():
				doneCh <- ctx.Err()
				return
			case res := <-resultCh:
				if res.Error != nil {
					doneCh <- res.Error
					return
				}
				buffer[res.Index] = res

				// Process contiguous finished items
				for {
					item, ok := buffer[nextIdx]
					if !ok {
						break
					}
					delete(buffer, nextIdx)

					currentItem := item
					err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
						for _, w := range currentItem.Words {
							wordID, err := db.CreateOrGetWord(tx, w.Word, w.Word, w.Reading, w.Definitions, "ja", w.TermID)
							if err != nil {
								return fmt.Errorf("failed to persist word %s: %w", w.Word, err)
							}
							if err := db.LinkWordToSource(tx, wordID, sourceID, currentItem.Sentence, currentItem.Sentence, w.Count); err != nil {
								return fmt.Errorf("failed to link word %d: %w", wordID, err)
							}
							atomic.AddInt64(&totalLinks, int64(w.Count))
						}
						if err := db.UpdateSourceProgress(tx, sourceID, currentItem.Index); err != nil {
							return fmt.Errorf("failed to save progress: %w", err)
						}
						return nil
					})

					if err != nil {
						doneCh <- err
						return
					}

					if ig.OnProgress != nil && (nextIdx+1)%ig.BatchSize == 0 {
						ig.OnProgress(nextIdx+1, totalSentences)
					}
					nextIdx++
				}
			}
		}
		if ig.OnProgress != nil {
			ig.OnProgress(totalSentences, totalSentences)
		}
		doneCh <- nil
	}()

	// 3. Producer loop: Submit tokenization jobs
Loop:
	for i := startIdx; i < totalSentences; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		idx := i
		sent := sentences[i]

		err := wp.Submit(func(ctx context.Context) error {
			res := ig.processSentence(idx, sent)

			select {
			case resultCh <- res:
			case <-ctx.Done():
			}
			return nil
		})

		if err != nil {
			return 0, err
		}
	}

	consumerErr := <-doneCh

	if err := bw.Close(); err != nil {
		if consumerErr == nil {
			consumerErr = err
		}
	}

	batchErrMu.Lock()
	if batchErr != nil && consumerErr == nil {
		consumerErr = batchErr
	}
	batchErrMu.Unlock()

	return int(atomic.LoadInt64(&totalLinks)), consumerErr
}

// skipCategory reports the name of the unknown-word fallback category the
// surface's first code point belongs to, or "" if none match. Used to drop
// space/symbol/numeric spans the same way the teacher dropped
// ASCII-punctuation-only surfaces via a regex.
func skipCategory(surface string) string {
	for _, r := range surface {
		for _, c := range category.CharCategories {
			if c.Func(r) {
				return c.Name
			}
		}
		break
	}
	return ""
}

// processSentence performs the CPU-heavy segmentation and dictionary lookup
// for one sentence, aggregating repeated surfaces into occurrence counts.
func (ig *Ingester) processSentence(index int, sentence string) processedSentence {
	tokens := ig.Tokenizer.Tokenize(sentence)

	wordCounts := make(map[string]int)
	wordTermID := make(map[string]*uint32)
	var orderedWords []string

	for _, tok := range tokens {
		if tok.Surface == "" {
			continue
		}

		if tok.TermID != nil {
			entry := ig.Dict.ByTermID[*tok.TermID]
			if entry != nil {
				if entry.Pos.IsParticle() {
					continue
				}
				if entry.Pos.Contains(dictionary.Auxiliary) || entry.Pos.Contains(dictionary.AuxiliaryVerb) {
					continue
				}
				if entry.Pos.Contains(dictionary.Numeric) {
					continue
				}
			}
		} else {
			switch skipCategory(tok.Surface) {
			case "space", "symbol", "numeric":
				continue
			}
		}

		if asciiOnly.MatchString(tok.Surface) {
			continue
		}

		if _, exists := wordCounts[tok.Surface]; !exists {
			wordCounts[tok.Surface] = 0
			wordTermID[tok.Surface] = tok.TermID
			orderedWords = append(orderedWords, tok.Surface)
		}
		wordCounts[tok.Surface]++
	}

	var words []wordData
	for _, surface := range orderedWords {
		termID := wordTermID[surface]
		reading := ""
		definitions := ""

		if termID != nil {
			if raw, ok := ig.Dict.RawByTermID[*termID]; ok {
				if d, err := dictionary.FormatDefinitions([]dictionary.JMdictEntry{raw}); err == nil {
					definitions = d
				}
				reading = primaryReading(raw)
			}
		}

		words = append(words, wordData{
			Word:        surface,
			Reading:     reading,
			Definitions: definitions,
			Count:       wordCounts[surface],
			TermID:      termID,
		})
	}

	return processedSentence{
		Index:    index,
		Sentence: sentence,
		Words:    words,
	}
}

// primaryReading picks the entry's preferred kana reading, preferring a kana
// element marked common, falling back to the first one listed.
func primaryReading(e dictionary.JMdictEntry) string {
	if len(e.Kana) == 0 {
		return ""
	}
	for _, k := range e.Kana {
		if k.Common {
			return dictionary.ToHiragana(k.Text)
		}
	}
	return dictionary.ToHiragana(e.Kana[0].Text)
}
