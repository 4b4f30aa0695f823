package ingest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kotoba-works/jasegment/pkg/db"
	"github.com/kotoba-works/jasegment/pkg/dictionary"
	"github.com/kotoba-works/jasegment/pkg/segmenter"
	_ "github.com/mattn/go-sqlite3"
)

func setupDB(t *testing.T) *sql.DB {
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := db.InitDB(conn); err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	return conn
}

type testDictBuilder struct {
	dict *dictionary.Dictionary
	raw  map[uint32]dictionary.JMdictEntry
	next uint32
}

func newTestDictBuilder() *testDictBuilder {
	return &testDictBuilder{dict: dictionary.New(), raw: make(map[uint32]dictionary.JMdictEntry)}
}

func (b *testDictBuilder) addKanji(surface string, pos dictionary.PartOfSpeech) {
	termID := b.next
	b.next++
	idx := uint32(len(b.dict.Entries))
	b.dict.Entries = append(b.dict.Entries, dictionary.DictionaryEntry{TermID: termID, Pos: pos})
	b.dict.Kanji[surface] = append(b.dict.Kanji[surface], dictionary.TermEntry{EntryIndex: idx, InflectionType: dictionary.DictionaryForm})
	b.raw[termID] = dictionary.JMdictEntry{Kanji: []dictionary.JMdictElement{{Text: surface}}}
}

func (b *testDictBuilder) addKana(surface string, pos dictionary.PartOfSpeech) {
	termID := b.next
	b.next++
	idx := uint32(len(b.dict.Entries))
	b.dict.Entries = append(b.dict.Entries, dictionary.DictionaryEntry{TermID: termID, Pos: pos})
	b.dict.Kana[surface] = append(b.dict.Kana[surface], dictionary.TermEntry{EntryIndex: idx, InflectionType: dictionary.DictionaryForm})
	b.raw[termID] = dictionary.JMdictEntry{Kana: []dictionary.JMdictElement{{Text: surface}}}
}

func (b *testDictBuilder) buildResult() *dictionary.BuildResult {
	byTermID := make(map[uint32]*dictionary.DictionaryEntry, len(b.dict.Entries))
	for i := range b.dict.Entries {
		byTermID[b.dict.Entries[i].TermID] = &b.dict.Entries[i]
	}
	return &dictionary.BuildResult{Dictionary: b.dict, ByTermID: byTermID, RawByTermID: b.raw}
}

func newIngesterWithDict(t *testing.T, conn *sql.DB, br *dictionary.BuildResult) *Ingester {
	t.Helper()
	if br == nil {
		br = newTestDictBuilder().buildResult()
	}
	tok := segmenter.New(br.Dictionary)
	return NewIngester(conn, tok, br)
}

func TestIngestResume(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	sourceID, err := db.CreateOrGetSource(conn, "test", "Title", "Author", "Site", "http://test", "")
	if err != nil {
		t.Fatal(err)
	}

	var sentences []string
	for i := 0; i < 10; i++ {
		sentences = append(sentences, "テスト")
	}

	// Manually set progress to index 4 (so 5 sentences processed: 0,1,2,3,4)
	if err := db.UpdateSourceProgress(conn, sourceID, 4); err != nil {
		t.Fatal(err)
	}

	ingester := newIngesterWithDict(t, conn, nil)
	ingester.BatchSize = 2 // Verify batching doesn't interfere

	count, err := ingester.Ingest(context.Background(), sourceID, sentences)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// We expect sentences 5,6,7,8,9 to be processed. (5 occurrences of テスト).
	if count != 5 {
		t.Errorf("Expected 5 linked items, got %d", count)
	}
}

func TestIngestContextCancel(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()
	sourceID, _ := db.CreateOrGetSource(conn, "test", "Title", "", "", "http://test2", "")

	sentences := make([]string, 100)
	for i := range sentences {
		sentences[i] = "テスト"
	}

	ingester := newIngesterWithDict(t, conn, nil)
	ingester.BatchSize = 10

	// Create a context that is ALREADY canceled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	count, err := ingester.Ingest(ctx, sourceID, sentences)

	if count != 0 {
		t.Errorf("Expected 0 linked items with cancelled context, got %d", count)
	}
	if err != context.Canceled {
		t.Errorf("Expected context.Canceled error, got %v", err)
	}
}

func TestIngestNormalizationAndFiltering(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	sourceID, err := db.CreateOrGetSource(conn, "test", "NormTitle", "Author", "Site", "http://norm", "")
	if err != nil {
		t.Fatal(err)
	}

	b := newTestDictBuilder()
	b.addKanji("手紙", dictionary.Noun)
	b.addKana("を", dictionary.Particle)
	b.addKanji("書く", dictionary.TransitiveVerb)

	sentences := []string{"手紙を書く"}

	ingester := newIngesterWithDict(t, conn, b.buildResult())
	count, err := ingester.Ingest(context.Background(), sourceID, sentences)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	// We expect 2 words linked: "手紙" and "書く". "を" is filtered as a particle.
	if count != 2 {
		t.Errorf("Expected 2 linked words, got %d", count)
	}

	rows, err := conn.Query("SELECT word FROM words ORDER BY id")
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			t.Fatal(err)
		}
		words = append(words, w)
	}

	expected := []string{"手紙", "書く"}
	if len(words) != len(expected) {
		t.Fatalf("Expected %d words in DB, got %d: %v", len(expected), len(words), words)
	}
	for i, w := range words {
		if w != expected[i] {
			t.Errorf("Expected word %d to be %s, got %s", i, expected[i], w)
		}
	}
}

func TestIngestDuplicateContext(t *testing.T) {
	conn := setupDB(t)
	defer conn.Close()

	sourceID, err := db.CreateOrGetSource(conn, "test", "DuplicateTest", "Author", "Site", "http://dup", "")
	if err != nil {
		t.Fatal(err)
	}

	b := newTestDictBuilder()
	b.addKanji("猫", dictionary.Noun)
	b.addKana("は", dictionary.Particle)

	sentenceText := "猫は猫"
	sentences := []string{sentenceText}

	ingester := newIngesterWithDict(t, conn, b.buildResult())
	ingester.BatchSize = 10

	countProcessed, err := ingester.Ingest(context.Background(), sourceID, sentences)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if countProcessed != 2 {
		t.Errorf("Expected 2 processed occurrences, got %d", countProcessed)
	}

	var wordSourceID int64
	var count int
	err = conn.QueryRow(`
		SELECT ws.id, ws.occurrence_count
		FROM word_sources ws
		JOIN words w ON ws.word_id = w.id
		WHERE w.word = '猫' AND ws.source_id = ?`, sourceID).Scan(&wordSourceID, &count)
	if err != nil {
		t.Fatalf("Failed to query word_sources: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected occurrence_count 2 for '猫', got %d", count)
	}

	var contextCount int
	err = conn.QueryRow(`SELECT COUNT(*) FROM word_contexts WHERE word_source_id = ?`, wordSourceID).Scan(&contextCount)
	if err != nil {
		t.Fatalf("Failed to query word_contexts: %v", err)
	}
	if contextCount != 1 {
		t.Errorf("Expected 1 context sentence, got %d", contextCount)
	}
}
