package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/superodds/superodds/internal/domain"
)

type fakeScraper struct {
	name   string
	events []domain.UnifiedEvent
	err    error
	delay  time.Duration
}

func (f *fakeScraper) Name() string { return f.name }

func (f *fakeScraper) Scrape(ctx context.Context) ([]domain.UnifiedEvent, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.events, f.err
}

type fakeBlob struct {
	mu    sync.Mutex
	paths []string
}

func (f *fakeBlob) Put(_ context.Context, path string, _ io.Reader, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	return nil
}

func (f *fakeBlob) PutMultipart(_ context.Context, path string, _ io.Reader, _ int64) error {
	return f.Put(context.Background(), path, nil, "")
}

func event(id string) domain.UnifiedEvent {
	return domain.UnifiedEvent{NormalizedID: id}
}

func TestCollectSettlesAllProviders(t *testing.T) {
	scrapers := []domain.Scraper{
		&fakeScraper{name: "superbet", events: []domain.UnifiedEvent{event("a"), event("b")}},
		&fakeScraper{name: "sportingbet", err: errors.New("listing 503")},
		&fakeScraper{name: "betmgm", events: []domain.UnifiedEvent{event("a")}},
	}
	c := NewCollector(scrapers, 0, 4, nil, nil)

	snaps := c.Collect(context.Background())
	if len(snaps) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(snaps))
	}
	if snaps[0].Provider != "superbet" || len(snaps[0].Events) != 2 || snaps[0].Err != nil {
		t.Errorf("superbet snapshot = %+v", snaps[0])
	}
	if snaps[1].Provider != "sportingbet" || snaps[1].Err == nil {
		t.Errorf("sportingbet should carry its error, got %+v", snaps[1])
	}
	if snaps[2].Provider != "betmgm" || len(snaps[2].Events) != 1 {
		t.Errorf("betmgm snapshot = %+v", snaps[2])
	}
}

func TestCollectProviderTimeoutIsIsolated(t *testing.T) {
	scrapers := []domain.Scraper{
		&fakeScraper{name: "slow", delay: 500 * time.Millisecond, events: []domain.UnifiedEvent{event("x")}},
		&fakeScraper{name: "fast", events: []domain.UnifiedEvent{event("y")}},
	}
	c := NewCollector(scrapers, 20*time.Millisecond, 4, nil, nil)

	snaps := c.Collect(context.Background())
	if snaps[0].Err == nil {
		t.Error("slow provider should time out")
	}
	if snaps[1].Err != nil || len(snaps[1].Events) != 1 {
		t.Errorf("fast provider should settle cleanly, got %+v", snaps[1])
	}
}

func TestCollectArchivesSuccessfulSnapshots(t *testing.T) {
	blob := &fakeBlob{}
	archiver := NewArchiver(blob, nil)
	archiver.NextCycle()

	scrapers := []domain.Scraper{
		&fakeScraper{name: "superbet", events: []domain.UnifiedEvent{event("a")}},
		&fakeScraper{name: "sportingbet", err: errors.New("down")},
	}
	c := NewCollector(scrapers, 0, 4, archiver, nil)
	c.Collect(context.Background())

	if len(blob.paths) != 1 {
		t.Fatalf("archived objects = %v, want one", blob.paths)
	}
	if !strings.HasPrefix(blob.paths[0], "raw/superbet/") || !strings.HasSuffix(blob.paths[0], "000001.json") {
		t.Errorf("path = %s", blob.paths[0])
	}
}
