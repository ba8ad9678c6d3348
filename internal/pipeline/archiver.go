package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/superodds/superodds/internal/domain"
)

// multipartThreshold is the payload size above which uploads switch to the
// multipart path.
const multipartThreshold = 8 << 20

// Archiver dumps each provider's canonicalized snapshot to object storage,
// one object per provider per cycle, under
// raw/<provider>/<yyyy-mm-dd>/<cycle>.json.
type Archiver struct {
	blobs domain.BlobWriter
	cycle atomic.Int64
	log   *slog.Logger
}

func NewArchiver(blobs domain.BlobWriter, log *slog.Logger) *Archiver {
	if log == nil {
		log = slog.Default()
	}
	return &Archiver{
		blobs: blobs,
		log:   log.With(slog.String("component", "archiver")),
	}
}

// NextCycle advances the cycle counter. The orchestrator calls it once per
// refresh tick so every provider object of one cycle shares a suffix.
func (a *Archiver) NextCycle() int64 {
	return a.cycle.Add(1)
}

// ArchiveSnapshot uploads one provider's snapshot for the current cycle.
func (a *Archiver) ArchiveSnapshot(ctx context.Context, provider string, events []domain.UnifiedEvent) error {
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("archiver: marshal %s snapshot: %w", provider, err)
	}

	now := time.Now().UTC()
	path := fmt.Sprintf("raw/%s/%s/%06d.json", provider, now.Format("2006-01-02"), a.cycle.Load())

	if len(payload) > multipartThreshold {
		err = a.blobs.PutMultipart(ctx, path, bytes.NewReader(payload), 5<<20)
	} else {
		err = a.blobs.Put(ctx, path, bytes.NewReader(payload), "application/json")
	}
	if err != nil {
		return fmt.Errorf("archiver: upload %s: %w", path, err)
	}

	a.log.Debug("archived snapshot",
		slog.String("provider", provider),
		slog.String("path", path),
		slog.Int("bytes", len(payload)))
	return nil
}
