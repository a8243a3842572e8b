package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"courrier-registry/internal/adapters/persistence/repositories"
	"courrier-registry/internal/adapters/storage"

	"github.com/robfig/cron/v3"
)

// AttachmentSweeper removes stored attachments that no courrier references
// any more: files replaced by a re-upload or left behind by a delete.
type AttachmentSweeper struct {
	courriers repositories.CourrierRepository
	store     storage.AttachmentStore
	grace     time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewAttachmentSweeper creates a sweeper. Blobs younger than grace are kept so
// an upload whose row update has not committed yet is never removed.
func NewAttachmentSweeper(courriers repositories.CourrierRepository, store storage.AttachmentStore, grace time.Duration) *AttachmentSweeper {
	return &AttachmentSweeper{
		courriers: courriers,
		store:     store,
		grace:     grace,
		cron:      cron.New(),
		now:       time.Now,
	}
}

// Start schedules Sweep on a cron spec such as "@daily" or "30 2 * * *"
func (s *AttachmentSweeper) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		n, err := s.Sweep(ctx)
		if err != nil {
			log.Printf("❌ Attachment sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Printf("🧹 Attachment sweep removed %d orphaned file(s)", n)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}

	s.cron.Start()
	log.Printf("✅ Attachment sweeper scheduled [%s]", spec)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish
func (s *AttachmentSweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep deletes unreferenced attachments older than the grace period and
// returns how many were removed
func (s *AttachmentSweeper) Sweep(ctx context.Context) (int, error) {
	names, err := s.courriers.ListPdfFiles(ctx)
	if err != nil {
		return 0, err
	}
	referenced := make(map[string]struct{}, len(names))
	for _, n := range names {
		referenced[n] = struct{}{}
	}

	objects, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list attachments: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Name]; ok {
			continue
		}
		if obj.ModTime.After(cutoff) {
			continue
		}
		if err := s.store.Delete(ctx, obj.Name); err != nil {
			log.Printf("⚠️ Failed to delete orphaned attachment %s: %v", obj.Name, err)
			continue
		}
		removed++
	}
	return removed, nil
}
