package service

import (
	"context"
	"log"

	"kickerledger/internal/cache"
	"kickerledger/internal/model"
	"kickerledger/internal/repository"
)

// ProvenanceIndex finds the most recent match a player took part in
type ProvenanceIndex interface {
	// LatestMatchOf returns nil, nil when the player has no match yet
	LatestMatchOf(ctx context.Context, name string) (*model.Match, error)
}

// ProvenanceRecorder is implemented by indexes that need to hear about new matches
type ProvenanceRecorder interface {
	Record(ctx context.Context, match *model.Match) error
}

// ScanProvenance reads the whole match collection on every lookup
type ScanProvenance struct {
	matchRepo repository.MatchRepo
}

// NewScanProvenance creates a provenance index backed by a full scan
func NewScanProvenance(matchRepo repository.MatchRepo) *ScanProvenance {
	return &ScanProvenance{matchRepo: matchRepo}
}

// LatestMatchOf keeps the first match with the greatest date in store order
func (p *ScanProvenance) LatestMatchOf(ctx context.Context, name string) (*model.Match, error) {
	matches, err := p.matchRepo.List(ctx)
	if err != nil {
		return nil, storeErr("list matches", err)
	}

	var latest *model.Match
	for _, m := range matches {
		if !m.Involves(name) {
			continue
		}
		if latest == nil || m.Date > latest.Date {
			latest = m
		}
	}
	return latest, nil
}

// IndexedProvenance answers from a name -> latest match index and falls
// back to a scan on a miss. The index is only as fresh as the writers that
// maintain it; matches written by other processes are not seen until the
// next miss for that player.
type IndexedProvenance struct {
	scan      *ScanProvenance
	matchRepo repository.MatchRepo
	index     cache.ProvenanceCache
}

// NewIndexedProvenance creates a cached provenance index
func NewIndexedProvenance(matchRepo repository.MatchRepo, index cache.ProvenanceCache) *IndexedProvenance {
	return &IndexedProvenance{
		scan:      NewScanProvenance(matchRepo),
		matchRepo: matchRepo,
		index:     index,
	}
}

func (p *IndexedProvenance) LatestMatchOf(ctx context.Context, name string) (*model.Match, error) {
	id, err := p.index.GetLatest(ctx, name)
	if err != nil {
		log.Printf("provenance: index lookup for %q failed, scanning: %v", name, err)
	}
	if id != "" {
		m, err := p.matchRepo.GetByID(ctx, id)
		if err != nil {
			return nil, storeErr("get match", err)
		}
		if m != nil && m.Involves(name) {
			return m, nil
		}
	}

	m, err := p.scan.LatestMatchOf(ctx, name)
	if err != nil {
		return nil, err
	}
	if m != nil {
		if err := p.index.SetLatest(ctx, name, m.ID); err != nil {
			log.Printf("provenance: seeding index for %q failed: %v", name, err)
		}
	}
	return m, nil
}

// Record points every participant of match at it
func (p *IndexedProvenance) Record(ctx context.Context, match *model.Match) error {
	for _, team := range match.Teams {
		for _, player := range team {
			if err := p.index.SetLatest(ctx, player.Name, match.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
