package news

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/phuslu/log"

	"github.com/mind-engage/greenscore/internal/region"
	"github.com/mind-engage/greenscore/internal/scoring"
)

// Entry is the classification of one region.
type Entry struct {
	Infrastructure  string `json:"infrastructure"`
	RenewableEnergy string `json:"renewable_energy"`
}

// Table maps regions to their classification. It is never modified after
// BuildTable returns.
type Table struct {
	entries map[string]Entry
	builtAt time.Time
}

// NewTable builds a table from explicit entries.
func NewTable(entries map[string]Entry, builtAt time.Time) *Table {
	m := make(map[string]Entry, len(entries))
	for k, v := range entries {
		m[region.Normalize(k)] = v
	}
	return &Table{entries: m, builtAt: builtAt}
}

// Lookup returns the entry for name, or Not Available for both fields.
func (t *Table) Lookup(name string) Entry {
	if t != nil {
		if e, ok := t.entries[region.Normalize(name)]; ok {
			return e
		}
	}
	return Entry{Infrastructure: scoring.NotAvailable, RenewableEnergy: scoring.NotAvailable}
}

func (t *Table) BuiltAt() time.Time { return t.builtAt }

func (t *Table) Len() int { return len(t.entries) }

// Sources configures a table build.
type Sources struct {
	NewsSites   []string
	EnergySites []string
	Infra       *Classifier
	Energy      *Classifier
}

// BuildTable scrapes both site lists once and classifies a random headline
// for every region.
func BuildTable(ctx context.Context, s *Scraper, src Sources, regions []string) *Table {
	if src.Infra == nil {
		src.Infra = NewClassifier(GreenInfrastructure(), nil)
	}
	if src.Energy == nil {
		src.Energy = NewClassifier(RenewableEnergy(), nil)
	}
	articles := s.Headlines(ctx, src.NewsSites)
	energy := s.Headlines(ctx, src.EnergySites)

	entries := make(map[string]Entry, len(regions))
	for _, r := range regions {
		entries[r] = Entry{
			Infrastructure:  src.Infra.Classify(articles),
			RenewableEnergy: src.Energy.Classify(energy),
		}
	}
	log.Info().Int("regions", len(regions)).Int("headlines", len(articles)).Int("energy_headlines", len(energy)).Msg("news table built")
	return NewTable(entries, time.Now())
}

// Holder publishes the current Table. Readers always see a complete table.
type Holder struct {
	p atomic.Pointer[Table]
}

func NewHolder(t *Table) *Holder {
	h := &Holder{}
	h.p.Store(t)
	return h
}

// Load returns the current table; it may be nil before the first Store.
func (h *Holder) Load() *Table { return h.p.Load() }

func (h *Holder) Store(t *Table) { h.p.Store(t) }
