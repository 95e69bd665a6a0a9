// Package report renders assessments as GFM markdown and HTML pages and
// archives them in a blob store.
package report

import (
	"bytes"
	"fmt"
	"html"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/mind-engage/greenscore/internal/assess"
	"github.com/mind-engage/greenscore/internal/region"
	"github.com/mind-engage/greenscore/internal/scoring"
	"github.com/mind-engage/greenscore/internal/storage"
)

const prefix = "reports"

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Markdown renders a as a markdown document.
func Markdown(a assess.Assessment) string {
	var b strings.Builder
	title := a.Title
	if title == "" {
		title = region.Title(a.Region)
	}
	fmt.Fprintf(&b, "# Green investment score: %s\n\n", title)
	if a.Period != "" {
		fmt.Fprintf(&b, "Observation period %s", a.Period)
		if a.RunID != "" {
			fmt.Fprintf(&b, ", run `%s`", a.RunID)
		}
		b.WriteString(".\n\n")
	}

	bd := a.Breakdown
	fmt.Fprintf(&b, "**Composite %.1f (%s)** at %s risk.\n\n", bd.CompositeScore, bd.Rating, bd.RiskLevel)

	b.WriteString("| Component | Score | Weight |\n|---|---:|---:|\n")
	fmt.Fprintf(&b, "| Environmental | %.1f | %.2f |\n", bd.EnvironmentalScore, bd.Weights.Environmental)
	fmt.Fprintf(&b, "| Poverty | %.1f | %.2f |\n", bd.PovertyScore, bd.Weights.Poverty)
	fmt.Fprintf(&b, "| Cost benefit | %.1f | %.2f |\n\n", bd.CostBenefitScore, bd.Weights.Cost)

	if len(bd.Components) > 0 {
		kinds := make([]string, 0, len(bd.Components))
		for k := range bd.Components {
			if k == scoring.Poverty {
				continue
			}
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)
		b.WriteString("## Indicators\n\n| Indicator | Reading | Score |\n|---|---:|---:|\n")
		for _, k := range kinds {
			kind := scoring.IndicatorKind(k)
			reading := fmt.Sprintf("%g", a.Indicators.Value(kind))
			if a.Indicators.IsMissing(kind) {
				reading = "missing"
			}
			fmt.Fprintf(&b, "| %s | %s | %.1f |\n", k, reading, bd.Components[kind])
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Infrastructure: **%s** (cost rating %.1f). Data completeness %.0f%%.\n\n",
		bd.Infrastructure, bd.InfrastructureCostRating, bd.Completeness*100)

	p, roi := a.Parameters, a.Projection
	b.WriteString("## Return projection\n\n| | |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Amount | %.2f |\n", p.Amount)
	fmt.Fprintf(&b, "| Term (years) | %d |\n", p.Term)
	fmt.Fprintf(&b, "| Annual return | %.2f%% |\n", roi.AnnualReturnRatePct)
	fmt.Fprintf(&b, "| Total ROI | %.2f%% |\n", roi.TotalROIPct)
	fmt.Fprintf(&b, "| Total return | %.2f |\n", roi.TotalReturn)
	fmt.Fprintf(&b, "| Net profit | %.2f |\n", roi.NetProfit)
	fmt.Fprintf(&b, "| Implementation cost | %.2f |\n", roi.ImplementationCost)

	if len(bd.Substitutions) > 0 {
		b.WriteString("\n## Substituted values\n\n")
		for _, s := range bd.Substitutions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}

// HTML renders a as a standalone HTML page.
func HTML(a assess.Assessment) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(a)), &body); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	title := a.Title
	if title == "" {
		title = region.Title(a.Region)
	}
	var out bytes.Buffer
	out.WriteString("<!doctype html><html><head><meta charset='utf-8'><title>")
	out.WriteString(html.EscapeString(title))
	out.WriteString("</title><style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto}" +
		"table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:.25rem .5rem}</style></head><body>")
	out.Write(body.Bytes())
	out.WriteString("</body></html>")
	return out.Bytes(), nil
}

// Key is the archive key for a's report.
func Key(a assess.Assessment) string {
	run := a.RunID
	if run == "" {
		run = "latest"
	}
	return path.Join(prefix, slug(a.Region), run+".html")
}

func slug(name string) string {
	return strings.ReplaceAll(region.Normalize(name), " ", "-")
}

type Archiver struct {
	store storage.BlobStore
}

func NewArchiver(store storage.BlobStore) *Archiver {
	return &Archiver{store: store}
}

// Archive renders a and stores it, returning the stored key.
func (r *Archiver) Archive(a assess.Assessment) (string, error) {
	page, err := HTML(a)
	if err != nil {
		return "", err
	}
	return r.store.Put(Key(a), bytes.NewReader(page))
}

// List returns the archived report keys for a region, newest last by key.
func (r *Archiver) List(name string) ([]string, error) {
	return r.store.List(path.Join(prefix, slug(name)))
}

// Open returns the stored page for key.
func (r *Archiver) Open(key string) ([]byte, error) {
	rc, err := r.store.Get(key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
