package job

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/talentport/jobsync/internal/domain"
	"github.com/talentport/jobsync/pkg/logging"
)

// decimalIDPattern matches identifiers produced by a legacy random-ID
// generator upstream: all digits with a single decimal point and at least one
// digit after it (e.g. "0.4571"). Such records carry no stable identity and
// cannot be upserted safely.
var decimalIDPattern = regexp.MustCompile(`^\d*\.\d+$`)

// Report counts the records a Process call dropped.
type Report struct {
	Invalid    int
	Duplicates int
}

// Pipeline is the validation and deduplication stage. It is pure: no I/O,
// deterministic for a given input order.
type Pipeline struct {
	logger *logging.Logger
}

func NewPipeline(logger *logging.Logger) *Pipeline {
	return &Pipeline{logger: logger}
}

// Process drops structurally invalid records, computes fingerprints, and
// collapses duplicates. The first record seen for a fingerprint wins, so
// callers control precedence through input order (stored records first, then
// providers in configured order).
func (p *Pipeline) Process(records []domain.JobRecord) ([]domain.JobRecord, Report) {
	var report Report
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.JobRecord, 0, len(records))

	for _, rec := range records {
		rec, ok := p.validate(rec)
		if !ok {
			report.Invalid++
			continue
		}

		rec.Fingerprint = Fingerprint(rec.Title, rec.Company)
		if _, dup := seen[rec.Fingerprint]; dup {
			report.Duplicates++
			continue
		}
		seen[rec.Fingerprint] = struct{}{}
		out = append(out, rec)
	}

	return out, report
}

// validate applies the identifier rule. A record whose SourceID is empty may
// still carry a usable "id" in its raw payload; that value is promoted. A
// record whose only identifier is decimal-looking is rejected outright.
func (p *Pipeline) validate(rec domain.JobRecord) (domain.JobRecord, bool) {
	id := strings.TrimSpace(rec.SourceID)
	if id == "" {
		id = rawID(rec.RawJSON)
	}

	if id == "" || rec.Source == "" {
		p.logger.Warn("dropping record without identifier",
			"provider", rec.Source, "title", rec.Title)
		return rec, false
	}

	if decimalIDPattern.MatchString(id) {
		p.logger.Warn("dropping record with decimal-looking identifier",
			"provider", rec.Source, "title", rec.Title, "id", id)
		return rec, false
	}

	rec.SourceID = id
	return rec, true
}

// rawID pulls a provider "id" field out of the raw payload without mutating it.
func rawID(raw map[string]any) string {
	if raw == nil {
		return ""
	}
	v, ok := raw["id"]
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		// Keep the full representation so a decimal-looking value still
		// trips the identifier rule.
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// Fingerprint derives the dedup key from normalized title and company. Two
// records with equal fingerprints are duplicates regardless of source.
func Fingerprint(title, company string) string {
	return normalize(title) + "|" + normalize(company)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
