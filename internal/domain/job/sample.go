package job

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentport/jobsync/internal/domain"
)

// sampleRecords synthesizes a small fixed fallback set. It is only used when
// every upstream source came back empty, so the read path degrades to
// placeholder listings instead of a hard empty answer during an outage.
func sampleRecords(query, location, country string) []domain.JobRecord {
	now := time.Now().UTC()
	if location == "" {
		location = "Remote"
	}

	seeds := []struct {
		title   string
		company string
		salary  string
	}{
		{"Software Engineer", "Acme Labs", "90000 - 120000"},
		{"Backend Developer", "Northwind Systems", "85000 - 110000"},
		{"Platform Engineer", "Initech Cloud", ""},
	}

	out := make([]domain.JobRecord, 0, len(seeds))
	for _, s := range seeds {
		out = append(out, domain.JobRecord{
			SourceID:    uuid.NewString(),
			Source:      domain.SourceSample,
			Title:       s.title,
			Company:     s.company,
			Location:    location,
			Country:     country,
			Description: "Placeholder listing shown while job sources are unavailable. Query: " + query,
			Salary:      s.salary,
			PostedAt:    now,
		})
	}
	return out
}
