package documents

import (
	"strings"
	"time"

	"github.com/samandr77/healthportal/internal/entity"
)

const (
	StatusAll  = "All"
	dateLayout = "2006-01-02"
)

// Criteria narrows a document list. Zero values match everything.
// Dates are calendar days (YYYY-MM-DD) compared inclusively in Location, UTC when nil.
type Criteria struct {
	Search    string
	Status    string
	StartDate string
	EndDate   string
	Location  *time.Location
}

func (c Criteria) Validate() error {
	start, err := parseDay(c.StartDate)
	if err != nil {
		return entity.NewValidationError("startDate", "Please enter the start date as YYYY-MM-DD")
	}

	end, err := parseDay(c.EndDate)
	if err != nil {
		return entity.NewValidationError("endDate", "Please enter the end date as YYYY-MM-DD")
	}

	if start != "" && end != "" && start > end {
		return entity.NewValidationError("endDate", "End date must not be before the start date")
	}

	return nil
}

// Filter returns the documents matching every criterion in their original order. Malformed dates are ignored.
func Filter(docs []entity.Document, c Criteria) []entity.Document {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	start, _ := parseDay(c.StartDate)
	end, _ := parseDay(c.EndDate)

	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}

	out := make([]entity.Document, 0, len(docs))

	for _, d := range docs {
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Name), search) &&
			!strings.Contains(strings.ToLower(string(d.Type)), search) {
			continue
		}

		if c.Status != "" && c.Status != StatusAll && string(d.Status) != c.Status {
			continue
		}

		day := d.CreatedAt.In(loc).Format(dateLayout)

		if start != "" && day < start {
			continue
		}

		if end != "" && day > end {
			continue
		}

		out = append(out, d)
	}

	return out
}

// parseDay returns s normalized to YYYY-MM-DD, or "" when s is empty.
func parseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", err
	}

	return t.Format(dateLayout), nil
}
