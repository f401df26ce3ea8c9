package documents_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/healthportal/internal/documents"
	"github.com/samandr77/healthportal/internal/entity"
)

func docIDs(docs []entity.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.ID)
	}

	return out
}

func TestFilter(t *testing.T) {
	t.Parallel()

	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }

	docs := []entity.Document{
		{ID: "a", Name: "Blood panel", Type: entity.DocTypeLabReport, Status: entity.DocStatusPending, CreatedAt: day(1, 9)},
		{ID: "b", Name: "Chest X-ray", Type: entity.DocTypeScan, Status: entity.DocStatusDoctorReview, CreatedAt: day(4, 23)},
		{ID: "c", Name: "Amoxicillin", Type: entity.DocTypePrescription, Status: entity.DocStatusApproved, CreatedAt: day(11, 0)},
		{ID: "d", Name: "Discharge note", Type: entity.DocTypeOther, Status: entity.DocStatusPending, CreatedAt: day(11, 18)},
	}

	tests := []struct {
		name string
		c    documents.Criteria
		want []string
	}{
		{name: "empty criteria", want: []string{"a", "b", "c", "d"}},
		{name: "all status", c: documents.Criteria{Status: documents.StatusAll}, want: []string{"a", "b", "c", "d"}},
		{name: "search name case insensitive", c: documents.Criteria{Search: "  CHEST "}, want: []string{"b"}},
		{name: "search type", c: documents.Criteria{Search: "lab rep"}, want: []string{"a"}},
		{name: "status", c: documents.Criteria{Status: "Pending"}, want: []string{"a", "d"}},
		{name: "inclusive range", c: documents.Criteria{StartDate: "2026-03-04", EndDate: "2026-03-11"}, want: []string{"b", "c", "d"}},
		{name: "start only", c: documents.Criteria{StartDate: "2026-03-05"}, want: []string{"c", "d"}},
		{name: "end only", c: documents.Criteria{EndDate: "2026-03-01"}, want: []string{"a"}},
		{
			name: "location shifts calendar day",
			c:    documents.Criteria{StartDate: "2026-03-05", EndDate: "2026-03-05", Location: time.FixedZone("UTC+3", 3*3600)},
			want: []string{"b"},
		},
		{name: "malformed date ignored", c: documents.Criteria{StartDate: "03/05/2026"}, want: []string{"a", "b", "c", "d"}},
		{name: "combined", c: documents.Criteria{Search: "o", Status: "Pending", StartDate: "2026-03-02"}, want: []string{"d"}},
		{name: "no match", c: documents.Criteria{Search: "mri"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, docIDs(documents.Filter(docs, tt.c)))
		})
	}
}

func TestCriteria_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, documents.Criteria{}.Validate())
	require.NoError(t, documents.Criteria{StartDate: "2026-01-01", EndDate: "2026-01-01"}.Validate())
	require.ErrorIs(t, documents.Criteria{StartDate: "yesterday"}.Validate(), entity.ErrValidation)
	require.ErrorIs(t, documents.Criteria{EndDate: "2026-13-01"}.Validate(), entity.ErrValidation)
	require.ErrorIs(t, documents.Criteria{StartDate: "2026-02-01", EndDate: "2026-01-01"}.Validate(), entity.ErrValidation)
}

func TestSelection(t *testing.T) {
	t.Parallel()

	visible := []entity.Document{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	s := documents.NewSelection()

	s.Toggle("b")
	s.Toggle("a")
	require.Equal(t, []string{"a", "b"}, s.IDs())

	s.Toggle("b")
	require.False(t, s.Contains("b"))
	require.Equal(t, 1, s.Len())

	s.ToggleAll(visible)
	require.Equal(t, []string{"a", "b", "c"}, s.IDs())

	s.ToggleAll(visible)
	require.Zero(t, s.Len())

	// size equality alone decides, even when the ids differ
	s.Toggle("x")
	s.ToggleAll(visible[:1])
	require.Zero(t, s.Len())

	s.Toggle("a")
	s.Clear()
	require.Empty(t, s.IDs())

	// from empty, toggle-all is its own inverse
	s.ToggleAll(visible)
	s.ToggleAll(visible)
	require.Zero(t, s.Len())

	// from a partial selection it is not: the first call selects everything
	s.Toggle("a")
	s.ToggleAll(visible)
	s.ToggleAll(visible)
	require.Zero(t, s.Len())
	require.False(t, s.Contains("a"))
}
