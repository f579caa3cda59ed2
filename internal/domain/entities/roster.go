package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Roster is the rendered state of an event's participant ledger.
type Roster struct {
	Confirmed []string
	Bench     []string
	Limit     int // 0 = no limit
}

// BuildRoster orders participants by join time (id breaks ties) and splits them into the
// confirmed list and the waiting bench.
func BuildRoster(participants []Participant, limit int) Roster {
	sorted := append([]Participant(nil), participants...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].JoinedAt.Equal(sorted[j].JoinedAt) {
			return sorted[i].JoinedAt.Before(sorted[j].JoinedAt)
		}
		return sorted[i].ID < sorted[j].ID
	})

	r := Roster{Limit: limit}
	for _, p := range sorted {
		if limit > 0 && len(r.Confirmed) >= limit {
			r.Bench = append(r.Bench, p.UserID)
			continue
		}
		r.Confirmed = append(r.Confirmed, p.UserID)
	}
	return r
}

// Count is the number of participants, bench included.
func (r Roster) Count() int {
	return len(r.Confirmed) + len(r.Bench)
}

// Fields renders the trailing participant sections of the announcement.
func (r Roster) Fields() []EmbedField {
	if r.Limit <= 0 {
		return []EmbedField{{
			Name:  fmt.Sprintf("%s (%d)", SectionParticipants, len(r.Confirmed)),
			Value: quoteList(r.Confirmed),
		}}
	}
	return []EmbedField{
		{
			Name:  fmt.Sprintf("%s (%d/%d)", SectionParticipants, len(r.Confirmed), r.Limit),
			Value: quoteList(r.Confirmed),
		},
		{
			Name:  SectionWaitingBench,
			Value: numberedList(r.Bench),
		},
	}
}

func quoteList(ids []string) string {
	if len(ids) == 0 {
		return EmptyFieldValue
	}
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = "> " + UserMention(id)
	}
	return strings.Join(lines, "\n")
}

func numberedList(ids []string) string {
	if len(ids) == 0 {
		return EmptyFieldValue
	}
	lines := make([]string, len(ids))
	for i, id := range ids {
		lines[i] = fmt.Sprintf("%d. %s", i+1, UserMention(id))
	}
	return strings.Join(lines, "\n")
}
