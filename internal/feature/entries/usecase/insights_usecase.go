package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"auratrack_backend/internal/feature/entries/domain/entity"
)

const (
	// DefaultInsightsWindow is used when the caller supplies no range.
	DefaultInsightsWindow = 30 * 24 * time.Hour
	topTriggersLimit      = 5
)

// TriggerCount is the number of episodes tagged with a trigger.
type TriggerCount struct {
	Trigger string
	Count   int
}

// Insights summarizes the episodes of a window.
type Insights struct {
	From             time.Time
	To               time.Time
	TotalEpisodes    int
	AvgIntensity     float64
	AuraRatePercent  int
	TopTriggers      []TriggerCount
	DaysWithEpisodes int
}

// insightsUsecase computes summary statistics over the query result set.
type insightsUsecase struct {
	lister EntryLister
	now    func() time.Time
}

// NewInsightsUsecase creates a new instance of insightsUsecase.
func NewInsightsUsecase(lister EntryLister) *insightsUsecase {
	return &insightsUsecase{
		lister: lister,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Summarize computes insights for owner within [from, to].
// Zero bounds default to the last 30 days ending now.
func (u *insightsUsecase) Summarize(ctx context.Context, owner string, from, to time.Time) (*Insights, error) {
	if to.IsZero() {
		to = u.now()
	}
	if from.IsZero() {
		from = to.Add(-DefaultInsightsWindow)
	}

	entries, err := u.lister.List(ctx, entity.Filter{Username: owner, From: from, To: to})
	if err != nil {
		return nil, err
	}
	out := computeInsights(entries)
	out.From, out.To = from, to
	return out, nil
}

func computeInsights(entries []entity.Entry) *Insights {
	out := &Insights{TopTriggers: []TriggerCount{}}
	if len(entries) == 0 {
		return out
	}

	var sum, aura int
	triggers := map[string]int{}
	days := map[string]struct{}{}
	for i := range entries {
		e := &entries[i]
		sum += e.Intensity
		if e.Symptoms.Aura {
			aura++
		}
		for _, t := range e.Triggers {
			triggers[t]++
		}
		days[e.StartedAt.UTC().Format("2006-01-02")] = struct{}{}
	}

	n := len(entries)
	out.TotalEpisodes = n
	out.AvgIntensity = math.Round(float64(sum)/float64(n)*10) / 10
	out.AuraRatePercent = int(math.Round(float64(aura) / float64(n) * 100))
	out.DaysWithEpisodes = len(days)

	for t, c := range triggers {
		out.TopTriggers = append(out.TopTriggers, TriggerCount{Trigger: t, Count: c})
	}
	sort.Slice(out.TopTriggers, func(i, j int) bool {
		a, b := out.TopTriggers[i], out.TopTriggers[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Trigger < b.Trigger
	})
	if len(out.TopTriggers) > topTriggersLimit {
		out.TopTriggers = out.TopTriggers[:topTriggersLimit]
	}
	return out
}
