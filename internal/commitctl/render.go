package commitctl

import (
	"io"
	"strconv"
	"time"

	"commitbot/internal/models"

	"github.com/olekukonko/tablewriter"
)

// RenderSummary writes one row per aggregate.
func RenderSummary(w io.Writer, aggs []models.PushAggregate) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Username", "User ID", "Commits", "Last commit"})

	for _, agg := range aggs {
		last := "-"
		if n := len(agg.Commits); n > 0 {
			last = agg.Commits[n-1].Timestamp.UTC().Format(time.RFC3339)
		}

		table.Append([]string{
			agg.Username,
			strconv.FormatInt(agg.UserID, 10),
			strconv.Itoa(agg.NumCommits),
			last,
		})
	}

	table.Render()
}

// RenderCommits writes the commit list of one aggregate.
func RenderCommits(w io.Writer, agg models.PushAggregate) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Commit", "Timestamp", "Likes", "URL"})

	for _, c := range agg.Commits {
		table.Append([]string{
			shortSHA(c.ID),
			c.Timestamp.UTC().Format(time.RFC3339),
			strconv.Itoa(c.Likes),
			c.URL,
		})
	}

	table.Render()
}

func shortSHA(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
