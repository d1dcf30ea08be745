package pushevent

import (
	"fmt"
	"strings"
	"time"

	"commitbot/internal/models"
)

// shaPlaceholderLen is the length of the trailing "{/sha}" template segment
// on a repository's commits_url.
const shaPlaceholderLen = len("{/sha}")

// FromJSON decodes and normalizes a raw push body.
func FromJSON(body []byte) (models.PushRecord, error) {
	p, err := Decode(body)
	if err != nil {
		return models.PushRecord{}, err
	}
	return Normalize(p)
}

// Normalize converts a push payload into a PushRecord. Non-distinct commits
// are dropped and excluded from NumCommits. Nothing is returned unless the
// whole payload is valid.
func Normalize(p Payload) (models.PushRecord, error) {
	if err := p.Validate(); err != nil {
		return models.PushRecord{}, err
	}

	base := p.Repository.CommitsURL[:len(p.Repository.CommitsURL)-shaPlaceholderLen]

	commits := make([]models.CommitEntry, 0, len(p.Commits))
	discarded := 0

	for i, c := range p.Commits {
		if !*c.Distinct {
			discarded++
			continue
		}

		ts, err := parseTimestamp(c.Timestamp)
		if err != nil {
			return models.PushRecord{}, malformed(fmt.Sprintf("commits[%d].timestamp", i), "not an ISO 8601 time: %q", c.Timestamp)
		}

		commits = append(commits, models.CommitEntry{
			ID:        c.ID,
			URL:       CommitURL(base, c.ID),
			Likes:     0,
			Timestamp: ts,
		})
	}

	return models.PushRecord{
		RepoOwner:    p.Repository.Owner.Login,
		RepoFullName: p.Repository.FullName,
		RepoName:     p.Repository.Name,
		RepoID:       *p.Repository.ID,
		RepoURL:      p.Repository.HTMLURL,
		Username:     p.Sender.Login,
		UserID:       *p.Sender.ID,
		NumCommits:   len(p.Commits) - discarded,
		Commits:      commits,
		Discarded:    discarded,
	}, nil
}

// CommitURL joins a commits collection URL, already stripped of its
// placeholder, with a commit id.
func CommitURL(base, id string) string {
	return base + "/" + id
}

// localTimeLayout is an ISO 8601 date-time without a UTC offset.
const localTimeLayout = "2006-01-02T15:04:05"

// parseTimestamp reads an RFC 3339 time. A time without an offset is taken
// as UTC.
func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err == nil {
		return ts, nil
	}

	if local, lerr := time.Parse(localTimeLayout, raw); lerr == nil {
		return local, nil
	}
	return time.Time{}, err
}
