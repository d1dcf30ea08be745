package models

import "time"

// CommitEntry is one distinct commit kept on an aggregate.
type CommitEntry struct {
	ID        string    `json:"id" bson:"id"`
	URL       string    `json:"url" bson:"url"`
	Likes     int       `json:"likes" bson:"likes"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// PushAggregate is the stored per-(repository, user) record of accepted commits.
type PushAggregate struct {
	RepoOwner    string        `json:"repo_owner" bson:"repo_owner"`
	RepoFullName string        `json:"repo_full_name" bson:"repo_full_name"`
	RepoName     string        `json:"repo_name" bson:"repo_name"`
	RepoID       int64         `json:"repo_id" bson:"repo_id"`
	RepoURL      string        `json:"repo_url" bson:"repo_url"`
	Username     string        `json:"username" bson:"username"`
	UserID       int64         `json:"user_id" bson:"user_id"`
	NumCommits   int           `json:"num_commits" bson:"num_commits"`
	Commits      []CommitEntry `json:"commits" bson:"commits"`
}

// PushRecord is the normalized form of a single push delivery.
type PushRecord struct {
	RepoOwner    string
	RepoFullName string
	RepoName     string
	RepoID       int64
	RepoURL      string
	Username     string
	UserID       int64
	NumCommits   int
	Commits      []CommitEntry

	// Discarded counts the non-distinct commits dropped from the payload.
	Discarded int
}

// Aggregate returns the document inserted when the pair has not been seen yet.
func (r PushRecord) Aggregate() PushAggregate {
	commits := r.Commits
	if commits == nil {
		commits = []CommitEntry{}
	}

	return PushAggregate{
		RepoOwner:    r.RepoOwner,
		RepoFullName: r.RepoFullName,
		RepoName:     r.RepoName,
		RepoID:       r.RepoID,
		RepoURL:      r.RepoURL,
		Username:     r.Username,
		UserID:       r.UserID,
		NumCommits:   r.NumCommits,
		Commits:      commits,
	}
}
