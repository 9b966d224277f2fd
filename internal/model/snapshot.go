package model

import "time"

// Snapshot is a published, immutable contributor list.
//
// The scoring backend computes points elsewhere; a maintainer publishes the
// resulting list here so the dashboard has something to render. Snapshots are
// created and deleted, never edited. A new scoring run means a new snapshot.
type Snapshot struct {
	ID           string        `json:"id"`
	Label        string        `json:"label"`
	Contributors []Contributor `json:"contributors"`
	PublishedBy  string        `json:"publishedBy"` // maintainer ID
	CreatedAt    time.Time     `json:"createdAt"`
}

// SnapshotInfo is the listing view of a snapshot: metadata without the
// (potentially large) contributor list.
type SnapshotInfo struct {
	ID               string    `json:"id"`
	Label            string    `json:"label"`
	ContributorCount int       `json:"contributorCount"`
	PublishedBy      string    `json:"publishedBy"`
	CreatedAt        time.Time `json:"createdAt"`
}
