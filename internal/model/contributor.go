// Package model holds the records shared by every layer: contributors as the
// scoring backend reports them, published snapshots of them, and maintainers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Contributor is one member of the tracked community, as handed to the dashboard
// by whatever system computed the points. The dashboard never modifies it.
//
// The JSON tags use snake_case because contributor lists are produced by an
// external scoring backend that speaks that convention, e.g.
//
//	{"username":"octo","total_points":120,"activity_breakdown":{"commit":{"count":3,"points":30}}}
//
// NULL TOLERANCE:
// encoding/json leaves a field at its zero value when the JSON value is null or
// missing. That gives us "missing total_points counts as 0" for free.
type Contributor struct {
	Username          string                   `json:"username"`
	Name              string                   `json:"name,omitempty"`
	AvatarURL         string                   `json:"avatar_url"`
	Role              string                   `json:"role"`
	TotalPoints       int                      `json:"total_points"`
	ActivityBreakdown map[string]ActivityTotal `json:"activity_breakdown"`
	DailyActivity     []DailyActivity          `json:"daily_activity"`
}

// ActivityTotal is how many times an activity happened and the points it earned.
type ActivityTotal struct {
	Count  int `json:"count"`
	Points int `json:"points"`
}

// DailyActivity is a single active day. Date is an ISO string ("2024-03-01" or a
// full RFC 3339 timestamp); entries are not guaranteed to be sorted or contiguous.
type DailyActivity struct {
	Date   string `json:"date"`
	Count  int    `json:"count"`
	Points int    `json:"points"`
}

// DisplayName returns the contributor's name, falling back to the username.
func (c Contributor) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Username
}

// ActiveDays is the number of recorded active days.
func (c Contributor) ActiveDays() int {
	return len(c.DailyActivity)
}

// contributorEnvelope is the object form of a contributor list file.
type contributorEnvelope struct {
	Contributors []Contributor `json:"contributors"`
}

// DecodeContributors reads a contributor list from r.
//
// Two shapes are accepted:
//
//	[ {...}, {...} ]                 ← bare array
//	{"contributors": [ {...} ]}      ← envelope, as returned by most APIs
//
// An empty document or a JSON null yields an empty (non-nil) list.
func DecodeContributors(r io.Reader) ([]Contributor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("model: reading contributors: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []Contributor{}, nil
	}

	var list []Contributor
	if data[0] == '[' {
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("model: decoding contributor array: %w", err)
		}
	} else {
		var env contributorEnvelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("model: decoding contributor envelope: %w", err)
		}
		list = env.Contributors
	}

	if list == nil {
		list = []Contributor{}
	}
	return list, nil
}
