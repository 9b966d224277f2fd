// Package stats derives the people-stats summary from a contributor list.
//
// Everything here is a pure function of its inputs: the contributor slice and the
// instant treated as "now". Nothing is cached, logged or mutated, so the same
// input always produces the same Summary and callers may compute it as often as
// they render.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/Atharva7126/community-dashboard/internal/model"
)

// Ranking limits.
const (
	TopRolesLimit         = 5
	TopContributorsLimit  = 5
	TopActivityTypesLimit = 4

	// RecentWindow is how far back an active day still counts as "this week".
	RecentWindow = 7 * 24 * time.Hour

	// UnknownRole labels contributors with an empty role.
	UnknownRole = "Unknown"
)

// RoleCount is one entry of the role distribution.
type RoleCount struct {
	Role  string `json:"role"`
	Count int    `json:"count"`
}

// ActivityTypeTotal is an activity type summed across all contributors.
type ActivityTypeTotal struct {
	Type     string   `json:"type"`
	Count    int      `json:"count"`
	Points   int      `json:"points"`
	Category Category `json:"category"`
}

// Summary holds every metric the dashboard shows.
//
// Averages and rates are rounded half-up and are 0, never NaN, when there are
// no contributors.
type Summary struct {
	TotalContributors int                            `json:"totalContributors"`
	TotalPoints       int                            `json:"totalPoints"`
	AveragePoints     int                            `json:"averagePoints"`
	RoleDistribution  map[string]int                 `json:"roleDistribution"`
	TopRoles          []RoleCount                    `json:"topRoles"`
	TotalActivities   int                            `json:"totalActivities"`
	AverageActivities int                            `json:"averageActivities"`
	TopContributors   []model.Contributor            `json:"topContributors"`
	AverageActiveDays int                            `json:"averageActiveDays"`
	RecentlyActive    int                            `json:"recentlyActive"`
	WeeklyActiveRate  int                            `json:"weeklyActiveRate"` // percent of contributors
	ActivityTypes     map[string]model.ActivityTotal `json:"activityTypes"`
	TopActivityTypes  []ActivityTypeTotal            `json:"topActivityTypes"`
	GeneratedAt       time.Time                      `json:"generatedAt"`
}

// Compute builds the Summary for contributors as of now.
//
// The contributors slice is only read. Ranking works on copies so callers never
// observe their list reordered.
func Compute(contributors []model.Contributor, now time.Time) Summary {
	total := len(contributors)
	cutoff := now.Add(-RecentWindow)

	s := Summary{
		TotalContributors: total,
		RoleDistribution:  make(map[string]int),
		ActivityTypes:     make(map[string]model.ActivityTotal),
		GeneratedAt:       now,
	}

	// First-seen order of map keys, used to break ranking ties the same way
	// every time.
	var roleOrder, typeOrder []string
	activeDays := 0

	for _, c := range contributors {
		s.TotalPoints += c.TotalPoints
		activeDays += len(c.DailyActivity)

		role := c.Role
		if role == "" {
			role = UnknownRole
		}
		if _, seen := s.RoleDistribution[role]; !seen {
			roleOrder = append(roleOrder, role)
		}
		s.RoleDistribution[role]++

		for _, activityType := range sortedKeys(c.ActivityBreakdown) {
			act := c.ActivityBreakdown[activityType]
			s.TotalActivities += act.Count

			agg, seen := s.ActivityTypes[activityType]
			if !seen {
				typeOrder = append(typeOrder, activityType)
			}
			agg.Count += act.Count
			agg.Points += act.Points
			s.ActivityTypes[activityType] = agg
		}

		if activeSince(c, cutoff) {
			s.RecentlyActive++
		}
	}

	s.AveragePoints = ratio(s.TotalPoints, total)
	s.AverageActiveDays = ratio(activeDays, total)
	s.AverageActivities = ratio(s.TotalActivities, total)
	s.WeeklyActiveRate = ratio(s.RecentlyActive*100, total)

	s.TopRoles = topRoles(s.RoleDistribution, roleOrder)
	s.TopContributors = TopContributors(contributors, TopContributorsLimit)
	s.TopActivityTypes = topActivityTypes(s.ActivityTypes, typeOrder)

	return s
}

// TopContributors returns up to limit contributors ordered by total points,
// highest first. Equal scores keep their input order. The input is not modified.
func TopContributors(contributors []model.Contributor, limit int) []model.Contributor {
	ranked := make([]model.Contributor, len(contributors))
	copy(ranked, contributors)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})

	if limit >= 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func topRoles(dist map[string]int, order []string) []RoleCount {
	roles := make([]RoleCount, 0, len(order))
	for _, role := range order {
		roles = append(roles, RoleCount{Role: role, Count: dist[role]})
	}

	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Count > roles[j].Count
	})

	if len(roles) > TopRolesLimit {
		roles = roles[:TopRolesLimit]
	}
	return roles
}

func topActivityTypes(types map[string]model.ActivityTotal, order []string) []ActivityTypeTotal {
	out := make([]ActivityTypeTotal, 0, len(order))
	for _, name := range order {
		agg := types[name]
		out = append(out, ActivityTypeTotal{
			Type:     name,
			Count:    agg.Count,
			Points:   agg.Points,
			Category: Categorize(name),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})

	if len(out) > TopActivityTypesLimit {
		out = out[:TopActivityTypesLimit]
	}
	return out
}

// activeSince reports whether any of c's active days falls on or after cutoff.
func activeSince(c model.Contributor, cutoff time.Time) bool {
	for _, day := range c.DailyActivity {
		d, ok := ParseDay(day.Date)
		if ok && !d.Before(cutoff) {
			return true
		}
	}
	return false
}

// dayLayouts are tried in order by ParseDay. A bare date is read as UTC midnight.
var dayLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

// ParseDay parses an ISO date or timestamp. ok is false for anything else.
func ParseDay(s string) (time.Time, bool) {
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ratio returns round(n / d), or 0 when d is 0.
func ratio(n, d int) int {
	if d == 0 {
		return 0
	}
	return roundHalfUp(float64(n) / float64(d))
}

// roundHalfUp rounds .5 towards positive infinity (2.5 → 3, -2.5 → -2).
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// sortedKeys gives map iteration a fixed order so first-seen tie breaking is
// deterministic within a single contributor's breakdown.
func sortedKeys(m map[string]model.ActivityTotal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
