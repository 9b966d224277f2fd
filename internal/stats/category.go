package stats

import "strings"

// Category groups activity-type labels for display.
type Category string

// Activity categories.
const (
	CategoryCommit      Category = "commit"
	CategoryPullRequest Category = "pull_request"
	CategoryIssue       Category = "issue"
	CategoryOther       Category = "other"
)

// Icon names understood by the dashboard templates.
const (
	IconCommit      = "git-commit"
	IconPullRequest = "git-pull-request"
	IconActivity    = "activity"
)

// Categorize maps an activity-type label to a Category by case-insensitive
// substring match. Rules are checked in order, so "commit_pr" is a commit.
//
// Note that "pr" matches anywhere in the label ("approve" is a pull request).
func Categorize(label string) Category {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "commit"):
		return CategoryCommit
	case strings.Contains(l, "pr"), strings.Contains(l, "pull"):
		return CategoryPullRequest
	case strings.Contains(l, "issue"):
		return CategoryIssue
	default:
		return CategoryOther
	}
}

// Icon returns the icon name for c. Issues share the generic activity icon.
func (c Category) Icon() string {
	switch c {
	case CategoryCommit:
		return IconCommit
	case CategoryPullRequest:
		return IconPullRequest
	default:
		return IconActivity
	}
}

// Tier is the visual rank tier of a top-contributor row.
type Tier string

// Rank tiers.
const (
	TierGold     Tier = "gold"
	TierSilver   Tier = "silver"
	TierBronze   Tier = "bronze"
	TierStandard Tier = "standard"
)

// TierForRank returns the tier for a zero-based rank index.
func TierForRank(index int) Tier {
	switch index {
	case 0:
		return TierGold
	case 1:
		return TierSilver
	case 2:
		return TierBronze
	default:
		return TierStandard
	}
}
