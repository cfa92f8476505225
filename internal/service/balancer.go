package service

import (
	"github.com/aidar/courtmatch/internal/domain"
)

const (
	// DefaultScopeCap is the number of earliest-queued candidates considered by the exhaustive search
	DefaultScopeCap = 8

	// MaxExhaustiveScope is the largest scope searched combinatorially.
	// A larger configured scope switches the balancer to FIFO grouping.
	MaxExhaustiveScope = 12
)

// splits lists the distinct ways to divide a group into two teams, by index within the group
var splits = map[int][][2][]int{
	2: {
		{{0}, {1}},
	},
	4: {
		{{0, 1}, {2, 3}},
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
	},
}

// Grouping is a balanced division of candidates into two teams
type Grouping struct {
	TeamA      []*domain.Member
	TeamB      []*domain.Member
	PowerDelta int
}

// TeamBalancer selects the group of queued members with the smallest power imbalance
type TeamBalancer struct {
	power    domain.PowerModel
	scopeCap int
}

// NewTeamBalancer creates a new TeamBalancer. A non-positive scopeCap falls back to DefaultScopeCap
func NewTeamBalancer(power domain.PowerModel, scopeCap int) *TeamBalancer {
	if power == nil {
		power = domain.DefaultPowerModel()
	}
	if scopeCap <= 0 {
		scopeCap = DefaultScopeCap
	}
	return &TeamBalancer{
		power:    power,
		scopeCap: scopeCap,
	}
}

// ScopeCap returns the number of candidates the balancer looks at
func (b *TeamBalancer) ScopeCap() int {
	return b.scopeCap
}

// BuildBalancedGroup picks teams from candidates ordered by queue priority.
// Candidates beyond the scope cap are ignored. Among equally balanced groupings
// the first one in enumeration order wins.
func (b *TeamBalancer) BuildBalancedGroup(candidates []*domain.Member, matchType domain.MatchType) (*Grouping, error) {
	groupSize := matchType.GroupSize()

	scope := candidates
	if len(scope) > b.scopeCap {
		scope = scope[:b.scopeCap]
	}
	if len(scope) < groupSize {
		return nil, domain.ErrNotEnoughPlayers
	}

	if b.scopeCap > MaxExhaustiveScope {
		return b.bestSplit(scope[:groupSize]), nil
	}

	var best *Grouping
	forEachCombination(len(scope), groupSize, func(idx []int) {
		group := make([]*domain.Member, groupSize)
		for i, j := range idx {
			group[i] = scope[j]
		}
		if g := b.bestSplit(group); best == nil || g.PowerDelta < best.PowerDelta {
			best = g
		}
	})

	return best, nil
}

// bestSplit evaluates every split of a fixed group
func (b *TeamBalancer) bestSplit(group []*domain.Member) *Grouping {
	var best *Grouping
	for _, split := range splits[len(group)] {
		teamA := pick(group, split[0])
		teamB := pick(group, split[1])
		delta := abs(b.teamPower(teamA) - b.teamPower(teamB))
		if best == nil || delta < best.PowerDelta {
			best = &Grouping{TeamA: teamA, TeamB: teamB, PowerDelta: delta}
		}
	}
	return best
}

func (b *TeamBalancer) teamPower(team []*domain.Member) int {
	total := 0
	for _, m := range team {
		total += b.power.Power(m.Level)
	}
	return total
}

// forEachCombination calls fn for every k-subset of [0, n) in lexicographic order.
// The slice passed to fn is reused between calls.
func forEachCombination(n, k int, fn func(idx []int)) {
	if k > n || k <= 0 {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func pick(group []*domain.Member, idx []int) []*domain.Member {
	res := make([]*domain.Member, len(idx))
	for i, j := range idx {
		res[i] = group[j]
	}
	return res
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
