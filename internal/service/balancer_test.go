package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/courtmatch/internal/domain"
)

func members(levels ...domain.Level) []*domain.Member {
	res := make([]*domain.Member, len(levels))
	for i, l := range levels {
		res[i] = &domain.Member{ID: fmt.Sprintf("m%d", i), Level: l, Gender: domain.GenderMale}
	}
	return res
}

func ids(ms []*domain.Member) []string {
	res := make([]string, len(ms))
	for i, m := range ms {
		res[i] = m.ID
	}
	return res
}

func TestBuildBalancedGroup_OneAdvancedThreeCasual(t *testing.T) {
	b := NewTeamBalancer(domain.DefaultPowerModel(), DefaultScopeCap)

	g, err := b.BuildBalancedGroup(members(
		domain.LevelAdvanced, domain.LevelCasual, domain.LevelCasual, domain.LevelCasual,
	), domain.MatchTypeDoubles)
	require.NoError(t, err)

	// all three splits tie at 40, the first enumerated one wins
	assert.Equal(t, 40, g.PowerDelta)
	assert.Equal(t, []string{"m0", "m1"}, ids(g.TeamA))
	assert.Equal(t, []string{"m2", "m3"}, ids(g.TeamB))
}

func TestBuildBalancedGroup_PrefersBalancedSplit(t *testing.T) {
	b := NewTeamBalancer(domain.DefaultPowerModel(), DefaultScopeCap)

	// 90+50 vs 90+50 is reachable with 02|13 and 03|12, the earlier split wins
	g, err := b.BuildBalancedGroup(members(
		domain.LevelAdvanced, domain.LevelAdvanced, domain.LevelCasual, domain.LevelCasual,
	), domain.MatchTypeDoubles)
	require.NoError(t, err)

	assert.Equal(t, 0, g.PowerDelta)
	assert.Equal(t, []string{"m0", "m2"}, ids(g.TeamA))
	assert.Equal(t, []string{"m1", "m3"}, ids(g.TeamB))
}

func TestBuildBalancedGroup_MissingLevelCountsAsCasual(t *testing.T) {
	b := NewTeamBalancer(domain.DefaultPowerModel(), DefaultScopeCap)

	g, err := b.BuildBalancedGroup(members("", "UNKNOWN", domain.LevelCasual, domain.LevelCasual), domain.MatchTypeDoubles)
	require.NoError(t, err)
	assert.Equal(t, 0, g.PowerDelta)
}

func TestBuildBalancedGroup_InsufficientCandidates(t *testing.T) {
	b := NewTeamBalancer(nil, 0)

	tests := []struct {
		name      string
		count     int
		matchType domain.MatchType
	}{
		{"no candidates doubles", 0, domain.MatchTypeDoubles},
		{"three candidates doubles", 3, domain.MatchTypeDoubles},
		{"one candidate singles", 1, domain.MatchTypeSingles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			levels := make([]domain.Level, tt.count)
			for i := range levels {
				levels[i] = domain.LevelCasual
			}
			_, err := b.BuildBalancedGroup(members(levels...), tt.matchType)
			assert.ErrorIs(t, err, domain.ErrNotEnoughPlayers)
			assert.ErrorIs(t, err, domain.ErrInsufficientCandidates)
		})
	}
}

func TestBuildBalancedGroup_ScopeCapIgnoresLateCandidates(t *testing.T) {
	b := NewTeamBalancer(domain.DefaultPowerModel(), 4)

	// the perfect pair of advanced players sits beyond the scope
	g, err := b.BuildBalancedGroup(members(
		domain.LevelAdvanced, domain.LevelCasual, domain.LevelCasual, domain.LevelBeginner,
		domain.LevelAdvanced, domain.LevelAdvanced,
	), domain.MatchTypeDoubles)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"m0", "m1", "m2", "m3"}, append(ids(g.TeamA), ids(g.TeamB)...))
	assert.Equal(t, 30, g.PowerDelta) // 90+50 vs 50+60
}

func TestBuildBalancedGroup_Singles(t *testing.T) {
	b := NewTeamBalancer(domain.DefaultPowerModel(), DefaultScopeCap)

	g, err := b.BuildBalancedGroup(members(
		domain.LevelAdvanced, domain.LevelCasual, domain.LevelIntermediate, domain.LevelBeginner, domain.LevelCasual,
	), domain.MatchTypeSingles)
	require.NoError(t, err)

	assert.Equal(t, 0, g.PowerDelta)
	assert.Equal(t, []string{"m1"}, ids(g.TeamA))
	assert.Equal(t, []string{"m4"}, ids(g.TeamB))
}

func TestBuildBalancedGroup_GreedyFallback(t *testing.T) {
	b := NewTeamBalancer(domain.DefaultPowerModel(), MaxExhaustiveScope+1)

	g, err := b.BuildBalancedGroup(members(
		domain.LevelAdvanced, domain.LevelCasual, domain.LevelCasual, domain.LevelCasual,
		domain.LevelAdvanced,
	), domain.MatchTypeDoubles)
	require.NoError(t, err)

	// only the first four queued candidates are grouped
	assert.Equal(t, []string{"m0", "m1"}, ids(g.TeamA))
	assert.Equal(t, []string{"m2", "m3"}, ids(g.TeamB))
	assert.Equal(t, 40, g.PowerDelta)
}

func TestBuildBalancedGroup_MatchesBruteForce(t *testing.T) {
	pm := domain.DefaultPowerModel()
	b := NewTeamBalancer(pm, DefaultScopeCap)

	inputs := [][]domain.Level{
		{domain.LevelAdvanced, domain.LevelBeginner, domain.LevelIntermediate, domain.LevelCasual, domain.LevelAdvanced},
		{domain.LevelCasual, domain.LevelCasual, domain.LevelAdvanced, domain.LevelIntermediate, domain.LevelBeginner, domain.LevelBeginner},
		{domain.LevelAdvanced, domain.LevelAdvanced, domain.LevelAdvanced, domain.LevelIntermediate, domain.LevelBeginner, domain.LevelCasual, domain.LevelCasual, domain.LevelIntermediate},
		{domain.LevelIntermediate, domain.LevelIntermediate, domain.LevelIntermediate, domain.LevelIntermediate, domain.LevelAdvanced, domain.LevelAdvanced, domain.LevelAdvanced, domain.LevelAdvanced, domain.LevelCasual},
	}

	for i, levels := range inputs {
		t.Run(fmt.Sprintf("input %d", i), func(t *testing.T) {
			cands := members(levels...)
			g, err := b.BuildBalancedGroup(cands, domain.MatchTypeDoubles)
			require.NoError(t, err)

			scope := cands
			if len(scope) > DefaultScopeCap {
				scope = scope[:DefaultScopeCap]
			}

			power := func(ms ...*domain.Member) int {
				total := 0
				for _, m := range ms {
					total += pm.Power(m.Level)
				}
				return total
			}

			best := -1
			n := len(scope)
			for a := 0; a < n; a++ {
				for bb := a + 1; bb < n; bb++ {
					for c := bb + 1; c < n; c++ {
						for d := c + 1; d < n; d++ {
							p := []*domain.Member{scope[a], scope[bb], scope[c], scope[d]}
							for _, diff := range []int{
								abs(power(p[0], p[1]) - power(p[2], p[3])),
								abs(power(p[0], p[2]) - power(p[1], p[3])),
								abs(power(p[0], p[3]) - power(p[1], p[2])),
							} {
								if best < 0 || diff < best {
									best = diff
								}
							}
						}
					}
				}
			}

			assert.Equal(t, best, g.PowerDelta)
			assert.Equal(t, g.PowerDelta, abs(power(g.TeamA...)-power(g.TeamB...)))
			assert.Len(t, g.TeamA, 2)
			assert.Len(t, g.TeamB, 2)
		})
	}
}

func TestForEachCombination(t *testing.T) {
	var got [][]int
	forEachCombination(4, 2, func(idx []int) {
		got = append(got, append([]int(nil), idx...))
	})

	assert.Equal(t, [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}, got)

	count := 0
	forEachCombination(8, 4, func([]int) { count++ })
	assert.Equal(t, 70, count)
}
