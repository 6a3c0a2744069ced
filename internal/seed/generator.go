// Package seed generates plausible competition data for local setups and
// integration tests.
package seed

import (
	"fmt"
	"time"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	criteriondomain "github.com/Black-And-White-Club/competition-marking/app/modules/criterion/domain"
	rounddomain "github.com/Black-And-White-Club/competition-marking/app/modules/round/domain"
	teamdomain "github.com/Black-And-White-Club/competition-marking/app/modules/team/domain"
	userdomain "github.com/Black-And-White-Club/competition-marking/app/modules/user/domain"
	"github.com/brianvoe/gofakeit/v7"
)

// Generator builds valid profiles. The same seed yields the same data.
type Generator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewGenerator creates a generator. Without a seed the current time is used.
func NewGenerator(seed ...uint64) *Generator {
	s := uint64(time.Now().UnixNano())
	if len(seed) > 0 {
		s = seed[0]
	}
	return &Generator{faker: gofakeit.New(s), seed: s}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Teams returns count team profiles numbered from 1, capped at the highest
// allowed team number.
func (g *Generator) Teams(count int) []teamdomain.Profile {
	count = min(count, teamdomain.MaxTeamNumber)
	out := make([]teamdomain.Profile, count)
	for i := range out {
		out[i] = g.Team(i + 1)
	}
	return out
}

// Team returns one team profile with a 3 or 4 member roster led by its first member.
func (g *Generator) Team(number int) teamdomain.Profile {
	size := g.faker.Number(teamdomain.MinMembers, teamdomain.MaxMembers)
	members := make([]teamdomain.Member, size)
	seen := map[string]struct{}{}
	for i := range members {
		sn := g.faker.Numerify("########")
		for _, dup := seen[sn]; dup; _, dup = seen[sn] {
			sn = g.faker.Numerify("########")
		}
		seen[sn] = struct{}{}

		role := teamdomain.MemberRoleMember
		if i == 0 {
			role = teamdomain.MemberRoleLeader
		}
		members[i] = teamdomain.Member{
			Name:          g.faker.Name(),
			StudentNumber: sn,
			Email:         fmt.Sprintf("s%s@students.test", sn),
			Role:          role,
		}
	}

	return teamdomain.Profile{
		Number:             number,
		Name:               fmt.Sprintf("Team %02d %s", number, g.faker.Company()),
		ProjectName:        g.faker.Sentence(g.faker.Number(2, 5)),
		ProjectDescription: g.faker.Paragraph(1, 3, 8, " "),
		Members:            members,
	}
}

// Judges returns count judge profiles with distinct emails.
func (g *Generator) Judges(count int) []userdomain.Profile {
	out := make([]userdomain.Profile, count)
	for i := range out {
		out[i] = userdomain.Profile{
			Name:  g.faker.Name(),
			Email: fmt.Sprintf("judge%02d@marking.test", i+1),
			Role:  authdomain.RoleJudge,
		}
	}
	return out
}

// Admin returns an administrator profile.
func (g *Generator) Admin() userdomain.Profile {
	return userdomain.Profile{
		Name:  g.faker.Name(),
		Email: "admin@marking.test",
		Role:  authdomain.RoleAdmin,
	}
}

var criterionNames = []string{"Innovation", "Technical Depth", "Design", "Presentation", "Teamwork", "Impact"}

// Criteria returns up to len(criterionNames) definitions with max scores
// between 10 and 100 in steps of 10.
func (g *Generator) Criteria(count int) []criteriondomain.Definition {
	count = min(count, len(criterionNames))
	out := make([]criteriondomain.Definition, count)
	for i := range out {
		weight := float64(g.faker.Number(5, 10)) / 10
		out[i] = criteriondomain.Definition{
			Name:         criterionNames[i],
			Description:  g.faker.Sentence(g.faker.Number(6, 12)),
			MaxScore:     g.faker.Number(1, 10) * 10,
			Weight:       &weight,
			MarkingGuide: g.faker.Paragraph(1, 2, 10, " "),
		}
	}
	return out
}

// Round returns a draft that starts at start and lasts duration.
func (g *Generator) Round(start time.Time, duration time.Duration, criterionIDs []string) rounddomain.Draft {
	return rounddomain.Draft{
		Name:         fmt.Sprintf("%s Showcase", g.faker.RandomString([]string{"Spring", "Summer", "Autumn", "Winter"})),
		Description:  g.faker.Sentence(g.faker.Number(4, 10)),
		StartTime:    start.UTC().Format(time.RFC3339),
		EndTime:      start.Add(duration).UTC().Format(time.RFC3339),
		CriterionIDs: criterionIDs,
	}
}

// Value returns a score between 0 and maxScore with one decimal.
func (g *Generator) Value(maxScore int) float64 {
	return float64(g.faker.Number(0, maxScore*10)) / 10
}
