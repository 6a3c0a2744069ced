package teamdb

import (
	"time"

	teamdomain "github.com/Black-And-White-Club/competition-marking/app/modules/team/domain"
	"github.com/uptrace/bun"
)

// Team is a registered competition team. Assigned judges live in the
// assignment module, keyed by round.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID                 string              `bun:"id,pk" json:"id"`
	Number             int                 `bun:"number,notnull,unique" json:"number"`
	Name               string              `bun:"name,notnull,unique" json:"name"`
	ProjectName        string              `bun:"project_name" json:"project_name"`
	ProjectDescription string              `bun:"project_description" json:"project_description"`
	Members            []teamdomain.Member `bun:"members,type:jsonb,notnull" json:"members"`
	Participating      bool                `bun:"participating,notnull,default:true" json:"participating"`
	CreatedAt          time.Time           `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time           `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ListFilter narrows List.
type ListFilter struct {
	ParticipatingOnly bool
}
