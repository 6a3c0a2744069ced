package userdb

import (
	"time"

	authdomain "github.com/Black-And-White-Club/competition-marking/app/modules/auth/domain"
	userdomain "github.com/Black-And-White-Club/competition-marking/app/modules/user/domain"
	"github.com/uptrace/bun"
)

// User is an administrator or a judge.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string          `bun:"id,pk" json:"id"`
	Name      string          `bun:"name,notnull" json:"name"`
	Email     string          `bun:"email,notnull,unique" json:"email"`
	Role      authdomain.Role `bun:"role,notnull" json:"role"`
	Active    bool            `bun:"active,notnull,default:true" json:"active"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Judge projects the user onto the engines' judge view.
func (u User) Judge() userdomain.Judge {
	return userdomain.Judge{ID: u.ID, Name: u.Name, Active: u.Active}
}

// ListFilter narrows List. Zero values mean no filter.
type ListFilter struct {
	Role       authdomain.Role
	ActiveOnly bool
}
