package criteriondb

import (
	"time"

	"github.com/uptrace/bun"
)

// Criterion is a weighted scoring dimension. UsageCount is derived from the
// rounds that reference it and is never written.
type Criterion struct {
	bun.BaseModel `bun:"table:criteria,alias:c"`

	ID           string    `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull,unique" json:"name"`
	Description  string    `bun:"description" json:"description"`
	MaxScore     int       `bun:"max_score,notnull" json:"max_score"`
	Weight       float64   `bun:"weight,notnull,default:1.0" json:"weight"`
	MarkingGuide string    `bun:"marking_guide" json:"marking_guide"`
	Active       bool      `bun:"active,notnull,default:true" json:"active"`
	UsageCount   int       `bun:"usage_count,scanonly" json:"usage_count"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
