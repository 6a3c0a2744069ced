package teamdomain

import (
	"testing"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/stretchr/testify/assert"
)

func validProfile() Profile {
	return Profile{
		Number: 7,
		Name:   "Byte Me",
		Members: []Member{
			{Name: "Ana", StudentNumber: "20240001", Email: "ana@uni.test", Role: MemberRoleLeader},
			{Name: "Ben", StudentNumber: "20240002", Email: "ben@uni.test", Role: MemberRoleMember},
			{Name: "Cy", StudentNumber: "20240003", Email: "cy@uni.test", Role: MemberRoleMember},
		},
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Profile)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *Profile) {}},
		{name: "four members", mutate: func(p *Profile) {
			p.Members = append(p.Members, Member{Name: "Di", StudentNumber: "20240004", Email: "di@uni.test", Role: MemberRoleMember})
		}},
		{name: "number too high", mutate: func(p *Profile) { p.Number = 16 }, wantErr: true},
		{name: "number zero", mutate: func(p *Profile) { p.Number = 0 }, wantErr: true},
		{name: "two members", mutate: func(p *Profile) { p.Members = p.Members[:2] }, wantErr: true},
		{name: "duplicate student number", mutate: func(p *Profile) { p.Members[2].StudentNumber = "20240001" }, wantErr: true},
		{name: "seven digit student number", mutate: func(p *Profile) { p.Members[1].StudentNumber = "2024000" }, wantErr: true},
		{name: "non numeric student number", mutate: func(p *Profile) { p.Members[1].StudentNumber = "2024000x" }, wantErr: true},
		{name: "bad email", mutate: func(p *Profile) { p.Members[1].Email = "nope" }, wantErr: true},
		{name: "no leader", mutate: func(p *Profile) { p.Members[0].Role = MemberRoleMember }, wantErr: true},
		{name: "two leaders", mutate: func(p *Profile) { p.Members[1].Role = MemberRoleLeader }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}
