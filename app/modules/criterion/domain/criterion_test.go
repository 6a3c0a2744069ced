package criteriondomain

import (
	"testing"

	"github.com/Black-And-White-Club/competition-marking/app/shared/apperrors"
	"github.com/stretchr/testify/assert"
)

func ptr(f float64) *float64 { return &f }

func TestDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		wantErr bool
	}{
		{name: "minimal", def: Definition{Name: "Innovation", MaxScore: 10}},
		{name: "zero weight allowed", def: Definition{Name: "Bonus", MaxScore: 5, Weight: ptr(0)}},
		{name: "full weight", def: Definition{Name: "Design", MaxScore: 100, Weight: ptr(1)}},
		{name: "missing name", def: Definition{MaxScore: 10}, wantErr: true},
		{name: "max score zero", def: Definition{Name: "X", MaxScore: 0}, wantErr: true},
		{name: "max score too high", def: Definition{Name: "X", MaxScore: 101}, wantErr: true},
		{name: "weight above one", def: Definition{Name: "X", MaxScore: 10, Weight: ptr(1.5)}, wantErr: true},
		{name: "negative weight", def: Definition{Name: "X", MaxScore: 10, Weight: ptr(-0.1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEffectiveWeight(t *testing.T) {
	assert.Equal(t, DefaultWeight, Definition{}.EffectiveWeight())
	assert.Equal(t, 0.25, Definition{Weight: ptr(0.25)}.EffectiveWeight())
}
