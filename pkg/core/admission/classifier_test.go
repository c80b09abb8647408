package admission

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		signup model.Signup
		want   model.Classification
	}{
		{
			name:   "solo student",
			signup: model.Signup{Groups: []string{"lid", model.GroupSoloStudent}},
			want:   model.ClassificationStudent,
		},
		{
			name:   "solo student wins over instructor flag",
			signup: model.Signup{Groups: []string{model.GroupSoloStudent}, WantsInstructorRole: true},
			want:   model.ClassificationStudent,
		},
		{
			name:   "instructor who offered to instruct",
			signup: model.Signup{Groups: []string{model.GroupInstructor}, WantsInstructorRole: true},
			want:   model.ClassificationInstructorAvailable,
		},
		{
			name:   "offered to instruct without instructor group",
			signup: model.Signup{Groups: []string{"lid"}, WantsInstructorRole: true},
			want:   model.ClassificationInstructorAvailable,
		},
		{
			name:   "qualified instructor who did not offer",
			signup: model.Signup{Groups: []string{model.GroupInstructor}},
			want:   model.ClassificationInstructorUnavailable,
		},
		{
			name:   "plain member",
			signup: model.Signup{Groups: []string{"lid"}},
			want:   model.ClassificationOther,
		},
		{
			name:   "no groups at all",
			signup: model.Signup{},
			want:   model.ClassificationOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.signup))
		})
	}
}
