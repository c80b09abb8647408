package admission

import (
	"slices"

	"github.com/idegeus/zweefbot/pkg/core/model"
)

// Classify derives the admission category for one signup. It is pure and
// total: every signup gets exactly one classification, checked in order.
//
//   - Student: the member is in the solo-student group
//   - InstructorAvailable: the member explicitly offered to instruct
//   - InstructorUnavailable: a qualified instructor who did not offer to
//     instruct that day; tracked for visibility, never counted as capacity
//   - Other: takes no further part in admission logic
func Classify(s model.Signup) model.Classification {
	switch {
	case slices.Contains(s.Groups, model.GroupSoloStudent):
		return model.ClassificationStudent
	case s.WantsInstructorRole:
		return model.ClassificationInstructorAvailable
	case slices.Contains(s.Groups, model.GroupInstructor):
		return model.ClassificationInstructorUnavailable
	default:
		return model.ClassificationOther
	}
}
