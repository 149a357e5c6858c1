package grading

import (
	"maps"
	"slices"
)

var criteria = map[string]Criteria{
	"drawing_art": {
		AssignmentType: "drawing_art",
		Rubric: []RubricItem{
			{Criterion: "Creativity", Description: "Uses imagination and personal expression", Weight: 4},
			{Criterion: "Color use", Description: "Chooses and combines colors with intention", Weight: 3},
			{Criterion: "Fine motor control", Description: "Controls crayons or brushes within the page", Weight: 3},
			{Criterion: "Task completion", Description: "Finishes the drawing as instructed", Weight: 2},
		},
		AgeExpectations: AgeExpectations{MinAge: 3, MaxAge: 5, DevelopmentalNotes: "Drawings move from scribbles to recognizable shapes and simple figures."},
	},
	"letter_tracing": {
		AssignmentType: "letter_tracing",
		Rubric: []RubricItem{
			{Criterion: "Letter formation", Description: "Follows the stroke order and shape of the letter", Weight: 5},
			{Criterion: "Staying on the line", Description: "Keeps the pencil close to the dotted path", Weight: 3},
			{Criterion: "Pencil grip", Description: "Holds the pencil with a developing tripod grip", Weight: 2},
		},
		AgeExpectations: AgeExpectations{MinAge: 3, MaxAge: 5, DevelopmentalNotes: "Tracing precedes free writing; wobbly lines are expected."},
	},
	"counting_numbers": {
		AssignmentType: "counting_numbers",
		Rubric: []RubricItem{
			{Criterion: "One-to-one correspondence", Description: "Counts each object exactly once", Weight: 5},
			{Criterion: "Number recognition", Description: "Identifies written numerals", Weight: 4},
			{Criterion: "Counting sequence", Description: "Says numbers in the correct order", Weight: 3},
		},
		AgeExpectations: AgeExpectations{MinAge: 3, MaxAge: 5, DevelopmentalNotes: "Most children count reliably to 10 by age 4 and to 20 by age 5."},
	},
	"shape_recognition": {
		AssignmentType: "shape_recognition",
		Rubric: []RubricItem{
			{Criterion: "Identification", Description: "Names circles, squares, triangles and rectangles", Weight: 5},
			{Criterion: "Matching", Description: "Matches shapes regardless of size or color", Weight: 3},
			{Criterion: "Real-world connection", Description: "Finds shapes in everyday objects", Weight: 2},
		},
		AgeExpectations: AgeExpectations{MinAge: 2, MaxAge: 5, DevelopmentalNotes: "Toddlers match shapes before they can name them."},
	},
	"color_sorting": {
		AssignmentType: "color_sorting",
		Rubric: []RubricItem{
			{Criterion: "Color identification", Description: "Names the colors being sorted", Weight: 4},
			{Criterion: "Sorting accuracy", Description: "Places objects in the matching group", Weight: 5},
			{Criterion: "Persistence", Description: "Stays with the task until it is done", Weight: 2},
		},
		AgeExpectations: AgeExpectations{MinAge: 2, MaxAge: 4, DevelopmentalNotes: "Sorting by one attribute at a time is typical."},
	},
	"story_retelling": {
		AssignmentType: "story_retelling",
		Rubric: []RubricItem{
			{Criterion: "Sequence", Description: "Retells events in order", Weight: 4},
			{Criterion: "Characters", Description: "Names the main characters", Weight: 3},
			{Criterion: "Vocabulary", Description: "Uses words from the story", Weight: 3},
			{Criterion: "Expression", Description: "Speaks clearly and with feeling", Weight: 2},
		},
		AgeExpectations: AgeExpectations{MinAge: 3, MaxAge: 6, DevelopmentalNotes: "Younger children recall the beginning and end before the middle."},
	},
	"nature_journal": {
		AssignmentType: "nature_journal",
		Rubric: []RubricItem{
			{Criterion: "Observation", Description: "Records details of what was seen", Weight: 5},
			{Criterion: "Drawing", Description: "Illustrates the observation", Weight: 3},
			{Criterion: "Description", Description: "Describes the finding in words or dictation", Weight: 3},
			{Criterion: "Curiosity", Description: "Asks or records a question about nature", Weight: 2},
		},
		AgeExpectations: AgeExpectations{MinAge: 4, MaxAge: 6, DevelopmentalNotes: "Journals mix drawing and dictated words at this age."},
	},
}

// LookupCriteria returns the rubric of an assignment type.
func LookupCriteria(assignmentType string) (Criteria, bool) {
	c, ok := criteria[assignmentType]
	return c, ok
}

// AssignmentTypes lists the types that have a rubric, sorted.
func AssignmentTypes() []string {
	return slices.Sorted(maps.Keys(criteria))
}
