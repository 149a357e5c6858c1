package lessons

// Age groups.
const (
	AgeToddler   = "toddler"
	AgePreschool = "preschool"
	AgePreK      = "pre-k"
)

// Difficulty tiers for custom lessons.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

var templates = []Template{
	{
		ID:              "colors-and-shapes",
		Title:           "Colors and Shapes Exploration",
		Description:     "Children identify, sort and create with basic colors and shapes.",
		Subjects:        []string{"art", "math"},
		AgeGroup:        AgePreschool,
		DurationMinutes: 30,
		ActivityTypes:   []string{"sorting", "collage", "shape hunt"},
		Materials:       []string{"colored paper shapes", "glue sticks", "crayons", "sorting trays"},
	},
	{
		ID:              "counting-fun",
		Title:           "Counting Fun",
		Description:     "Hands-on counting to ten with everyday objects.",
		Subjects:        []string{"math"},
		AgeGroup:        AgePreschool,
		DurationMinutes: 25,
		ActivityTypes:   []string{"counting game", "number song", "matching"},
		Materials:       []string{"counting bears", "number cards", "small cups"},
	},
	{
		ID:              "letter-sounds",
		Title:           "Letter Sounds Adventure",
		Description:     "Beginning sounds through songs, pictures and tracing.",
		Subjects:        []string{"literacy"},
		AgeGroup:        AgePreK,
		DurationMinutes: 30,
		ActivityTypes:   []string{"picture sort", "letter tracing", "sound song"},
		Materials:       []string{"letter cards", "picture cards", "tracing sheets", "sand tray"},
	},
	{
		ID:              "nature-explorers",
		Title:           "Nature Explorers",
		Description:     "An outdoor walk to observe, collect and describe natural objects.",
		Subjects:        []string{"science", "literacy"},
		AgeGroup:        AgePreschool,
		DurationMinutes: 40,
		ActivityTypes:   []string{"nature walk", "observation", "journal drawing"},
		Materials:       []string{"magnifying glasses", "collection bags", "clipboards", "crayons"},
	},
	{
		ID:              "music-and-movement",
		Title:           "Music and Movement",
		Description:     "Rhythm, dancing and simple instruments for little movers.",
		Subjects:        []string{"music", "physical"},
		AgeGroup:        AgeToddler,
		DurationMinutes: 20,
		ActivityTypes:   []string{"dance", "rhythm game", "freeze game"},
		Materials:       []string{"shakers", "scarves", "music player"},
	},
	{
		ID:              "feelings-and-friends",
		Title:           "Feelings and Friends",
		Description:     "Naming emotions and practicing kind words with classmates.",
		Subjects:        []string{"social_emotional", "literacy"},
		AgeGroup:        AgePreK,
		DurationMinutes: 25,
		ActivityTypes:   []string{"story time", "role play", "feelings faces"},
		Materials:       []string{"picture book", "feelings cards", "mirrors"},
	},
}

// defaultObjectives is keyed by subject, then age group.
var defaultObjectives = map[string]map[string][]string{
	"art": {
		AgeToddler:   {"Explore colors through finger painting", "Develop grip by scribbling with crayons"},
		AgePreschool: {"Identify and name primary colors", "Create art using basic shapes"},
		AgePreK:      {"Mix primary colors to make secondary colors", "Describe their own artwork to others"},
	},
	"math": {
		AgeToddler:   {"Recognize the concept of more and less", "Match identical objects"},
		AgePreschool: {"Count objects up to 10", "Identify basic shapes"},
		AgePreK:      {"Count objects up to 20", "Recognize and extend simple patterns"},
	},
	"literacy": {
		AgeToddler:   {"Listen to a short story", "Point to pictures when named"},
		AgePreschool: {"Recognize the letters in their name", "Retell a simple story"},
		AgePreK:      {"Identify beginning letter sounds", "Trace uppercase letters"},
	},
	"science": {
		AgeToddler:   {"Use senses to explore textures", "Notice changes in the environment"},
		AgePreschool: {"Make simple observations about nature", "Sort objects by property"},
		AgePreK:      {"Make and test a simple prediction", "Describe the life cycle of a plant"},
	},
	"music": {
		AgeToddler:   {"Move to a steady beat", "Explore sounds with simple instruments"},
		AgePreschool: {"Sing simple songs with a group", "Tell loud sounds from soft sounds"},
		AgePreK:      {"Clap a simple rhythm pattern", "Name common instruments"},
	},
	"physical": {
		AgeToddler:   {"Walk, stop and turn with balance", "Throw a soft ball"},
		AgePreschool: {"Hop on one foot", "Catch a large ball with two hands"},
		AgePreK:      {"Skip with coordination", "Follow multi-step movement directions"},
	},
	"social_emotional": {
		AgeToddler:   {"Recognize happy and sad faces", "Take turns with support"},
		AgePreschool: {"Name basic emotions", "Share materials with a friend"},
		AgePreK:      {"Express feelings with words", "Use kind words to solve conflicts"},
	},
}

var difficultyWords = map[string][]string{
	DifficultyBeginner:     {"Begin to", "Explore how to", "Start to"},
	DifficultyIntermediate: {"Demonstrate", "Practice", "Show how to"},
	DifficultyAdvanced:     {"Master", "Apply", "Independently"},
}

// Templates returns the catalog in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// LookupTemplate returns the template with the given id.
func LookupTemplate(id string) (Template, bool) {
	for _, t := range templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// DefaultObjectives returns the objectives for subjects at ageGroup,
// in subject order with duplicates removed.
func DefaultObjectives(subjects []string, ageGroup string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, subject := range subjects {
		for _, obj := range defaultObjectives[subject][ageGroup] {
			if seen[obj] {
				continue
			}
			seen[obj] = true
			out = append(out, obj)
		}
	}
	return out
}

// DifficultyWords returns the prefix bank of a tier. Unknown tiers use the
// beginner bank.
func DifficultyWords(difficulty string) []string {
	if words, ok := difficultyWords[difficulty]; ok {
		return words
	}
	return difficultyWords[DifficultyBeginner]
}
