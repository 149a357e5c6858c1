package stem

import "strings"

var concepts = []Concept{
	{
		ID:          "floating-sinking",
		Name:        "Floating and Sinking",
		Description: "Some objects float on water and others sink.",
		AgeRange:    AgeRange{Min: 2, Max: 5},
		Subject:     "physics",
		Complexity:  "beginner",
		Keywords:    []string{"water", "tub", "float", "sink", "cork", "sponge"},
	},
	{
		ID:          "color-mixing",
		Name:        "Color Mixing",
		Description: "Primary colors combine to make new colors.",
		AgeRange:    AgeRange{Min: 2, Max: 5},
		Subject:     "chemistry",
		Complexity:  "beginner",
		Keywords:    []string{"paint", "color", "dropper", "mix", "filter"},
	},
	{
		ID:          "magnets",
		Name:        "Magnetic Attraction",
		Description: "Magnets pull some metal objects but not others.",
		AgeRange:    AgeRange{Min: 3, Max: 6},
		Subject:     "physics",
		Complexity:  "intermediate",
		Keywords:    []string{"magnet", "paper clip", "metal", "tile"},
	},
	{
		ID:          "plant-growth",
		Name:        "How Plants Grow",
		Description: "Seeds need water, light and soil to sprout and grow.",
		AgeRange:    AgeRange{Min: 3, Max: 6},
		Subject:     "biology",
		Complexity:  "beginner",
		Keywords:    []string{"seed", "soil", "plant", "cup", "spray"},
	},
	{
		ID:          "ramps",
		Name:        "Ramps and Rolling",
		Description: "Steeper ramps make things roll faster and farther.",
		AgeRange:    AgeRange{Min: 3, Max: 6},
		Subject:     "physics",
		Complexity:  "intermediate",
		Keywords:    []string{"ramp", "car", "ball", "tube", "block"},
	},
	{
		ID:          "ice-melting",
		Name:        "Melting Ice",
		Description: "Warmth turns ice back into water.",
		AgeRange:    AgeRange{Min: 2, Max: 5},
		Subject:     "chemistry",
		Complexity:  "beginner",
		Keywords:    []string{"ice", "melt", "salt", "warm", "water"},
	},
	{
		ID:          "shadows",
		Name:        "Light and Shadows",
		Description: "Blocking light makes a shadow that changes with the light's position.",
		AgeRange:    AgeRange{Min: 3, Max: 6},
		Subject:     "physics",
		Complexity:  "intermediate",
		Keywords:    []string{"flashlight", "light", "shadow", "sheet", "cutout"},
	},
	{
		ID:          "bridges",
		Name:        "Building Bridges",
		Description: "Shapes and supports make structures strong enough to hold weight.",
		AgeRange:    AgeRange{Min: 4, Max: 6},
		Subject:     "engineering",
		Complexity:  "advanced",
		Keywords:    []string{"block", "bridge", "paper", "cup", "build"},
	},
}

var kits = []MaterialKit{
	{
		ID:   "water-play",
		Name: "Water Exploration Kit",
		Items: []KitItem{
			{Name: "Clear plastic tub", Quantity: 1},
			{Name: "Water", Quantity: 1},
			{Name: "Corks", Quantity: 6},
			{Name: "Pebbles", Quantity: 6},
			{Name: "Sponges", Quantity: 4},
			{Name: "Towels", Quantity: 2, Optional: true, Alternatives: []string{"paper towels"}},
		},
		CostTier:    "low",
		SafetyLevel: SupervisionGuided,
	},
	{
		ID:   "magnet-discovery",
		Name: "Magnet Discovery Kit",
		Items: []KitItem{
			{Name: "Large magnet wands", Quantity: 4},
			{Name: "Jumbo paper clips", Quantity: 20},
			{Name: "Magnetic tiles", Quantity: 12, Optional: true},
			{Name: "Sorting tray", Quantity: 1, Alternatives: []string{"muffin tin"}},
		},
		CostTier:    "medium",
		SafetyLevel: SupervisionAdultRequired,
	},
	{
		ID:   "color-lab",
		Name: "Color Mixing Lab",
		Items: []KitItem{
			{Name: "Washable paint (red, yellow, blue)", Quantity: 3},
			{Name: "Droppers", Quantity: 6},
			{Name: "Ice cube tray", Quantity: 2, Alternatives: []string{"egg carton"}},
			{Name: "Coffee filters", Quantity: 10, Optional: true},
		},
		CostTier:    "low",
		SafetyLevel: SupervisionGuided,
	},
	{
		ID:   "little-gardener",
		Name: "Little Gardener Kit",
		Items: []KitItem{
			{Name: "Bean seeds", Quantity: 12},
			{Name: "Potting soil", Quantity: 1},
			{Name: "Clear cups", Quantity: 6},
			{Name: "Spray bottle of water", Quantity: 1},
		},
		CostTier:    "low",
		SafetyLevel: SupervisionGuided,
	},
	{
		ID:   "ramp-and-roll",
		Name: "Ramp and Roll Kit",
		Items: []KitItem{
			{Name: "Cardboard tubes", Quantity: 4},
			{Name: "Toy cars", Quantity: 4},
			{Name: "Wooden blocks", Quantity: 10},
			{Name: "Rubber balls", Quantity: 3, Optional: true},
		},
		CostTier:    "low",
		SafetyLevel: SupervisionIndependent,
	},
	{
		ID:   "light-and-shadow",
		Name: "Light and Shadow Kit",
		Items: []KitItem{
			{Name: "Flashlights", Quantity: 2},
			{Name: "Animal cutouts", Quantity: 8},
			{Name: "White sheet", Quantity: 1, Alternatives: []string{"blank wall"}},
			{Name: "Child-safe scissors", Quantity: 4, Optional: true},
		},
		CostTier:    "medium",
		SafetyLevel: SupervisionAdultRequired,
	},
}

// Concepts returns the concept catalog in order.
func Concepts() []Concept {
	out := make([]Concept, len(concepts))
	copy(out, concepts)
	return out
}

// Kits returns the material kit catalog in order.
func Kits() []MaterialKit {
	out := make([]MaterialKit, len(kits))
	copy(out, kits)
	return out
}

// LookupConcept returns the concept with the given id.
func LookupConcept(id string) (Concept, bool) {
	for _, c := range concepts {
		if c.ID == id {
			return c, true
		}
	}
	return Concept{}, false
}

// LookupKit returns the kit with the given id.
func LookupKit(id string) (MaterialKit, bool) {
	for _, k := range kits {
		if k.ID == id {
			return k, true
		}
	}
	return MaterialKit{}, false
}

// ConceptsForAge returns the concepts whose age range includes age.
func ConceptsForAge(age int) []Concept {
	var out []Concept
	for _, c := range concepts {
		if c.AgeRange.Contains(age) {
			out = append(out, c)
		}
	}
	return out
}

// SelectConcept picks the age-appropriate concept whose keywords overlap
// most with the kit's name and items. Ties go to catalog order; with no
// kit the first age-appropriate concept wins.
func SelectConcept(age int, kit *MaterialKit) (Concept, bool) {
	var text string
	if kit != nil {
		parts := []string{kit.Name}
		for _, item := range kit.Items {
			parts = append(parts, item.Name)
		}
		text = strings.ToLower(strings.Join(parts, " "))
	}

	best, bestScore, found := Concept{}, -1, false
	for _, c := range concepts {
		if !c.AgeRange.Contains(age) {
			continue
		}
		score := 0
		for _, kw := range c.Keywords {
			if text != "" && strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore, found = c, score, true
		}
	}
	return best, found
}

// KitMaterials lists the item names of a kit, required items first.
func KitMaterials(kit MaterialKit) []string {
	var required, optional []string
	for _, item := range kit.Items {
		if item.Optional {
			optional = append(optional, item.Name)
		} else {
			required = append(required, item.Name)
		}
	}
	return append(required, optional...)
}

// DefaultLearningGoals returns goals for a concept when none are supplied.
func DefaultLearningGoals(c Concept) []string {
	name := strings.ToLower(c.Name)
	goals := []string{
		"Observe and describe " + name,
		"Make a prediction and check it by trying",
	}
	if len(c.Keywords) > 0 {
		n := min(3, len(c.Keywords))
		goals = append(goals, "Use new words: "+strings.Join(c.Keywords[:n], ", "))
	}
	if c.Complexity == "advanced" {
		goals = append(goals, "Explain why a design worked or did not work")
	}
	return goals
}
