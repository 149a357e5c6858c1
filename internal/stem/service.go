// Package stem suggests hands-on STEM activities from a static concept and
// material-kit catalog and assesses their safety.
package stem

import (
	"context"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/usage"
)

// Generator orchestrates STEM activity generation. It holds no mutable
// state and is safe for concurrent use.
type Generator struct {
	client *ai.Client
	log    *logger.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the generator's logger.
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = logger.OrNop(l) }
}

// NewGenerator creates a STEM activity generator.
func NewGenerator(client *ai.Client, opts ...Option) *Generator {
	g := &Generator{client: client, log: logger.Nop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Concept returns a catalog concept or a NotFound error.
func (g *Generator) Concept(id string) (*Concept, error) {
	c, ok := LookupConcept(id)
	if !ok {
		return nil, ai.NotFound("STEM concept not found")
	}
	return &c, nil
}

// Kit returns a catalog kit or a NotFound error.
func (g *Generator) Kit(id string) (*MaterialKit, error) {
	k, ok := LookupKit(id)
	if !ok {
		return nil, ai.NotFound("Material kit not found")
	}
	return &k, nil
}

// GenerateActivity resolves the concept and kit, then asks the model for
// an activity and attaches the safety assessment of its materials. All
// lookups happen before any completion call.
func (g *Generator) GenerateActivity(ctx context.Context, req ActivityRequest) (*GeneratedActivity, error) {
	var kit *MaterialKit
	if req.KitID != "" {
		k, err := g.Kit(req.KitID)
		if err != nil {
			return nil, err
		}
		kit = k
	}

	var concept Concept
	if req.ConceptID != "" {
		c, err := g.Concept(req.ConceptID)
		if err != nil {
			return nil, err
		}
		concept = *c
	} else {
		c, ok := SelectConcept(req.Age, kit)
		if !ok {
			return nil, ai.NotFound("No STEM concept for this age")
		}
		concept = c
	}

	if !g.client.Available() {
		return nil, ai.ErrUnavailable
	}

	goals := req.LearningGoals
	if len(goals) == 0 {
		goals = DefaultLearningGoals(concept)
	}
	var materials []string
	if kit != nil {
		materials = KitMaterials(*kit)
	}
	materials = append(materials, req.Materials...)

	activity, err := ai.Generate[Activity](ctx, g.client, ai.Call{
		UserID:   req.UserID,
		TenantID: req.TenantID,
		Feature:  usage.FeatureSTEMActivity,
		Prompt: buildActivityPrompt(activityPrompt{
			Concept:       concept,
			Kit:           kit,
			Age:           req.Age,
			LearningGoals: goals,
			Materials:     materials,
			Duration:      req.DurationMinutes,
			GroupSize:     req.GroupSize,
			Notes:         req.Notes,
		}),
		Schema: ActivitySchema,
	})
	if err != nil {
		g.log.Warn("STEM activity generation failed", "concept_id", concept.ID, "tenant_id", req.TenantID, "error", err)
		return nil, err
	}

	safety := SafetyGuidelines(materials, req.Age)
	if kit != nil {
		safety.SupervisionLevel = safety.SupervisionLevel.escalate(kit.SafetyLevel)
	}
	g.log.Info("STEM activity generated", "concept_id", concept.ID, "tenant_id", req.TenantID, "supervision", safety.SupervisionLevel)

	return &GeneratedActivity{
		Activity:      *activity,
		Concept:       concept,
		Kit:           kit,
		LearningGoals: goals,
		Materials:     materials,
		Safety:        safety,
	}, nil
}
