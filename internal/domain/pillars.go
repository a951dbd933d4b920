// Package domain defines the core entities of the responsible-AI evaluation
// pipeline: scenarios, synthesized questions, evaluation reports, and the
// per-question results that human reviewers later score.
//
// Entities are plain structs with validation tags; all persistence and
// orchestration concerns live outside this package so the types stay usable
// from tests without infrastructure.
package domain

// Pillar is one of the fixed responsible-AI evaluation categories.
type Pillar string

// The eight responsible-AI pillars. The set is fixed: question synthesis
// always produces questions for every pillar, and report scoring averages
// each pillar with equal weight regardless of question count.
const (
	PillarFairness        Pillar = "Fairness"
	PillarExplainability  Pillar = "Explainability"
	PillarPrivacySecurity Pillar = "Privacy and security"
	PillarSafety          Pillar = "Safety"
	PillarControllability Pillar = "Controllability"
	PillarVeracity        Pillar = "Veracity and robustness"
	PillarGovernance      Pillar = "Governance"
	PillarTransparency    Pillar = "Transparency"
)

// Pillars lists all pillars in their canonical presentation order.
// Prompt construction and validation both iterate this slice so the
// numbering shown to the model stays stable.
var Pillars = []Pillar{
	PillarFairness,
	PillarExplainability,
	PillarPrivacySecurity,
	PillarSafety,
	PillarControllability,
	PillarVeracity,
	PillarGovernance,
	PillarTransparency,
}

// PillarDefinitions maps each pillar to the one-line definition embedded in
// both the synthesis and review prompts.
var PillarDefinitions = map[Pillar]string{
	PillarFairness:        "Considering impacts on different groups of stakeholders",
	PillarExplainability:  "Understanding and evaluating system outputs",
	PillarPrivacySecurity: "Appropriately obtaining, using, and protecting data and models",
	PillarSafety:          "Preventing harmful system output and misuse",
	PillarControllability: "Having mechanisms to monitor and steer AI system behavior",
	PillarVeracity:        "Achieving correct system outputs, even with unexpected or adversarial inputs",
	PillarGovernance:      "Incorporating best practices into the AI supply chain, including providers and deployers",
	PillarTransparency:    "Enabling stakeholders to make informed choices about their engagement with an AI system",
}

// String returns the pillar name as used in prompts and persisted rows.
func (p Pillar) String() string { return string(p) }

// IsValid reports whether p is one of the eight known pillars.
func (p Pillar) IsValid() bool {
	_, ok := PillarDefinitions[p]
	return ok
}
