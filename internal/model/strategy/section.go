package strategy

// Section is one static panel of the strategy dashboard exposed to the
// frontend.
type Section struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Tagline  string   `json:"tagline"`
	Summary  string   `json:"summary"`
	Points   []string `json:"points,omitempty"`
	Ordering int      `json:"ordering"`
}

// Seed returns the fixed dashboard sections served by the strategy panels.
func Seed() []Section {
	return []Section{
		{
			ID:      "sitemap",
			Title:   "Sitemap",
			Tagline: "Architectural Logic",
			Summary: "Move the visitor from Curiosity (Homepage) to Certainty (Process/Proof) and finally to Action (Booking). The structure is deliberately flat to reduce click-depth.",
			Points: []string{
				"Homepage: authority anchor and single entry point",
				"Solutions: ROI categories",
				"The Process: trust and safety",
				"Case Studies: social proof",
				"Book Call: omnipresent conversion CTA, no dropdowns",
			},
			Ordering: 1,
		},
		{
			ID:      "wireframe",
			Title:   "Wireframe",
			Tagline: "Narrative Scroll",
			Summary: "A single-scroll narrative: hook above the fold, pain mirroring, mechanism reveal, proof stack, then the booking commitment.",
			Points: []string{
				"Hero: headline, subhead, primary CTA",
				"Pain section: mirror the manual-workflow overhead",
				"Mechanism: the Sync methodology in three steps",
				"Proof: case study metrics and logos",
				"Close: calendar embed with low-friction copy",
			},
			Ordering: 2,
		},
		{
			ID:      "copywriting",
			Title:   "Copywriting",
			Tagline: "Homepage Headlines",
			Summary: "Three voice options for the homepage, from benefit-driven to visionary.",
			Points: []string{
				"Option A (Direct): Automate Your Inefficiencies. Multiply Your Output.",
				"Option B (Challenger): The AI Revolution Won't Wait for Your Roadmap.",
				"Option C (Visionary): The Future of Business, Perfectly Synced.",
			},
			Ordering: 3,
		},
		{
			ID:      "visuals",
			Title:   "Visual Directive",
			Tagline: "Dark Authority",
			Summary: "Deep space palette with electric blue accents; glass panels over ambient gradients; monospace for data, heavy grotesque for statements.",
			Points: []string{
				"Base #05070A, accent blue-600, success green-500",
				"Glass panels with 1px low-alpha borders",
				"Motion: slow fades, no bounce",
			},
			Ordering: 4,
		},
		{
			ID:      "roadmap",
			Title:   "Roadmap",
			Tagline: "The Sync Implementation Flow",
			Summary: "Precision at every pivot. From insight to implementation in 30 days.",
			Points: []string{
				"Week 1 — Deep Sync Audit: legacy mapping, friction audit, interviews",
				"Week 2 — Architecture Design: workflow logic, tool stack, compliance",
				"Week 3 — Core Deployment: normalization, first-pass automation, training",
				"Week 4 — Optimization Loop: ROI benchmarking, polish, full systems sync",
			},
			Ordering: 5,
		},
		{
			ID:      "analytics",
			Title:   "Analytics",
			Tagline: "Projected Impact",
			Summary: "Conservative projections for the first two quarters after deployment.",
			Points: []string{
				"10+ hours per week recovered per operator",
				"Lead response time under five minutes",
				"Quarter-two pipeline growth target of 22%",
			},
			Ordering: 6,
		},
	}
}
