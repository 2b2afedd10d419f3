package keyphrase

// defaultNoiseWords are career buzzwords and generic-ability terms that score
// high in phrase extraction but carry no signal for a job-search query. Any
// candidate phrase containing one of these tokens is discarded whole.
var defaultNoiseWords = []string{
	"know", "knowing", "knowledge", "familiar", "familiarity", "skilled", "skill",
	"skills", "ability", "abilities", "capable", "capability", "proficient",
	"proficiency", "expert", "expertise", "experienced", "experience", "working",
	"work", "worked", "works", "good", "strong", "excellent", "background",
	"understanding",
	// Self-description filler.
	"motivated", "driven", "passionate", "enthusiastic", "dedicated", "committed",
	"innovative", "creative", "responsible", "hardworking", "self", "learner",
	"adaptable", "flexible", "collaborative", "team", "teamwork", "player",
	"results", "oriented", "focused", "fast", "quick",
	// Catch-alls.
	"etc", "others", "things", "various",
}
