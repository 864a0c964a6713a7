package insight

import (
	"strings"

	"github.com/glynnsanity/tactical-tutor/schema"
)

// featureText carries the human-facing vocabulary for one feature. All text
// is deterministic: no templates are filled with anything beyond the
// pattern's stored statistics.
type featureText struct {
	Noun      string   // e.g. "hanging pieces"
	Advice    string   // immediate instruction for the next game
	StudyPlan []string // study items for the weakness direction
	Resources []string // plain reference strings, render-agnostic
}

// featureTexts covers the features that show up most often in reports.
// Anything absent falls back to a name-derived generic entry.
var featureTexts = map[string]featureText{
	schema.FeatOwnHangingPieces: {
		Noun:   "hanging pieces",
		Advice: "Before every move, list your undefended pieces and check what your opponent's last move attacked.",
		StudyPlan: []string{
			"Drill undefended-piece scanning puzzles",
			"Review each loss for the first piece left en prise",
		},
		Resources: []string{"Tactics trainer: hanging piece motifs", "Annotated games: piece safety fundamentals"},
	},
	schema.FeatOwnKingInCenter: {
		Noun:   "an uncastled king",
		Advice: "Castle before move 10 unless there is a concrete reason not to.",
		StudyPlan: []string{
			"Study classic king-in-the-center punishment games",
			"Practice openings to the point where castling is automatic",
		},
		Resources: []string{"Lesson series: king safety in the opening"},
	},
	schema.FeatOwnOpenFilesNearKing: {
		Noun:   "open files near your king",
		Advice: "Keep the pawns in front of your castled king intact; avoid pawn grabs that open your own king.",
		StudyPlan: []string{
			"Study pawn-storm defense structures",
			"Review games where your king's cover was traded away",
		},
		Resources: []string{"Lesson series: defending the castled king"},
	},
	schema.FeatOwnIsolatedPawns: {
		Noun:   "isolated pawns",
		Advice: "Before accepting an isolated pawn, identify the piece activity you get in return.",
		StudyPlan: []string{
			"Study isolated queen's pawn plans for both sides",
			"Practice endgames with an isolated pawn weakness",
		},
		Resources: []string{"Strategy course: pawn structure fundamentals"},
	},
	schema.FeatOwnDoubledPawns: {
		Noun:   "doubled pawns",
		Advice: "Avoid captures toward doubled pawns unless they open a file you can use.",
		StudyPlan: []string{
			"Review structures where doubled pawns are strong versus weak",
		},
		Resources: []string{"Strategy course: pawn structure fundamentals"},
	},
	schema.FeatOppPassedPawns: {
		Noun:   "opponent passed pawns",
		Advice: "Blockade passed pawns early with a knight or rook before they reach the sixth rank.",
		StudyPlan: []string{
			"Drill blockading technique in rook endgames",
			"Study conversion and defense of outside passed pawns",
		},
		Resources: []string{"Endgame course: passed pawn technique"},
	},
	schema.FeatIsInCheck: {
		Noun:   "positions under check",
		Advice: "When checked, compare all three reply types (block, capture, move) before committing.",
		StudyPlan: []string{
			"Drill defensive calculation puzzles",
		},
		Resources: []string{"Tactics trainer: defensive motifs"},
	},
	schema.FeatOwnKnightsRim: {
		Noun:   "knights on the rim",
		Advice: "Reroute rim knights toward central squares before starting any plan.",
		StudyPlan: []string{
			"Study piece-placement model games",
		},
		Resources: []string{"Strategy course: piece activity"},
	},
	schema.FeatOwnPiecesBackRank: {
		Noun:   "undeveloped pieces",
		Advice: "Finish development before launching operations; every piece off the back rank first.",
		StudyPlan: []string{
			"Review opening principles: development before action",
		},
		Resources: []string{"Lesson series: opening fundamentals"},
	},
	schema.FeatOwnBackwardPawns: {
		Noun:   "backward pawns",
		Advice: "Watch for pawn advances that leave a neighbor permanently behind.",
		StudyPlan: []string{
			"Study minority attack and backward-pawn structures",
		},
		Resources: []string{"Strategy course: pawn structure fundamentals"},
	},
	schema.FeatOwnKingRingAttacked: {
		Noun:   "pressure around your king",
		Advice: "Count attackers versus defenders around your king every time the opponent moves a piece to your side.",
		StudyPlan: []string{
			"Drill attack-and-defense counting exercises",
		},
		Resources: []string{"Lesson series: defending the castled king"},
	},
	schema.FeatCapturesAvailable: {
		Noun:   "sharp positions with many captures",
		Advice: "In positions loaded with captures, calculate forcing lines before quiet moves.",
		StudyPlan: []string{
			"Drill calculation of forcing sequences",
		},
		Resources: []string{"Tactics trainer: capture sequences"},
	},
}

// textFor returns the vocabulary entry for a feature, synthesizing a generic
// one from the feature name when no curated entry exists.
func textFor(name string) featureText {
	if t, ok := featureTexts[name]; ok && t.Noun != "" {
		return t
	}
	noun := humanize(name)
	return featureText{
		Noun:      noun,
		Advice:    "Pay attention to " + noun + " in your next games.",
		StudyPlan: []string{"Review recent games focusing on " + noun},
		Resources: []string{"Coach review: " + noun},
	}
}

// humanize turns a feature name like "own_king_shield_pawns" into a plain
// phrase like "king shield pawns".
func humanize(name string) string {
	name = strings.TrimPrefix(name, "own_")
	name = strings.TrimPrefix(name, "opp_")
	return strings.ReplaceAll(name, "_", " ")
}

// phaseLabel renders a condition tag's phase for titles.
func phaseLabel(phase schema.GamePhase) string {
	switch phase {
	case schema.PhaseOpening:
		return "opening"
	case schema.PhaseMiddlegame:
		return "middlegame"
	case schema.PhaseEndgame:
		return "endgame"
	default:
		return string(phase)
	}
}
