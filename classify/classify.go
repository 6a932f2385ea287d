package classify

import (
	"strings"

	"ytbrief/models"
)

// Marker phrases scored against the title and the opening of the transcript.
// Classification only selects an output template, so the lists favor
// precision over recall.
var (
	tutorialMarkers = []string{
		"how to", "tutorial", "step by step", "walkthrough", "guide",
		"let's build", "lets build", "install", "setup", "set up",
		"getting started", "in this video i'll show", "follow along",
		"configure", "beginner",
	}
	newsMarkers = []string{
		"breaking", "report", "reported", "announced", "announcement",
		"today", "this week", "officials", "according to", "press",
		"statement", "update on", "latest", "government", "president",
		"election", "market",
	}
)

// Limits how much transcript feeds the heuristic. Openings carry the
// framing ("today we're looking at...", "in this tutorial...") that
// distinguishes the two styles.
const leadWords = 250

// Classify maps a transcript and its metadata to a content-type tag.
// Deterministic for identical input and side-effect free; a misclassification
// only changes which summary template is applied.
func Classify(transcript *models.Transcript, md models.VideoMetadata) models.ContentType {
	text := strings.ToLower(md.Title) + " " + lead(transcript)

	tutorialScore := 0
	for _, marker := range tutorialMarkers {
		tutorialScore += strings.Count(text, marker)
	}

	newsScore := 0
	for _, marker := range newsMarkers {
		newsScore += strings.Count(text, marker)
	}

	// Title markers weigh double; the title states intent more reliably
	// than any transcript line.
	title := strings.ToLower(md.Title)
	for _, marker := range tutorialMarkers {
		tutorialScore += strings.Count(title, marker)
	}
	for _, marker := range newsMarkers {
		newsScore += strings.Count(title, marker)
	}

	if tutorialScore > newsScore {
		return models.ContentTypeTutorial
	}
	return models.ContentTypeNews
}

func lead(t *models.Transcript) string {
	words := strings.Fields(strings.ToLower(t.FullText()))
	if len(words) > leadWords {
		words = words[:leadWords]
	}
	return strings.Join(words, " ")
}
