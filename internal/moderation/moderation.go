// Package moderation implements the keyword heuristic that keeps PlantLife
// posts on agriculture and environment topics.
package moderation

import "strings"

// Category labels what a post is about.
type Category string

const (
	CategoryAgriculture Category = "agriculture"
	CategoryEnvironment Category = "environment"
	CategoryUnrelated   Category = "unrelated"
)

const (
	minContentLength = 10
	maxHashtags      = 5
	maxMentions      = 3
)

// Result is the outcome of classifying a piece of content. Confidence is a
// 0-100 share of relevant keyword hits among all hits.
type Result struct {
	IsValid     bool
	Reason      string
	Suggestions []string
	Category    Category
	Confidence  int
}

// Classifier scores content against the keyword lists.
type Classifier struct{}

// NewClassifier returns the default classifier.
func NewClassifier() *Classifier { return &Classifier{} }

func countHits(content string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			hits++
		}
	}
	return hits
}

// Validate classifies the content and decides whether it is acceptable.
func (c *Classifier) Validate(content string) Result {
	lower := strings.ToLower(content)

	agriculture := countHits(lower, agricultureKeywords)
	environment := countHits(lower, environmentKeywords)
	unrelated := countHits(lower, unrelatedKeywords)

	relevant := agriculture + environment
	total := relevant + unrelated
	confidence := 0
	if total > 0 {
		confidence = relevant * 100 / total
	}

	// A tie between the two relevant categories is still on-topic; agriculture
	// wins the label.
	res := Result{Confidence: confidence}
	switch {
	case agriculture > 0 && agriculture >= environment:
		res.Category = CategoryAgriculture
		res.IsValid = true
	case environment > 0:
		res.Category = CategoryEnvironment
		res.IsValid = true
	default:
		res.Category = CategoryUnrelated
		res.Reason = "Content does not appear to be related to agriculture or environment."
		res.Suggestions = []string{
			"Share about your plants, garden, or farming experiences",
			"Discuss environmental topics, climate, or sustainability",
			"Post about wildlife, ecosystems, or natural resources",
			"Share gardening tips, plant care, or agricultural practices",
		}
	}

	if len(content) < minContentLength {
		res.IsValid = false
		res.Reason = "Content is too short. Please provide more details about your agriculture or environment topic."
		res.Suggestions = []string{
			"Describe your plant or garden in detail",
			"Explain the environmental issue you want to discuss",
			"Share specific agricultural practices or tips",
		}
	}

	if unrelated > 3 && unrelated > relevant {
		res.IsValid = false
		res.Reason = "Content contains too many unrelated topics that overshadow the agriculture/environment content."
		res.Suggestions = []string{
			"Focus primarily on plants, gardening, or environmental topics",
			"Remove or minimize unrelated content",
			"Ensure agriculture/environment is the main focus",
		}
	}

	return res
}

// ValidatePost applies post-specific limits on top of Validate.
func (c *Classifier) ValidatePost(content string) Result {
	res := c.Validate(content)
	if !res.IsValid {
		return res
	}

	if strings.Count(content, "#") > maxHashtags {
		res.IsValid = false
		res.Reason = "Too many hashtags. Please limit to 5 or fewer."
		res.Suggestions = []string{
			"Focus on meaningful content rather than hashtags",
			"Use 3-5 relevant hashtags",
		}
		return res
	}
	if strings.Count(content, "@") > maxMentions {
		res.IsValid = false
		res.Reason = "Too many mentions. Please limit to 3 or fewer."
		res.Suggestions = []string{
			"Focus on your content rather than tagging many users",
			"Use mentions sparingly and meaningfully",
		}
	}
	return res
}
