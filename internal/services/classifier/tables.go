package classifier

import "sentimental/internal/domain/sentiment"

type subcategory struct {
	name  string
	words []string
}

type group struct {
	label sentiment.Label
	subs  []subcategory
}

type contextGroup struct {
	tag        string
	indicators []string
}

// groups is scanned in order; earlier groups win ties
var groups = []group{
	{
		label: sentiment.LabelPositive,
		subs: []subcategory{
			{"enthusiastic", []string{"amazing", "incredible", "fantastic", "brilliant", "excellent", "outstanding", "perfect", "love", "adore", "wow", "stunning", "revolutionary", "game-changing"}},
			{"supportive", []string{"good", "great", "nice", "helpful", "useful", "beneficial", "positive", "promising", "encouraging", "hopeful", "optimistic"}},
			{"satisfied", []string{"happy", "pleased", "content", "satisfied", "comfortable", "relieved", "grateful", "thankful"}},
		},
	},
	{
		label: sentiment.LabelNegative,
		subs: []subcategory{
			{"angry", []string{"terrible", "awful", "horrible", "disgusting", "hate", "loathe", "furious", "outraged", "enraged", "infuriated"}},
			{"disappointed", []string{"disappointing", "let down", "frustrated", "annoyed", "upset", "sad", "unhappy", "dissatisfied"}},
			{"concerned", []string{"worried", "concerned", "anxious", "nervous", "scared", "fearful", "suspicious", "doubtful", "skeptical"}},
		},
	},
	{
		label: sentiment.LabelNeutral,
		subs: []subcategory{
			{"informative", []string{"fact", "data", "information", "report", "study", "research", "analysis", "evidence", "statistics"}},
			{"observational", []string{"seems", "appears", "looks like", "might", "could", "possibly", "maybe", "perhaps"}},
			{"balanced", []string{"mixed", "both", "neither", "either", "depends", "varies", "different", "various"}},
		},
	},
	{
		label: sentiment.LabelCritical,
		subs: []subcategory{
			{"constructive", []string{"improve", "better", "enhance", "optimize", "refine", "suggest", "recommend", "advice"}},
			{"analytical", []string{"analyze", "examine", "investigate", "review", "assess", "evaluate", "consider"}},
			{"questioning", []string{"why", "how", "what if", "doubt", "question", "uncertain", "unclear"}},
		},
	},
}

// indicators are lowercase because they are matched against lowercased text
var contexts = []contextGroup{
	{"business", []string{"company", "business", "corporate", "enterprise", "startup", "ceo", "executive", "management", "strategy", "revenue", "profit", "market"}},
	{"technology", []string{"tech", "software", "app", "platform", "system", "code", "development", "programming", "ai", "machine learning", "algorithm"}},
	{"social", []string{"community", "people", "users", "customers", "audience", "public", "society", "social media", "viral"}},
	{"political", []string{"government", "policy", "election", "political", "democracy", "voting", "campaign", "politician"}},
	{"environmental", []string{"climate", "environment", "sustainability", "green", "eco-friendly", "pollution", "carbon", "renewable"}},
}

// ContextTags lists the context tags in table order
func ContextTags() []string {
	tags := make([]string, len(contexts))
	for i, c := range contexts {
		tags[i] = c.tag
	}
	return tags
}
