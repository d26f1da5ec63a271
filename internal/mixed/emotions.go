package mixed

// Category is the valence bucket of an emotion or of a whole result.
type Category string

const (
	CategoryPositive   Category = "positive"
	CategoryNegative   Category = "negative"
	CategoryNeutral    Category = "neutral"
	CategoryAmbivalent Category = "ambivalent"
)

// emotionDef binds a named emotion to its valence and bilingual phrase list.
// Phrases may contain spaces and are matched over the whole lowercased text.
type emotionDef struct {
	name     string
	category Category
	phrases  []string
}

var emotionLexicon = []emotionDef{
	{name: "joy", category: CategoryPositive, phrases: []string{
		"happy", "glad", "joyful", "delighted", "嬉しい", "うれしい", "楽しい", "やった",
	}},
	{name: "trust", category: CategoryPositive, phrases: []string{
		"trust", "believe in you", "count on you", "信じてる", "頼りに", "安心",
	}},
	{name: "anticipation", category: CategoryPositive, phrases: []string{
		"looking forward", "can't wait", "excited about", "楽しみ", "待ちきれない",
	}},
	{name: "surprise", category: CategoryNeutral, phrases: []string{
		"surprised", "can't believe", "unexpected", "びっくり", "驚いた", "まさか",
	}},
	{name: "love", category: CategoryPositive, phrases: []string{
		"love", "adore", "大好き", "愛してる", "恋して",
	}},
	{name: "gratitude", category: CategoryPositive, phrases: []string{
		"thank", "grateful", "appreciate", "ありがとう", "感謝",
	}},
	{name: "sadness", category: CategoryNegative, phrases: []string{
		"sad", "unhappy", "heartbroken", "crying", "悲しい", "寂しい", "泣きそう", "つらい",
	}},
	{name: "anger", category: CategoryNegative, phrases: []string{
		"angry", "furious", "mad at", "annoyed", "怒って", "ムカつく", "腹が立つ",
	}},
	{name: "fear", category: CategoryNegative, phrases: []string{
		"afraid", "scared", "terrified", "anxious", "怖い", "不安", "恐ろしい",
	}},
	{name: "disgust", category: CategoryNegative, phrases: []string{
		"disgusting", "gross", "sick of", "気持ち悪い", "うんざり",
	}},
	{name: "disappointment", category: CategoryNegative, phrases: []string{
		"disappointed", "let down", "残念", "がっかり", "失望",
	}},
	{name: "neutral", category: CategoryNeutral, phrases: []string{
		"okay", "i see", "alright", "なるほど", "そうなんだ", "ふーん",
	}},
	{name: "calm", category: CategoryNeutral, phrases: []string{
		"calm", "relaxed", "peaceful", "落ち着いて", "のんびり", "穏やか",
	}},
	{name: "interest", category: CategoryNeutral, phrases: []string{
		"interesting", "curious", "tell me more", "興味ある", "気になる", "面白そう",
	}},
	{name: "confusion", category: CategoryNeutral, phrases: []string{
		"confused", "don't understand", "makes no sense", "わからない", "混乱", "どういうこと",
	}},
}

// emotionCategory resolves an emotion name to its valence; unknown names
// are treated as neutral.
func emotionCategory(name string) Category {
	for _, def := range emotionLexicon {
		if def.name == name {
			return def.category
		}
	}
	return CategoryNeutral
}

// ModifierKind tags a contextual modifier word.
type ModifierKind string

const (
	ModIntensifier ModifierKind = "intensifier"
	ModDiminisher  ModifierKind = "diminisher"
	ModNegator     ModifierKind = "negator"
	ModUncertainty ModifierKind = "uncertainty"
	ModCertainty   ModifierKind = "certainty"
	ModTemporal    ModifierKind = "temporal"
)

// Modifier is one detected contextual modifier. The sequence is built once
// per call and consumed read-only downstream.
type Modifier struct {
	Kind ModifierKind `json:"kind"`
	Word string       `json:"word"`
}

var modifierWords = []struct {
	kind  ModifierKind
	words []string
}{
	{ModIntensifier, []string{"very", "really", "extremely", "so much", "とても", "すごく", "本当に"}},
	{ModDiminisher, []string{"slightly", "a little", "somewhat", "ちょっと", "少し"}},
	{ModNegator, []string{"not ", "never", "don't", "can't", "won't", "isn't", "じゃない", "ではない", "くない"}},
	{ModUncertainty, []string{"maybe", "perhaps", "i guess", "かもしれない", "たぶん", "多分"}},
	{ModCertainty, []string{"definitely", "absolutely", "for sure", "絶対に", "確実に", "間違いなく"}},
	{ModTemporal, []string{"used to", "anymore", "yesterday", "these days", "昔は", "最近", "今は"}},
}

var modifierWeights = map[ModifierKind]float64{
	ModIntensifier: 1.3,
	ModDiminisher:  0.7,
	ModNegator:     0.5,
	ModUncertainty: 0.8,
	ModCertainty:   1.2,
	ModTemporal:    1.0,
}
