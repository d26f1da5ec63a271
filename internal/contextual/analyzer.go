package contextual

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jonreiter/govader"

	"affect/internal/mixed"
)

// Analysis is the contextual emotion signal consumed by the pipeline. It is
// deliberately independent of the keyword scorer so the two can disagree.
type Analysis struct {
	DominantEmotion    string           `json:"dominant_emotion"`
	EmotionCategory    mixed.Category   `json:"emotion_category"`
	EmotionConfidence  float64          `json:"emotion_confidence"`
	SarcasmProbability float64          `json:"sarcasm_probability"`
	IronyProbability   float64          `json:"irony_probability"`
	Modifiers          []mixed.Modifier `json:"modifiers,omitempty"`
	Compound           float64          `json:"compound"`
}

// Analyzer fuses VADER polarity with bilingual emotion hints. Safe for
// concurrent use; the VADER instance is serialized internally.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
	mu  sync.Mutex
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

var emotionHints = []struct {
	emotion  string
	category mixed.Category
	hints    []string
}{
	{"joy", mixed.CategoryPositive, []string{"嬉しい", "楽しい", "最高", "happy", "glad", "wonderful", "delighted"}},
	{"gratitude", mixed.CategoryPositive, []string{"ありがとう", "感謝", "thank", "grateful", "appreciate"}},
	{"love", mixed.CategoryPositive, []string{"大好き", "愛してる", "love you", "adore"}},
	{"sadness", mixed.CategoryNegative, []string{"悲しい", "寂しい", "つらい", "sad", "lonely", "miserable", "heartbroken"}},
	{"anger", mixed.CategoryNegative, []string{"怒って", "ムカつく", "最悪", "angry", "furious", "hate", "fed up"}},
	{"fear", mixed.CategoryNegative, []string{"怖い", "不安", "scared", "afraid", "anxious", "worried"}},
	{"disgust", mixed.CategoryNegative, []string{"気持ち悪い", "うんざり", "disgusting", "gross"}},
	{"disappointment", mixed.CategoryNegative, []string{"残念", "がっかり", "disappointed", "let down"}},
	{"surprise", mixed.CategoryNeutral, []string{"びっくり", "驚いた", "surprised", "unexpected", "no way"}},
	{"confusion", mixed.CategoryNeutral, []string{"わからない", "混乱", "confused", "makes no sense"}},
	{"neutral", mixed.CategoryNeutral, []string{"なるほど", "そうなんだ", "i see", "okay then"}},
}

var strongSarcasmCues = []string{
	"yeah right",
	"just what i needed",
	"oh great",
	"oh wonderful",
	"oh perfect",
	"oh joy",
	"as if",
	"how original",
	"thanks a lot",
	"はいはい",
	"どうせ",
	"よかったですねー",
}

var weakSarcasmCues = []string{
	"sure, ",
	"totally.",
	"of course it",
	"あっそう",
	"ふーん、",
}

var ironyCues = []string{
	"love it when",
	"my favorite part",
	"can't get enough of",
	"just my luck",
	"ついてるなあ",
}

// Analyze produces the contextual emotion signal for text. The error return
// exists for interface symmetry with other pipeline stages; scoring itself
// cannot fail.
func (a *Analyzer) Analyze(text string) (Analysis, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Analysis{
			DominantEmotion:   "neutral",
			EmotionCategory:   mixed.CategoryNeutral,
			EmotionConfidence: 0.4,
		}, nil
	}
	norm := strings.ToLower(trimmed)

	a.mu.Lock()
	scores := a.sia.PolarityScores(trimmed)
	a.mu.Unlock()

	dominant, category, confidence := dominantFromHints(norm, scores.Compound)

	return Analysis{
		DominantEmotion:    dominant,
		EmotionCategory:    category,
		EmotionConfidence:  confidence,
		SarcasmProbability: cueProbability(norm, strongSarcasmCues, weakSarcasmCues),
		IronyProbability:   cueProbability(norm, ironyCues, nil),
		Modifiers:          mixed.DetectModifiers(norm),
		Compound:           scores.Compound,
	}, nil
}

// dominantFromHints scores the bilingual hint lists the way the fine-grained
// hint scan works elsewhere (longer hints weigh more), then falls back to
// the VADER compound band when nothing fired.
func dominantFromHints(norm string, compound float64) (string, mixed.Category, float64) {
	best := ""
	bestCat := mixed.CategoryNeutral
	bestScore := 0.0
	total := 0.0
	for _, item := range emotionHints {
		s := 0.0
		for _, h := range item.hints {
			if strings.Contains(norm, h) {
				s += 1.0 + math.Min(float64(utf8.RuneCountInString(h))/10.0, 1.0)
			}
		}
		total += s
		if s > bestScore {
			best = item.emotion
			bestCat = item.category
			bestScore = s
		}
	}

	if best == "" {
		return compoundFallback(compound)
	}

	ratio := bestScore / total
	evidence := math.Min(1.0, total/3.0)
	confidence := clamp(0.52+0.33*ratio+0.15*evidence, 0.3, 0.95)

	// Strong VADER disagreement lowers trust in the hint pick.
	if (bestCat == mixed.CategoryPositive && compound < -0.4) ||
		(bestCat == mixed.CategoryNegative && compound > 0.4) {
		confidence *= 0.8
	}
	return best, bestCat, confidence
}

func compoundFallback(compound float64) (string, mixed.Category, float64) {
	confidence := clamp(0.4+0.4*math.Abs(compound), 0.3, 0.9)
	switch {
	case compound >= 0.6:
		return "joy", mixed.CategoryPositive, confidence
	case compound >= 0.2:
		return "anticipation", mixed.CategoryPositive, confidence
	case compound <= -0.6:
		return "anger", mixed.CategoryNegative, confidence
	case compound <= -0.2:
		return "sadness", mixed.CategoryNegative, confidence
	default:
		return "neutral", mixed.CategoryNeutral, 0.4
	}
}

func cueProbability(norm string, strong, weak []string) float64 {
	strongHits := 0
	for _, cue := range strong {
		if strings.Contains(norm, cue) {
			strongHits++
		}
	}
	weakHits := 0
	for _, cue := range weak {
		if strings.Contains(norm, cue) {
			weakHits++
		}
	}
	switch {
	case strongHits > 0:
		return clamp(0.65+0.1*float64(strongHits-1)+0.1*float64(weakHits), 0, 0.95)
	case weakHits > 0:
		return clamp(0.25*float64(weakHits), 0, 0.5)
	default:
		return 0
	}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
