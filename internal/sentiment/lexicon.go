package sentiment

import "sort"

// Weighted lexicons. Japanese and English entries coexist; matching is
// substring-within-token over the lowercased text, so short English entries
// should be chosen with collisions in mind.

var positiveWords = map[string]int{
	"嬉しい":       2,
	"楽しい":       2,
	"楽しかった":     2,
	"幸せ":        3,
	"好き":        3,
	"大好き":       4,
	"最高":        3,
	"素敵":        2,
	"素晴らしい":     3,
	"面白い":       2,
	"すごい":       2,
	"かわいい":      2,
	"元気":        2,
	"happy":     2,
	"glad":      2,
	"great":     2,
	"good":      1,
	"awesome":   3,
	"wonderful": 3,
	"amazing":   3,
	"love":      3,
	"fun":       2,
	"nice":      1,
	"excellent": 3,
	"fantastic": 3,
	"cool":      1,
	"sweet":     2,
}

var negativeWords = map[string]int{
	"悲しい":       -2,
	"嫌い":        -3,
	"大嫌い":       -4,
	"最悪":        -4,
	"つらい":       -2,
	"辛い":        -2,
	"苦しい":       -2,
	"寂しい":       -2,
	"怖い":        -2,
	"疲れた":       -1,
	"泣きたい":      -2,
	"sad":       -2,
	"bad":       -2,
	"terrible":  -3,
	"awful":     -3,
	"hate":      -3,
	"horrible":  -3,
	"angry":     -2,
	"upset":     -2,
	"lonely":    -2,
	"hurt":      -2,
	"worst":     -4,
	"miserable": -3,
}

var caringWords = map[string]int{
	"大丈夫":     2,
	"心配":      2,
	"無理しないで":  3,
	"お大事に":    3,
	"頑張って":    2,
	"休んで":     2,
	"そばにいる":   3,
	"care":    2,
	"worry":   2,
	"worried": 2,
	"support": 2,
	"comfort": 2,
	"gentle":  2,
	"rest":    2,
	"protect": 2,
}

var dismissiveWords = map[string]int{
	"どうでもいい":    -3,
	"別に":        -1,
	"勝手に":       -2,
	"知らない":      -1,
	"つまらない":     -2,
	"whatever":  -3,
	"boring":    -2,
	"useless":   -2,
	"pointless": -2,
	"meh":       -1,
	"ignore":    -2,
	"lame":      -2,
}

var appreciativeWords = map[string]int{
	"ありがとう":      3,
	"ありがと":       2,
	"感謝":         3,
	"助かった":       3,
	"助かる":        2,
	"おかげ":        2,
	"thank":      3,
	"thanks":     3,
	"appreciate": 3,
	"grateful":   3,
	"helpful":    2,
}

var hostileWords = map[string]int{
	"死ね":       -5,
	"消えろ":      -4,
	"黙れ":       -3,
	"うざい":      -3,
	"きもい":      -3,
	"馬鹿":       -2,
	"バカ":       -2,
	"アホ":       -2,
	"クズ":       -4,
	"idiot":    -3,
	"stupid":   -3,
	"moron":    -3,
	"ugly":     -2,
	"trash":    -3,
	"loser":    -3,
	"pathetic": -3,
}

var sexualTerms = []string{
	"えっち",
	"エロ",
	"裸",
	"下着",
	"セクシー",
	"sexy",
	"nude",
	"naked",
	"horny",
	"strip",
}

type entry struct {
	word   string
	weight int
}

// sortedEntries fixes the lexicon iteration order so keyword lists and
// scoring are deterministic across calls.
func sortedEntries(m map[string]int) []entry {
	out := make([]entry, 0, len(m))
	for w, n := range m {
		out = append(out, entry{word: w, weight: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].word < out[j].word })
	return out
}
