package game

import (
	"slices"
	"strings"
)

// Phrases groups the text patterns used to classify interpreter output.
// Failure and Success entries match as substrings anywhere in the output;
// Mistake and Disambiguation entries match as a prefix or suffix of a single
// output line. All matching is case-insensitive.
type Phrases struct {
	Failure        []string `yaml:"failure"`
	Success        []string `yaml:"success"`
	Mistake        []string `yaml:"mistake"`
	Disambiguation []string `yaml:"disambiguation"`
}

// DefaultPhrases returns the generic tables that apply to most Z-machine
// interpreters: the stock refusals the standard library of verbs produces,
// plus the standard end-of-game banners. Game profiles merge their own
// entries on top.
func DefaultPhrases() Phrases {
	return Phrases{
		Failure: []string{
			"*** you have died ***",
		},
		Success: []string{
			"*** you have won ***",
		},
		Mistake: []string{
			`"oops" can only correct`,
			"after a few moments, you realise that",
			"already closed.",
			"beg your pardon?",
			"but you aren't",
			"darkness, noun.  an absence of light",
			"digging would achieve nothing here",
			"does not open.",
			"for a while, but don't achieve much.",
			"i didn't understand that",
			"i didn't understand the way",
			"i only understood you as far as",
			"is already here.",
			"it is pitch dark, and you can't",
			"no pronouns are known to the game",
			"nothing practical results",
			"real adventurers do not",
			"seem to be something you can lock.",
			"seem to be something you can unlock.",
			"that would be less than courteous",
			"that's not a verb i recognise",
			"that's not something you need to refer to",
			"this dangerous act would achieve little",
			"to talk to someone, try",
			"violence isn't the answer",
			"you aren't feeling especially",
			"you can only do that to",
			"you can only get into something",
			"you can't put something inside",
			"you can't put something on",
			"you can't see any such thing",
			"you can't use multiple objects",
			"you're carrying too many",
			"you jump on the spot, fruitlessly",
			"you see nothing",
			"you seem to have said too little",
			"you seem to want to talk to someone, but",
		},
		Disambiguation: []string{
			"which do you mean",
			"please give one of the answers above",
		},
	}
}

// Merge returns a new table containing p's entries followed by extra's,
// lower-cased, trimmed, and de-duplicated. Order is preserved because the
// evaluator applies rules first-match-wins.
func (p Phrases) Merge(extra Phrases) Phrases {
	return Phrases{
		Failure:        mergeLists(p.Failure, extra.Failure),
		Success:        mergeLists(p.Success, extra.Success),
		Mistake:        mergeLists(p.Mistake, extra.Mistake),
		Disambiguation: mergeLists(p.Disambiguation, extra.Disambiguation),
	}
}

func mergeLists(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, l := range [][]string{base, extra} {
		for _, s := range l {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" || slices.Contains(out, s) {
				continue
			}
			out = append(out, s)
		}
	}
	return out
}
