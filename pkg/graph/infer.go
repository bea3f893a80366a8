package graph

import (
	"strings"
	"unicode"

	"github.com/oncograph/backend/pkg/common"
)

var diseaseKeywords = []string{
	"cancer",
	"carcinoma",
	"adenocarcinoma",
	"melanoma",
	"lymphoma",
	"leukemia",
	"sarcoma",
	"glioma",
	"tumor",
}

var pathwayKeywords = []string{
	"signaling",
	"pathway",
	"cascade",
	"transduction",
}

var drugSuffixes = []string{"ib", "ab", "mab", "nib", "lib", "sib", "zumab"}

// InferCategory guesses a category from an entity name. It is used for
// endpoints that appear in relations without ever being declared as
// entities, so the rules are deliberately coarse.
func InferCategory(name string) common.Category {
	// Gene-like: all-caps, 2-8 chars, possibly with digits.
	if name == strings.ToUpper(name) && len(name) >= 2 && len(name) <= 8 && containsLetter(name) {
		return common.CategoryGene
	}
	// Mutation-like: short token mixing letters and digits (G12C, V600E).
	if len(name) > 0 && len(name) <= 10 && containsDigit(name) && unicode.IsLetter(rune(name[0])) {
		return common.CategoryMutation
	}
	lower := strings.ToLower(name)
	for _, kw := range diseaseKeywords {
		if strings.Contains(lower, kw) {
			return common.CategoryDisease
		}
	}
	for _, kw := range pathwayKeywords {
		if strings.Contains(lower, kw) {
			return common.CategoryPathway
		}
	}
	for _, suffix := range drugSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return common.CategoryDrug
		}
	}
	return common.CategoryMechanism
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func humanizeRelation(relation string) string {
	return strings.ReplaceAll(relation, "_", " ")
}
