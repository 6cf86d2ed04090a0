package services

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"stylaapi/models"
	"stylaapi/textutil"
)

// ErrNoSuitableItems means the deterministic filters left nothing to wear.
// Callers treat it as an outcome, not a system error.
var ErrNoSuitableItems = errors.New("no suitable items found for the requested filters")

const AllSeason = "All Season"

const (
	SourceAI    = "ai"
	SourceRules = "rules"
)

// OutfitSuggestion is an ephemeral recommendation. It is never persisted;
// Source records whether the model or the rule matcher composed it.
type OutfitSuggestion struct {
	ItemNames []string              `json:"item_names"`
	ImageURLs []string              `json:"image_urls"`
	Items     []models.WardrobeItem `json:"items"`
	Source    string                `json:"source"`
}

// mood label -> canonical style tags. Fixed vocabulary, kept as-is for
// behavioral parity; do not extend without product review.
var moodStyleTags = map[string][]string{
	"Elegant":      {"formal", "classic", "sophisticated"},
	"Casual":       {"casual", "comfortable", "relaxed"},
	"Sporty":       {"sporty", "casual", "comfortable"},
	"Professional": {"formal", "classic", "professional"},
	"Romantic":     {"elegant", "feminine", "soft"},
	"Bold":         {"modern", "trendy", "statement"},
	"Cozy":         {"comfortable", "casual", "warm"},
}

var bucketOrder = []string{"tops", "bottoms", "shoes", "accessories"}

// category keyword vocabularies for bucketing. Items matching none of the
// four are silently excluded from every outfit.
var categoryBuckets = map[string][]string{
	"tops":        {"top", "shirt", "blouse", "t-shirt", "tee", "sweater", "hoodie", "jacket", "coat", "cardigan", "dress"},
	"bottoms":     {"bottom", "pants", "jeans", "trousers", "skirt", "shorts", "leggings"},
	"shoes":       {"shoes", "sneakers", "boots", "heels", "sandals", "loafers", "flats"},
	"accessories": {"accessory", "bag", "belt", "watch", "scarf", "hat", "jewelry", "necklace", "sunglasses"},
}

// whole-word keyword matchers per bucket, so "top" never fires inside
// "Laptop Bag"
var bucketKeywordRes = func() map[string]*regexp.Regexp {
	res := make(map[string]*regexp.Regexp, len(categoryBuckets))
	for bucket, keywords := range categoryBuckets {
		quoted := make([]string, len(keywords))
		for i, keyword := range keywords {
			quoted[i] = regexp.QuoteMeta(keyword)
		}
		res[bucket] = regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)
	}
	return res
}()

func occasionStyleTags(occasion string) []string {
	phrase := strings.ToLower(occasion)
	switch {
	case strings.Contains(phrase, "work") || strings.Contains(phrase, "office"):
		return []string{"formal", "classic", "professional"}
	case strings.Contains(phrase, "casual") || strings.Contains(phrase, "weekend"):
		return []string{"casual", "comfortable"}
	case strings.Contains(phrase, "party") || strings.Contains(phrase, "event") || strings.Contains(phrase, "night"):
		return []string{"formal", "modern", "elegant"}
	case strings.Contains(phrase, "date"):
		return []string{"casual", "modern", "elegant"}
	case strings.Contains(phrase, "sport") || strings.Contains(phrase, "gym"):
		return []string{"casual", "comfortable", "sporty"}
	default:
		return []string{"casual"}
	}
}

func tagsIntersect(itemTags []string, wanted []string) bool {
	for _, tag := range itemTags {
		lowerTag := strings.ToLower(strings.TrimSpace(tag))
		for _, w := range wanted {
			if lowerTag == w {
				return true
			}
		}
	}
	return false
}

func matchesMood(item models.WardrobeItem, mood string) bool {
	canonical := moodStyleTags[textutil.NormalizeLabel(mood)]
	if tagsIntersect(item.StyleTags, canonical) {
		return true
	}
	lowerMood := strings.ToLower(mood)
	for _, tag := range item.StyleTags {
		if strings.Contains(strings.ToLower(tag), lowerMood) {
			return true
		}
	}
	return false
}

// BucketForItem maps an item's free-form category to one of the four outfit
// buckets, or "" when the category matches no known vocabulary.
func BucketForItem(item models.WardrobeItem) string {
	return bucketFor(item)
}

func bucketFor(item models.WardrobeItem) string {
	for _, bucket := range bucketOrder {
		if bucketKeywordRes[bucket].MatchString(item.Category) {
			return bucket
		}
	}
	return ""
}

// MatchOutfit composes an outfit deterministically: season filter, mood
// filter, optional occasion filter, category bucketing, newest item per
// bucket. At most one item per bucket, in fixed tops/bottoms/shoes/accessories
// order. Items never come from outside the given wardrobe.
func MatchOutfit(items []models.WardrobeItem, mood string, season string, occasion string) (*OutfitSuggestion, error) {
	if len(items) == 0 {
		return nil, ErrNoSuitableItems
	}
	wantedSeason := textutil.NormalizeLabel(season)

	buckets := map[string][]models.WardrobeItem{}
	for _, item := range items {
		itemSeason := textutil.NormalizeLabel(item.Season)
		if itemSeason != wantedSeason && itemSeason != AllSeason {
			continue
		}
		if !matchesMood(item, mood) {
			continue
		}
		if occasion != "" && !tagsIntersect(item.StyleTags, occasionStyleTags(occasion)) {
			continue
		}
		bucket := bucketFor(item)
		if bucket == "" {
			// unknown category vocabulary, known silent exclusion
			continue
		}
		buckets[bucket] = append(buckets[bucket], item)
	}

	suggestion := &OutfitSuggestion{
		ItemNames: []string{},
		ImageURLs: []string{},
		Items:     []models.WardrobeItem{},
		Source:    SourceRules,
	}
	for _, bucket := range bucketOrder {
		candidates := buckets[bucket]
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
		})
		picked := candidates[0]
		suggestion.Items = append(suggestion.Items, picked)
		suggestion.ItemNames = append(suggestion.ItemNames, picked.Name)
		imageURL := ""
		if picked.ImageURL != nil {
			imageURL = *picked.ImageURL
		}
		suggestion.ImageURLs = append(suggestion.ImageURLs, imageURL)
	}
	if len(suggestion.Items) == 0 {
		return nil, ErrNoSuitableItems
	}
	return suggestion, nil
}
