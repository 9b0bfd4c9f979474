package outfit

import "strings"

// TagSet is an unordered set of style tags, e.g. "Formal", "Sport".
type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

func (s TagSet) Contains(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s TagSet) add(tags []string) {
	for _, t := range tags {
		s[t] = struct{}{}
	}
}

type tagEntry struct {
	Keyword string
	Tags    []string
}

// tagTable maps prompt keywords to the style tags they imply. Matching is
// substring containment on the lower-cased prompt ("gymnastics" hits "gym"),
// and matched keywords are reported in table order, not prompt order.
var tagTable = []tagEntry{
	{"interview", []string{"Formal", "Business", "Work"}},
	{"presentation", []string{"Formal", "Business", "Work"}},
	{"meeting", []string{"Business", "Work", "Smart-Casual"}},
	{"office", []string{"Business", "Work", "Smart-Casual"}},
	{"work", []string{"Work", "Smart-Casual"}},
	{"wedding", []string{"Formal", "Elegant"}},
	{"funeral", []string{"Formal", "Dark"}},
	{"dinner", []string{"Elegant", "Smart-Casual"}},
	{"date", []string{"Elegant", "Romantic", "Smart-Casual"}},
	{"party", []string{"Party", "Night-Out"}},
	{"club", []string{"Party", "Night-Out"}},
	{"concert", []string{"Party", "Casual"}},
	{"gym", []string{"Sport", "Athletic"}},
	{"workout", []string{"Sport", "Athletic"}},
	{"yoga", []string{"Sport", "Athletic", "Comfortable"}},
	{"run", []string{"Sport", "Athletic"}},
	{"hike", []string{"Outdoor", "Sport", "Comfortable"}},
	{"beach", []string{"Summer", "Casual", "Light"}},
	{"pool", []string{"Summer", "Casual", "Light"}},
	{"summer", []string{"Summer", "Light"}},
	{"hot", []string{"Summer", "Light"}},
	{"winter", []string{"Winter", "Warm", "Outerwear"}},
	{"cold", []string{"Winter", "Warm", "Outerwear"}},
	{"snow", []string{"Winter", "Warm", "Outerwear"}},
	{"rain", []string{"Outerwear", "All-Season", "Waterproof"}},
	{"coffee", []string{"Casual", "Smart-Casual"}},
	{"brunch", []string{"Casual", "Smart-Casual"}},
	{"walk", []string{"Casual", "Comfortable"}},
	{"travel", []string{"Casual", "Comfortable"}},
	{"flight", []string{"Casual", "Comfortable"}},
	{"casual", []string{"Casual"}},
	{"weekend", []string{"Casual", "Comfortable"}},
	{"shopping", []string{"Casual", "Comfortable"}},
}

// outerwearTriggers are keywords whose presence in the prompt means the
// outfit should include an outerwear layer.
var outerwearTriggers = []string{
	"cold", "winter", "snow", "rain", "chilly", "windy",
	"freez", "autumn", "jacket", "coat",
}

// TagsFor lower-cases the prompt and collects the tags of every keyword
// contained in it. The returned keywords preserve tagTable order so the
// surfaced keyword list is reproducible for the same prompt.
func TagsFor(prompt string) ([]string, TagSet) {
	lowered := strings.ToLower(prompt)
	var matched []string
	tags := make(TagSet)
	for _, entry := range tagTable {
		if strings.Contains(lowered, entry.Keyword) {
			matched = append(matched, entry.Keyword)
			tags.add(entry.Tags)
		}
	}
	return matched, tags
}

// NeedsOuterwear reports whether any outerwear trigger keyword appears in
// the lower-cased prompt.
func NeedsOuterwear(prompt string) bool {
	lowered := strings.ToLower(prompt)
	for _, trigger := range outerwearTriggers {
		if strings.Contains(lowered, trigger) {
			return true
		}
	}
	return false
}
