package models

import "strings"

// StatusRecord is an operator-set live status such as the entrance queue.
type StatusRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FaqRecord pairs a comma-separated keyword list with an answer.
type FaqRecord struct {
	Keywords string `json:"keywords"`
	Answer   string `json:"answer"`
}

// KeywordList splits Keywords on commas, dropping blank entries.
func (f FaqRecord) KeywordList() []string {
	var out []string
	for _, w := range strings.Split(f.Keywords, ",") {
		if w = strings.TrimSpace(w); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Matches reports whether any keyword occurs in text.
func (f FaqRecord) Matches(text string) bool {
	for _, w := range f.KeywordList() {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// LocationPoint is a named coordinate stored under a free-form category.
type LocationPoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (l LocationPoint) Latitude() float64  { return l.Lat }
func (l LocationPoint) Longitude() float64 { return l.Lng }
