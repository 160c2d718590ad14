package analytics

import (
	"strings"

	"github.com/de-tools/relief-atlas/pkg/models/domain"
)

type categoryRule struct {
	category domain.Category
	keywords []string
}

// categoryRules is evaluated top to bottom and the first hit wins, so a
// description mentioning both food and an injury is a Food request.
var categoryRules = []categoryRule{
	{domain.CategoryFood, []string{"food", "hungry", "meal", "eat"}},
	{domain.CategoryWater, []string{"water", "thirsty", "drink"}},
	{domain.CategoryMedical, []string{"medical", "medicine", "doctor", "injury", "hurt", "pain", "wound"}},
	{domain.CategoryShelter, []string{"shelter", "home", "house", "roof", "sleep"}},
	{domain.CategoryEvacuation, []string{"evacuation", "evacuate", "escape", "leave", "flee"}},
}

func (r categoryRule) matches(description string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

// Categorize maps a free-text need description onto a need category.
func Categorize(description string) domain.Category {
	d := strings.ToLower(description)
	for _, rule := range categoryRules {
		if rule.matches(d) {
			return rule.category
		}
	}
	return domain.CategoryOther
}
