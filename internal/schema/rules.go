// Package schema validates JSON-LD structured data against Google's rich
// results requirements.
package schema

// Rule describes the validation requirements for one schema.org type.
// NestedRules recurse into object- or list-valued properties, mirroring
// the shape of the structured data itself.
type Rule struct {
	Required    []string
	Recommended []string
	NestedRules map[string]*Rule
	// ItemType names the expected type of list items, informational only.
	ItemType string
	// ValidTypes restricts which @type values a nested object may carry.
	ValidTypes  []string
	Description string
	Note        string
}

// Deprecation records why a type no longer produces rich results.
type Deprecation struct {
	Date   string
	Note   string
	Source string
}

// richResultsRules holds Google's requirements per rich-result type.
// Source: https://developers.google.com/search/docs/appearance/structured-data/search-gallery
// Last verified: January 2026.
var richResultsRules = map[string]*Rule{
	"Article": {
		Required:    []string{"headline"},
		Recommended: []string{"image", "datePublished", "dateModified", "author"},
		NestedRules: map[string]*Rule{
			"author": {Recommended: []string{"name", "url"}},
		},
		Description: "News, sports, or blog article rich results",
	},
	"Product": {
		Required: []string{"name"},
		Recommended: []string{
			"image", "description", "offers", "aggregateRating", "review", "brand",
		},
		NestedRules: map[string]*Rule{
			"offers": {Required: []string{"price", "priceCurrency"}},
		},
		Description: "Product snippets with pricing and availability",
	},
	"Recipe": {
		Required: []string{"name", "image"},
		Recommended: []string{
			"author", "datePublished", "description", "prepTime", "cookTime",
			"totalTime", "recipeYield", "recipeIngredient", "recipeInstructions",
			"aggregateRating", "nutrition", "video",
		},
		Description: "Recipe cards with cook time, ingredients, ratings",
	},
	"FAQPage": {
		Required: []string{"mainEntity"},
		NestedRules: map[string]*Rule{
			"mainEntity": {
				ItemType: "Question",
				Required: []string{"name", "acceptedAnswer"},
				NestedRules: map[string]*Rule{
					"acceptedAnswer": {Required: []string{"text"}},
				},
			},
		},
		Note:        "Since Aug 2023, only shown for well-known authority sites",
		Description: "FAQ dropdown rich results",
	},
	"Review": {
		Required:    []string{"itemReviewed", "author"},
		Recommended: []string{"reviewRating", "datePublished"},
		NestedRules: map[string]*Rule{
			"reviewRating": {Required: []string{"ratingValue"}},
		},
		Description: "Individual review with star rating",
	},
	"AggregateRating": {
		Required:    []string{"ratingValue"},
		Recommended: []string{"ratingCount", "reviewCount", "bestRating", "worstRating"},
		Description: "Average rating from multiple reviews",
	},
	"Event": {
		Required: []string{"name", "startDate", "location"},
		Recommended: []string{
			"endDate", "description", "image", "performer", "offers", "organizer",
		},
		NestedRules: map[string]*Rule{
			"location": {ValidTypes: []string{"Place", "VirtualLocation"}},
		},
		Description: "Event listings with date and location",
	},
	"VideoObject": {
		Required:    []string{"name", "description", "thumbnailUrl", "uploadDate"},
		Recommended: []string{"duration", "contentUrl", "embedUrl", "interactionStatistic"},
		Description: "Video rich results with thumbnail and duration",
	},
	"LocalBusiness": {
		Required:    []string{"name", "address"},
		Recommended: []string{"telephone", "openingHours", "image", "priceRange", "geo"},
		NestedRules: map[string]*Rule{
			"address": {Required: []string{"streetAddress", "addressLocality", "addressCountry"}},
		},
		Description: "Local business information panel",
	},
	"BreadcrumbList": {
		Required: []string{"itemListElement"},
		NestedRules: map[string]*Rule{
			"itemListElement": {
				Required:    []string{"position", "name"},
				Recommended: []string{"item"},
			},
		},
		Description: "Breadcrumb navigation in search results",
	},
	"Organization": {
		Required:    []string{"name"},
		Recommended: []string{"url", "logo", "contactPoint", "sameAs"},
		Description: "Organization info for knowledge panels",
	},
}

// deprecatedTypes lists types that should generate warnings.
var deprecatedTypes = map[string]Deprecation{
	"HowTo": {
		Date:   "August 2023",
		Note:   "HowTo rich results are no longer shown in Google Search",
		Source: "https://developers.google.com/search/blog/2023/08/howto-faq-changes",
	},
}

// basicSchemaTypes are valid but not rich-result eligible; they never
// generate issues.
var basicSchemaTypes = map[string]struct{}{
	"Person":        {},
	"WebSite":       {},
	"WebPage":       {},
	"ImageObject":   {},
	"SearchAction":  {},
	"ItemList":      {},
	"ListItem":      {},
	"Thing":         {},
	"CreativeWork":  {},
	"Offer":         {},
	"Place":         {},
	"PostalAddress": {},
	"GeoCoordinates": {},
}

// typeInheritance maps subtypes to the parent type whose rules apply.
var typeInheritance = map[string]string{
	// Article subtypes
	"NewsArticle":      "Article",
	"BlogPosting":      "Article",
	"ScholarlyArticle": "Article",
	"TechArticle":      "Article",
	"Report":           "Article",
	// LocalBusiness subtypes
	"Restaurant":                  "LocalBusiness",
	"Store":                       "LocalBusiness",
	"MedicalBusiness":             "LocalBusiness",
	"LegalService":                "LocalBusiness",
	"FinancialService":            "LocalBusiness",
	"FoodEstablishment":           "LocalBusiness",
	"LodgingBusiness":             "LocalBusiness",
	"SportsActivityLocation":      "LocalBusiness",
	"EntertainmentBusiness":       "LocalBusiness",
	"HealthAndBeautyBusiness":     "LocalBusiness",
	"HomeAndConstructionBusiness": "LocalBusiness",
	"ProfessionalService":         "LocalBusiness",
	"AutoRepair":                  "LocalBusiness",
	// Event subtypes
	"MusicEvent":     "Event",
	"SportsEvent":    "Event",
	"BusinessEvent":  "Event",
	"SaleEvent":      "Event",
	"SocialEvent":    "Event",
	"TheaterEvent":   "Event",
	"EducationEvent": "Event",
	"Festival":       "Event",
	// Organization subtypes
	"Corporation":             "Organization",
	"EducationalOrganization": "Organization",
	"GovernmentOrganization":  "Organization",
	"MedicalOrganization":     "Organization",
	"NGO":                     "Organization",
	"SportsOrganization":      "Organization",
}

// RulesForType returns the validation rules for a schema type, resolving
// subtype inheritance. Nil means the type is not a rich result type.
func RulesForType(schemaType string) *Rule {
	if rule, ok := richResultsRules[schemaType]; ok {
		return rule
	}
	if parent, ok := typeInheritance[schemaType]; ok {
		return richResultsRules[parent]
	}
	return nil
}

// IsRichResultType reports whether a type is eligible for rich results.
func IsRichResultType(schemaType string) bool {
	if _, ok := richResultsRules[schemaType]; ok {
		return true
	}
	_, ok := typeInheritance[schemaType]
	return ok
}

// IsDeprecatedType reports whether a type no longer produces rich results.
func IsDeprecatedType(schemaType string) bool {
	_, ok := deprecatedTypes[schemaType]
	return ok
}

// IsBasicType reports whether a type is a basic, non-rich-result type.
func IsBasicType(schemaType string) bool {
	_, ok := basicSchemaTypes[schemaType]
	return ok
}

// DeprecationInfo returns deprecation details for a deprecated type.
func DeprecationInfo(schemaType string) Deprecation {
	return deprecatedTypes[schemaType]
}
