package core

import (
	"encoding/binary"
	"slices"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for directory records.
// It is supplied by the directory backend or derived from content.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordID derives the content ID for a record that arrives without one.
func RecordID(category Category, name string) ID {
	return IDFromContent(string(category) + "|" + strings.TrimSpace(name))
}

// Language identifies the language a question is asked in.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"

	// DefaultLanguage is used when a request does not name a supported language.
	DefaultLanguage = LanguageSpanish
)

// SupportedLanguages lists the languages with keyword tables and message pools.
var SupportedLanguages = []Language{LanguageSpanish, LanguageEnglish}

// ParseLanguage maps free-form input ("es", "EN", "es-ES", "en_GB") to a
// supported language, falling back to DefaultLanguage.
func ParseLanguage(s string) Language {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) > 2 && (s[2] == '-' || s[2] == '_') {
		s = s[:2]
	}
	switch Language(s) {
	case LanguageSpanish, LanguageEnglish:
		return Language(s)
	default:
		return DefaultLanguage
	}
}

// Category is a topic a question can be routed to.
type Category string

// The closed category set. CategoryUnknown is the sentinel for questions
// no stage could place.
const (
	CategoryAccommodation      Category = "Accommodation"
	CategoryArtsAndCulture     Category = "Arts and Culture"
	CategoryBarsAndClubs       Category = "Bars and Clubs"
	CategoryBeautyAndWellBeing Category = "Beauty and Well-Being"
	CategoryBusinessServices   Category = "Business Services"
	CategoryEducation          Category = "Education"
	CategoryHealthcare         Category = "Healthcare"
	CategoryHomeServices       Category = "Home Services"
	CategoryLegalAndFinancial  Category = "Legal and Financial"
	CategoryRecreation         Category = "Recreation and Leisure"
	CategoryRestaurants        Category = "Restaurants"
	CategoryRetail             Category = "Retail"
	CategoryAdvertising        Category = "Advertising"
	CategoryBotService         Category = "Bot Service"
	CategoryWorkAndNetworking  Category = "Work and Networking"
	CategorySocialAndCultural  Category = "Social and Cultural"
	CategoryImmigration        Category = "Immigration"

	CategoryUnknown Category = "Unknown"
)

// Categories returns the closed category set in canonical order.
func Categories() []Category {
	return []Category{
		CategoryAccommodation,
		CategoryArtsAndCulture,
		CategoryBarsAndClubs,
		CategoryBeautyAndWellBeing,
		CategoryBusinessServices,
		CategoryEducation,
		CategoryHealthcare,
		CategoryHomeServices,
		CategoryLegalAndFinancial,
		CategoryRecreation,
		CategoryRestaurants,
		CategoryRetail,
		CategoryAdvertising,
		CategoryBotService,
		CategoryWorkAndNetworking,
		CategorySocialAndCultural,
		CategoryImmigration,
	}
}

// IsKnown reports whether c belongs to the closed category set.
func (c Category) IsKnown() bool {
	return slices.Contains(Categories(), c)
}

// FAQ is a question/answer pair attached to a record.
type FAQ struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// Record is a directory entry for an advertiser or service.
// Records are owned by the directory backends; the engine only reads them
// and hands out copies.
type Record struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Description string   `json:"description,omitempty"`
	Profile     string   `json:"profile,omitempty"`
	Location    string   `json:"location,omitempty"`
	Contact     string   `json:"contact,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
	FAQ         []FAQ    `json:"faq,omitempty"`
	Sponsored   bool     `json:"sponsored"`
	Price       string   `json:"price,omitempty"`
	Languages   string   `json:"languages,omitempty"`
	Synthetic   bool     `json:"synthetic,omitempty"` // Built by a responder, not present in the directory
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	r.Benefits = slices.Clone(r.Benefits)
	r.FAQ = slices.Clone(r.FAQ)
	return r
}

// CloneRecords deep-copies a record slice. A nil input yields an empty slice.
func CloneRecords(records []Record) []Record {
	out := make([]Record, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}

// Stage identifies which classification stage produced a result.
type Stage int

const (
	StageUnknown Stage = iota
	StageCritical
	StageBusinessName
	StageKeyword
	StageSemantic
)

func (s Stage) String() string {
	switch s {
	case StageCritical:
		return "critical"
	case StageBusinessName:
		return "business_name"
	case StageKeyword:
		return "keyword"
	case StageSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// MarshalText renders the stage by name in JSON output.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a stage name. Unrecognized names map to StageUnknown.
func (s *Stage) UnmarshalText(text []byte) error {
	for _, candidate := range []Stage{StageCritical, StageBusinessName, StageKeyword, StageSemantic} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	*s = StageUnknown
	return nil
}

// ClassificationResult is the outcome of classifying one question.
type ClassificationResult struct {
	Category   Category
	Confidence float64
	Record     *Record // Set only when a business name matched
	Stage      Stage
	Matched    string // Term or name that fired, if any
}

// SummaryPoint is a short highlight drawn from one of the best candidates.
type SummaryPoint struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}

// Editorial reference types.
const (
	GuideTypeGuide   = "guide"
	GuideTypeArticle = "article"
)

// GuideSummary is a compact editorial cross-reference.
type GuideSummary struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary,omitempty"`
	Slug     string   `json:"slug,omitempty"`
	URL      string   `json:"url,omitempty"`
	Category Category `json:"category,omitempty"`
	Score    int      `json:"score"`
}

// QueryRequest is the input to the dispatcher.
// Limit 0 means "all remaining items"; negative offsets are clamped to 0.
type QueryRequest struct {
	Question string   `json:"question"`
	Language Language `json:"language"`
	Limit    int      `json:"limit"`
	Offset   int      `json:"offset"`
}

// QueryResponse is the assembled answer for one request.
type QueryResponse struct {
	Message       string         `json:"message"`
	Category      Category       `json:"category"`
	Confidence    float64        `json:"confidence"`
	Stage         Stage          `json:"stage"`
	SummaryPoints []SummaryPoint `json:"summary_points"`
	Items         []Record       `json:"items"`
	Total         int            `json:"total"`
	HasMore       bool           `json:"has_more"`
	NextOffset    *int           `json:"next_offset,omitempty"`
	EditorialRefs []GuideSummary `json:"editorial_refs"`
}
