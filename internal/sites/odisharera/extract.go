package odisharera

import (
	"fmt"
	"regexp"
	"strings"

	"rerascrape/internal/logger"
	"rerascrape/internal/models"
)

// reraNoRe matches an authority registration number such as RP/05/2024/000123.
var reraNoRe = regexp.MustCompile(`(RP|PS)/\d+/\d{4}/\d+`)

var (
	// An upper-case run directly followed by "by", e.g. "SUNRISE HEIGHTS by".
	capsNameRe   = regexp.MustCompile(`([A-Z][A-Z\s\-&.]+[A-Z])\s+(?i:by)\s+`)
	boldNameRe   = regexp.MustCompile(`(?i)<(?:strong|b)(?:\s[^>]*)?>([^<]+)</(?:strong|b)>`)
	headingRe    = regexp.MustCompile(`(?i)<h[1-6](?:\s[^>]*)?>([^<]+)</h[1-6]>`)
	promoterRe   = regexp.MustCompile(`(?i)by\s+(.*?)\s*(?:Address|Project Type|$)`)
	addressRe    = regexp.MustCompile(`(?i)Address\s*:?\s*(.*?)\s*(?:Project Type|Started From|$)`)
	typeRe       = regexp.MustCompile(`(?i)Project Type\s*(Residential|Plotted Scheme|Commercial)`)
	startedRe    = regexp.MustCompile(`(?i)Started From\s*([A-Za-z]+,?\s*\d{4})`)
	possessionRe = regexp.MustCompile(`(?i)Possession by\s*([A-Za-z]+,?\s*\d{4})`)
	unitsRe      = regexp.MustCompile(`(?i)(\d+)\s*Units?(?:\(s\))?\s*Available`)
)

// source selects which rendering of a fragment a rule reads.
type source int

const (
	sourceText source = iota
	sourceMarkup
)

// fieldRule extracts one field. Rules are independent: a rule that does
// not match leaves its field empty and never affects another rule.
type fieldRule struct {
	field   string
	source  source
	extract func(string) (string, bool)
}

var fieldRules = []fieldRule{
	{models.FieldReraNo, sourceText, ReraNo},
	{models.FieldProjectName, sourceMarkup, ProjectName},
	{models.FieldPromoterName, sourceText, PromoterName},
	{models.FieldAddress, sourceText, Address},
	{models.FieldProjectType, sourceText, ProjectType},
	{models.FieldStartedFrom, sourceText, StartedFrom},
	{models.FieldPossessionBy, sourceText, PossessionBy},
	{models.FieldUnitsAvailable, sourceText, UnitsAvailable},
}

// Extractor turns candidate fragments into project records.
type Extractor struct {
	log logger.Logger
}

// NewExtractor creates an Extractor that reports rule failures to log.
func NewExtractor(log logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{log: log}
}

// Extract returns the best-effort record for one fragment. It never fails:
// every field is present and those that could not be extracted are empty.
func (e *Extractor) Extract(fragment string) models.ProjectRecord {
	var rec models.ProjectRecord
	text := safeTextOnly(fragment, e.log)
	for _, rule := range fieldRules {
		in := text
		if rule.source == sourceMarkup {
			in = fragment
		}
		if v, ok := e.apply(rule, in); ok {
			rec.SetField(rule.field, v)
		}
	}
	return rec
}

// Extract runs a default Extractor that logs nowhere.
func Extract(fragment string) models.ProjectRecord {
	return NewExtractor(nil).Extract(fragment)
}

func (e *Extractor) apply(rule fieldRule, in string) (v string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			err := models.NewScrapeError(models.ErrCodeFieldExtractionFailed,
				"field rule panicked", fmt.Errorf("%v", r))
			e.log.Warn("field extraction failed",
				logger.String("field", rule.field), logger.Error(err))
			v, ok = "", false
		}
	}()
	return rule.extract(in)
}

func safeTextOnly(fragment string, log logger.Logger) (text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("text rendering failed", logger.Any("panic", r))
			text = ""
		}
	}()
	return TextOnly(fragment)
}

// ReraNo returns the first registration number in text.
func ReraNo(text string) (string, bool) {
	m := reraNoRe.FindString(text)
	return m, m != ""
}

// ProjectName tries, in order, an upper-case name followed by "by", the
// first bold element and the first heading of raw markup.
func ProjectName(markup string) (string, bool) {
	for _, re := range []*regexp.Regexp{capsNameRe, boldNameRe, headingRe} {
		if v, ok := firstGroup(re, markup); ok {
			return v, true
		}
	}
	return "", false
}

// PromoterName returns the text after the first "by", up to an Address
// or Project Type label.
func PromoterName(text string) (string, bool) { return firstGroup(promoterRe, text) }

// Address returns the text after an "Address" label, up to a Project
// Type or Started From label.
func Address(text string) (string, bool) { return firstGroup(addressRe, text) }

// ProjectType returns one of Residential, Plotted Scheme or Commercial
// following a "Project Type" label.
func ProjectType(text string) (string, bool) { return firstGroup(typeRe, text) }

// StartedFrom returns a "Month, YYYY" period after "Started From".
func StartedFrom(text string) (string, bool) { return firstGroup(startedRe, text) }

// PossessionBy returns a "Month, YYYY" period after "Possession by".
func PossessionBy(text string) (string, bool) { return firstGroup(possessionRe, text) }

// UnitsAvailable returns the unit count preceding "Units Available".
func UnitsAvailable(text string) (string, bool) { return firstGroup(unitsRe, text) }

// firstGroup returns the trimmed first capture group of the first match.
// A match whose group trims to nothing counts as no match.
func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}
