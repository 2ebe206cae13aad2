package rename

import "strings"

const (
	defaultDatabaseConstant    = "production"
	defaultCollectionConstant  = "books"
	defaultFilterFieldConstant = "category"
	defaultFilterValueConstant = "Tamil Books"
	defaultTitleFieldConstant  = "title"
	defaultStampFieldConstant  = "updatedAt"
)

// DefaultBatchLimit matches the Firestore cap on writes per batch.
const DefaultBatchLimit = 500

// TitleMapping maps one exact title to its replacement.
type TitleMapping struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// Correction sets the title of one document regardless of its current value.
type Correction struct {
	DocumentID string `mapstructure:"document_id"`
	Title      string `mapstructure:"title"`
}

// CommandConfiguration captures persisted configuration for the title rewrite.
type CommandConfiguration struct {
	Database    string         `mapstructure:"database"`
	Collection  string         `mapstructure:"collection"`
	FilterField string         `mapstructure:"filter_field"`
	FilterValue string         `mapstructure:"filter_value"`
	TitleField  string         `mapstructure:"title_field"`
	StampField  string         `mapstructure:"stamp_field"`
	BatchLimit  int            `mapstructure:"batch_limit"`
	Corrections []Correction   `mapstructure:"corrections"`
	Titles      []TitleMapping `mapstructure:"titles"`
}

// DefaultCommandConfiguration returns the Tamil book title rewrite.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Database:    defaultDatabaseConstant,
		Collection:  defaultCollectionConstant,
		FilterField: defaultFilterFieldConstant,
		FilterValue: defaultFilterValueConstant,
		TitleField:  defaultTitleFieldConstant,
		StampField:  defaultStampFieldConstant,
		BatchLimit:  DefaultBatchLimit,
		Corrections: []Correction{
			{DocumentID: "12q2kiiMYPIiWrWbea2k", Title: "கர்ம வினை"},
		},
		Titles: []TitleMapping{
			{From: "Agamiya-Karma", To: "ஆகாமிய கர்மா"},
			{From: "Karma Vinai", To: "கர்ம வினை"},
			{From: "Aanmagna-Ragasiam", To: "ஆன்ம ஞான ரகசியம்"},
			{From: "Aanmavai-Thurundu-Aanmavaga-Iru", To: "ஆன்மாவைத் துறந்து ஆன்மாவாக இரு"},
			{From: "Dhyanathai-Vidu-Gnanathai-Peru", To: "தியானத்தை விடு ஞானத்தைப் பெறு"},
			{From: "Gnana-Viduthalai", To: "ஞான விடுதலை"},
			{From: "Gnana Malarvu", To: "ஞான மலர்வு"},
			{From: "Gnana Pattarai", To: "ஞான பட்டறை"},
			{From: "Kavalaigal Anaithirkum Theervu", To: "கவலைகள் அனைத்தும் தீர்வு"},
			{From: "Nammai Arivom", To: "நம்மை அறிவோம்"},
			{From: "Pathu Kattalai", To: "பத்து கட்டளைகள்"},
			{From: "Sath Dharisanam", To: "சத் தரிசனம்"},
			{From: "Summa-Iru", To: "சும்மா இரு"},
			{From: "Vedantham", To: "வேதாந்தம்"},
			{From: "Gnana Viduthalai-Kavalaigal Anaithirkum Theervu - Combo", To: "ஞான விடுதலை (காம்போ)"},
			{From: "Summa Iru-Anma Gnanam-Anmavai Thuranthu Anmavaka Iru - Combo", To: "சும்மா இரு (காம்போ)"},
		},
	}
}

// Sanitize trims identifiers, drops incomplete entries, and restores defaults for empty values.
// Titles are matched exactly, so mapping values are kept verbatim.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := CommandConfiguration{
		Database:    strings.TrimSpace(configuration.Database),
		Collection:  strings.TrimSpace(configuration.Collection),
		FilterField: strings.TrimSpace(configuration.FilterField),
		FilterValue: configuration.FilterValue,
		TitleField:  strings.TrimSpace(configuration.TitleField),
		StampField:  strings.TrimSpace(configuration.StampField),
		BatchLimit:  configuration.BatchLimit,
		Corrections: sanitizeCorrections(configuration.Corrections),
		Titles:      sanitizeTitleMappings(configuration.Titles),
	}

	if len(sanitized.Database) == 0 {
		sanitized.Database = defaults.Database
	}
	if len(sanitized.Collection) == 0 {
		sanitized.Collection = defaults.Collection
	}
	if len(sanitized.FilterField) == 0 {
		sanitized.FilterField = defaults.FilterField
		sanitized.FilterValue = defaults.FilterValue
	}
	if len(sanitized.TitleField) == 0 {
		sanitized.TitleField = defaults.TitleField
	}
	if len(sanitized.StampField) == 0 {
		sanitized.StampField = defaults.StampField
	}
	if sanitized.BatchLimit <= 0 || sanitized.BatchLimit > DefaultBatchLimit {
		sanitized.BatchLimit = DefaultBatchLimit
	}
	if configuration.Corrections == nil {
		sanitized.Corrections = defaults.Corrections
	}
	if configuration.Titles == nil {
		sanitized.Titles = defaults.Titles
	}

	return sanitized
}

func sanitizeCorrections(corrections []Correction) []Correction {
	sanitized := make([]Correction, 0, len(corrections))
	for _, correction := range corrections {
		documentID := strings.TrimSpace(correction.DocumentID)
		if len(documentID) == 0 || len(correction.Title) == 0 {
			continue
		}
		sanitized = append(sanitized, Correction{DocumentID: documentID, Title: correction.Title})
	}
	return sanitized
}

func sanitizeTitleMappings(mappings []TitleMapping) []TitleMapping {
	sanitized := make([]TitleMapping, 0, len(mappings))
	for _, mapping := range mappings {
		if len(mapping.From) == 0 || len(mapping.To) == 0 {
			continue
		}
		sanitized = append(sanitized, mapping)
	}
	return sanitized
}
