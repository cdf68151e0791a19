// Package config defines the YAML-serializable dashboard configuration: where
// the export lives, how raw headers map to canonical names, which derived
// columns to compute, and what each chart section reads. The per-phase
// rename maps and derivation rules used to be re-implemented per dashboard
// revision; here they are data in one file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level dashboard configuration.
type Config struct {
	Dataset      Dataset          `yaml:"dataset"`
	Renames      []RenameRule     `yaml:"renames"`
	Derivations  []DerivationRule `yaml:"derivations"`
	Columns      Columns          `yaml:"columns"`
	KeyCountries []string         `yaml:"key_countries"`
	Text         Text             `yaml:"text"`
	TopN         int              `yaml:"top_n"`
	Server       Server           `yaml:"server"`
	Cache        bool             `yaml:"cache"`
}

// Dataset describes where the raw export lives and how to read it. Path and
// URL are alternatives; URL wins when both are set.
type Dataset struct {
	Path      string `yaml:"path"`
	URL       string `yaml:"url"`
	Delimiter string `yaml:"delimiter"`
	HasHeader bool   `yaml:"has_header"`
	TrimSpace bool   `yaml:"trim_space"`
}

// Ref returns the dataset reference the loader reads: the download URL when
// configured, otherwise the local path.
func (d Dataset) Ref() string {
	if d.URL != "" {
		return d.URL
	}
	return d.Path
}

// RenameRule maps a raw export header to its canonical short name.
type RenameRule struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// DerivationRule declares one derived categorical column.
// Kind selects the mapping implementation: "response_status" or
// "account_status".
type DerivationRule struct {
	Kind   string `yaml:"kind"`
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Columns names the canonical columns each report section reads. A section
// whose column is absent from the loaded data renders its missing-column
// placeholder; it never aborts the render.
type Columns struct {
	Country        string   `yaml:"country"`
	Channel        string   `yaml:"channel"`
	Source         string   `yaml:"source"`
	ResponseStatus string   `yaml:"response_status"`
	Industry       string   `yaml:"industry"`
	Stage          string   `yaml:"stage"`
	CompanyType    string   `yaml:"company_type"`
	Funding        string   `yaml:"funding"`
	AccountStatus  string   `yaml:"account_status"`
	ProductTypes   []Column `yaml:"product_types"`
	Listing        []string `yaml:"listing"`
}

// Column pairs a raw column name with the short label shown in charts.
type Column struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
}

// Text configures the word-frequency sections.
type Text struct {
	Fields         []Column `yaml:"fields"`
	ExtraStopwords []string `yaml:"extra_stopwords"`
	MinTokenLength int      `yaml:"min_token_length"`
	Stem           bool     `yaml:"stem"`
}

// Server configures the HTTP hand-off to the rendering front end.
type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads and decodes a YAML config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the Phase II dashboard configuration. The rename sources
// are the literal survey-tool headers, template placeholder and all; the
// Phase I spellings are included so both exports normalize to one schema.
func Default() *Config {
	return &Config{
		Dataset: Dataset{
			Path:      "Update-PitchData-Phase2.csv",
			Delimiter: ",",
			HasHeader: true,
			TrimSpace: true,
		},
		Renames: []RenameRule{
			{Source: "Country where {{field:4b95525c-36f9-47c2-b2e9-50b3e64a92cb}} is based:", Target: "country"},
			{Source: "渠道分类", Target: "channel"},
			{Source: "渠道", Target: "channel"},
			{Source: "SOURCE", Target: "source"},
			{Source: "Response Type", Target: "response_type"},
			{Source: "Company Name", Target: "company"},
			{Source: "First Name", Target: "first_name"},
			{Source: "Last Name", Target: "last_name"},
			{Source: "Which of the following industries best describes your company?", Target: "industry"},
			{Source: "What stage is your company currently in?", Target: "stage"},
			{Source: "My company is a", Target: "company_type"},
			{Source: "Do you have an Alibaba.com account?", Target: "alibaba_account"},
			{Source: "Has your company secured funding?", Target: "funding"},
			{Source: "Describe your solution and explain your key competitive advantages compared to existing alternatives", Target: "solution"},
			{Source: "Describe your business story that you’d like to share with us", Target: "business_story"},
			{Source: "What specific market problem does your company aim to solve?", Target: "problem"},
		},
		Derivations: []DerivationRule{
			{Kind: "response_status", Source: "response_type", Target: "response_status"},
			{Kind: "account_status", Source: "alibaba_account", Target: "account_status"},
		},
		Columns: Columns{
			Country:        "country",
			Channel:        "channel",
			Source:         "source",
			ResponseStatus: "response_status",
			Industry:       "industry",
			Stage:          "stage",
			CompanyType:    "company_type",
			Funding:        "funding",
			AccountStatus:  "account_status",
			ProductTypes: []Column{
				{Name: "Physical Products - Tangible goods that can be sold/distributed online", Label: "Physical Products"},
				{Name: "Digital Products - Software, apps, or digital solutions", Label: "Digital Products"},
				{Name: "Hardware + Software - Physical devices with digital components", Label: "Hardware + Software"},
				{Name: "Digital Services - Online platforms, marketplaces, or service delivery", Label: "Digital Services"},
				{Name: "Professional Services - Consulting, advisory, or traditional services", Label: "Professional Services"},
			},
			Listing: []string{
				"first_name", "last_name", "company", "country",
				"channel", "source", "response_status",
			},
		},
		KeyCountries: []string{
			"United States", "United Kingdom", "Germany", "France",
			"China", "India", "Singapore", "Australia", "Canada", "Japan",
		},
		Text: Text{
			Fields: []Column{
				{Name: "solution", Label: "Solution"},
				{Name: "business_story", Label: "Business Story"},
				{Name: "problem", Label: "Problem"},
			},
			MinTokenLength: 3,
		},
		TopN: 10,
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Cache: true,
	}
}

// DelimiterRune returns the configured delimiter as a rune, defaulting to ','.
func (d Dataset) DelimiterRune() rune {
	if d.Delimiter == "" {
		return ','
	}
	return []rune(d.Delimiter)[0]
}
