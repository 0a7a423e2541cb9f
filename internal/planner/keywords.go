// Package planner derives classification signals from an intake profile and
// turns them into an ordered, mutually-exclusive research task plan.
package planner

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// keywordTables holds the signal detection vocabulary. It is data rather
// than code so the matching strategy can be swapped without touching the
// planner contract.
type keywordTables struct {
	Holding struct {
		TypeOrName   []string   `yaml:"type_or_name"`
		TaxText      []string   `yaml:"tax_text"`
		JointTaxText [][]string `yaml:"joint_tax_text"`
	} `yaml:"holding"`
	ForcedBV struct {
		Name         []string `yaml:"name"`
		NameSuffixes []string `yaml:"name_suffixes"`
		CompanyType  []string `yaml:"company_type"`
	} `yaml:"forced_bv"`
	Tech struct {
		Industry        []string `yaml:"industry"`
		IndustryExclude []string `yaml:"industry_exclude"`
		IndustryAlways  []string `yaml:"industry_always"`
		Goals           []string `yaml:"goals"`
	} `yaml:"tech"`
	Speed struct {
		Timeline []string `yaml:"timeline"`
	} `yaml:"speed"`
}

var keywords = mustLoadKeywords()

func mustLoadKeywords() keywordTables {
	var kt keywordTables
	if err := yaml.Unmarshal(keywordsYAML, &kt); err != nil {
		panic("planner: invalid embedded keywords.yaml: " + err.Error())
	}
	return kt
}
