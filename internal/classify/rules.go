package classify

import (
	_ "embed"
	"fmt"
	"regexp"

	"github.com/brandsignal/brandsignal/internal/database"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// ruleSet mirrors the structure of rules.yaml.
type ruleSet struct {
	Sentiment struct {
		Positive []string `yaml:"positive"`
		Negative []string `yaml:"negative"`
	} `yaml:"sentiment"`
	Topics []struct {
		Label    string   `yaml:"label"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"topics"`
	UpdateTypes []struct {
		Type    string `yaml:"type"`
		Pattern string `yaml:"pattern"`
	} `yaml:"update_types"`
	Impact struct {
		HighImpact []string `yaml:"high_impact"`
	} `yaml:"impact"`
	QueryTags []struct {
		Tag     string `yaml:"tag"`
		Pattern string `yaml:"pattern"`
	} `yaml:"query_tags"`
	Priority struct {
		Urgent      []string `yaml:"urgent"`
		High        []string `yaml:"high"`
		HighPattern string   `yaml:"high_pattern"`
	} `yaml:"priority"`
}

// topicRule is one topic label with its trigger keywords.
type topicRule struct {
	label    string
	keywords []string
}

// typeRule is one step of the update-type cascade.
type typeRule struct {
	updateType database.UpdateType
	pattern    *regexp.Regexp
}

// tagRule is one query-tag check.
type tagRule struct {
	tag     database.QueryTagType
	pattern *regexp.Regexp
}

// Compiled rule tables, loaded once from the embedded rules.yaml.
var (
	positiveKeywords    []string
	negativeKeywords    []string
	topicRules          []topicRule
	typeRules           []typeRule
	highImpactKeywords  []string
	tagRules            []tagRule
	urgentKeywords      []string
	highKeywords        []string
	highPriorityPattern *regexp.Regexp
)

func init() {
	if err := loadRules(rulesYAML); err != nil {
		panic(fmt.Sprintf("classify: invalid embedded rules.yaml: %v", err))
	}
}

func loadRules(data []byte) error {
	var rs ruleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return err
	}

	positiveKeywords = rs.Sentiment.Positive
	negativeKeywords = rs.Sentiment.Negative
	highImpactKeywords = rs.Impact.HighImpact
	urgentKeywords = rs.Priority.Urgent
	highKeywords = rs.Priority.High

	topicRules = topicRules[:0]
	for _, t := range rs.Topics {
		topicRules = append(topicRules, topicRule{label: t.Label, keywords: t.Keywords})
	}

	typeRules = typeRules[:0]
	for _, r := range rs.UpdateTypes {
		ut, ok := database.ParseUpdateType(r.Type)
		if !ok {
			return fmt.Errorf("unknown update type %q", r.Type)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("update type %s: %w", r.Type, err)
		}
		typeRules = append(typeRules, typeRule{updateType: ut, pattern: re})
	}

	tagRules = tagRules[:0]
	for _, r := range rs.QueryTags {
		tag, ok := database.ParseQueryTagType(r.Tag)
		if !ok {
			return fmt.Errorf("unknown query tag %q", r.Tag)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return fmt.Errorf("query tag %s: %w", r.Tag, err)
		}
		tagRules = append(tagRules, tagRule{tag: tag, pattern: re})
	}

	re, err := regexp.Compile(rs.Priority.HighPattern)
	if err != nil {
		return fmt.Errorf("priority high_pattern: %w", err)
	}
	highPriorityPattern = re

	return nil
}
