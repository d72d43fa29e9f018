package config

import (
	"slices"

	"github.com/cowt/har-viewer/pkg/filter"
)

// Merge applies the non-zero values of source to target and records
// sourceType for each applied key.
func Merge(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources["logLevel"] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources["logFormat"] = sourceType
	}
	if source.LogFile != "" {
		target.LogFile = source.LogFile
		target.Sources["logFile"] = sourceType
	}
	if boolIsSet(source, "json") {
		target.JSON = source.JSON
		target.Sources["json"] = sourceType
	}

	mergeFilter(&target.Filter, source.Filter, target.Sources, sourceType)
}

func mergeFilter(target *filter.Criteria, source filter.Criteria, sources map[string]string, sourceType string) {
	if len(source.Domains) > 0 {
		target.Domains = slices.Clone(source.Domains)
		sources["filter.domains"] = sourceType
	}
	if source.StatusPrefix != "" {
		target.StatusPrefix = source.StatusPrefix
		sources["filter.status"] = sourceType
	}
	if source.Method != "" {
		target.Method = source.Method
		sources["filter.method"] = sourceType
	}
	if source.Keyword != "" {
		target.Keyword = source.Keyword
		sources["filter.keyword"] = sourceType
	}
	if source.Category != "" {
		target.Category = source.Category
		sources["filter.category"] = sourceType
	}
	if source.PathGlob != "" {
		target.PathGlob = source.PathGlob
		sources["filter.path"] = sourceType
	}
	if source.Expr != "" {
		target.Expr = source.Expr
		sources["filter.expr"] = sourceType
	}
	if source.JSONPath != "" {
		target.JSONPath = source.JSONPath
		sources["filter.jsonpath"] = sourceType
	}
}

// boolIsSet reports whether a boolean key was set explicitly. Without
// SetFields, only true counts as set.
func boolIsSet(cfg *Config, key string) bool {
	if cfg.SetFields != nil {
		return cfg.SetFields[key]
	}
	switch key {
	case "json":
		return cfg.JSON
	}
	return false
}
