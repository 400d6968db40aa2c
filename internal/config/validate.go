package config

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var settingsSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
})

// Problem is one rejected setting, keyed the way it is written in the config file.
type Problem struct {
	Key     string
	Message string
}

// SettingsError lists every rejected setting, ordered by key.
type SettingsError struct {
	Problems []Problem
}

func (e *SettingsError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Key+": "+p.Message)
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

// ValidateSettings checks raw settings, as read by viper, against the embedded
// settings schema. It returns a *SettingsError when any key is rejected.
func ValidateSettings(settings map[string]any) error {
	schema, err := settingsSchema()
	if err != nil {
		return fmt.Errorf("load config schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewGoLoader(settings))
	if err != nil {
		return fmt.Errorf("validate config schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]Problem, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, Problem{Key: settingKey(re), Message: re.Description()})
	}
	slices.SortStableFunc(problems, func(a, b Problem) int { return strings.Compare(a.Key, b.Key) })
	return &SettingsError{Problems: problems}
}

func settingKey(re gojsonschema.ResultError) string {
	key := re.Field()
	if key == gojsonschema.STRING_ROOT_SCHEMA_PROPERTY {
		key = ""
	}
	if prop, ok := re.Details()["property"].(string); ok && re.Type() == "required" {
		if key == "" {
			return prop
		}
		return key + "." + prop
	}
	if key == "" {
		return "config"
	}
	return key
}
