package main

import (
	"errors"
	"io/fs"
	"os"
	"reflect"

	"github.com/rs/zerolog/log"
)

const (
	envExampleFile = ".env.example"
	configRefFile  = "config.gen.md"
)

// Writes the example env file and the configuration reference from the default configuration.
func main() {
	log.Info().Str("file", envExampleFile).Msg("Generating example env file")
	if err := writeGenerated(envExampleFile, generateExampleEnv()); err != nil {
		log.Fatal().Err(err).Msg("Failed to write example env file")
	}

	log.Info().Str("file", configRefFile).Msg("Generating configuration reference")
	if err := writeGenerated(configRefFile, generateMarkdown()); err != nil {
		log.Fatal().Err(err).Msg("Failed to write configuration reference")
	}
}

func writeGenerated(name string, content []byte) error {
	err := os.Remove(name)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(name, content, 0644)
}

func walkAndBuild[T any](parent reflect.Type, parentValue reflect.Value,
	parentPath string, entries *[]T,
	buildEntry func(child reflect.StructField, childValue reflect.Value, parentPath string, entries *[]T),
	buildChildPath func(parentPath string, child reflect.StructField) string,
) {
	for i := 0; i < parent.NumField(); i++ {
		field := parent.Field(i)
		fieldValue := parentValue.Field(i)

		if field.Tag.Get("yaml") == "-" {
			continue
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			walkAndBuild(field.Type, fieldValue, buildChildPath(parentPath, field), entries, buildEntry, buildChildPath)
		case reflect.Bool, reflect.String, reflect.Slice, reflect.Int:
			buildEntry(field, fieldValue, parentPath, entries)
		default:
			log.Warn().Str("field", field.Name).Str("kind", field.Type.Kind().String()).Msg("Skipping unsupported field type")
		}
	}
}
