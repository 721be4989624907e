package main

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/CakeInTech/faydapass/internal/config"
)

type EnvEntry struct {
	Name        string
	Description string
	Value       any
}

func generateExampleEnv() []byte {
	cfg := config.NewDefaultConfiguration()
	entries := make([]EnvEntry, 0)

	root := reflect.TypeOf(cfg).Elem()
	rootValue := reflect.ValueOf(cfg).Elem()

	walkAndBuild(root, rootValue, config.DefaultNamePrefix, &entries, buildEnvEntry, buildEnvChildPath)
	return compileEnv(entries)
}

func buildEnvEntry(field reflect.StructField, fieldValue reflect.Value, parentPath string, entries *[]EnvEntry) {
	entry := EnvEntry{
		Name:        parentPath + strings.ToUpper(field.Name),
		Description: field.Tag.Get("description"),
	}

	switch value := fieldValue.Interface().(type) {
	case []string:
		entry.Value = strings.Join(value, ",")
	case string:
		// quoted so values with spaces survive shell sourcing
		if value != "" {
			entry.Value = fmt.Sprintf(`"%s"`, value)
		} else {
			entry.Value = ""
		}
	default:
		entry.Value = value
	}

	*entries = append(*entries, entry)
}

func buildEnvChildPath(parentPath string, child reflect.StructField) string {
	return parentPath + strings.ToUpper(child.Name) + "_"
}

func compileEnv(entries []EnvEntry) []byte {
	buffer := bytes.Buffer{}
	buffer.WriteString("# FaydaPass example configuration\n\n")

	for _, entry := range entries {
		fmt.Fprintf(&buffer, "# %s\n%s=%v\n\n", entry.Description, entry.Name, entry.Value)
	}

	return buffer.Bytes()
}
