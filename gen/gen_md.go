package main

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/CakeInTech/faydapass/internal/config"
)

type MarkdownEntry struct {
	Section     string
	Env         string
	Flag        string
	Description string
	Default     string
}

const tableHeader = "| Environment | Flag | Description | Default |\n| - | - | - | - |\n"

func generateMarkdown() []byte {
	cfg := config.NewDefaultConfiguration()
	entries := make([]MarkdownEntry, 0)

	root := reflect.TypeOf(cfg).Elem()
	rootValue := reflect.ValueOf(cfg).Elem()

	walkAndBuild(root, rootValue, "", &entries, buildMdEntry, buildMdChildPath)
	return compileMd(entries)
}

func buildMdEntry(child reflect.StructField, childValue reflect.Value, parentPath string, entries *[]MarkdownEntry) {
	entry := MarkdownEntry{
		Env:         config.DefaultNamePrefix + strings.ToUpper(strings.ReplaceAll(parentPath, ".", "_")+child.Name),
		Flag:        "--" + parentPath + child.Tag.Get("yaml"),
		Description: child.Tag.Get("description"),
	}

	if section, _, found := strings.Cut(parentPath, "."); found {
		entry.Section = section
	}

	switch value := childValue.Interface().(type) {
	case []string:
		entry.Default = fmt.Sprintf("`%s`", strings.Join(value, ","))
	case string:
		if value == "" {
			entry.Default = "-"
		} else {
			entry.Default = fmt.Sprintf("`%s`", value)
		}
	default:
		entry.Default = fmt.Sprintf("`%v`", value)
	}

	*entries = append(*entries, entry)
}

func buildMdChildPath(parentPath string, child reflect.StructField) string {
	return parentPath + child.Tag.Get("yaml") + "."
}

func compileMd(entries []MarkdownEntry) []byte {
	buffer := bytes.Buffer{}

	buffer.WriteString("# FaydaPass configuration reference\n\n")
	buffer.WriteString(tableHeader)

	previousSection := ""

	for _, entry := range entries {
		if entry.Section != previousSection {
			buffer.WriteString("\n## " + entry.Section + "\n\n")
			buffer.WriteString(tableHeader)
			previousSection = entry.Section
		}
		fmt.Fprintf(&buffer, "| `%s` | `%s` | %s | %s |\n", entry.Env, entry.Flag, entry.Description, entry.Default)
	}

	return buffer.Bytes()
}
