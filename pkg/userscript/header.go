package userscript

import (
	"bufio"
	"strconv"
	"strings"
)

const (
	headerOpen  = "// ==UserScript=="
	headerClose = "// ==/UserScript=="
)

// Metadata holds the fields read from a userscript metadata block.
type Metadata struct {
	Name        string
	Description string
	Version     string
	Match       []string
	Enabled     bool
}

// ParseMetadata reads the "// ==UserScript==" block at the top of code.
// ok is false when the block is missing or unterminated.
func ParseMetadata(code string) (meta Metadata, ok bool) {
	meta.Enabled = true

	scanner := bufio.NewScanner(strings.NewReader(code))
	inBlock := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if !inBlock {
			if line == headerOpen {
				inBlock = true
			}
			continue
		}
		if line == headerClose {
			return meta, true
		}

		key, value, found := parseHeaderLine(line)
		if !found {
			continue
		}

		switch key {
		case "name":
			meta.Name = value
		case "description":
			meta.Description = value
		case "version":
			meta.Version = value
		case "match":
			meta.Match = append(meta.Match, value)
		case "enabled":
			if b, err := strconv.ParseBool(value); err == nil {
				meta.Enabled = b
			}
		}
	}

	return meta, false
}

// parseHeaderLine splits "// @key   value" into its parts.
func parseHeaderLine(line string) (string, string, bool) {
	rest, found := strings.CutPrefix(line, "//")
	if !found {
		return "", "", false
	}
	rest = strings.TrimSpace(rest)

	rest, found = strings.CutPrefix(rest, "@")
	if !found {
		return "", "", false
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return "", "", false
	}

	key := fields[0]
	value := strings.TrimSpace(strings.TrimPrefix(rest, key))
	return key, value, true
}
