package utils

import (
	"strings"

	"github.com/joho/godotenv"
)

// UniqueSlice removes duplicated entries, keeping the first occurrence of each.
func UniqueSlice(slice []string) []string {
	keys := make(map[string]bool)
	var list []string
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}

// CleanupSlice drops empty and whitespace only entries.
func CleanupSlice(slice []string) []string {
	var cleanSlice []string
	for _, item := range slice {
		if strings.TrimSpace(item) == "" {
			continue
		}
		cleanSlice = append(cleanSlice, item)
	}
	return cleanSlice
}

// ReadEnv parses an env file (KEY=value per line) without touching the process environment.
func ReadEnv(file string) (map[string]string, error) {
	return godotenv.Read(file)
}

// JoinPath prefixes p with dir as-is, adding a single separator when dir does not end with one.
func JoinPath(dir, p string) string {
	switch {
	case dir == "":
		return p
	case strings.HasSuffix(dir, "/"):
		return dir + p
	default:
		return dir + "/" + p
	}
}
