package cache

import (
	"path/filepath"
	"strings"
	"unicode"
)

// customersSuffix names the tenant-list file of each stack
const customersSuffix = "-customers.json"

// Key returns the filesystem-safe cache key for a stack: its name with every
// non-alphanumeric character removed, lower-cased.
func Key(stackName string) string {
	var b strings.Builder
	for _, r := range stackName {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// CustomersFile returns the tenant-list cache file name for a stack
func CustomersFile(stackName string) string {
	return Key(stackName) + customersSuffix
}

func isCustomersFile(name string) bool {
	return strings.HasSuffix(name, customersSuffix) && filepath.Base(name) == name
}

func keyFromFile(name string) string {
	return strings.TrimSuffix(name, customersSuffix)
}
