// Package rules maps filenames to category labels. Classification is a pure
// function of the filename and an immutable rule table built once at startup.
package rules

import (
	"path/filepath"
	"strings"
)

// Categories that exist independently of the extension table.
const (
	CategoryDocuments   = "Documents"
	CategoryTemp        = "Temp"
	CategoryNoExtension = "NoExtension"
	CategoryOther       = "Other"
)

// CategoryRule binds a category label to the extensions it claims.
type CategoryRule struct {
	Name       string
	Extensions []string
}

// DefaultRules returns the built-in extension table.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Name: "Images", Extensions: []string{"jpg", "jpeg", "png", "gif", "webp", "bmp", "tiff", "heic", "svg"}},
		{Name: "Videos", Extensions: []string{"mp4", "mkv", "mov", "avi", "wmv", "webm", "m4v"}},
		{Name: "Audio", Extensions: []string{"mp3", "wav", "flac", "aac", "m4a", "ogg", "opus"}},
		{Name: "Documents", Extensions: []string{"pdf", "doc", "docx", "txt", "rtf", "md", "odt"}},
		{Name: "Spreadsheets", Extensions: []string{"xls", "xlsx", "csv", "ods"}},
		{Name: "Presentations", Extensions: []string{"ppt", "pptx", "key", "odp"}},
		{Name: "Archives", Extensions: []string{"zip", "rar", "7z", "tar", "gz", "bz2", "xz"}},
		{Name: "Code", Extensions: []string{"py", "js", "ts", "java", "c", "cpp", "h", "hpp", "cs", "go", "rs", "php", "html", "css", "json", "yaml", "yml", "sql", "sh"}},
		{Name: "Executables", Extensions: []string{"exe", "msi", "dmg", "pkg", "deb", "rpm", "apk"}},
		{Name: "Fonts", Extensions: []string{"ttf", "otf", "woff", "woff2"}},
	}
}

// specialFiles are documentation-like basenames that classify ahead of every
// other rule, so a bare README never falls through to NoExtension.
var specialFiles = map[string]string{
	"readme":      CategoryDocuments,
	"readme.txt":  CategoryDocuments,
	"readme.md":   CategoryDocuments,
	"license":     CategoryDocuments,
	"license.txt": CategoryDocuments,
	"license.md":  CategoryDocuments,
}

// Temp-file markers: incomplete downloads, partial writes, and office
// document lock files.
var (
	tempSuffixes = []string{".tmp", ".part", ".crdownload"}
	tempPrefixes = []string{"~$"}
)

// RuleSet is a compiled, immutable classifier.
type RuleSet struct {
	categories []CategoryRule
	byExt      map[string]string
}

// New compiles a rule set. Custom rules are consulted before the built-in
// table; the first binding of an extension wins.
func New(custom []CategoryRule) *RuleSet {
	rs := &RuleSet{
		byExt: make(map[string]string),
	}
	for _, r := range append(append([]CategoryRule{}, custom...), DefaultRules()...) {
		rs.categories = append(rs.categories, r)
		for _, ext := range r.Extensions {
			ext = strings.ToLower(ext)
			if _, ok := rs.byExt[ext]; !ok {
				rs.byExt[ext] = r.Name
			}
		}
	}
	return rs
}

// Default returns a rule set with only the built-in table.
func Default() *RuleSet {
	return New(nil)
}

// Categories returns the compiled table in consultation order.
func (rs *RuleSet) Categories() []CategoryRule {
	out := make([]CategoryRule, len(rs.categories))
	copy(out, rs.categories)
	return out
}

// Classify maps a filename to its category label. Decision order, first
// match wins: special filename, temp-file heuristic, missing extension,
// extension table, Other. The ordering is load-bearing; special names and
// temp markers must short-circuit extension lookup.
func (rs *RuleSet) Classify(filename string) string {
	lower := strings.ToLower(filename)

	if cat, ok := specialFiles[lower]; ok {
		return cat
	}

	if isTemporary(lower) {
		return CategoryTemp
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return CategoryNoExtension
	}

	if cat, ok := rs.byExt[ext]; ok {
		return cat
	}

	return CategoryOther
}

// isTemporary applies the temp-file heuristic to a lower-cased filename.
func isTemporary(lower string) bool {
	for _, s := range tempSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	for _, p := range tempPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
