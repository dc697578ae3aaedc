package blending

import "strings"

// SkillNormalizer maps skill names onto canonical identities so that union
// and de-duplication across sources compare like with like. Injected at
// blender construction; the blender never loads a normalizer dynamically.
type SkillNormalizer interface {
	Normalize(skill string) string
}

// skillAliases maps common variant spellings to a canonical identity.
var skillAliases = map[string]string{
	"golang":              "go",
	"js":                  "javascript",
	"ts":                  "typescript",
	"k8s":                 "kubernetes",
	"postgres":            "postgresql",
	"psql":                "postgresql",
	"node":                "node.js",
	"nodejs":              "node.js",
	"react.js":            "react",
	"reactjs":             "react",
	"ml":                  "machine learning",
	"ai":                  "artificial intelligence",
	"gcp":                 "google cloud",
	"amazon web services": "aws",
}

// AliasNormalizer is the default SkillNormalizer: lower-case, trim, and
// resolve common aliases.
type AliasNormalizer struct{}

// Normalize returns the canonical identity for a skill name.
func (AliasNormalizer) Normalize(skill string) string {
	normalized := strings.ToLower(strings.TrimSpace(skill))
	if canonical, ok := skillAliases[normalized]; ok {
		return canonical
	}
	return normalized
}
