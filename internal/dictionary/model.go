package dictionary

import "github.com/locvowork/transtool/pkg/checker"

// Project is one entry of projects.json.
type Project struct {
	ID          string   `json:"id" yaml:"-"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	TermDict    string   `json:"termDict,omitempty" yaml:"termDict"`
}

// TermDictFile returns the configured glossary file or the conventional name.
func (p Project) TermDictFile() string {
	if p.TermDict != "" {
		return p.TermDict
	}
	return "termDict_" + p.ID + ".json"
}

type projectsFile struct {
	Projects OrderedMap[Project] `json:"projects" yaml:"projects"`
}

// ErrorEntry is one error term of errDict.json.
type ErrorEntry struct {
	Fix  string   `json:"fix" yaml:"fix"`
	Tags []string `json:"tags" yaml:"tags"`
}

// ErrorDictionary is the global errDict.json.
type ErrorDictionary struct {
	Version   string                 `json:"version" yaml:"version"`
	Err       OrderedMap[ErrorEntry] `json:"err" yaml:"err"`
	Warn      OrderedMap[string]     `json:"warn" yaml:"warn"`
	Repeat    []string               `json:"repeat" yaml:"repeat"`
	TransHint OrderedMap[string]     `json:"transhint" yaml:"transhint"`
}

// TermDictionary is a project glossary file.
type TermDictionary struct {
	Version string              `json:"version" yaml:"version"`
	Word    []checker.TermEntry `json:"word" yaml:"word"`
}

// ProjectBundle is the dictionary view of one project.
type ProjectBundle struct {
	Project         Project
	Bundle          *checker.Bundle
	ErrDictVersion  string
	TermDictVersion string
}

// FilterErrorTerms keeps the entries without tags and the entries sharing at least
// one tag with the project.
func FilterErrorTerms(entries OrderedMap[ErrorEntry], projectTags []string) []checker.Pair {
	tagSet := make(map[string]struct{}, len(projectTags))
	for _, t := range projectTags {
		tagSet[t] = struct{}{}
	}

	var out []checker.Pair
	for _, e := range entries {
		if !matchesAny(e.Value.Tags, tagSet) {
			continue
		}
		out = append(out, checker.Pair{Term: e.Key, Text: e.Value.Fix})
	}
	return out
}

func matchesAny(tags []string, set map[string]struct{}) bool {
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func toPairs(m OrderedMap[string]) []checker.Pair {
	out := make([]checker.Pair, len(m))
	for i, e := range m {
		out[i] = checker.Pair{Term: e.Key, Text: e.Value}
	}
	return out
}
