// Package skills compares the hard skills found in a resume with those
// required by a job description.
package skills

import (
	"fmt"
	"strings"
)

type MatchMode string

const (
	// MatchExact compares raw strings.
	MatchExact MatchMode = "exact"
	// MatchNormalized ignores case and surrounding or repeated whitespace.
	MatchNormalized MatchMode = "normalized"
)

func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(s))) {
	case MatchExact:
		return MatchExact, nil
	case MatchNormalized, "":
		return MatchNormalized, nil
	default:
		return "", fmt.Errorf("unknown skill match mode %q", s)
	}
}

// Comparison groups skills by where they appear. Matching and Extra follow
// resume order; Missing follows job order.
type Comparison struct {
	Matching []string `json:"matching"`
	Missing  []string `json:"missing"`
	Extra    []string `json:"extra"`
}

type Row struct {
	Skill            string `json:"skill"`
	InResume         bool   `json:"inResume"`
	InJobDescription bool   `json:"inJobDescription"`
}

// Rows lists matching, then missing, then extra skills.
func (c Comparison) Rows() []Row {
	rows := make([]Row, 0, len(c.Matching)+len(c.Missing)+len(c.Extra))
	for _, s := range c.Matching {
		rows = append(rows, Row{Skill: s, InResume: true, InJobDescription: true})
	}
	for _, s := range c.Missing {
		rows = append(rows, Row{Skill: s, InResume: false, InJobDescription: true})
	}
	for _, s := range c.Extra {
		rows = append(rows, Row{Skill: s, InResume: true, InJobDescription: false})
	}
	return rows
}

type Comparator struct {
	mode MatchMode
}

func NewComparator(mode MatchMode) *Comparator {
	if mode == "" {
		mode = MatchNormalized
	}
	return &Comparator{mode: mode}
}

func (c *Comparator) Mode() MatchMode {
	return c.mode
}

// Compare is pure: the inputs are not modified and equal inputs give equal
// output.
func (c *Comparator) Compare(resume, job []string) Comparison {
	resumeSkills, resumeKeys := c.index(resume)
	jobSkills, jobKeys := c.index(job)

	out := Comparison{
		Matching: []string{},
		Missing:  []string{},
		Extra:    []string{},
	}
	for _, s := range resumeSkills {
		if _, ok := jobKeys[c.key(s)]; ok {
			out.Matching = append(out.Matching, s)
		} else {
			out.Extra = append(out.Extra, s)
		}
	}
	for _, s := range jobSkills {
		if _, ok := resumeKeys[c.key(s)]; !ok {
			out.Missing = append(out.Missing, s)
		}
	}
	return out
}

// index drops empty entries and entries whose key was already seen, keeping
// the first spelling.
func (c *Comparator) index(in []string) ([]string, map[string]struct{}) {
	keys := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		k := c.key(s)
		if k == "" {
			continue
		}
		if _, dup := keys[k]; dup {
			continue
		}
		keys[k] = struct{}{}
		if c.mode == MatchNormalized {
			s = strings.TrimSpace(s)
		}
		out = append(out, s)
	}
	return out, keys
}

func (c *Comparator) key(s string) string {
	if c.mode == MatchExact {
		return s
	}
	return Normalize(s)
}

// Normalize lower-cases s and collapses runs of whitespace to one space.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Compare uses the normalized policy.
func Compare(resume, job []string) Comparison {
	return NewComparator(MatchNormalized).Compare(resume, job)
}
