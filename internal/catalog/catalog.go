// Package catalog holds the fixed table of job domains and the roles offered
// under each.
package catalog

// Entry is one domain with its ordered, unique role list.
type Entry struct {
	Domain string   `json:"domain" mapstructure:"domain"`
	Roles  []string `json:"roles" mapstructure:"roles"`
}

type Catalog struct {
	order []string
	roles map[string][]string
	index map[string]map[string]struct{}
}

// New builds a catalog. Repeated roles within a domain keep their first
// position; a repeated domain merges into the first entry.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		roles: make(map[string][]string, len(entries)),
		index: make(map[string]map[string]struct{}, len(entries)),
	}
	for _, e := range entries {
		if e.Domain == "" {
			continue
		}
		set, ok := c.index[e.Domain]
		if !ok {
			set = make(map[string]struct{}, len(e.Roles))
			c.index[e.Domain] = set
			c.order = append(c.order, e.Domain)
		}
		for _, r := range e.Roles {
			if r == "" {
				continue
			}
			if _, dup := set[r]; dup {
				continue
			}
			set[r] = struct{}{}
			c.roles[e.Domain] = append(c.roles[e.Domain], r)
		}
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultEntries)
}

// Domains lists domains in table order.
func (c *Catalog) Domains() []string {
	return append([]string(nil), c.order...)
}

func (c *Catalog) HasDomain(domain string) bool {
	_, ok := c.index[domain]
	return ok
}

// RolesFor returns a copy of the roles for domain, empty when unknown.
func (c *Catalog) RolesFor(domain string) []string {
	return append([]string{}, c.roles[domain]...)
}

func (c *Catalog) IsValidRole(domain, role string) bool {
	set, ok := c.index[domain]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Entries returns the catalog as a table.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, d := range c.order {
		out = append(out, Entry{Domain: d, Roles: c.RolesFor(d)})
	}
	return out
}

var defaultEntries = []Entry{
	{
		Domain: "Data Science",
		Roles: []string{
			"Junior Data Analyst",
			"Data Science",
			"Machine Learning Engineer",
			"Junior Python Data Scientist",
			"Data Engineer",
			"Data Science",
		},
	},
	{
		Domain: "Artificial Intelligence",
		Roles: []string{
			"Junior AI Engineer",
			"Junior NLP Engineer",
			"Computer Vision Engineer",
		},
	},
	{
		Domain: "Cloud Computing",
		Roles: []string{
			"AWS Admin",
			"DevOps",
			"Cloud Engineer",
			"Cloud Developer",
			"Network Engineer",
			"Cyber Security",
		},
	},
	{
		Domain: "Full Stack",
		Roles: []string{
			"Java Full Stack Developer",
			"Python Full Stack Developer",
			"Frontend Developer",
			"Backend Developer",
			"Reactjs Developer",
			"Mern Stack Developer",
			"Cloud Developer",
			"Java Developer",
			"Python Developer",
			"JavaScript Developer",
			"Mobile App Developer",
			"Software Engineer",
			"Quality Assurance",
			"Business Analyst",
		},
	},
}
