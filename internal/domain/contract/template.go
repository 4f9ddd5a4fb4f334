package contract

// TemplateMeta describes a contract template. It is stamped onto assembled
// contracts and given to the reviewer as context.
type TemplateMeta struct {
	ID              string   `yaml:"id" json:"id"`
	Type            Type     `yaml:"type" json:"type"`
	Title           string   `yaml:"title" json:"title"`
	Version         string   `yaml:"version" json:"version"`
	Jurisdiction    string   `yaml:"jurisdiction" json:"jurisdiction"`
	GoverningLaw    string   `yaml:"governing_law" json:"governing_law"`
	Exclusive       bool     `yaml:"exclusive" json:"exclusive"`
	RequiredClauses []string `yaml:"required_clauses" json:"required_clauses"`
}

//Personal.AI order the ending
