package registration

// Option is one selectable entry of a capability prompt.
type Option struct {
	Label string
	Value string
}

// Skills returns the fixed skill catalog offered during onboarding.
func Skills() []Option {
	return []Option{
		{"Java", "java"},
		{"Python", "python"},
		{"JavaScript", "javascript"},
		{"React", "react"},
		{"Spring Boot", "spring"},
		{"Node.js", "node"},
		{"C++", "cpp"},
		{"C#", "csharp"},
		{"ASP.NET", "aspnet"},
		{"SQL", "sql"},
		{"Git", "git"},
		{"Docker", "docker"},
		{"Linux", "linux"},
		{"Operating Systems", "os"},
		{"Data Science", "data_science"},
		{"Machine Learning", "ml"},
		{"Deep Learning", "dl"},
		{"Recommender Systems", "recommender"},
		{"Customer Service", "customer_service"},
		{"Security", "security"},
		{"Explainability", "explainability"},
		{"Software Tool", "software_tool"},
		{"Memory", "memory"},
		{"Cache Storage", "cache_storage"},
	}
}

// Positions returns the fixed position catalog offered during onboarding.
func Positions() []Option {
	return []Option{
		{"Backend", "backend"},
		{"Frontend", "frontend"},
		{"Full Stack", "fullstack"},
		{"Mobile", "mobile"},
		{"QA", "qa"},
		{"DevOps", "devops"},
		{"Data Science", "data"},
	}
}
