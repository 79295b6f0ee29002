package expertsai

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const deadlineLayout = "2006-01-02"

// Opportunity is a single normalized job or internship listing. Two instances
// describe the same listing iff their IDs match; the remaining fields are a
// snapshot taken at fetch time.
type Opportunity struct {
	ID          string
	Title       string
	Company     string
	Type        string
	Deadline    string
	Description string
	URL         string
	Wage        string
	HomeOffice  string
	Benefits    string
	FormalReq   string
	TechReq     string
	Contact     string
}

// rawListing mirrors the wire shape of an opportunity preview.
type rawListing struct {
	ID          int64  `json:"opportunityId"`
	Name        string `json:"opportunityName"`
	Description string `json:"opportunityDescription"`
	SignupDate  *int64 `json:"opportunitySignupDate"`
	ExtLink     string `json:"opportunityExtLink"`
	Wage        string `json:"opportunityWage"`
	HomeOffice  string `json:"opportunityHomeOffice"`
	Benefit     string `json:"opportunityBenefit"`
	FormReq     string `json:"opportunityFormReq"`
	TechReq     string `json:"opportunityTechReq"`
	JobTypes    []int  `json:"jobTypes"`

	Organizations []struct {
		Name string `json:"organizationName"`
	} `json:"organizationBaseDtos"`

	Experts []struct {
		Name string `json:"name"`
	} `json:"expertPreviews"`
}

func (l *rawListing) normalize() *Opportunity {
	company := "Unknown"
	if len(l.Organizations) > 0 && l.Organizations[0].Name != "" {
		company = l.Organizations[0].Name
	}

	jobType := "N/A"
	if len(l.JobTypes) > 0 {
		jobType = fmt.Sprintf("Type %d", l.JobTypes[0])
	}

	deadline := "N/A"
	if l.SignupDate != nil {
		deadline = time.UnixMilli(*l.SignupDate).UTC().Format(deadlineLayout)
	}

	contact := ""
	if len(l.Experts) > 0 {
		contact = l.Experts[0].Name
	}

	return &Opportunity{
		ID:          strconv.FormatInt(l.ID, 10),
		Title:       l.Name,
		Company:     company,
		Type:        jobType,
		Deadline:    deadline,
		Description: l.Description,
		URL:         l.ExtLink,
		Wage:        l.Wage,
		HomeOffice:  l.HomeOffice,
		Benefits:    l.Benefit,
		FormalReq:   l.FormReq,
		TechReq:     l.TechReq,
		Contact:     contact,
	}
}

// Describe renders the listing as a readable text block for chat replies and
// assistant prompts.
func (o *Opportunity) Describe() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Title: %s\n", o.Title)
	fmt.Fprintf(&b, "Company: %s\n", o.Company)
	fmt.Fprintf(&b, "Type: %s\n", o.Type)
	fmt.Fprintf(&b, "Deadline: %s\n", o.Deadline)

	optional := []struct {
		label string
		value string
	}{
		{"Salary", o.Wage},
		{"Home Office", o.HomeOffice},
		{"Formal Req", o.FormalReq},
		{"Tech Req", o.TechReq},
		{"Benefits", truncate(o.Benefits, 500)},
		{"Contact", o.Contact},
	}
	for _, field := range optional {
		if strings.TrimSpace(field.value) != "" {
			fmt.Fprintf(&b, "%s: %s\n", field.label, field.value)
		}
	}

	if strings.TrimSpace(o.Description) != "" {
		fmt.Fprintf(&b, "Description: %s\n", truncate(o.Description, 500))
	}
	if o.URL != "" {
		fmt.Fprintf(&b, "Apply: %s\n", o.URL)
	}

	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
