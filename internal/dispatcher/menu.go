package dispatcher

import "github.com/jobify/assistant/internal/registration"

// Component ids of the interactive surface. The transport renders them as
// buttons, select menus and modals and feeds interactions back by id.
const (
	ButtonStart         = "start"
	ButtonCreateProfile = "create_profile"
	ButtonResumeYes     = "cv_yes"
	ButtonResumeNo      = "cv_no"
	ButtonViewProfile   = "view_profile"
	ButtonMatchJobs     = "match_jobs"
	ButtonDeleteProfile = "delete_profile"
	ButtonFeedback      = "feedback"
	ButtonAsk           = "gpt_ask"

	SelectSkills    = "select_skills"
	SelectPositions = "select_position"

	ModalFeedback = "feedback_modal"

	starPrefix = "star_"
)

// Button is one clickable action offered to the user.
type Button struct {
	ID    string
	Label string
}

// Select is a multi-choice prompt.
type Select struct {
	ID          string
	Placeholder string
	MaxValues   int
	Options     []registration.Option
}

// Modal asks the user for a free-form text input.
type Modal struct {
	ID    string
	Label string
}

// Reply is one outbound message for the transport to render.
type Reply struct {
	Text    string
	Buttons []Button
	Select  *Select
	Modal   *Modal
}

func text(s string) Reply { return Reply{Text: s} }

func mainMenu() Reply {
	return Reply{
		Text: "What would you like to do next?",
		Buttons: []Button{
			{ButtonAsk, "Ask AI"},
			{ButtonViewProfile, "View Profile"},
			{ButtonCreateProfile, "Create Profile"},
			{ButtonMatchJobs, "Match Me"},
			{ButtonDeleteProfile, "Delete Profile"},
			{ButtonFeedback, "Feedback"},
		},
	}
}

func skillsPrompt() Reply {
	return Reply{
		Text: "What are your primary skills or technologies?",
		Select: &Select{
			ID:          SelectSkills,
			Placeholder: "Select up to 5 skills",
			MaxValues:   5,
			Options:     registration.Skills(),
		},
	}
}

func positionsPrompt() Reply {
	return Reply{
		Text: "Which type of position are you seeking?",
		Select: &Select{
			ID:          SelectPositions,
			Placeholder: "Select up to 5 positions",
			MaxValues:   5,
			Options:     registration.Positions(),
		},
	}
}

func starsPrompt() Reply {
	return Reply{
		Text: "Thanks for your feedback! Please rate us:",
		Buttons: []Button{
			{starPrefix + "1", "1 star"},
			{starPrefix + "2", "2 stars"},
			{starPrefix + "3", "3 stars"},
			{starPrefix + "4", "4 stars"},
			{starPrefix + "5", "5 stars"},
		},
	}
}
