package notify

// Card is a chat-ops message card (the MessageCard schema Teams incoming
// webhooks accept).
type Card struct {
	Type            string    `json:"@type"`
	Context         string    `json:"@context"`
	Summary         string    `json:"summary"`
	ThemeColor      string    `json:"themeColor"`
	Sections        []Section `json:"sections"`
	PotentialAction []Action  `json:"potentialAction,omitempty"`
}

// Section is one card section with a facts table.
type Section struct {
	ActivityTitle    string `json:"activityTitle"`
	ActivitySubtitle string `json:"activitySubtitle,omitempty"`
	Facts            []Fact `json:"facts,omitempty"`
	Text             string `json:"text,omitempty"`
}

// Fact is a name/value row in a card facts table.
type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Action is a card action link.
type Action struct {
	Type    string   `json:"@type"`
	Name    string   `json:"name"`
	Targets []Target `json:"targets"`
}

// Target is an action link destination.
type Target struct {
	OS  string `json:"os"`
	URI string `json:"uri"`
}

const (
	cardType    = "MessageCard"
	cardContext = "https://schema.org/extensions"
	actionType  = "OpenUri"
)

// newAction builds a single-target OpenUri action.
func newAction(name, uri string) Action {
	return Action{
		Type:    actionType,
		Name:    name,
		Targets: []Target{{OS: "default", URI: uri}},
	}
}
