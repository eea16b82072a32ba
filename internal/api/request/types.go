package request

// EmailLoginRequest is the request body for logging in with an email address
type EmailLoginRequest struct {
	Email    string  `json:"email"`
	Username *string `json:"username,omitempty"`
}

// CodeLoginRequest is the request body for escalating a session with a login code
type CodeLoginRequest struct {
	Code string `json:"code"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name          *string `json:"name,omitempty"`
	Code          *string `json:"code,omitempty"`
	Unprotected   bool    `json:"unprotected"`
	TutorialName  *string `json:"tutorial_name,omitempty"`
	TutorialIndex *int    `json:"tutorial_index,omitempty"`
}

// UpdateGameRequest is the request body for editing a game; omitted fields are unchanged
type UpdateGameRequest struct {
	Name *string `json:"name,omitempty"`
	Code *string `json:"code,omitempty"`
}
