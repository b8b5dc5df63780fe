package graph

// Wire shapes for the subset of the Graph REST API the scanner touches.

type userPage struct {
	Value []userResource `json:"value"`
}

type userResource struct {
	ID   string `json:"id"`
	Mail string `json:"mail"`
}

type messagePage struct {
	Value []messageResource `json:"value"`
}

type messageResource struct {
	ID           string       `json:"id"`
	Subject      string       `json:"subject"`
	SentDateTime string       `json:"sentDateTime"`
	From         emailHolder  `json:"from"`
	Body         *messageBody `json:"body,omitempty"`
}

type emailHolder struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
}

type messageBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type apiError struct {
	Err struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
