package api

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FileUpload carries an attachment the way the widget sends it: the Data field
// is a data URL ("data:<mime>;base64,<payload>").
type FileUpload struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Data string `json:"data"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
	File    *FileUpload   `json:"file,omitempty"`
}

type ChatResponse struct {
	Response string `json:"response"`
}
