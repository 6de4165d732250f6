package webhook

// AppInfo identifies the emitting application inside a payload.
type AppInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

// Meta carries request-scoped context attached to an event.
type Meta struct {
	UserAgent string `json:"user_agent,omitempty"`
	PageURL   string `json:"page_url,omitempty"`
}

// Payload is one outbound event notification.
type Payload struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
	Source    string      `json:"source"`
	UserAgent string      `json:"user_agent,omitempty"`
	PageURL   string      `json:"page_url,omitempty"`
	App       AppInfo     `json:"app"`
}
