package handlers

// Link is a single hypermedia relation. The core never interprets
// links; they are assembled here for the presentation surface only.
type Link struct {
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
	Type  string `json:"type,omitempty"`
}

// Links maps a relation name to its link. Serialized as "_links".
type Links map[string]Link

// rootLink is the API entrypoint relation shared by most responses.
func rootLink() Link {
	return Link{Href: "/", Title: "API root"}
}

func sessionDocsLink() Link {
	return Link{Href: "/docs/session", Type: "text/markdown", Title: "Session semantics (MUST READ)"}
}
