package api

// Link is a single hypermedia navigation link.
type Link struct {
	Href string `json:"href"`
}

// Document is the response envelope: a data payload plus navigation links.
// The links are presentation only; handlers may reshape them freely.
type Document struct {
	Data  interface{}     `json:"data"`
	Links map[string]Link `json:"_links,omitempty"`
}

func newDocument(data interface{}, links map[string]string) Document {
	doc := Document{Data: data}
	if len(links) > 0 {
		doc.Links = make(map[string]Link, len(links))
		for rel, href := range links {
			doc.Links[rel] = Link{Href: href}
		}
	}
	return doc
}
