package domain

// QueryRequest is the JSON body posted to the search endpoint
type QueryRequest struct {
	QueryString string   `json:"query_string"`
	ObjectTypes []string `json:"object_types"`
	Archived    bool     `json:"archived"`
}

// NewQueryRequest builds a request for a single object type
func NewQueryRequest(objectType, query string, archived bool) QueryRequest {
	return QueryRequest{
		QueryString: query,
		ObjectTypes: []string{objectType},
		Archived:    archived,
	}
}

// Suggestion is a single result returned by the search endpoint.
// Only the fields the widget renders are decoded.
type Suggestion struct {
	Title string `json:"title"`
}

// QueryResponse is the body of a successful search response
type QueryResponse struct {
	Data []Suggestion `json:"data"`
}

// Titles returns the suggestion titles in server order
func (r QueryResponse) Titles() []string {
	titles := make([]string, 0, len(r.Data))
	for _, s := range r.Data {
		titles = append(titles, s.Title)
	}
	return titles
}
