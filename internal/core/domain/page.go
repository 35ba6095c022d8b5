package domain

// Heading is a section heading found in a page.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Link is a hyperlink found in a page.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Image is an image reference found in a page.
type Image struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Title string `json:"title,omitempty"`
}

// PageFacts summarises the content and structure of a page.
type PageFacts struct {
	Title       string    `json:"title,omitempty"`
	WordCount   int       `json:"word_count"`
	ReadingTime int       `json:"reading_time_minutes"`
	Links       []Link    `json:"links"`
	Headings    []Heading `json:"headings"`
	Images      []Image   `json:"images"`
	Frames      int       `json:"frames"`
}

// Keyword is a frequently occurring word.
type Keyword struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// KeywordReport is the result of keyword extraction.
type KeywordReport struct {
	Keywords    []Keyword `json:"keywords"`
	TotalWords  int       `json:"total_words"`
	UniqueWords int       `json:"unique_words"`
}
