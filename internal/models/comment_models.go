package models

import "strconv"

const (
	SentimentNegative = 0
	SentimentPositive = 1
)

// CommentRecord is the unit of data flowing through the pipeline: one fetched
// comment plus its derived sentiment label. PublishedAt keeps the upstream
// RFC3339 string untouched.
type CommentRecord struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	PublishedAt string `json:"publishedAt"`
	LikeCount   int64  `json:"likeCount"`
	Sentiment   int    `json:"sentiment"`
}

// CSVHeader returns the fixed export column order shared by the tabular formats.
func (c *CommentRecord) CSVHeader() []string {
	return []string{
		"author",
		"text",
		"publishedAt",
		"likeCount",
		"sentiment",
	}
}

func (c *CommentRecord) ToCSV() []string {
	return []string{
		c.Author,
		c.Text,
		c.PublishedAt,
		strconv.FormatInt(c.LikeCount, 10),
		strconv.Itoa(c.Sentiment),
	}
}
