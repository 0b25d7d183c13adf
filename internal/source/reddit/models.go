package reddit

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Permalink   string   `json:"permalink"`
	Score       int      `json:"score"`
	NumComments int      `json:"num_comments"`
	Thumbnail   string   `json:"thumbnail"`
	Subreddit   string   `json:"subreddit"`
	Author      string   `json:"author"`
	Selftext    string   `json:"selftext"`
	Over18      bool     `json:"over_18"`
	Stickied    bool     `json:"stickied"`
	Preview     *preview `json:"preview"`
}

type preview struct {
	Images []struct {
		Source struct {
			URL string `json:"url"`
		} `json:"source"`
	} `json:"images"`
}
