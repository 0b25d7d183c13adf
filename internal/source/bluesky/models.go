package bluesky

type searchResponse struct {
	Posts []post `json:"posts"`
}

type post struct {
	URI         string `json:"uri"`
	CID         string `json:"cid"`
	Author      author `json:"author"`
	Record      record `json:"record"`
	Embed       *embed `json:"embed"`
	LikeCount   int    `json:"likeCount"`
	RepostCount int    `json:"repostCount"`
	ReplyCount  int    `json:"replyCount"`
}

type author struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"displayName"`
}

type record struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type embed struct {
	External *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
		Thumb string `json:"thumb"`
	} `json:"external"`
	Images []struct {
		Thumb    string `json:"thumb"`
		Fullsize string `json:"fullsize"`
	} `json:"images"`
}
