package types

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

type LikeToggleResponse struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}
