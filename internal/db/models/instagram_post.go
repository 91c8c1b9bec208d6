package models

// InstagramPost is a tile of the instagram grid.
type InstagramPost struct {
	Item
	ImageURL string `gorm:"column:image_url;size:1024;not null" json:"imageUrl" validate:"required"`
	PostURL  string `gorm:"column:post_url;size:1024" json:"postUrl"`
	Caption  string `gorm:"type:text" json:"caption"`
	Likes    int    `json:"likes" validate:"min=0"`
}

// ImageRefs implements ImageReferencer.
func (p *InstagramPost) ImageRefs() []string {
	return nonEmpty(p.ImageURL)
}
