package model

// Post 论坛帖子
type Post struct {
	BaseModel
	UserID   uint    `gorm:"index;type:bigint unsigned" json:"userId"`
	Title    string  `gorm:"size:255;not null" json:"title"`
	Content  string  `gorm:"type:text;not null" json:"content"`
	Category string  `gorm:"size:100" json:"category"`
	Likes    int     `gorm:"default:0" json:"likes"`
	Replies  []Reply `gorm:"foreignKey:PostID" json:"replies,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

type Reply struct {
	BaseModel
	PostID  uint   `gorm:"index;type:bigint unsigned" json:"postId"`
	UserID  uint   `gorm:"index;type:bigint unsigned" json:"userId"`
	Content string `gorm:"type:text;not null" json:"content"`
	Likes   int    `gorm:"default:0" json:"likes"`
}

func (Reply) TableName() string {
	return "replies"
}
