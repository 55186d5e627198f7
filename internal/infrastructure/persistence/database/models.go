package database

import (
	"time"
)

// 说明：
// 1. 这里是infrastructure层的数据模型，包含GORM tag
// 2. domain层实体不依赖GORM，Repository负责两者之间的转换
// 3. 所有唯一性约束都落在数据库索引上，应用层不加锁

// UserModel 用户表
type UserModel struct {
	ID          uint      `gorm:"primaryKey"`
	Email       string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password    string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	DisplayName string    `gorm:"size:50;not null;comment:展示名"`
	AvatarURL   string    `gorm:"size:500;comment:头像地址"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string {
	return "users"
}

// CourseModel 课程表
type CourseModel struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"index;size:32;not null;comment:课程代码"`
	Title     string    `gorm:"size:200;not null;comment:课程名称"`
	Slug      string    `gorm:"uniqueIndex;size:255;not null;comment:URL标识"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (CourseModel) TableName() string {
	return "courses"
}

// TextbookModel 教材表
// isbn可为NULL；唯一索引允许多个NULL
type TextbookModel struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"index:idx_identity;size:200;not null;comment:书名"`
	Author    string    `gorm:"index:idx_identity;size:200;not null;comment:作者"`
	Edition   *string   `gorm:"size:50;comment:版次"`
	ISBN      *string   `gorm:"column:isbn;uniqueIndex;size:13;comment:ISBN（规范化）"`
	ImagePath *string   `gorm:"size:255;comment:封面对象key"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (TextbookModel) TableName() string {
	return "textbooks"
}

// CourseTextbookModel 课程-教材关联表
type CourseTextbookModel struct {
	ID         uint      `gorm:"primaryKey"`
	CourseID   uint      `gorm:"uniqueIndex:uk_course_textbook;not null;comment:课程ID"`
	TextbookID uint      `gorm:"uniqueIndex:uk_course_textbook;index;not null;comment:教材ID"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
}

func (CourseTextbookModel) TableName() string {
	return "course_textbooks"
}

// ReviewModel 评价表
// (user_id, course_textbook_id) 唯一：一人一评
type ReviewModel struct {
	ID               uint      `gorm:"primaryKey"`
	UserID           uint      `gorm:"uniqueIndex:uk_user_course_textbook;not null;comment:作者ID"`
	CourseTextbookID uint      `gorm:"uniqueIndex:uk_user_course_textbook;index;not null;comment:课程教材关联ID"`
	Rating           int       `gorm:"not null;comment:评分1-5"`
	Text             *string   `gorm:"type:text;comment:评价内容"`
	IsAnonymous      bool      `gorm:"not null;default:false;comment:是否匿名"`
	CreatedAt        time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt        time.Time `gorm:"comment:更新时间"`
}

func (ReviewModel) TableName() string {
	return "reviews"
}

// ReviewVoteModel 评价投票表
// (review_id, user_id) 唯一：一人一票
type ReviewVoteModel struct {
	ID        uint      `gorm:"primaryKey"`
	ReviewID  uint      `gorm:"uniqueIndex:uk_review_user;not null;comment:评价ID"`
	UserID    uint      `gorm:"uniqueIndex:uk_review_user;not null;comment:投票人ID"`
	IsUpvote  bool      `gorm:"not null;comment:true有用/false无用"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (ReviewVoteModel) TableName() string {
	return "review_votes"
}
