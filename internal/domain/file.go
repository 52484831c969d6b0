package domain

import "time"

// File is the metadata row of an uploaded object. A nil PostID means the
// file is unattached; once set it is never cleared. Only the uploader can
// attach it to one of their posts.
type File struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	Filename   string    `gorm:"column:filename;size:255;uniqueIndex;not null" json:"filename"`
	UploadDate time.Time `gorm:"column:upload_date;index;not null" json:"upload_date"`
	FileType   string    `gorm:"column:file_type;size:100;not null" json:"file_type"`
	UploaderID int64     `gorm:"column:uploader_id;index;not null;default:0" json:"-"`
	PostID     *int64    `gorm:"column:post_id;index" json:"post_id,omitempty"`
	Post       *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	URL        string    `gorm:"-" json:"url,omitempty"`
}

func (File) TableName() string { return "files" }

func (f *File) Attached() bool { return f.PostID != nil }
