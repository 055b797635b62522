package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FileType string

const (
	FileTypeImage FileType = "image"
	FileTypeCSV   FileType = "csv"
	FileTypePDF   FileType = "pdf"
)

var fileTypes = []FileType{FileTypeImage, FileTypeCSV, FileTypePDF}

func (t FileType) Valid() bool {
	for _, ft := range fileTypes {
		if t == ft {
			return true
		}
	}
	return false
}

func ParseFileType(s string) (FileType, error) {
	t := FileType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown file type %q", s)
	}
	return t, nil
}

type File struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	OrgID        string             `bson:"org_id" json:"orgId"`
	StorageRef   string             `bson:"storage_ref" json:"storageRef"`
	Type         FileType           `bson:"type" json:"type"`
	OwnerID      primitive.ObjectID `bson:"user_id" json:"userId"`
	ShouldDelete bool               `bson:"should_delete" json:"shouldDelete"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// FileListing is a File as returned by listings, with a download URL resolved
// at read time. The URL is never stored.
type FileListing struct {
	File
	URL string `json:"url"`
}
