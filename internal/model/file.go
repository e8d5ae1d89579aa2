package model

// FileMetadata describes one file on the device
type FileMetadata struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}
