package assets

// CreateAssetRequest is the payload for registering an asset.
type CreateAssetRequest struct {
	Tag      string `json:"tag" validate:"required,min=2,max=32"`
	Name     string `json:"name" validate:"required,min=2,max=128"`
	Category string `json:"category" validate:"required,max=64"`
}

// UpdateAssetRequest is the payload for editing asset metadata.
type UpdateAssetRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=128"`
	Category string `json:"category" validate:"required,max=64"`
	Status   string `json:"status" validate:"required"`
}

// AssignAssetRequest names the user account receiving the asset.
type AssignAssetRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
}
